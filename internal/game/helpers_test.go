package game

import "time"

// manualClock is a Clock that only moves when told to.
type manualClock struct {
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) time.Time {
	c.now = c.now.Add(d)
	return c.now
}

// scriptedRandom returns kinds from a fixed cycle.
type scriptedRandom struct {
	kinds []Kind
	i     int
}

func script(kinds ...Kind) *scriptedRandom {
	return &scriptedRandom{kinds: kinds}
}

func (s *scriptedRandom) IntN(n int) int {
	k := s.kinds[s.i%len(s.kinds)]
	s.i++
	return int(k) % n
}

// recorder counts listener events.
type recorder struct {
	moves      int
	cleared    []int
	gameOvers  int
	finalScore int
}

func (r *recorder) OnMove()              { r.moves++ }
func (r *recorder) OnLinesCleared(n int) { r.cleared = append(r.cleared, n) }
func (r *recorder) OnGameOver(score int) {
	r.gameOvers++
	r.finalScore = score
}

// fillRow occupies every cell of row y except the listed columns.
func fillRow(b *Board, y int, except ...int) {
	skip := make(map[int]bool, len(except))
	for _, x := range except {
		skip[x] = true
	}
	for x := 0; x < b.Cols(); x++ {
		if !skip[x] {
			_ = b.Place(x, y, "#808080")
		}
	}
}
