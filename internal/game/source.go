package game

// Randomizer picks an integer in [0, n). *rand.Rand from math/rand/v2 satisfies it.
type Randomizer interface {
	IntN(n int) int
}

// Source produces the sequence of pieces. It always holds exactly one pending shape
// for the preview; it never looks at the board.
type Source struct {
	rng    Randomizer
	spawnX int
	spawnY int
	next   Shape
}

// NewSource creates a source that spawns pieces at (spawnX, spawnY) and immediately
// draws the first pending shape.
func NewSource(rng Randomizer, spawnX, spawnY int) *Source {
	s := &Source{rng: rng, spawnX: spawnX, spawnY: spawnY}
	s.next = s.Next()
	return s
}

// Next draws a fresh shape uniformly at random. It does not touch the pending slot.
func (s *Source) Next() Shape {
	return ShapeOf(Kind(s.rng.IntN(NumKinds)))
}

// Peek returns a copy of the pending shape.
func (s *Source) Peek() Shape {
	return Shape{Kind: s.next.Kind, Matrix: s.next.Matrix.Clone(), Color: s.next.Color}
}

// Advance spawns the pending shape as a new piece and refills the pending slot.
func (s *Source) Advance() *Piece {
	p := NewPiece(s.next, s.spawnX, s.spawnY)
	s.next = s.Next()
	return p
}
