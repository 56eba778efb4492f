// Package game implements the falling-block puzzle engine: the board, the active
// piece, the piece source, score progression and the timed drop loop.
//
// The package has no knowledge of terminals, audio or input devices. Shells drive it
// through commands and Tick, observe it through a Listener and redraw from Snapshot.
package game

import "time"

// Rules holds the fixed parameters of a game.
type Rules struct {
	Rows int // Visible board rows
	Cols int // Board columns

	// Spawn anchor. SpawnY is negative so pieces enter from the buffer above the board.
	SpawnX int
	SpawnY int

	LineBonus      int // Points per cleared row
	LevelThreshold int // Points per level

	BaseInterval time.Duration // Drop interval formula base
	IntervalStep time.Duration // Interval reduction per level
	MinInterval  time.Duration // Interval floor
}

// DefaultRules returns the standard 10x20 game.
func DefaultRules() Rules {
	return Rules{
		Rows:           20,
		Cols:           10,
		SpawnX:         3,
		SpawnY:         -2,
		LineBonus:      100,
		LevelThreshold: 500,
		BaseInterval:   600 * time.Millisecond,
		IntervalStep:   50 * time.Millisecond,
		MinInterval:    100 * time.Millisecond,
	}
}

// LevelFor returns the level reached with the given score.
func (r Rules) LevelFor(score int) int {
	return score/r.LevelThreshold + 1
}

// IntervalFor returns the drop interval used at the given level.
func (r Rules) IntervalFor(level int) time.Duration {
	interval := r.BaseInterval - time.Duration(level)*r.IntervalStep
	if interval < r.MinInterval {
		return r.MinInterval
	}
	return interval
}
