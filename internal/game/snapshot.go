package game

import "time"

// PieceView describes the active piece for rendering.
type PieceView struct {
	Kind   Kind
	Matrix Matrix
	Color  Color
	X, Y   int
}

// Cells returns the absolute board coordinates (x, y) of every occupied cell.
func (v PieceView) Cells() [][2]int {
	occupied := v.Matrix.Occupied()
	out := make([][2]int, len(occupied))
	for i, rc := range occupied {
		out[i] = [2]int{v.X + rc[1], v.Y + rc[0]}
	}
	return out
}

// Snapshot is a read-only copy of everything a renderer needs.
// It shares no memory with the game.
type Snapshot struct {
	Rows, Cols int
	Cells      [][]Color  // [row][col]
	Active     *PieceView // nil before the first start
	Next       Shape
	Score      int
	Level      int
	Lines      int
	Interval   time.Duration
	Running    bool
	Over       bool
}
