package game

import "errors"

// ErrOutOfBounds is returned when a write targets a cell outside the board.
var ErrOutOfBounds = errors.New("cell out of bounds")

// Color identifies the color of an occupied cell, as a "#rrggbb" string.
// The zero value marks a vacant cell.
type Color string

// Vacant is the color of an empty cell.
const Vacant Color = ""

// Board is the grid of locked cells. Row 0 is the top of the visible area.
type Board struct {
	rows  int
	cols  int
	cells [][]Color // [row][col]
}

// NewBoard creates an empty board. Its dimensions never change afterwards.
func NewBoard(rows, cols int) *Board {
	b := &Board{rows: rows, cols: cols, cells: make([][]Color, rows)}
	for r := range b.cells {
		b.cells[r] = make([]Color, cols)
	}
	return b
}

// Rows returns the number of rows.
func (b *Board) Rows() int { return b.rows }

// Cols returns the number of columns.
func (b *Board) Cols() int { return b.cols }

// InBoundsHorizontally reports whether column x exists.
func (b *Board) InBoundsHorizontally(x int) bool {
	return x >= 0 && x < b.cols
}

// IsVacant reports whether (x, y) can hold a piece cell.
// Cells above the board (y < 0) have no backing and are always vacant.
func (b *Board) IsVacant(x, y int) bool {
	if y < 0 {
		return true
	}
	if !b.InBoundsHorizontally(x) || y >= b.rows {
		return false
	}
	return b.cells[y][x] == Vacant
}

// Cell returns the color at (x, y), or Vacant outside the board.
func (b *Board) Cell(x, y int) Color {
	if !b.InBoundsHorizontally(x) || y < 0 || y >= b.rows {
		return Vacant
	}
	return b.cells[y][x]
}

// Place marks (x, y) as occupied with color.
func (b *Board) Place(x, y int, color Color) error {
	if !b.InBoundsHorizontally(x) || y < 0 || y >= b.rows {
		return ErrOutOfBounds
	}
	b.cells[y][x] = color
	return nil
}

// ClearFullRows removes every full row and returns how many were removed.
//
// Rows are scanned once from top to bottom. A full row is spliced out and a vacant
// row is inserted at the top, so the rows above it shift down by one and keep their
// relative order.
func (b *Board) ClearFullRows() int {
	cleared := 0
	for r := 0; r < b.rows; r++ {
		if !b.rowFull(r) {
			continue
		}
		copy(b.cells[1:r+1], b.cells[0:r])
		b.cells[0] = make([]Color, b.cols)
		cleared++
	}
	return cleared
}

func (b *Board) rowFull(r int) bool {
	for _, c := range b.cells[r] {
		if c == Vacant {
			return false
		}
	}
	return true
}

// Cells returns a deep copy of the grid, indexed [row][col].
func (b *Board) Cells() [][]Color {
	out := make([][]Color, b.rows)
	for r, row := range b.cells {
		out[r] = append([]Color(nil), row...)
	}
	return out
}
