package game

import "errors"

// ErrLockAboveBoard is returned by Lock when part of the piece is still in the spawn
// buffer above the visible board. It ends the game.
var ErrLockAboveBoard = errors.New("piece locked above the board")

// Piece is the active, player-controlled tetromino.
type Piece struct {
	kind   Kind
	matrix Matrix
	color  Color
	x, y   int
}

// NewPiece spawns a piece from shape with its matrix's top-left corner at (x, y).
func NewPiece(shape Shape, x, y int) *Piece {
	return &Piece{
		kind:   shape.Kind,
		matrix: shape.Matrix.Clone(),
		color:  shape.Color,
		x:      x,
		y:      y,
	}
}

// Kind returns the piece's shape kind.
func (p *Piece) Kind() Kind { return p.kind }

// Color returns the piece's color.
func (p *Piece) Color() Color { return p.color }

// Position returns the anchor of the matrix's top-left corner.
func (p *Piece) Position() (x, y int) { return p.x, p.y }

// Matrix returns a copy of the current rotation state.
func (p *Piece) Matrix() Matrix { return p.matrix.Clone() }

// CollidesAt reports whether the piece, shifted by (dx, dy) and using matrix m,
// would overlap a wall, the floor or a locked cell. A nil m tests the current matrix.
//
// Cells above the board never collide, so pieces can spawn partly hidden.
func (p *Piece) CollidesAt(b *Board, dx, dy int, m Matrix) bool {
	if m == nil {
		m = p.matrix
	}
	for r, row := range m {
		for c, filled := range row {
			if !filled {
				continue
			}
			nx := p.x + c + dx
			ny := p.y + r + dy
			if !b.InBoundsHorizontally(nx) || ny >= b.Rows() {
				return true
			}
			if ny < 0 {
				continue
			}
			if !b.IsVacant(nx, ny) {
				return true
			}
		}
	}
	return false
}

// MoveLeft shifts the piece one column left if there is room.
func (p *Piece) MoveLeft(b *Board) bool {
	return p.shift(b, -1, 0)
}

// MoveRight shifts the piece one column right if there is room.
func (p *Piece) MoveRight(b *Board) bool {
	return p.shift(b, 1, 0)
}

// MoveDown shifts the piece one row down. It returns false when the piece is resting
// on something, in which case the caller must lock it.
func (p *Piece) MoveDown(b *Board) bool {
	return p.shift(b, 0, 1)
}

func (p *Piece) shift(b *Board, dx, dy int) bool {
	if p.CollidesAt(b, dx, dy, nil) {
		return false
	}
	p.x += dx
	p.y += dy
	return true
}

// Rotate turns the piece clockwise in place. Blocked rotations are rejected
// without trying alternative positions.
func (p *Piece) Rotate(b *Board) bool {
	next := p.matrix.Rotate()
	if p.CollidesAt(b, 0, 0, next) {
		return false
	}
	p.matrix = next
	return true
}

// Lock writes the piece's cells into the board.
//
// All cells are validated before any is written: if one of them is above the board,
// ErrLockAboveBoard is returned and the board is left untouched.
func (p *Piece) Lock(b *Board) error {
	cells := p.matrix.Occupied()
	for _, rc := range cells {
		if p.y+rc[0] < 0 {
			return ErrLockAboveBoard
		}
	}
	for _, rc := range cells {
		if err := b.Place(p.x+rc[1], p.y+rc[0], p.color); err != nil {
			return err
		}
	}
	return nil
}
