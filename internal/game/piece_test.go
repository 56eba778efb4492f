package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollidesAtWallsAndFloor(t *testing.T) {
	b := NewBoard(20, 10)

	bar := NewPiece(ShapeOf(KindI), 0, 0)
	assert.True(t, bar.CollidesAt(b, -1, 0, nil), "left wall")
	assert.False(t, bar.CollidesAt(b, 6, 0, nil))
	assert.True(t, bar.CollidesAt(b, 7, 0, nil), "right wall")

	square := NewPiece(ShapeOf(KindO), 4, 18)
	assert.False(t, square.CollidesAt(b, 0, 0, nil))
	assert.True(t, square.CollidesAt(b, 0, 1, nil), "floor")
}

func TestCollidesAtSpawnBuffer(t *testing.T) {
	b := NewBoard(20, 10)
	fillRow(b, 0)

	square := NewPiece(ShapeOf(KindO), 4, -5)
	assert.False(t, square.CollidesAt(b, 0, 0, nil))
	assert.False(t, square.CollidesAt(b, 0, 3, nil), "rows -2 and -1 are free")
	assert.True(t, square.CollidesAt(b, 0, 4, nil), "row 0 is occupied")

	// Side walls still apply above the board.
	assert.True(t, square.CollidesAt(b, -5, 0, nil))
	assert.True(t, square.CollidesAt(b, 5, 0, nil))
}

func TestCollidesAtLockedCells(t *testing.T) {
	b := NewBoard(20, 10)
	require.NoError(t, b.Place(2, 10, "#ffffff"))

	square := NewPiece(ShapeOf(KindO), 3, 9)
	assert.False(t, square.CollidesAt(b, 0, 0, nil))
	assert.True(t, square.CollidesAt(b, -1, 0, nil))
	assert.False(t, square.MoveLeft(b))
	x, y := square.Position()
	assert.Equal(t, []int{3, 9}, []int{x, y})
}

func TestPieceMoves(t *testing.T) {
	b := NewBoard(20, 10)
	p := NewPiece(ShapeOf(KindT), 3, -2)

	assert.True(t, p.MoveLeft(b))
	assert.True(t, p.MoveRight(b))
	assert.True(t, p.MoveRight(b))
	assert.True(t, p.MoveDown(b))

	x, y := p.Position()
	assert.Equal(t, 4, x)
	assert.Equal(t, -1, y)
}

func TestMoveDownStopsOnFloor(t *testing.T) {
	b := NewBoard(20, 10)
	p := NewPiece(ShapeOf(KindO), 0, 17)

	assert.True(t, p.MoveDown(b))
	assert.False(t, p.MoveDown(b))
	_, y := p.Position()
	assert.Equal(t, 18, y)
}

func TestRotateRejectedAtWall(t *testing.T) {
	b := NewBoard(20, 10)
	vertical := Shape{Kind: KindI, Matrix: parseMatrix("#...", "#...", "#...", "#..."), Color: "#00f2fe"}

	p := NewPiece(vertical, 7, 5)
	require.False(t, p.CollidesAt(b, 0, 0, nil))

	// Clockwise the bar becomes the top row, which would span x = 7..10.
	assert.False(t, p.Rotate(b))
	assert.Equal(t, vertical.Matrix, p.Matrix())

	p = NewPiece(vertical, 6, 5)
	assert.True(t, p.Rotate(b))
	assert.Equal(t, parseMatrix("####", "....", "....", "...."), p.Matrix())
}

func TestRotateRejectedByLockedCell(t *testing.T) {
	b := NewBoard(20, 10)
	p := NewPiece(ShapeOf(KindT), 3, 5)
	// Clockwise T occupies column 5 in rows 5..7; block row 7.
	require.NoError(t, b.Place(5, 7, "#ffffff"))

	assert.False(t, p.Rotate(b))
	assert.Equal(t, ShapeOf(KindT).Matrix, p.Matrix())
}

func TestLockWritesCells(t *testing.T) {
	b := NewBoard(20, 10)
	p := NewPiece(ShapeOf(KindO), 0, 18)

	require.NoError(t, p.Lock(b))
	for _, xy := range [][2]int{{0, 18}, {1, 18}, {0, 19}, {1, 19}} {
		assert.Equal(t, Color("#ffff00"), b.Cell(xy[0], xy[1]))
	}
}

func TestLockAboveBoardLeavesBoardUntouched(t *testing.T) {
	b := NewBoard(20, 10)
	p := NewPiece(ShapeOf(KindO), 3, -1)

	assert.ErrorIs(t, p.Lock(b), ErrLockAboveBoard)
	assert.Equal(t, NewBoard(20, 10).Cells(), b.Cells(), "row 0 cells must not be written")
}
