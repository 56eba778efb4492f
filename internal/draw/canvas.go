package draw

import (
	"io"
	"strconv"
	"unicode/utf8"
)

// Block characters for drawing.
const (
	BlockFull  = '█'
	BlockLight = '░'
	BlockEmpty = ' '
)

// Cell is one character cell with its colors.
type Cell struct {
	Ch rune
	FG Color
	BG Color
}

var blank = Cell{Ch: BlockEmpty}

// Canvas is a grid of terminal cells. Render only emits cells that changed since
// the previous Render, which keeps frames small over SSH.
type Canvas struct {
	width  int
	height int
	cells  []Cell // Flat slice: [row*width + col]
	prev   []Cell // What the terminal currently shows
	force  bool   // Next Render repaints every cell

	// Offset for centering the render area when the terminal is larger than needed.
	// These are 0-based terminal offsets (columns/rows to skip).
	offsetCol int
	offsetRow int

	renderBuf []byte // Reused between frames
}

// NewCanvas creates a blank canvas of width x height cells.
func NewCanvas(width, height int) *Canvas {
	c := &Canvas{}
	c.Resize(width, height)
	return c
}

// Resize changes the canvas size. Contents are cleared and the next Render repaints.
func (c *Canvas) Resize(width, height int) {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	if width == c.width && height == c.height && c.cells != nil {
		return
	}
	c.width = width
	c.height = height
	c.cells = make([]Cell, width*height)
	c.prev = make([]Cell, width*height)
	c.Clear()
	c.force = true
}

// SetOffset sets the column and row offset for centering the canvas.
func (c *Canvas) SetOffset(col, row int) {
	if col != c.offsetCol || row != c.offsetRow {
		c.force = true
	}
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the column offset used for centering.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the row offset used for centering.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// Width returns the canvas width in cells.
func (c *Canvas) Width() int { return c.width }

// Height returns the canvas height in cells.
func (c *Canvas) Height() int { return c.height }

// ForceRedraw makes the next Render repaint every cell, e.g. after the terminal
// was cleared.
func (c *Canvas) ForceRedraw() {
	c.force = true
}

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = blank
	}
}

// At returns the cell at (col, row), 0-based. Outside the canvas it returns a blank cell.
func (c *Canvas) At(col, row int) Cell {
	if !c.inside(col, row) {
		return blank
	}
	return c.cells[row*c.width+col]
}

// Set writes one cell at (col, row), 0-based. Writes outside the canvas are dropped.
func (c *Canvas) Set(col, row int, cell Cell) {
	if c.inside(col, row) {
		c.cells[row*c.width+col] = cell
	}
}

// Fill paints a rectangle with cell.
func (c *Canvas) Fill(col, row, width, height int, cell Cell) {
	for r := row; r < row+height; r++ {
		for x := col; x < col+width; x++ {
			c.Set(x, r, cell)
		}
	}
}

// Text writes s starting at (col, row) in fg on the default background.
func (c *Canvas) Text(col, row int, s string, fg Color) {
	for _, ch := range s {
		c.Set(col, row, Cell{Ch: ch, FG: fg})
		col++
	}
}

// TextCentered writes s centered on row.
func (c *Canvas) TextCentered(row int, s string, fg Color) {
	c.Text((c.width-utf8.RuneCountInString(s))/2, row, s, fg)
}

// Box draws a single-line frame whose outer size is width x height.
func (c *Canvas) Box(col, row, width, height int, fg Color) {
	if width < 2 || height < 2 {
		return
	}
	right := col + width - 1
	bottom := row + height - 1
	for x := col + 1; x < right; x++ {
		c.Set(x, row, Cell{Ch: '─', FG: fg})
		c.Set(x, bottom, Cell{Ch: '─', FG: fg})
	}
	for y := row + 1; y < bottom; y++ {
		c.Set(col, y, Cell{Ch: '│', FG: fg})
		c.Set(right, y, Cell{Ch: '│', FG: fg})
	}
	c.Set(col, row, Cell{Ch: '┌', FG: fg})
	c.Set(right, row, Cell{Ch: '┐', FG: fg})
	c.Set(col, bottom, Cell{Ch: '└', FG: fg})
	c.Set(right, bottom, Cell{Ch: '┘', FG: fg})
}

func (c *Canvas) inside(col, row int) bool {
	return col >= 0 && col < c.width && row >= 0 && row < c.height
}

// Render writes the cells that changed since the last Render to w.
func (c *Canvas) Render(w io.Writer) error {
	buf := c.renderBuf[:0]

	var fg, bg Color
	styled := false
	cursorCol, cursorRow := -1, -1

	for row := 0; row < c.height; row++ {
		for col := 0; col < c.width; col++ {
			i := row*c.width + col
			cell := c.cells[i]
			if !c.force && cell == c.prev[i] {
				continue
			}
			c.prev[i] = cell

			if row != cursorRow || col != cursorCol {
				buf = append(buf, "\033["...)
				buf = strconv.AppendInt(buf, int64(row+1+c.offsetRow), 10)
				buf = append(buf, ';')
				buf = strconv.AppendInt(buf, int64(col+1+c.offsetCol), 10)
				buf = append(buf, 'H')
			}
			if !styled || cell.FG != fg {
				buf = appendFG(buf, cell.FG)
				fg = cell.FG
			}
			if !styled || cell.BG != bg {
				buf = appendBG(buf, cell.BG)
				bg = cell.BG
			}
			styled = true

			ch := cell.Ch
			if ch == 0 {
				ch = BlockEmpty
			}
			buf = utf8.AppendRune(buf, ch)
			cursorRow, cursorCol = row, col+1
		}
	}
	if styled {
		buf = append(buf, "\033[0m"...)
	}
	c.force = false
	c.renderBuf = buf

	return writeChunks(w, string(buf))
}
