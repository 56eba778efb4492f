package client

import (
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/tomz197/tetris/internal/draw"
	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/loop/config"
	"github.com/tomz197/tetris/internal/loop/server"
)

// clearFlashDuration is how long the "+N LINES" note stays in the panel.
const clearFlashDuration = 1500 * time.Millisecond

// layout positions the board frame, the side panel and the status line
// inside the canvas. All coordinates are 0-based canvas cells.
type layout struct {
	boardCol, boardRow int
	boardW, boardH     int // Frame size, borders included
	panelCol           int
	statusRow          int
}

// computeLayout centers the board and panel in a canvasW x canvasH area.
// It reports false, together with the size it needs, when the area is too small.
func computeLayout(rows, cols, canvasW, canvasH int) (l layout, needW, needH int, ok bool) {
	l.boardW = cols*config.CellWidth + 2
	l.boardH = rows + 2
	needW = l.boardW + config.PanelGap + config.PanelWidth
	needH = l.boardH + 1
	if needW > canvasW || needH > canvasH {
		return l, needW, needH, false
	}

	l.boardCol = (canvasW - needW) / 2
	l.boardRow = (canvasH - needH) / 2
	l.panelCol = l.boardCol + l.boardW + config.PanelGap
	l.statusRow = l.boardRow + l.boardH
	return l, needW, needH, true
}

// drawFrame draws the current frame.
func (c *Client) drawFrame(now time.Time) error {
	c.canvas.Clear()

	snap := c.game.Snapshot()
	lobby := c.server.GetSnapshot()

	l, needW, needH, ok := computeLayout(snap.Rows, snap.Cols, c.canvas.Width(), c.canvas.Height())
	if ok {
		c.drawBoard(l, snap)
		c.drawPanel(l, snap, lobby, now)
		c.canvas.Text(l.boardCol, l.statusRow, "←→ move  ↑ rotate  ↓ drop  Q quit", draw.Gray)
		c.drawOverlay(l, snap, now)
	} else {
		c.drawTooSmall(needW, needH)
	}

	// Render canvas to terminal
	if err := c.canvas.Render(c.chunkWriter); err != nil {
		return err
	}
	return c.chunkWriter.Flush()
}

// colorOf converts an engine color to a terminal color, caching the parse.
func (c *Client) colorOf(gc game.Color) draw.Color {
	if dc, ok := c.colors[gc]; ok {
		return dc
	}
	dc, err := draw.ParseHex(string(gc))
	if err != nil {
		dc = draw.White
	}
	c.colors[gc] = dc
	return dc
}

// drawBlock paints one board cell, which spans CellWidth terminal columns.
func (c *Client) drawBlock(col, row int, ch rune, fg draw.Color) {
	for i := 0; i < config.CellWidth; i++ {
		c.canvas.Set(col+i, row, draw.Cell{Ch: ch, FG: fg})
	}
}

// drawBoard draws the frame, the settled stack and the active piece.
func (c *Client) drawBoard(l layout, snap game.Snapshot) {
	c.canvas.Box(l.boardCol, l.boardRow, l.boardW, l.boardH, draw.Gray)

	// A finished game is shown dimmed under the game-over box.
	block, shade := rune(draw.BlockFull), 1.0
	if snap.Over {
		block, shade = draw.BlockLight, 0.6
	}

	for y := 0; y < snap.Rows; y++ {
		for x := 0; x < snap.Cols; x++ {
			col := l.boardCol + 1 + x*config.CellWidth
			row := l.boardRow + 1 + y
			if color := snap.Cells[y][x]; color != game.Vacant {
				c.drawBlock(col, row, block, c.colorOf(color).Scale(shade))
			} else {
				c.canvas.Set(col+config.CellWidth-1, row, draw.Cell{Ch: '·', FG: draw.DarkGray})
			}
		}
	}

	if snap.Active == nil || !(snap.Running || snap.Over) {
		return
	}
	color := c.colorOf(snap.Active.Color).Scale(shade)
	for _, xy := range snap.Active.Cells() {
		x, y := xy[0], xy[1]
		if y < 0 || y >= snap.Rows || x < 0 || x >= snap.Cols {
			continue
		}
		c.drawBlock(l.boardCol+1+x*config.CellWidth, l.boardRow+1+y, block, color)
	}
}

// drawPanel draws the next-piece preview, progress and lobby information.
func (c *Client) drawPanel(l layout, snap game.Snapshot, lobby *server.LobbySnapshot, now time.Time) {
	c.canvas.Box(l.panelCol, l.boardRow, config.PanelWidth, l.boardH, draw.Gray)

	col := l.panelCol + 2
	width := config.PanelWidth - 4
	bottom := l.boardRow + l.boardH - 1
	line := func(row int, s string, fg draw.Color) {
		if row < bottom {
			c.canvas.Text(col, l.boardRow+row, s, fg)
		}
	}

	line(1, "NEXT", draw.White)
	if snap.Active != nil {
		color := c.colorOf(snap.Next.Color)
		for _, rc := range snap.Next.Matrix.Occupied() {
			row := 2 + rc[0]
			if l.boardRow+row < bottom {
				c.drawBlock(col+rc[1]*config.CellWidth, l.boardRow+row, draw.BlockFull, color)
			}
		}
	}

	line(7, fmt.Sprintf("Score %*d", width-6, snap.Score), draw.White)
	line(8, fmt.Sprintf("Level %*d", width-6, snap.Level), draw.White)
	line(9, fmt.Sprintf("Lines %*d", width-6, snap.Lines), draw.White)
	line(10, fmt.Sprintf("Speed %*s", width-6, fmt.Sprintf("%dms", snap.Interval.Milliseconds())), draw.Gray)

	if c.state.lastClear > 0 && now.Sub(c.state.lastClearAt) < clearFlashDuration {
		note := fmt.Sprintf("+%d LINES", c.state.lastClear)
		if c.state.lastClear == 1 {
			note = "+1 LINE"
		}
		line(11, note, draw.Yellow)
	}

	if lobby == nil {
		return
	}
	line(13, fmt.Sprintf("Players %*d", width-8, lobby.Players), draw.White)
	line(15, "TOP SCORES", draw.White)
	for i, e := range lobby.TopScores {
		fg := draw.Gray
		if e.Username == c.handle.Username {
			fg = draw.Cyan
		}
		line(16+i, fmt.Sprintf("%d %-9s %6d", i+1, truncate(e.Username, 9), e.Score), fg)
	}
}

// overlayLine is one row of text in a box drawn over the board.
type overlayLine struct {
	text string
	fg   draw.Color
}

// drawOverlay draws the message box for the current phase over the board interior.
func (c *Client) drawOverlay(l layout, snap game.Snapshot, now time.Time) {
	blinkOn := now.UnixMilli()/600%2 == 0
	prompt := func(s string) overlayLine {
		if blinkOn {
			return overlayLine{s, draw.Yellow}
		}
		return overlayLine{}
	}

	var lines []overlayLine
	switch {
	case c.state.GameState == GameStateShutdown:
		lines = []overlayLine{
			{"SHUTTING DOWN", draw.Red},
			{},
			{"Server restarting.", draw.White},
			{"Reconnect soon.", draw.White},
			{},
			{fmt.Sprintf("Closing in %ds", int(c.state.shutdownTimer)+1), draw.White},
			{"Q to leave now", draw.Gray},
		}
	case c.state.isInactive:
		remaining := int(config.InactivityDisconnectUser - now.Sub(c.lastInput).Seconds())
		lines = []overlayLine{
			{"ARE YOU THERE?", draw.Yellow},
			{},
			{fmt.Sprintf("Disconnect in %ds", max(remaining, 0)), draw.White},
			{},
			{"Press any key", draw.Gray},
		}
	case c.state.GameState == GameStateStart:
		lines = []overlayLine{
			{"T E T R I S", draw.Cyan},
			{},
			{"←→  A D   move", draw.White},
			{"↑   W     rotate", draw.White},
			{"↓   S     drop", draw.White},
			{"Q         quit", draw.White},
			{},
			prompt("SPACE to start"),
		}
	case c.state.GameState == GameStateOver:
		lines = []overlayLine{
			{"GAME OVER", draw.Red},
			{},
			{fmt.Sprintf("Score %d", c.state.FinalScore), draw.White},
			{fmt.Sprintf("Level %d", snap.Level), draw.White},
		}
		if c.state.Rank > 0 {
			lines = append(lines, overlayLine{fmt.Sprintf("Top score #%d!", c.state.Rank), draw.Yellow})
		}
		lines = append(lines, overlayLine{}, prompt("SPACE to restart"))
	default:
		return
	}

	interiorCol := l.boardCol + 1
	interiorW := l.boardW - 2
	top := l.boardRow + 1 + (l.boardH-2-len(lines))/2
	for i, ln := range lines {
		row := top + i
		c.canvas.Fill(interiorCol, row, interiorW, 1, draw.Cell{Ch: draw.BlockEmpty})
		n := utf8.RuneCountInString(ln.text)
		c.canvas.Text(interiorCol+(interiorW-n)/2, row, ln.text, ln.fg)
	}
}

// drawTooSmall replaces the game with a resize notice.
func (c *Client) drawTooSmall(needW, needH int) {
	mid := c.canvas.Height() / 2
	c.canvas.TextCentered(mid-1, "Terminal too small", draw.White)
	c.canvas.TextCentered(mid+1, fmt.Sprintf("Need %dx%d", needW, needH), draw.Gray)
}

// truncate shortens s to at most n runes.
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
