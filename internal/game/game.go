package game

import (
	"math/rand/v2"
	"time"
)

// Command is a discrete player action applied to the active piece.
type Command int

const (
	CommandNone Command = iota
	CommandLeft
	CommandRight
	CommandRotate
	CommandSoftDrop
)

// Game owns one board, its active piece and the progression state, and drives them
// from commands and clock ticks. It is not safe for concurrent use: shells call it
// from a single loop so every command or tick runs to completion before the next.
type Game struct {
	rules    Rules
	rng      Randomizer
	clock    Clock
	listener Listener

	board    *Board
	piece    *Piece
	source   *Source
	progress Progress

	running  bool
	over     bool
	lastDrop time.Time
}

// Option configures a Game.
type Option func(*Game)

// WithRules overrides DefaultRules.
func WithRules(r Rules) Option {
	return func(g *Game) { g.rules = r }
}

// WithRandom sets the source of piece choices.
func WithRandom(r Randomizer) Option {
	return func(g *Game) { g.rng = r }
}

// WithClock sets the clock used to schedule drops.
func WithClock(c Clock) Option {
	return func(g *Game) { g.clock = c }
}

// WithListener sets the event listener.
func WithListener(l Listener) Option {
	return func(g *Game) { g.listener = l }
}

// New creates a stopped game. Call Start to begin playing.
func New(opts ...Option) *Game {
	g := &Game{
		rules:    DefaultRules(),
		clock:    SystemClock{},
		listener: NopListener{},
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.rng == nil {
		g.rng = rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
	}
	g.board = NewBoard(g.rules.Rows, g.rules.Cols)
	g.progress = NewProgress(g.rules)
	return g
}

// Start begins a fresh game: empty board, score 0, level 1, base interval, a new
// pending shape which immediately becomes the active piece.
func (g *Game) Start() {
	g.board = NewBoard(g.rules.Rows, g.rules.Cols)
	g.progress = NewProgress(g.rules)
	g.source = NewSource(g.rng, g.rules.SpawnX, g.rules.SpawnY)
	g.piece = g.source.Advance()
	g.over = false
	g.running = true
	g.lastDrop = g.clock.Now()
}

// Stop halts ticking and input without ending the game as lost.
func (g *Game) Stop() {
	g.running = false
}

// Running reports whether the game accepts commands and ticks.
func (g *Game) Running() bool { return g.running }

// Over reports whether the last game ended by topping out.
func (g *Game) Over() bool { return g.over }

// Score returns the current score.
func (g *Game) Score() int { return g.progress.Score }

// Progress returns a copy of the score, level, lines and interval.
func (g *Game) Progress() Progress { return g.progress }

// Tick drops the active piece one row when at least one interval has passed since
// the previous drop. It is cheap when nothing is due and reports whether a drop happened.
func (g *Game) Tick(now time.Time) bool {
	if !g.running {
		return false
	}
	if now.Sub(g.lastDrop) < g.progress.Interval {
		return false
	}
	g.moveDown()
	g.lastDrop = now
	return true
}

// Update ticks with the game's clock.
func (g *Game) Update() bool {
	return g.Tick(g.clock.Now())
}

// Apply runs cmd against the active piece. Unknown commands are ignored.
func (g *Game) Apply(cmd Command) {
	switch cmd {
	case CommandLeft:
		g.MoveLeft()
	case CommandRight:
		g.MoveRight()
	case CommandRotate:
		g.Rotate()
	case CommandSoftDrop:
		g.SoftDrop()
	}
}

// MoveLeft shifts the active piece left when there is room.
func (g *Game) MoveLeft() {
	if g.running && g.piece.MoveLeft(g.board) {
		g.listener.OnMove()
	}
}

// MoveRight shifts the active piece right when there is room.
func (g *Game) MoveRight() {
	if g.running && g.piece.MoveRight(g.board) {
		g.listener.OnMove()
	}
}

// Rotate turns the active piece clockwise when there is room.
func (g *Game) Rotate() {
	if g.running && g.piece.Rotate(g.board) {
		g.listener.OnMove()
	}
}

// SoftDrop moves the active piece down one row, locking it if it is resting.
// The drop timer is not reset.
func (g *Game) SoftDrop() {
	if g.running {
		g.moveDown()
	}
}

func (g *Game) moveDown() {
	if g.piece.MoveDown(g.board) {
		return
	}
	g.lock()
}

// lock retires the active piece, clears rows and spawns the next piece.
func (g *Game) lock() {
	if err := g.piece.Lock(g.board); err != nil {
		// ErrLockAboveBoard: the stack reached the spawn buffer.
		g.gameOver()
		return
	}

	if n := g.board.ClearFullRows(); n > 0 {
		g.progress.AddLines(n)
		g.listener.OnLinesCleared(n)
	}
	g.piece = g.source.Advance()
}

func (g *Game) gameOver() {
	g.running = false
	g.over = true
	g.listener.OnGameOver(g.progress.Score)
}

// Snapshot copies the state a renderer needs.
func (g *Game) Snapshot() Snapshot {
	s := Snapshot{
		Rows:     g.board.Rows(),
		Cols:     g.board.Cols(),
		Cells:    g.board.Cells(),
		Score:    g.progress.Score,
		Level:    g.progress.Level,
		Lines:    g.progress.Lines,
		Interval: g.progress.Interval,
		Running:  g.running,
		Over:     g.over,
	}
	if g.piece != nil {
		x, y := g.piece.Position()
		s.Active = &PieceView{
			Kind:   g.piece.Kind(),
			Matrix: g.piece.Matrix(),
			Color:  g.piece.Color(),
			X:      x,
			Y:      y,
		}
	}
	if g.source != nil {
		s.Next = g.source.Peek()
	}
	return s
}
