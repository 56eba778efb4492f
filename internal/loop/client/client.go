package client

import (
	"bufio"
	"io"
	"time"

	"github.com/tomz197/tetris/internal/draw"
	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/input"
	"github.com/tomz197/tetris/internal/loop/config"
	"github.com/tomz197/tetris/internal/loop/server"
	"github.com/tomz197/tetris/internal/sound"
)

// Client runs one player's game and handles rendering and input for a single connection.
type Client struct {
	server       server.GameServer
	handle       *server.ClientHandle
	state        *ClientState
	game         *game.Game
	clock        game.Clock
	canvas       *draw.Canvas
	chunkWriter  *draw.ChunkWriter // Accumulates frame output for chunked writes
	writer       io.Writer
	inputStream  *input.Stream
	input        input.Input
	lastInput    time.Time
	lastFrame    time.Time
	colors       map[game.Color]draw.Color
	termSizeFunc draw.TermSizeFunc
}

// ClientOptions configures the client.
type ClientOptions struct {
	TermSizeFunc draw.TermSizeFunc
	Username     string
	Listener     game.Listener   // Extra event sink, e.g. sound; may be nil
	Bell         bool            // Ring the terminal bell on clears and game over
	Random       game.Randomizer // Piece source; nil means randomly seeded
	Clock        game.Clock      // nil means the system clock
	Rules        *game.Rules     // nil means game.DefaultRules
}

// NewClient creates a new client connected to the given server.
func NewClient(gs server.GameServer, r *bufio.Reader, w io.Writer, opts ClientOptions) *Client {
	termSizeFunc := opts.TermSizeFunc
	if termSizeFunc == nil {
		termSizeFunc = draw.DefaultTermSizeFunc
	}
	clock := opts.Clock
	if clock == nil {
		clock = game.SystemClock{}
	}

	handle := gs.RegisterClient(opts.Username)

	// Create canvas with clamped dimensions for max render resolution
	termWidth, termHeight, _ := termSizeFunc()
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)
	canvas := draw.NewCanvas(renderWidth, renderHeight)
	canvas.SetOffset(offsetCol, offsetRow)

	now := clock.Now()
	c := &Client{
		server:       gs,
		handle:       handle,
		state:        NewClientState(),
		clock:        clock,
		canvas:       canvas,
		chunkWriter:  draw.NewChunkWriter(w),
		writer:       w,
		inputStream:  input.StartStream(r),
		lastInput:    now,
		lastFrame:    now,
		colors:       make(map[game.Color]draw.Color),
		termSizeFunc: termSizeFunc,
	}

	listeners := game.Listeners{clientEvents{c}}
	if opts.Listener != nil {
		listeners = append(listeners, opts.Listener)
	}
	if opts.Bell {
		listeners = append(listeners, sound.Bell{W: c.chunkWriter})
	}
	gameOpts := []game.Option{game.WithClock(clock), game.WithListener(listeners)}
	if opts.Random != nil {
		gameOpts = append(gameOpts, game.WithRandom(opts.Random))
	}
	if opts.Rules != nil {
		gameOpts = append(gameOpts, game.WithRules(*opts.Rules))
	}
	c.game = game.New(gameOpts...)

	return c
}

// Run starts the client loop. Blocks until the client disconnects or server stops.
func (c *Client) Run() error {
	draw.HideCursor(c.writer)
	defer draw.ShowCursor(c.writer)
	draw.ClearScreen(c.writer)

	// Unregister from server
	defer c.server.UnregisterClient(c.handle.ID)

	for c.state.Running {
		frameStart := time.Now()

		if err := c.step(); err != nil {
			return err
		}

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ClientTargetFrameTime {
			time.Sleep(config.ClientTargetFrameTime - elapsed)
		}
	}

	draw.ResetStyle(c.writer)
	draw.ClearScreen(c.writer)
	return nil
}

// step runs a single frame.
func (c *Client) step() error {
	now := c.clock.Now()
	c.state.delta = now.Sub(c.lastFrame)
	c.lastFrame = now

	// Process input
	c.processInput(now)

	// Check for server events
	c.processServerEvents()

	// Handle screen resize
	c.updateScreen()

	// Handle game state
	switch c.state.GameState {
	case GameStateStart:
		c.updateStartState()
	case GameStatePlaying:
		c.updatePlayingState()
	case GameStateOver:
		c.updateOverState()
	case GameStateShutdown:
		c.updateShutdownState()
	}

	// Draw frame
	return c.drawFrame(now)
}

// processInput reads input and tracks activity.
func (c *Client) processInput(now time.Time) {
	c.input = input.ReadInput(c.inputStream)

	idle := now.Sub(c.lastInput).Seconds()
	if len(c.input.Pressed) > 0 {
		c.lastInput = now
		c.state.isInactive = false
	} else if idle > config.InactivityDisconnectUser {
		c.quit()
	} else if idle > config.InactivityWarnUser {
		c.state.isInactive = true
	}

	if c.input.Has(input.KeyQuit) || c.input.Closed {
		c.quit()
	}
}

// quit stops the client loop. A game in progress is stopped and its score still reported.
func (c *Client) quit() {
	if c.game.Running() {
		c.game.Stop()
		c.server.ReportScore(c.handle.ID, c.game.Score())
	}
	c.state.Running = false
}

// processServerEvents handles events from the server.
func (c *Client) processServerEvents() {
	for {
		select {
		case event, ok := <-c.handle.EventsCh:
			if !ok {
				// Server closed the channel
				c.state.Running = false
				return
			}
			switch event.Type {
			case server.EventTopScore:
				c.state.Rank = event.Rank
			case server.EventServerShutdown:
				if c.game.Running() {
					c.game.Stop()
					c.server.ReportScore(c.handle.ID, c.game.Score())
				}
				c.state.GameState = GameStateShutdown
				c.state.shutdownTimer = config.ShutdownDisplaySeconds
			}
		default:
			return
		}
	}
}

// updateScreen handles terminal resize, clamping to max render resolution.
// On actual size changes, clears the terminal to remove residual cells
// outside the new canvas area (e.g. old content at a different offset).
func (c *Client) updateScreen() {
	termWidth, termHeight, err := c.termSizeFunc()
	if err != nil {
		return
	}
	renderWidth, renderHeight, offsetCol, offsetRow := clampTermSize(termWidth, termHeight)

	if renderWidth != c.canvas.Width() || renderHeight != c.canvas.Height() ||
		offsetCol != c.canvas.OffsetCol() || offsetRow != c.canvas.OffsetRow() {
		c.chunkWriter.WriteString("\033[H\033[2J")
		c.canvas.ForceRedraw()
	}

	c.canvas.Resize(renderWidth, renderHeight)
	c.canvas.SetOffset(offsetCol, offsetRow)
}

// clampTermSize clamps terminal dimensions to the max render resolution and computes
// the centering offset for the render area.
func clampTermSize(termWidth, termHeight int) (renderWidth, renderHeight, offsetCol, offsetRow int) {
	renderWidth = min(termWidth, config.MaxTermWidth)
	renderHeight = min(termHeight, config.MaxTermHeight)
	offsetCol = (termWidth - renderWidth) / 2
	offsetRow = (termHeight - renderHeight) / 2
	return
}

// updateStartState handles the start screen.
func (c *Client) updateStartState() {
	if c.input.Has(input.KeySpace) || c.input.Has(input.KeyEnter) {
		c.startGame()
	}
}

// updatePlayingState feeds key presses to the game in arrival order, then lets
// gravity act once for this frame.
func (c *Client) updatePlayingState() {
	for _, k := range c.input.Keys {
		c.game.Apply(commandFor(k))
	}
	c.game.Update()
}

// updateOverState handles the game-over screen.
func (c *Client) updateOverState() {
	if c.input.Has(input.KeySpace) || c.input.Has(input.KeyEnter) {
		c.startGame()
	}
}

// startGame starts or restarts the game.
func (c *Client) startGame() {
	input.ResetKeyInput(c.inputStream)

	c.state.Rank = 0
	c.state.lastClear = 0
	c.game.Start()
	c.state.GameState = GameStatePlaying
}

// updateShutdownState handles the shutdown screen countdown.
func (c *Client) updateShutdownState() {
	c.state.shutdownTimer -= c.state.delta.Seconds()
	if c.state.shutdownTimer <= 0 {
		c.state.Running = false
	}
}

// commandFor maps a key to the game command it triggers.
func commandFor(k input.Key) game.Command {
	switch k {
	case input.KeyLeft:
		return game.CommandLeft
	case input.KeyRight:
		return game.CommandRight
	case input.KeyUp:
		return game.CommandRotate
	case input.KeyDown:
		return game.CommandSoftDrop
	default:
		return game.CommandNone
	}
}

// clientEvents routes engine events into the client's state.
type clientEvents struct {
	c *Client
}

func (e clientEvents) OnMove() {}

func (e clientEvents) OnLinesCleared(n int) {
	e.c.state.lastClear = n
	e.c.state.lastClearAt = e.c.clock.Now()
}

func (e clientEvents) OnGameOver(finalScore int) {
	e.c.state.FinalScore = finalScore
	e.c.state.GameState = GameStateOver
	e.c.server.ReportScore(e.c.handle.ID, finalScore)
}
