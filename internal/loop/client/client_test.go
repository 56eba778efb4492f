package client

import (
	"bufio"
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/tetris/internal/game"
	"github.com/tomz197/tetris/internal/input"
	"github.com/tomz197/tetris/internal/loop/config"
	"github.com/tomz197/tetris/internal/loop/server"
)

type manualClock struct {
	now time.Time
}

func (c *manualClock) Now() time.Time { return c.now }

func (c *manualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// onlyKind always picks the same shape.
type onlyKind game.Kind

func (k onlyKind) IntN(n int) int { return int(k) % n }

type fakeServer struct {
	handle       *server.ClientHandle
	scores       []int
	unregistered []int
	lobby        server.LobbySnapshot
}

func (f *fakeServer) RegisterClient(username string) *server.ClientHandle {
	f.handle = &server.ClientHandle{ID: 7, Username: username, EventsCh: make(chan server.ClientEvent, 4)}
	return f.handle
}

func (f *fakeServer) UnregisterClient(clientID int) {
	f.unregistered = append(f.unregistered, clientID)
}

func (f *fakeServer) ReportScore(clientID int, score int) {
	f.scores = append(f.scores, score)
}

func (f *fakeServer) GetSnapshot() *server.LobbySnapshot {
	snap := f.lobby
	return &snap
}

type moveCounter struct {
	game.NopListener
	moves int
}

func (m *moveCounter) OnMove() { m.moves++ }

type harness struct {
	client *Client
	server *fakeServer
	clock  *manualClock
	out    *bytes.Buffer
	keys   *io.PipeWriter
	width  int
	height int
}

func newHarness(t *testing.T, opts ClientOptions) *harness {
	t.Helper()
	pr, pw := io.Pipe()
	t.Cleanup(func() { _ = pw.Close() })

	h := &harness{
		server: &fakeServer{},
		clock:  &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)},
		out:    &bytes.Buffer{},
		keys:   pw,
		width:  100,
		height: 40,
	}
	opts.TermSizeFunc = func() (int, int, error) { return h.width, h.height, nil }
	opts.Clock = h.clock
	if opts.Username == "" {
		opts.Username = "alice"
	}
	if opts.Random == nil {
		opts.Random = onlyKind(game.KindO)
	}
	h.client = NewClient(h.server, bufio.NewReader(pr), h.out, opts)
	return h
}

func (h *harness) step(t *testing.T) {
	t.Helper()
	require.NoError(t, h.client.step())
}

// press types keys and runs frames until cond holds.
func (h *harness) press(t *testing.T, keys string, cond func() bool) {
	t.Helper()
	_, err := h.keys.Write([]byte(keys))
	require.NoError(t, err)
	require.Eventually(t, func() bool {
		return h.client.step() == nil && cond()
	}, 2*time.Second, 5*time.Millisecond)
}

func (h *harness) start(t *testing.T) {
	t.Helper()
	h.press(t, " ", func() bool { return h.client.state.GameState == GameStatePlaying })
}

func TestClampTermSize(t *testing.T) {
	w, hgt, col, row := clampTermSize(200, 50)
	assert.Equal(t, config.MaxTermWidth, w)
	assert.Equal(t, config.MaxTermHeight, hgt)
	assert.Equal(t, (200-config.MaxTermWidth)/2, col)
	assert.Equal(t, (50-config.MaxTermHeight)/2, row)

	w, hgt, col, row = clampTermSize(40, 20)
	assert.Equal(t, []int{40, 20, 0, 0}, []int{w, hgt, col, row})
}

func TestComputeLayout(t *testing.T) {
	l, needW, needH, ok := computeLayout(20, 10, 80, 30)
	require.True(t, ok)
	assert.Equal(t, 46, needW)
	assert.Equal(t, 23, needH)
	assert.Equal(t, layout{boardCol: 17, boardRow: 3, boardW: 22, boardH: 22, panelCol: 41, statusRow: 25}, l)

	_, needW, needH, ok = computeLayout(20, 10, 40, 20)
	assert.False(t, ok)
	assert.Equal(t, 46, needW)
	assert.Equal(t, 23, needH)
}

func TestCommandFor(t *testing.T) {
	assert.Equal(t, game.CommandLeft, commandFor(input.KeyLeft))
	assert.Equal(t, game.CommandRight, commandFor(input.KeyRight))
	assert.Equal(t, game.CommandRotate, commandFor(input.KeyUp))
	assert.Equal(t, game.CommandSoftDrop, commandFor(input.KeyDown))
	assert.Equal(t, game.CommandNone, commandFor(input.KeySpace))
}

func TestStartScreen(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	assert.Equal(t, "alice", h.server.handle.Username)

	h.step(t)
	assert.Equal(t, GameStateStart, h.client.state.GameState)
	assert.False(t, h.client.game.Running())
	assert.Contains(t, h.out.String(), "T E T R I S")
	assert.Contains(t, h.out.String(), "TOP SCORES")
}

func TestStartAndMove(t *testing.T) {
	moves := &moveCounter{}
	h := newHarness(t, ClientOptions{Listener: moves})

	h.start(t)
	require.True(t, h.client.game.Running())
	active := h.client.game.Snapshot().Active
	require.NotNil(t, active)
	assert.Equal(t, game.KindO, active.Kind)
	assert.Equal(t, 3, active.X)

	h.press(t, "a", func() bool { return h.client.game.Snapshot().Active.X == 2 })
	h.press(t, "dd", func() bool { return h.client.game.Snapshot().Active.X == 4 })
	assert.Equal(t, 3, moves.moves)
}

func TestGravityFollowsClock(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	h.start(t)

	y := h.client.game.Snapshot().Active.Y
	h.step(t)
	assert.Equal(t, y, h.client.game.Snapshot().Active.Y)

	h.clock.Advance(600 * time.Millisecond)
	h.step(t)
	assert.Equal(t, y+1, h.client.game.Snapshot().Active.Y)
}

func TestGameOverReportsScore(t *testing.T) {
	rules := game.DefaultRules()
	rules.Rows = 2
	h := newHarness(t, ClientOptions{Rules: &rules})
	h.start(t)

	// The first O settles in the two rows, the second cannot enter the board.
	h.press(t, "ssss", func() bool { return h.client.state.GameState == GameStateOver })
	assert.True(t, h.client.game.Over())
	assert.Equal(t, []int{0}, h.server.scores)
	assert.Contains(t, h.out.String(), "GAME OVER")

	h.press(t, "\r", func() bool { return h.client.state.GameState == GameStatePlaying })
	assert.False(t, h.client.game.Over())
}

func TestTopScoreEvent(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	h.server.handle.EventsCh <- server.ClientEvent{Type: server.EventTopScore, Rank: 2}
	h.step(t)
	assert.Equal(t, 2, h.client.state.Rank)
}

func TestQuitStopsGameAndReports(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	h.start(t)

	h.press(t, "q", func() bool { return !h.client.state.Running })
	assert.False(t, h.client.game.Running())
	assert.False(t, h.client.game.Over())
	assert.Equal(t, []int{0}, h.server.scores)
}

func TestShutdownCountdown(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	h.start(t)

	h.server.handle.EventsCh <- server.ClientEvent{Type: server.EventServerShutdown}
	h.step(t)
	assert.Equal(t, GameStateShutdown, h.client.state.GameState)
	assert.False(t, h.client.game.Running())
	assert.Equal(t, []int{0}, h.server.scores)
	assert.Contains(t, h.out.String(), "SHUTTING DOWN")

	h.clock.Advance(5 * time.Second)
	h.step(t)
	assert.True(t, h.client.state.Running)

	h.clock.Advance(6 * time.Second)
	h.step(t)
	assert.False(t, h.client.state.Running)
}

func TestClosedEventsChannelStops(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	close(h.server.handle.EventsCh)
	h.step(t)
	assert.False(t, h.client.state.Running)
}

func TestInactivity(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	h.step(t)

	h.clock.Advance((config.InactivityWarnUser + 1) * time.Second)
	h.step(t)
	assert.True(t, h.client.state.isInactive)
	assert.Contains(t, h.out.String(), "ARE YOU THERE?")

	h.press(t, "x", func() bool { return !h.client.state.isInactive })

	h.clock.Advance((config.InactivityDisconnectUser + 1) * time.Second)
	h.step(t)
	assert.False(t, h.client.state.Running)
}

func TestTerminalTooSmall(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	h.width, h.height = 30, 10
	h.step(t)
	assert.Contains(t, h.out.String(), "Terminal too small")
	assert.Contains(t, h.out.String(), "Need 46x23")
}

func TestResizeClearsScreen(t *testing.T) {
	h := newHarness(t, ClientOptions{})
	h.step(t)
	h.out.Reset()

	h.step(t)
	assert.NotContains(t, h.out.String(), "\033[H\033[2J")

	h.width = 90
	h.step(t)
	assert.Contains(t, h.out.String(), "\033[H\033[2J")
}

func TestBellRingsOnGameOver(t *testing.T) {
	rules := game.DefaultRules()
	rules.Rows = 2
	h := newHarness(t, ClientOptions{Rules: &rules, Bell: true})
	h.start(t)
	assert.NotContains(t, h.out.String(), "\a")

	h.press(t, "ssss", func() bool { return h.client.state.GameState == GameStateOver })
	assert.Contains(t, h.out.String(), "\a")
}
