package sound

import (
	"io"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"

	"github.com/tomz197/tetris/internal/game"
)

// Player plays event tones on the local audio device.
type Player struct {
	mu          sync.Mutex
	mixer       *beep.Mixer
	initialized bool
}

// NewPlayer creates a player. Call Init before events are delivered.
func NewPlayer() *Player {
	return &Player{mixer: &beep.Mixer{}}
}

// Init opens the speaker. Until it succeeds every event is silently dropped.
func (p *Player) Init() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.initialized {
		return nil
	}

	if err := speaker.Init(SampleRate, SampleRate.N(100*time.Millisecond)); err != nil {
		return err
	}

	speaker.Play(p.mixer)
	p.initialized = true
	return nil
}

// Close stops playback and releases the audio device.
func (p *Player) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Clear()
	speaker.Unlock()
	speaker.Close()
	p.initialized = false
}

func (p *Player) play(s beep.Streamer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		return
	}

	speaker.Lock()
	p.mixer.Add(s)
	speaker.Unlock()
}

func (p *Player) OnMove()                   { p.play(MoveSound()) }
func (p *Player) OnLinesCleared(int)        { p.play(ClearSound()) }
func (p *Player) OnGameOver(finalScore int) { p.play(GameOverSound()) }

// Bell rings the terminal bell on line clears and game over. Sessions without
// a local audio device (SSH, web) use it instead of Player.
type Bell struct {
	W io.Writer
}

func (b Bell) OnMove() {}

func (b Bell) OnLinesCleared(int) { b.ring() }

func (b Bell) OnGameOver(int) { b.ring() }

func (b Bell) ring() {
	if b.W != nil {
		_, _ = io.WriteString(b.W, "\a")
	}
}

var (
	_ game.Listener = (*Player)(nil)
	_ game.Listener = Bell{}
)
