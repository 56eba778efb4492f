package game

// Listener receives notifications a shell may want to sonify or display.
// Callbacks run synchronously inside the command or tick that caused them.
type Listener interface {
	// OnMove fires after a successful translate or rotate.
	OnMove()
	// OnLinesCleared fires when one lock cleared n > 0 rows.
	OnLinesCleared(n int)
	// OnGameOver fires once when a piece locks above the board.
	OnGameOver(finalScore int)
}

// NopListener ignores every event.
type NopListener struct{}

func (NopListener) OnMove()            {}
func (NopListener) OnLinesCleared(int) {}
func (NopListener) OnGameOver(int)     {}

// Listeners forwards each event to every listener in order.
type Listeners []Listener

func (ls Listeners) OnMove() {
	for _, l := range ls {
		l.OnMove()
	}
}

func (ls Listeners) OnLinesCleared(n int) {
	for _, l := range ls {
		l.OnLinesCleared(n)
	}
}

func (ls Listeners) OnGameOver(finalScore int) {
	for _, l := range ls {
		l.OnGameOver(finalScore)
	}
}

var (
	_ Listener = NopListener{}
	_ Listener = Listeners(nil)
)
