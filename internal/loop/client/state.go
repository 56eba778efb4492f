package client

import "time"

// GameState represents the current game phase for a client.
type GameState int

const (
	GameStateStart    GameState = iota // Title screen
	GameStatePlaying                   // Active gameplay
	GameStateOver                      // Stack topped out, show restart prompt
	GameStateShutdown                  // Server is shutting down
)

// ClientState holds per-player shell state around the engine.
// Each client has their own instance, managed by the Client.
type ClientState struct {
	GameState     GameState
	Running       bool          // Client loop running
	FinalScore    int           // Score of the last finished game
	Rank          int           // Leaderboard rank of the last game, 0 if unranked
	lastClear     int           // Rows removed by the most recent clearing lock
	lastClearAt   time.Time     // When lastClear happened
	delta         time.Duration // Frame delta time
	shutdownTimer float64       // Countdown before auto-disconnect on shutdown
	isInactive    bool          // Whether the client is in inactive warning state
}

// NewClientState creates a new initialized client state.
func NewClientState() *ClientState {
	return &ClientState{
		GameState: GameStateStart,
		Running:   true,
	}
}
