// Package config centralizes the tunable parameters of the terminal shells.
// Game rules themselves live in game.DefaultRules.
package config

import "time"

// Layout, in terminal cells.
const (
	CellWidth  = 2  // Terminal columns per board cell, keeps blocks roughly square
	PanelWidth = 22 // Side panel width including its frame
	PanelGap   = 2  // Columns between the board frame and the panel

	// Largest area the client renders into; bigger terminals center it.
	MaxTermWidth  = 80
	MaxTermHeight = 30
)

// Lobby
const (
	MaxUsernameLength = 16 // Maximum display length for player usernames
	TopScoresSize     = 5  // Entries kept on the leaderboard
)

// Shutdown
const (
	ShutdownDisplaySeconds = 10.0 // Seconds to show shutdown message before auto-disconnect
)

// Inactivity
const (
	InactivityWarnUser       = 90  // Seconds
	InactivityDisconnectUser = 120 // Seconds
)

// Client rendering
const (
	ClientTargetFPS       = 60
	ClientTargetFrameTime = time.Second / ClientTargetFPS
)

// Lobby tick rate. The lobby only merges registrations and scores, so it runs
// far slower than the clients.
const (
	ServerTickRate = 20
	ServerTickTime = time.Second / ServerTickRate
)
