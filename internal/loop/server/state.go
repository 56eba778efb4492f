package server

import (
	"slices"
	"unicode/utf8"

	"github.com/tomz197/tetris/internal/loop/config"
)

// TopScoreEntry represents a single entry on the leaderboard.
type TopScoreEntry struct {
	Username string
	Score    int
	clientID int // Used for deterministic tie-break when scores are equal
}

// LobbySnapshot is an immutable view of the lobby for rendering.
type LobbySnapshot struct {
	Players   int
	TopScores []TopScoreEntry // Top N scores for leaderboard display
}

// insertTopScore adds entry to scores, keeps them ordered by score descending
// (earlier clients first on ties) and trims to limit. It returns the new slice
// and the 0-based rank of the entry, or -1 if it did not make the board.
func insertTopScore(scores []TopScoreEntry, entry TopScoreEntry, limit int) ([]TopScoreEntry, int) {
	if entry.Score <= 0 || limit <= 0 {
		return scores, -1
	}

	pos, _ := slices.BinarySearchFunc(scores, entry, func(e, target TopScoreEntry) int {
		if e.Score != target.Score {
			// descending by score
			if e.Score > target.Score {
				return -1
			}
			return 1
		}
		if e.clientID <= target.clientID {
			return -1
		}
		return 1
	})
	if pos >= limit {
		return scores, -1
	}

	scores = slices.Insert(scores, pos, entry)
	if len(scores) > limit {
		scores = scores[:limit]
	}
	return scores, pos
}

// displayName trims a username to the display limit. Empty names become "guest".
func displayName(username string) string {
	if username == "" {
		return "guest"
	}
	if utf8.RuneCountInString(username) <= config.MaxUsernameLength {
		return username
	}
	runes := []rune(username)
	return string(runes[:config.MaxUsernameLength])
}
