package server

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tomz197/tetris/internal/loop/config"
)

func startServer(t *testing.T) *Server {
	t.Helper()
	s := NewServer(WithLogger(log.New(io.Discard)))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Run(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})
	return s
}

func eventually(t *testing.T, cond func() bool) {
	t.Helper()
	require.Eventually(t, cond, 2*time.Second, 10*time.Millisecond)
}

func TestInsertTopScore(t *testing.T) {
	var scores []TopScoreEntry
	var rank int

	scores, rank = insertTopScore(scores, TopScoreEntry{Username: "a", Score: 300, clientID: 1}, 3)
	assert.Equal(t, 0, rank)
	scores, rank = insertTopScore(scores, TopScoreEntry{Username: "b", Score: 500, clientID: 2}, 3)
	assert.Equal(t, 0, rank)
	scores, rank = insertTopScore(scores, TopScoreEntry{Username: "c", Score: 300, clientID: 3}, 3)
	assert.Equal(t, 2, rank, "ties keep the earlier client ahead")
	scores, rank = insertTopScore(scores, TopScoreEntry{Username: "d", Score: 100, clientID: 4}, 3)
	assert.Equal(t, -1, rank)
	scores, rank = insertTopScore(scores, TopScoreEntry{Username: "e", Score: 400, clientID: 5}, 3)
	assert.Equal(t, 1, rank)

	names := make([]string, len(scores))
	for i, e := range scores {
		names[i] = e.Username
	}
	assert.Equal(t, []string{"b", "e", "a"}, names)
}

func TestInsertTopScoreIgnoresZero(t *testing.T) {
	scores, rank := insertTopScore(nil, TopScoreEntry{Username: "a"}, 5)
	assert.Empty(t, scores)
	assert.Equal(t, -1, rank)
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "guest", displayName(""))
	assert.Equal(t, "alice", displayName("alice"))

	long := strings.Repeat("é", config.MaxUsernameLength+4)
	assert.Equal(t, strings.Repeat("é", config.MaxUsernameLength), displayName(long))
}

func TestRegisterAndUnregister(t *testing.T) {
	s := startServer(t)

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	assert.NotEqual(t, a.ID, b.ID)
	eventually(t, func() bool { return s.GetSnapshot().Players == 2 })

	s.UnregisterClient(a.ID)
	eventually(t, func() bool { return s.GetSnapshot().Players == 1 })

	_, open := <-a.EventsCh
	assert.False(t, open, "events channel closes on unregister")
}

func TestReportScoreUpdatesLeaderboard(t *testing.T) {
	s := startServer(t)

	a := s.RegisterClient("alice")
	b := s.RegisterClient("bob")
	eventually(t, func() bool { return s.GetSnapshot().Players == 2 })

	s.ReportScore(a.ID, 200)
	s.ReportScore(b.ID, 700)
	eventually(t, func() bool { return len(s.GetSnapshot().TopScores) == 2 })

	top := s.GetSnapshot().TopScores
	assert.Equal(t, "bob", top[0].Username)
	assert.Equal(t, 700, top[0].Score)
	assert.Equal(t, "alice", top[1].Username)

	select {
	case ev := <-b.EventsCh:
		assert.Equal(t, EventTopScore, ev.Type)
		assert.Equal(t, 1, ev.Rank)
	case <-time.After(time.Second):
		t.Fatal("no top score event")
	}
}

func TestScoreBeforeLeavingStillCounts(t *testing.T) {
	s := startServer(t)

	a := s.RegisterClient("alice")
	eventually(t, func() bool { return s.GetSnapshot().Players == 1 })

	s.ReportScore(a.ID, 100)
	s.UnregisterClient(a.ID)

	eventually(t, func() bool {
		snap := s.GetSnapshot()
		return snap.Players == 0 && len(snap.TopScores) == 1
	})
}

func TestSnapshotIsACopy(t *testing.T) {
	s := startServer(t)

	a := s.RegisterClient("alice")
	eventually(t, func() bool { return s.GetSnapshot().Players == 1 })
	s.ReportScore(a.ID, 100)
	eventually(t, func() bool { return len(s.GetSnapshot().TopScores) == 1 })

	snap := s.GetSnapshot()
	snap.TopScores[0].Score = 9999
	eventually(t, func() bool { return s.GetSnapshot() != snap })
	assert.Equal(t, 100, s.GetSnapshot().TopScores[0].Score)
}

func TestShutdownNotifiesClients(t *testing.T) {
	s := startServer(t)

	a := s.RegisterClient("alice")
	eventually(t, func() bool { return s.GetSnapshot().Players == 1 })

	go func() {
		ev := <-a.EventsCh
		if ev.Type == EventServerShutdown {
			s.UnregisterClient(a.ID)
		}
	}()

	start := time.Now()
	s.Shutdown(5 * time.Second)
	assert.Less(t, time.Since(start), 5*time.Second, "shutdown returns once every client left")
	eventually(t, func() bool { return s.GetSnapshot().Players == 0 })
}

func TestShutdownTimesOut(t *testing.T) {
	s := startServer(t)

	s.RegisterClient("stubborn")
	eventually(t, func() bool { return s.GetSnapshot().Players == 1 })

	start := time.Now()
	s.Shutdown(300 * time.Millisecond)
	assert.GreaterOrEqual(t, time.Since(start), 300*time.Millisecond)
}
