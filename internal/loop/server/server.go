package server

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tomz197/tetris/internal/loop/config"
)

// GameServer is the interface clients use to communicate with the lobby.
// Decouples the Client from the concrete Server implementation, enabling
// testing and potential network-based server implementations.
type GameServer interface {
	RegisterClient(username string) *ClientHandle
	UnregisterClient(clientID int)
	ReportScore(clientID int, score int)
	GetSnapshot() *LobbySnapshot
}

// Server tracks connected players and the shared leaderboard. Every player runs
// an independent game inside its client; the server only sees final scores.
type Server struct {
	snapshot     atomic.Pointer[LobbySnapshot]
	clients      map[int]*ClientHandle
	nextClientID int
	scoreCh      chan ScoreReport
	registerCh   chan *ClientHandle
	unregisterCh chan int
	mu           sync.RWMutex
	topScores    []TopScoreEntry
	logger       *log.Logger
}

// Compile-time check that Server implements GameServer.
var _ GameServer = (*Server)(nil)

// ClientHandle represents a client's connection to the server.
type ClientHandle struct {
	ID       int
	Username string           // Display name for this client
	EventsCh chan ClientEvent // Events sent to client (shutdown, etc.)
	Best     int              // Best score reported during this session
}

// ScoreReport is a finished game's score from a specific client.
type ScoreReport struct {
	ClientID int
	Score    int
}

// ClientEvent represents an event sent from server to client.
type ClientEvent struct {
	Type ClientEventType
	Rank int // 1-based leaderboard position for EventTopScore
}

// ClientEventType identifies the type of client event.
type ClientEventType int

const (
	EventTopScore ClientEventType = iota
	EventServerShutdown
)

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the logger used for lobby activity.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// NewServer creates a new lobby server.
func NewServer(opts ...Option) *Server {
	s := &Server{
		clients:      make(map[int]*ClientHandle),
		nextClientID: 1,
		scoreCh:      make(chan ScoreReport, 64),
		registerCh:   make(chan *ClientHandle, 16),
		unregisterCh: make(chan int, 16),
		logger:       log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	// Create initial empty snapshot
	s.snapshot.Store(&LobbySnapshot{})

	return s
}

// Run starts the server loop. Blocks until the context is cancelled.
func (s *Server) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		frameStart := time.Now()

		// Process registrations/unregistrations
		s.processRegistrations()

		// Merge finished games into the leaderboard
		s.collectScores()

		// Create new snapshot for clients
		s.createSnapshot()

		// Frame timing
		elapsed := time.Since(frameStart)
		if elapsed < config.ServerTickTime {
			time.Sleep(config.ServerTickTime - elapsed)
		}
	}
}

// Shutdown gracefully shuts down the server by notifying all connected clients
// and waiting for them to disconnect (up to the given timeout).
// The caller should cancel the server context after Shutdown returns.
func (s *Server) Shutdown(timeout time.Duration) {
	s.mu.RLock()
	s.logger.Info("notifying clients of shutdown", "clients", len(s.clients))
	for _, handle := range s.clients {
		select {
		case handle.EventsCh <- ClientEvent{Type: EventServerShutdown}:
		default:
		}
	}
	s.mu.RUnlock()

	// Wait for all clients to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-deadline:
			s.mu.RLock()
			s.logger.Warn("shutdown timeout reached", "remaining", len(s.clients))
			s.mu.RUnlock()
			return
		case <-ticker.C:
			s.mu.RLock()
			remaining := len(s.clients)
			s.mu.RUnlock()
			if remaining == 0 {
				return
			}
		}
	}
}

// RegisterClient registers a new client with the given username and returns its handle.
func (s *Server) RegisterClient(username string) *ClientHandle {
	s.mu.Lock()
	id := s.nextClientID
	s.nextClientID++
	s.mu.Unlock()

	handle := &ClientHandle{
		ID:       id,
		Username: displayName(username),
		EventsCh: make(chan ClientEvent, 16),
	}

	s.registerCh <- handle
	return handle
}

// UnregisterClient removes a client from the server.
func (s *Server) UnregisterClient(clientID int) {
	s.unregisterCh <- clientID
}

// ReportScore submits the final score of a finished game.
func (s *Server) ReportScore(clientID int, score int) {
	select {
	case s.scoreCh <- ScoreReport{ClientID: clientID, Score: score}:
	default:
		s.logger.Warn("score channel full, dropping score", "client", clientID, "score", score)
	}
}

// GetSnapshot returns the current lobby snapshot.
func (s *Server) GetSnapshot() *LobbySnapshot {
	return s.snapshot.Load()
}

// processRegistrations handles pending client registrations/unregistrations.
func (s *Server) processRegistrations() {
	for {
		select {
		case handle := <-s.registerCh:
			s.mu.Lock()
			s.clients[handle.ID] = handle
			s.mu.Unlock()
			s.logger.Info("client registered", "client", handle.ID, "user", handle.Username)
		case clientID := <-s.unregisterCh:
			// A game that ended just before the client left still counts.
			s.collectScores()
			s.mu.Lock()
			if handle, ok := s.clients[clientID]; ok {
				close(handle.EventsCh)
				delete(s.clients, clientID)
				s.logger.Info("client left", "client", clientID, "user", handle.Username, "best", handle.Best)
			}
			s.mu.Unlock()
		default:
			return
		}
	}
}

// collectScores merges all pending score reports into the leaderboard.
func (s *Server) collectScores() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		select {
		case r := <-s.scoreCh:
			handle, ok := s.clients[r.ClientID]
			if !ok {
				continue
			}
			handle.Best = max(handle.Best, r.Score)

			var rank int
			s.topScores, rank = insertTopScore(s.topScores, TopScoreEntry{
				Username: handle.Username,
				Score:    r.Score,
				clientID: r.ClientID,
			}, config.TopScoresSize)
			if rank < 0 {
				continue
			}

			s.logger.Info("new top score", "user", handle.Username, "score", r.Score, "rank", rank+1)
			select {
			case handle.EventsCh <- ClientEvent{Type: EventTopScore, Rank: rank + 1}:
			default:
			}
		default:
			return
		}
	}
}

// createSnapshot creates an immutable snapshot of the lobby state.
func (s *Server) createSnapshot() {
	s.mu.RLock()
	defer s.mu.RUnlock()

	top := make([]TopScoreEntry, len(s.topScores))
	copy(top, s.topScores)

	s.snapshot.Store(&LobbySnapshot{
		Players:   len(s.clients),
		TopScores: top,
	})
}
