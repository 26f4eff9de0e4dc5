package main

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"terrain-arena/internal/arena"
)

const defaultMaxSessions = 100

// SessionIdleTimeout is how long a session with no clients survives
var SessionIdleTimeout = 2 * time.Minute

// ErrTooManySessions is returned when the session limit is reached
var ErrTooManySessions = errors.New("too many active sessions")

// Session represents a game session that clients can join
type Session struct {
	ID   string
	Name string
	Game *Game

	idleSince time.Time // zero while someone is connected
}

// SessionManager handles creation and lookup of sessions
type SessionManager struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	max      int
	gameOpts []GameOption
	log      zerolog.Logger
}

// NewSessionManager creates a new SessionManager; every game it starts
// gets opts.
func NewSessionManager(max int, log zerolog.Logger, opts ...GameOption) *SessionManager {
	if max <= 0 {
		max = defaultMaxSessions
	}
	return &SessionManager{
		sessions: make(map[string]*Session),
		max:      max,
		gameOpts: opts,
		log:      log,
	}
}

// CreateSession creates a new session and starts its game loop
func (sm *SessionManager) CreateSession(name string, cfg arena.Config) (*Session, error) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	if len(sm.sessions) >= sm.max {
		return nil, ErrTooManySessions
	}

	id := GenerateUUID()
	opts := append([]GameOption{WithGameLogger(sm.log)}, sm.gameOpts...)
	game, err := NewGame(id, cfg, opts...)
	if err != nil {
		return nil, err
	}
	sess := &Session{
		ID:        id,
		Name:      name,
		Game:      game,
		idleSince: time.Now(),
	}
	sm.sessions[id] = sess
	go game.Run()
	time.AfterFunc(SessionIdleTimeout, func() { sm.reap(id) })

	sm.log.Info().Str("session", id).Str("mode", string(cfg.Mode)).Int("adversaries", cfg.Adversaries).Msg("session created")
	return sess, nil
}

// GetSession returns a session by ID
func (sm *SessionManager) GetSession(id string) *Session {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return sm.sessions[id]
}

// MarkActive clears the idle timer of a session
func (sm *SessionManager) MarkActive(id string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	if sess, ok := sm.sessions[id]; ok {
		sess.idleSince = time.Time{}
	}
}

// RemoveClient takes a client out of a session. Sessions left empty are
// reaped after SessionIdleTimeout.
func (sm *SessionManager) RemoveClient(sessionID, clientID string) {
	sm.mu.RLock()
	sess, ok := sm.sessions[sessionID]
	sm.mu.RUnlock()
	if !ok {
		return
	}
	sess.Game.RemoveClient(clientID)

	if sess.Game.ClientCount() == 0 {
		sm.mu.Lock()
		sess.idleSince = time.Now()
		sm.mu.Unlock()
		time.AfterFunc(SessionIdleTimeout, func() { sm.reap(sessionID) })
	}
}

// reap removes a session that stayed empty for the whole timeout
func (sm *SessionManager) reap(id string) {
	sm.mu.Lock()
	sess, ok := sm.sessions[id]
	if !ok || sess.idleSince.IsZero() || time.Since(sess.idleSince) < SessionIdleTimeout ||
		sess.Game.ClientCount() > 0 {
		sm.mu.Unlock()
		return
	}
	delete(sm.sessions, id)
	sm.mu.Unlock()

	sess.Game.Stop()
	sm.log.Info().Str("session", id).Msg("session reaped")
}

// Count returns the number of live sessions
func (sm *SessionManager) Count() int {
	sm.mu.RLock()
	defer sm.mu.RUnlock()
	return len(sm.sessions)
}

// StopAll stops every game loop, used on shutdown
func (sm *SessionManager) StopAll() {
	sm.mu.Lock()
	defer sm.mu.Unlock()
	for id, sess := range sm.sessions {
		sess.Game.Stop()
		delete(sm.sessions, id)
	}
}

// ListSessions returns info about all active sessions
func (sm *SessionManager) ListSessions() []SessionInfo {
	sm.mu.RLock()
	defer sm.mu.RUnlock()

	list := make([]SessionInfo, 0, len(sm.sessions))
	for _, sess := range sm.sessions {
		list = append(list, SessionInfo{
			ID:         sess.ID,
			Name:       sess.Name,
			Mode:       string(sess.Game.Config().Mode),
			Seated:     sess.Game.Seated(),
			Spectators: sess.Game.SpectatorCount(),
		})
	}
	return list
}
