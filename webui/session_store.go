// Package webui serves the dashboard over HTTP: a JSON API over the widget
// store, a WebSocket feed of store changes, and optional session
// authentication.
package webui

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

// DefaultSessionDuration is how long sessions stay valid.
const DefaultSessionDuration = 24 * time.Hour

// ErrSessionNotFound is returned when a session ID is not found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrSessionExpired is returned when a session exists but has expired.
var ErrSessionExpired = errors.New("session expired")

// Session is one authenticated session with expiry tracking.
type Session struct {
	ID        string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// NewSession creates a session with the given id and TTL.
func NewSession(id string, ttl time.Duration) Session {
	now := time.Now()
	return Session{
		ID:        id,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
}

// IsExpired reports whether the session's expiry has passed.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// TimeRemaining returns how long until the session expires.
func (s Session) TimeRemaining() time.Duration {
	return time.Until(s.ExpiresAt)
}

// GenerateSessionID returns a cryptographically secure random session id.
func GenerateSessionID() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// SessionStore manages authenticated user sessions. Thread-safe.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
}

// NewSessionStore creates a SessionStore with the given session TTL.
func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
	}
}

// Create generates a new session with a secure random id and stores it.
func (s *SessionStore) Create() (Session, error) {
	id, err := GenerateSessionID()
	if err != nil {
		return Session{}, err
	}

	session := NewSession(id, s.ttl)
	s.mu.Lock()
	s.sessions[id] = session
	s.mu.Unlock()
	return session, nil
}

// Get retrieves a session by id, removing and rejecting expired ones.
func (s *SessionStore) Get(sessionID string) (Session, error) {
	s.mu.RLock()
	session, exists := s.sessions[sessionID]
	s.mu.RUnlock()

	if !exists {
		return Session{}, ErrSessionNotFound
	}
	if session.IsExpired() {
		s.mu.Lock()
		delete(s.sessions, sessionID)
		s.mu.Unlock()
		return Session{}, ErrSessionExpired
	}
	return session, nil
}

// Delete removes a session. Idempotent.
func (s *SessionStore) Delete(sessionID string) {
	s.mu.Lock()
	delete(s.sessions, sessionID)
	s.mu.Unlock()
}

// Cleanup removes all expired sessions and returns how many were removed.
func (s *SessionStore) Cleanup() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, session := range s.sessions {
		if session.IsExpired() {
			delete(s.sessions, id)
			removed++
		}
	}
	return removed
}

// StartCleanupTicker runs Cleanup on the given interval until the context is
// cancelled.
func (s *SessionStore) StartCleanupTicker(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.Cleanup()
			}
		}
	}()
}

// Count returns the current number of sessions in the store.
func (s *SessionStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}
