package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sydneyevents/event-listing-service/internal/domain"
)

var (
	// ErrSessionNotFound is returned when a session is not found in the store
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionExpired is returned when the session exists but is past its expiry
	ErrSessionExpired = errors.New("session expired")
)

// Session is a server-side login session referenced by an opaque cookie value
type Session struct {
	ID        string           `json:"id"`
	Principal domain.Principal `json:"principal"`
	CreatedAt time.Time        `json:"createdAt"`
	ExpiresAt time.Time        `json:"expiresAt"`
}

// IsExpiredAt reports whether the session has expired at now
func (s *Session) IsExpiredAt(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// NewSession creates a session for principal valid for ttl
func NewSession(principal domain.Principal, ttl time.Duration, now time.Time) (*Session, error) {
	id, err := randomToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate session id: %w", err)
	}
	return &Session{
		ID:        id,
		Principal: principal,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}, nil
}

func randomToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// SessionStore defines the interface for session storage backends
type SessionStore interface {
	// Create stores a new session
	Create(ctx context.Context, session *Session) error

	// Get retrieves a session by ID.
	// Returns ErrSessionNotFound or ErrSessionExpired.
	Get(ctx context.Context, id string) (*Session, error)

	// Delete removes a session; deleting an unknown id is not an error
	Delete(ctx context.Context, id string) error
}

const sessionSweepInterval = 10 * time.Minute

// MemorySessionStore keeps sessions in process memory.
// Sessions are lost on restart. Expired sessions are dropped when read
// and by a sweep that runs on Create at most every sessionSweepInterval.
type MemorySessionStore struct {
	mu        sync.RWMutex
	sessions  map[string]Session
	lastSweep time.Time
	now       func() time.Time
}

// NewMemorySessionStore creates an empty in-memory session store
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions:  make(map[string]Session),
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (s *MemorySessionStore) Create(_ context.Context, session *Session) error {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	if now.Sub(s.lastSweep) > sessionSweepInterval {
		s.sweep(now)
	}
	s.sessions[session.ID] = copySession(*session)
	return nil
}

// sweep drops expired sessions; callers hold mu
func (s *MemorySessionStore) sweep(now time.Time) {
	for id, session := range s.sessions {
		if session.IsExpiredAt(now) {
			delete(s.sessions, id)
		}
	}
	s.lastSweep = now
}

func (s *MemorySessionStore) Get(_ context.Context, id string) (*Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[id]
	s.mu.RUnlock()

	if !ok {
		return nil, ErrSessionNotFound
	}

	if session.IsExpiredAt(s.now()) {
		s.mu.Lock()
		delete(s.sessions, id)
		s.mu.Unlock()
		return nil, ErrSessionExpired
	}

	session = copySession(session)
	return &session, nil
}

func (s *MemorySessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, id)
	return nil
}

func copySession(s Session) Session {
	if s.Principal.Roles != nil {
		s.Principal.Roles = append([]string{}, s.Principal.Roles...)
	}
	return s
}
