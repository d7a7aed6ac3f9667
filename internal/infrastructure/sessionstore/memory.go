package sessionstore

import (
	"context"
	"sync"
	"time"

	"sitebot-server/services/assistant-api/internal/domain/accessgate"
)

// MemoryStore keeps sessions in process memory. Suitable for single-instance
// deployments and tests; multi-instance deployments use the redis driver.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*accessgate.Session
	now      func() time.Time
}

// NewMemoryStore constructs an in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*accessgate.Session),
		now:      time.Now,
	}
}

// Put stores a session until its ttl elapses.
func (s *MemoryStore) Put(_ context.Context, session *accessgate.Session, ttl time.Duration) error {
	copied := *session
	copied.ExpiresAt = s.now().Add(ttl)
	if session.ExpiresAt.After(s.now()) {
		copied.ExpiresAt = session.ExpiresAt
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.Token] = &copied
	s.sweepLocked()
	return nil
}

// Get returns the session for token, or nil when absent or expired.
func (s *MemoryStore) Get(_ context.Context, token string) (*accessgate.Session, error) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if session.Expired(s.now()) {
		s.mu.Lock()
		delete(s.sessions, token)
		s.mu.Unlock()
		return nil, nil
	}
	copied := *session
	return &copied, nil
}

// sweepLocked drops expired sessions opportunistically on writes.
func (s *MemoryStore) sweepLocked() {
	now := s.now()
	for token, session := range s.sessions {
		if session.Expired(now) {
			delete(s.sessions, token)
		}
	}
}
