package session

import (
	"context"
	"sync"
	"time"
)

// MemoryStore implements Store using in-memory storage. Sessions do not
// survive a restart; suitable for single-node deployments where Redis
// is not available.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
	stopCh   chan struct{}
	stopped  bool
}

// NewMemoryStore creates a new in-memory session store.
func NewMemoryStore() *MemoryStore {
	s := &MemoryStore{
		sessions: make(map[string]*Session),
		stopCh:   make(chan struct{}),
	}

	// Start cleanup goroutine.
	go s.cleanupLoop()

	return s
}

// cleanupLoop periodically removes expired sessions.
func (s *MemoryStore) cleanupLoop() {
	ticker := time.NewTicker(60 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.cleanup()
		}
	}
}

// cleanup removes expired sessions.
func (s *MemoryStore) cleanup() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for token, sess := range s.sessions {
		if sess.Expired() {
			delete(s.sessions, token)
		}
	}
}

// Create mints a new session for the user.
func (s *MemoryStore) Create(ctx context.Context, userID int64, ttl time.Duration) (*Session, error) {
	now := time.Now()
	sess := &Session{
		Token:     newToken(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}

	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()

	out := *sess
	return &out, nil
}

// Get retrieves a session by token.
func (s *MemoryStore) Get(ctx context.Context, token string) (*Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, exists := s.sessions[token]
	if !exists {
		return nil, ErrSessionNotFound
	}

	if sess.Expired() {
		return nil, ErrSessionNotFound
	}

	// Return a copy to prevent mutation.
	out := *sess
	return &out, nil
}

// Delete removes a session by token.
func (s *MemoryStore) Delete(ctx context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.sessions, token)
	return nil
}

// Close stops the cleanup goroutine.
func (s *MemoryStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.stopped {
		close(s.stopCh)
		s.stopped = true
	}
	return nil
}

// Ensure MemoryStore implements Store.
var _ Store = (*MemoryStore)(nil)
