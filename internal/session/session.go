// Package session defines the server-side session store used by the
// cookie-based login flow, with in-memory and Redis backends.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrSessionNotFound indicates an unknown or expired session token.
var ErrSessionNotFound = errors.New("session not found")

// Session is one authenticated login. The token doubles as the cookie
// value and the storage key.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"userId"`
	CreatedAt time.Time `json:"createdAt"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// Expired reports whether the session is past its expiry.
func (s *Session) Expired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Store is implemented by the session backends.
type Store interface {
	// Create mints a new session for the user with the given lifetime.
	Create(ctx context.Context, userID int64, ttl time.Duration) (*Session, error)

	// Get returns the session for a token, or ErrSessionNotFound if the
	// token is unknown or the session has expired.
	Get(ctx context.Context, token string) (*Session, error)

	// Delete removes a session. Deleting an unknown token is a no-op.
	Delete(ctx context.Context, token string) error

	// Close releases backend resources.
	Close() error
}

// newToken returns an unguessable session token.
func newToken() string {
	return uuid.NewString()
}
