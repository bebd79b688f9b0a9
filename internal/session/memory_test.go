package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreLifecycle(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	created, err := s.Create(ctx, 42, time.Hour)
	require.NoError(t, err)
	require.NotEmpty(t, created.Token)
	assert.Equal(t, int64(42), created.UserID)

	got, err := s.Get(ctx, created.Token)
	require.NoError(t, err)
	assert.Equal(t, created.UserID, got.UserID)

	require.NoError(t, s.Delete(ctx, created.Token))
	_, err = s.Get(ctx, created.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// Deleting again is a no-op.
	assert.NoError(t, s.Delete(ctx, created.Token))
}

func TestMemoryStoreUnknownToken(t *testing.T) {
	s := NewMemoryStore()
	defer s.Close()

	_, err := s.Get(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreExpiry(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	created, err := s.Create(ctx, 7, -time.Second)
	require.NoError(t, err)

	_, err = s.Get(ctx, created.Token)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestMemoryStoreTokensAreUnique(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	seen := make(map[string]struct{})
	for i := 0; i < 50; i++ {
		sess, err := s.Create(ctx, 1, time.Hour)
		require.NoError(t, err)

		_, dup := seen[sess.Token]
		require.False(t, dup, "token %q issued twice", sess.Token)
		seen[sess.Token] = struct{}{}
	}
}
