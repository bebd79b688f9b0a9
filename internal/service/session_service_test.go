package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/grouporder-hub/internal/session"
)

func newSessionFixture(t *testing.T) (*SessionService, *UserService) {
	t.Helper()

	users := NewUserService(newTestStore(t), nil, zerolog.Nop())
	sessions := session.NewMemoryStore()
	t.Cleanup(func() { _ = sessions.Close() })

	return NewSessionService(users, sessions, zerolog.Nop()), users
}

func TestLoginLogout(t *testing.T) {
	ctx := context.Background()
	svc, users := newSessionFixture(t)

	created, err := users.Register(ctx, RegisterInput{Username: "anna", Password: "long enough"})
	require.NoError(t, err)

	user, sess, err := svc.Login(ctx, "anna", "long enough")
	require.NoError(t, err)
	assert.Equal(t, created.ID, user.ID)
	require.NotEmpty(t, sess.Token)

	validated, err := svc.Validate(ctx, sess.Token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, validated.ID)

	require.NoError(t, svc.Logout(ctx, sess.Token))
	_, err = svc.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	svc, users := newSessionFixture(t)

	_, err := users.Register(ctx, RegisterInput{Username: "anna", Password: "long enough"})
	require.NoError(t, err)

	_, _, err = svc.Login(ctx, "anna", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestValidateInvalidatesDeletedUser(t *testing.T) {
	ctx := context.Background()
	svc, users := newSessionFixture(t)

	created, err := users.Register(ctx, RegisterInput{Username: "anna", Password: "long enough"})
	require.NoError(t, err)

	_, sess, err := svc.Login(ctx, "anna", "long enough")
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, created.ID))

	_, err = svc.Validate(ctx, sess.Token)
	assert.ErrorIs(t, err, ErrSessionInvalid)
}

func TestValidateUnknownToken(t *testing.T) {
	svc, _ := newSessionFixture(t)

	_, err := svc.Validate(context.Background(), "no-such-token")
	assert.ErrorIs(t, err, ErrSessionInvalid)
}
