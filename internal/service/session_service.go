package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/session"
)

// SessionTTL is the lifetime of a login session.
const SessionTTL = 24 * time.Hour

// SessionService ties authentication to the session backend.
type SessionService struct {
	users    *UserService
	sessions session.Store
	logger   zerolog.Logger
}

// NewSessionService creates a new SessionService.
func NewSessionService(users *UserService, sessions session.Store, logger zerolog.Logger) *SessionService {
	return &SessionService{
		users:    users,
		sessions: sessions,
		logger:   logger.With().Str("service", "session").Logger(),
	}
}

// Login authenticates the credentials and mints a session.
func (s *SessionService) Login(ctx context.Context, username, password string) (*domain.User, *session.Session, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, err
	}

	sess, err := s.sessions.Create(ctx, user.ID, SessionTTL)
	if err != nil {
		s.logger.Error().Err(err).Int64("user_id", user.ID).Msg("failed to create session")
		return nil, nil, ErrInternalError
	}

	return user, sess, nil
}

// Logout removes the session for a token. Unknown tokens are a no-op.
func (s *SessionService) Logout(ctx context.Context, token string) error {
	return s.sessions.Delete(ctx, token)
}

// Validate resolves a session token to its user. A token whose user
// has been deleted in the meantime is treated as invalid and cleaned
// up.
func (s *SessionService) Validate(ctx context.Context, token string) (*domain.User, error) {
	sess, err := s.sessions.Get(ctx, token)
	if err != nil {
		return nil, ErrSessionInvalid
	}

	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		_ = s.sessions.Delete(ctx, token)
		return nil, ErrSessionInvalid
	}

	return user, nil
}
