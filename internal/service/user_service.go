package service

import (
	"context"
	"errors"
	"sort"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/metrics"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

// UserService handles account management, authentication and the
// member promotion cycle.
type UserService struct {
	store   *store.Store
	metrics *metrics.Metrics
	logger  zerolog.Logger
}

// NewUserService creates a new UserService.
func NewUserService(st *store.Store, m *metrics.Metrics, logger zerolog.Logger) *UserService {
	return &UserService{
		store:   st,
		metrics: m,
		logger:  logger.With().Str("service", "user").Logger(),
	}
}

// RegisterInput contains the data for public self-registration.
type RegisterInput struct {
	Username  string
	Password  string
	FirstName string
	LastName  string
	GroupName string
	Email     string
}

// Register creates a regular member account. Self-registration never
// grants privileged flags; privileged accounts are created explicitly
// through AdminCreate or the bootstrap seeding.
func (s *UserService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	return s.create(ctx, domain.User{
		Username:  input.Username,
		Password:  input.Password,
		FirstName: input.FirstName,
		LastName:  input.LastName,
		GroupName: input.GroupName,
		Email:     input.Email,
	})
}

// AdminCreateInput contains the data for admin-driven account creation,
// including the privilege flags.
type AdminCreateInput struct {
	Username      string
	Password      string
	FirstName     string
	LastName      string
	GroupName     string
	Email         string
	IsCoordinator bool
	IsAdmin       bool
	IsUserAdmin   bool
}

// AdminCreate creates an account with the given privilege flags.
func (s *UserService) AdminCreate(ctx context.Context, input AdminCreateInput) (*domain.User, error) {
	return s.create(ctx, domain.User{
		Username:      input.Username,
		Password:      input.Password,
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		GroupName:     input.GroupName,
		Email:         input.Email,
		IsCoordinator: input.IsCoordinator,
		IsAdmin:       input.IsAdmin,
		IsUserAdmin:   input.IsUserAdmin,
	})
}

// create validates, checks for duplicates, hashes the password and
// stores the account. The store itself accepts duplicates; uniqueness
// is this layer's contract.
func (s *UserService) create(ctx context.Context, user domain.User) (*domain.User, error) {
	if len(user.Username) < 3 || len(user.Username) > 255 {
		return nil, ErrInvalidUsername
	}
	if len(user.Password) < 8 {
		return nil, ErrInvalidPassword
	}

	if _, err := s.store.GetUserByUsername(ctx, user.Username); err == nil {
		return nil, ErrUserAlreadyExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to hash password")
		return nil, ErrInternalError
	}
	user.Password = string(hash)

	created := s.store.CreateUser(ctx, user)

	s.logger.Info().
		Int64("user_id", created.ID).
		Str("username", created.Username).
		Str("group", created.GroupName).
		Bool("is_admin", created.IsAdmin).
		Msg("user created")

	return created, nil
}

// Authenticate verifies credentials and returns the user.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	user, err := s.store.GetUserByUsername(ctx, username)
	if err != nil {
		// Log but don't expose whether the username exists
		s.logger.Debug().Str("username", username).Msg("user not found during authentication")
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		s.logger.Debug().Str("username", username).Msg("invalid password during authentication")
		return nil, ErrInvalidCredentials
	}

	s.logger.Info().
		Int64("user_id", user.ID).
		Str("username", user.Username).
		Msg("user authenticated")

	return user, nil
}

// GetByID retrieves a user by ID.
func (s *UserService) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdateInput carries the fields to change on an account. Nil fields
// are left untouched; a non-nil Password is re-hashed before storage.
type UpdateInput struct {
	Password      *string
	FirstName     *string
	LastName      *string
	GroupName     *string
	Email         *string
	IsCoordinator *bool
	IsAdmin       *bool
	IsUserAdmin   *bool
}

// Update applies a partial update to an account.
func (s *UserService) Update(ctx context.Context, id int64, input UpdateInput) (*domain.User, error) {
	patch := domain.UserPatch{
		FirstName:     input.FirstName,
		LastName:      input.LastName,
		GroupName:     input.GroupName,
		Email:         input.Email,
		IsCoordinator: input.IsCoordinator,
		IsAdmin:       input.IsAdmin,
		IsUserAdmin:   input.IsUserAdmin,
	}

	if input.Password != nil {
		if len(*input.Password) < 8 {
			return nil, ErrInvalidPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*input.Password), bcrypt.DefaultCost)
		if err != nil {
			s.logger.Error().Err(err).Msg("failed to hash password")
			return nil, ErrInternalError
		}
		hashed := string(hash)
		patch.Password = &hashed
	}

	user, err := s.store.UpdateUser(ctx, id, patch)
	if err != nil {
		return nil, ErrUserNotFound
	}

	s.logger.Info().Int64("user_id", id).Msg("user updated")
	return user, nil
}

// Delete removes an account with its orders and order items. Full
// admin accounts cannot be deleted through here so the system stays
// administrable; use the admin CLI against the data file instead.
func (s *UserService) Delete(ctx context.Context, id int64) error {
	user, err := s.store.GetUser(ctx, id)
	if err != nil {
		return ErrUserNotFound
	}
	if user.IsAdmin {
		return ErrAdminUndeletable
	}

	if err := s.store.DeleteUser(ctx, id); err != nil {
		return ErrUserNotFound
	}
	return nil
}

// List returns all accounts sorted by ID.
func (s *UserService) List(ctx context.Context) []*domain.User {
	users := s.store.GetAllUsers(ctx)
	sort.Slice(users, func(i, j int) bool { return users[i].ID < users[j].ID })
	return users
}

// DeleteMembersOutput reports the bulk member deletion.
type DeleteMembersOutput struct {
	Deleted int
}

// DeleteMembers removes every unprivileged account, cascading to their
// orders. Accounts flagged as admin or user admin are kept regardless
// of their group, so the system stays reachable.
func (s *UserService) DeleteMembers(ctx context.Context) *DeleteMembersOutput {
	var out DeleteMembersOutput
	for _, user := range s.store.GetAllUsers(ctx) {
		if user.IsAdmin || user.IsUserAdmin {
			continue
		}
		if err := s.store.DeleteUser(ctx, user.ID); err == nil {
			out.Deleted++
		}
	}

	s.logger.Info().Int("deleted", out.Deleted).Msg("member accounts cleared")
	return &out
}

// Promote runs the end-of-cycle promotion over all members.
func (s *UserService) Promote(ctx context.Context) domain.PromotionResult {
	result := s.store.PromoteMembers(ctx)
	s.metrics.RecordPromotion(result.Deleted)
	return result
}
