// Package seed provisions the bootstrap accounts and the optional
// starter catalog on a fresh data file. Seeding is explicit and runs
// only when the store holds no users at all; registration itself never
// grants privileges.
package seed

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/prn-tf/grouporder-hub/internal/config"
	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/service"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

// Bootstrap account usernames.
const (
	AdminUsername     = "admin@grouporder.local"
	UserAdminUsername = "users@grouporder.local"
)

// Seeder provisions initial data.
type Seeder struct {
	store  *store.Store
	users  *service.UserService
	logger zerolog.Logger
}

// New creates a Seeder.
func New(st *store.Store, users *service.UserService, logger zerolog.Logger) *Seeder {
	return &Seeder{
		store:  st,
		users:  users,
		logger: logger.With().Str("component", "seed").Logger(),
	}
}

// Run seeds according to the config. A store that already has users is
// left untouched, so restarts are no-ops.
func (s *Seeder) Run(ctx context.Context, cfg config.SeedConfig, auth config.AuthConfig) error {
	if len(s.store.GetAllUsers(ctx)) > 0 {
		s.logger.Debug().Msg("store already populated, skipping seed")
		return nil
	}

	if cfg.Admins {
		if err := s.seedAdmins(ctx, auth); err != nil {
			return err
		}
	}

	if cfg.Catalog {
		s.seedCatalog(ctx)
	}

	return nil
}

// seedAdmins creates the full admin and the user-admin accounts. When
// no password is configured one is generated and logged once, so a
// fresh deployment is never reachable with a well-known credential.
func (s *Seeder) seedAdmins(ctx context.Context, auth config.AuthConfig) error {
	accounts := []struct {
		username string
		password string
		input    service.AdminCreateInput
	}{
		{
			username: AdminUsername,
			password: auth.BootstrapAdminPassword,
			input: service.AdminCreateInput{
				Username:    AdminUsername,
				FirstName:   "Admin",
				GroupName:   domain.GroupAdmin,
				IsAdmin:     true,
				IsUserAdmin: true,
			},
		},
		{
			username: UserAdminUsername,
			password: auth.BootstrapUserAdminPassword,
			input: service.AdminCreateInput{
				Username:    UserAdminUsername,
				FirstName:   "User Admin",
				GroupName:   domain.GroupAdmin,
				IsUserAdmin: true,
			},
		},
	}

	for _, account := range accounts {
		password := account.password
		if password == "" {
			password = uuid.NewString()
			s.logger.Warn().
				Str("username", account.username).
				Str("password", password).
				Msg("no bootstrap password configured, generated one")
		}

		account.input.Password = password
		if _, err := s.users.AdminCreate(ctx, account.input); err != nil {
			return fmt.Errorf("failed to seed account %s: %w", account.username, err)
		}

		s.logger.Info().Str("username", account.username).Msg("bootstrap account created")
	}

	return nil
}

// seedCatalog creates a small starter catalog so a demo deployment has
// something to order.
func (s *Seeder) seedCatalog(ctx context.Context) {
	products := []domain.Product{
		{Name: "Coffee", Description: "House blend, 250ml", Price: 1.5, Category: "Drinks", Available: true},
		{Name: "Tea", Description: "Black or green", Price: 1.0, Category: "Drinks", Available: true},
		{Name: "Club Sandwich", Description: "Chicken, bacon, lettuce", Price: 4.5, Category: "Food", Available: true},
		{Name: "Caesar Salad", Description: "With grilled chicken", Price: 5.0, Category: "Food", Available: true},
		{Name: "Brownie", Description: "Double chocolate", Price: 2.0, Category: "Desserts", Available: true},
	}

	for _, product := range products {
		s.store.CreateProduct(ctx, product)
	}

	s.logger.Info().Int("products", len(products)).Msg("starter catalog created")
}
