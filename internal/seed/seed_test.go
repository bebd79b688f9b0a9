package seed

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/grouporder-hub/internal/config"
	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/persist"
	"github.com/prn-tf/grouporder-hub/internal/service"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

func newFixture(t *testing.T) (*Seeder, *store.Store, *service.UserService) {
	t.Helper()

	file, err := persist.NewFile(filepath.Join(t.TempDir(), "app-data.json"), nil, zerolog.Nop())
	require.NoError(t, err)

	st := store.Open(file, zerolog.Nop())
	users := service.NewUserService(st, nil, zerolog.Nop())
	return New(st, users, zerolog.Nop()), st, users
}

func TestRunSeedsBootstrapAdmins(t *testing.T) {
	ctx := context.Background()
	seeder, st, users := newFixture(t)

	err := seeder.Run(ctx, config.SeedConfig{Admins: true}, config.AuthConfig{
		BootstrapAdminPassword:     "admin secret",
		BootstrapUserAdminPassword: "useradmin secret",
	})
	require.NoError(t, err)

	admin, err := users.Authenticate(ctx, AdminUsername, "admin secret")
	require.NoError(t, err)
	assert.True(t, admin.IsAdmin)
	assert.True(t, admin.IsUserAdmin)
	assert.Equal(t, domain.GroupAdmin, admin.GroupName)

	userAdmin, err := users.Authenticate(ctx, UserAdminUsername, "useradmin secret")
	require.NoError(t, err)
	assert.False(t, userAdmin.IsAdmin)
	assert.True(t, userAdmin.IsUserAdmin)

	assert.Len(t, st.GetAllUsers(ctx), 2)
}

func TestRunSkipsPopulatedStore(t *testing.T) {
	ctx := context.Background()
	seeder, st, _ := newFixture(t)

	st.CreateUser(ctx, domain.User{Username: "anna"})

	err := seeder.Run(ctx, config.SeedConfig{Admins: true, Catalog: true}, config.AuthConfig{
		BootstrapAdminPassword: "admin secret",
	})
	require.NoError(t, err)

	assert.Len(t, st.GetAllUsers(ctx), 1)
	assert.Empty(t, st.GetProducts(ctx))
}

func TestRunGeneratesPasswordWhenUnset(t *testing.T) {
	ctx := context.Background()
	seeder, _, users := newFixture(t)

	err := seeder.Run(ctx, config.SeedConfig{Admins: true}, config.AuthConfig{})
	require.NoError(t, err)

	// The accounts exist but are not reachable with an empty password.
	_, err = users.Authenticate(ctx, AdminUsername, "")
	assert.ErrorIs(t, err, service.ErrInvalidCredentials)
}

func TestRunSeedsCatalog(t *testing.T) {
	ctx := context.Background()
	seeder, st, _ := newFixture(t)

	err := seeder.Run(ctx, config.SeedConfig{Admins: true, Catalog: true}, config.AuthConfig{
		BootstrapAdminPassword:     "admin secret",
		BootstrapUserAdminPassword: "useradmin secret",
	})
	require.NoError(t, err)

	products := st.GetProducts(ctx)
	assert.NotEmpty(t, products)
	for _, p := range products {
		assert.True(t, p.Available)
	}
}
