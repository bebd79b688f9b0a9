package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prn-tf/grouporder-hub/internal/domain"
	"github.com/prn-tf/grouporder-hub/internal/persist"
	"github.com/prn-tf/grouporder-hub/internal/service"
	"github.com/prn-tf/grouporder-hub/internal/session"
	"github.com/prn-tf/grouporder-hub/internal/store"
)

// testAPI is a fully wired API over a temp data file, plus a client
// with a cookie jar per logged-in identity.
type testAPI struct {
	server *httptest.Server
	users  *service.UserService
	store  *store.Store
}

func newTestAPI(t *testing.T, demoMode bool) *testAPI {
	t.Helper()

	file, err := persist.NewFile(filepath.Join(t.TempDir(), "app-data.json"), nil, zerolog.Nop())
	require.NoError(t, err)

	st := store.Open(file, zerolog.Nop())
	sessions := session.NewMemoryStore()
	t.Cleanup(func() { _ = sessions.Close() })

	users := service.NewUserService(st, nil, zerolog.Nop())
	catalog := service.NewCatalogService(st, zerolog.Nop())
	orders := service.NewOrderService(st, zerolog.Nop())
	groups := service.NewGroupService(st, zerolog.Nop())
	sessionSvc := service.NewSessionService(users, sessions, zerolog.Nop())

	router := NewRouter(RouterConfig{
		AuthHandler:    NewAuthHandler(users, sessionSvc, zerolog.Nop()),
		ProductHandler: NewProductHandler(catalog, zerolog.Nop()),
		OrderHandler:   NewOrderHandler(orders, zerolog.Nop()),
		AdminHandler:   NewAdminHandler(users, orders, groups, zerolog.Nop()),
		SessionService: sessionSvc,
		DemoMode:       demoMode,
		Logger:         zerolog.Nop(),
	})

	server := httptest.NewServer(router.Handler())
	t.Cleanup(server.Close)

	return &testAPI{server: server, users: users, store: st}
}

// client returns an HTTP client with its own cookie jar.
func (a *testAPI) client(t *testing.T) *http.Client {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &http.Client{Jar: jar}
}

// do sends a JSON request and decodes the response into out (if out is
// non-nil), returning the status code.
func (a *testAPI) do(t *testing.T, client *http.Client, method, path string, body, out any) int {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequest(method, a.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

// loginAs creates an account directly (bypassing demo mode) and logs
// the client in.
func (a *testAPI) loginAs(t *testing.T, client *http.Client, input service.AdminCreateInput) userResponse {
	t.Helper()

	input.Password = "long enough secret"
	_, err := a.users.AdminCreate(context.Background(), input)
	require.NoError(t, err)

	var user userResponse
	status := a.do(t, client, http.MethodPost, "/api/login", map[string]string{
		"username": input.Username,
		"password": input.Password,
	}, &user)
	require.Equal(t, http.StatusOK, status)
	return user
}

func TestHealth(t *testing.T) {
	api := newTestAPI(t, false)

	var body map[string]string
	status := api.do(t, api.client(t), http.MethodGet, "/api/health", nil, &body)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "healthy", body["status"])
}

func TestRegisterLoginFlow(t *testing.T) {
	api := newTestAPI(t, false)
	client := api.client(t)

	var created userResponse
	status := api.do(t, client, http.MethodPost, "/api/register", map[string]any{
		"username":  "anna",
		"password":  "long enough secret",
		"firstName": "Anna",
		"groupName": "Team 1",
	}, &created)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "anna", created.Username)

	// Registration logs the user in.
	var current userResponse
	status = api.do(t, client, http.MethodGet, "/api/user", nil, &current)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, created.ID, current.ID)

	// Logout invalidates the session.
	status = api.do(t, client, http.MethodPost, "/api/logout", nil, nil)
	require.Equal(t, http.StatusNoContent, status)
	status = api.do(t, client, http.MethodGet, "/api/user", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestResponsesNeverCarryPasswords(t *testing.T) {
	api := newTestAPI(t, false)
	client := api.client(t)
	api.loginAs(t, client, service.AdminCreateInput{
		Username: "root", GroupName: domain.GroupAdmin, IsAdmin: true, IsUserAdmin: true,
	})

	var raw json.RawMessage
	status := api.do(t, client, http.MethodGet, "/api/admin/users", nil, &raw)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, string(raw), "password")
}

func TestRoleGates(t *testing.T) {
	api := newTestAPI(t, false)

	anon := api.client(t)
	member := api.client(t)
	coordinator := api.client(t)
	userAdmin := api.client(t)

	api.loginAs(t, member, service.AdminCreateInput{Username: "member", GroupName: "Team 1"})
	api.loginAs(t, coordinator, service.AdminCreateInput{Username: "coord", GroupName: "Team 1", IsCoordinator: true})
	api.loginAs(t, userAdmin, service.AdminCreateInput{Username: "uadmin", GroupName: domain.GroupAdmin, IsUserAdmin: true})

	tests := []struct {
		name   string
		client *http.Client
		method string
		path   string
		want   int
	}{
		{"anonymous cannot list own orders", anon, http.MethodGet, "/api/orders", http.StatusUnauthorized},
		{"member cannot read admin orders", member, http.MethodGet, "/api/admin/orders", http.StatusForbidden},
		{"member cannot create products", member, http.MethodPost, "/api/products", http.StatusForbidden},
		{"member cannot list users", member, http.MethodGet, "/api/admin/users", http.StatusForbidden},
		{"coordinator reads admin orders", coordinator, http.MethodGet, "/api/admin/orders", http.StatusOK},
		{"coordinator cannot list users", coordinator, http.MethodGet, "/api/admin/users", http.StatusForbidden},
		{"user admin lists users", userAdmin, http.MethodGet, "/api/admin/users", http.StatusOK},
		{"member reads catalog", member, http.MethodGet, "/api/products", http.StatusOK},
		{"anonymous reads catalog", anon, http.MethodGet, "/api/products", http.StatusOK},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var body any
			if tc.method == http.MethodPost {
				body = map[string]any{}
			}
			status := api.do(t, tc.client, tc.method, tc.path, body, nil)
			assert.Equal(t, tc.want, status)
		})
	}
}

func TestCoordinatorGroupScope(t *testing.T) {
	api := newTestAPI(t, false)

	coordinator := api.client(t)
	api.loginAs(t, coordinator, service.AdminCreateInput{
		Username: "coord", GroupName: "Team A", IsCoordinator: true,
	})

	status := api.do(t, coordinator, http.MethodGet, "/api/admin/orders/group/team%20a", nil, nil)
	assert.Equal(t, http.StatusOK, status, "own group, case-insensitive")

	status = api.do(t, coordinator, http.MethodGet, "/api/admin/orders/group/Team%20B", nil, nil)
	assert.Equal(t, http.StatusForbidden, status, "other groups are admin-only")
}

func TestOrderFlow(t *testing.T) {
	api := newTestAPI(t, false)

	admin := api.client(t)
	member := api.client(t)
	api.loginAs(t, admin, service.AdminCreateInput{Username: "root", GroupName: domain.GroupAdmin, IsAdmin: true})
	memberUser := api.loginAs(t, member, service.AdminCreateInput{Username: "anna", GroupName: "Team A"})

	var product domain.Product
	status := api.do(t, admin, http.MethodPost, "/api/products", map[string]any{
		"name": "Coffee", "price": 2.5, "category": "Drinks",
	}, &product)
	require.Equal(t, http.StatusCreated, status)

	var placed orderResponse
	status = api.do(t, member, http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{{"productId": product.ID, "quantity": 2}},
	}, &placed)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 5.0, placed.Total)
	assert.Equal(t, memberUser.ID, placed.UserID)

	var own []orderResponse
	status = api.do(t, member, http.MethodGet, "/api/orders", nil, &own)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, own, 1)

	// Another member cannot read it.
	other := api.client(t)
	api.loginAs(t, other, service.AdminCreateInput{Username: "ben", GroupName: "Team B"})
	status = api.do(t, other, http.MethodGet, fmt.Sprintf("/api/orders/%d", placed.ID), nil, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Admin updates the status.
	var updated domain.Order
	status = api.do(t, admin, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", placed.ID), map[string]string{
		"status": "completed",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", updated.Status)
}

func TestPromoteEndpoint(t *testing.T) {
	api := newTestAPI(t, false)

	admin := api.client(t)
	api.loginAs(t, admin, service.AdminCreateInput{
		Username: "root", GroupName: domain.GroupAdmin, IsAdmin: true, IsUserAdmin: true,
	})

	api.store.CreateUser(context.Background(), domain.User{Username: "anna", GroupName: "Team 1"})
	api.store.CreateUser(context.Background(), domain.User{Username: "ben", GroupName: "Team 5"})

	var result promotionResponse
	status := api.do(t, admin, http.MethodPost, "/api/admin/users/promote", nil, &result)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, 1, result.Promoted)
	assert.Equal(t, 1, result.Deleted)
	require.Len(t, result.Transitions, 1)
	assert.Equal(t, domain.GroupTransition{From: "Team 1", To: "Team 2"}, result.Transitions[0])
}

func TestDemoModeBlocksMemberWrites(t *testing.T) {
	api := newTestAPI(t, true)

	anon := api.client(t)
	status := api.do(t, anon, http.MethodPost, "/api/register", map[string]any{
		"username": "anna", "password": "long enough secret",
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	member := api.client(t)
	api.loginAs(t, member, service.AdminCreateInput{Username: "anna", GroupName: "Team A"})
	status = api.do(t, member, http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{{"productId": 1, "quantity": 1}},
	}, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// Reads keep working in demo mode.
	status = api.do(t, member, http.MethodGet, "/api/products", nil, nil)
	assert.Equal(t, http.StatusOK, status)
}

func TestGroupRegistryEndpoints(t *testing.T) {
	api := newTestAPI(t, false)

	userAdmin := api.client(t)
	api.loginAs(t, userAdmin, service.AdminCreateInput{
		Username: "uadmin", GroupName: domain.GroupAdmin, IsUserAdmin: true,
	})

	var groups []string
	status := api.do(t, userAdmin, http.MethodGet, "/api/groups", nil, &groups)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, domain.DefaultGroups(), groups)

	status = api.do(t, userAdmin, http.MethodPut, "/api/admin/groups", map[string]any{
		"groups": []string{"Team B", "Team A"},
	}, &groups)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, []string{"Team A", "Team B"}, groups)

	status = api.do(t, userAdmin, http.MethodPost, "/api/admin/groups", map[string]string{"name": "Office 9"}, &groups)
	require.Equal(t, http.StatusCreated, status)
	assert.Contains(t, groups, "Office 9")

	status = api.do(t, userAdmin, http.MethodDelete, "/api/admin/groups/Office%209", nil, &groups)
	require.Equal(t, http.StatusOK, status)
	assert.NotContains(t, groups, "Office 9")
}
