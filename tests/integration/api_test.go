// Package integration contains end-to-end tests that exercise a
// running GroupOrder Hub server over HTTP.
//
// Run a server first, e.g.:
//
//	GROUPORDER_AUTH_BOOTSTRAP_ADMIN_PASSWORD=test-admin-secret go run ./cmd/grouporder-server
//
// then:
//
//	GROUPORDER_ENDPOINT=http://localhost:5000 go test ./tests/integration/
package integration

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestConfig holds the configuration for integration tests.
type TestConfig struct {
	Endpoint      string
	AdminUsername string
	AdminPassword string
}

// getTestConfig reads test configuration from environment variables.
func getTestConfig() TestConfig {
	return TestConfig{
		Endpoint:      getEnv("GROUPORDER_ENDPOINT", "http://localhost:5000"),
		AdminUsername: getEnv("GROUPORDER_ADMIN_USERNAME", "admin@grouporder.local"),
		AdminPassword: getEnv("GROUPORDER_ADMIN_PASSWORD", "test-admin-secret"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// apiClient is a cookie-aware JSON client against the server.
type apiClient struct {
	base   string
	client *http.Client
}

func newAPIClient(t *testing.T, cfg TestConfig) *apiClient {
	t.Helper()

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return &apiClient{
		base:   cfg.Endpoint,
		client: &http.Client{Jar: jar, Timeout: 10 * time.Second},
	}
}

func (c *apiClient) do(t *testing.T, method, path string, body, out any) int {
	t.Helper()

	payload := []byte(nil)
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(t, err)
	}

	req, err := http.NewRequest(method, c.base+path, bytes.NewReader(payload))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	if out != nil && resp.StatusCode < 300 {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(out))
	}
	return resp.StatusCode
}

func (c *apiClient) login(t *testing.T, username, password string) {
	t.Helper()

	status := c.do(t, http.MethodPost, "/api/login", map[string]string{
		"username": username,
		"password": password,
	}, nil)
	require.Equal(t, http.StatusOK, status, "login as %s failed", username)
}

// TestOrderLifecycle walks the whole flow: admin creates a product, a
// member registers and orders it, the admin reads the group view and
// completes the order.
func TestOrderLifecycle(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	cfg := getTestConfig()

	admin := newAPIClient(t, cfg)
	if status := admin.do(t, http.MethodGet, "/api/health", nil, nil); status != http.StatusOK {
		t.Skipf("no server reachable at %s", cfg.Endpoint)
	}
	admin.login(t, cfg.AdminUsername, cfg.AdminPassword)

	suffix := time.Now().Format("20060102150405")

	var product struct {
		ID int64 `json:"id"`
	}
	status := admin.do(t, http.MethodPost, "/api/products", map[string]any{
		"name":     "Test Coffee " + suffix,
		"price":    2.5,
		"category": "IntegrationTest",
	}, &product)
	require.Equal(t, http.StatusCreated, status)

	member := newAPIClient(t, cfg)
	memberName := fmt.Sprintf("member-%s@example.com", suffix)
	status = member.do(t, http.MethodPost, "/api/register", map[string]any{
		"username":  memberName,
		"password":  "integration secret",
		"firstName": "Inte",
		"lastName":  "Gration",
		"groupName": "Team A",
	}, nil)
	require.Equal(t, http.StatusCreated, status)

	var placed struct {
		ID    int64   `json:"id"`
		Total float64 `json:"total"`
	}
	status = member.do(t, http.MethodPost, "/api/orders", map[string]any{
		"items": []map[string]any{{"productId": product.ID, "quantity": 2}},
	}, &placed)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, 5.0, placed.Total)

	var groupOrders []struct {
		ID   int64 `json:"id"`
		User *struct {
			Username string `json:"username"`
		} `json:"user"`
	}
	status = admin.do(t, http.MethodGet, "/api/admin/orders/group/team%20a", nil, &groupOrders)
	require.Equal(t, http.StatusOK, status)

	var found bool
	for _, o := range groupOrders {
		if o.ID == placed.ID {
			found = true
			require.NotNil(t, o.User)
			assert.Equal(t, memberName, o.User.Username)
		}
	}
	assert.True(t, found, "placed order should appear in the group view")

	var updated struct {
		Status string `json:"status"`
	}
	status = admin.do(t, http.MethodPatch, fmt.Sprintf("/api/admin/orders/%d/status", placed.ID), map[string]string{
		"status": "completed",
	}, &updated)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "completed", updated.Status)
}
