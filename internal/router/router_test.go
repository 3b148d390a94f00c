package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"tillpoint/internal/config"
	"tillpoint/internal/model"
	"tillpoint/internal/repository"
	"tillpoint/internal/store"
	"tillpoint/internal/worker"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

type testEnv struct {
	server *httptest.Server
	state  *store.State
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Env:            "test",
		JWTSecret:      "test-secret",
		SessionHours:   8,
		PDFStoragePath: t.TempDir(),
	}

	state := store.NewState(nil)
	hash, err := bcrypt.GenerateFromPassword([]byte("admin123"), bcrypt.MinCost)
	require.NoError(t, err)
	cashierHash, err := bcrypt.GenerateFromPassword([]byte("cashier1"), bcrypt.MinCost)
	require.NoError(t, err)
	state.Update(func(d *store.Data) []string {
		d.Users = append(d.Users,
			model.User{ID: "u-admin", Name: "Admin", Username: "admin",
				PasswordHash: string(hash), Role: model.RoleAdmin, Active: true},
			model.User{ID: "u-cashier", Name: "Cash", Username: "cashier",
				PasswordHash: string(cashierHash), Role: model.RoleCashier, Active: true},
		)
		return nil
	})

	settingsRepo := repository.NewSettingsRepository(state)
	dispatcher := worker.NewDispatcher(nil)
	backup := worker.NewBackupWorker(state, settingsRepo, nil)

	engine := New(cfg, state, nil, nil, dispatcher, backup)
	srv := httptest.NewServer(engine)
	t.Cleanup(srv.Close)
	return &testEnv{server: srv, state: state}
}

func (e *testEnv) do(t *testing.T, method, path, token string, body any) *http.Response {
	t.Helper()
	var buf *bytes.Buffer
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		buf = bytes.NewBuffer(b)
	} else {
		buf = bytes.NewBuffer(nil)
	}
	req, err := http.NewRequest(method, e.server.URL+path, buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := e.server.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decode(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func (e *testEnv) login(t *testing.T, username, password string) string {
	t.Helper()
	resp := e.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{
		"username": username, "password": password,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		AccessToken string `json:"access_token"`
	}
	decode(t, resp, &out)
	require.NotEmpty(t, out.AccessToken)
	return out.AccessToken
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	env := setupEnv(t)
	resp := env.do(t, http.MethodPost, "/v1/auth/login", "", gin.H{
		"username": "admin", "password": "wrong",
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := setupEnv(t)
	resp := env.do(t, http.MethodGet, "/v1/products", "", nil)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFullSaleCycle(t *testing.T) {
	env := setupEnv(t)
	admin := env.login(t, "admin", "admin123")

	// Create a product
	resp := env.do(t, http.MethodPost, "/v1/products", admin, gin.H{
		"name": "Coffee", "category": "Drinks", "price": "4.50", "stock": 10,
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var product model.Product
	decode(t, resp, &product)
	require.NotEmpty(t, product.ID)

	// Add to cart
	resp = env.do(t, http.MethodPost, "/v1/cart/lines", admin, gin.H{
		"productId": product.ID, "quantity": 2,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	// Checkout
	resp = env.do(t, http.MethodPost, "/v1/checkout", admin, gin.H{
		"customerName": "Ada", "customerPhone": "555-0101",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var sale model.Sale
	decode(t, resp, &sale)
	assert.True(t, sale.Total.GreaterThan(sale.Subtotal), "tax applied")
	assert.Equal(t, "u-admin", sale.CashierID)

	// Stock decremented
	resp = env.do(t, http.MethodGet, "/v1/products/"+product.ID, admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	decode(t, resp, &product)
	assert.Equal(t, 8, product.Stock)

	// Report sees the sale
	resp = env.do(t, http.MethodGet, "/v1/reports/transactions?range=today", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var report struct {
		Sales   []model.Sale `json:"sales"`
		Summary struct {
			Transactions int `json:"transactions"`
		} `json:"summary"`
	}
	decode(t, resp, &report)
	assert.Equal(t, 1, report.Summary.Transactions)

	// Customer derived from the sale
	resp = env.do(t, http.MethodGet, "/v1/customers", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var customers []model.Customer
	decode(t, resp, &customers)
	require.Len(t, customers, 1)
	assert.Equal(t, "Ada", customers[0].Name)
}

func TestRoleEnforcement(t *testing.T) {
	env := setupEnv(t)
	cashier := env.login(t, "cashier", "cashier1")

	// Cashier cannot create products (manager minimum)
	resp := env.do(t, http.MethodPost, "/v1/products", cashier, gin.H{
		"name": "X", "category": "Y", "price": "1", "stock": 1,
	})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// Cashier cannot list users (admin only)
	resp2 := env.do(t, http.MethodGet, "/v1/users", cashier, nil)
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp2.StatusCode)

	// Cashier cannot read reports (manager minimum)
	resp3 := env.do(t, http.MethodGet, "/v1/reports/transactions", cashier, nil)
	defer resp3.Body.Close()
	assert.Equal(t, http.StatusForbidden, resp3.StatusCode)

	// Cashier can read the catalog and use the register
	resp4 := env.do(t, http.MethodGet, "/v1/products", cashier, nil)
	defer resp4.Body.Close()
	assert.Equal(t, http.StatusOK, resp4.StatusCode)
}

func TestValidationErrors(t *testing.T) {
	env := setupEnv(t)
	admin := env.login(t, "admin", "admin123")

	// Missing required fields
	resp := env.do(t, http.MethodPost, "/v1/products", admin, gin.H{"name": "No category"})
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	// Unknown discount type
	resp2 := env.do(t, http.MethodPost, "/v1/cart/discount", admin, gin.H{
		"type": "bogus", "value": "10",
	})
	defer resp2.Body.Close()
	assert.Equal(t, http.StatusUnprocessableEntity, resp2.StatusCode)
}

func TestDarkModeToggle(t *testing.T) {
	env := setupEnv(t)
	cashier := env.login(t, "cashier", "cashier1")

	resp := env.do(t, http.MethodPut, "/v1/settings/dark-mode", cashier, gin.H{"enabled": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = env.do(t, http.MethodGet, "/v1/settings/dark-mode", cashier, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out struct {
		Enabled bool `json:"enabled"`
	}
	decode(t, resp, &out)
	assert.True(t, out.Enabled)
}

func TestSessionPersistedAcrossLogin(t *testing.T) {
	env := setupEnv(t)
	admin := env.login(t, "admin", "admin123")

	resp := env.do(t, http.MethodGet, "/v1/auth/me", admin, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var me struct {
		Username string `json:"username"`
	}
	decode(t, resp, &me)
	assert.Equal(t, "admin", me.Username)

	env.state.View(func(d *store.Data) {
		assert.Equal(t, "u-admin", d.CurrentUser)
		assert.WithinDuration(t, time.Now(), d.LoginTime, time.Minute)
	})
}
