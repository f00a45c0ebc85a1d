//go:build integration

package router_test

// End-to-end tests against real Postgres + Redis via testcontainers.
// Run with: go test -tags integration ./internal/router/... -v

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"barstockwise/internal/config"
	"barstockwise/internal/dto"
	"barstockwise/internal/infra"
	"barstockwise/internal/model"
	"barstockwise/internal/router"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcPostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	tcRedis "github.com/testcontainers/testcontainers-go/modules/redis"
	"golang.org/x/crypto/bcrypt"
)

// ── Helpers ──────────────────────────────────────────────────────────────────

func jsonBody(t *testing.T, v any) *bytes.Buffer {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return bytes.NewBuffer(b)
}

func do(t *testing.T, srv *httptest.Server, method, path string, body *bytes.Buffer, token string) *http.Response {
	t.Helper()
	var req *http.Request
	var err error
	if body != nil {
		req, err = http.NewRequest(method, srv.URL+path, body)
	} else {
		req, err = http.NewRequest(method, srv.URL+path, nil)
	}
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	return resp
}

func decodeJSON(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// ── Test Suite Setup ─────────────────────────────────────────────────────────

type testEnv struct {
	server *httptest.Server
	token  string // admin JWT
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	pgC, err := tcPostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcPostgres.WithDatabase("barstock_test"),
		tcPostgres.WithUsername("barstock"),
		tcPostgres.WithPassword("barstock"),
		testcontainers.WithWaitStrategy(
			tcPostgres.BasicWaitStrategies()...,
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pgC.Terminate(ctx) })

	pgURL, err := pgC.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	rdC, err := tcRedis.RunContainer(ctx,
		testcontainers.WithImage("redis:7-alpine"),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdC.Terminate(ctx) })

	rdURL, err := rdC.ConnectionString(ctx)
	require.NoError(t, err)

	cfg := &config.Config{
		Port:               8000,
		Env:                "test",
		JWTSecret:          "test-secret-key",
		JWTExpirationHours: 8,
		JWTRefreshHours:    24,
		DatabaseURL:        pgURL,
		RedisURL:           rdURL,
		WorkerPoolSize:     1,
		PDFStoragePath:     t.TempDir(),
	}

	// NewDatabase runs migrations, so the container gets the full schema.
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	require.NoError(t, err)

	rdb, err := infra.NewRedis(cfg.RedisURL)
	require.NoError(t, err)

	hash, err := bcrypt.GenerateFromPassword([]byte("barstock2026"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, db.Create(&model.User{
		Username:     "admin",
		Name:         "Admin E2E",
		PasswordHash: string(hash),
		Role:         "admin",
		Active:       true,
	}).Error)

	smtpCB := infra.NewCircuitBreaker(infra.DefaultCBConfig())
	srv := httptest.NewServer(router.New(cfg, db, rdb, smtpCB))
	t.Cleanup(srv.Close)

	loginResp := do(t, srv, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "admin", "password": "barstock2026"}),
		"",
	)
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var loginBody struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &loginBody)
	require.NotEmpty(t, loginBody.AccessToken)

	return &testEnv{server: srv, token: loginBody.AccessToken}
}

// createIngredient posts a new ingredient and returns its ID.
func createIngredient(t *testing.T, env *testEnv, name, unit, qty, threshold, price string) string {
	t.Helper()
	resp := do(t, env.server, "POST", "/v1/ingredients",
		jsonBody(t, map[string]any{
			"name":            name,
			"unit":            unit,
			"remaining_qty":   qty,
			"alert_threshold": threshold,
			"unit_price":      price,
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	var out struct {
		ID string `json:"id"`
	}
	decodeJSON(t, resp, &out)
	return out.ID
}

func getIngredient(t *testing.T, env *testEnv, id string) dto.IngredientResponse {
	t.Helper()
	resp := do(t, env.server, "GET", "/v1/ingredients/"+id, nil, env.token)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out dto.IngredientResponse
	decodeJSON(t, resp, &out)
	return out
}

// buildMenu wires a supplier, two ingredients, a product and its recipe
// through the public API and returns the created IDs.
type menu struct {
	supplierID string
	riceID     string
	oilID      string
	productID  string
	recipeID   string
}

func buildMenu(t *testing.T, env *testEnv) *menu {
	t.Helper()

	supResp := do(t, env.server, "POST", "/v1/suppliers",
		jsonBody(t, map[string]any{"name": "Marché Central Bujumbura"}), env.token)
	require.Equal(t, http.StatusCreated, supResp.StatusCode)
	var sup struct {
		ID string `json:"id"`
	}
	decodeJSON(t, supResp, &sup)

	m := &menu{
		supplierID: sup.ID,
		riceID:     createIngredient(t, env, "Riz", "kg", "10", "2", "3500"),
		oilID:      createIngredient(t, env, "Huile de palme", "l", "5", "1", "10000"),
	}

	prodResp := do(t, env.server, "POST", "/v1/products",
		jsonBody(t, map[string]any{"name": "Riz au Poulet", "selling_price": "8000"}), env.token)
	require.Equal(t, http.StatusCreated, prodResp.StatusCode)
	var prod struct {
		ID string `json:"id"`
	}
	decodeJSON(t, prodResp, &prod)
	m.productID = prod.ID

	recResp := do(t, env.server, "POST", "/v1/recipes",
		jsonBody(t, map[string]any{
			"product_id":    m.productID,
			"name":          "Riz au Poulet",
			"base_portions": 1,
			"ingredients": []map[string]any{
				{"ingredient_id": m.riceID, "qty_per_portion": "0.250", "unit": "kg"},
				{"ingredient_id": m.oilID, "qty_per_portion": "0.030", "unit": "l"},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, recResp.StatusCode)
	var rec struct {
		ID string `json:"id"`
	}
	decodeJSON(t, recResp, &rec)
	m.recipeID = rec.ID

	return m
}

// ── Tests ────────────────────────────────────────────────────────────────────

// Full cycle: menu setup → availability → sale → ledger and stock checks.
func TestE2E_FullSaleCycle(t *testing.T) {
	env := setupTestEnv(t)
	m := buildMenu(t, env)

	availResp := do(t, env.server, "GET", "/v1/recipes/"+m.recipeID+"/availability?portions=2", nil, env.token)
	require.Equal(t, http.StatusOK, availResp.StatusCode)
	var avail dto.AvailabilityReport
	decodeJSON(t, availResp, &avail)
	assert.True(t, avail.CanPrepare)
	assert.Empty(t, avail.Missing)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":    []map[string]any{{"product_id": m.productID, "quantity": 2}},
			"payments": []map[string]any{{"method": "cash", "amount": "20000"}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale dto.SaleResponse
	decodeJSON(t, saleResp, &sale)
	assert.Equal(t, 1, sale.TicketNumber)
	assert.Equal(t, "completed", sale.Status)
	assert.True(t, sale.Total.Equal(d("16000")))
	assert.True(t, sale.Change.Equal(d("4000")))
	require.Len(t, sale.Consumed, 2)

	// 10 − 2 × 0.250
	rice := getIngredient(t, env, m.riceID)
	assert.True(t, rice.RemainingQty.Equal(d("9.5")))

	movResp := do(t, env.server, "GET", "/v1/movements?ingredient_id="+m.riceID, nil, env.token)
	require.Equal(t, http.StatusOK, movResp.StatusCode)
	var movs dto.MovementListResponse
	decodeJSON(t, movResp, &movs)
	require.NotEmpty(t, movs.Data)
	assert.Equal(t, "consumption", movs.Data[0].Reason)
	assert.True(t, movs.Data[0].StockAfter.Equal(d("9.5")))
}

// Voiding a sale appends inverse adjustments and restores stock.
func TestE2E_VoidSaleRestoresStock(t *testing.T) {
	env := setupTestEnv(t)
	m := buildMenu(t, env)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":    []map[string]any{{"product_id": m.productID, "quantity": 4}},
			"payments": []map[string]any{{"method": "mobile", "amount": "32000"}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	var sale dto.SaleResponse
	decodeJSON(t, saleResp, &sale)
	require.True(t, getIngredient(t, env, m.riceID).RemainingQty.Equal(d("9")))

	voidResp := do(t, env.server, "POST", "/v1/sales/"+sale.ID+"/void",
		jsonBody(t, map[string]any{"reason": "customer complaint"}), env.token)
	require.Equal(t, http.StatusNoContent, voidResp.StatusCode)
	voidResp.Body.Close()

	assert.True(t, getIngredient(t, env, m.riceID).RemainingQty.Equal(d("10")))
	assert.True(t, getIngredient(t, env, m.oilID).RemainingQty.Equal(d("5")))

	getResp := do(t, env.server, "GET", "/v1/sales/"+sale.ID, nil, env.token)
	require.Equal(t, http.StatusOK, getResp.StatusCode)
	var voided dto.SaleResponse
	decodeJSON(t, getResp, &voided)
	assert.Equal(t, "void", voided.Status)
}

// A sale the stock cannot cover is rejected atomically with a 409.
func TestE2E_SaleShortfallRejected(t *testing.T) {
	env := setupTestEnv(t)
	m := buildMenu(t, env)

	// 50 portions need 12.5 kg of rice, only 10 in stock
	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":    []map[string]any{{"product_id": m.productID, "quantity": 50}},
			"payments": []map[string]any{{"method": "cash", "amount": "400000"}},
		}),
		env.token,
	)
	require.Equal(t, http.StatusConflict, saleResp.StatusCode)
	saleResp.Body.Close()

	assert.True(t, getIngredient(t, env, m.riceID).RemainingQty.Equal(d("10")))
}

// Receiving a delivery at a new unit price reprices the ingredient and
// recosts the products whose recipes use it.
func TestE2E_PurchaseRepricesAndRecosts(t *testing.T) {
	env := setupTestEnv(t)
	m := buildMenu(t, env)

	poResp := do(t, env.server, "POST", "/v1/purchases",
		jsonBody(t, map[string]any{
			"supplier_id": m.supplierID,
			"items": []map[string]any{
				{"ingredient_id": m.riceID, "quantity": "20", "unit_price": "4000"},
			},
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, poResp.StatusCode)
	var po dto.PurchaseResponse
	decodeJSON(t, poResp, &po)
	assert.True(t, po.Total.Equal(d("80000")))
	require.Len(t, po.RepricedProducts, 1)
	assert.Equal(t, m.productID, po.RepricedProducts[0].ProductID)

	rice := getIngredient(t, env, m.riceID)
	assert.True(t, rice.RemainingQty.Equal(d("30")))
	assert.True(t, rice.UnitPrice.Equal(d("4000")))

	// 0.250 × 4000 + 0.030 × 10000 = 1300
	prodResp := do(t, env.server, "GET", "/v1/products/"+m.productID, nil, env.token)
	require.Equal(t, http.StatusOK, prodResp.StatusCode)
	var prod dto.ProductResponse
	decodeJSON(t, prodResp, &prod)
	assert.True(t, prod.PurchasePrice.Equal(d("1300")))
}

// Bartenders can sell but cannot touch stock or menu structure.
func TestE2E_RoleEnforcement(t *testing.T) {
	env := setupTestEnv(t)
	m := buildMenu(t, env)

	userResp := do(t, env.server, "POST", "/v1/users",
		jsonBody(t, map[string]any{
			"username": "marie",
			"name":     "Marie N.",
			"password": "secret123",
			"role":     "bartender",
		}),
		env.token,
	)
	require.Equal(t, http.StatusCreated, userResp.StatusCode)
	userResp.Body.Close()

	loginResp := do(t, env.server, "POST", "/v1/auth/login",
		jsonBody(t, map[string]string{"username": "marie", "password": "secret123"}), "")
	require.Equal(t, http.StatusOK, loginResp.StatusCode)
	var login struct {
		AccessToken string `json:"access_token"`
	}
	decodeJSON(t, loginResp, &login)

	saleResp := do(t, env.server, "POST", "/v1/sales",
		jsonBody(t, map[string]any{
			"items":    []map[string]any{{"product_id": m.productID, "quantity": 1}},
			"payments": []map[string]any{{"method": "cash", "amount": "8000"}},
		}),
		login.AccessToken,
	)
	require.Equal(t, http.StatusCreated, saleResp.StatusCode)
	saleResp.Body.Close()

	adjResp := do(t, env.server, "POST", "/v1/ingredients/"+m.riceID+"/adjust-stock",
		jsonBody(t, map[string]any{"quantity": "1", "reason": "adjustment"}), login.AccessToken)
	require.Equal(t, http.StatusForbidden, adjResp.StatusCode)
	adjResp.Body.Close()

	delResp := do(t, env.server, "DELETE", "/v1/recipes/"+m.recipeID, nil, login.AccessToken)
	require.Equal(t, http.StatusForbidden, delResp.StatusCode)
	delResp.Body.Close()
}
