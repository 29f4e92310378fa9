package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ventas-api/internal/application/analytics"
	"github.com/jhoicas/ventas-api/internal/application/dto"
	"github.com/jhoicas/ventas-api/internal/application/inventory"
	"github.com/jhoicas/ventas-api/internal/application/sales"
	"github.com/jhoicas/ventas-api/internal/application/statements"
	"github.com/jhoicas/ventas-api/internal/domain/entity"
	"github.com/jhoicas/ventas-api/internal/infrastructure/memory"
	"github.com/jhoicas/ventas-api/internal/infrastructure/metrics"
	apphttp "github.com/jhoicas/ventas-api/internal/interfaces/http"
)

type apiFixture struct {
	app   *fiber.App
	store *memory.Store
}

// newAPI monta el router completo sobre el almacén en memoria.
func newAPI(t *testing.T) *apiFixture {
	t.Helper()
	store := memory.NewStore()
	cost := decimal.NewFromInt(6)
	store.AddProduct(entity.Product{ID: "p-1", OwnerID: testOwnerID, Name: "Café", Price: decimal.NewFromInt(10), Cost: &cost, Stock: 5})
	store.AddProduct(entity.Product{ID: "p-b", OwnerID: "owner-b", Name: "Ajeno", Price: decimal.NewFromInt(1), Stock: 50})

	log := zerolog.Nop()
	rec := metrics.NewRecorder()
	saleUC := sales.NewSaleUseCase(sales.Deps{
		TxRunner:     store,
		CustomerRepo: store.Customers(),
		SaleRepo:     store.Sales(),
		InvoiceRepo:  store.Invoices(),
		Metrics:      rec,
		Logger:       log,
	})
	analyticsUC := analytics.NewAnalyticsUseCase(store.Analytics(), nil, rec, log, analytics.Config{})

	app := apphttp.NewApp("ventas-api-test", log)
	apphttp.Router(app, apphttp.RouterDeps{
		Sales:      saleUC,
		Analytics:  analyticsUC,
		Dashboard:  analytics.NewDashboardUseCase(store.Analytics()),
		LowStock:   inventory.NewReplenishmentUseCase(store.Analytics(), analyticsUC, 0, 0),
		Statements: statements.NewStatementsUseCase(store.Analytics(), rec, log),
		Metrics:    rec.Handler(),
		JWTSecret:  testJWTSecret,
	})
	return &apiFixture{app: app, store: store}
}

func (f *apiFixture) do(t *testing.T, method, path, auth string, body any) (*http.Response, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	out, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp, out
}

func saleBody(productID string, qty int) dto.CreateSaleRequest {
	return dto.CreateSaleRequest{
		Items:   []dto.CreateSaleItemRequest{{ProductID: productID, Quantity: qty}},
		Channel: "in-store",
	}
}

func errorCode(t *testing.T, body []byte) string {
	t.Helper()
	var e dto.ErrorResponse
	require.NoError(t, json.Unmarshal(body, &e), string(body))
	return e.Code
}

// ──────────────────────────────────────────────────────────────────────────────
// Ventas
// ──────────────────────────────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"status":"ok"}`, string(body))
}

func TestCreateSale_SinToken_Retorna401(t *testing.T) {
	f := newAPI(t)
	resp, body := f.do(t, http.MethodPost, "/api/sales", "", saleBody("p-1", 1))
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "UNAUTHORIZED", errorCode(t, body))
}

func TestCreateSale_YConsulta(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, testOwnerID, "vendedor")

	resp, body := f.do(t, http.MethodPost, "/api/sales", auth, saleBody("p-1", 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode, string(body))

	var sale dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &sale))
	assert.True(t, decimal.NewFromInt(20).Equal(sale.TotalAmount))
	assert.Equal(t, entity.PaymentCash, sale.PaymentMethod)
	assert.Equal(t, 3, f.store.Stock("p-1"))

	resp, body = f.do(t, http.MethodGet, "/api/sales/"+sale.ID, auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var got dto.SaleResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.Equal(t, sale.ID, got.ID)
	assert.Len(t, got.Items, 1)

	resp, body = f.do(t, http.MethodGet, "/api/sales/"+sale.ID, bearer(t, "owner-b", "vendedor"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Equal(t, "FORBIDDEN", errorCode(t, body))

	resp, body = f.do(t, http.MethodGet, "/api/sales/no-existe", auth, nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "NOT_FOUND", errorCode(t, body))
}

func TestCreateSale_MapeoDeErrores(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, testOwnerID, "vendedor")

	cases := []struct {
		name   string
		body   dto.CreateSaleRequest
		status int
		code   string
	}{
		{"stock insuficiente", saleBody("p-1", 10), http.StatusConflict, "INSUFFICIENT_STOCK"},
		{"sin líneas", dto.CreateSaleRequest{}, http.StatusBadRequest, "VALIDATION"},
		{"producto de otro propietario", saleBody("p-b", 1), http.StatusForbidden, "FORBIDDEN"},
		{"producto inexistente", saleBody("p-x", 1), http.StatusNotFound, "NOT_FOUND"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp, body := f.do(t, http.MethodPost, "/api/sales", auth, tc.body)
			assert.Equal(t, tc.status, resp.StatusCode, string(body))
			assert.Equal(t, tc.code, errorCode(t, body))
		})
	}
	assert.Equal(t, 5, f.store.Stock("p-1"), "ningún rechazo modifica el stock")
}

func TestCreateSale_CuerpoInvalido(t *testing.T) {
	f := newAPI(t)
	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{no-json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearer(t, testOwnerID, "vendedor"))
	resp, err := f.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

// ──────────────────────────────────────────────────────────────────────────────
// Analítica y estados financieros
// ──────────────────────────────────────────────────────────────────────────────

func TestAnalytics_TopProductsYDashboard(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, testOwnerID, "vendedor")
	resp, _ := f.do(t, http.MethodPost, "/api/sales", auth, saleBody("p-1", 2))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/analytics/top-products?period=month&limit=5", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var top []map[string]any
	require.NoError(t, json.Unmarshal(body, &top))
	require.Len(t, top, 1)
	assert.Equal(t, "p-1", top[0]["productId"])
	assert.Equal(t, float64(2), top[0]["totalSold"])
	assert.Contains(t, top[0], "timesSold")

	resp, body = f.do(t, http.MethodGet, "/api/dashboard/summary", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var summary dto.DashboardSummaryDTO
	require.NoError(t, json.Unmarshal(body, &summary))
	assert.Equal(t, 1, summary.TodayCount)

	resp, body = f.do(t, http.MethodGet, "/api/inventory/low-stock", auth, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var low []dto.LowStockDTO
	require.NoError(t, json.Unmarshal(body, &low))
	require.Len(t, low, 1)
	assert.Equal(t, 3, low[0].Stock)
}

func TestAnalytics_ParametrosInvalidos_Retorna400(t *testing.T) {
	f := newAPI(t)
	auth := bearer(t, testOwnerID, "vendedor")

	resp, body := f.do(t, http.MethodGet, "/api/analytics/sales-over-time?period=custom", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, body = f.do(t, http.MethodGet, "/api/analytics/forecast/revenue?method=magia", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))

	resp, _ = f.do(t, http.MethodGet, "/api/analytics/top-products?limit=abc", auth, nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestStatements_RequierenRol(t *testing.T) {
	f := newAPI(t)

	resp, _ := f.do(t, http.MethodGet, "/api/statements/profit-loss", bearer(t, testOwnerID, "vendedor"), nil)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/api/statements/profit-loss?periodType=YEARLY&year=2026", bearer(t, testOwnerID, "contador"), nil)
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	var pl map[string]any
	require.NoError(t, json.Unmarshal(body, &pl))
	assert.Contains(t, pl, "netIncome")
	assert.Contains(t, pl, "ratios")

	resp, body = f.do(t, http.MethodGet, "/api/statements/balance-sheet?asOf=ayer", bearer(t, testOwnerID, "admin"), nil)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION", errorCode(t, body))
}

func TestMetrics_ExponeContadores(t *testing.T) {
	f := newAPI(t)
	resp, _ := f.do(t, http.MethodPost, "/api/sales", bearer(t, testOwnerID, "vendedor"), saleBody("p-1", 1))
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body := f.do(t, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `ventas_sales_created_total{payment_method="CASH"} 1`)
}
