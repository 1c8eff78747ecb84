package api

import (
	"bytes"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cerditos-farm/cerditos/internal/app/finance"
	"github.com/cerditos-farm/cerditos/internal/app/herd"
	"github.com/cerditos-farm/cerditos/internal/app/records"
	"github.com/cerditos-farm/cerditos/internal/app/session"
	"github.com/cerditos-farm/cerditos/internal/infra/sqlite"
)

// ─── Helpers ────────────────────────────────────────────────────────────────

func setupServer(t *testing.T, password string) http.Handler {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	srv := NewServer(
		records.NewService(db, db, nil),
		herd.NewService(db, db, nil),
		finance.NewService(db, finance.DefaultIRRConfig(), nil),
		session.NewManager(password, time.Hour, nil),
		nil,
	)
	srv.EnableMetrics()
	srv.SetHealthCheck(db.Ping)
	return srv.Handler()
}

func do(t *testing.T, h http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), "body: %s", w.Body.String())
	return out
}

func createAnimal(t *testing.T, h http.Handler, tag, category, sex string) int64 {
	t.Helper()
	w := do(t, h, http.MethodPost, "/api/animals", "", map[string]string{
		"ear_tag": tag, "category": category, "sex": sex,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	return int64(decode(t, w)["id"].(float64))
}

// ─── Health & Session ───────────────────────────────────────────────────────

func TestHealth(t *testing.T) {
	h := setupServer(t, "")
	w := do(t, h, http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestMetricsEndpoint(t *testing.T) {
	h := setupServer(t, "")
	do(t, h, http.MethodGet, "/health", "", nil)

	w := do(t, h, http.MethodGet, "/metrics", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "cerditos_http_request_duration_seconds")
}

func TestSessionGate(t *testing.T) {
	h := setupServer(t, "granja")

	w := do(t, h, http.MethodGet, "/api/animals", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	errBody := decode(t, w)["error"].(map[string]interface{})
	assert.Equal(t, "error", errBody["type"])

	w = do(t, h, http.MethodPost, "/api/session", "", map[string]string{"password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/api/session", "", map[string]string{"password": "granja"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)
	require.NotEmpty(t, token)
	assert.Contains(t, w.Header().Get("Set-Cookie"), SessionCookie+"="+token)

	w = do(t, h, http.MethodGet, "/api/animals", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())

	w = do(t, h, http.MethodDelete, "/api/session", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = do(t, h, http.MethodGet, "/api/animals", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionCookie(t *testing.T) {
	h := setupServer(t, "granja")

	w := do(t, h, http.MethodPost, "/api/session", "", map[string]string{"password": "granja"})
	require.Equal(t, http.StatusOK, w.Code)
	token := decode(t, w)["token"].(string)

	req := httptest.NewRequest(http.MethodGet, "/api/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: token})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

// ─── Records ────────────────────────────────────────────────────────────────

func TestAnimals(t *testing.T) {
	h := setupServer(t, "")

	createAnimal(t, h, "M-01", "Marrana", "Hembra")

	w := do(t, h, http.MethodPost, "/api/animals", "", map[string]string{
		"ear_tag": "X-01", "category": "Gallina", "sex": "Hembra",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/animals", "", map[string]interface{}{
		"ear_tag": "X-02", "category": "Marrana", "sex": "Hembra", "birth_date": "2023-02-30",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/animals", "", map[string]interface{}{"ear_tag": "X-03", "color": "pink"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/animals", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list []map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	require.Len(t, list, 1)
	assert.Equal(t, "Activo", list[0]["status"])
}

func TestMatingsAndFarrowings(t *testing.T) {
	h := setupServer(t, "")
	sow := createAnimal(t, h, "M-01", "Marrana", "Hembra")
	boar := createAnimal(t, h, "S-01", "Semental", "Macho")

	w := do(t, h, http.MethodPost, "/api/matings", "", map[string]interface{}{
		"sow_id": sow, "boar_id": boar, "mated_on": "2024-01-01", "expected_farrowing": "2030-01-01",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	mating := decode(t, w)
	assert.Equal(t, "2024-04-24", mating["expected_farrowing"])
	assert.Equal(t, "M-01", mating["sow_tag"])

	w = do(t, h, http.MethodPost, "/api/matings", "", map[string]interface{}{"sow_id": 999, "mated_on": "2024-01-01"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodPost, "/api/farrowings", "", map[string]interface{}{
		"mating_id": mating["id"], "farrowed_on": "2024-04-25", "born_alive": 12, "weaned": 11,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/farrowings", "", map[string]interface{}{"mating_id": 404, "farrowed_on": "2024-04-25"})
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = do(t, h, http.MethodGet, "/api/farrowings", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"sow_tag":"M-01"`)
}

func TestExpectedFarrowing(t *testing.T) {
	h := setupServer(t, "")

	w := do(t, h, http.MethodGet, "/api/matings/expected-farrowing?mated_on=2023-01-01", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, "2023-04-25", body["expected_farrowing"])
	assert.Equal(t, float64(114), body["gestation_days"])

	w = do(t, h, http.MethodGet, "/api/matings/expected-farrowing?mated_on=2023-02-29", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodGet, "/api/matings/expected-farrowing", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLedgerEndpoints(t *testing.T) {
	h := setupServer(t, "")

	w := do(t, h, http.MethodPost, "/api/sales", "", map[string]interface{}{
		"date": "2024-02-10", "kind": "Lechon", "quantity": 10, "total_price": "150000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/expenses", "", map[string]interface{}{
		"date": "2024-02-11", "category": "Veterinaria", "amount": 2500.5,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/feed", "", map[string]interface{}{
		"date": "2024-02-12", "stage": "Lactancia", "kg": "80", "cost": "120000",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodPost, "/api/expenses", "", map[string]interface{}{
		"date": "2024-02-11", "category": "Veterinaria", "amount": -1,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, h, http.MethodPost, "/api/sales", "", map[string]interface{}{
		"date": "2024-02-10", "kind": "Carne", "quantity": 1, "total_price": "1e300000000",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "oversized price must be rejected before storage")

	w = do(t, h, http.MethodPost, "/api/feed", "", map[string]interface{}{
		"date": "2024-02-12", "stage": "Lactancia", "kg": "80.123456789", "cost": "1",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code, "over-precise kg must be rejected")

	for _, path := range []string{"/api/sales", "/api/expenses", "/api/feed"} {
		w = do(t, h, http.MethodGet, path, "", nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		var list []map[string]interface{}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
		assert.Len(t, list, 1, path)
	}
}

// ─── Reports ────────────────────────────────────────────────────────────────

func TestFinanceReport(t *testing.T) {
	h := setupServer(t, "")
	w := do(t, h, http.MethodPost, "/api/sales", "", map[string]interface{}{
		"date": "2024-02-10", "kind": "Engorde", "quantity": 10, "total_price": "150000",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	w = do(t, h, http.MethodGet, "/api/finance/report?start=2024-01-01&end=2024-02-28&investment=100000", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	rep := decode(t, w)

	assert.Equal(t, "ok", rep["status"])
	assert.Equal(t, float64(2), rep["payback_months"])
	flows := rep["monthly_cashflow"].([]interface{})
	require.Len(t, flows, 3)
	assert.Equal(t, "t0", flows[0].(map[string]interface{})["month_label"])
	assert.Equal(t, "2024-02", flows[2].(map[string]interface{})["month_label"])

	irr := rep["irr_monthly"].(float64)
	assert.InDelta(t, math.Sqrt(1.5)-1, irr, 1e-4)
}

func TestFinanceReport_Conditions(t *testing.T) {
	h := setupServer(t, "")

	tests := []struct {
		query  string
		status string
	}{
		{"start=2024-06-01&end=2024-01-01", "invalid_date_range"},
		{"start=2024-01-01&end=2024-06-01", "insufficient_data"},
		{"start=2024-01-01&end=2024-06-01&investment=5000", "irr_undefined"},
	}
	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			w := do(t, h, http.MethodGet, "/api/finance/report?"+tt.query, "", nil)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
			assert.Equal(t, tt.status, decode(t, w)["status"])
		})
	}

	for _, q := range []string{"end=2024-01-01", "start=2024-01-01&end=2024-13-01", "start=2024-01-01&end=2024-02-01&investment=abc", "start=2024-01-01&end=2024-02-01&investment=-1", "start=2024-01-01&end=2024-02-01&investment=1e300000000", "start=2024-01-01&end=2024-02-01&investment=0.000000001"} {
		w := do(t, h, http.MethodGet, "/api/finance/report?"+q, "", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestCashFlowChart(t *testing.T) {
	h := setupServer(t, "")

	w := do(t, h, http.MethodGet, "/api/finance/cashflow.png?start=2024-01-01&end=2024-04-30&investment=100000", "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assert.True(t, bytes.HasPrefix(w.Body.Bytes(), []byte("\x89PNG")))

	w = do(t, h, http.MethodGet, "/api/finance/cashflow.png?start=2024-01-01&end=2024-04-30", "", nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestDashboardAndPeriod(t *testing.T) {
	h := setupServer(t, "")
	createAnimal(t, h, "M-01", "Marrana", "Hembra")
	createAnimal(t, h, "L-01", "Lechon", "Macho")

	w := do(t, h, http.MethodGet, "/api/dashboard", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	inv := decode(t, w)["inventory"].(map[string]interface{})
	assert.Equal(t, float64(2), inv["total"])
	assert.Equal(t, float64(1), inv["sows"])

	today := time.Now().Format(time.DateOnly)
	w = do(t, h, http.MethodGet, "/api/reports/period?start=2024-01-01&end="+today, "", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	psy := decode(t, w)["psy"].(map[string]interface{})
	assert.Equal(t, true, psy["defined"])
	assert.Equal(t, float64(1), psy["active_sows"])

	w = do(t, h, http.MethodGet, "/api/reports/period?start=2024-06-01&end=2024-01-01", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "invalid date range"), w.Body.String())

	w = do(t, h, http.MethodGet, "/api/reports/period?start="+strconv.Itoa(2024), "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
