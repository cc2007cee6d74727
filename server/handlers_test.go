package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relevador/config"
	"relevador/internal/run"
)

func testServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := config.Config{
		Port:        "0",
		RateLimit:   1000,
		VendorsFile: filepath.Join(t.TempDir(), "absent.txt"),
		MinDelay:    0,
		MaxDelay:    0,
		HTTPTimeout: 5 * time.Second,
		PDFTimeout:  5 * time.Second,
	}
	srv := New(cfg, run.NewMemoryRegistry(), ScrapeDeps{})
	return srv, srv.Router()
}

func doJSON(t *testing.T, h http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestHandleHealth(t *testing.T) {
	_, h := testServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/health", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestHandleVendorsDefaults(t *testing.T) {
	_, h := testServer(t)

	w := doJSON(t, h, http.MethodGet, "/api/vendors", nil)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	vendors, ok := body["vendors"].(map[string]interface{})
	require.True(t, ok)
	assert.Len(t, vendors, len(defaultVendors))
	assert.Equal(t, "https://www.musimundo.com", vendors["Musimundo"])
}

func TestHandleCancel(t *testing.T) {
	srv, h := testServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/cancel", map[string]string{"run_id": "run-7"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, true, decodeBody(t, w)["success"])
	assert.True(t, srv.registry.Cancelled("run-7"))
}

func TestHandleCancelMissingRunID(t *testing.T) {
	_, h := testServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/cancel", map[string]string{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "run_id requerido", decodeBody(t, w)["error"])
}

func TestHandleScrapeRejectsEmptyBody(t *testing.T) {
	_, h := testServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/scrape", map[string]interface{}{"products": []interface{}{}})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No se enviaron productos", decodeBody(t, w)["error"])
}

func TestHandleScrapeVendorRequiresName(t *testing.T) {
	_, h := testServer(t)

	w := doJSON(t, h, http.MethodPost, "/api/scrape_vendor", map[string]interface{}{
		"products": []map[string]string{{"producto": "Heladera"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Falta nombre de vendedor", decodeBody(t, w)["error"])
}

func TestHandleScrapeVendor(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/catalog_system/pub/products/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"items":[{"sellers":[{"commertialOffer":{"Price":123456.0}}]}]}]`))
	}))
	defer mock.Close()

	_, h := testServer(t)
	zero := 0

	w := doJSON(t, h, http.MethodPost, "/api/scrape_vendor", map[string]interface{}{
		"products":  []map[string]string{{"producto": "Heladera Acme", "marca": "Acme"}},
		"vendor":    map[string]string{"name": "TestVendor", "url": mock.URL},
		"min_delay": zero,
		"max_delay": zero,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])

	rows, ok := body["rows"].([]interface{})
	require.True(t, ok)
	require.Len(t, rows, 1)

	row, ok := rows[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, "Heladera Acme", row["Producto"])
	assert.Equal(t, "Acme", row["Marca"])
	assert.Equal(t, "ND", row["Marca (Sitio oficial)"])
	assert.Equal(t, "$ 123.456,00", row["TestVendor"])
	assert.Equal(t, "123456", row["TestVendor (num)"])

	logLines, ok := body["log"].([]interface{})
	require.True(t, ok)
	assert.NotEmpty(t, logLines)
}

func TestHandleScrapeCancelledRun(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(http.NotFound))
	defer mock.Close()

	srv, h := testServer(t)
	require.NoError(t, srv.registry.Cancel("run-9"))

	zero := 0
	w := doJSON(t, h, http.MethodPost, "/api/scrape_vendor", map[string]interface{}{
		"products":  []map[string]string{{"producto": "Heladera Acme"}},
		"vendor":    map[string]string{"name": "TestVendor", "url": mock.URL},
		"run_id":    "run-9",
		"min_delay": zero,
		"max_delay": zero,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "cancelled", body["error"])

	// The flag is cleared once the run finishes.
	assert.False(t, srv.registry.Cancelled("run-9"))
}

func TestHandleScrapeForcedColumns(t *testing.T) {
	mock := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/catalog_system/pub/products/search" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"items":[{"sellers":[{"commertialOffer":{"Price":6225.0}}]}]}]`))
	}))
	defer mock.Close()

	_, h := testServer(t)
	zero := 0

	w := doJSON(t, h, http.MethodPost, "/api/scrape", map[string]interface{}{
		"products":  []map[string]string{{"producto": "Heladera Acme"}},
		"vendors":   map[string]string{"TiendaX": mock.URL},
		"min_delay": zero,
		"max_delay": zero,
	})
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.Equal(t, true, body["success"])

	rows := body["rows"].([]interface{})
	require.Len(t, rows, 1)
	row := rows[0].(map[string]interface{})

	// The scraped vendor gets real values; the fixed default columns are
	// forced to "ND" without numeric companions.
	assert.Equal(t, "$ 6.225,00", row["TiendaX"])
	assert.Equal(t, "6225", row["TiendaX (num)"])
	assert.Equal(t, "ND", row["Carrefour"])
	_, hasNum := row["Carrefour (num)"]
	assert.False(t, hasNum)
}
