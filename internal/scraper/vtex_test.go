package scraper

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newVtexStrategy(log *RunLog) *VtexStrategy {
	if log == nil {
		log = NewRunLog()
	}
	client := NewClient(ClientConfig{Log: log})
	return &VtexStrategy{client: client, log: log}
}

func TestVtexStrategySellerPrice(t *testing.T) {
	var gotPath, gotFT string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFT = r.URL.Query().Get("ft")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"items":[{"sellers":[{"commertialOffer":{"Price":123456.0}}]}]}]`))
	}))
	defer server.Close()

	s := newVtexStrategy(nil)
	result, err := s.Attempt(server.URL, "heladera acme")
	require.NoError(t, err)

	assert.Equal(t, "/api/catalog_system/pub/products/search", gotPath)
	assert.Equal(t, "heladera acme", gotFT)
	assert.Equal(t, "$ 123.456,00", result.Display)
	assert.Equal(t, "123456", result.Numeric)
}

func TestVtexStrategyPriceRangeFallback(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[{"items":[{"sellers":[{"commertialOffer":{}}]}],"priceRange":{"sellingPrice":{"lowPrice":6225.0}}}]`))
	}))
	defer server.Close()

	s := newVtexStrategy(nil)
	result, err := s.Attempt(server.URL, "tv")
	require.NoError(t, err)
	assert.Equal(t, "$ 6.225,00", result.Display)
	assert.Equal(t, "6225", result.Numeric)
}

func TestVtexStrategyEmptyResults(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	log := NewRunLog()
	s := newVtexStrategy(log)
	result, err := s.Attempt(server.URL, "tv")
	require.NoError(t, err)
	assert.False(t, result.Found())
	assert.Contains(t, log.Lines(), "VTEX: sin resultados")
}

func TestVtexStrategyNonJSONBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html>not vtex</html>`))
	}))
	defer server.Close()

	s := newVtexStrategy(nil)
	result, err := s.Attempt(server.URL, "tv")
	require.NoError(t, err)
	assert.False(t, result.Found())
}
