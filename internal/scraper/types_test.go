package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductTermsPriority(t *testing.T) {
	p := Product{
		Producto:  "Heladera No Frost 300L",
		Marca:     "Acme",
		Modelo:    "HF-300",
		Capacidad: "300L",
		EAN:       "7791234567890",
	}

	terms := p.Terms()
	require.NotEmpty(t, terms)

	// EAN leads, then brand+model, then model alone.
	assert.Equal(t, "7791234567890", terms[0])
	assert.Equal(t, "Acme HF-300", terms[1])
	assert.Equal(t, "HF-300", terms[2])
	assert.Contains(t, terms, "Heladera No Frost 300L")
	assert.Contains(t, terms, "Acme 300L")
	assert.LessOrEqual(t, len(terms), 10)
}

func TestProductTermsSkipsEmptyFields(t *testing.T) {
	p := Product{Producto: "Televisor 50"}
	assert.Equal(t, []string{"Televisor 50"}, p.Terms())

	assert.Empty(t, Product{}.Terms())
}

func TestProductTermsDeduplicates(t *testing.T) {
	p := Product{Marca: "Acme", Modelo: "X1", Producto: "X1"}
	terms := p.Terms()

	seen := map[string]int{}
	for _, term := range terms {
		seen[term]++
		assert.Equal(t, 1, seen[term], "duplicate term %q", term)
	}
}

func TestRunLog(t *testing.T) {
	log := NewRunLog()
	log.Logf("GET %s", "https://example.com")
	log.Logf("HTTP %d", 200)

	lines := log.Lines()
	require.Len(t, lines, 2)
	assert.Equal(t, "GET https://example.com", lines[0])
	assert.Equal(t, "HTTP 200", lines[1])

	// Lines returns a copy; mutating it does not affect the log.
	lines[0] = "changed"
	assert.Equal(t, "GET https://example.com", log.Lines()[0])
}

func TestPriceResultFound(t *testing.T) {
	assert.True(t, PriceResult{Display: "$ 6.225,00", Numeric: "6225"}.Found())
	assert.False(t, NotFound.Found())
	assert.False(t, PriceResult{}.Found())
}
