package scraper

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"relevador/helpers"
)

func TestExtractPDFLinks(t *testing.T) {
	page := []byte(`<html><body>
		<a href="/folletos/ofertas-enero.PDF">Ofertas</a>
		<a href="https://cdn.example.com/catalogo.pdf">Catálogo</a>
		<a href="/otra-pagina">No PDF</a>
		<iframe src="https://cdn.example.com/embebido.pdf"></iframe>
	</body></html>`)

	links := extractPDFLinks(page, "https://tienda.example.com/")

	require.Len(t, links, 3)
	assert.Equal(t, "https://tienda.example.com/folletos/ofertas-enero.PDF", links[0])
	assert.Equal(t, "https://cdn.example.com/catalogo.pdf", links[1])
	assert.Equal(t, "https://cdn.example.com/embebido.pdf", links[2])
}

func TestMatchBrochureText(t *testing.T) {
	variants := helpers.MatchVariants("Heladera Acme")

	text := "GRAN OFERTA Heladera Acme No Frost llevala hoy por $ 4.999.000,00 hasta agotar stock"
	assert.Equal(t, "4999000", matchBrochureText(text, variants))
}

func TestMatchBrochureTextWindowExcludesDistantPrice(t *testing.T) {
	variants := helpers.MatchVariants("Heladera Acme")

	// The only price sits far outside the proximity window of the mention.
	text := "$ 4.999.000,00" + strings.Repeat(" x", 300) + " Heladera Acme"
	assert.Equal(t, "", matchBrochureText(text, variants))
}

func TestMatchBrochureTextNoMention(t *testing.T) {
	variants := helpers.MatchVariants("Heladera Acme")
	assert.Equal(t, "", matchBrochureText("Lavarropas Otro $ 6.225,00", variants))
	assert.Equal(t, "", matchBrochureText("", variants))
}

func TestDedupe(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "c"}, dedupe([]string{"a", "b", "a", "c", "b"}))
	assert.Nil(t, dedupe(nil))
}
