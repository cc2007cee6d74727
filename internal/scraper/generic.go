package scraper

import (
	"net/url"
	"strings"

	errs "relevador/pkg/errors"
)

// genericSearchPaths are the common storefront search endpoints probed when
// no platform-specific strategy matched.
var genericSearchPaths = []string{"/search", "/buscar", "/busca", "/s", "/busqueda"}

// GenericStrategy probes a fixed list of common search paths with ?q=term.
// Each path's failure is logged and skipped, never fatal; the probe keeps
// going through the whole list.
type GenericStrategy struct {
	client *Client
	log    *RunLog
}

// Name returns the strategy identifier
func (s *GenericStrategy) Name() string { return StrategyGeneric }

// Attempt probes each search path in turn
func (s *GenericStrategy) Attempt(base, term string) (PriceResult, error) {
	params := url.Values{}
	params.Set("q", term)

	for _, path := range genericSearchPaths {
		body, err := s.client.Get(strings.TrimRight(base, "/")+path, params)
		if err != nil {
			if errs.IsCancelled(err) {
				return PriceResult{}, err
			}
			s.log.Logf("Genérico error %s: %v", path, err)
			continue
		}

		doc, err := parseDocument(body)
		if err != nil {
			s.log.Logf("Genérico error %s: %v", path, err)
			continue
		}

		if plain := extractFromCards(doc, term); plain != "" {
			return priceResultFromPlain(plain), nil
		}
		if plain := scanPagePrice(doc); plain != "" {
			return priceResultFromPlain(plain), nil
		}
	}
	return PriceResult{}, nil
}
