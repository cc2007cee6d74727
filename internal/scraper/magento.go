package scraper

import (
	"net/url"
	"strings"
)

// MagentoStrategy runs the stock Magento catalog search and extracts a price
// from the result cards, falling back to a raw currency-pattern scan of the
// whole page.
type MagentoStrategy struct {
	client *Client
}

// Name returns the strategy identifier
func (s *MagentoStrategy) Name() string { return StrategyMagento }

// Attempt fetches /catalogsearch/result/?q=term and extracts a price
func (s *MagentoStrategy) Attempt(base, term string) (PriceResult, error) {
	searchURL := strings.TrimRight(base, "/") + "/catalogsearch/result/"
	params := url.Values{}
	params.Set("q", term)

	body, err := s.client.Get(searchURL, params)
	if err != nil {
		return PriceResult{}, err
	}

	doc, err := parseDocument(body)
	if err != nil {
		return PriceResult{}, err
	}

	if plain := extractFromCards(doc, term); plain != "" {
		return priceResultFromPlain(plain), nil
	}
	if plain := scanPagePrice(doc); plain != "" {
		return priceResultFromPlain(plain), nil
	}
	return PriceResult{}, nil
}
