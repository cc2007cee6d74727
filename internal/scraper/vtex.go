package scraper

import (
	"encoding/json"
	"net/url"
	"strings"

	"relevador/helpers"
)

// vtexProduct mirrors the slice of the VTEX public catalog search payload we
// actually read. Field casing follows the platform ("commertialOffer" is the
// platform's own spelling).
type vtexProduct struct {
	Items []struct {
		Sellers []struct {
			CommertialOffer struct {
				Price *float64 `json:"Price"`
			} `json:"commertialOffer"`
		} `json:"sellers"`
	} `json:"items"`
	PriceRange struct {
		SellingPrice struct {
			LowPrice *float64 `json:"lowPrice"`
		} `json:"sellingPrice"`
	} `json:"priceRange"`
}

// VtexStrategy looks prices up through the VTEX public catalog search JSON
// endpoint. No HTML is involved; the first seller's commercial price wins,
// with the selling-price range's low bound as the fallback.
type VtexStrategy struct {
	client *Client
	log    *RunLog
}

// Name returns the strategy identifier
func (s *VtexStrategy) Name() string { return StrategyVtex }

// Attempt queries the catalog endpoint for term and extracts a price
func (s *VtexStrategy) Attempt(base, term string) (PriceResult, error) {
	api := strings.TrimRight(base, "/") + "/api/catalog_system/pub/products/search"
	params := url.Values{}
	params.Set("_from", "0")
	params.Set("_to", "9")
	params.Set("ft", term)

	body, err := s.client.Get(api, params)
	if err != nil {
		return PriceResult{}, err
	}

	var products []vtexProduct
	if err := json.Unmarshal(body, &products); err != nil {
		// Not a VTEX site; let the orchestrator move on
		return PriceResult{}, nil
	}
	if len(products) == 0 {
		s.log.Logf("VTEX: sin resultados")
		return PriceResult{}, nil
	}

	for _, prod := range products {
		for _, item := range prod.Items {
			for _, seller := range item.Sellers {
				if seller.CommertialOffer.Price != nil {
					return priceResultFromPlain(helpers.PlainFromFloat(*seller.CommertialOffer.Price)), nil
				}
			}
		}
	}
	for _, prod := range products {
		if low := prod.PriceRange.SellingPrice.LowPrice; low != nil {
			return priceResultFromPlain(helpers.PlainFromFloat(*low)), nil
		}
	}
	return PriceResult{}, nil
}
