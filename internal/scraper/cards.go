package scraper

import (
	"bytes"
	"regexp"

	"github.com/PuerkitoBio/goquery"

	"relevador/helpers"
)

// Selector priority lists for card-based extraction. These are tuning data
// accumulated against real vendor storefronts; order matters.
var (
	cardSelectors = []string{
		".product-item", "li.product", ".product", ".product-card", ".grid-item", ".product-box",
		".vtex-product-summary-2-x-container", ".ais-InfiniteHits-item",
	}

	titleSelectors = []string{
		".product-name", ".product-title", ".vtex-product-summary-2-x-productBrand", ".vtex-product-summary-2-x-productNameContainer",
		"h1", "h2", "h3", "a[title]",
	}

	priceSelectors = []string{
		".woocommerce-Price-amount.amount", ".price", ".product-price", ".prices",
		".vtex-product-price-1-x-sellingPrice", "[class*='price' i]", "[class*='precio' i]", "span[data-price]",
	}

	pricePattern = regexp.MustCompile(`\$?\s*\d[\d\.\,]*`)
)

// extractFromCards walks the card selector priority list over a parsed page
// and returns the plain numeric price of the first card that both matches a
// search-term variant and carries a price, or "". A card is relevant when its
// whole visible text, or any title-like sub-element, matches a variant; the
// price comes from the first matching price sub-element, falling back to a
// currency-pattern scan of the card's raw text. No aggregation across cards.
func extractFromCards(doc *goquery.Document, term string) string {
	variants := helpers.MatchVariants(term)

	for _, cs := range cardSelectors {
		var price string
		doc.Find(cs).EachWithBreak(func(_ int, card *goquery.Selection) bool {
			cardText := helpers.NormalizeSpaces(card.Text())

			relevant := helpers.TextMatchesAnyVariant(cardText, variants)
			if !relevant {
				for _, ts := range titleSelectors {
					title := card.Find(ts).First()
					if title.Length() > 0 && helpers.TextMatchesAnyVariant(helpers.NormalizeSpaces(title.Text()), variants) {
						relevant = true
						break
					}
				}
			}
			if !relevant {
				return true
			}

			for _, ps := range priceSelectors {
				el := card.Find(ps).First()
				if el.Length() > 0 {
					if p := helpers.NormalizePrice(helpers.NormalizeSpaces(el.Text())); p != "" {
						price = p
						return false
					}
				}
			}

			if m := pricePattern.FindString(cardText); m != "" {
				if p := helpers.NormalizePrice(m); p != "" {
					price = p
					return false
				}
			}
			return true
		})
		if price != "" {
			return price
		}
	}
	return ""
}

// pageText flattens a document to normalized visible text for raw regex scans
func pageText(doc *goquery.Document) string {
	return helpers.NormalizeSpaces(doc.Text())
}

// scanPagePrice is the last-resort extraction: the first currency-pattern
// match anywhere in the page text, with no relevance check.
func scanPagePrice(doc *goquery.Document) string {
	if m := pricePattern.FindString(pageText(doc)); m != "" {
		return helpers.NormalizePrice(m)
	}
	return ""
}

// priceResultFromPlain builds the display/numeric pair from a plain integer
func priceResultFromPlain(plain string) PriceResult {
	if plain == "" {
		return PriceResult{}
	}
	return PriceResult{
		Display: helpers.FormatDisplay(plain),
		Numeric: plain,
	}
}

// parseDocument parses fetched HTML bytes into a goquery document
func parseDocument(body []byte) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(bytes.NewReader(body))
}
