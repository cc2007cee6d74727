package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// WordPressStrategy targets WordPress/WooCommerce storefronts: it discovers
// the site's search form, then runs the plain search and the product-scoped
// search against its action URL, reading cards from each result page.
type WordPressStrategy struct {
	client *Client
}

// Name returns the strategy identifier
func (s *WordPressStrategy) Name() string { return StrategyWordPress }

// Attempt fetches the site root, locates the search form and queries it
func (s *WordPressStrategy) Attempt(base, term string) (PriceResult, error) {
	root := strings.TrimRight(base, "/") + "/"
	body, err := s.client.Get(root, nil)
	if err != nil {
		return PriceResult{}, err
	}

	action := findSearchAction(body, base)

	queries := []url.Values{
		{"s": []string{term}},
		{"s": []string{term}, "post_type": []string{"product"}},
	}
	for _, params := range queries {
		page, err := s.client.Get(action, params)
		if err != nil {
			return PriceResult{}, err
		}
		doc, err := parseDocument(page)
		if err != nil {
			return PriceResult{}, err
		}
		if plain := extractFromCards(doc, term); plain != "" {
			return priceResultFromPlain(plain), nil
		}
	}
	return PriceResult{}, nil
}

// findSearchAction locates the search form action URL in a WordPress front
// page: a form with role="search", else a form whose class mentions
// "search", else the site root.
func findSearchAction(body []byte, base string) string {
	fallback := strings.TrimRight(base, "/") + "/"

	doc, err := parseDocument(body)
	if err != nil {
		return fallback
	}

	form := doc.Find(`form[role="search"]`).First()
	if form.Length() == 0 {
		doc.Find("form").EachWithBreak(func(_ int, f *goquery.Selection) bool {
			class, _ := f.Attr("class")
			if strings.Contains(strings.ToLower(class), "search") {
				form = f
				return false
			}
			return true
		})
	}

	if form.Length() > 0 {
		if action, ok := form.Attr("action"); ok && action != "" {
			return resolveURL(fallback, action)
		}
	}
	return fallback
}

// resolveURL resolves a possibly-relative href against a base URL
func resolveURL(base, href string) string {
	bu, err := url.Parse(base)
	if err != nil {
		return href
	}
	hu, err := url.Parse(href)
	if err != nil {
		return href
	}
	return bu.ResolveReference(hu).String()
}
