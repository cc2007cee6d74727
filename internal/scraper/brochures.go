package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"relevador/helpers"
	errs "relevador/pkg/errors"
)

// brochurePaths are the likely promotion-page locations checked for PDF
// brochure links, on top of the vendor root.
var brochurePaths = []string{"ofertas", "oferta", "promociones", "folleto", "folletos", "catalogo", "catalogos"}

// maxBrochurePDFs caps how many harvested PDFs one attempt will read
const maxBrochurePDFs = 12

// ocrTextThreshold: below this many extracted characters the PDF is treated
// as scanned and handed to OCR.
const ocrTextThreshold = 200

// BrochuresStrategy scans vendor-published PDF brochures. It harvests PDF
// links from the vendor root and the promotion pages, extracts each PDF's
// text (OCR fallback for scanned ones) and accepts a currency match only
// when a term variant's tokens all appear inside a ±200-character window
// around it — a proximity heuristic standing in for layout awareness.
type BrochuresStrategy struct {
	client *Client
	ocr    OCR
	log    *RunLog
}

// Name returns the strategy identifier
func (s *BrochuresStrategy) Name() string { return StrategyBrochures }

// Attempt harvests brochure PDFs and scans them for a priced mention of term
func (s *BrochuresStrategy) Attempt(base, term string) (PriceResult, error) {
	pages := []string{base}
	for _, p := range brochurePaths {
		pages = append(pages, strings.TrimRight(base, "/")+"/"+p)
	}

	var pdfs []string
	for _, pageURL := range pages {
		body, err := s.client.Get(pageURL, nil)
		if err != nil {
			if errs.IsCancelled(err) {
				return PriceResult{}, err
			}
			s.log.Logf("Folleto error %s: %v", pageURL, err)
			continue
		}
		pdfs = append(pdfs, extractPDFLinks(body, base)...)
	}
	pdfs = dedupe(pdfs)
	if len(pdfs) > maxBrochurePDFs {
		pdfs = pdfs[:maxBrochurePDFs]
	}

	variants := helpers.MatchVariants(term)
	for _, pdfURL := range pdfs {
		text := s.pdfText(pdfURL)
		if plain := matchBrochureText(text, variants); plain != "" {
			return priceResultFromPlain(plain), nil
		}
	}
	return PriceResult{}, nil
}

// pdfText downloads one brochure and extracts its text, running OCR when the
// embedded text is suspiciously short. Failures degrade to empty text.
func (s *BrochuresStrategy) pdfText(pdfURL string) string {
	data, err := s.client.GetWithTimeout(pdfURL, nil, s.client.pdfTimeout)
	if err != nil {
		s.log.Logf("PDF error %v %s", err, pdfURL)
		return ""
	}

	text, err := extractPDFText(data)
	if err != nil {
		s.log.Logf("PDF error %v %s", err, pdfURL)
		text = ""
	} else {
		s.log.Logf("PDF extraído (%d chars) %s", len(text), pdfURL)
	}

	if len(text) < ocrTextThreshold && s.ocr != nil {
		ocrText, err := s.ocr.ExtractText(data)
		if err != nil {
			s.log.Logf("OCR error %v %s", err, pdfURL)
			return text
		}
		s.log.Logf("OCR extraído (%d chars) %s", len(ocrText), pdfURL)
		return ocrText
	}
	return text
}

// matchBrochureText scans text for currency-pattern matches and returns the
// plain price of the first match whose ±200-character window contains every
// token of some variant, or "".
func matchBrochureText(text string, variants []string) string {
	lower := strings.ToLower(text)
	for _, loc := range pricePattern.FindAllStringIndex(lower, -1) {
		start := loc[0] - 200
		if start < 0 {
			start = 0
		}
		end := loc[1] + 200
		if end > len(lower) {
			end = len(lower)
		}
		window := lower[start:end]

		matched := false
		for _, v := range variants {
			tokens := strings.Fields(strings.ToLower(v))
			if len(tokens) == 0 {
				continue
			}
			all := true
			for _, tok := range tokens {
				if !strings.Contains(window, tok) {
					all = false
					break
				}
			}
			if all {
				matched = true
				break
			}
		}
		if !matched {
			continue
		}

		if plain := helpers.NormalizePrice(lower[loc[0]:loc[1]]); plain != "" {
			return plain
		}
	}
	return ""
}

// extractPDFLinks pulls brochure PDF URLs out of a page: every <a href>
// ending in .pdf (relative links resolved against the vendor base) and every
// PDF <iframe src>.
func extractPDFLinks(body []byte, base string) []string {
	doc, err := parseDocument(body)
	if err != nil {
		return nil
	}

	var links []string
	doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		href, _ := a.Attr("href")
		if !strings.HasSuffix(strings.ToLower(href), ".pdf") {
			return
		}
		if !strings.HasPrefix(href, "http") {
			href = strings.TrimRight(base, "/") + "/" + strings.TrimLeft(href, "/")
		}
		links = append(links, href)
	})
	doc.Find("iframe[src]").Each(func(_ int, f *goquery.Selection) {
		src, _ := f.Attr("src")
		if strings.HasSuffix(strings.ToLower(src), ".pdf") {
			links = append(links, src)
		}
	})
	return links
}

// dedupe removes duplicates preserving first-seen order
func dedupe(list []string) []string {
	seen := make(map[string]struct{}, len(list))
	var out []string
	for _, s := range list {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
