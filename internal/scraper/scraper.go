// Package scraper implements the vendor-matching and price-extraction
// engine: term-variant generation, platform-strategy dispatch, HTML/PDF
// price extraction and the per-run HTTP client with anti-bot resilience.
package scraper

import (
	"fmt"
	"net/http"
	"sort"
	"time"

	"relevador/internal/metrics"
	"relevador/logger"
	errs "relevador/pkg/errors"
	"relevador/services/cache"
)

// dateLayout is the query-date format carried in every result row
const dateLayout = "02/01/2006"

// Options configures one scrape run
type Options struct {
	// DelayMin/DelayMax bound the randomized pacing sleep after each request
	DelayMin time.Duration
	DelayMax time.Duration

	// Timeout applies per call; PDFTimeout to brochure downloads
	Timeout    time.Duration
	PDFTimeout time.Duration

	// Cancelled is polled before every outbound request
	Cancelled func() bool

	// Fallback is the impersonating transport capability; nil disables it
	Fallback *http.Client

	// OCR is the scanned-brochure capability; nil disables it
	OCR OCR

	// Blocklist remembers anti-bot rejected origins across runs
	Blocklist cache.CacheService
	BlockTime time.Duration

	// Now overrides the clock, for tests
	Now func() time.Time
}

// Scraper runs one scrape invocation: every product against every vendor,
// trying term variants against the vendor's ordered strategy list.
type Scraper struct {
	client     *Client
	strategies map[string]Strategy
	log        *RunLog
	now        func() time.Time
}

// New creates a scraper for a single run
func New(opts Options) *Scraper {
	runLog := NewRunLog()
	client := NewClient(ClientConfig{
		DelayMin:   opts.DelayMin,
		DelayMax:   opts.DelayMax,
		Timeout:    opts.Timeout,
		PDFTimeout: opts.PDFTimeout,
		Log:        runLog,
		Cancelled:  opts.Cancelled,
		Fallback:   opts.Fallback,
		Blocklist:  opts.Blocklist,
		BlockTime:  opts.BlockTime,
	})

	strategies := map[string]Strategy{
		StrategyVtex:      &VtexStrategy{client: client, log: runLog},
		StrategyMagento:   &MagentoStrategy{client: client},
		StrategyWordPress: &WordPressStrategy{client: client},
		StrategyGeneric:   &GenericStrategy{client: client, log: runLog},
		StrategyBrochures: &BrochuresStrategy{client: client, ocr: opts.OCR, log: runLog},
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Scraper{
		client:     client,
		strategies: strategies,
		log:        runLog,
		now:        now,
	}
}

// ScrapeAllVendors produces one ResultRow per product, each carrying one
// PriceResult per vendor, plus the ordered run log. Vendors are processed in
// name order for deterministic output. On cancellation the rows completed so
// far are returned together with the cancellation error; every other
// strategy failure is contained and logged, never fatal to the run.
func (s *Scraper) ScrapeAllVendors(products []Product, vendors map[string]string, includeOfficialSite bool) ([]ResultRow, []string, error) {
	start := s.now()
	dateOnly := start.Format(dateLayout)

	if includeOfficialSite {
		// Accepted for forward compatibility; no strategy consults it yet
		s.log.Logf("Sitio oficial: búsqueda no implementada, parámetro ignorado")
	}

	names := make([]string, 0, len(vendors))
	for name := range vendors {
		names = append(names, name)
	}
	sort.Strings(names)

	var rows []ResultRow
	for _, p := range products {
		row := ResultRow{
			Producto:      p.Producto,
			Marca:         p.Marca,
			MarcaOficial:  "ND",
			FechaConsulta: dateOnly,
			Prices:        make(map[string]PriceResult, len(vendors)),
		}

		for _, name := range names {
			result, err := s.searchVendor(name, vendors[name], p)
			if err != nil {
				rows = append(rows, row)
				metrics.ScrapeRunsTotal.WithLabelValues("cancelled").Inc()
				return rows, s.log.Lines(), err
			}
			if result.Found() {
				row.Prices[name] = result
			} else {
				row.Prices[name] = NotFound
			}
		}
		rows = append(rows, row)
	}

	metrics.ScrapeRunsTotal.WithLabelValues("completed").Inc()
	metrics.ScrapeDuration.Observe(s.now().Sub(start).Seconds())
	return rows, s.log.Lines(), nil
}

// searchVendor tries each term variant, in priority order, against the
// vendor's strategy list, short-circuiting on the first priced result. Only
// cancellation is returned as an error.
func (s *Scraper) searchVendor(vendorName, base string, p Product) (PriceResult, error) {
	for _, term := range p.Terms() {
		result, err := s.searchVendorOnce(vendorName, base, term)
		if err != nil {
			return PriceResult{}, err
		}
		if result.Found() {
			return result, nil
		}
	}
	return PriceResult{}, nil
}

// searchVendorOnce tries one term against the vendor's ordered strategies
func (s *Scraper) searchVendorOnce(vendorName, base, term string) (PriceResult, error) {
	log := logger.ForVendor(vendorName)

	for _, name := range platformOrder(vendorName) {
		strat := s.strategies[name]
		s.logAttempt(vendorName, name, term)

		result, err := attempt(strat, base, term)
		if err != nil {
			if errs.IsCancelled(err) {
				metrics.StrategyAttemptsTotal.WithLabelValues(name, "cancelled").Inc()
				return PriceResult{}, err
			}
			if status := errs.StatusOf(err); status > 0 {
				s.log.Logf("HTTPError %v", err)
			} else {
				s.log.Logf("Error %v", err)
			}
			log.Debug().Err(err).Str("strategy", name).Str("term", term).Msg("Strategy attempt failed")
			metrics.StrategyAttemptsTotal.WithLabelValues(name, "error").Inc()
			continue
		}

		if result.Found() {
			metrics.StrategyAttemptsTotal.WithLabelValues(name, "found").Inc()
			return result, nil
		}
		metrics.StrategyAttemptsTotal.WithLabelValues(name, "miss").Inc()
	}
	return PriceResult{}, nil
}

// attempt runs one strategy, converting a panic inside extraction code into
// a contained error so a single malformed page cannot kill the whole run
func attempt(strat Strategy, base, term string) (result PriceResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = PriceResult{}
			err = errs.NewExtraction("strategy panic", fmt.Errorf("%v", r))
		}
	}()
	return strat.Attempt(base, term)
}

// logAttempt writes the strategy trace line in the run log's wording
func (s *Scraper) logAttempt(vendorName, strategy, term string) {
	switch strategy {
	case StrategyVtex:
		s.log.Logf("[%s] estrategia=VTEX ft=%s", vendorName, term)
	case StrategyMagento:
		s.log.Logf("[%s] estrategia=Magento q=%s", vendorName, term)
	case StrategyWordPress:
		s.log.Logf("[%s] estrategia=WordPress q=%s", vendorName, term)
	case StrategyBrochures:
		s.log.Logf("[%s] estrategia=Folletos term=%s", vendorName, term)
	default:
		s.log.Logf("[%s] estrategia=Genérico q=%s", vendorName, term)
	}
}
