// Package server exposes the scrape engine over a small JSON HTTP API: run
// a scrape, cancel a run by id, list vendors, health and metrics. The engine
// itself lives in internal/scraper; this layer is request/response glue.
package server

import (
	"net/http"
	"time"

	"github.com/didip/tollbooth/v7"
	"github.com/didip/tollbooth/v7/limiter"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	"relevador/config"
	"relevador/internal/run"
	"relevador/internal/scraper"
	"relevador/logger"
	"relevador/services/cache"
)

// ScrapeDeps carries the shared per-process capabilities injected into every
// scrape run. Nil members mean the capability is unavailable.
type ScrapeDeps struct {
	Fallback  *http.Client
	OCR       scraper.OCR
	Blocklist cache.CacheService
}

// Server is the HTTP API server
type Server struct {
	cfg      config.Config
	registry run.Registry
	deps     ScrapeDeps
	log      *logger.Logger
}

// New creates a new API server
func New(cfg config.Config, registry run.Registry, deps ScrapeDeps) *Server {
	return &Server{
		cfg:      cfg,
		registry: registry,
		deps:     deps,
		log:      logger.ForServer(),
	}
}

// Router builds the full handler chain: routes, request limiter, CORS
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)
	api.HandleFunc("/vendors", s.handleVendors).Methods(http.MethodGet)
	api.HandleFunc("/cancel", s.handleCancel).Methods(http.MethodPost)
	api.HandleFunc("/scrape", s.handleScrape).Methods(http.MethodPost)
	api.HandleFunc("/scrape_vendor", s.handleScrapeVendor).Methods(http.MethodPost)

	r.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	lmt := tollbooth.NewLimiter(s.cfg.RateLimit, &limiter.ExpirableOptions{
		DefaultExpirationTTL: time.Hour,
	})
	api.Use(func(next http.Handler) http.Handler {
		return tollbooth.LimitHandler(lmt, next)
	})

	return cors.New(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{http.MethodGet, http.MethodPost},
		AllowedHeaders: []string{"Content-Type"},
	}).Handler(r)
}

// newScraper builds a scraper bound to one request's pacing and cancel flag
func (s *Server) newScraper(minDelay, maxDelay time.Duration, cancelled func() bool) *scraper.Scraper {
	return scraper.New(scraper.Options{
		DelayMin:   minDelay,
		DelayMax:   maxDelay,
		Timeout:    s.cfg.HTTPTimeout,
		PDFTimeout: s.cfg.PDFTimeout,
		Cancelled:  cancelled,
		Fallback:   s.deps.Fallback,
		OCR:        s.deps.OCR,
		Blocklist:  s.deps.Blocklist,
		BlockTime:  s.cfg.BlockTime,
	})
}

// vendorsForRequest resolves the vendor map: request body, vendors file,
// then the built-in defaults.
func (s *Server) vendorsForRequest(requested map[string]string) map[string]string {
	if len(requested) > 0 {
		return requested
	}
	if v := ParseVendorsFile(s.cfg.VendorsFile); v != nil {
		return v
	}
	return DefaultVendors()
}
