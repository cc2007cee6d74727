package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// OutboundRequestsTotal counts requests made against vendor sites
	OutboundRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relevador_outbound_requests_total",
			Help: "Total number of outbound vendor requests.",
		},
		[]string{"status_class"},
	)

	// FallbackAttemptsTotal counts 403s retried through the impersonating transport
	FallbackAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relevador_fallback_attempts_total",
			Help: "Total number of anti-bot fallback transport attempts.",
		},
		[]string{"outcome"},
	)

	// StrategyAttemptsTotal counts strategy attempts per platform and outcome
	StrategyAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relevador_strategy_attempts_total",
			Help: "Total number of platform strategy attempts.",
		},
		[]string{"strategy", "outcome"},
	)

	// ScrapeRunsTotal counts whole scrape runs by how they finished
	ScrapeRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "relevador_scrape_runs_total",
			Help: "Total number of scrape runs.",
		},
		[]string{"outcome"},
	)

	// ScrapeDuration observes whole-run durations
	ScrapeDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "relevador_scrape_duration_seconds",
			Help:    "Duration of scrape runs.",
			Buckets: []float64{1, 5, 15, 30, 60, 120, 300, 600},
		},
	)
)
