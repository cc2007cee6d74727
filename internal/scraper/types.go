package scraper

import (
	"fmt"
	"strings"
	"sync"

	"relevador/helpers"
)

// Product describes one target product. All fields are free text and any may
// be empty; identity is positional within a run.
type Product struct {
	Producto  string `json:"producto"`
	Marca     string `json:"marca"`
	Modelo    string `json:"modelo"`
	Capacidad string `json:"capacidad"`
	EAN       string `json:"ean"`
}

// Terms generates the search-term variants for a product in priority order:
// EAN first, then brand+model, model, product name, brand+capacity, each
// expanded through helpers.MatchVariants. At most 10 deduplicated variants.
func (p Product) Terms() []string {
	marca := strings.TrimSpace(p.Marca)
	modelo := strings.TrimSpace(p.Modelo)
	producto := strings.TrimSpace(p.Producto)
	capacidad := strings.TrimSpace(p.Capacidad)
	ean := strings.TrimSpace(p.EAN)

	var raw []string
	if ean != "" {
		raw = append(raw, ean)
	}
	if marca != "" && modelo != "" {
		raw = append(raw, marca+" "+modelo)
	}
	if modelo != "" {
		raw = append(raw, modelo)
	}
	if producto != "" {
		raw = append(raw, producto)
	}
	if marca != "" && capacidad != "" {
		raw = append(raw, marca+" "+capacidad)
	}

	var out []string
	seen := make(map[string]struct{})
	for _, term := range raw {
		for _, cand := range helpers.MatchVariants(term) {
			if cand == "" {
				continue
			}
			if _, ok := seen[cand]; ok {
				continue
			}
			out = append(out, cand)
			seen[cand] = struct{}{}
		}
	}
	if len(out) > 10 {
		out = out[:10]
	}
	return out
}

// PriceResult holds one vendor's answer for one product. Display is the
// formatted currency string or "ND"; Numeric is the plain whole-unit integer
// string or empty. Both are always set together.
type PriceResult struct {
	Display string `json:"display"`
	Numeric string `json:"numeric"`
}

// NotFound is the sentinel result for a price that could not be determined
var NotFound = PriceResult{Display: "ND", Numeric: ""}

// Found reports whether the result carries an actual price
func (r PriceResult) Found() bool {
	return r.Display != "" && r.Display != "ND" && r.Numeric != ""
}

// ResultRow is one product's row in the result matrix: fixed metadata
// columns plus one PriceResult per vendor name present in the run.
type ResultRow struct {
	Producto      string
	Marca         string
	MarcaOficial  string
	FechaConsulta string
	Prices        map[string]PriceResult
}

// Strategy is one vendor-platform-specific procedure for turning a search
// term into a price. A zero PriceResult with a nil error means "no result";
// errors are contained by the orchestrator except cancellation.
type Strategy interface {
	Name() string
	Attempt(base, term string) (PriceResult, error)
}

// RunLog is the ordered, append-only trace of one scrape run, returned to
// the caller when the run finishes. Appends are serialized so concurrent
// reimplementations keep per-vendor call order intact.
type RunLog struct {
	mu    sync.Mutex
	lines []string
}

// NewRunLog creates an empty run log
func NewRunLog() *RunLog {
	return &RunLog{}
}

// Logf appends one formatted trace line
func (l *RunLog) Logf(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lines = append(l.lines, fmt.Sprintf(format, args...))
}

// Lines returns a copy of the accumulated trace lines
func (l *RunLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]string, len(l.lines))
	copy(out, l.lines)
	return out
}
