package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"relevador/internal/run"
	"relevador/internal/scraper"
	errs "relevador/pkg/errors"
)

// vendorTarget is the single-vendor form of a scrape request
type vendorTarget struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// scrapeRequest is the request body shared by /api/scrape and
// /api/scrape_vendor. Headless is accepted for compatibility with older
// clients and ignored; IncludeOfficial is accepted and currently inert.
type scrapeRequest struct {
	Products        []scraper.Product `json:"products"`
	Vendors         map[string]string `json:"vendors"`
	Vendor          *vendorTarget     `json:"vendor"`
	RunID           string            `json:"run_id"`
	MinDelay        *int              `json:"min_delay"`
	MaxDelay        *int              `json:"max_delay"`
	IncludeOfficial bool              `json:"include_official"`
	Headless        *bool             `json:"headless"`
}

type cancelRequest struct {
	RunID string `json:"run_id"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

func (s *Server) handleVendors(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"vendors": s.vendorsForRequest(nil),
	})
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	var req cancelRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return
	}
	runID := strings.TrimSpace(req.RunID)
	if runID == "" {
		writeError(w, http.StatusBadRequest, "run_id requerido")
		return
	}

	if err := s.registry.Cancel(runID); err != nil {
		s.log.WithError(err).Error().Str("run_id", runID).Msg("Failed to set cancel flag")
		writeError(w, http.StatusInternalServerError, "No se pudo cancelar")
		return
	}

	s.log.Info().Str("run_id", runID).Msg("Run cancelled")
	writeJSON(w, http.StatusOK, map[string]interface{}{"success": true})
}

// handleScrape runs a full scrape: every product against every configured
// vendor. The response forces the fixed default vendor columns so the
// result matrix always has the same shape.
func (s *Server) handleScrape(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScrapeRequest(w, r)
	if !ok {
		return
	}

	vendors := s.vendorsForRequest(req.Vendors)
	if len(vendors) == 0 {
		writeError(w, http.StatusBadRequest, "No hay vendedores configurados")
		return
	}

	columns := make([]string, 0, len(defaultVendorOrder)+len(vendors))
	columns = append(columns, defaultVendorOrder...)
	for name := range vendors {
		if _, known := defaultVendors[name]; !known {
			columns = append(columns, name)
		}
	}

	s.runScrape(w, req, vendors, columns)
}

// handleScrapeVendor runs a scrape against exactly one vendor
func (s *Server) handleScrapeVendor(w http.ResponseWriter, r *http.Request) {
	req, ok := s.decodeScrapeRequest(w, r)
	if !ok {
		return
	}

	if req.Vendor == nil || strings.TrimSpace(req.Vendor.Name) == "" {
		writeError(w, http.StatusBadRequest, "Falta nombre de vendedor")
		return
	}
	name := strings.TrimSpace(req.Vendor.Name)
	vendors := map[string]string{name: strings.TrimSpace(req.Vendor.URL)}

	s.runScrape(w, req, vendors, []string{name})
}

// decodeScrapeRequest decodes and validates the shared request body
func (s *Server) decodeScrapeRequest(w http.ResponseWriter, r *http.Request) (scrapeRequest, bool) {
	var req scrapeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo JSON inválido")
		return req, false
	}

	req.Products = sanitizeProducts(req.Products)
	if len(req.Products) == 0 {
		writeError(w, http.StatusBadRequest, "No se enviaron productos")
		return req, false
	}
	return req, true
}

// runScrape executes the run and writes the response. Cancellation returns
// success=false together with whatever rows completed before the stop; that
// partial-result contract is fixed, not run-to-run dependent.
func (s *Server) runScrape(w http.ResponseWriter, req scrapeRequest, vendors map[string]string, columns []string) {
	minDelay := s.cfg.MinDelay
	maxDelay := s.cfg.MaxDelay
	if req.MinDelay != nil {
		minDelay = time.Duration(*req.MinDelay) * time.Second
	}
	if req.MaxDelay != nil {
		maxDelay = time.Duration(*req.MaxDelay) * time.Second
	}
	if maxDelay < minDelay {
		maxDelay = minDelay
	}

	runID := strings.TrimSpace(req.RunID)
	cancelled := run.Predicate(s.registry, runID)
	if runID != "" {
		defer s.registry.Clear(runID)
	}

	s.log.Info().
		Str("run_id", runID).
		Int("products", len(req.Products)).
		Int("vendors", len(vendors)).
		Msg("Starting scrape run")

	sc := s.newScraper(minDelay, maxDelay, cancelled)
	rows, logLines, err := sc.ScrapeAllVendors(req.Products, vendors, req.IncludeOfficial)

	records := make([]map[string]string, 0, len(rows))
	for _, row := range rows {
		records = append(records, rowRecord(row, columns))
	}

	if err != nil {
		status := "error"
		if errs.IsCancelled(err) {
			status = "cancelled"
		}
		s.log.Warn().Str("run_id", runID).Str("reason", status).Msg("Scrape run stopped early")
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": false,
			"error":   status,
			"rows":    records,
			"log":     logLines,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"rows":    records,
		"log":     logLines,
	})
}

// rowRecord serializes one result row into the column set of the response.
// Scraped vendors carry both the display and the numeric column; columns
// forced for shape only carry the "ND" display value.
func rowRecord(row scraper.ResultRow, columns []string) map[string]string {
	rec := map[string]string{
		"Producto":              row.Producto,
		"Marca":                 row.Marca,
		"Marca (Sitio oficial)": row.MarcaOficial,
		"Fecha de Consulta":     row.FechaConsulta,
	}
	for _, name := range columns {
		if pr, ok := row.Prices[name]; ok {
			rec[name] = pr.Display
			rec[name+" (num)"] = pr.Numeric
		} else {
			rec[name] = "ND"
		}
	}
	return rec
}

// sanitizeProducts trims every free-text field
func sanitizeProducts(products []scraper.Product) []scraper.Product {
	out := make([]scraper.Product, 0, len(products))
	for _, p := range products {
		p.Producto = strings.TrimSpace(p.Producto)
		p.Marca = strings.TrimSpace(p.Marca)
		p.Modelo = strings.TrimSpace(p.Modelo)
		p.Capacidad = strings.TrimSpace(p.Capacidad)
		p.EAN = strings.TrimSpace(p.EAN)
		out = append(out, p)
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]interface{}{
		"success": false,
		"error":   message,
	})
}
