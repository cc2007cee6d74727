package scraper

import (
	"bytes"
	"context"
	"io"
	mathrand "math/rand"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"golang.org/x/net/html/charset"

	"relevador/internal/metrics"
	errs "relevador/pkg/errors"
	"relevador/services/cache"
)

// Browser-like header configuration, mimicking organic navigation against
// Argentine retail sites
var (
	userAgents = []string{
		"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36",
		"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36",
		"Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120 Safari/537.36",
	}

	originPattern = regexp.MustCompile(`^https?://[^/]+`)
)

const blockKeyPrefix = "blocked:"

// browserHeaders derives the per-request header set for a target origin. The
// referer points at the target's own origin and Accept-Language is
// Spanish-first.
func browserHeaders(origin string) http.Header {
	rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))

	h := http.Header{}
	h.Set("User-Agent", userAgents[rnd.Intn(len(userAgents))])
	h.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8")
	h.Set("Accept-Language", "es-AR,es;q=0.9,en-US;q=0.8,en;q=0.7")
	h.Set("Cache-Control", "no-cache")
	h.Set("Pragma", "no-cache")
	h.Set("Upgrade-Insecure-Requests", "1")
	h.Set("Sec-Fetch-Site", "none")
	h.Set("Sec-Fetch-Mode", "navigate")
	h.Set("Sec-Fetch-User", "?1")
	h.Set("Sec-Fetch-Dest", "document")
	h.Set("Sec-Ch-Ua", `"Chromium";v="120", "Google Chrome";v="120", "Not:A-Brand";v="99"`)
	h.Set("Sec-Ch-Ua-Platform", `"Windows"`)
	h.Set("Sec-Ch-Ua-Mobile", "?0")
	h.Set("Referer", strings.TrimRight(origin, "/")+"/")
	return h
}

// ClientConfig configures a scrape HTTP client
type ClientConfig struct {
	DelayMin   time.Duration
	DelayMax   time.Duration
	Timeout    time.Duration
	PDFTimeout time.Duration
	Log        *RunLog
	Cancelled  func() bool

	// Fallback is the impersonating transport used once per call on a 403;
	// nil means the capability is unavailable and 403s fail directly.
	Fallback *http.Client

	// Blocklist remembers origins that rejected us; nil disables blocking
	Blocklist cache.CacheService
	BlockTime time.Duration
}

// Client issues GET requests with browser-like headers, a randomized
// inter-request pacing delay and a single anti-bot fallback attempt. The
// pacing sleep happens on the calling path after each successful request.
type Client struct {
	standard   *http.Client
	fallback   *http.Client
	delayMin   time.Duration
	delayMax   time.Duration
	timeout    time.Duration
	pdfTimeout time.Duration
	log        *RunLog
	cancelled  func() bool
	blocklist  cache.CacheService
	blockTime  time.Duration
}

// NewClient creates a new scrape client
func NewClient(cfg ClientConfig) *Client {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 25 * time.Second
	}
	if cfg.PDFTimeout <= 0 {
		cfg.PDFTimeout = 45 * time.Second
	}
	if cfg.Cancelled == nil {
		cfg.Cancelled = func() bool { return false }
	}
	if cfg.Log == nil {
		cfg.Log = NewRunLog()
	}
	return &Client{
		standard:   &http.Client{},
		fallback:   cfg.Fallback,
		delayMin:   cfg.DelayMin,
		delayMax:   cfg.DelayMax,
		timeout:    cfg.Timeout,
		pdfTimeout: cfg.PDFTimeout,
		log:        cfg.Log,
		cancelled:  cfg.Cancelled,
		blocklist:  cfg.Blocklist,
		blockTime:  cfg.BlockTime,
	}
}

// Get issues a GET with the client's default timeout
func (c *Client) Get(rawURL string, params url.Values) ([]byte, error) {
	return c.GetWithTimeout(rawURL, params, c.timeout)
}

// GetWithTimeout issues a GET with an explicit per-call timeout. The
// cancellation predicate is evaluated before any network I/O; a positive
// answer fails the call with a cancellation error and no request is made.
func (c *Client) GetWithTimeout(rawURL string, params url.Values, timeout time.Duration) ([]byte, error) {
	if c.cancelled() {
		c.log.Logf("Cancelado antes de GET %s", rawURL)
		return nil, errs.NewCancelled()
	}

	origin := originOf(rawURL)
	if c.blocked(origin) {
		c.log.Logf("GET %s omitido: dominio bloqueado por anti-bot", rawURL)
		return nil, errs.NewHTTP(403, rawURL)
	}

	full := rawURL
	if len(params) > 0 {
		sep := "?"
		if strings.Contains(rawURL, "?") {
			sep = "&"
		}
		full = rawURL + sep + params.Encode()
	}

	if len(params) > 0 {
		c.log.Logf("GET %s params=%s", rawURL, params.Encode())
	} else {
		c.log.Logf("GET %s", rawURL)
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	headers := browserHeaders(origin)

	status, finalURL, body, err := c.do(ctx, c.standard, full, headers)
	if err != nil {
		return nil, errs.NewNetwork(rawURL, err)
	}
	c.log.Logf("HTTP %d %s", status, finalURL)
	metrics.OutboundRequestsTotal.WithLabelValues(statusClass(status)).Inc()

	if status == http.StatusForbidden && c.fallback != nil {
		status2, finalURL2, body2, err2 := c.do(ctx, c.fallback, full, headers)
		if err2 == nil && status2 >= 200 && status2 < 300 {
			c.log.Logf("HTTP %d %s (transporte alternativo)", status2, finalURL2)
			metrics.FallbackAttemptsTotal.WithLabelValues("success").Inc()
			c.pace()
			return body2, nil
		}
		if err2 != nil {
			c.log.Logf("Transporte alternativo fallido: %v", err2)
		} else {
			c.log.Logf("HTTP %d %s (transporte alternativo)", status2, finalURL2)
		}
		metrics.FallbackAttemptsTotal.WithLabelValues("failure").Inc()
	}

	if status == http.StatusForbidden {
		c.block(origin)
		return nil, errs.NewHTTP(status, rawURL)
	}
	if status < 200 || status >= 300 {
		return nil, errs.NewHTTP(status, rawURL)
	}

	c.pace()
	return body, nil
}

// do executes one request and returns status, final URL and body bytes
func (c *Client) do(ctx context.Context, client *http.Client, fullURL string, headers http.Header) (int, string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return 0, "", nil, err
	}
	req.Header = headers.Clone()

	resp, err := client.Do(req)
	if err != nil {
		return 0, "", nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, "", nil, err
	}

	if isTextual(resp.Header.Get("Content-Type")) {
		body = c.decode(body, resp.Header.Get("Content-Type"))
	}

	return resp.StatusCode, resp.Request.URL.String(), body, nil
}

// decode converts a textual body to UTF-8 when it is not already
func (c *Client) decode(body []byte, contentType string) []byte {
	enc, name, _ := charset.DetermineEncoding(body, contentType)
	if name == "utf-8" || name == "UTF-8" {
		return body
	}

	utf8Reader := enc.NewDecoder().Reader(bytes.NewReader(body))
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, utf8Reader); err != nil {
		return body
	}
	return buf.Bytes()
}

// pace sleeps a uniformly random duration inside the configured delay range.
// This blocks the calling path on purpose: it throttles per-vendor request
// rate against anti-bot systems.
func (c *Client) pace() {
	d := c.delayMin
	if span := c.delayMax - c.delayMin; span > 0 {
		rnd := mathrand.New(mathrand.NewSource(time.Now().UnixNano()))
		d += time.Duration(rnd.Int63n(int64(span)))
	}
	if d > 0 {
		time.Sleep(d)
	}
}

func (c *Client) blocked(origin string) bool {
	if c.blocklist == nil || origin == "" {
		return false
	}
	_, err := c.blocklist.Get(blockKeyPrefix + origin)
	return err == nil
}

func (c *Client) block(origin string) {
	if c.blocklist == nil || origin == "" || c.blockTime <= 0 {
		return
	}
	if err := c.blocklist.Set(blockKeyPrefix+origin, []byte("1"), c.blockTime); err != nil {
		c.log.Logf("No se pudo registrar bloqueo de %s: %v", origin, err)
	}
}

func originOf(rawURL string) string {
	return originPattern.FindString(rawURL)
}

func statusClass(status int) string {
	switch {
	case status >= 200 && status < 300:
		return "2xx"
	case status >= 300 && status < 400:
		return "3xx"
	case status >= 400 && status < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func isTextual(contentType string) bool {
	if contentType == "" {
		return true
	}
	ct := strings.ToLower(contentType)
	for _, t := range []string{"text", "html", "json", "xml", "javascript"} {
		if strings.Contains(ct, t) {
			return true
		}
	}
	return false
}
