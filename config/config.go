package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config represents the application configuration
type Config struct {
	// HTTP API configuration
	Port        string
	RateLimit   float64
	VendorsFile string

	// Scrape pacing and timeouts
	MinDelay    time.Duration
	MaxDelay    time.Duration
	HTTPTimeout time.Duration
	PDFTimeout  time.Duration

	// Anti-bot block cache
	MemcacheAddr string
	BlockTime    time.Duration

	// Cancel-flag registry (shared across processes when Redis is set)
	RedisAddr string
	RedisDB   int

	// OCR sidecar for scanned brochures; empty disables the capability
	OCRServiceURL string

	// Environment
	Environment string
}

// LoadConfig loads the configuration from environment variables with defaults
func LoadConfig() Config {
	minDelay, _ := strconv.Atoi(getEnv("MIN_DELAY_SECONDS", "2"))
	maxDelay, _ := strconv.Atoi(getEnv("MAX_DELAY_SECONDS", "5"))
	httpTimeout, _ := strconv.Atoi(getEnv("HTTP_TIMEOUT_SECONDS", "25"))
	pdfTimeout, _ := strconv.Atoi(getEnv("PDF_TIMEOUT_SECONDS", "45"))
	blockTime, _ := strconv.Atoi(getEnv("BLOCK_SECONDS", "300"))
	rateLimit, _ := strconv.ParseFloat(getEnv("API_RATE_LIMIT", "5"), 64)
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))

	return Config{
		Port:          getEnv("PORT", "8000"),
		RateLimit:     rateLimit,
		VendorsFile:   getEnv("VENDORS_FILE", "VENDEDORES.txt"),
		MinDelay:      time.Duration(minDelay) * time.Second,
		MaxDelay:      time.Duration(maxDelay) * time.Second,
		HTTPTimeout:   time.Duration(httpTimeout) * time.Second,
		PDFTimeout:    time.Duration(pdfTimeout) * time.Second,
		MemcacheAddr:  getEnv("MEMCACHE_ADDR", ""),
		BlockTime:     time.Duration(blockTime) * time.Second,
		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisDB:       redisDB,
		OCRServiceURL: getEnv("OCR_SERVICE_URL", ""),
		Environment:   getEnv("RELEVADOR_ENVIRONMENT", "development"),
	}
}

// Validate checks the configuration for inconsistent values
func (c *Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port must not be empty")
	}
	if c.MinDelay < 0 || c.MaxDelay < 0 {
		return fmt.Errorf("delay range must not be negative")
	}
	if c.MaxDelay < c.MinDelay {
		return fmt.Errorf("max delay %s is below min delay %s", c.MaxDelay, c.MinDelay)
	}
	if c.HTTPTimeout <= 0 || c.PDFTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
