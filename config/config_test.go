package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfigDefaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8000", cfg.Port)
	assert.Equal(t, 5.0, cfg.RateLimit)
	assert.Equal(t, "VENDEDORES.txt", cfg.VendorsFile)
	assert.Equal(t, 2*time.Second, cfg.MinDelay)
	assert.Equal(t, 5*time.Second, cfg.MaxDelay)
	assert.Equal(t, 25*time.Second, cfg.HTTPTimeout)
	assert.Equal(t, 45*time.Second, cfg.PDFTimeout)
	assert.Equal(t, 5*time.Minute, cfg.BlockTime)
	assert.Empty(t, cfg.MemcacheAddr)
	assert.Empty(t, cfg.RedisAddr)
	assert.Empty(t, cfg.OCRServiceURL)
	assert.Equal(t, "development", cfg.Environment)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("MIN_DELAY_SECONDS", "0")
	t.Setenv("MAX_DELAY_SECONDS", "1")
	t.Setenv("MEMCACHE_ADDR", "localhost:11211")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("OCR_SERVICE_URL", "http://localhost:9090")

	cfg := LoadConfig()

	assert.Equal(t, "9001", cfg.Port)
	assert.Equal(t, time.Duration(0), cfg.MinDelay)
	assert.Equal(t, 1*time.Second, cfg.MaxDelay)
	assert.Equal(t, "localhost:11211", cfg.MemcacheAddr)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "http://localhost:9090", cfg.OCRServiceURL)
}

func TestValidate(t *testing.T) {
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate())

	bad := cfg
	bad.Port = ""
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.MinDelay = 5 * time.Second
	bad.MaxDelay = 2 * time.Second
	assert.Error(t, bad.Validate())

	bad = cfg
	bad.HTTPTimeout = 0
	assert.Error(t, bad.Validate())
}
