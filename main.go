package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"relevador/config"
	"relevador/internal/run"
	"relevador/internal/scraper"
	"relevador/logger"
	"relevador/server"
	"relevador/services/cache"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	godotenv.Load()

	// Initialize logger first
	logger.Init()
	log := logger.Default

	// Load and validate configuration
	cfg := config.LoadConfig()
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log.Info().
		Str("environment", cfg.Environment).
		Str("port", cfg.Port).
		Dur("min_delay", cfg.MinDelay).
		Dur("max_delay", cfg.MaxDelay).
		Msg("Starting application")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Cancel-flag registry: Redis when configured, else in-process
	var registry run.Registry
	if cfg.RedisAddr != "" {
		redisRegistry := run.NewRedisRegistry(ctx, cfg.RedisAddr, cfg.RedisDB)
		defer redisRegistry.Close()
		registry = redisRegistry
		log.Info().Str("addr", cfg.RedisAddr).Msg("Using Redis cancel registry")
	} else {
		registry = run.NewMemoryRegistry()
	}

	// Anti-bot block cache: memcache when configured, else in-process
	var blocklist cache.CacheService
	if cfg.MemcacheAddr != "" {
		blocklist = cache.NewMemcacheService(cfg.MemcacheAddr)
		log.Info().Str("addr", cfg.MemcacheAddr).Msg("Using memcache block cache")
	} else {
		blocklist = cache.NewMemoryService()
	}

	// Optional capabilities
	deps := server.ScrapeDeps{
		Fallback:  scraper.NewImpersonatingClient(cfg.HTTPTimeout),
		OCR:       nil,
		Blocklist: blocklist,
	}
	if ocr := scraper.NewServiceOCR(cfg.OCRServiceURL); ocr != nil {
		deps.OCR = ocr
		log.Info().Str("url", cfg.OCRServiceURL).Msg("OCR service configured")
	} else {
		log.Info().Msg("OCR service not configured; scanned brochures degrade to no result")
	}

	srv := server.New(cfg, registry, deps)
	httpServer := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: srv.Router(),
	}

	// Set up signal handling
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	serverDone := make(chan error, 1)
	go func() {
		log.Info().Str("addr", httpServer.Addr).Msg("API server listening")
		serverDone <- httpServer.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		log.Info().
			Str("signal", sig.String()).
			Msg("Received shutdown signal")
	case err := <-serverDone:
		if err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("Server exited with error")
		}
	}

	// Graceful shutdown; in-flight scrape runs get a grace period
	log.Info().Msg("Shutting down gracefully...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Shutdown error")
	}
}
