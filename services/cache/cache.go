package cache

import (
	"time"
)

// CacheService represents a generic expiring key-value store. The scrape
// engine uses it as an anti-bot block cache: origins that rejected us keep a
// key here for the block duration and are skipped without network I/O.
type CacheService interface {
	// Get retrieves a value from the cache
	Get(key string) ([]byte, error)

	// Set stores a value in the cache with an expiration time
	Set(key string, value []byte, expiration time.Duration) error

	// Delete removes a value from the cache
	Delete(key string) error
}
