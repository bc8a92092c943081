// Package cache provides pluggable caching for HTTP responses from the
// registry and source-control APIs.
//
// Three backends are available:
//   - FileCache: per-user cache directory for CLI usage
//   - RedisCache: shared cache for fleets of CI runners
//   - NullCache: no-op backend for tests or when caching is disabled
//
// Only immutable metadata reads are ever cached. Registry state consulted
// for idempotency and visibility decisions is always fetched fresh.
package cache

import (
	"context"
	"time"
)

// Cache is the interface for cache backends.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value from the cache.
	// Returns the data, whether it was found, and any backend error.
	// An expired or corrupt entry is treated as a miss, not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value in the cache with the given TTL.
	// A TTL of zero means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value from the cache.
	// Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
