// Package cache stores rendered artifacts between runs.
//
// Rendering a relation graph to SVG spins up Graphviz, which dominates the
// cost of a render request. The pipeline keys artifacts by a hash of the
// DOT source so repeated renders of the same graph are served from the
// cache. Three backends are provided:
//
//   - [FileCache]: one JSON file per entry under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance (HTTP server deployments)
//   - [NullCache]: caching disabled
package cache

import (
	"context"
	"time"
)

// Default time-to-live values for cached entries.
const (
	// TTLRender is how long a rendered artifact stays cached. Renders are a
	// pure function of their key, so the TTL only bounds disk usage.
	TTLRender = 7 * 24 * time.Hour
)

// Cache is a byte-oriented key-value store with expiry. Implementations
// are safe for concurrent use.
type Cache interface {
	// Get returns the value for key and true, or false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A non-positive ttl means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}
