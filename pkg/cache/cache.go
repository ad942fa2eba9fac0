// Package cache provides the storage layer for computed layouts and probed
// image dimensions.
//
// Three backends implement [Cache]:
//   - [FileCache]: JSON files under a directory, used by the CLI
//   - [RedisCache]: a shared Redis instance, used by the API server
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are produced by a [Keyer] so that every backend sees the same
// namespace layout.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiration.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Default TTLs for cached entries.
const (
	LayoutTTL = 24 * time.Hour
	ProbeTTL  = 7 * 24 * time.Hour
)

// Clearer is implemented by backends that can drop all of their entries.
type Clearer interface {
	Clear(ctx context.Context) (int, error)
}
