// Package cache provides the domain interface for the search result cache.
package cache

import (
	"context"
	"strings"
	"time"
)

// Cache stores serialized search results.
// Implementations may be in-memory, Redis, or any other backend.
type Cache interface {
	// Get retrieves a cached value by key.
	// Returns the value, whether it was found, and any error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value under key. A zero ttl means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes a cached entry by key.
	Delete(ctx context.Context, key string) error

	// Clear removes all entries from the cache.
	Clear(ctx context.Context) error
}

// Stats provides cache statistics.
type Stats struct {
	Hits   int64
	Misses int64
	Size   int64
}

// StatsProvider is an optional interface for caches that report statistics.
// Hit and miss counts cover the current process only; Size covers the
// whole backend.
type StatsProvider interface {
	Stats(ctx context.Context) (Stats, error)
}

// Key builds the cache key for a search provider and query. Queries that
// differ only in case or spacing share a key.
func Key(provider, query string) string {
	q := strings.ToLower(strings.Join(strings.Fields(query), " "))
	return "search:" + strings.ToLower(provider) + ":" + q
}
