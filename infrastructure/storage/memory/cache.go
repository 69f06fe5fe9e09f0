package memory

import (
	"context"
	"sync"
	"time"

	"github.com/felixgeelhaar/react-agent/domain/cache"
)

// cacheEntry holds a cached value with expiration.
type cacheEntry struct {
	value     []byte
	expiresAt time.Time
	accessAt  time.Time
}

// isExpired checks if the entry has expired.
func (e *cacheEntry) isExpired(now time.Time) bool {
	if e.expiresAt.IsZero() {
		return false
	}
	return now.After(e.expiresAt)
}

// Cache is an in-memory implementation of cache.Cache.
// It supports TTL-based expiration and LRU eviction when at capacity.
type Cache struct {
	entries map[string]*cacheEntry
	maxSize int
	now     func() time.Time
	mu      sync.Mutex
	hits    int64
	misses  int64
}

// CacheOption configures the cache.
type CacheOption func(*Cache)

// WithMaxSize sets the maximum number of entries (0 = unlimited).
func WithMaxSize(size int) CacheOption {
	return func(c *Cache) {
		c.maxSize = size
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) CacheOption {
	return func(c *Cache) {
		c.now = now
	}
}

// NewCache creates a new in-memory cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]*cacheEntry),
		maxSize: 1000,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get retrieves a value from the cache.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	entry, ok := c.entries[key]
	if !ok {
		c.misses++
		return nil, false, nil
	}

	if entry.isExpired(now) {
		delete(c.entries, key)
		c.misses++
		return nil, false, nil
	}

	entry.accessAt = now
	c.hits++

	// Return a copy to prevent mutation
	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true, nil
}

// Set stores a value in the cache.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if key == "" {
		return cache.ErrInvalidKey
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.entries[key]; !exists && c.maxSize > 0 && len(c.entries) >= c.maxSize {
		c.evictLRU(now)
	}

	valueCopy := make([]byte, len(value))
	copy(valueCopy, value)

	entry := &cacheEntry{
		value:    valueCopy,
		accessAt: now,
	}
	if ttl > 0 {
		entry.expiresAt = now.Add(ttl)
	}

	c.entries[key] = entry
	return nil
}

// Delete removes a value from the cache.
func (c *Cache) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	delete(c.entries, key)
	return nil
}

// Clear removes all entries from the cache.
func (c *Cache) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*cacheEntry)
	return nil
}

// Stats returns cache statistics.
func (c *Cache) Stats(ctx context.Context) (cache.Stats, error) {
	if err := ctx.Err(); err != nil {
		return cache.Stats{}, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	return cache.Stats{
		Hits:   c.hits,
		Misses: c.misses,
		Size:   int64(len(c.entries)),
	}, nil
}

// evictLRU drops expired entries, or the least recently accessed one if
// none have expired. Must be called with lock held.
func (c *Cache) evictLRU(now time.Time) {
	var (
		oldestKey  string
		oldestTime time.Time
		expired    bool
	)

	for key, entry := range c.entries {
		if entry.isExpired(now) {
			delete(c.entries, key)
			expired = true
			continue
		}
		if oldestKey == "" || entry.accessAt.Before(oldestTime) {
			oldestKey = key
			oldestTime = entry.accessAt
		}
	}

	if !expired && oldestKey != "" {
		delete(c.entries, oldestKey)
	}
}

// Size returns the current number of entries.
func (c *Cache) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Ensure Cache implements cache.Cache and cache.StatsProvider
var (
	_ cache.Cache         = (*Cache)(nil)
	_ cache.StatsProvider = (*Cache)(nil)
)
