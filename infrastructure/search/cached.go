package search

import (
	"context"
	"time"

	"github.com/felixgeelhaar/react-agent/domain/cache"
	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
	"github.com/felixgeelhaar/react-agent/infrastructure/logging"
)

// CacheRecorder receives cache hit and miss counts.
type CacheRecorder interface {
	RecordCacheHit(ctx context.Context, provider string)
	RecordCacheMiss(ctx context.Context, provider string)
}

// CachedOption configures a Cached searcher.
type CachedOption func(*Cached)

// WithCacheRecorder reports hits and misses to r.
func WithCacheRecorder(r CacheRecorder) CachedOption {
	return func(c *Cached) {
		c.recorder = r
	}
}

// Cached serves repeated queries from a cache. Cache failures are logged
// and fall through to the wrapped searcher.
type Cached struct {
	next     domainsearch.Searcher
	cache    cache.Cache
	ttl      time.Duration
	recorder CacheRecorder
}

// NewCached wraps next with a result cache.
func NewCached(next domainsearch.Searcher, c cache.Cache, ttl time.Duration, opts ...CachedOption) *Cached {
	s := &Cached{next: next, cache: c, ttl: ttl}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name returns the wrapped provider's name.
func (c *Cached) Name() string {
	return c.next.Name()
}

// Search implements domainsearch.Searcher.
func (c *Cached) Search(ctx context.Context, query string) ([]domainsearch.Result, error) {
	query = domainsearch.NormalizeQuery(query)
	if query == "" {
		return nil, domainsearch.ErrEmptyQuery
	}
	key := cache.Key(c.next.Name(), query)

	data, ok, err := c.cache.Get(ctx, key)
	switch {
	case err != nil:
		logging.Warn().
			Add(logging.Component("search_cache")).
			Add(logging.Query(query)).
			Add(logging.ErrorField(err)).
			Msg("cache read failed")
	case ok:
		var results []domainsearch.Result
		if err := json.Unmarshal(data, &results); err != nil {
			logging.Warn().
				Add(logging.Component("search_cache")).
				Add(logging.Query(query)).
				Add(logging.ErrorField(err)).
				Msg("evicting undecodable cache entry")
			_ = c.cache.Delete(ctx, key)
		} else {
			logging.Debug().
				Add(logging.Provider(c.next.Name())).
				Add(logging.Query(query)).
				Add(logging.Cached(true)).
				Msg("search cache hit")
			if results == nil {
				results = []domainsearch.Result{}
			}
			if c.recorder != nil {
				c.recorder.RecordCacheHit(ctx, c.next.Name())
			}
			return results, nil
		}
	}
	if c.recorder != nil {
		c.recorder.RecordCacheMiss(ctx, c.next.Name())
	}

	results, err := c.next.Search(ctx, query)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(results); err == nil {
		if err := c.cache.Set(ctx, key, data, c.ttl); err != nil {
			logging.Warn().
				Add(logging.Component("search_cache")).
				Add(logging.ErrorField(err)).
				Msg("cache write failed")
		}
	}
	return results, nil
}
