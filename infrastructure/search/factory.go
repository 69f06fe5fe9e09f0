// Package search provides search capability providers.
package search

import (
	"fmt"

	"github.com/felixgeelhaar/react-agent/domain/cache"
	domainconfig "github.com/felixgeelhaar/react-agent/domain/config"
	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
)

// New builds the configured searcher. When c is non-nil, results are cached
// for the configured TTL.
func New(cfg domainconfig.SearchConfig, c cache.Cache, opts ...CachedOption) (domainsearch.Searcher, error) {
	var (
		s   domainsearch.Searcher
		err error
	)

	switch cfg.Provider {
	case domainconfig.SearchDuckDuckGo:
		s = NewDuckDuckGo(DuckDuckGoConfig{
			BaseURL:    cfg.BaseURL,
			MaxResults: cfg.MaxResults,
			RateLimit:  cfg.RateLimit,
			Timeout:    cfg.Timeout.Duration(),
		})
	case domainconfig.SearchBrave:
		s, err = NewBrave(BraveConfig{
			APIKey:     cfg.APIKey,
			BaseURL:    cfg.BaseURL,
			MaxResults: cfg.MaxResults,
			Timeout:    cfg.Timeout.Duration(),
		})
		if err != nil {
			return nil, err
		}
	case domainconfig.SearchStatic:
		s = NewStatic()
	default:
		return nil, fmt.Errorf("%w: %q", domainsearch.ErrUnknownProvider, cfg.Provider)
	}

	if c != nil {
		s = NewCached(s, c, cfg.Cache.TTL.Duration(), opts...)
	}
	return s, nil
}
