package search

import (
	"context"
	"strings"
	"sync"

	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
)

// Static answers queries from a fixed table for deterministic runs.
// Unknown queries return the fallback results, empty by default.
type Static struct {
	responses map[string][]domainsearch.Result
	fallback  []domainsearch.Result
	err       error
	queries   []string
	mu        sync.Mutex
}

// NewStatic creates a static searcher with no canned responses.
func NewStatic() *Static {
	return &Static{
		responses: make(map[string][]domainsearch.Result),
	}
}

// With registers results for a query. Matching ignores case and spacing.
func (s *Static) With(query string, results ...domainsearch.Result) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.responses[staticKey(query)] = results
	return s
}

// WithFallback sets the results returned for unregistered queries.
func (s *Static) WithFallback(results ...domainsearch.Result) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fallback = results
	return s
}

// FailWith makes every search return err.
func (s *Static) FailWith(err error) *Static {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
	return s
}

// Name returns the provider name.
func (s *Static) Name() string {
	return "static"
}

// Search implements domainsearch.Searcher.
func (s *Static) Search(ctx context.Context, query string) ([]domainsearch.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, classifyTransport(s.Name(), err)
	}
	query = domainsearch.NormalizeQuery(query)
	if query == "" {
		return nil, domainsearch.ErrEmptyQuery
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.queries = append(s.queries, query)
	if s.err != nil {
		return nil, s.err
	}

	results, ok := s.responses[staticKey(query)]
	if !ok {
		results = s.fallback
	}
	out := make([]domainsearch.Result, len(results))
	copy(out, results)
	return out, nil
}

// Calls returns how many searches were executed.
func (s *Static) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.queries)
}

// Queries returns every normalized query received, in order.
func (s *Static) Queries() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.queries))
	copy(out, s.queries)
	return out
}

func staticKey(query string) string {
	return strings.ToLower(domainsearch.NormalizeQuery(query))
}
