// Package search defines the search capability the loop consults.
package search

import (
	"context"
	"fmt"
	"strings"
)

// Result is one search hit.
type Result struct {
	Title   string `json:"title"`
	Snippet string `json:"snippet"`
	Link    string `json:"link"`
}

// Searcher executes a textual query against an external index.
//
// Implementations return an empty, non-nil slice when nothing matched; that is
// a successful search and distinct from a failure. Failures wrap ErrUnavailable
// or ErrRateLimited.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)

	// Name returns the provider name for logging.
	Name() string
}

// NoResultsObservation is the observation recorded for an empty result set.
const NoResultsObservation = "No results found."

// FormatObservation renders results as the observation text fed back to the model.
func FormatObservation(results []Result) string {
	if len(results) == 0 {
		return NoResultsObservation
	}

	var sb strings.Builder
	for i, r := range results {
		if i > 0 {
			sb.WriteString("\n\n")
		}
		fmt.Fprintf(&sb, "[%d] %s", i+1, oneLine(r.Title))
		if s := oneLine(r.Snippet); s != "" {
			sb.WriteString("\n")
			sb.WriteString(s)
		}
		if r.Link != "" {
			sb.WriteString("\n")
			sb.WriteString(r.Link)
		}
	}
	return sb.String()
}

// NormalizeQuery trims and collapses whitespace in a query.
func NormalizeQuery(query string) string {
	return strings.Join(strings.Fields(query), " ")
}

func oneLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
