package search

import "errors"

// Domain errors for search operations.
var (
	// ErrEmptyQuery is returned when the query is blank.
	ErrEmptyQuery = errors.New("search query is empty")

	// ErrUnavailable is returned when the search backend cannot be reached
	// or answers with a server error.
	ErrUnavailable = errors.New("search unavailable")

	// ErrRateLimited is returned when the backend throttles the caller.
	ErrRateLimited = errors.New("search rate limited")

	// ErrMissingAPIKey is returned when a keyed provider has no credential.
	ErrMissingAPIKey = errors.New("search api key is required")

	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown search provider")
)
