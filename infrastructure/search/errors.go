package search

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	domainsearch "github.com/felixgeelhaar/react-agent/domain/search"
)

// classifyStatus maps a non-200 HTTP status to a domain error.
func classifyStatus(provider string, status int) error {
	if status == http.StatusTooManyRequests {
		return fmt.Errorf("%w: %s returned %d", domainsearch.ErrRateLimited, provider, status)
	}
	return fmt.Errorf("%w: %s returned %d", domainsearch.ErrUnavailable, provider, status)
}

func classifyTransport(provider string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domainsearch.ErrUnavailable, provider, err)
	}
	return fmt.Errorf("%w: %s: %v", domainsearch.ErrUnavailable, provider, err)
}
