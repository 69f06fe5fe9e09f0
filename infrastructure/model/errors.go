package model

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	domainmodel "github.com/felixgeelhaar/react-agent/domain/model"
)

// classifyStatus maps a provider HTTP status to a domain error.
func classifyStatus(provider string, status int, detail string) error {
	switch status {
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("%w: %s returned %d: %s", domainmodel.ErrAuth, provider, status, detail)
	default:
		return fmt.Errorf("%w: %s returned %d: %s", domainmodel.ErrUnavailable, provider, status, detail)
	}
}

// classifyTransport wraps a non-HTTP failure. Context errors stay
// detectable so the loop can report cancellation.
func classifyTransport(provider string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %w", domainmodel.ErrUnavailable, provider, err)
	}
	return fmt.Errorf("%w: %s: %v", domainmodel.ErrUnavailable, provider, err)
}
