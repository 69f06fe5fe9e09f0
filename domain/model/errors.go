package model

import "errors"

// Domain errors for reasoning model calls.
var (
	// ErrUnavailable is returned on transport errors and service failures.
	ErrUnavailable = errors.New("model unavailable")

	// ErrAuth is returned when the provider rejects the credential.
	ErrAuth = errors.New("model credential rejected")

	// ErrMissingAPIKey is returned when a hosted provider is configured without a credential.
	ErrMissingAPIKey = errors.New("model api key is required")

	// ErrUnknownProvider is returned for an unsupported provider name.
	ErrUnknownProvider = errors.New("unknown model provider")
)
