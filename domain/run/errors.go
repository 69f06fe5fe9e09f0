package run

import (
	"errors"
	"strings"
)

// Domain errors for run store operations.
var (
	// ErrRunNotFound is returned when a record does not exist.
	ErrRunNotFound = errors.New("run not found")

	// ErrRunExists is returned when attempting to save a record that already exists.
	ErrRunExists = errors.New("run already exists")

	// ErrInvalidRunID is returned when a run ID is invalid (e.g., empty).
	ErrInvalidRunID = errors.New("invalid run ID")

	// ErrConnectionFailed is returned when connection to the store backend fails.
	ErrConnectionFailed = errors.New("store connection failed")

	// ErrUnknownDriver is returned when no store exists for a configured driver.
	ErrUnknownDriver = errors.New("unknown store driver")
)

func contains[T comparable](set []T, v T) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}
