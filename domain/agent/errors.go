package agent

import (
	"context"
	"errors"
)

// ErrorKind classifies why a question could not be answered.
type ErrorKind string

const (
	KindInputRejected     ErrorKind = "input_rejected"
	KindModelUnavailable  ErrorKind = "model_unavailable"
	KindModelAuth         ErrorKind = "model_auth"
	KindSearchUnavailable ErrorKind = "search_unavailable"
	KindParse             ErrorKind = "parse_error"
	KindBudgetExceeded    ErrorKind = "budget_exceeded"
	KindCanceled          ErrorKind = "canceled"
)

// Sentinels for errors.Is matching against an *Error of the same kind.
var (
	ErrInputRejected     = &Error{Kind: KindInputRejected}
	ErrModelUnavailable  = &Error{Kind: KindModelUnavailable}
	ErrModelAuth         = &Error{Kind: KindModelAuth}
	ErrSearchUnavailable = &Error{Kind: KindSearchUnavailable}
	ErrParse             = &Error{Kind: KindParse}
	ErrBudgetExceeded    = &Error{Kind: KindBudgetExceeded}
	ErrCanceled          = &Error{Kind: KindCanceled}
)

// Domain errors for the loop itself.
var (
	// ErrInvalidState indicates the state is not a recognized loop state.
	ErrInvalidState = errors.New("invalid state")

	// ErrInvalidTransition indicates an attempted state transition is not allowed.
	ErrInvalidTransition = errors.New("invalid state transition")

	// ErrRunTerminated indicates an operation was attempted on a terminated run.
	ErrRunTerminated = errors.New("run already terminated")
)

// Error is the typed failure returned for a question.
type Error struct {
	Kind ErrorKind
	Err  error
}

// NewError creates an error of the given kind wrapping a cause.
func NewError(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err == nil {
		return string(e.Kind) + ": " + e.Kind.Message()
	}
	return string(e.Kind) + ": " + e.Err.Error()
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error with the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Message returns the human-readable message for the error's kind.
func (e *Error) Message() string {
	return e.Kind.Message()
}

// Message returns the human-readable message shown to users for the kind.
func (k ErrorKind) Message() string {
	switch k {
	case KindInputRejected:
		return "Please enter a question before submitting."
	case KindModelUnavailable:
		return "The reasoning model is unavailable right now."
	case KindModelAuth:
		return "The reasoning model rejected the configured credentials."
	case KindSearchUnavailable:
		return "The search service is unavailable right now."
	case KindParse:
		return "The model's reply could not be understood."
	case KindBudgetExceeded:
		return "No final answer was reached within the iteration budget."
	case KindCanceled:
		return "The question was canceled before an answer was reached."
	default:
		return "The question could not be answered."
	}
}

// AllErrorKinds returns every failure kind.
func AllErrorKinds() []ErrorKind {
	return []ErrorKind{
		KindInputRejected,
		KindModelUnavailable,
		KindModelAuth,
		KindSearchUnavailable,
		KindParse,
		KindBudgetExceeded,
		KindCanceled,
	}
}

// KindOf extracts the failure kind from err.
// Context errors that were never classified report KindCanceled.
func KindOf(err error) (ErrorKind, bool) {
	if err == nil {
		return "", false
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind, true
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return KindCanceled, true
	}
	return "", false
}
