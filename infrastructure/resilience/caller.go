// Package resilience wraps calls to the reasoning model and the search
// service with fortify retry and circuit breaking.
//
// The defaults are fail-fast: one attempt and no breaker. Each Call is one
// logical request as far as the iteration budget is concerned, however many
// attempts it makes.
package resilience

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/circuitbreaker"
	"github.com/felixgeelhaar/fortify/retry"

	"github.com/felixgeelhaar/react-agent/infrastructure/logging"
)

// Config configures a Caller.
type Config struct {
	// Name labels the caller's retry logs, e.g. "model" or "search".
	Name string

	// MaxAttempts is the number of attempts per call. Values below 2 disable retry.
	MaxAttempts int

	// InitialDelay is the delay before the first retry.
	InitialDelay time.Duration

	// Multiplier is the exponential backoff multiplier.
	Multiplier float64

	// BreakerThreshold is the number of consecutive failures that opens the
	// circuit. Zero disables the breaker.
	BreakerThreshold int

	// BreakerTimeout is how long the circuit stays open.
	BreakerTimeout time.Duration

	// Timeout bounds each call including its retries. Zero means no bound
	// beyond the caller's context.
	Timeout time.Duration

	// NonRetryable lists errors that end a call immediately, such as
	// rejected credentials.
	NonRetryable []error
}

// DefaultConfig returns the fail-fast configuration.
func DefaultConfig() Config {
	return Config{
		MaxAttempts:    1,
		InitialDelay:   500 * time.Millisecond,
		Multiplier:     2.0,
		BreakerTimeout: 30 * time.Second,
	}
}

// Caller applies timeout, circuit breaking and retry to calls returning T.
// Composition order: Timeout → Circuit Breaker → Retry.
type Caller[T any] struct {
	name       string
	breaker    circuitbreaker.CircuitBreaker[T]
	retry      retry.Retry[T]
	useBreaker bool
	useRetry   bool
	timeout    time.Duration
}

// NewCaller creates a caller from config.
func NewCaller[T any](config Config) *Caller[T] {
	c := &Caller[T]{name: config.Name, timeout: config.Timeout}

	if config.MaxAttempts > 1 {
		multiplier := config.Multiplier
		if multiplier < 1 {
			multiplier = 1
		}
		c.useRetry = true
		c.retry = retry.New[T](retry.Config{
			MaxAttempts:        config.MaxAttempts,
			InitialDelay:       config.InitialDelay,
			BackoffPolicy:      retry.BackoffExponential,
			Multiplier:         multiplier,
			NonRetryableErrors: config.NonRetryable,
		})
	}

	if config.BreakerThreshold > 0 {
		threshold := uint32(config.BreakerThreshold) // #nosec G115 -- checked positive above
		timeout := config.BreakerTimeout
		if timeout <= 0 {
			timeout = 30 * time.Second
		}
		c.useBreaker = true
		c.breaker = circuitbreaker.New[T](circuitbreaker.Config{
			MaxRequests: 1,
			Interval:    timeout,
			Timeout:     timeout,
			ReadyToTrip: func(counts circuitbreaker.Counts) bool {
				return counts.ConsecutiveFailures >= threshold
			},
		})
	}

	return c
}

// Call runs fn with the configured patterns applied.
func (c *Caller[T]) Call(ctx context.Context, fn func(context.Context) (T, error)) (T, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	attempt := fn
	if c.useRetry {
		var n int
		counted := func(ctx context.Context) (T, error) {
			n++
			if n > 1 {
				logging.Debug().
					Add(logging.Component(c.name)).
					Add(logging.Attempt(n)).
					Msg("retrying call")
			}
			return fn(ctx)
		}
		attempt = func(ctx context.Context) (T, error) {
			return c.retry.Do(ctx, counted)
		}
	}

	if c.useBreaker {
		return c.breaker.Execute(ctx, attempt)
	}
	return attempt(ctx)
}

// BreakerState returns the circuit breaker state, or false when the
// breaker is disabled.
func (c *Caller[T]) BreakerState() (circuitbreaker.State, bool) {
	if !c.useBreaker {
		var zero circuitbreaker.State
		return zero, false
	}
	return c.breaker.State(), true
}
