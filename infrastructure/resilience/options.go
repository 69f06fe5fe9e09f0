package resilience

import "time"

// Option configures a Caller.
type Option func(*Config)

// WithRetryAttempts sets the maximum attempts per call.
func WithRetryAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

// WithRetryDelay sets the initial retry delay.
func WithRetryDelay(d time.Duration) Option {
	return func(c *Config) {
		c.InitialDelay = d
	}
}

// WithCircuitBreakerThreshold sets the failure threshold for the circuit breaker.
func WithCircuitBreakerThreshold(n int) Option {
	return func(c *Config) {
		c.BreakerThreshold = n
	}
}

// WithCircuitBreakerTimeout sets the circuit breaker open duration.
func WithCircuitBreakerTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.BreakerTimeout = d
	}
}

// WithTimeout sets the per-call timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) {
		c.Timeout = d
	}
}

// WithNonRetryable adds errors that are never retried.
func WithNonRetryable(errs ...error) Option {
	return func(c *Config) {
		c.NonRetryable = append(c.NonRetryable, errs...)
	}
}

// NewCallerWithOptions creates a caller from the default configuration and options.
func NewCallerWithOptions[T any](opts ...Option) *Caller[T] {
	config := DefaultConfig()
	for _, opt := range opts {
		opt(&config)
	}
	return NewCaller[T](config)
}
