package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var (
	errTransient = errors.New("transient")
	errAuth      = errors.New("bad credentials")
)

// countingFn fails with the given errors in order, then succeeds.
func countingFn(calls *int, errs ...error) func(context.Context) (string, error) {
	return func(context.Context) (string, error) {
		*calls++
		if *calls <= len(errs) {
			return "", errs[*calls-1]
		}
		return "ok", nil
	}
}

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	config := DefaultConfig()
	if config.MaxAttempts != 1 {
		t.Errorf("MaxAttempts = %d, want 1", config.MaxAttempts)
	}
	if config.BreakerThreshold != 0 {
		t.Errorf("BreakerThreshold = %d, want 0", config.BreakerThreshold)
	}
}

func TestCaller_FailFastByDefault(t *testing.T) {
	t.Parallel()

	c := NewCaller[string](DefaultConfig())
	calls := 0

	_, err := c.Call(context.Background(), countingFn(&calls, errTransient))
	if !errors.Is(err, errTransient) {
		t.Errorf("Call() error = %v, want %v", err, errTransient)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
	if _, ok := c.BreakerState(); ok {
		t.Error("BreakerState() reported an enabled breaker")
	}
}

func TestCaller_Success(t *testing.T) {
	t.Parallel()

	c := NewCaller[string](DefaultConfig())
	calls := 0

	got, err := c.Call(context.Background(), countingFn(&calls))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Call() = %q, want ok", got)
	}
}

func TestCaller_Retry(t *testing.T) {
	t.Parallel()

	c := NewCallerWithOptions[string](
		WithRetryAttempts(3),
		WithRetryDelay(time.Millisecond),
	)
	calls := 0

	got, err := c.Call(context.Background(), countingFn(&calls, errTransient, errTransient))
	if err != nil {
		t.Fatalf("Call() error = %v", err)
	}
	if got != "ok" {
		t.Errorf("Call() = %q, want ok", got)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestCaller_NonRetryable(t *testing.T) {
	t.Parallel()

	c := NewCallerWithOptions[string](
		WithRetryAttempts(3),
		WithRetryDelay(time.Millisecond),
		WithNonRetryable(errAuth),
	)
	calls := 0

	_, err := c.Call(context.Background(), countingFn(&calls, errAuth, errAuth, errAuth))
	if !errors.Is(err, errAuth) {
		t.Errorf("Call() error = %v, want %v", err, errAuth)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestCaller_CircuitBreakerOpens(t *testing.T) {
	t.Parallel()

	c := NewCallerWithOptions[string](
		WithCircuitBreakerThreshold(2),
		WithCircuitBreakerTimeout(time.Minute),
	)
	calls := 0
	fn := countingFn(&calls, errTransient, errTransient, errTransient, errTransient)

	for i := 0; i < 4; i++ {
		if _, err := c.Call(context.Background(), fn); err == nil {
			t.Fatalf("Call() #%d error = nil, want error", i)
		}
	}
	if calls != 2 {
		t.Errorf("calls = %d, want 2 before the circuit opened", calls)
	}
	if _, ok := c.BreakerState(); !ok {
		t.Error("BreakerState() reported a disabled breaker")
	}
}

func TestCaller_Timeout(t *testing.T) {
	t.Parallel()

	c := NewCallerWithOptions[string](WithTimeout(10 * time.Millisecond))

	_, err := c.Call(context.Background(), func(ctx context.Context) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("Call() error = %v, want DeadlineExceeded", err)
	}
}
