package resilience_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskflow/pkg/resilience"
)

var errBackend = errors.New("backend unavailable")

func fastRetry(attempts int) resilience.RetryConfig {
	return resilience.RetryConfig{
		MaxAttempts:    attempts,
		InitialBackoff: time.Millisecond,
		MaxBackoff:     2 * time.Millisecond,
		BackoffFactor:  2,
	}
}

func TestRetrySucceedsAfterFailures(t *testing.T) {
	calls := 0
	r := resilience.NewRetry("test", fastRetry(3))

	err := r.Execute(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errBackend
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryStopsAtMaxAttempts(t *testing.T) {
	calls := 0
	r := resilience.NewRetry("test", fastRetry(2))

	err := r.Execute(context.Background(), func() error {
		calls++
		return errBackend
	})

	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, 2, calls)
}

func TestRetrySkipsPermanentAndCanceled(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{name: "permanent", err: resilience.Permanent(errBackend)},
		{name: "canceled", err: context.Canceled},
		{name: "deadline", err: context.DeadlineExceeded},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			r := resilience.NewRetry("test", fastRetry(5))

			err := r.Execute(context.Background(), func() error {
				calls++
				return tc.err
			})

			require.ErrorIs(t, err, tc.err)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestRetryHonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	r := resilience.NewRetry("test", resilience.RetryConfig{
		MaxAttempts:    5,
		InitialBackoff: time.Second,
		MaxBackoff:     time.Second,
		BackoffFactor:  2,
	})

	err := r.Execute(ctx, func() error {
		cancel()
		return errBackend
	})

	require.ErrorIs(t, err, resilience.ErrContextCanceled)
	require.ErrorIs(t, err, context.Canceled)
}

func TestPermanentNil(t *testing.T) {
	assert.NoError(t, resilience.Permanent(nil))
	assert.False(t, resilience.IsPermanent(errBackend))
}

func TestCircuitBreakerLifecycle(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", resilience.CircuitBreakerConfig{
		ErrorThreshold:   2,
		Timeout:          20 * time.Millisecond,
		SuccessThreshold: 1,
	})

	failing := func() error { return errBackend }
	healthy := func() error { return nil }

	require.ErrorIs(t, cb.Execute(ctx, failing), errBackend)
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	require.ErrorIs(t, cb.Execute(ctx, failing), errBackend)
	assert.Equal(t, resilience.StateOpen, cb.GetState())

	called := false
	err := cb.Execute(ctx, func() error { called = true; return nil })
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.False(t, called, "open breaker must not call the operation")

	time.Sleep(30 * time.Millisecond)

	require.NoError(t, cb.Execute(ctx, healthy))
	assert.Equal(t, resilience.StateClosed, cb.GetState())
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", resilience.CircuitBreakerConfig{
		ErrorThreshold:   1,
		Timeout:          10 * time.Millisecond,
		SuccessThreshold: 2,
	})

	require.Error(t, cb.Execute(ctx, func() error { return errBackend }))
	time.Sleep(20 * time.Millisecond)

	require.True(t, cb.AllowRequest(ctx))
	assert.Equal(t, resilience.StateHalfOpen, cb.GetState())

	cb.RecordResult(ctx, errBackend)
	assert.Equal(t, resilience.StateOpen, cb.GetState())
}

func TestCircuitBreakerIgnoresPermanentErrors(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", resilience.CircuitBreakerConfig{ErrorThreshold: 1})

	err := cb.Execute(ctx, func() error { return resilience.Permanent(errBackend) })
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, resilience.StateClosed, cb.GetState())
}

func TestCircuitBreakerIgnoresContextErrors(t *testing.T) {
	ctx := context.Background()
	cb := resilience.NewCircuitBreaker("test", resilience.CircuitBreakerConfig{ErrorThreshold: 1})

	err := cb.Execute(ctx, func() error { return fmt.Errorf("get: %w", context.Canceled) })
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	err = cb.Execute(ctx, func() error { return context.DeadlineExceeded })
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, resilience.StateClosed, cb.GetState())

	require.Error(t, cb.Execute(ctx, func() error { return errBackend }))
	assert.Equal(t, resilience.StateOpen, cb.GetState())
}

func TestServiceResilienceExecute(t *testing.T) {
	ctx := context.Background()
	r := resilience.NewServiceResilience("redis",
		resilience.CircuitBreakerConfig{ErrorThreshold: 1, Timeout: time.Minute, SuccessThreshold: 1},
		fastRetry(3))

	calls := 0
	got, err := resilience.Execute(ctx, r, "IsRevoked", func() (bool, error) {
		calls++
		if calls == 1 {
			return false, errBackend
		}
		return true, nil
	})
	require.NoError(t, err)
	assert.True(t, got)
	assert.Equal(t, 2, calls)
	assert.Equal(t, resilience.StateClosed, r.State())

	_, err = resilience.Execute(ctx, r, "IsRevoked", func() (bool, error) { return true, errBackend })
	require.ErrorIs(t, err, errBackend)
	assert.Equal(t, resilience.StateOpen, r.State())

	got, err = resilience.Execute(ctx, r, "IsRevoked", func() (bool, error) { return true, nil })
	require.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.False(t, got)
}
