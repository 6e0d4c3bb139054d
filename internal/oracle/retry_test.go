package oracle

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"deckgen/internal/domain"
)

func TestRetryStopsOnSuccess(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		if calls < 2 {
			return fmt.Errorf("%w: blip", domain.ErrTransientOracle)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Do = %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}

func TestRetryExhaustsBudget(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}
	calls := 0
	transient := fmt.Errorf("%w: still down", domain.ErrTransientOracle)
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return transient
	})
	if !errors.Is(err, domain.ErrTransientOracle) {
		t.Fatalf("Do = %v, want the last transient error", err)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
}

func TestRetryDoesNotRetryPermanentErrors(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 5, BaseDelay: time.Millisecond}
	calls := 0
	permanent := errors.New("invalid request")
	err := policy.Do(context.Background(), func(ctx context.Context) error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("Do = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, permanent errors must not be retried", calls)
	}
}

func TestRetryObservesCancellation(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 10, BaseDelay: 50 * time.Millisecond}
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := policy.Do(ctx, func(ctx context.Context) error {
		calls++
		return fmt.Errorf("%w: down", domain.ErrTransientOracle)
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Do = %v, want context.Canceled", err)
	}
	if calls > 2 {
		t.Fatalf("calls = %d, cancellation not observed during backoff", calls)
	}
}

func TestRetryBackoffCapped(t *testing.T) {
	policy := RetryPolicy{MaxAttempts: 4, BaseDelay: 2 * time.Millisecond, MaxDelay: 3 * time.Millisecond}
	start := time.Now()
	_ = policy.Do(context.Background(), func(ctx context.Context) error {
		return fmt.Errorf("%w: down", domain.ErrTransientOracle)
	})
	// Delays: 2ms, 3ms, 3ms. Without the cap: 2, 4, 8.
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("elapsed = %v, backoff cap not applied", elapsed)
	}
}

func TestThrottleBoundsConcurrency(t *testing.T) {
	throttle := NewThrottle(2)
	ctx := context.Background()

	if err := throttle.Acquire(ctx); err != nil {
		t.Fatal(err)
	}
	if err := throttle.Acquire(ctx); err != nil {
		t.Fatal(err)
	}

	blocked, cancel := context.WithTimeout(ctx, 10*time.Millisecond)
	defer cancel()
	if err := throttle.Acquire(blocked); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("third Acquire = %v, want DeadlineExceeded while slots are full", err)
	}

	throttle.Release()
	if err := throttle.Acquire(ctx); err != nil {
		t.Fatalf("Acquire after Release = %v", err)
	}
}
