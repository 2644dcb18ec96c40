package utils

import (
	"context"
	"errors"
	"testing"
	"time"
)

func fastRetryConfig(attempts int) RetryConfig {
	return RetryConfig{
		MaxAttempts:   attempts,
		InitialDelay:  time.Millisecond,
		MaxDelay:      5 * time.Millisecond,
		BackoffFactor: 2.0,
	}
}

func TestRetrySucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	result, err := RetryWithResult(context.Background(), fastRetryConfig(3), func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("transient")
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 42 || calls != 3 {
		t.Errorf("result=%d calls=%d, want 42 after 3 calls", result, calls)
	}
}

func TestRetryExhaustsAttempts(t *testing.T) {
	wantErr := errors.New("still broken")
	calls := 0
	_, err := RetryWithResult(context.Background(), fastRetryConfig(3), func() (int, error) {
		calls++
		return 0, wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected final error, got %v", err)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestRetryStopsOnPermanentError(t *testing.T) {
	wantErr := errors.New("not found")
	calls := 0
	_, err := RetryWithResult(context.Background(), fastRetryConfig(5), func() (int, error) {
		calls++
		return 0, Permanent(wantErr)
	})
	if !errors.Is(err, wantErr) {
		t.Errorf("expected unwrapped permanent error, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestRetryHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := RetryWithResult(ctx, fastRetryConfig(3), func() (int, error) {
		calls++
		return 0, errors.New("transient")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestPermanentNil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Error("Permanent(nil) should be nil")
	}
}
