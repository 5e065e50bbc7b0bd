package api

import (
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
)

func TestRetry_FirstSuccessStopsRetrying(t *testing.T) {
	var runs int
	var calls int
	var got error

	policy := RetryPolicy{MaxAttempts: 5}
	Retry(policy, func(err error) {
		calls++
		got = err
	}, func(done Completion) {
		runs++
		if runs < 3 {
			done(fmt.Errorf("attempt %d failed", runs))
			return
		}
		done(nil)
	})

	if runs != 3 {
		t.Fatalf("expected 3 attempts, got %d", runs)
	}
	if calls != 1 || got != nil {
		t.Fatalf("expected exactly 1 successful delivery, calls=%d err=%v", calls, got)
	}
}

func TestRetry_ExhaustionDeliversLastFailure(t *testing.T) {
	var runs int
	var got error

	policy := RetryPolicy{MaxAttempts: 3}
	Retry(policy, func(err error) {
		got = err
	}, func(done Completion) {
		runs++
		done(fmt.Errorf("attempt %d failed", runs))
	})

	if runs != 3 {
		t.Fatalf("expected 3 attempts, got %d", runs)
	}
	if got == nil || got.Error() != "attempt 3 failed" {
		t.Fatalf("expected the last failure, got %v", got)
	}
}

func TestRetry_NonPositiveMaxAttemptsRunsOnce(t *testing.T) {
	sentinel := errors.New("failed")
	var runs int
	var got error

	Retry(RetryPolicy{}, func(err error) {
		got = err
	}, func(done Completion) {
		runs++
		done(sentinel)
	})

	if runs != 1 {
		t.Fatalf("expected a single attempt, got %d", runs)
	}
	if !errors.Is(got, sentinel) {
		t.Fatalf("expected the failure delivered, got %v", got)
	}
}

func TestRetryClock_BackoffDelaysNextAttempt(t *testing.T) {
	clk := clockwork.NewFakeClock()
	var runs atomic.Int64
	started := make(chan struct{}, 3)
	outcome := make(chan error, 1)

	policy := RetryPolicy{
		MaxAttempts:    3,
		InitialBackoff: 100 * time.Millisecond,
	}

	// Retried attempts run on the backoff timer's goroutine, so the
	// test synchronizes on the started channel and uses BlockUntil to
	// make sure the next timer is registered before advancing.
	RetryClock(policy, func(err error) {
		outcome <- err
	}, func(done Completion) {
		n := runs.Add(1)
		started <- struct{}{}
		if n < 3 {
			done(fmt.Errorf("attempt %d failed", n))
			return
		}
		done(nil)
	}, clk)

	<-started
	if n := runs.Load(); n != 1 {
		t.Fatalf("expected only the first attempt before the backoff elapses, got %d", n)
	}
	select {
	case err := <-outcome:
		t.Fatalf("completion must not fire while a retry is pending: %v", err)
	default:
	}

	clk.BlockUntil(1)
	clk.Advance(100 * time.Millisecond)
	<-started
	if n := runs.Load(); n != 2 {
		t.Fatalf("expected the second attempt after one backoff, got %d", n)
	}

	clk.BlockUntil(1)
	clk.Advance(100 * time.Millisecond)
	<-started
	if err := <-outcome; err != nil {
		t.Fatalf("expected the third attempt to succeed, got %v", err)
	}
	if n := runs.Load(); n != 3 {
		t.Fatalf("expected 3 attempts, got %d", n)
	}
}

func TestRetry_PanicsAreRetriedLikeFailures(t *testing.T) {
	var runs int
	var got error

	Retry(RetryPolicy{MaxAttempts: 2}, func(err error) {
		got = err
	}, func(done Completion) {
		runs++
		panic("flaky target")
	})

	if runs != 2 {
		t.Fatalf("expected 2 attempts, got %d", runs)
	}
	var pe *PanicError
	if !errors.As(got, &pe) {
		t.Fatalf("expected *PanicError after exhaustion, got %v", got)
	}
}

func TestRetryPolicy_BackoffFor(t *testing.T) {
	exp := RetryPolicy{
		InitialBackoff:    100 * time.Millisecond,
		BackoffMultiplier: 2.0,
		MaxBackoff:        time.Second,
	}

	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 100 * time.Millisecond},
		{2, 200 * time.Millisecond},
		{3, 400 * time.Millisecond},
		{4, 800 * time.Millisecond},
		{5, time.Second}, // capped
		{6, time.Second},
	}
	for _, tc := range cases {
		if got := exp.backoffFor(tc.attempt); got != tc.want {
			t.Fatalf("attempt %d: expected %v, got %v", tc.attempt, tc.want, got)
		}
	}

	constant := RetryPolicy{InitialBackoff: 250 * time.Millisecond}
	if got := constant.backoffFor(4); got != 250*time.Millisecond {
		t.Fatalf("expected constant backoff, got %v", got)
	}

	immediate := RetryPolicy{}
	if got := immediate.backoffFor(1); got != 0 {
		t.Fatalf("expected zero backoff, got %v", got)
	}
}
