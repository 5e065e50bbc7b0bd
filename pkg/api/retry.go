package api

import (
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"
)

// RetryPolicy controls how a unit of work is re-executed when it
// delivers a failure. MaxAttempts includes the first attempt:
//
//	MaxAttempts = 1 => no retries (just the initial run)
//	MaxAttempts = 3 => initial run + up to 2 retries
//
// InitialBackoff is the delay before the first retry; each further
// retry multiplies the delay by BackoffMultiplier (values <= 1 keep it
// constant). MaxBackoff caps the delay; if <= 0 there is no cap.
// A zero InitialBackoff retries immediately.
type RetryPolicy struct {
	MaxAttempts       int
	InitialBackoff    time.Duration
	BackoffMultiplier float64
	MaxBackoff        time.Duration
}

func (p RetryPolicy) maxAttempts() int {
	if p.MaxAttempts <= 0 {
		return 1
	}
	return p.MaxAttempts
}

// backoffFor returns the delay to wait after the given 1-based failed
// attempt, before the next one.
func (p RetryPolicy) backoffFor(attempt int) time.Duration {
	d := p.InitialBackoff
	if d <= 0 {
		return 0
	}
	if p.BackoffMultiplier > 1 {
		for i := 1; i < attempt; i++ {
			d = time.Duration(float64(d) * p.BackoffMultiplier)
			if p.MaxBackoff > 0 && d >= p.MaxBackoff {
				return p.MaxBackoff
			}
		}
	}
	if p.MaxBackoff > 0 && d > p.MaxBackoff {
		return p.MaxBackoff
	}
	return d
}

// Retry runs body and, on failure, re-runs it according to policy,
// waiting out the policy's backoff between attempts. done receives
// the first success or the last failure, exactly once. Backoff waits
// are scheduled on a timer and never block the calling goroutine.
func Retry(policy RetryPolicy, done Completion, body Work) {
	RetryClock(policy, done, body, clockwork.NewRealClock())
}

// RetryClock is Retry with backoff scheduled on clk.
// Tests pass a fake clock to step through backoff deterministically.
func RetryClock(policy RetryPolicy, done Completion, body Work, clk clockwork.Clock) {
	r := &retrier{
		policy: policy,
		outer:  Once(done),
		body:   Recover(body),
		clk:    clk,
	}
	r.run()
}

// retrier drives the attempt loop. Like the sequence driver, the
// attempt counter is owned by whichever goroutine currently holds the
// driver; ownership moves through the handoff CAS or the backoff
// timer, both of which order the counter writes.
type retrier struct {
	policy   RetryPolicy
	outer    Completion
	body     Work
	clk      clockwork.Clock
	attempts int
}

func (r *retrier) run() {
	for {
		r.attempts++
		attempt := r.attempts

		var handoff atomic.Int32
		done := Once(func(err error) {
			if err == nil {
				r.outer(nil)
				return
			}
			if attempt >= r.policy.maxAttempts() {
				r.outer(err)
				return
			}
			if delay := r.policy.backoffFor(attempt); delay > 0 {
				r.clk.AfterFunc(delay, r.run)
				return
			}
			if handoff.CompareAndSwap(stepRunning, stepDoneEarly) {
				// Failed before the body call returned; the driver
				// frame retries without growing the stack.
				return
			}
			r.run()
		})

		r.body(done)

		if !handoff.CompareAndSwap(stepRunning, stepParked) {
			continue
		}
		return
	}
}
