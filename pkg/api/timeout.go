package api

import (
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
)

// WithTimeout returns a completion to be handed to an asynchronous
// unit of work. A timer for timeout starts immediately; whichever of
// the real completion and the timer fires first is delivered to done,
// exactly once. The loser's later arrival is observed and discarded,
// not treated as an error.
//
// On expiry done receives a failure matching ErrDeadlineExceeded.
// This is soft cancellation only: the underlying operation is not
// stopped, its result is merely ignored, so units of work must
// tolerate running to completion after being abandoned.
func WithTimeout(done Completion, timeout time.Duration) Completion {
	return WithTimeoutClock(done, timeout, clockwork.NewRealClock())
}

// WithTimeoutClock is WithTimeout with the timer scheduled on clk.
// Tests pass a fake clock to drive expiry deterministically.
func WithTimeoutClock(done Completion, timeout time.Duration, clk clockwork.Clock) Completion {
	g := newGuard(done)
	timer := clk.AfterFunc(timeout, func() {
		// Losing the claim means the real completion already arrived;
		// that is the expected path, not a discard worth reporting.
		if !g.claim() {
			return
		}
		CurrentObserver().OnDeadlineExceeded(g.op, timeout)
		g.forward(fmt.Errorf("%w after %s", ErrDeadlineExceeded, timeout))
	})
	return func(err error) {
		timer.Stop()
		g.deliver(err)
	}
}
