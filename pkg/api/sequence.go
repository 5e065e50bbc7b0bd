package api

import "sync/atomic"

// Handoff states for the one in-flight step of a sequence driver.
const (
	stepRunning int32 = iota // step started, outcome not yet delivered
	stepDoneEarly            // completion fired before the step call returned
	stepParked               // step call returned, continuation owns the driver
)

// sequence drives successive units of work strictly one at a time.
// The cursor lives inside pending and is advanced only by the driver,
// which is owned by exactly one goroutine at any moment: ownership is
// handed from the starting goroutine to the completing goroutine
// through the per-step handoff CAS, which also orders the cursor
// writes between them.
type sequence struct {
	outer   Completion
	pending func() (Work, bool)
}

// runSequence delivers success to outer when pending is exhausted,
// or the first step failure as soon as it occurs. Steps after a
// failed one are never started.
func runSequence(outer Completion, pending func() (Work, bool)) {
	s := &sequence{outer: Once(outer), pending: pending}
	s.run()
}

func (s *sequence) run() {
	for {
		work, ok := s.pending()
		if !ok {
			s.outer(nil)
			return
		}

		var handoff atomic.Int32
		done := Once(func(err error) {
			if err != nil {
				s.outer(err)
				return
			}
			if handoff.CompareAndSwap(stepRunning, stepDoneEarly) {
				// The starting frame is still inside its step call
				// and will advance the loop itself.
				return
			}
			s.run()
		})

		Recover(work)(done)

		if !handoff.CompareAndSwap(stepRunning, stepParked) {
			// Completed synchronously; advance without growing the stack.
			continue
		}
		// The step is still in flight. Its completion resumes the
		// driver; on failure outer has already been delivered and
		// nothing resumes.
		return
	}
}

// ForEach invokes each for every item strictly in order: item i+1 is
// never started before item i's completion has fired. The first
// failure is delivered to done and stops the iteration; if every item
// succeeds, or items is empty, done receives success. done fires
// exactly once either way.
func ForEach[T any](items []T, done Completion, each ItemWork[T]) {
	idx := 0
	runSequence(done, func() (Work, bool) {
		if idx >= len(items) {
			return nil, false
		}
		item := items[idx]
		idx++
		return func(done Completion) { each(item, done) }, true
	})
}

// Repeat invokes body exactly max(times, 0) times, one at a time, when
// every invocation succeeds, then delivers success to done. The first
// failure is delivered immediately and stops the repetition.
// times <= 0 delivers success without invoking body.
func Repeat(times int, done Completion, body Work) {
	remaining := times
	runSequence(done, func() (Work, bool) {
		if remaining <= 0 {
			return nil, false
		}
		remaining--
		return body, true
	})
}
