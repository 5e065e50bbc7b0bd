package api

import (
	"github.com/google/uuid"
)

// Work is a unit of asynchronous work. It must eventually invoke done
// exactly once, either before returning (synchronous completion) or
// later from another goroutine. It may panic instead of invoking done;
// Recover converts such panics into a failed delivery.
type Work func(done Completion)

// ItemWork is a unit of work parameterized by an input item.
// It carries the same completion obligation as Work.
type ItemWork[T any] func(item T, done Completion)

// Recover wraps work so that a panic raised before the work returns is
// caught and redirected into a failed delivery on the work's
// completion, instead of propagating to the caller. The recovered
// panic is reported to the observer and the wrapped work is never
// re-invoked.
//
// The completion handed to the wrapped work is one-shot guarded, so a
// work that completes successfully and then panics still delivers only
// its first outcome.
func Recover(work Work) Work {
	if work == nil {
		return func(done Completion) { Once(done)(nil) }
	}
	return func(done Completion) {
		done = Once(done)
		op := uuid.New()
		defer func() {
			if v := recover(); v != nil {
				err := NewPanicError(v)
				CurrentObserver().OnPanicRecovered(op, err)
				done(err)
			}
		}()
		work(done)
	}
}

// RecoverItem is Recover for item-parameterized work.
func RecoverItem[T any](each ItemWork[T]) ItemWork[T] {
	if each == nil {
		return func(_ T, done Completion) { Once(done)(nil) }
	}
	return func(item T, done Completion) {
		Recover(func(done Completion) { each(item, done) })(done)
	}
}

// Each adapts a slice and an ItemWork into a single Work that runs the
// items strictly in order via ForEach.
func Each[T any](items []T, each ItemWork[T]) Work {
	return func(done Completion) {
		ForEach(items, done, each)
	}
}

// Sequence adapts several units of work into one Work that runs them
// strictly in order, stopping on the first failure.
func Sequence(works ...Work) Work {
	return func(done Completion) {
		ForEach(works, done, func(w Work, done Completion) { w(done) })
	}
}

// AllOf adapts several units of work into one Work that starts them
// all and completes after every one has reported, via Parallel.
func AllOf(works ...Work) Work {
	return func(done Completion) {
		Parallel(works, done, func(w Work, done Completion) { w(done) })
	}
}
