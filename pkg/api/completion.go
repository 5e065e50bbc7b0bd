package api

import (
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"
)

// Completion reports the outcome of an asynchronous operation.
// A nil error means success. A Completion produced by Once delivers
// at most once; further invocations are silently discarded.
type Completion func(err error)

// onceGuard enforces exactly-once delivery to its wrapped completion.
// The fired flag is an atomic compare-and-swap, not a plain boolean,
// because deliveries may race from different goroutines.
type onceGuard struct {
	fired atomic.Bool
	op    uuid.UUID
	next  Completion
}

func newGuard(done Completion) *onceGuard {
	if done == nil {
		done = func(error) {}
	}
	return &onceGuard{op: uuid.New(), next: done}
}

// deliver forwards the first delivery to the wrapped completion and
// drops every later one. First delivery wins, success or failure.
func (g *onceGuard) deliver(err error) {
	if !g.claim() {
		CurrentObserver().OnDiscardedDelivery(g.op, err)
		return
	}
	g.forward(err)
}

// claim reports whether the caller won the right to deliver.
// Exactly one claim succeeds over the guard's lifetime.
func (g *onceGuard) claim() bool {
	return g.fired.CompareAndSwap(false, true)
}

// forward hands the outcome to the wrapped completion.
// Must only be called after a successful claim.
func (g *onceGuard) forward(err error) {
	CurrentObserver().OnDelivery(g.op, err)
	g.next(err)
}

// deliverPC is the code pointer shared by every onceGuard.deliver
// method value. Method values of the same method share one wrapper
// body, so the pointer identifies completions produced by Once.
var deliverPC = reflect.ValueOf((&onceGuard{}).deliver).Pointer()

func alreadyGuarded(done Completion) bool {
	return done != nil && reflect.ValueOf(done).Pointer() == deliverPC
}

// Once wraps done so that only its first invocation is delivered.
// Later invocations, concurrent or sequential, are discarded without
// error and reported to the observer.
//
// Wrapping is idempotent: a completion already produced by Once is
// returned unchanged rather than wrapped again. A nil completion is
// replaced by a no-op, so the result is always safe to invoke.
func Once(done Completion) Completion {
	if alreadyGuarded(done) {
		return done
	}
	return newGuard(done).deliver
}
