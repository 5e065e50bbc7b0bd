// Package api contains the core completion-passing primitives of sekvo.
//
// The two fundamental contracts are Completion, a one-shot callback that
// reports the outcome of an asynchronous operation, and Work, a unit of
// work that receives a Completion and must eventually invoke it exactly
// once. Everything else in the package is built from those two types:
// one-shot guards (Once), panic containment (Recover), ordered drivers
// (ForEach, Repeat), fan-out with a completion barrier (Parallel),
// completion chaining (PrecededBy), deadline racing (WithTimeout),
// bounded re-execution (Retry), and a bridge for blocking callers
// (RunBlocking).
//
// The package never spawns goroutines on behalf of a unit of work and
// never blocks, with the single exception of RunBlocking, which parks
// the calling goroutine until the work completes. Units of work decide
// their own execution context; combinators only coordinate delivery.
//
// Most users should import the root sekvo package, which re-exports
// this API.
package api
