// Package sekvo provides small continuation-passing primitives for
// coordinating asynchronous work.
//
// Sekvo was written to sequence, parallelize, retry, time-box, and
// bridge-to-blocking the asynchronous write and flush operations of
// log targets, but it knows nothing about logging: it coordinates any
// caller-supplied units of work through two contracts: a one-shot
// completion callback, and a unit of work obligated to invoke it
// exactly once. It performs no I/O, prescribes no scheduler, and holds
// no state beyond the lifetime of a single call.
//
// # Core Concepts
//
// The programming model is intentionally small:
//
//  1. Completion
//  2. Work
//  3. Combinators
//  4. Observer
//  5. Flow
//
// # Completion
//
// A Completion is a callback reporting the outcome of an asynchronous
// step: nil for success, an error for failure. Once wraps any
// completion so that only its first invocation is delivered, even when
// deliveries race from different goroutines; later invocations are
// silently dropped. Every other guarantee in the package rests on this
// exactly-once property.
//
// # Work
//
// A Work receives a Completion and must eventually invoke it exactly
// once, before returning or later from another goroutine. A unit of
// work may panic instead; Recover converts such panics into a failed
// delivery so faults never escape a combinator's entry point.
//
// # Combinators
//
// Combinators compose units of work while preserving the exactly-once
// contract:
//
//   - Sequential: ForEach (ordered iteration), Repeat (bounded
//     repetition), and Sequence run strictly one at a time, stopping
//     on the first failure.
//   - Concurrent: Parallel and AllOf start everything, join on a
//     strict completion barrier, and aggregate failures with causes
//     preserved.
//   - Chaining: PrecededBy inserts a side-effect step before a real
//     completion on the success path; PrecededByAlways runs it
//     regardless of the prior outcome.
//   - Timeout: WithTimeout races the real completion against a
//     deadline; the loser is discarded, the operation itself is never
//     forcibly stopped.
//   - Retry: re-runs failing work under a RetryPolicy with backoff,
//     built fluently via the RetryBuilder.
//   - Bridge: RunBlocking parks a synchronous caller until the
//     asynchronous work completes, returning its failure if any.
//
// # Observer
//
// An Observer is a diagnostic sink receiving completion lifecycle
// events: deliveries, discarded duplicates, recovered panics, and
// exceeded deadlines. NewLoggingObserver logs them with log/slog,
// BasicMetrics counts them, and NewCompositeObserver combines sinks.
// Install one with SetObserver; the default is a no-op.
//
// # Flow
//
// Flow is a fluent builder composing named phases into a single Work:
//
//	flow := sekvo.NewFlow("flush-targets").
//	    Then("rotate", rotate).
//	    Parallel("flush", flushA, flushB).
//	    ThenWithRetry("sync", sync, sekvo.Retrying(3).Policy()).
//	    WithTimeout(5 * time.Second)
//
//	if err := flow.Run(); err != nil {
//	    log.Fatal(err)
//	}
//
// # Summary
//
// Sekvo's goal is to make callback coordination feel like Go: explicit
// errors, no hidden goroutines, no global scheduler, and exactly-once
// delivery enforced with atomics rather than convention. Completions
// signal outcomes, Work performs them, combinators compose them, the
// Observer watches them, and Flow ties them together.
package sekvo
