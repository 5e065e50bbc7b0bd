package sekvo

import (
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/petrijr/sekvo/pkg/api"
)

// Re-export key types so users don't need to dig into pkg/api.

type (
	Completion           = api.Completion
	Work                 = api.Work
	ItemWork[T any]      = api.ItemWork[T]
	RetryPolicy          = api.RetryPolicy
	Observer             = api.Observer
	NoopObserver         = api.NoopObserver
	LoggingObserver      = api.LoggingObserver
	CompositeObserver    = api.CompositeObserver
	BasicMetrics         = api.BasicMetrics
	BasicMetricsSnapshot = api.BasicMetricsSnapshot
	PanicError           = api.PanicError
	AggregateError       = api.AggregateError
)

// Re-export common observer helpers.

var (
	NewLoggingObserver   = api.NewLoggingObserver
	NewCompositeObserver = api.NewCompositeObserver
	SetObserver          = api.SetObserver
	CurrentObserver      = api.CurrentObserver
)

// ErrDeadlineExceeded is the failure synthesized when a WithTimeout
// deadline elapses first. Check for it with errors.Is.
var ErrDeadlineExceeded = api.ErrDeadlineExceeded

// Combinator wrappers
// These forward to pkg/api so external callers only import sekvo.

// Once wraps a completion for exactly-once delivery; see api.Once.
func Once(done Completion) Completion {
	return api.Once(done)
}

// Recover contains panics raised by work; see api.Recover.
func Recover(work Work) Work {
	return api.Recover(work)
}

// RecoverItem is Recover for item-parameterized work.
func RecoverItem[T any](each ItemWork[T]) ItemWork[T] {
	return api.RecoverItem(each)
}

// ForEach runs each over items strictly in order; see api.ForEach.
func ForEach[T any](items []T, done Completion, each ItemWork[T]) {
	api.ForEach(items, done, each)
}

// Repeat runs body a bounded number of times; see api.Repeat.
func Repeat(times int, done Completion, body Work) {
	api.Repeat(times, done, body)
}

// Parallel fans out each over items and joins on a completion
// barrier; see api.Parallel.
func Parallel[T any](items []T, done Completion, each ItemWork[T]) {
	api.Parallel(items, done, each)
}

// PrecededBy inserts first before done on the success path.
func PrecededBy(done Completion, first Work) Completion {
	return api.PrecededBy(done, first)
}

// PrecededByAlways inserts first before done regardless of outcome.
func PrecededByAlways(done Completion, first Work) Completion {
	return api.PrecededByAlways(done, first)
}

// WithTimeout races done against a deadline; see api.WithTimeout.
func WithTimeout(done Completion, timeout time.Duration) Completion {
	return api.WithTimeout(done, timeout)
}

// WithTimeoutClock is WithTimeout on an injected clock.
func WithTimeoutClock(done Completion, timeout time.Duration, clk clockwork.Clock) Completion {
	return api.WithTimeoutClock(done, timeout, clk)
}

// Retry re-runs failing work under policy; see api.Retry.
func Retry(policy RetryPolicy, done Completion, body Work) {
	api.Retry(policy, done, body)
}

// RetryClock is Retry with backoff scheduled on clk.
func RetryClock(policy RetryPolicy, done Completion, body Work, clk clockwork.Clock) {
	api.RetryClock(policy, done, body, clk)
}

// RunBlocking bridges asynchronous work to a blocking caller.
func RunBlocking(work Work) error {
	return api.RunBlocking(work)
}

// Each adapts a slice and an ItemWork into one sequential Work.
func Each[T any](items []T, each ItemWork[T]) Work {
	return api.Each(items, each)
}

// Sequence adapts several units of work into one ordered Work.
func Sequence(works ...Work) Work {
	return api.Sequence(works...)
}

// AllOf adapts several units of work into one fan-out Work.
func AllOf(works ...Work) Work {
	return api.AllOf(works...)
}
