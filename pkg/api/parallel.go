package api

import (
	"sync"
	"sync/atomic"
)

// Parallel starts each for every item without waiting for any sibling
// to finish, then delivers to done exactly once after every sibling
// has reported. If all siblings succeed, done receives success;
// otherwise it receives a single failure aggregating every sibling
// failure (causes preserved, see AggregateError). Completion is a
// strict barrier: a failing sibling neither cancels nor skips the
// ones still running, and done never fires before the last report.
//
// No ordering is guaranteed among items. Parallel itself spawns no
// goroutines: each unit of work chooses its own execution context, so
// items complete concurrently only insofar as the work is itself
// asynchronous. An empty items slice delivers success immediately.
func Parallel[T any](items []T, done Completion, each ItemWork[T]) {
	outer := Once(done)
	if len(items) == 0 {
		outer(nil)
		return
	}
	each = RecoverItem(each)

	// Shared by all siblings for the lifetime of this call: the
	// remaining count is decremented atomically on every completion,
	// the failure slice is appended under the mutex.
	var (
		remaining atomic.Int64
		mu        sync.Mutex
		failures  []error
	)
	remaining.Store(int64(len(items)))

	for _, item := range items {
		child := Once(func(err error) {
			if err != nil {
				mu.Lock()
				failures = append(failures, err)
				mu.Unlock()
			}
			if remaining.Add(-1) != 0 {
				return
			}
			// Last sibling. The atomic decrement orders every
			// sibling's append before this read.
			mu.Lock()
			errs := failures
			mu.Unlock()
			outer(NewAggregateError(errs))
		})
		each(item, child)
	}
}
