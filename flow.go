package sekvo

import (
	"fmt"
	"time"

	"github.com/petrijr/sekvo/pkg/api"
)

// Flow provides a fluent API for composing asynchronous phases into a
// single unit of work:
//
//	flow := sekvo.NewFlow("FlushTargets").
//	    Then("rotate", rotateFiles).
//	    Parallel("flush", flushFileTarget, flushNetTarget).
//	    Then("fsync", syncToDisk)
//
//	flow.Start(done)        // asynchronous
//	err := flow.Run()       // blocking
//
// Phases run strictly in order; a phase failure stops the flow and
// delivers that failure. A Parallel phase completes only after every
// branch has reported.
type Flow struct {
	name   string
	phases []phase
}

type phase struct {
	name string
	work api.Work
}

// NewFlow creates a new flow builder with the given name.
func NewFlow(name string) *Flow {
	return &Flow{
		name:   name,
		phases: make([]phase, 0),
	}
}

// Name returns the flow name.
func (f *Flow) Name() string {
	return f.name
}

// Then appends a basic phase to the flow.
func (f *Flow) Then(name string, work Work) *Flow {
	if name == "" {
		panic("sekvo: phase name must not be empty")
	}
	if work == nil {
		panic(fmt.Sprintf("sekvo: phase %q has nil work", name))
	}

	f.phases = append(f.phases, phase{name: name, work: work})
	return f
}

// ThenWithRetry appends a phase that re-runs under the given retry
// policy before reporting failure.
func (f *Flow) ThenWithRetry(name string, work Work, retry RetryPolicy) *Flow {
	if work == nil {
		panic(fmt.Sprintf("sekvo: phase %q has nil work", name))
	}

	return f.Then(name, func(done Completion) {
		api.Retry(retry, done, work)
	})
}

// Parallel is a convenience for adding a phase that runs branches
// concurrently and joins on all of them.
func (f *Flow) Parallel(name string, branches ...Work) *Flow {
	return f.Then(name, api.AllOf(branches...))
}

// WithTimeout appends a deadline to the most recently added phase:
// if the phase has not completed after timeout, the flow fails with
// ErrDeadlineExceeded and the phase's later outcome is discarded.
func (f *Flow) WithTimeout(timeout time.Duration) *Flow {
	if len(f.phases) == 0 {
		panic("sekvo: WithTimeout requires a preceding phase")
	}

	last := &f.phases[len(f.phases)-1]
	work := last.work
	last.work = func(done Completion) {
		work(api.WithTimeout(done, timeout))
	}
	return f
}

// Build collapses the flow into a single Work running all phases.
func (f *Flow) Build() Work {
	phases := f.phases
	return func(done Completion) {
		api.ForEach(phases, done, func(p phase, done Completion) {
			p.work(done)
		})
	}
}

// Start begins executing the flow asynchronously; done fires exactly
// once with the flow's outcome.
func (f *Flow) Start(done Completion) {
	f.Build()(api.Once(done))
}

// Run executes the flow and blocks the calling goroutine until it
// completes, returning its failure if any.
func (f *Flow) Run() error {
	return api.RunBlocking(f.Build())
}
