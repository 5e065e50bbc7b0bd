package sekvo

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func step(order *[]string, name string) Work {
	return func(done Completion) {
		*order = append(*order, name)
		done(nil)
	}
}

func TestFlow_RunsPhasesInOrder(t *testing.T) {
	t.Parallel()

	var order []string
	flow := NewFlow("ordered").
		Then("a", step(&order, "a")).
		Then("b", step(&order, "b")).
		Then("c", step(&order, "c"))

	require.Equal(t, "ordered", flow.Name())
	require.NoError(t, flow.Run())
	require.Equal(t, []string{"a", "b", "c"}, order)
}

func TestFlow_PhaseFailureStopsFlow(t *testing.T) {
	t.Parallel()

	sentinel := errors.New("phase b failed")
	var order []string

	flow := NewFlow("failing").
		Then("a", step(&order, "a")).
		Then("b", func(done Completion) {
			order = append(order, "b")
			done(sentinel)
		}).
		Then("c", step(&order, "c"))

	err := flow.Run()
	require.ErrorIs(t, err, sentinel)
	require.Equal(t, []string{"a", "b"}, order, "phase c must never start")
}

func TestFlow_ParallelPhaseJoinsAllBranches(t *testing.T) {
	t.Parallel()

	var branches atomic.Int64
	branch := func(done Completion) {
		go func() {
			branches.Add(1)
			done(nil)
		}()
	}

	var after []string
	flow := NewFlow("fanout").
		Parallel("flush", branch, branch, branch).
		Then("after", step(&after, "after"))

	require.NoError(t, flow.Run())
	require.Equal(t, int64(3), branches.Load())
	require.Equal(t, []string{"after"}, after)
}

func TestFlow_ParallelPhaseAggregatesFailures(t *testing.T) {
	t.Parallel()

	errA := errors.New("branch a failed")
	errB := errors.New("branch b failed")

	flow := NewFlow("fanout-fail").
		Parallel("flush",
			func(done Completion) { done(errA) },
			func(done Completion) { done(errB) },
			func(done Completion) { done(nil) },
		)

	err := flow.Run()
	require.ErrorIs(t, err, errA)
	require.ErrorIs(t, err, errB)
}

func TestFlow_RetryPhase(t *testing.T) {
	t.Parallel()

	var attempts int
	flow := NewFlow("retrying").
		ThenWithRetry("flaky", func(done Completion) {
			attempts++
			if attempts < 3 {
				done(errors.New("transient"))
				return
			}
			done(nil)
		}, Retrying(5).Immediate().Policy())

	require.NoError(t, flow.Run())
	require.Equal(t, 3, attempts)
}

func TestFlow_TimeoutPhase(t *testing.T) {
	t.Parallel()

	flow := NewFlow("stuck").
		Then("never", func(done Completion) {
			// Never completes; the deadline must fire.
		}).
		WithTimeout(20 * time.Millisecond)

	start := time.Now()
	err := flow.Run()
	require.ErrorIs(t, err, ErrDeadlineExceeded)
	require.Less(t, time.Since(start), 5*time.Second)
}

func TestFlow_TimeoutDoesNotAffectFastPhase(t *testing.T) {
	t.Parallel()

	flow := NewFlow("fast").
		Then("quick", func(done Completion) { done(nil) }).
		WithTimeout(time.Minute)

	require.NoError(t, flow.Run())
}

func TestFlow_StartDeliversExactlyOnce(t *testing.T) {
	t.Parallel()

	var order []string
	outcome := make(chan error, 1)

	NewFlow("async").
		Then("a", step(&order, "a")).
		Then("b", step(&order, "b")).
		Start(func(err error) { outcome <- err })

	require.NoError(t, <-outcome)
	require.Equal(t, []string{"a", "b"}, order)
}

func TestFlow_PanicInPhaseSurfacesAsError(t *testing.T) {
	t.Parallel()

	flow := NewFlow("exploding").
		Then("boom", func(done Completion) {
			panic("phase exploded")
		})

	err := flow.Run()
	require.Error(t, err)

	var pe *PanicError
	require.ErrorAs(t, err, &pe)
}

func TestFlow_BuilderValidation(t *testing.T) {
	t.Parallel()

	require.Panics(t, func() {
		NewFlow("bad").Then("", func(done Completion) { done(nil) })
	})
	require.Panics(t, func() {
		NewFlow("bad").Then("nil-work", nil)
	})
	require.Panics(t, func() {
		NewFlow("bad").WithTimeout(time.Second)
	})
}

func TestFlow_EmptyFlowSucceeds(t *testing.T) {
	t.Parallel()

	require.NoError(t, NewFlow("empty").Run())
}
