package api

import (
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
)

// ErrDeadlineExceeded is the failure synthesized by WithTimeout when
// the deadline elapses before the real completion arrives. Check for
// it with errors.Is.
var ErrDeadlineExceeded = errors.New("sekvo: deadline exceeded")

// PanicError is the failure delivered by Recover when a unit of work
// panics. It captures the panic value and the stack at recovery time.
type PanicError struct {
	Value any
	Stack []byte
}

// NewPanicError builds a PanicError for the given panic value,
// capturing the current stack.
func NewPanicError(v any) *PanicError {
	return &PanicError{Value: v, Stack: debug.Stack()}
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("sekvo: recovered panic: %v", e.Value)
}

// Unwrap exposes the panic value when it was itself an error, so
// errors.Is and errors.As see through the containment.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// AggregateError is a single failure representing one or more sibling
// failures from a joined set of operations. The individual causes are
// preserved and reachable through errors.Is / errors.As.
type AggregateError struct {
	errs []error
}

// NewAggregateError collapses errs into one failure value. It returns
// nil for an empty set and the error itself for a single-element set.
func NewAggregateError(errs []error) error {
	switch len(errs) {
	case 0:
		return nil
	case 1:
		return errs[0]
	}
	return &AggregateError{errs: append([]error(nil), errs...)}
}

func (e *AggregateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "sekvo: %d operations failed:", len(e.errs))
	for _, err := range e.errs {
		b.WriteString("\n\t")
		b.WriteString(err.Error())
	}
	return b.String()
}

// Unwrap returns the underlying failures.
func (e *AggregateError) Unwrap() []error {
	return e.errs
}

// Errors returns a copy of the underlying failures in the order they
// were collected.
func (e *AggregateError) Errors() []error {
	return append([]error(nil), e.errs...)
}
