package api

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Observer receives diagnostic callbacks from the completion
// machinery. Every guarded completion carries an operation id that is
// passed to each callback, so related events can be correlated.
//
// Implementations must be safe for concurrent use and should be fast
// and non-blocking; heavy work should be done asynchronously so as not
// to delay completion delivery.
type Observer interface {
	// OnDelivery is called when a guarded completion delivers its
	// first (and only) outcome. err is nil on success.
	OnDelivery(op uuid.UUID, err error)

	// OnDiscardedDelivery is called when a delivery attempt arrives
	// after a guarded completion has already fired. The attempt is
	// dropped by design; this callback exists for observability only.
	OnDiscardedDelivery(op uuid.UUID, err error)

	// OnPanicRecovered is called when Recover catches a panic raised
	// by a unit of work, before the failure is delivered.
	OnPanicRecovered(op uuid.UUID, err error)

	// OnDeadlineExceeded is called when a WithTimeout deadline elapses
	// before the real completion arrives.
	OnDeadlineExceeded(op uuid.UUID, timeout time.Duration)
}

// NoopObserver is an Observer that does nothing.
// It is the default when no observer is configured.
type NoopObserver struct{}

func (NoopObserver) OnDelivery(op uuid.UUID, err error)                     {}
func (NoopObserver) OnDiscardedDelivery(op uuid.UUID, err error)            {}
func (NoopObserver) OnPanicRecovered(op uuid.UUID, err error)               {}
func (NoopObserver) OnDeadlineExceeded(op uuid.UUID, timeout time.Duration) {}

// CompositeObserver fans out events to multiple observers.
type CompositeObserver struct {
	observers []Observer
}

// NewCompositeObserver creates an Observer that forwards events to
// each non-nil observer in obs.
func NewCompositeObserver(obs ...Observer) Observer {
	filtered := make([]Observer, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			filtered = append(filtered, o)
		}
	}
	if len(filtered) == 0 {
		return NoopObserver{}
	}
	if len(filtered) == 1 {
		return filtered[0]
	}
	return &CompositeObserver{observers: filtered}
}

func (c *CompositeObserver) OnDelivery(op uuid.UUID, err error) {
	for _, o := range c.observers {
		o.OnDelivery(op, err)
	}
}

func (c *CompositeObserver) OnDiscardedDelivery(op uuid.UUID, err error) {
	for _, o := range c.observers {
		o.OnDiscardedDelivery(op, err)
	}
}

func (c *CompositeObserver) OnPanicRecovered(op uuid.UUID, err error) {
	for _, o := range c.observers {
		o.OnPanicRecovered(op, err)
	}
}

func (c *CompositeObserver) OnDeadlineExceeded(op uuid.UUID, timeout time.Duration) {
	for _, o := range c.observers {
		o.OnDeadlineExceeded(op, timeout)
	}
}

// LoggingObserver writes structured logs using log/slog.
type LoggingObserver struct {
	Logger *slog.Logger
}

// NewLoggingObserver creates an Observer that logs completion
// lifecycle events using the provided slog.Logger. If logger is nil,
// slog.Default() is used.
func NewLoggingObserver(logger *slog.Logger) Observer {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingObserver{Logger: logger}
}

func (o *LoggingObserver) OnDelivery(op uuid.UUID, err error) {
	level := slog.LevelDebug
	if err != nil {
		level = slog.LevelError
	}
	o.Logger.Log(context.Background(), level, "completion_delivered",
		slog.String("op", op.String()),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnDiscardedDelivery(op uuid.UUID, err error) {
	o.Logger.Warn("completion_discarded",
		slog.String("op", op.String()),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnPanicRecovered(op uuid.UUID, err error) {
	o.Logger.Error("panic_recovered",
		slog.String("op", op.String()),
		slog.Any("error", err),
	)
}

func (o *LoggingObserver) OnDeadlineExceeded(op uuid.UUID, timeout time.Duration) {
	o.Logger.Warn("deadline_exceeded",
		slog.String("op", op.String()),
		slog.Duration("timeout", timeout),
	)
}

// BasicMetrics collects simple counters for completion traffic.
// It implements Observer and can be combined with LoggingObserver via
// NewCompositeObserver.
type BasicMetrics struct {
	deliveries        atomic.Int64
	failures          atomic.Int64
	discarded         atomic.Int64
	panicsRecovered   atomic.Int64
	deadlinesExceeded atomic.Int64
}

// BasicMetricsSnapshot is an immutable snapshot of BasicMetrics.
type BasicMetricsSnapshot struct {
	Deliveries        int64
	Failures          int64
	Discarded         int64
	PanicsRecovered   int64
	DeadlinesExceeded int64
}

func (m *BasicMetrics) OnDelivery(op uuid.UUID, err error) {
	m.deliveries.Add(1)
	if err != nil {
		m.failures.Add(1)
	}
}

func (m *BasicMetrics) OnDiscardedDelivery(op uuid.UUID, err error) {
	m.discarded.Add(1)
}

func (m *BasicMetrics) OnPanicRecovered(op uuid.UUID, err error) {
	m.panicsRecovered.Add(1)
}

func (m *BasicMetrics) OnDeadlineExceeded(op uuid.UUID, timeout time.Duration) {
	m.deadlinesExceeded.Add(1)
}

// Snapshot returns a snapshot of the current counters.
func (m *BasicMetrics) Snapshot() BasicMetricsSnapshot {
	return BasicMetricsSnapshot{
		Deliveries:        m.deliveries.Load(),
		Failures:          m.failures.Load(),
		Discarded:         m.discarded.Load(),
		PanicsRecovered:   m.panicsRecovered.Load(),
		DeadlinesExceeded: m.deadlinesExceeded.Load(),
	}
}

// defaultObserver holds the package-wide Observer. Stored through an
// atomic pointer so observer swaps never race with in-flight
// deliveries.
var defaultObserver atomic.Pointer[Observer]

func init() {
	var o Observer = NoopObserver{}
	defaultObserver.Store(&o)
}

// SetObserver installs o as the package-wide diagnostic observer and
// returns the previous one. Passing nil installs NoopObserver.
func SetObserver(o Observer) Observer {
	if o == nil {
		o = NoopObserver{}
	}
	prev := defaultObserver.Swap(&o)
	return *prev
}

// CurrentObserver returns the package-wide diagnostic observer.
func CurrentObserver() Observer {
	return *defaultObserver.Load()
}
