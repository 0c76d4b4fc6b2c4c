package semaphore

import (
	"time"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/semdemo/xmetrics"
)

// InstrumentOption represents a configurable option for instrumenting a semaphore Handle
type InstrumentOption func(*instrumentedHandle)

// WithResources establishes a metric that tracks the number of tokens held through the decorated Handle.
// If a nil counter is supplied, resource counts are discarded.
func WithResources(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedHandle) {
		if a != nil {
			i.resources = a
		} else {
			i.resources = discard.NewCounter()
		}
	}
}

// WithFailures establishes a metric that tracks how many operations on the decorated Handle failed.
// If a nil counter is supplied, failure counts are discarded.
func WithFailures(a xmetrics.Adder) InstrumentOption {
	return func(i *instrumentedHandle) {
		if a != nil {
			i.failures = a
		} else {
			i.failures = discard.NewCounter()
		}
	}
}

// WithWaits establishes a metric that observes, in seconds, how long each successful Acquire blocked.
// If a nil observer is supplied, wait times are discarded.
func WithWaits(o xmetrics.Observer) InstrumentOption {
	return func(i *instrumentedHandle) {
		if o != nil {
			i.waits = o
		} else {
			i.waits = discard.NewHistogram()
		}
	}
}

// Instrument decorates an existing Handle with a set of options.  A nil Handle results in a panic.
func Instrument(h Handle, o ...InstrumentOption) Handle {
	if h == nil {
		panic("A Handle is required")
	}

	ih := &instrumentedHandle{
		Handle:    h,
		resources: discard.NewCounter(),
		failures:  discard.NewCounter(),
		waits:     discard.NewHistogram(),
		now:       time.Now,
	}

	for _, f := range o {
		f(ih)
	}

	return ih
}

type instrumentedHandle struct {
	Handle
	resources xmetrics.Adder
	failures  xmetrics.Adder
	waits     xmetrics.Observer
	now       func() time.Time
}

func (ih *instrumentedHandle) track(err error) error {
	if err != nil {
		ih.failures.Add(1.0)
	}

	return err
}

func (ih *instrumentedHandle) SetValue(v int) error {
	return ih.track(ih.Handle.SetValue(v))
}

func (ih *instrumentedHandle) Acquire(undo bool) error {
	start := ih.now()
	if err := ih.track(ih.Handle.Acquire(undo)); err != nil {
		return err
	}

	ih.waits.Observe(ih.now().Sub(start).Seconds())
	ih.resources.Add(1.0)
	return nil
}

func (ih *instrumentedHandle) Release(undo bool) error {
	if err := ih.track(ih.Handle.Release(undo)); err != nil {
		return err
	}

	ih.resources.Add(-1.0)
	return nil
}

func (ih *instrumentedHandle) Destroy() error {
	return ih.track(ih.Handle.Destroy())
}

// RegistryOptions produces the InstrumentOptions that record a Handle's metrics in a registry,
// under the metric names defined by xmetrics.
func RegistryOptions(r xmetrics.Registry) []InstrumentOption {
	return []InstrumentOption{
		WithResources(r.NewGauge(xmetrics.HeldTokens)),
		WithFailures(r.NewCounter(xmetrics.FailedOperations)),
		WithWaits(r.NewHistogram(xmetrics.AcquireWaitSeconds, 0)),
	}
}
