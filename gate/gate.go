// Package gate tracks whether a starting gate has been raised.
package gate

import (
	"sync/atomic"

	"github.com/go-kit/kit/metrics/discard"
	"github.com/xmidt-org/semdemo/xmetrics"
)

const (
	gateOpen uint32 = iota
	gateClosed
)

// Interface represents a concurrent condition indicating whether workers held at a starting line
// have been let through.
type Interface interface {
	// Raise opens this gate.  By default, gates are initially open.  Use WithInitiallyClosed to
	// create a gate in the closed state.
	Raise()

	// Lower closes this gate
	Lower()

	// IsOpen tests if this gate is open
	IsOpen() bool

	// String reports the state as "open" or "closed"
	String() string
}

// Option is a configuration option for a gate Interface
type Option func(*gate)

func WithInitiallyClosed() Option {
	return func(g *gate) {
		g.state = gateClosed
	}
}

// WithOpenings sets a counter of the transitions from closed to open
func WithOpenings(counter xmetrics.Adder) Option {
	return func(g *gate) {
		if counter != nil {
			g.openings = counter
		} else {
			g.openings = discard.NewCounter()
		}
	}
}

// WithClosedGauge sets a gauge that is 1 while the gate is closed and 0 while it is open
func WithClosedGauge(gauge xmetrics.Setter) Option {
	return func(g *gate) {
		if gauge != nil {
			g.closedGauge = gauge
		} else {
			g.closedGauge = discard.NewGauge()
		}
	}
}

// New constructs a gate Interface with zero or more options.  By default, the returned
// gate is initially open and has a closed gauge that simply discards all metrics.
func New(options ...Option) Interface {
	g := &gate{
		state:       gateOpen,
		closedGauge: discard.NewGauge(),
		openings:    discard.NewCounter(),
	}

	for _, o := range options {
		o(g)
	}

	if g.state == gateOpen {
		g.closedGauge.Set(0.0)
	} else {
		g.closedGauge.Set(1.0)
	}

	return g
}

// gate is the internal Interface implementation
type gate struct {
	state       uint32
	closedGauge xmetrics.Setter
	openings    xmetrics.Adder
}

func (g *gate) Raise() {
	if atomic.CompareAndSwapUint32(&g.state, gateClosed, gateOpen) {
		g.closedGauge.Set(0.0)
		g.openings.Add(1.0)
	}
}

func (g *gate) Lower() {
	if atomic.CompareAndSwapUint32(&g.state, gateOpen, gateClosed) {
		g.closedGauge.Set(1.0)
	}
}

func (g *gate) IsOpen() bool {
	return atomic.LoadUint32(&g.state) == gateOpen
}

func (g *gate) String() string {
	if g.IsOpen() {
		return "open"
	}

	return "closed"
}
