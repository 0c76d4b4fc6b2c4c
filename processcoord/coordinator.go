package processcoord

import (
	"time"

	"github.com/xmidt-org/semdemo/clock"
	"github.com/xmidt-org/semdemo/console"
	"github.com/xmidt-org/semdemo/ipcsem"
	"github.com/xmidt-org/semdemo/jitter"
	"github.com/xmidt-org/semdemo/logging"
	"github.com/xmidt-org/semdemo/semaphore"
	"github.com/xmidt-org/semdemo/xerrors"
	"go.uber.org/zap"
)

const DefaultUnit = time.Second

// Opener creates or attaches to the semaphore at a key
type Opener func(ipcsem.Key) (semaphore.Handle, error)

// OpenKernel is the default Opener, backed by a System V semaphore
func OpenKernel(k ipcsem.Key) (semaphore.Handle, error) {
	s, err := ipcsem.Create(k)
	if err != nil {
		return nil, err
	}

	return s, nil
}

// Options configures a Coordinator.  The zero value runs the default peers against the kernel
// semaphore at ipcsem.DefaultKey, printing to stdout.
type Options struct {
	// Key identifies the shared semaphore
	Key ipcsem.Key

	// Unit is the scale of the jittered pauses.  Defaults to DefaultUnit.
	Unit time.Duration

	// Unsynchronized turns acquire and release into no-ops.  Binaries built with the semoff tag
	// are always unsynchronized.
	Unsynchronized bool

	// Keep leaves the semaphore in place after a run instead of destroying it
	Keep bool

	// Peers are the two participants.  Defaults to DefaultPeers.
	Peers [2]Peer

	// Open creates or attaches to the semaphore.  Defaults to OpenKernel.
	Open Opener

	// Spawner starts the child peer.  Defaults to an ExecSpawner.
	Spawner Spawner

	// Output is the shared stream both peers print to.  Defaults to stdout.
	Output *console.Writer

	// Clock performs the pauses.  Defaults to the system clock.
	Clock clock.Interface

	// Jitter produces the pause durations for a peer.  Defaults to a source seeded by the
	// peer's letters with DefaultSpread.
	Jitter func(Peer) jitter.Source

	// Instrument decorates the handle when non-empty
	Instrument []semaphore.InstrumentOption

	// Logger defaults to logging.DefaultLogger()
	Logger *zap.Logger
}

// Coordinator runs one side of a two-peer run
type Coordinator struct {
	o Options
}

// New creates a Coordinator, filling in defaults for any unset option
func New(o Options) *Coordinator {
	if o.Key == ipcsem.Private {
		o.Key = ipcsem.DefaultKey
	}

	if o.Unit <= 0 {
		o.Unit = DefaultUnit
	}

	if len(o.Peers[0].Letters) == 0 && len(o.Peers[1].Letters) == 0 {
		o.Peers = DefaultPeers
	}

	if o.Open == nil {
		o.Open = OpenKernel
	}

	if o.Spawner == nil {
		o.Spawner = ExecSpawner{}
	}

	if o.Output == nil {
		o.Output = console.Stdout()
	}

	if o.Clock == nil {
		o.Clock = clock.System()
	}

	if o.Jitter == nil {
		unit := o.Unit
		o.Jitter = func(p Peer) jitter.Source {
			return jitter.Seeded(p.Letters, unit, jitter.DefaultSpread)
		}
	}

	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}

	return &Coordinator{o: o}
}

// decorate applies the synchronization mode and any instrumentation to a freshly opened handle
func (c *Coordinator) decorate(h semaphore.Handle) semaphore.Handle {
	if c.o.Unsynchronized || !Synchronized {
		h = semaphore.Unsynchronized(h)
	}

	if len(c.o.Instrument) > 0 {
		h = semaphore.Instrument(h, c.o.Instrument...)
	}

	return h
}

func (c *Coordinator) protocol(h semaphore.Handle, p Peer) Protocol {
	return Protocol{
		Handle: h,
		Output: c.o.Output,
		Clock:  c.o.Clock,
		Jitter: c.o.Jitter(p),
		Logger: logging.Enrich(c.o.Logger, p),
	}
}

// Parent creates and initializes the semaphore, spawns the child peer, runs peer 0, and waits for
// the child.  Once both peers finish, it prints the trailing newline and destroys the semaphore
// unless Keep is set.
//
// A failure in peer 0 returns immediately, leaving the child to finish on its own and the
// semaphore in place.  A child that exits unsuccessfully yields a *PeerExitError.
func (c *Coordinator) Parent() error {
	logger := c.o.Logger.With(zap.Stringer("key", c.o.Key))
	h, err := c.o.Open(c.o.Key)
	if err != nil {
		return xerrors.New(xerrors.OpCreate, xerrors.NoPeer, err)
	}

	// a stale semaphore from an earlier run is simply reset
	h = c.decorate(h)
	if err := h.SetValue(1); err != nil {
		return xerrors.New(xerrors.OpSetValue, xerrors.NoPeer, err)
	}

	logger.Info("semaphore initialized", zap.Bool("synchronized", !c.o.Unsynchronized && Synchronized))

	child := c.o.Peers[1]
	process, err := c.o.Spawner.Spawn(child)
	if err != nil {
		return xerrors.New(xerrors.OpSpawn, child.Index, err)
	}

	self := c.o.Peers[0]
	if _, err := c.protocol(h, self).Run(self); err != nil {
		return err
	}

	result, err := process.Wait()
	if err != nil {
		return xerrors.New(xerrors.OpSpawn, child.Index, err)
	}

	if result.ReportErr != nil {
		logger.Warn("unable to decode peer report", zap.Int("peer", child.Index), zap.Error(result.ReportErr))
	} else if result.Report != nil {
		logging.Enrich(logger, *result.Report).Info("peer finished", zap.Int("status", result.ExitCode))
	}

	if err := c.o.Output.WriteByte('\n'); err != nil {
		logger.Warn("unable to write output", zap.Error(err))
	}

	if c.o.Keep {
		logger.Info("leaving semaphore in place")
	} else if err := h.Destroy(); err != nil {
		logger.Warn("unable to destroy semaphore", zap.Error(err))
	}

	if result.ExitCode != ExitSuccess {
		return &PeerExitError{
			Peer:   child.Index,
			Code:   result.ExitCode,
			Report: result.Report,
		}
	}

	return nil
}

// Child attaches to the semaphore the parent initialized and runs the peer at index.  It never
// sets the count.  The returned Report summarizes the run for the parent.
func (c *Coordinator) Child(index int) (Report, error) {
	self := c.o.Peers[index]
	h, err := c.o.Open(c.o.Key)
	if err != nil {
		err = xerrors.New(xerrors.OpCreate, self.Index, err)
		return NewReport(self, 0, err), err
	}

	printed, err := c.protocol(c.decorate(h), self).Run(self)
	return NewReport(self, printed, err), err
}
