package threadcoord

import (
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/xmidt-org/semdemo/clock"
	"github.com/xmidt-org/semdemo/concurrent"
	"github.com/xmidt-org/semdemo/console"
	"github.com/xmidt-org/semdemo/gate"
	"github.com/xmidt-org/semdemo/logging"
	"github.com/xmidt-org/semdemo/semaphore"
	"github.com/xmidt-org/semdemo/xerrors"
	"go.uber.org/zap"
)

const (
	DefaultIterations = 10
	DefaultUnit       = time.Second
	DefaultPrompt     = "two threads waiting now... return to go."
)

// DefaultLabels are the lines printed by the two workers
var DefaultLabels = []string{"Hello+++", "World"}

// Options configures a run.  Any unset field takes its default.
type Options struct {
	// Labels holds the line each worker prints.  Its length is the number of workers.
	Labels []string

	// Iterations is the number of brackets per worker
	Iterations int

	// Unit is the pause after each bracket
	Unit time.Duration

	// Pauses multiplies Unit per worker.  Missing or non-positive entries count as 1.
	Pauses []int

	// Handle is the semaphore behind the gate.  Defaults to a new semaphore.Local.
	Handle semaphore.Handle

	// Gate reflects whether the workers have been let through.  Defaults to a gate with no metrics.
	Gate gate.Interface

	// Trigger releases the gate.  Defaults to a LineTrigger on stdin.
	Trigger Trigger

	// Prompt receives PromptText before the trigger is awaited.  Defaults to stderr.
	Prompt     io.Writer
	PromptText string

	// Output receives the labels.  Defaults to stdout.
	Output *console.Writer

	// Clock performs the pauses.  Defaults to the system clock.
	Clock clock.Interface

	// Instrument decorates the handle the workers bracket with, when non-empty.  The release that
	// opens the gate bypasses it and is counted by the Gate instead.
	Instrument []semaphore.InstrumentOption

	// StallWarning is how long the workers may run after the gate opens before a warning is logged.
	// Defaults to twice the longest expected run, plus a second.  The warning never interrupts the workers.
	StallWarning time.Duration

	Logger *zap.Logger
}

func (o *Options) pause(worker int) time.Duration {
	multiplier := 1
	if worker < len(o.Pauses) && o.Pauses[worker] > 0 {
		multiplier = o.Pauses[worker]
	}

	return o.Unit * time.Duration(multiplier)
}

func (o *Options) defaults() {
	if len(o.Labels) == 0 {
		o.Labels = DefaultLabels
	}

	if o.Iterations <= 0 {
		o.Iterations = DefaultIterations
	}

	if o.Unit <= 0 {
		o.Unit = DefaultUnit
	}

	if o.Handle == nil {
		o.Handle = semaphore.NewLocal()
	}

	if o.Gate == nil {
		o.Gate = gate.New(gate.WithInitiallyClosed())
	}

	if o.Trigger == nil {
		o.Trigger = LineTrigger(os.Stdin)
	}

	if o.Prompt == nil {
		o.Prompt = os.Stderr
	}

	if len(o.PromptText) == 0 {
		o.PromptText = DefaultPrompt
	}

	if o.Output == nil {
		o.Output = console.Stdout()
	}

	if o.Clock == nil {
		o.Clock = clock.System()
	}

	if o.Logger == nil {
		o.Logger = logging.DefaultLogger()
	}

	if o.StallWarning <= 0 {
		var longest time.Duration
		for i := range o.Labels {
			if p := o.pause(i); p > longest {
				longest = p
			}
		}

		o.StallWarning = 2*time.Duration(o.Iterations)*longest + time.Second
	}
}

// failures collects the errors of workers that stopped early
type failures struct {
	lock sync.Mutex
	errs []error
}

func (f *failures) add(err error) {
	f.lock.Lock()
	f.errs = append(f.errs, err)
	f.lock.Unlock()
}

func (f *failures) err() error {
	f.lock.Lock()
	defer f.lock.Unlock()
	return errors.Join(f.errs...)
}

// worker runs the bracket loop for one label
func worker(o *Options, h semaphore.Handle, index int, f *failures) func() {
	label := o.Labels[index]
	pause := o.pause(index)
	logger := o.Logger.With(zap.Int("peer", index), zap.String("label", label))

	return func() {
		for i := 0; i < o.Iterations; i++ {
			if err := h.Acquire(false); err != nil {
				logger.Error("acquire failed", zap.Int("iteration", i), zap.Error(err))
				f.add(xerrors.New(xerrors.OpAcquire, index, err))
				return
			}

			if err := o.Output.WriteLine(label); err != nil {
				logger.Warn("unable to write output", zap.Error(err))
			}

			if err := h.Release(false); err != nil {
				logger.Error("release failed", zap.Int("iteration", i), zap.Error(err))
				f.add(xerrors.New(xerrors.OpRelease, index, err))
				return
			}

			o.Clock.Sleep(pause)
		}

		logger.Debug("worker finished")
	}
}

// Run closes the gate, starts the workers, waits for the trigger, and opens the gate with exactly
// one release.  It returns once every worker has finished and the semaphore is destroyed.  Worker
// failures are joined into the returned error, each an *xerrors.Error carrying the worker index.
func Run(o Options) error {
	o.defaults()

	h := o.Handle
	if len(o.Instrument) > 0 {
		h = semaphore.Instrument(o.Handle, o.Instrument...)
	}

	if err := h.SetValue(0); err != nil {
		return xerrors.New(xerrors.OpSetValue, xerrors.NoPeer, err)
	}

	o.Gate.Lower()

	var (
		f       failures
		workers = make(concurrent.RunnableSet, len(o.Labels))
	)

	for i := range o.Labels {
		workers[i] = concurrent.Thread(worker(&o, h, i, &f))
	}

	waitGroup, err := concurrent.Execute(workers)
	if err != nil {
		return err
	}

	fmt.Fprintln(o.Prompt, o.PromptText)
	if err := o.Trigger.Wait(); err != nil {
		o.Logger.Warn("trigger failed, starting anyway", zap.Error(err))
	}

	if err := o.Handle.Release(false); err != nil {
		return xerrors.New(xerrors.OpRelease, xerrors.NoPeer, err)
	}

	o.Gate.Raise()
	o.Logger.Info("gate opened", zap.Int("workers", len(o.Labels)), zap.Stringer("gate", o.Gate))

	// a worker that died holding the token leaves its peer blocked forever
	if !concurrent.WaitTimeout(waitGroup, o.StallWarning) {
		o.Logger.Warn("workers still running, a peer may be deadlocked", zap.Duration("after", o.StallWarning))
		waitGroup.Wait()
	}

	if err := h.Destroy(); err != nil {
		o.Logger.Warn("unable to destroy semaphore", zap.Error(err))
	}

	return f.err()
}
