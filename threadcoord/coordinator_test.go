package threadcoord

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/kit/metrics/generic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/semdemo/clock"
	"github.com/xmidt-org/semdemo/clock/clocktest"
	"github.com/xmidt-org/semdemo/console"
	"github.com/xmidt-org/semdemo/gate"
	"github.com/xmidt-org/semdemo/logging"
	"github.com/xmidt-org/semdemo/semaphore"
	"github.com/xmidt-org/semdemo/semaphore/semaphoretest"
	"github.com/xmidt-org/semdemo/xerrors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// syncBuffer is an output sink that may be read while workers write to it
type syncBuffer struct {
	lock sync.Mutex
	b    bytes.Buffer
}

func (sb *syncBuffer) Write(p []byte) (int, error) {
	sb.lock.Lock()
	defer sb.lock.Unlock()
	return sb.b.Write(p)
}

func (sb *syncBuffer) String() string {
	sb.lock.Lock()
	defer sb.lock.Unlock()
	return sb.b.String()
}

func (sb *syncBuffer) lines() []string {
	return strings.Split(strings.TrimSuffix(sb.String(), "\n"), "\n")
}

// exclusive fails the test whenever two workers hold the semaphore at once
type exclusive struct {
	semaphore.Handle
	t       *testing.T
	holders int32
}

func (e *exclusive) Acquire(undo bool) error {
	err := e.Handle.Acquire(undo)
	if err == nil {
		if n := atomic.AddInt32(&e.holders, 1); n > 1 {
			e.t.Errorf("%d holders", n)
		}
	}

	return err
}

// Release drops a holder, if any.  The release that opens the gate has none.
func (e *exclusive) Release(undo bool) error {
	for {
		n := atomic.LoadInt32(&e.holders)
		if n == 0 || atomic.CompareAndSwapInt32(&e.holders, n, n-1) {
			break
		}
	}

	return e.Handle.Release(undo)
}

func runAsync(o Options) <-chan error {
	result := make(chan error, 1)
	go func() {
		result <- Run(o)
	}()

	return result
}

func awaitRun(t *testing.T, result <-chan error) error {
	select {
	case err := <-result:
		return err
	case <-time.After(10 * time.Second):
		require.FailNow(t, "run did not finish")
		return nil
	}
}

func assertLabels(t *testing.T, output *syncBuffer) {
	assert := assert.New(t)
	lines := output.lines()
	assert.Len(lines, 20)

	counts := make(map[string]int)
	for _, l := range lines {
		counts[l]++
	}

	assert.Equal(map[string]int{"Hello+++": 10, "World": 10}, counts)
}

func testRunGated(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		l      = semaphore.NewLocal()
		g      = gate.New()
		output = new(syncBuffer)
		prompt = new(syncBuffer)

		triggerReader, triggerWriter = io.Pipe()
	)

	result := runAsync(Options{
		Unit:    time.Millisecond,
		Handle:  &exclusive{Handle: l, t: t},
		Gate:    g,
		Trigger: LineTrigger(triggerReader),
		Prompt:  prompt,
		Output:  console.New(output),
		Logger:  logging.NewTestLogger(nil, t),
	})

	// both workers stay blocked until the trigger
	time.Sleep(100 * time.Millisecond)
	assert.Empty(output.String())
	assert.Equal(DefaultPrompt+"\n", prompt.String())
	assert.Zero(l.Value())
	assert.False(g.IsOpen())

	_, err := triggerWriter.Write([]byte("\n"))
	require.NoError(err)

	require.NoError(awaitRun(t, result))
	assertLabels(t, output)
	assert.True(g.IsOpen())
	assert.ErrorIs(l.SetValue(1), semaphore.ErrClosed)
}

func testRunEndOfInput(t *testing.T) {
	output := new(syncBuffer)
	err := Run(Options{
		Unit:    time.Millisecond,
		Trigger: LineTrigger(strings.NewReader("")),
		Prompt:  io.Discard,
		Output:  console.New(output),
		Logger:  logging.NewTestLogger(nil, t),
	})

	require.NoError(t, err)
	assertLabels(t, output)
}

func testRunPauses(t *testing.T) {
	var (
		assert = assert.New(t)

		c      = new(clocktest.Mock)
		output = new(syncBuffer)
	)

	c.OnSleep(time.Minute).Times(10)
	c.OnSleep(2 * time.Minute).Times(10)

	err := Run(Options{
		Unit:    time.Minute,
		Pauses:  []int{1, 2},
		Trigger: Immediate(),
		Prompt:  io.Discard,
		Output:  console.New(output),
		Clock:   c,
		Logger:  zap.NewNop(),
	})

	assert.NoError(err)
	assertLabels(t, output)
	c.AssertExpectations(t)
}

func testRunBrackets(t *testing.T) {
	var (
		assert = assert.New(t)

		h      = new(semaphoretest.MockHandle)
		output = new(syncBuffer)
	)

	h.OnSetValue(0, nil).Once()
	h.OnAcquire(false, nil).Times(20)
	h.OnRelease(false, nil).Times(21)
	h.OnDestroy(nil).Once()

	err := Run(Options{
		Handle:  h,
		Trigger: Immediate(),
		Prompt:  io.Discard,
		Output:  console.New(output),
		Clock:   clock.SleepFunc(nil),
		Logger:  zap.NewNop(),
	})

	assert.NoError(err)
	assertLabels(t, output)
	h.AssertExpectations(t)
}

func testRunSetValueFailure(t *testing.T) {
	var (
		assert = assert.New(t)

		expectedErr = errors.New("expected")
		h           = new(semaphoretest.MockHandle)
		prompt      = new(syncBuffer)
		triggered   = false
	)

	h.OnSetValue(0, expectedErr).Once()
	err := Run(Options{
		Handle:  h,
		Trigger: TriggerFunc(func() error { triggered = true; return nil }),
		Prompt:  prompt,
		Logger:  zap.NewNop(),
	})

	assert.ErrorIs(err, expectedErr)
	assert.ErrorIs(err, &xerrors.Error{Op: xerrors.OpSetValue, Peer: xerrors.NoPeer})
	assert.False(triggered)
	assert.Empty(prompt.String())
	h.AssertExpectations(t)
}

func testRunAcquireFailure(t *testing.T) {
	var (
		assert = assert.New(t)

		expectedErr = errors.New("expected")
		h           = new(semaphoretest.MockHandle)
		output      = new(syncBuffer)
	)

	h.OnSetValue(0, nil).Once()
	h.OnAcquire(false, expectedErr).Twice()
	h.OnRelease(false, nil).Once()
	h.OnDestroy(nil).Once()

	err := Run(Options{
		Handle:  h,
		Trigger: Immediate(),
		Prompt:  io.Discard,
		Output:  console.New(output),
		Clock:   clock.SleepFunc(nil),
		Logger:  zap.NewNop(),
	})

	assert.ErrorIs(err, expectedErr)
	assert.ErrorIs(err, &xerrors.Error{Op: xerrors.OpAcquire, Peer: 0})
	assert.ErrorIs(err, &xerrors.Error{Op: xerrors.OpAcquire, Peer: 1})
	assert.Empty(output.String())
	h.AssertExpectations(t)
}

func testRunTriggerFailure(t *testing.T) {
	var (
		assert = assert.New(t)

		output       = new(syncBuffer)
		logger, logs = logging.NewCaptureLogger(zapcore.WarnLevel)
	)

	err := Run(Options{
		Unit:    time.Millisecond,
		Trigger: TriggerFunc(func() error { return errors.New("expected") }),
		Prompt:  io.Discard,
		Output:  console.New(output),
		Logger:  logger,
	})

	assert.NoError(err)
	assertLabels(t, output)
	assert.Equal(1, logs.FilterMessage("trigger failed, starting anyway").Len())
}

func testRunInstrumented(t *testing.T) {
	var (
		assert = assert.New(t)

		resources    = generic.NewGauge("resources")
		failures     = generic.NewCounter("failures")
		openings     = generic.NewCounter("openings")
		output       = new(syncBuffer)
		logger, logs = logging.NewCaptureLogger(zapcore.InfoLevel)
	)

	err := Run(Options{
		Unit:    time.Millisecond,
		Gate:    gate.New(gate.WithOpenings(openings)),
		Trigger: Immediate(),
		Prompt:  io.Discard,
		Output:  console.New(output),
		Instrument: []semaphore.InstrumentOption{
			semaphore.WithResources(resources),
			semaphore.WithFailures(failures),
		},
		Logger: logger,
	})

	assert.NoError(err)
	assertLabels(t, output)
	assert.Equal(1, logs.FilterMessage("gate opened").Len())

	// every bracket is balanced, and the opening release is counted by the gate alone
	assert.Zero(resources.Value())
	assert.Zero(failures.Value())
	assert.Equal(1.0, openings.Value())
}

func testRunStallWarning(t *testing.T) {
	var (
		assert = assert.New(t)

		hold         = make(chan struct{})
		output       = new(syncBuffer)
		logger, logs = logging.NewCaptureLogger(zapcore.WarnLevel)
	)

	result := runAsync(Options{
		Unit:         time.Millisecond,
		StallWarning: 20 * time.Millisecond,
		Trigger:      Immediate(),
		Prompt:       io.Discard,
		Output:       console.New(output),
		Clock:        clock.SleepFunc(func(time.Duration) { <-hold }),
		Logger:       logger,
	})

	deadline := time.Now().Add(5 * time.Second)
	for logs.FilterMessageSnippet("still running").Len() == 0 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}

	// the warning only reports; the workers finish once they are let go
	close(hold)
	assert.NoError(awaitRun(t, result))
	assertLabels(t, output)

	stalled := logs.FilterMessageSnippet("still running").All()
	if assert.Len(stalled, 1) {
		assert.Equal(20*time.Millisecond, stalled[0].ContextMap()["after"])
	}
}

func testRunDefaultStallWarning(t *testing.T) {
	o := Options{Unit: time.Second, Pauses: []int{1, 3}}
	o.defaults()
	assert.Equal(t, 61*time.Second, o.StallWarning)
}

func TestRun(t *testing.T) {
	t.Run("Gated", testRunGated)
	t.Run("EndOfInput", testRunEndOfInput)
	t.Run("Pauses", testRunPauses)
	t.Run("Brackets", testRunBrackets)
	t.Run("SetValueFailure", testRunSetValueFailure)
	t.Run("AcquireFailure", testRunAcquireFailure)
	t.Run("TriggerFailure", testRunTriggerFailure)
	t.Run("Instrumented", testRunInstrumented)
	t.Run("StallWarning", testRunStallWarning)
	t.Run("DefaultStallWarning", testRunDefaultStallWarning)
}
