package processcoord

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xmidt-org/semdemo/clock"
	"github.com/xmidt-org/semdemo/console"
	"github.com/xmidt-org/semdemo/jitter"
	"github.com/xmidt-org/semdemo/semaphore"
	"github.com/xmidt-org/semdemo/semaphore/semaphoretest"
	"github.com/xmidt-org/semdemo/xerrors"
	"go.uber.org/zap"
)

// undoIgnored lets the in-process semaphore stand in for the kernel one in tests
type undoIgnored struct {
	*semaphore.Local
}

func (u undoIgnored) Acquire(bool) error { return u.Local.Acquire(false) }
func (u undoIgnored) Release(bool) error { return u.Local.Release(false) }

// syncBuffer is an output sink that may be read while peers write to it
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

// contiguous reports whether every letter's two prints are adjacent
func contiguous(output string) bool {
	body := strings.TrimSuffix(output, "\n")
	if len(body)%2 != 0 {
		return false
	}

	for i := 0; i < len(body); i += 2 {
		if body[i] != body[i+1] {
			return false
		}
	}

	return true
}

// assertComplete verifies that every letter of both peers was printed exactly twice, followed by one newline
func assertComplete(t *testing.T, output string) {
	assert := assert.New(t)
	if !assert.Len(output, 33) {
		return
	}

	assert.Equal(byte('\n'), output[32])
	for _, p := range DefaultPeers {
		for _, c := range p.Letters {
			assert.Equal(2, strings.Count(output, string(c)), "letter %c", c)
		}
	}
}

func testProtocolRun(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		l      = semaphore.NewLocal()
		output bytes.Buffer
		slept  []time.Duration
	)

	require.NoError(l.SetValue(1))
	p := Protocol{
		Handle: undoIgnored{l},
		Output: console.New(&output),
		Clock:  clock.SleepFunc(func(d time.Duration) { slept = append(slept, d) }),
		Jitter: jitter.Sequence(1, 2),
		Logger: zap.NewNop(),
	}

	printed, err := p.Run(DefaultPeers[0])
	require.NoError(err)
	assert.Equal(8, printed)
	assert.Equal("aabbccddeeffgghh", output.String())
	assert.Equal(1, l.Value())

	require.Len(slept, 16)
	for i, d := range slept {
		assert.Equal(time.Duration(1+i%2), d)
	}
}

func testProtocolAcquireFailure(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expectedErr = errors.New("expected")
		h           = new(semaphoretest.MockHandle)
		output      bytes.Buffer
	)

	h.OnAcquire(true, nil).Twice()
	h.OnRelease(true, nil).Twice()
	h.OnAcquire(true, expectedErr).Once()

	p := Protocol{
		Handle: h,
		Output: console.New(&output),
		Clock:  clock.SleepFunc(nil),
		Jitter: jitter.None(),
		Logger: zap.NewNop(),
	}

	printed, err := p.Run(DefaultPeers[1])
	require.Error(err)
	assert.Equal(2, printed)
	assert.Equal("AABB", output.String())
	assert.ErrorIs(err, expectedErr)
	assert.ErrorIs(err, &xerrors.Error{Op: xerrors.OpAcquire, Peer: 1})
	assert.Equal(15, ExitCode(err))
	h.AssertExpectations(t)
}

func testProtocolReleaseFailure(t *testing.T) {
	var (
		assert  = assert.New(t)
		require = require.New(t)

		expectedErr = errors.New("expected")
		h           = new(semaphoretest.MockHandle)
		output      bytes.Buffer
	)

	h.OnAcquire(true, nil).Once()
	h.OnRelease(true, expectedErr).Once()

	p := Protocol{
		Handle: h,
		Output: console.New(&output),
		Clock:  clock.SleepFunc(nil),
		Jitter: jitter.None(),
		Logger: zap.NewNop(),
	}

	printed, err := p.Run(DefaultPeers[0])
	require.Error(err)
	assert.Zero(printed)
	assert.Equal("aa", output.String())
	assert.ErrorIs(err, &xerrors.Error{Op: xerrors.OpRelease, Peer: 0})
	assert.Equal(14, ExitCode(err))
	h.AssertExpectations(t)
}

func TestProtocol(t *testing.T) {
	t.Run("Run", testProtocolRun)
	t.Run("AcquireFailure", testProtocolAcquireFailure)
	t.Run("ReleaseFailure", testProtocolReleaseFailure)
}
