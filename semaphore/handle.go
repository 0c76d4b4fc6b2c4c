package semaphore

import (
	"errors"
	"sync"
)

var (
	// ErrUndoUnsupported is returned when rollback registration is requested from a semaphore that
	// cannot revert adjustments on behalf of a context that terminates abnormally.
	ErrUndoUnsupported = errors.New("the semaphore does not support undo registration")

	// ErrNegativeValue is returned by SetValue when the requested count is negative
	ErrNegativeValue = errors.New("a semaphore count cannot be negative")
)

// Handle is the lifecycle view of a counting semaphore shared by a fixed set of execution contexts.
//
// SetValue must run before any participant calls Acquire.  That ordering is a precondition of the
// protocol and is not enforced.  Destroy must only be called once no context is, or will be, blocked
// in Acquire.
//
// The undo flag requests rollback registration:  if the context dies between an Acquire and its
// matching Release, the owning runtime reverts the adjustment.  Undo must be requested symmetrically,
// on both halves of a bracket.  A Release without undo following an Acquire with undo leaves a pending
// rollback that is applied when the context exits, which double counts the release.
type Handle interface {
	// SetValue establishes the count.  Calling it again resets the count unconditionally.
	SetValue(int) error

	// Acquire blocks while the count is zero, then decrements it.
	Acquire(undo bool) error

	// Release increments the count, waking at most one blocked acquirer.  It never blocks.
	Release(undo bool) error

	// Destroy removes the semaphore.
	Destroy() error
}

// Local is the in-process Handle, shared by goroutines through a pointer.  It has no rollback
// capability:  a goroutine that exits while holding a token never returns it, and peers blocked on
// the semaphore stay blocked.  Requesting undo results in ErrUndoUnsupported.
//
// A new Local has a count of zero until SetValue is called.
type Local struct {
	lock     sync.RWMutex
	s        Closeable
	capacity int
}

var _ Handle = (*Local)(nil)

// NewLocal creates an in-process Handle.  The only option honored is WithCapacity, which
// defaults to DefaultCapacity.
func NewLocal(o ...Option) *Local {
	cfg := config{capacity: DefaultCapacity}
	for _, f := range o {
		f(&cfg)
	}

	return &Local{
		s:        Gate(WithCapacity(cfg.capacity)),
		capacity: cfg.capacity,
	}
}

func (l *Local) current() Closeable {
	l.lock.RLock()
	defer l.lock.RUnlock()
	return l.s
}

func (l *Local) SetValue(v int) error {
	if v < 0 {
		return ErrNegativeValue
	}

	if v > l.capacity {
		return ErrOverflow
	}

	l.lock.Lock()
	defer l.lock.Unlock()

	if l.s != nil {
		select {
		case <-l.s.Closed():
			return ErrClosed
		default:
		}
	}

	l.s = New(v, WithCapacity(l.capacity))
	return nil
}

func (l *Local) Acquire(undo bool) error {
	if undo {
		return ErrUndoUnsupported
	}

	return l.current().Acquire()
}

func (l *Local) Release(undo bool) error {
	if undo {
		return ErrUndoUnsupported
	}

	return l.current().Release()
}

// Destroy closes the semaphore.  Any goroutine still blocked in Acquire receives ErrClosed,
// although callers must not rely on that.
func (l *Local) Destroy() error {
	return l.current().Close()
}

// Value returns a snapshot of the current count
func (l *Local) Value() int {
	return l.current().Count()
}

// unsynchronized forwards lifecycle calls and drops acquire and release
type unsynchronized struct {
	next Handle
}

// Unsynchronized decorates a Handle so that Acquire and Release do nothing.  SetValue and Destroy
// still reach the decorated Handle, so creation and cleanup behave as in a synchronized run.
// A nil Handle produces a Handle on which every operation is a no-op.
//
// The result is the unsynchronized baseline, useful to show what the semaphore prevents.
func Unsynchronized(next Handle) Handle {
	return unsynchronized{next: next}
}

func (u unsynchronized) SetValue(v int) error {
	if u.next != nil {
		return u.next.SetValue(v)
	}

	return nil
}

func (u unsynchronized) Acquire(bool) error {
	return nil
}

func (u unsynchronized) Release(bool) error {
	return nil
}

func (u unsynchronized) Destroy() error {
	if u.next != nil {
		return u.next.Destroy()
	}

	return nil
}
