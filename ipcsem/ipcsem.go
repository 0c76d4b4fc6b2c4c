package ipcsem

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/xmidt-org/semdemo/semaphore"
)

// Key is the system-wide identifier of a semaphore set
type Key int32

const (
	// DefaultKey is the key used when none is configured
	DefaultKey Key = 0x1111

	// Private requests a new semaphore set reachable only through its identifier (IPC_PRIVATE).
	Private Key = 0
)

var (
	// ErrUnsupported is returned on platforms without System V semaphores
	ErrUnsupported = errors.New("System V semaphores are not supported on this platform")

	// ErrDestroyed is returned when operating on a semaphore this handle already destroyed
	ErrDestroyed = errors.New("the semaphore has been destroyed")
)

func (k Key) String() string {
	return fmt.Sprintf("%#x", uint32(k))
}

// ParseKey parses a key in any base accepted by strconv with a base of zero, e.g. "0x1111" or "4369".
// Values up to 0xffffffff are accepted and reinterpreted as a signed key.
func ParseKey(s string) (Key, error) {
	if v, err := strconv.ParseInt(s, 0, 32); err == nil {
		return Key(v), nil
	}

	v, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid semaphore key %q: %w", s, err)
	}

	return Key(int32(uint32(v))), nil
}

// Semaphore is a single kernel semaphore, the only member of its set.  The zero value is not usable;
// obtain instances through Create.
type Semaphore struct {
	key       Key
	id        int
	destroyed bool
}

var _ semaphore.Handle = (*Semaphore)(nil)

// Create creates the semaphore set at key if it does not exist, otherwise attaches to the existing
// set.  Creation does not establish a count; one context must call SetValue before any acquire.
func Create(key Key) (*Semaphore, error) {
	id, err := semget(key)
	if err != nil {
		return nil, fmt.Errorf("semget %s: %w", key, err)
	}

	return &Semaphore{key: key, id: id}, nil
}

// Key returns the key this semaphore was created with
func (s *Semaphore) Key() Key {
	return s.key
}

// ID returns the kernel identifier of the semaphore set
func (s *Semaphore) ID() int {
	return s.id
}

func (s *Semaphore) String() string {
	return fmt.Sprintf("ipcsem(key=%s, id=%d)", s.key, s.id)
}

func (s *Semaphore) check() error {
	if s.destroyed {
		return ErrDestroyed
	}

	return nil
}

// SetValue sets the count unconditionally
func (s *Semaphore) SetValue(v int) error {
	if v < 0 {
		return semaphore.ErrNegativeValue
	}

	if err := s.check(); err != nil {
		return err
	}

	if err := semsetval(s.id, v); err != nil {
		return fmt.Errorf("semctl SETVAL %d: %w", v, err)
	}

	return nil
}

// Value returns the current count
func (s *Semaphore) Value() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	v, err := semgetval(s.id)
	if err != nil {
		return 0, fmt.Errorf("semctl GETVAL: %w", err)
	}

	return v, nil
}

// Waiters returns the number of processes currently blocked waiting for the count to increase
func (s *Semaphore) Waiters() (int, error) {
	if err := s.check(); err != nil {
		return 0, err
	}

	n, err := semgetncnt(s.id)
	if err != nil {
		return 0, fmt.Errorf("semctl GETNCNT: %w", err)
	}

	return n, nil
}

// Acquire blocks until the count is positive, then decrements it.  With undo, the kernel records
// a compensating +1 that it applies if this process exits before a matching Release with undo.
func (s *Semaphore) Acquire(undo bool) error {
	if err := s.check(); err != nil {
		return err
	}

	if err := semop(s.id, -1, undo); err != nil {
		return fmt.Errorf("semop -1: %w", err)
	}

	return nil
}

// Release increments the count.  With undo, the kernel records a compensating -1, which cancels
// the adjustment recorded by the matching Acquire.
func (s *Semaphore) Release(undo bool) error {
	if err := s.check(); err != nil {
		return err
	}

	if err := semop(s.id, 1, undo); err != nil {
		return fmt.Errorf("semop +1: %w", err)
	}

	return nil
}

// Destroy removes the semaphore set from the system.  Processes blocked on it are woken with EIDRM.
func (s *Semaphore) Destroy() error {
	if err := s.check(); err != nil {
		return err
	}

	if err := semrm(s.id); err != nil {
		return fmt.Errorf("semctl IPC_RMID: %w", err)
	}

	s.destroyed = true
	return nil
}
