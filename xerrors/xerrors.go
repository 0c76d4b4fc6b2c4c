// Package xerrors defines the failure taxonomy of the coordination protocols.  Every failure is
// attributed to the primitive operation that produced it and, where one applies, to the peer
// execution context that was running it.
package xerrors

import (
	"errors"
	"fmt"
)

// Op identifies the primitive operation that failed
type Op int

const (
	// OpSpawn is the duplication of an execution context (SpawnError)
	OpSpawn Op = iota + 1

	// OpCreate is the creation of, or attachment to, a semaphore (ResourceCreationError)
	OpCreate

	// OpSetValue is the initialization of a semaphore's count (StateInitError)
	OpSetValue

	// OpAcquire is a blocking decrement (AcquireError)
	OpAcquire

	// OpRelease is an increment (ReleaseError)
	OpRelease
)

// NoPeer is the Peer value for failures not tied to a particular peer context
const NoPeer = -1

var opNames = map[Op]string{
	OpSpawn:    "spawn",
	OpCreate:   "create",
	OpSetValue: "setvalue",
	OpAcquire:  "acquire",
	OpRelease:  "release",
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}

	return fmt.Sprintf("Op(%d)", int(op))
}

// Error is a fatal protocol failure
type Error struct {
	// Op is the operation that failed
	Op Op

	// Peer is the index of the peer context that failed, or NoPeer
	Peer int

	// Err is the underlying cause
	Err error
}

// New creates an Error.  A nil cause results in a nil error.
func New(op Op, peer int, err error) error {
	if err == nil {
		return nil
	}

	return &Error{Op: op, Peer: peer, Err: err}
}

func (e *Error) Error() string {
	if e.Peer == NoPeer {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}

	return fmt.Sprintf("peer %d: %s: %v", e.Peer, e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error with the same Op and Peer, which allows errors.Is(err, &Error{Op: OpAcquire, Peer: 1}).
// A nil Err on the target matches any cause.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return t.Op == e.Op && t.Peer == e.Peer && (t.Err == nil || errors.Is(e.Err, t.Err))
}

// OpOf returns the Op of the first *Error in err's chain, or zero if there is none
func OpOf(err error) (Op, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e.Op, true
	}

	return 0, false
}
