package processcoord

import (
	"errors"
	"fmt"

	"github.com/xmidt-org/semdemo/xerrors"
)

// Exit statuses.  Acquire and release failures are offset by two for each peer index, so
// peer 0 uses 13 and 14 while peer 1 uses 15 and 16.
const (
	ExitSuccess  = 0
	ExitSpawn    = 1
	ExitUsage    = 2
	ExitCreate   = 11
	ExitSetValue = 12
	ExitAcquire  = 13
	ExitRelease  = 14
)

// PeerExitError reports that a spawned peer exited unsuccessfully
type PeerExitError struct {
	// Peer is the index of the peer
	Peer int

	// Code is the peer's exit status.  A peer killed by a signal has 128 plus the signal number.
	Code int

	// Report is what the peer said about its run, if it said anything
	Report *Report
}

func (e *PeerExitError) Error() string {
	if e.Report != nil && len(e.Report.Message) > 0 {
		return fmt.Sprintf("peer %d exited with status %d: %s", e.Peer, e.Code, e.Report.Message)
	}

	return fmt.Sprintf("peer %d exited with status %d", e.Peer, e.Code)
}

// ExitCode maps an error from a coordinator to the process exit status.  A nil error is ExitSuccess.
// Errors outside the failure taxonomy map to ExitUsage.
func ExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}

	var pe *PeerExitError
	if errors.As(err, &pe) {
		return pe.Code
	}

	var xe *xerrors.Error
	if !errors.As(err, &xe) {
		return ExitUsage
	}

	peer := xe.Peer
	if peer < 0 {
		peer = 0
	}

	switch xe.Op {
	case xerrors.OpSpawn:
		return ExitSpawn
	case xerrors.OpCreate:
		return ExitCreate
	case xerrors.OpSetValue:
		return ExitSetValue
	case xerrors.OpAcquire:
		return ExitAcquire + 2*peer
	case xerrors.OpRelease:
		return ExitRelease + 2*peer
	default:
		return ExitUsage
	}
}
