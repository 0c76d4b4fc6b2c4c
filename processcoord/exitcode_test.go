package processcoord

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/xmidt-org/semdemo/xerrors"
)

func TestExitCode(t *testing.T) {
	cause := errors.New("cause")
	for _, record := range []struct {
		name     string
		err      error
		expected int
	}{
		{"Success", nil, ExitSuccess},
		{"Spawn", xerrors.New(xerrors.OpSpawn, 1, cause), 1},
		{"Create", xerrors.New(xerrors.OpCreate, xerrors.NoPeer, cause), 11},
		{"CreateInChild", xerrors.New(xerrors.OpCreate, 1, cause), 11},
		{"SetValue", xerrors.New(xerrors.OpSetValue, xerrors.NoPeer, cause), 12},
		{"AcquirePeer0", xerrors.New(xerrors.OpAcquire, 0, cause), 13},
		{"ReleasePeer0", xerrors.New(xerrors.OpRelease, 0, cause), 14},
		{"AcquirePeer1", xerrors.New(xerrors.OpAcquire, 1, cause), 15},
		{"ReleasePeer1", xerrors.New(xerrors.OpRelease, 1, cause), 16},
		{"Wrapped", fmt.Errorf("wrapped: %w", xerrors.New(xerrors.OpAcquire, 1, cause)), 15},
		{"PeerExit", &PeerExitError{Peer: 1, Code: 16}, 16},
		{"Unclassified", cause, ExitUsage},
	} {
		t.Run(record.name, func(t *testing.T) {
			assert.Equal(t, record.expected, ExitCode(record.err))
		})
	}
}

func TestPeerExitError(t *testing.T) {
	assert := assert.New(t)

	assert.Equal("peer 1 exited with status 15", (&PeerExitError{Peer: 1, Code: 15}).Error())
	assert.Equal(
		"peer 1 exited with status 15: peer 1: acquire: EINVAL",
		(&PeerExitError{Peer: 1, Code: 15, Report: &Report{Message: "peer 1: acquire: EINVAL"}}).Error(),
	)
}
