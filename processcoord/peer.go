package processcoord

import (
	"fmt"
	"os"
	"strconv"
)

const (
	// PeerEnv carries the index of the peer a re-executed process must run
	PeerEnv = "SEMDEMO_PEER"

	// RunEnv carries the run identifier shared by every peer of one run
	RunEnv = "SEMDEMO_RUN"

	// ReportEnv carries the descriptor a child writes its Report to
	ReportEnv = "SEMDEMO_REPORT_FD"
)

// Peer is the identity of one coordinated context
type Peer struct {
	// Index is the position of the peer.  Peer 0 is the parent.
	Index int

	// Letters is the string this peer prints, each letter twice
	Letters string
}

// Metadata describes the peer in log entries
func (p Peer) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"peer":    p.Index,
		"letters": p.Letters,
	}
}

func (p Peer) String() string {
	return fmt.Sprintf("peer %d (%s)", p.Index, p.Letters)
}

// DefaultPeers are the two peers of a run
var DefaultPeers = [2]Peer{
	{Index: 0, Letters: "abcdefgh"},
	{Index: 1, Letters: "ABCDEFGH"},
}

// PeerFromEnv returns the peer index assigned to this process by its parent.  The second
// return is false when the process was not spawned as a peer, i.e. it is the parent.
func PeerFromEnv() (int, bool, error) {
	v, ok := os.LookupEnv(PeerEnv)
	if !ok || len(v) == 0 {
		return 0, false, nil
	}

	index, err := strconv.Atoi(v)
	if err != nil || index < 1 || index >= len(DefaultPeers) {
		return 0, true, fmt.Errorf("invalid %s value %q", PeerEnv, v)
	}

	return index, true, nil
}
