package processcoord

import (
	"errors"
	"io"

	"github.com/vmihailenco/msgpack/v5"
	"github.com/xmidt-org/semdemo/xerrors"
)

// Report is the summary a child peer hands its parent before exiting.  The exit status stays
// authoritative; the report adds what the status cannot carry.
type Report struct {
	Peer     int    `msgpack:"peer"`
	Printed  int    `msgpack:"printed"`
	Op       string `msgpack:"op,omitempty"`
	Message  string `msgpack:"message,omitempty"`
	ExitCode int    `msgpack:"exitCode"`
}

// Metadata describes the report in log entries
func (r Report) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"peer":     r.Peer,
		"printed":  r.Printed,
		"op":       r.Op,
		"exitCode": r.ExitCode,
	}
}

// NewReport summarizes the outcome of a peer's run
func NewReport(peer Peer, printed int, err error) Report {
	r := Report{
		Peer:     peer.Index,
		Printed:  printed,
		ExitCode: ExitCode(err),
	}

	if err != nil {
		r.Message = err.Error()
		if op, ok := xerrors.OpOf(err); ok {
			r.Op = op.String()
		}
	}

	return r
}

// WriteReport encodes a Report onto w
func WriteReport(w io.Writer, r Report) error {
	return msgpack.NewEncoder(w).Encode(&r)
}

// ReadReport decodes a Report from r.  A stream that ends before any report was written yields a
// nil Report and a nil error.
func ReadReport(r io.Reader) (*Report, error) {
	var report Report
	if err := msgpack.NewDecoder(r).Decode(&report); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}

		return nil, err
	}

	return &report, nil
}
