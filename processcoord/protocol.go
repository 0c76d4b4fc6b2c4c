package processcoord

import (
	"github.com/xmidt-org/semdemo/clock"
	"github.com/xmidt-org/semdemo/console"
	"github.com/xmidt-org/semdemo/jitter"
	"github.com/xmidt-org/semdemo/semaphore"
	"github.com/xmidt-org/semdemo/xerrors"
	"go.uber.org/zap"
)

// Protocol holds the resources one peer owns while it prints
type Protocol struct {
	Handle semaphore.Handle
	Output *console.Writer
	Clock  clock.Interface
	Jitter jitter.Source
	Logger *zap.Logger
}

func (p Protocol) print(c byte) {
	if err := p.Output.WriteByte(c); err != nil {
		p.Logger.Warn("unable to write output", zap.Error(err))
	}
}

// Run prints each letter of the peer's string twice inside one acquire/release bracket.  The
// returned count is the number of letters whose bracket completed.  Any semaphore failure stops the
// run and is returned as an *xerrors.Error.
func (p Protocol) Run(peer Peer) (int, error) {
	for i := 0; i < len(peer.Letters); i++ {
		c := peer.Letters[i]
		if err := p.Handle.Acquire(true); err != nil {
			return i, xerrors.New(xerrors.OpAcquire, peer.Index, err)
		}

		p.print(c)
		p.Clock.Sleep(p.Jitter.Next())
		p.print(c)

		if err := p.Handle.Release(true); err != nil {
			return i, xerrors.New(xerrors.OpRelease, peer.Index, err)
		}

		p.Clock.Sleep(p.Jitter.Next())
	}

	return len(peer.Letters), nil
}
