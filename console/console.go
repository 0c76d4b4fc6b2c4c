// Package console provides the shared output channel that coordinated execution contexts print to.
//
// Observed interleaving must reflect real scheduling order, so a Writer flushes after every write.
// A Writer also delivers each individual write to the underlying writer whole, which is what the
// kernel guarantees for small writes to a terminal or pipe.  Exclusion across several writes is the
// caller's job.
package console

import (
	"io"
	"os"
	"sync"
)

// Flusher is implemented by buffered writers, e.g. bufio.Writer
type Flusher interface {
	Flush() error
}

// Writer is a flush-on-write output channel.  It is safe for concurrent use.
type Writer struct {
	lock sync.Mutex
	w    io.Writer
}

var (
	_ io.Writer     = (*Writer)(nil)
	_ io.ByteWriter = (*Writer)(nil)
)

// New wraps w.  If w is a Flusher, it is flushed after every write.  An *os.File is unbuffered,
// so writes to one reach the descriptor immediately.
func New(w io.Writer) *Writer {
	return &Writer{w: w}
}

// Stdout returns a Writer for the process's standard output
func Stdout() *Writer {
	return New(os.Stdout)
}

func (w *Writer) Write(p []byte) (int, error) {
	w.lock.Lock()
	defer w.lock.Unlock()

	n, err := w.w.Write(p)
	if err != nil {
		return n, err
	}

	if f, ok := w.w.(Flusher); ok {
		err = f.Flush()
	}

	return n, err
}

// WriteByte writes and flushes a single byte
func (w *Writer) WriteByte(c byte) error {
	_, err := w.Write([]byte{c})
	return err
}

// WriteLine writes s followed by a newline as a single write
func (w *Writer) WriteLine(s string) error {
	_, err := w.Write(append([]byte(s), '\n'))
	return err
}
