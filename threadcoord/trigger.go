package threadcoord

import (
	"bufio"
	"errors"
	"io"
)

// Trigger blocks until the external event that starts the workers
type Trigger interface {
	Wait() error
}

// TriggerFunc is a function type that implements Trigger
type TriggerFunc func() error

func (tf TriggerFunc) Wait() error {
	return tf()
}

// LineTrigger fires once a line, or the end of input, is read from r
func LineTrigger(r io.Reader) Trigger {
	br := bufio.NewReader(r)
	return TriggerFunc(func() error {
		_, err := br.ReadString('\n')
		if errors.Is(err, io.EOF) {
			return nil
		}

		return err
	})
}

// Immediate is a Trigger that never blocks
func Immediate() Trigger {
	return TriggerFunc(func() error { return nil })
}
