// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"errors"
	"io"
	"sync/atomic"
)

// ErrClosed is returned by a Closeable once Close has been called
var ErrClosed = errors.New("the semaphore has been closed")

// Closeable is a semaphore that can be shut down exactly once.  Goroutines blocked in Acquire when
// Close is called receive ErrClosed, and so does every later Acquire or Release.  A second Close
// also returns ErrClosed.
type Closeable interface {
	io.Closer
	Interface

	// Closed returns a channel that is closed along with the semaphore, in the manner of context.Done
	Closed() <-chan struct{}
}

// New constructs a semaphore with the given initial count.  A negative count, or a count
// larger than the configured capacity, will result in a panic.  Unless WithCapacity is supplied,
// the capacity equals the initial count (or 1, for a zero count).
func New(count int, o ...Option) Closeable {
	cfg := newConfig(count, o)
	return &closeable{
		tokens: newTokens(count, cfg.capacity),
		closed: make(chan struct{}),
	}
}

// Gate is New(0, o...).  Every acquirer blocks until the first Release.
func Gate(o ...Option) Closeable {
	return New(0, o...)
}

type closeable struct {
	tokens chan struct{}
	shut   atomic.Bool
	closed chan struct{}
}

func (cs *closeable) Close() error {
	if !cs.shut.CompareAndSwap(false, true) {
		return ErrClosed
	}

	close(cs.closed)
	return nil
}

func (cs *closeable) Closed() <-chan struct{} {
	return cs.closed
}

// Acquire drops a token received after Close, since nothing may use the semaphore again
func (cs *closeable) Acquire() error {
	if cs.shut.Load() {
		return ErrClosed
	}

	select {
	case <-cs.tokens:
		if cs.shut.Load() {
			return ErrClosed
		}

		return nil

	case <-cs.closed:
		return ErrClosed
	}
}

func (cs *closeable) Release() error {
	if cs.shut.Load() {
		return ErrClosed
	}

	select {
	case cs.tokens <- struct{}{}:
		return nil
	default:
		return ErrOverflow
	}
}

func (cs *closeable) Count() int {
	return len(cs.tokens)
}
