// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package semaphore

import (
	"errors"
)

const (
	// DefaultCapacity is the largest count a semaphore may reach when no capacity is configured.
	// It matches the SEMVMX limit of System V semaphores.
	DefaultCapacity = 32767
)

// ErrOverflow is returned by Release when the semaphore already holds as many tokens as its capacity.
// Release never blocks, so an overflowing release is reported instead.
var ErrOverflow = errors.New("the semaphore is at capacity")

// Interface represents a counting semaphore.  When Acquire is successful, Release *must* be called
// to return the resource to the semaphore.
type Interface interface {
	// Acquire blocks until a resource is available, then takes it.  Closeable semaphores can
	// return an error instead.
	Acquire() error

	// Release returns a resource to the semaphore, waking at most one blocked acquirer.  This method
	// never blocks.  If the semaphore is already at capacity, ErrOverflow is returned.
	Release() error

	// Count returns the number of resources currently available.  The value is a snapshot and
	// may be stale by the time it is examined.
	Count() int
}

// Option configures the construction of a semaphore
type Option func(*config)

type config struct {
	capacity int
}

// WithCapacity sets the maximum count the semaphore can reach.  A nonpositive value
// leaves the default in place.
func WithCapacity(c int) Option {
	return func(cfg *config) {
		if c > 0 {
			cfg.capacity = c
		}
	}
}

func newConfig(count int, o []Option) config {
	if count < 0 {
		panic("The count cannot be negative")
	}

	cfg := config{capacity: count}
	if cfg.capacity < 1 {
		cfg.capacity = 1
	}

	for _, f := range o {
		f(&cfg)
	}

	if cfg.capacity < count {
		panic("The capacity cannot be less than the initial count")
	}

	return cfg
}

// newTokens creates the token channel, preloaded with count tokens
func newTokens(count, capacity int) chan struct{} {
	tokens := make(chan struct{}, capacity)
	for i := 0; i < count; i++ {
		tokens <- struct{}{}
	}

	return tokens
}
