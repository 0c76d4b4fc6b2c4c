// Package jitter supplies the randomized pauses execution contexts take around their critical
// sections.  Sources are owned by a single context and injected into the protocol that sleeps,
// which lets tests force a specific interleaving.
package jitter

import (
	"hash/fnv"
	"math/rand"
	"sync"
	"time"
)

// DefaultSpread is the number of distinct unit multiples a Seeded source draws from:  0 or 1 unit.
const DefaultSpread = 2

// Source produces successive pause durations
type Source interface {
	Next() time.Duration
}

// SourceFunc is a function type that implements Source
type SourceFunc func() time.Duration

func (sf SourceFunc) Next() time.Duration {
	return sf()
}

type seeded struct {
	lock   sync.Mutex
	r      *rand.Rand
	unit   time.Duration
	spread int
}

// Seed derives a deterministic seed from an execution context's identity
func Seed(identity string) int64 {
	h := fnv.New64a()
	h.Write([]byte(identity))
	return int64(h.Sum64())
}

// Seeded returns a pseudo-random Source seeded from identity.  Each call to Next yields
// unit multiplied by a value in [0, spread).  A nonpositive spread means DefaultSpread.
//
// Two sources built from the same identity produce the same sequence.
func Seeded(identity string, unit time.Duration, spread int) Source {
	if spread < 1 {
		spread = DefaultSpread
	}

	return &seeded{
		r:      rand.New(rand.NewSource(Seed(identity))),
		unit:   unit,
		spread: spread,
	}
}

func (s *seeded) Next() time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.unit * time.Duration(s.r.Intn(s.spread))
}

type sequence struct {
	lock sync.Mutex
	d    []time.Duration
	next int
}

// Sequence returns a Source that yields the given durations in order, starting over once they are
// exhausted.  With no durations, the Source always yields zero.
func Sequence(d ...time.Duration) Source {
	return &sequence{d: append([]time.Duration(nil), d...)}
}

func (s *sequence) Next() time.Duration {
	s.lock.Lock()
	defer s.lock.Unlock()

	if len(s.d) == 0 {
		return 0
	}

	v := s.d[s.next]
	s.next = (s.next + 1) % len(s.d)
	return v
}

// None returns a Source that never pauses
func None() Source {
	return SourceFunc(func() time.Duration { return 0 })
}
