//go:build !semoff

package processcoord

// Synchronized reports whether this binary brackets its prints with the semaphore.  Building with
// the semoff tag produces the unsynchronized baseline.
const Synchronized = true
