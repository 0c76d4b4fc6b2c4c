// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"time"
)

// Waiter is anything that blocks in Wait until some set of work is done, e.g. a sync.WaitGroup
type Waiter interface {
	Wait()
}

// WaitTimeout performs a timed wait.  It returns true if Wait returned within the timeout.
// On a timeout, the goroutine blocked in Wait is left to finish on its own.
func WaitTimeout(w Waiter, timeout time.Duration) bool {
	success := make(chan struct{})
	go func() {
		defer close(success)
		w.Wait()
	}()

	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case <-success:
		return true
	case <-timer.C:
		return false
	}
}
