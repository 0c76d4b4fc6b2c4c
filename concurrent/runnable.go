// SPDX-FileCopyrightText: 2025 Comcast Cable Communications Management, LLC
// SPDX-License-Identifier: Apache-2.0

package concurrent

import (
	"runtime"
	"sync"
)

// Runnable represents any operation that can spawn zero or more goroutines.
type Runnable interface {
	// Run executes this operation, possibly returning an error if the operation
	// could not be started.  This method is responsible for spawning any necessary
	// goroutines and to ensure WaitGroup.Add() and WaitGroup.Done() are called appropriately.
	Run(waitGroup *sync.WaitGroup) error
}

// RunnableFunc is a function type that implements Runnable
type RunnableFunc func(*sync.WaitGroup) error

func (r RunnableFunc) Run(waitGroup *sync.WaitGroup) error {
	return r(waitGroup)
}

// RunnableSet is a slice type that allows grouping of operations.
// This type implements Runnable as well.  Operations after the first failure are not run.
type RunnableSet []Runnable

func (set RunnableSet) Run(waitGroup *sync.WaitGroup) error {
	for _, operation := range set {
		if err := operation.Run(waitGroup); err != nil {
			return err
		}
	}

	return nil
}

// Thread produces a Runnable that executes f on its own goroutine, wired to its own OS thread
// for as long as f runs.
func Thread(f func()) Runnable {
	return RunnableFunc(func(waitGroup *sync.WaitGroup) error {
		waitGroup.Add(1)
		go func() {
			defer waitGroup.Done()
			runtime.LockOSThread()
			defer runtime.UnlockOSThread()
			f()
		}()

		return nil
	})
}

// Execute is a convenience function that creates the WaitGroup and then invokes Run().
// The WaitGroup is returned even when Run fails, since some operations may have started.
func Execute(runnable Runnable) (*sync.WaitGroup, error) {
	waitGroup := &sync.WaitGroup{}
	err := runnable.Run(waitGroup)
	return waitGroup, err
}
