package concurrent

import (
	"sync"
	"testing"
	"time"
)

func TestWaitTimeoutSuccess(t *testing.T) {
	waitGroup := &sync.WaitGroup{}
	waitGroup.Add(1)
	go func() {
		timer := time.NewTimer(time.Millisecond * 100)
		defer timer.Stop()
		<-timer.C
		waitGroup.Done()
	}()

	if !WaitTimeout(waitGroup, time.Second) {
		t.Errorf("Failed wait within the timeout")
	}
}

func TestWaitTimeoutFail(t *testing.T) {
	var (
		waitGroup = &sync.WaitGroup{}
		release   = make(chan struct{})
	)

	waitGroup.Add(1)
	go func() {
		<-release
		waitGroup.Done()
	}()

	defer close(release)
	if WaitTimeout(waitGroup, time.Millisecond*100) {
		t.Errorf("WaitTimeout() should return false if the timeout elapses without Wait() succeeding")
	}
}
