package clock

import "time"

// Interface represents the subset of the stdlib time package used by coordinators.  Protocol code
// sleeps through an Interface so tests can substitute instantaneous or scripted sleeps.
type Interface interface {
	Now() time.Time
	Sleep(time.Duration)
	After(time.Duration) <-chan time.Time
}

type systemClock struct{}

func (sc systemClock) Now() time.Time {
	return time.Now()
}

func (sc systemClock) Sleep(d time.Duration) {
	time.Sleep(d)
}

func (sc systemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

// System returns a clock backed by the time package
func System() Interface {
	return systemClock{}
}

// SleepFunc adapts a plain function into a clock whose Sleep calls that function.  Now and After
// are delegated to the system clock.  A nil function makes Sleep return immediately.
type SleepFunc func(time.Duration)

func (sf SleepFunc) Now() time.Time {
	return time.Now()
}

func (sf SleepFunc) Sleep(d time.Duration) {
	if sf != nil {
		sf(d)
	}
}

func (sf SleepFunc) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}
