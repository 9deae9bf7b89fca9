// ABOUTME: Timer abstraction for the debounce commit so tests can fire timers by hand.
// ABOUTME: The production scheduler is time.AfterFunc.

package history

import "time"

type stopper interface {
	Stop() bool
}

type scheduler interface {
	AfterFunc(d time.Duration, f func()) stopper
}

type realScheduler struct{}

func (realScheduler) AfterFunc(d time.Duration, f func()) stopper {
	return time.AfterFunc(d, f)
}
