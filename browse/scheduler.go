// Package browse provides the interactive side of the portal: the navigation
// state machine and the debounced search controller that presentation layers
// drive and subscribe to.
package browse

import "time"

// Scheduler runs a function once after a delay.
type Scheduler interface {
	// Schedule arranges for fn to run after delay and returns a function
	// that cancels it. Cancelling after fn has started has no effect.
	Schedule(delay time.Duration, fn func()) (cancel func())
}

// TimerScheduler schedules functions on runtime timers.
type TimerScheduler struct{}

// Schedule implements Scheduler using time.AfterFunc.
func (TimerScheduler) Schedule(delay time.Duration, fn func()) func() {
	t := time.AfterFunc(delay, fn)
	return func() { t.Stop() }
}
