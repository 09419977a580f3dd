// Package clock abstracts the timers page behaviors schedule.
//
// Browser code runs timers through setTimeout and setInterval; tests run
// them through Manual, which fires callbacks synchronously as virtual
// time advances. Both honor the same contract: callbacks never run
// concurrently with each other.
package clock

import "time"

// Clock schedules callbacks.
type Clock interface {
	// AfterFunc calls f once after d.
	AfterFunc(d time.Duration, f func()) Timer

	// Every calls f every d until the returned timer is stopped.
	Every(d time.Duration, f func()) Timer
}

// Timer is a scheduled callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the call stopped a
	// timer that had not yet fired (or, for repeating timers, was still
	// active).
	Stop() bool
}
