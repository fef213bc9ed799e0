// Package clock abstracts the timer and animation-frame scheduling the view
// engine runs on. Every implementation delivers callbacks one at a time; no
// two callbacks ever run concurrently.
package clock

import "time"

// FrameInterval is the nominal duration of one animation frame.
const FrameInterval = 16 * time.Millisecond

// Timer is a scheduled callback that has not necessarily fired yet.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer; false means it already fired or was stopped.
	Stop() bool
}

// Scheduler runs callbacks later on the single UI thread.
type Scheduler interface {
	// AfterFunc runs fn once d has elapsed.
	AfterFunc(d time.Duration, fn func()) Timer
	// RequestFrame runs fn on the next animation frame.
	RequestFrame(fn func()) Timer
}

// StopAll stops every timer in ts, skipping nils.
func StopAll(ts ...Timer) {
	for _, t := range ts {
		if t != nil {
			t.Stop()
		}
	}
}
