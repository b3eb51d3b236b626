// Package host contains the delay strategy that waits on a host event loop. The host is anything
// that can run a callback once after a number of milliseconds; [Loop] is a ready-made one.
package host

import (
	"errors"
	"math"
)

// MaxDelay is the largest delay in milliseconds a host accepts.
const MaxDelay int64 = math.MaxInt32

var (
	// ErrDelayRange is returned by hosts for delays above [MaxDelay].
	ErrDelayRange = errors.New("delay is out of range")
)

// TimerID identifies a registered timer.
type TimerID uint64

// Host is a one-shot timer registration API.
type Host interface {
	// SetTimeout registers callback to be invoked once after the given number of milliseconds.
	// Negative delays are treated as 0.
	SetTimeout(callback func(), millis int64) (TimerID, error)
	// ClearTimeout unregisters a timer that hasn't fired yet. Unknown ids are ignored.
	ClearTimeout(id TimerID)
}
