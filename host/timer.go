package host

import (
	"fmt"
	"time"

	"github.com/teenjuna/delay"
)

// Timer waits by registering a one-shot timer on the host.
//
// The host accepts whole milliseconds, so the sub-millisecond part of a duration is discarded
// unless [Timer.WithCeil] is set.
type Timer[D delay.Duration] struct {
	host Host
	ceil bool
}

var _ delay.Strategy[time.Duration, *Promise] = (*Timer[time.Duration])(nil)

func New[D delay.Duration](host Host) *Timer[D] {
	if host == nil {
		panic("host can't be nil")
	}
	return &Timer[D]{host: host}
}

// WithCeil returns a copy of the timer that rounds the sub-millisecond part of a duration up, so
// that the wait is never shorter than the requested duration. The receiver isn't modified.
func (t *Timer[D]) WithCeil() *Timer[D] {
	c := *t
	c.ceil = true
	return &c
}

// Delay registers a host timer and returns a promise that settles when it fires.
//
// If the host rejects the timer, Delay panics with an error wrapping the host error. Delays above
// [MaxDelay] are not clamped.
func (t *Timer[D]) Delay(by D) *Promise {
	millis := toMillis(delay.Canonical(by), t.ceil)

	p := newPromise(t.host, millis)
	id, err := t.host.SetTimeout(p.resolve, millis)
	if err != nil {
		panic(fmt.Errorf("register host timer: %w", err))
	}
	p.id = id

	return p
}

func toMillis(d time.Duration, ceil bool) int64 {
	millis := int64(d / time.Millisecond)
	if ceil && d%time.Millisecond > 0 {
		millis += 1
	}
	return millis
}
