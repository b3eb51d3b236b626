// Package blocking contains the delay strategy that blocks the calling goroutine.
package blocking

import (
	"time"

	"github.com/teenjuna/delay"
)

// Sleep blocks the calling goroutine for the requested duration. The zero value is ready to use.
type Sleep[D delay.Duration] struct{}

var _ delay.Strategy[time.Duration, struct{}] = Sleep[time.Duration]{}

func New[D delay.Duration]() Sleep[D] {
	return Sleep[D]{}
}

// Delay returns only after at least the requested duration has elapsed.
func (Sleep[D]) Delay(by D) struct{} {
	time.Sleep(delay.Canonical(by))
	return struct{}{}
}
