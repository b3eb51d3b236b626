// Package task contains the delay strategy for cooperatively scheduled tasks and a [Scheduler]
// that runs such tasks.
package task

import (
	"context"
	"sync"
	"time"

	"github.com/teenjuna/delay"
)

// Sleep suspends the current task without blocking a thread. The zero value is ready to use.
type Sleep[D delay.Duration] struct{}

var _ delay.Strategy[time.Duration, *Sleeping] = Sleep[time.Duration]{}

func New[D delay.Duration]() Sleep[D] {
	return Sleep[D]{}
}

// Delay returns a suspended computation. The clock doesn't start until the computation is driven
// by [Sleeping.Wait], [Sleeping.Done] or [Sleeping.Poll].
func (Sleep[D]) Delay(by D) *Sleeping {
	return &Sleeping{
		duration: delay.Canonical(by),
		done:     make(chan struct{}),
	}
}

// Sleeping is a delay that completes once its duration has elapsed after the first drive.
//
// It is safe to drive from many goroutines; all of them observe the same completion.
type Sleeping struct {
	duration time.Duration
	arm      sync.Once
	timer    *time.Timer
	done     chan struct{}
}

func (s *Sleeping) Duration() time.Duration {
	return s.duration
}

// Done starts the clock if needed and returns a channel that's closed on completion.
func (s *Sleeping) Done() <-chan struct{} {
	s.start()
	return s.done
}

// Poll starts the clock if needed and reports whether the duration has elapsed.
func (s *Sleeping) Poll() bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}

// Wait suspends the caller until the duration has elapsed or the context is done. Cancelling the
// context doesn't stop the underlying timer; use [Sleeping.Cancel] for that.
func (s *Sleeping) Wait(ctx context.Context) error {
	if s.Poll() {
		return nil
	}

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel disarms the delay. It then never completes. It returns false if the delay has already
// completed or was cancelled before.
func (s *Sleeping) Cancel() bool {
	idle := false
	s.arm.Do(func() { idle = true })
	if idle {
		return true
	}
	if s.timer == nil {
		return false
	}
	return s.timer.Stop()
}

func (s *Sleeping) start() {
	s.arm.Do(func() {
		if s.duration <= 0 {
			close(s.done)
			return
		}
		s.timer = time.AfterFunc(s.duration, func() {
			close(s.done)
		})
	})
}
