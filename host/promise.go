package host

import (
	"context"
	"sync"
)

// Promise settles once, when its host timer fires. Every waiter observes the same settlement.
type Promise struct {
	host   Host
	id     TimerID
	millis int64
	once   sync.Once
	done   chan struct{}
}

func newPromise(host Host, millis int64) *Promise {
	return &Promise{
		host:   host,
		millis: millis,
		done:   make(chan struct{}),
	}
}

// Millis returns the delay the host timer was registered with.
func (p *Promise) Millis() int64 {
	return p.millis
}

// Done returns a channel that's closed when the promise settles.
func (p *Promise) Done() <-chan struct{} {
	return p.done
}

func (p *Promise) Settled() bool {
	select {
	case <-p.done:
		return true
	default:
		return false
	}
}

// Wait blocks until the promise settles or the context is done. Cancelling the context doesn't
// unregister the host timer; use [Promise.Cancel] for that.
//
// A promise whose timer is dropped by the host, e.g. by a stopped [Loop], never settles. Pass a
// context that can be cancelled if the host may go away.
func (p *Promise) Wait(ctx context.Context) error {
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Cancel unregisters the host timer. The promise then never settles. It returns false if the
// promise has already settled or was cancelled before.
func (p *Promise) Cancel() bool {
	cancelled := false
	p.once.Do(func() {
		cancelled = true
	})
	if cancelled {
		p.host.ClearTimeout(p.id)
	}
	return cancelled
}

func (p *Promise) resolve() {
	p.once.Do(func() {
		close(p.done)
	})
}
