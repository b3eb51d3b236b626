// Package delay contains the [Strategy] interface that separates the intent to wait from the
// mechanism used to wait. Implementations live in subpackages:
//
//   - [github.com/teenjuna/delay/blocking] blocks the calling goroutine;
//   - [github.com/teenjuna/delay/task] suspends a task until the runtime timer fires;
//   - [github.com/teenjuna/delay/host] registers a one-shot timer on a host event loop.
package delay

import "time"

// Duration is any value that counts nanoseconds the way [time.Duration] does.
type Duration interface {
	~int64
}

// Strategy defines how a "wait for the given duration" request is carried out.
//
// Out is backend-specific: a unit value for backends that return only after the wait has elapsed,
// or a handle that completes later for backends that don't block.
//
// Implementations hold no mutable state and are safe to share between goroutines. There is no
// error channel: if the delay can't be arranged, Delay panics.
type Strategy[D Duration, Out any] interface {
	// Delay arranges a wait of at least the given duration. Zero and negative durations are
	// accepted and complete immediately.
	Delay(by D) Out
}

// StrategyFunc adapts a function to the [Strategy] interface.
type StrategyFunc[D Duration, Out any] func(by D) Out

func (f StrategyFunc[D, Out]) Delay(by D) Out {
	return f(by)
}

// Canonical converts a duration into [time.Duration].
func Canonical[D Duration](by D) time.Duration {
	return time.Duration(by)
}
