package host

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gammazero/deque"
	"go.uber.org/atomic"
	"go.uber.org/zap"
)

var (
	ErrClosed        = errors.New("loop is closed")
	ErrRunning       = errors.New("loop is already running")
	ErrTooManyTimers = errors.New("too many pending timers")
)

// Loop is a single-threaded event loop. Callbacks of fired timers and posted tasks run one at a
// time, in FIFO order, on the goroutine that calls [Loop.Run].
//
// A fired timer is queued behind the tasks that were already queued, so its callback runs strictly
// after them.
type Loop struct {
	log        *zap.SugaredLogger
	metrics    *metrics
	maxPending int

	mu      sync.Mutex
	closed  bool
	timers  timers
	pending map[TimerID]*timer
	tasks   *deque.Deque[func()]
	seq     *atomic.Uint64

	started  *atomic.Bool
	wake     chan struct{}
	quit     chan struct{}
	quitOnce sync.Once
	done     chan struct{}
}

var _ Host = (*Loop)(nil)

func NewLoop(options ...Option) *Loop {
	cfg := newConfig(options...)
	return &Loop{
		log:        cfg.logger,
		metrics:    cfg.prometheus.metrics(),
		maxPending: cfg.maxPending,
		pending:    make(map[TimerID]*timer),
		tasks:      new(deque.Deque[func()]),
		seq:        atomic.NewUint64(0),
		started:    atomic.NewBool(false),
		wake:       make(chan struct{}, 1),
		quit:       make(chan struct{}),
		done:       make(chan struct{}),
	}
}

// Run dispatches callbacks until the context is done or [Loop.Stop] is called. A loop can be run
// only once; after Run returns, the loop is closed.
//
// Before returning, Run dispatches every callback that is already queued. Timers that aren't due
// yet are dropped without firing, so a [Promise] waiting on one of them never settles.
//
// A panic in a callback propagates out of Run.
func (l *Loop) Run(ctx context.Context) error {
	if !l.started.CompareAndSwap(false, true) {
		return ErrRunning
	}
	defer close(l.done)
	defer l.close()

	l.log.Infow("loop started")
	defer l.log.Infow("loop stopped")

	for {
		callback, idle := l.next(time.Now())
		if callback != nil {
			callback()
			continue
		}

		if exit, err := l.wait(ctx, idle); exit {
			return err
		}
	}
}

// wait blocks until the next timer is due, the loop is woken up or the loop must exit.
func (l *Loop) wait(ctx context.Context, d time.Duration) (exit bool, err error) {
	var expired <-chan time.Time
	if d >= 0 {
		t := time.NewTimer(d)
		defer t.Stop()
		expired = t.C
	}

	select {
	case <-ctx.Done():
		return true, ctx.Err()
	case <-l.quit:
		return true, nil
	case <-l.wake:
	case <-expired:
	}
	return false, nil
}

// Stop closes the loop and waits for [Loop.Run] to return. It must not be called from a callback.
//
// Pending timers are dropped; see [Loop.Run].
func (l *Loop) Stop() {
	l.close()
	l.quitOnce.Do(func() {
		close(l.quit)
	})
	if l.started.Load() {
		<-l.done
	}
}

// SetTimeout registers callback to run on the loop after the given number of milliseconds.
//
// Returns [ErrDelayRange] if millis is above [MaxDelay], [ErrTooManyTimers] if the pending limit is
// reached and [ErrClosed] if the loop is closed.
func (l *Loop) SetTimeout(callback func(), millis int64) (TimerID, error) {
	if callback == nil {
		panic("callback can't be nil")
	}
	if millis > MaxDelay {
		return 0, fmt.Errorf("%w: %d > %d", ErrDelayRange, millis, MaxDelay)
	}
	if millis < 0 {
		millis = 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return 0, ErrClosed
	}
	if l.maxPending > 0 && len(l.pending) >= l.maxPending {
		return 0, fmt.Errorf("%w: %d", ErrTooManyTimers, len(l.pending))
	}

	t := &timer{
		id:       TimerID(l.seq.Inc()),
		callback: callback,
		deadline: time.Now().Add(time.Duration(millis) * time.Millisecond),
	}
	heap.Push(&l.timers, t)
	l.pending[t.id] = t

	l.metrics.timersRegistered.Inc()
	l.metrics.timersPending.Inc()
	l.log.Debugw("timer registered", "id", t.id, "millis", millis)

	notify(l.wake)

	return t.id, nil
}

func (l *Loop) ClearTimeout(id TimerID) {
	l.mu.Lock()
	defer l.mu.Unlock()

	t, ok := l.pending[id]
	if !ok {
		return
	}
	heap.Remove(&l.timers, t.index)
	delete(l.pending, id)

	l.metrics.timersCleared.Inc()
	l.metrics.timersPending.Dec()
	l.log.Debugw("timer cleared", "id", id)

	notify(l.wake)
}

// Post queues fn to run on the loop.
func (l *Loop) Post(fn func()) error {
	if fn == nil {
		panic("fn can't be nil")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if l.closed {
		return ErrClosed
	}
	l.tasks.PushBack(fn)

	notify(l.wake)

	return nil
}

// Pending returns the number of timers that haven't fired yet.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.pending)
}

// Queued returns the number of callbacks waiting to be dispatched.
func (l *Loop) Queued() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.tasks.Len()
}

// next moves expired timers to the task queue and pops the first task. If there is none, it
// returns how long to wait for the next timer, or -1 if there are no timers.
func (l *Loop) next(now time.Time) (func(), time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	for len(l.timers) > 0 && !l.timers[0].deadline.After(now) {
		t := heap.Pop(&l.timers).(*timer)
		delete(l.pending, t.id)
		l.tasks.PushBack(t.callback)

		l.metrics.timersFired.Inc()
		l.metrics.timersPending.Dec()
		l.metrics.timerLateness.Observe(now.Sub(t.deadline).Seconds())
		l.log.Debugw("timer fired", "id", t.id)
	}

	if l.tasks.Len() > 0 {
		return l.tasks.PopFront(), 0
	}
	if len(l.timers) > 0 {
		return nil, l.timers[0].deadline.Sub(now)
	}
	return nil, -1
}

func (l *Loop) close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.closed = true
}

func notify(ch chan struct{}) {
	select {
	case ch <- struct{}{}:
	default:
	}
}
