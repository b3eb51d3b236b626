package task

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/atomic"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Func is a unit of work run by the [Scheduler].
type Func = func(ctx context.Context) error

// Scheduler multiplexes tasks onto the Go runtime. A task suspended on a [Sleeping] parks its
// goroutine, so unrelated tasks keep making progress while delays are pending.
//
// The first task to return an error cancels the context shared by all tasks.
type Scheduler struct {
	ctx     context.Context
	group   *errgroup.Group
	log     *zap.SugaredLogger
	metrics *metrics
	running *atomic.Int64
}

// NewScheduler returns a scheduler and the context its tasks receive.
func NewScheduler(ctx context.Context, options ...Option) (*Scheduler, context.Context) {
	cfg := newConfig(options...)

	group, ctx := errgroup.WithContext(ctx)
	if cfg.limit > 0 {
		group.SetLimit(cfg.limit)
	}

	s := Scheduler{
		ctx:     ctx,
		group:   group,
		log:     cfg.logger,
		metrics: cfg.prometheus.metrics(),
		running: atomic.NewInt64(0),
	}

	return &s, ctx
}

// Go starts a task. If the scheduler has a limit, Go blocks until a slot is free.
func (s *Scheduler) Go(fn Func) {
	s.group.Go(func() error {
		s.metrics.tasksStarted.Inc()
		s.metrics.tasksRunning.Inc()
		running := s.running.Inc()
		s.log.Debugw("task started", "running", running)

		start := time.Now()
		defer func() {
			s.metrics.taskDuration.Observe(time.Since(start).Seconds())
			s.metrics.tasksRunning.Dec()
			s.running.Dec()
		}()

		if err := fn(s.ctx); err != nil {
			s.metrics.taskErrors.Inc()
			s.log.Debugw("task failed", "error", err)
			return fmt.Errorf("task: %w", err)
		}

		s.log.Debugw("task finished", "elapsed", time.Since(start))
		return nil
	})
}

// Running returns the number of tasks currently running.
func (s *Scheduler) Running() int {
	return int(s.running.Load())
}

// Wait blocks until all tasks are finished and returns the first error.
func (s *Scheduler) Wait() error {
	return s.group.Wait()
}
