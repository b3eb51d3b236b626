package task

import (
	"go.uber.org/zap"
)

type Option = func(*config)

// WithLimit limits the number of tasks running at once. A task suspended on a delay still counts
// as running.
func WithLimit(limit int) Option {
	if limit < 1 {
		panic("limit can't be < 1")
	}
	return func(c *config) {
		c.limit = limit
	}
}

func WithLogger(logger *zap.SugaredLogger) Option {
	if logger == nil {
		panic("logger can't be nil")
	}
	return func(c *config) {
		c.logger = logger
	}
}

func WithPrometheus(prometheus *PrometheusConfig) Option {
	if prometheus == nil {
		panic("prometheus can't be nil")
	}
	return func(c *config) {
		c.prometheus = prometheus
	}
}

type config struct {
	limit      int
	logger     *zap.SugaredLogger
	prometheus *PrometheusConfig
}

func newConfig(options ...Option) *config {
	options = append([]Option{
		WithLogger(zap.NewNop().Sugar()),
		WithPrometheus(Prometheus(nil)),
	}, options...)

	cfg := config{}
	for _, opt := range options {
		opt(&cfg)
	}

	return &cfg
}
