package host

import (
	"go.uber.org/zap"
)

type Option = func(*config)

// WithMaxPending limits the number of timers registered on a [Loop] at once.
func WithMaxPending(timers int) Option {
	if timers < 1 {
		panic("max pending can't be < 1")
	}
	return func(c *config) {
		c.maxPending = timers
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
	maxPending int
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
