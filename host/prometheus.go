package host

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the [Loop].
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics. Overrides the namespace of every options field.
	Namespace string
	// Subsystem of the metrics. Overrides the subsystem of every options field.
	Subsystem string
	// Options for the registered timers counter.
	TimersRegistered prometheus.CounterOpts
	// Options for the fired timers counter.
	TimersFired prometheus.CounterOpts
	// Options for the cleared timers counter.
	TimersCleared prometheus.CounterOpts
	// Options for the pending timers gauge.
	TimersPending prometheus.GaugeOpts
	// Options for the timer lateness histogram.
	TimerLateness prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Default parameters can be changed by passing configuration
// functions.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  "delay",
		Subsystem:  "host",
		TimersRegistered: prometheus.CounterOpts{
			Name: "timers_registered",
			Help: "Number of timers registered on the loop",
		},
		TimersFired: prometheus.CounterOpts{
			Name: "timers_fired",
			Help: "Number of timers that fired",
		},
		TimersCleared: prometheus.CounterOpts{
			Name: "timers_cleared",
			Help: "Number of timers cleared before firing",
		},
		TimersPending: prometheus.GaugeOpts{
			Name: "timers_pending",
			Help: "Number of timers waiting to fire",
		},
		TimerLateness: prometheus.HistogramOpts{
			Name:    "timer_lateness_seconds",
			Help:    "Time between a timer's deadline and the moment it was queued for dispatch",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 14),
		},
	}

	for _, cf := range configFuncs {
		if cf != nil {
			cf(&c)
		}
	}

	return &c
}

func (c *PrometheusConfig) metrics() *metrics {
	c.TimersRegistered.Namespace, c.TimersRegistered.Subsystem = c.Namespace, c.Subsystem
	c.TimersFired.Namespace, c.TimersFired.Subsystem = c.Namespace, c.Subsystem
	c.TimersCleared.Namespace, c.TimersCleared.Subsystem = c.Namespace, c.Subsystem
	c.TimersPending.Namespace, c.TimersPending.Subsystem = c.Namespace, c.Subsystem
	c.TimerLateness.Namespace, c.TimerLateness.Subsystem = c.Namespace, c.Subsystem

	m := metrics{
		timersRegistered: prometheus.NewCounter(c.TimersRegistered),
		timersFired:      prometheus.NewCounter(c.TimersFired),
		timersCleared:    prometheus.NewCounter(c.TimersCleared),
		timersPending:    prometheus.NewGauge(c.TimersPending),
		timerLateness:    prometheus.NewHistogram(c.TimerLateness),
	}

	if c.registerer != nil {
		registerer := prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "delay"},
			c.registerer,
		)
		registerer.MustRegister(
			m.timersRegistered,
			m.timersFired,
			m.timersCleared,
			m.timersPending,
			m.timerLateness,
		)
	}

	return &m
}

type metrics struct {
	timersRegistered prometheus.Counter
	timersFired      prometheus.Counter
	timersCleared    prometheus.Counter
	timersPending    prometheus.Gauge
	timerLateness    prometheus.Histogram
}
