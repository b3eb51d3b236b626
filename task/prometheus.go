package task

import (
	"github.com/prometheus/client_golang/prometheus"
)

// PrometheusConfig is a config of the Prometheus metrics provided by the [Scheduler].
//
// An instance can be created only by the [Prometheus] function. The zero value is invalid.
type PrometheusConfig struct {
	// Namespace of the metrics. Overrides the namespace of every options field.
	Namespace string
	// Subsystem of the metrics. Overrides the subsystem of every options field.
	Subsystem string
	// Options for the started tasks counter.
	TasksStarted prometheus.CounterOpts
	// Options for the running tasks gauge.
	TasksRunning prometheus.GaugeOpts
	// Options for the failed tasks counter.
	TaskErrors prometheus.CounterOpts
	// Options for the task duration histogram.
	TaskDuration prometheus.HistogramOpts

	registerer prometheus.Registerer
}

// Prometheus returns a [PrometheusConfig] with the provided registerer. If registerer is nil,
// metrics will not be registered. Default parameters can be changed by passing configuration
// functions.
//
// Metrics are registered once per scheduler, so a config with a non-nil registerer can't be
// shared between schedulers.
func Prometheus(
	registerer prometheus.Registerer,
	configFuncs ...func(c *PrometheusConfig),
) *PrometheusConfig {
	c := PrometheusConfig{
		registerer: registerer,
		Namespace:  "delay",
		Subsystem:  "task",
		TasksStarted: prometheus.CounterOpts{
			Name: "tasks_started",
			Help: "Number of tasks started by the scheduler",
		},
		TasksRunning: prometheus.GaugeOpts{
			Name: "tasks_running",
			Help: "Number of tasks currently running, including suspended ones",
		},
		TaskErrors: prometheus.CounterOpts{
			Name: "task_errors",
			Help: "Number of tasks that returned an error",
		},
		TaskDuration: prometheus.HistogramOpts{
			Name:    "task_duration_seconds",
			Help:    "Duration of task execution, including time spent suspended",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 16),
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
	c.TasksStarted.Namespace, c.TasksStarted.Subsystem = c.Namespace, c.Subsystem
	c.TasksRunning.Namespace, c.TasksRunning.Subsystem = c.Namespace, c.Subsystem
	c.TaskErrors.Namespace, c.TaskErrors.Subsystem = c.Namespace, c.Subsystem
	c.TaskDuration.Namespace, c.TaskDuration.Subsystem = c.Namespace, c.Subsystem

	m := metrics{
		tasksStarted: prometheus.NewCounter(c.TasksStarted),
		tasksRunning: prometheus.NewGauge(c.TasksRunning),
		taskErrors:   prometheus.NewCounter(c.TaskErrors),
		taskDuration: prometheus.NewHistogram(c.TaskDuration),
	}

	if c.registerer != nil {
		registerer := prometheus.WrapRegistererWith(
			prometheus.Labels{"component": "delay"},
			c.registerer,
		)
		registerer.MustRegister(
			m.tasksStarted,
			m.tasksRunning,
			m.taskErrors,
			m.taskDuration,
		)
	}

	return &m
}

type metrics struct {
	tasksStarted prometheus.Counter
	tasksRunning prometheus.Gauge
	taskErrors   prometheus.Counter
	taskDuration prometheus.Histogram
}
