// Package metrics provides Prometheus instrumentation for activeflow components.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// DefaultNamespace prefixes every metric name.
const DefaultNamespace = "activeflow"

// Registry holds all metric instances for activeflow components.
type Registry struct {
	// Task execution metrics, labelled by component name
	TasksSubmitted        *prometheus.CounterVec
	TasksExecuted         *prometheus.CounterVec
	TasksFailed           *prometheus.CounterVec
	TasksDiscarded        *prometheus.CounterVec
	TaskTimeouts          *prometheus.CounterVec
	TasksCancelled        *prometheus.CounterVec
	TaskExecutionDuration *prometheus.HistogramVec
	QueueDepth            *prometheus.GaugeVec

	// Notification-mode dispatcher metrics
	DispatchSessions *prometheus.CounterVec

	// Worker pool metrics
	WorkerPoolSize   *prometheus.GaugeVec
	WorkerPoolActive *prometheus.GaugeVec

	// Partitioned computation metrics
	AggregateRuns *prometheus.CounterVec
	Partitions    *prometheus.CounterVec

	// Periodic submission metrics
	ScheduledRuns     *prometheus.CounterVec
	ScheduledFailures *prometheus.CounterVec

	// Completion sink metrics
	SinkDelivered *prometheus.CounterVec
	SinkFailures  *prometheus.CounterVec
}

var (
	defaultOnce     sync.Once
	defaultRegistry *Registry
)

// Default returns the registry bound to prometheus.DefaultRegisterer,
// creating it on first use.
func Default() *Registry {
	defaultOnce.Do(func() {
		defaultRegistry = NewRegistry(prometheus.DefaultRegisterer)
	})
	return defaultRegistry
}

// NewRegistry creates a new metrics registry with the given Prometheus registerer.
func NewRegistry(reg prometheus.Registerer) *Registry {
	return NewRegistryWithConfig(Config{Enabled: true, Registry: reg})
}

// NewRegistryWithConfig creates a registry honouring the namespace and
// constant labels of config.
func NewRegistryWithConfig(config Config) *Registry {
	reg := config.Registry
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	ns := config.Namespace
	if ns == "" {
		ns = DefaultNamespace
	}
	factory := promauto.With(reg)
	labels := config.Labels

	counter := func(subsystem, name, help string, labelNames ...string) *prometheus.CounterVec {
		return factory.NewCounterVec(prometheus.CounterOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, labelNames)
	}
	gauge := func(subsystem, name, help string, labelNames ...string) *prometheus.GaugeVec {
		return factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace:   ns,
			Subsystem:   subsystem,
			Name:        name,
			Help:        help,
			ConstLabels: labels,
		}, labelNames)
	}

	return &Registry{
		TasksSubmitted: counter("task", "submitted_total",
			"Total number of tasks accepted into a work queue", "component"),
		TasksExecuted: counter("task", "executed_total",
			"Total number of tasks executed", "component"),
		TasksFailed: counter("task", "failed_total",
			"Total number of tasks whose execution failed", "component"),
		TasksDiscarded: counter("task", "discarded_total",
			"Total number of results dropped because the waiter had given up", "component"),
		TaskTimeouts: counter("task", "timeouts_total",
			"Total number of synchronous calls that timed out", "component"),
		TasksCancelled: counter("task", "cancelled_total",
			"Total number of queued tasks cancelled during shutdown", "component"),
		TaskExecutionDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   ns,
			Subsystem:   "task",
			Name:        "duration_seconds",
			Help:        "Time spent executing tasks",
			Buckets:     prometheus.DefBuckets,
			ConstLabels: labels,
		}, []string{"component"}),
		QueueDepth: gauge("queue", "depth",
			"Number of tasks waiting in a work queue", "component"),

		DispatchSessions: counter("dispatcher", "sessions_total",
			"Total number of completed drain sessions", "dispatcher_name"),

		WorkerPoolSize: gauge("workerpool", "size",
			"Current worker pool size", "pool_name"),
		WorkerPoolActive: gauge("workerpool", "active_workers",
			"Number of active workers", "pool_name"),

		AggregateRuns: counter("partition", "runs_total",
			"Total number of aggregate runs by outcome", "partitioner_name", "outcome"),
		Partitions: counter("partition", "partitions_total",
			"Total number of partitions dispatched", "partitioner_name"),

		ScheduledRuns: counter("scheduler", "runs_total",
			"Total number of scheduled job runs", "scheduler_name"),
		ScheduledFailures: counter("scheduler", "failures_total",
			"Total number of scheduled job runs that failed", "scheduler_name"),

		SinkDelivered: counter("sink", "delivered_total",
			"Total number of results delivered by a sink", "sink_name"),
		SinkFailures: counter("sink", "failures_total",
			"Total number of results a sink failed to deliver", "sink_name"),
	}
}

// ObserveTask records one task execution for component. Safe on a nil Registry.
func (r *Registry) ObserveTask(component string, d time.Duration, err error) {
	if r == nil {
		return
	}
	r.TasksExecuted.WithLabelValues(component).Inc()
	r.TaskExecutionDuration.WithLabelValues(component).Observe(d.Seconds())
	if err != nil {
		r.TasksFailed.WithLabelValues(component).Inc()
	}
}

// TaskSubmitted counts a task accepted into component's queue.
func (r *Registry) TaskSubmitted(component string) {
	if r == nil {
		return
	}
	r.TasksSubmitted.WithLabelValues(component).Inc()
}

// TaskTimedOut counts a synchronous caller that gave up.
func (r *Registry) TaskTimedOut(component string) {
	if r == nil {
		return
	}
	r.TaskTimeouts.WithLabelValues(component).Inc()
}

// TaskDiscarded counts a result produced for an abandoned waiter.
func (r *Registry) TaskDiscarded(component string) {
	if r == nil {
		return
	}
	r.TasksDiscarded.WithLabelValues(component).Inc()
}

// TaskCancelled counts n queued tasks cancelled without execution.
func (r *Registry) TaskCancelled(component string, n int) {
	if r == nil || n == 0 {
		return
	}
	r.TasksCancelled.WithLabelValues(component).Add(float64(n))
}

// SessionCompleted counts a finished dispatcher drain session.
func (r *Registry) SessionCompleted(dispatcher string) {
	if r == nil {
		return
	}
	r.DispatchSessions.WithLabelValues(dispatcher).Inc()
}

// SetPool records the size and number of busy workers of a pool.
func (r *Registry) SetPool(pool string, size, active int) {
	if r == nil {
		return
	}
	r.WorkerPoolSize.WithLabelValues(pool).Set(float64(size))
	r.WorkerPoolActive.WithLabelValues(pool).Set(float64(active))
}

// ObserveAggregate records an aggregate run that dispatched partitions.
func (r *Registry) ObserveAggregate(partitioner string, partitions int, err error) {
	if r == nil {
		return
	}
	outcome := "complete"
	if err != nil {
		outcome = "incomplete"
	}
	r.AggregateRuns.WithLabelValues(partitioner, outcome).Inc()
	r.Partitions.WithLabelValues(partitioner).Add(float64(partitions))
}

// ObserveScheduled records a scheduled job run.
func (r *Registry) ObserveScheduled(scheduler string, err error) {
	if r == nil {
		return
	}
	r.ScheduledRuns.WithLabelValues(scheduler).Inc()
	if err != nil {
		r.ScheduledFailures.WithLabelValues(scheduler).Inc()
	}
}

// ObserveSink records one sink delivery attempt.
func (r *Registry) ObserveSink(sink string, err error) {
	if r == nil {
		return
	}
	if err != nil {
		r.SinkFailures.WithLabelValues(sink).Inc()
		return
	}
	r.SinkDelivered.WithLabelValues(sink).Inc()
}

// SetQueueDepth records the current depth of component's queue. Safe on a nil Registry.
func (r *Registry) SetQueueDepth(component string, depth int) {
	if r == nil {
		return
	}
	r.QueueDepth.WithLabelValues(component).Set(float64(depth))
}
