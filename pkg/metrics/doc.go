// Package metrics provides Prometheus instrumentation for activeflow components.
//
// # Overview
//
// The metrics package instruments:
//   - Serial engines and worker pools (submitted, executed, failed, timed out,
//     discarded and cancelled tasks, execution duration, queue depth)
//   - Notification-mode dispatchers (completed drain sessions)
//   - Worker pools (pool size, active workers)
//   - Partitioned computations (aggregate runs by outcome, partitions dispatched)
//   - Periodic submission (scheduled runs and failures)
//   - Completion sinks (delivered and failed results)
//
// # Quick Start
//
// Components take a *Registry in their Config. A nil registry disables
// recording, so metrics are opt-in:
//
//	reg := metrics.NewRegistry(prometheus.NewRegistry())
//	engine := activeobject.New(activeobject.Config{Name: "counter", Metrics: reg})
//
// Then expose metrics via HTTP:
//
//	http.Handle("/metrics", promhttp.Handler())
//	log.Fatal(http.ListenAndServe(":9090", nil))
//
// # Available Metrics
//
//   - activeflow_task_submitted_total{component}
//   - activeflow_task_executed_total{component}
//   - activeflow_task_failed_total{component}
//   - activeflow_task_discarded_total{component}
//   - activeflow_task_timeouts_total{component}
//   - activeflow_task_cancelled_total{component}
//   - activeflow_task_duration_seconds{component}
//   - activeflow_queue_depth{component}
//   - activeflow_dispatcher_sessions_total{dispatcher_name}
//   - activeflow_workerpool_size{pool_name}
//   - activeflow_workerpool_active_workers{pool_name}
//   - activeflow_partition_runs_total{partitioner_name,outcome}
//   - activeflow_partition_partitions_total{partitioner_name}
//   - activeflow_scheduler_runs_total{scheduler_name}
//   - activeflow_scheduler_failures_total{scheduler_name}
//   - activeflow_sink_delivered_total{sink_name}
//   - activeflow_sink_failures_total{sink_name}
//
// # Custom Registry
//
// Use a custom Prometheus registry for isolation, which tests always do:
//
//	config := metrics.Config{
//		Enabled:   true,
//		Registry:  prometheus.NewRegistry(),
//		Namespace: "myapp",
//		Labels:    prometheus.Labels{"instance": "a"},
//	}
//	reg := config.Build()
package metrics
