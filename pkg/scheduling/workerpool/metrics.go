package workerpool

import (
	"github.com/vnykmshr/activeflow/pkg/metrics"
)

// NewWithMetrics creates a new worker pool reporting to registry under name.
func NewWithMetrics(workerCount int, name string, registry *metrics.Registry) Pool {
	config := DefaultConfig()
	config.Name = name
	config.WorkerCount = workerCount
	config.Metrics = registry
	return NewWithConfig(config)
}

// updateMetrics updates the current state metrics.
func (p *workerPool) updateMetrics() {
	if p.metrics == nil {
		return
	}
	p.metrics.SetPool(p.config.Name, p.config.WorkerCount, p.ActiveWorkers())
	p.metrics.SetQueueDepth(p.config.Name, p.queue.Len())
}
