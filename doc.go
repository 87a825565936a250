/*
Package activeflow provides asynchronous engines that serialize, dispatch and
partition work for concurrent Go applications.

Serial execution (pkg/scheduling):
  - queue: Unbounded FIFO work queue with blocking dequeue
  - activeobject: Serial engine with synchronous Call and async Submit
  - halfsync: Notification dispatcher with per-session completion hooks

Parallel execution (pkg/scheduling):
  - workerpool: Fixed pool of workers over a shared queue
  - partition: Range partitioner and aggregator
  - scheduler: Cron and interval driven submissions

Results (pkg/sink):
  - Channel, Log and Redis sinks, composed with Fanout

Example usage:

	import (
		"github.com/vnykmshr/activeflow/pkg/scheduling/activeobject"
	)

	engine := activeobject.New(activeobject.DefaultConfig())
	defer engine.Shutdown(ctx)

	counter := activeobject.NewCounter(engine, 10)
	v, err := counter.IncrementAndGet(ctx) // 11
*/
package activeflow
