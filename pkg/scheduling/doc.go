/*
Package scheduling provides the task execution engines of activeflow.

  - task: Task, Result, Future and Sink types shared by every engine
  - queue: Unbounded FIFO work queue
  - activeobject: Serial engine running one task at a time
  - halfsync: Notification dispatcher over a serial engine
  - workerpool: Fixed worker pool for concurrent task execution
  - partition: Splits a range across a worker pool and folds the results
  - scheduler: Time-based submissions driven by cron expressions

Serial Engine:

Callers on any goroutine hand tasks to a single worker:

	engine := activeobject.New(activeobject.DefaultConfig())
	defer engine.Shutdown(ctx)

	v, err := activeobject.Call(ctx, engine, task.Func[int](compute))

Notification Dispatcher:

Results are pushed to hooks instead of being waited for:

	d := halfsync.New(activeobject.DefaultConfig(), halfsync.Hooks[int]{
		OnResult: func(r task.Result[int]) { ... },
		OnDone:   func(s halfsync.Summary[int]) { ... },
	})
	d.SubmitAll(t1, t2, t3)

Partitioned Computation:

	pool := workerpool.New(runtime.NumCPU())
	p := partition.New(pool, 0, sumRange, add, partition.DefaultConfig())
	total, err := p.Compute(ctx, partition.Range{Start: 1, End: 101})

All engines are safe for concurrent use and honour context cancellation.
*/
package scheduling
