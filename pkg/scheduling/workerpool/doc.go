/*
Package workerpool provides a bounded pool of worker goroutines fed by an
unbounded work queue.

A worker pool manages a fixed number of worker goroutines that execute tasks
concurrently. It bounds parallelism, not admission: Submit never blocks on a
busy pool, it appends to a queue.Queue shared by every worker. The
partition package uses a pool to run the pieces of a split computation.

Basic usage:

	pool := workerpool.New(4)
	defer func() { <-pool.Shutdown() }()

	task := workerpool.TaskFunc(func(ctx context.Context) error {
		// Do work
		return nil
	})

	_, err := pool.Submit(ctx, task, func(result workerpool.Result) {
		if result.Error != nil {
			log.Printf("Task failed: %v", result.Error)
		}
	})

Completion callbacks:

Every accepted task produces exactly one Result for its callback. The callback
runs on the worker that executed the task, or on the shutdown goroutine when
the task is cancelled before it ran. A nil callback discards the result.

Error Handling:

Errors returned by a task and recovered panics are wrapped in an
*errors.ExecutionError, so they match errors.ErrTaskExecutionFailed:

	if errors.Is(result.Error, errors.ErrTaskExecutionFailed) {
		var execErr *errors.ExecutionError
		if errors.As(result.Error, &execErr) && execErr.Panicked() {
			log.Printf("task %s panicked: %v", execErr.TaskID, execErr.Panic)
		}
	}

Tasks receive the context passed to Submit, narrowed by Config.TaskTimeout and
cancelled if a timed shutdown gives up on them.

Configuration Options:

	config := workerpool.Config{
		Name:        "render",
		WorkerCount: runtime.NumCPU(),
		TaskTimeout: 30 * time.Second,
		PanicHandler: func(task workerpool.Task, recovered interface{}) {
			log.Printf("Task panicked: %v", recovered)
		},
		OnTaskComplete: func(workerID int, result workerpool.Result) {
			log.Printf("Worker %d completed task in %v", workerID, result.Duration)
		},
		Logger:  logger,
		Metrics: metrics.Default(),
	}
	pool := workerpool.NewWithConfig(config)

Monitoring and Metrics:

	fmt.Printf("Pool size: %d\n", pool.Size())
	fmt.Printf("Queue size: %d\n", pool.QueueSize())
	fmt.Printf("Active workers: %d\n", pool.ActiveWorkers())
	fmt.Printf("Total submitted: %d\n", pool.TotalSubmitted())
	fmt.Printf("Total completed: %d\n", pool.TotalCompleted())

With Config.Metrics set, the same figures are exported as Prometheus gauges
labelled with the pool name.

Graceful Shutdown:

	// Graceful shutdown - waits for queued and running tasks
	<-pool.Shutdown()

	// Shutdown with timeout - cancels what is left after the timeout
	<-pool.ShutdownWithTimeout(30 * time.Second)

Tasks cancelled by ShutdownWithTimeout report errors.ErrQueueClosed.

Thread Safety:

All pool operations are safe for concurrent use from multiple goroutines.
*/
package workerpool
