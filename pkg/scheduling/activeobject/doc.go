/*
Package activeobject implements a serial execution engine: one unbounded work
queue drained by exactly one worker goroutine.

Because a single goroutine runs every task, state touched only from tasks
needs no locking. Tasks run strictly in the order they were accepted and at
most one is in flight at any time. A failing or panicking task produces an
error result; the worker moves on to the next task.

# Synchronous calls

Call enqueues a task and blocks on a single-slot future until the result
arrives:

	e := activeobject.New(activeobject.DefaultConfig())
	defer e.Shutdown(context.Background())

	n, err := activeobject.Call(ctx, e, task.Func[int](func(ctx context.Context) (int, error) {
		return 42, nil
	}))

When the caller's context or the engine's CallTimeout expires, Call returns an
error matching errors.ErrTaskTimeout. Other callers are unaffected.

# Notifications

Submit enqueues a task and returns at once. The result is delivered to a
task.Sink from the worker goroutine. The halfsync package builds drain
notifications on top of this.

# Façades

Counter and Occupancy show the intended usage: a plain struct whose fields
are only ever read or written by closures submitted through Call.

	c := activeobject.NewCounter(e, 10)
	c.IncrementAndGet(ctx) // 11
	c.DecrementAndGet(ctx) // 10

# Shutdown

Shutdown closes the queue, so later submissions fail with
errors.ErrQueueClosed, and waits for the worker to finish queued work. If the
shutdown context ends first, the remaining tasks are cancelled with
errors.ErrQueueClosed.
*/
package activeobject
