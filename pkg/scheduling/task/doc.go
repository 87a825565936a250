// Package task defines the units of work shared by every activeflow engine:
// the Task contract, its Result, the single-slot Future used by synchronous
// callers and the Sink used by notification-mode subscribers.
//
// A Task is a function from a context to a value or an error:
//
//	inc := task.Func[int64](func(ctx context.Context) (int64, error) {
//		value++
//		return value, nil
//	})
//
// Run executes a task with panic recovery, so a faulting task always yields
// exactly one Result whose error matches errors.ErrTaskExecutionFailed.
//
// Future carries that Result to one waiter. Wait blocks on a channel receive
// rather than polling; when the waiter's context expires the future is
// abandoned and any late result is dropped instead of delivered.
//
// Sinks are plain function values. Fanout composes several subscribers
// without coupling them to each other.
package task
