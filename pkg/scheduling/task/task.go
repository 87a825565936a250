package task

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
)

// Task represents a unit of work producing a value of type V.
type Task[V any] interface {
	// Execute runs the task. It should respect context cancellation and
	// return the produced value or the error encountered.
	Execute(ctx context.Context) (V, error)
}

// Func is a function type that implements the Task interface.
type Func[V any] func(ctx context.Context) (V, error)

// Execute implements the Task interface for Func.
func (f Func[V]) Execute(ctx context.Context) (V, error) {
	return f(ctx)
}

// Result represents the outcome of one task execution.
type Result[V any] struct {
	// TaskID identifies the task that produced the result.
	TaskID uuid.UUID

	// Value is the produced value. It is the zero value when Err is set.
	Value V

	// Err is nil on success. Execution faults match errors.ErrTaskExecutionFailed.
	Err error

	// Duration is how long the task took to execute.
	Duration time.Duration

	// WorkerID identifies which worker executed the task.
	WorkerID int
}

// Failed reports whether the result carries a failure.
func (r Result[V]) Failed() bool {
	return r.Err != nil
}

// Unpack returns the value and error of the result.
func (r Result[V]) Unpack() (V, error) {
	return r.Value, r.Err
}

// Run executes t on the calling goroutine and always returns a Result. A
// returned error or a panic is wrapped in an *errors.ExecutionError.
func Run[V any](ctx context.Context, id uuid.UUID, workerID int, t Task[V]) (res Result[V]) {
	start := time.Now()
	res.TaskID = id
	res.WorkerID = workerID

	defer func() {
		if r := recover(); r != nil {
			var zero V
			res.Value = zero
			res.Err = errors.NewPanicError(id, r, debug.Stack())
		}
		res.Duration = time.Since(start)
	}()

	v, err := t.Execute(ctx)
	if err != nil {
		res.Err = errors.NewExecutionError(id, err)
		return res
	}
	res.Value = v
	return res
}
