package activeobject

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ctxutil "github.com/vnykmshr/activeflow/pkg/common/context"
	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// Call enqueues t on e and blocks until its result is available, ctx ends or
// the engine's CallTimeout passes.
//
// A deadline yields an error matching errors.ErrTaskTimeout. If the task has
// not started by then it is skipped; if it is already running it completes
// and its result is discarded. Task faults match errors.ErrTaskExecutionFailed
// and a stopped engine yields errors.ErrQueueClosed.
func Call[V any](ctx context.Context, e *Engine, t task.Task[V]) (V, error) {
	var zero V
	if t == nil {
		return zero, errors.NewValidationError("activeobject", "task", nil, "cannot be nil")
	}

	ctx, cancel := ctxutil.WithTimeout(ctx, e.callTimeout)
	defer cancel()

	id := uuid.New()
	f := task.NewFuture[V](id)

	j := &job{
		id: id,
		run: func(wctx context.Context) {
			if f.Abandoned() {
				e.metrics.TaskDiscarded(e.name)
				e.logger.Debug("skipping task abandoned by its caller", zap.Stringer("task_id", id))
				return
			}
			if !f.Complete(execute(wctx, e, id, t)) {
				e.metrics.TaskDiscarded(e.name)
				e.logger.Debug("discarding result of abandoned call", zap.Stringer("task_id", id))
			}
		},
		cancel: func(err error) {
			f.Complete(task.Result[V]{TaskID: id, Err: err})
		},
	}

	if err := e.enqueue(j); err != nil {
		return zero, err
	}

	v, err := f.Wait(ctx)
	if errors.Is(err, errors.ErrTaskTimeout) {
		e.metrics.TaskTimedOut(e.name)
		e.logger.Debug("call timed out", zap.Stringer("task_id", id))
	}
	return v, err
}

// Submit enqueues t on e and returns immediately with the task's id. Exactly
// one Result is delivered to sink: the task's outcome, or errors.ErrQueueClosed
// if the engine stops before running it. A nil sink discards the result.
func Submit[V any](e *Engine, t task.Task[V], sink task.Sink[V]) (uuid.UUID, error) {
	if t == nil {
		return uuid.Nil, errors.NewValidationError("activeobject", "task", nil, "cannot be nil")
	}

	id := uuid.New()
	j := &job{
		id: id,
		run: func(wctx context.Context) {
			r := execute(wctx, e, id, t)
			e.deliver(id, func() { sink.Deliver(r) })
		},
		cancel: func(err error) {
			e.deliver(id, func() { sink.Deliver(task.Result[V]{TaskID: id, Err: err}) })
		},
	}

	if err := e.enqueue(j); err != nil {
		return uuid.Nil, err
	}
	return id, nil
}
