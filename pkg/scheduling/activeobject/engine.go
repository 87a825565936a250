package activeobject

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/metrics"
	"github.com/vnykmshr/activeflow/pkg/scheduling/queue"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// State is the lifecycle state of an Engine.
type State int32

const (
	// Idle means the worker is waiting for work.
	Idle State = iota
	// Executing means the worker is running a task.
	Executing
	// Drained means the engine has stopped for good.
	Drained
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Executing:
		return "executing"
	case Drained:
		return "drained"
	default:
		return "unknown"
	}
}

// job is a type-erased unit of queued work. Exactly one of run or cancel is
// invoked for every job that was accepted by the queue.
type job struct {
	id     uuid.UUID
	run    func(ctx context.Context)
	cancel func(err error)
}

// Engine serializes tasks through one queue and one worker goroutine.
type Engine struct {
	name        string
	callTimeout time.Duration
	logger      *zap.Logger
	metrics     *metrics.Registry

	queue *queue.Queue[*job]
	state atomic.Int32

	// ctx is handed to running tasks; stop cancels it when a shutdown
	// deadline passes.
	ctx  context.Context
	stop context.CancelCauseFunc
	done chan struct{}
}

// New creates and starts an Engine. It panics if the configuration is invalid.
func New(config Config) *Engine {
	e, err := NewSafe(config)
	if err != nil {
		panic(err)
	}
	return e
}

// NewSafe creates and starts an Engine, returning an error if the
// configuration is invalid.
func NewSafe(config Config) (*Engine, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, stop := context.WithCancelCause(context.Background())
	e := &Engine{
		name:        config.Name,
		callTimeout: config.CallTimeout,
		logger:      logger.Named(config.Name),
		metrics:     config.Metrics,
		queue:       queue.New[*job](),
		ctx:         ctx,
		stop:        stop,
		done:        make(chan struct{}),
	}

	go e.loop()
	return e, nil
}

// Name returns the engine's name.
func (e *Engine) Name() string {
	return e.name
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	return State(e.state.Load())
}

// Pending returns the number of queued tasks not yet started.
func (e *Engine) Pending() int {
	return e.queue.Len()
}

// Done returns a channel that is closed once the worker has stopped.
func (e *Engine) Done() <-chan struct{} {
	return e.done
}

// Shutdown stops accepting work and waits for the worker to drain the queue.
// If ctx ends first, the running task's context is cancelled and ctx.Err() is
// returned. Once that task returns, the worker cancels every task still
// queued with errors.ErrQueueClosed, so results keep reaching sinks in order
// on the worker goroutine.
func (e *Engine) Shutdown(ctx context.Context) error {
	e.queue.Close()
	e.logger.Debug("shutdown requested", zap.Int("pending", e.queue.Len()))

	select {
	case <-e.done:
		return nil
	case <-ctx.Done():
	}

	e.stop(errors.ErrQueueClosed)
	e.logger.Warn("shutdown deadline reached, cancelling pending work", zap.Error(ctx.Err()))
	return ctx.Err()
}

func (e *Engine) enqueue(j *job) error {
	if err := e.queue.Enqueue(j); err != nil {
		return err
	}
	e.metrics.TaskSubmitted(e.name)
	e.metrics.SetQueueDepth(e.name, e.queue.Len())
	return nil
}

func (e *Engine) loop() {
	defer func() {
		r := recover()

		e.queue.Close()
		e.cancelPending(errors.ErrQueueClosed)
		e.state.Store(int32(Drained))
		e.stop(errors.ErrQueueClosed)

		if r != nil {
			e.logger.Error("worker stopped unexpectedly", zap.Any("panic", r))
		} else {
			e.logger.Debug("worker drained")
		}
		close(e.done)
	}()

	for e.ctx.Err() == nil {
		j, err := e.queue.Dequeue(e.ctx)
		if err != nil {
			return
		}
		e.metrics.SetQueueDepth(e.name, e.queue.Len())

		e.state.Store(int32(Executing))
		j.run(e.ctx)
		e.state.Store(int32(Idle))
	}
}

func (e *Engine) cancelPending(err error) {
	pending := e.queue.DrainPending()
	for _, j := range pending {
		j.cancel(err)
	}
	if len(pending) > 0 {
		e.metrics.TaskCancelled(e.name, len(pending))
		e.metrics.SetQueueDepth(e.name, 0)
		e.logger.Info("cancelled pending tasks", zap.Int("count", len(pending)), zap.Error(err))
	}
}

// deliver runs fn, containing any panic raised by a sink.
func (e *Engine) deliver(id uuid.UUID, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("result sink panicked", zap.Stringer("task_id", id), zap.Any("panic", r))
		}
	}()
	fn()
}

// execute runs t with fault containment and records the outcome.
func execute[V any](ctx context.Context, e *Engine, id uuid.UUID, t task.Task[V]) task.Result[V] {
	r := task.Run(ctx, id, 0, t)
	e.metrics.ObserveTask(e.name, r.Duration, r.Err)

	if r.Err != nil {
		var execErr *errors.ExecutionError
		if errors.As(r.Err, &execErr) && execErr.Panicked() {
			e.logger.Error("task panicked", zap.Stringer("task_id", id), zap.Any("panic", execErr.Panic))
		} else {
			e.logger.Warn("task failed", zap.Stringer("task_id", id), zap.Error(r.Err))
		}
	}
	return r
}
