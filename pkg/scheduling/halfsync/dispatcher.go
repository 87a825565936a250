package halfsync

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/metrics"
	"github.com/vnykmshr/activeflow/pkg/scheduling/activeobject"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// Summary describes a finished drain session.
type Summary[V any] struct {
	// Session numbers sessions from 1 in the order they were opened.
	Session uint64

	// Delivered counts results handed to OnResult, failures included.
	Delivered int

	// Failed counts delivered results carrying an error.
	Failed int

	// Last is the final result of the session.
	Last task.Result[V]
}

// Hooks are the completion sinks of a Dispatcher. Both run on the engine's
// worker goroutine.
type Hooks[V any] struct {
	// OnResult receives every task result in execution order.
	OnResult task.Sink[V]

	// OnDone is called once per session, after the last result of the
	// session has been passed to OnResult.
	OnDone func(Summary[V])
}

// Dispatcher runs tasks on a serial engine and reports their results
// asynchronously. Submissions made while earlier ones are still outstanding
// join the same drain session; the session ends when the queue has drained
// and every result has been delivered.
type Dispatcher[V any] struct {
	engine  *activeobject.Engine
	hooks   Hooks[V]
	name    string
	logger  *zap.Logger
	metrics *metrics.Registry

	mu        sync.Mutex
	session   uint64
	pending   int
	delivered int
	failed    int
	last      task.Result[V]
}

// New creates a Dispatcher backed by a new engine. It panics if the
// configuration is invalid.
func New[V any](config activeobject.Config, hooks Hooks[V]) *Dispatcher[V] {
	d, err := NewSafe(config, hooks)
	if err != nil {
		panic(err)
	}
	return d
}

// NewSafe creates a Dispatcher backed by a new engine, returning an error if
// the configuration is invalid.
func NewSafe[V any](config activeobject.Config, hooks Hooks[V]) (*Dispatcher[V], error) {
	engine, err := activeobject.NewSafe(config)
	if err != nil {
		return nil, err
	}

	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Dispatcher[V]{
		engine:  engine,
		hooks:   hooks,
		name:    config.Name,
		logger:  logger.Named(config.Name).Named("dispatcher"),
		metrics: config.Metrics,
	}, nil
}

// Engine returns the underlying serial engine.
func (d *Dispatcher[V]) Engine() *activeobject.Engine {
	return d.engine
}

// Submit enqueues t and returns immediately.
func (d *Dispatcher[V]) Submit(t task.Task[V]) (uuid.UUID, error) {
	ids, err := d.SubmitAll(t)
	if err != nil {
		return uuid.Nil, err
	}
	return ids[0], nil
}

// SubmitAll enqueues tasks in order and returns immediately. The whole batch
// belongs to one session. If an enqueue fails, the tasks accepted so far still
// run and the error is returned with their ids.
func (d *Dispatcher[V]) SubmitAll(tasks ...task.Task[V]) ([]uuid.UUID, error) {
	if len(tasks) == 0 {
		return nil, nil
	}

	d.mu.Lock()
	if d.pending == 0 {
		d.session++
		d.delivered, d.failed = 0, 0
		d.last = task.Result[V]{}
		d.logger.Debug("session opened", zap.Uint64("session", d.session))
	}
	d.pending += len(tasks)
	d.mu.Unlock()

	ids := make([]uuid.UUID, 0, len(tasks))
	for i, t := range tasks {
		id, err := activeobject.Submit(d.engine, t, d.onResult)
		if err != nil {
			d.settle(len(tasks)-i, nil)
			return ids, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// Call runs t on the same engine and waits for its result. Calls are not part
// of any session.
func (d *Dispatcher[V]) Call(ctx context.Context, t task.Task[V]) (V, error) {
	return activeobject.Call(ctx, d.engine, t)
}

// Pending returns the number of submitted results not yet delivered.
func (d *Dispatcher[V]) Pending() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}

// Session returns the number of the current or most recent session.
func (d *Dispatcher[V]) Session() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.session
}

// Shutdown shuts the engine down. See activeobject.Engine.Shutdown.
func (d *Dispatcher[V]) Shutdown(ctx context.Context) error {
	return d.engine.Shutdown(ctx)
}

func (d *Dispatcher[V]) onResult(r task.Result[V]) {
	d.guard("on-result", func() { d.hooks.OnResult.Deliver(r) })
	d.settle(1, &r)
}

// settle retires n outstanding submissions, r being the delivered result if
// any, and ends the session once nothing is outstanding.
func (d *Dispatcher[V]) settle(n int, r *task.Result[V]) {
	d.mu.Lock()
	d.pending -= n
	if r != nil {
		d.delivered++
		if r.Err != nil {
			d.failed++
		}
		d.last = *r
	}
	if d.pending > 0 {
		d.mu.Unlock()
		return
	}
	if d.delivered == 0 {
		// Every submission of the session was rejected, so it never opened.
		d.session--
		d.mu.Unlock()
		return
	}
	summary := Summary[V]{
		Session:   d.session,
		Delivered: d.delivered,
		Failed:    d.failed,
		Last:      d.last,
	}
	d.delivered = 0
	d.mu.Unlock()

	d.metrics.SessionCompleted(d.name)
	d.logger.Debug("session drained",
		zap.Uint64("session", summary.Session),
		zap.Int("delivered", summary.Delivered),
		zap.Int("failed", summary.Failed))

	if d.hooks.OnDone != nil {
		d.guard("on-done", func() { d.hooks.OnDone(summary) })
	}
}

func (d *Dispatcher[V]) guard(hook string, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			d.logger.Error("hook panicked", zap.String("hook", hook), zap.Any("panic", r))
		}
	}()
	fn()
}
