package workerpool

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	ctxutil "github.com/vnykmshr/activeflow/pkg/common/context"
	"github.com/vnykmshr/activeflow/pkg/common/errors"
)

// Submit adds a task to the pool for execution.
func (p *workerPool) Submit(ctx context.Context, task Task, done func(Result)) (uuid.UUID, error) {
	if task == nil {
		return uuid.Nil, errors.NewValidationError("workerpool", "task", nil, "cannot be nil")
	}

	if ctx == nil {
		ctx = context.Background()
	}

	// Check if context is already canceled before attempting to queue
	// This ensures deterministic behavior for pre-canceled contexts
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	s := submission{
		id:   uuid.New(),
		ctx:  ctx,
		task: task,
		done: done,
	}
	if err := p.queue.Enqueue(s); err != nil {
		return uuid.Nil, err
	}

	p.totalSubmitted.Add(1)
	p.metrics.TaskSubmitted(p.config.Name)
	p.metrics.SetQueueDepth(p.config.Name, p.queue.Len())
	return s.id, nil
}

// Shutdown initiates a graceful shutdown of the pool.
func (p *workerPool) Shutdown() <-chan struct{} {
	p.shutdownOnce.Do(func() {
		p.queue.Close()
		p.logger.Debug("shutdown requested", zap.Int("queued", p.queue.Len()))

		// Wait for all workers to finish in a separate goroutine
		go func() {
			p.workerWg.Wait()
			p.cancel()
			p.updateMetrics()
			close(p.done)
		}()
	})

	return p.done
}

// ShutdownWithTimeout shuts down the pool, cancelling whatever is left once
// timeout passes.
func (p *workerPool) ShutdownWithTimeout(timeout time.Duration) <-chan struct{} {
	done := p.Shutdown()

	go func() {
		timer := time.NewTimer(timeout)
		defer timer.Stop()

		select {
		case <-done:
		case <-timer.C:
			pending := p.queue.DrainPending()
			for _, s := range pending {
				p.finish(s, Result{TaskID: s.id, Task: s.task, Error: errors.ErrQueueClosed, WorkerID: -1})
			}
			p.metrics.TaskCancelled(p.config.Name, len(pending))
			p.logger.Warn("shutdown timed out, remaining tasks cancelled", zap.Int("cancelled", len(pending)))
			p.cancel()
		}
	}()

	return done
}

// finish delivers r to the submitter's callback.
func (p *workerPool) finish(s submission, r Result) {
	if s.done == nil {
		return
	}
	defer func() {
		if rec := recover(); rec != nil {
			p.logger.Error("completion callback panicked", zap.Stringer("task_id", s.id), zap.Any("panic", rec))
		}
	}()
	s.done(r)
}

// worker represents a single worker in the pool.
type worker struct {
	id   int
	pool *workerPool
}

// run is the main loop for a worker.
func (w *worker) run() {
	defer w.pool.workerWg.Done()

	if w.pool.config.OnWorkerStart != nil {
		w.pool.config.OnWorkerStart(w.id)
	}
	defer func() {
		if w.pool.config.OnWorkerStop != nil {
			w.pool.config.OnWorkerStop(w.id)
		}
	}()

	for {
		s, err := w.pool.queue.Dequeue(w.pool.ctx)
		if err != nil {
			// Queue closed and drained, or shutdown gave up waiting.
			return
		}
		w.executeTask(s)
	}
}

// executeTask executes a single task with the provided context.
func (w *worker) executeTask(s submission) {
	p := w.pool
	p.activeWorkers.Add(1)
	p.updateMetrics()

	if p.config.OnTaskStart != nil {
		p.config.OnTaskStart(w.id, s.task)
	}

	start := time.Now()
	err := w.invoke(s)
	result := Result{
		TaskID:   s.id,
		Task:     s.task,
		Error:    err,
		Duration: time.Since(start),
		WorkerID: w.id,
	}

	p.totalCompleted.Add(1)
	p.activeWorkers.Add(-1)
	p.metrics.ObserveTask(p.config.Name, result.Duration, err)
	p.updateMetrics()

	if p.config.OnTaskComplete != nil {
		p.config.OnTaskComplete(w.id, result)
	}
	p.finish(s, result)
}

// invoke runs the task under the submission context, the pool's task
// timeout and the pool's forced-shutdown cancellation.
func (w *worker) invoke(s submission) (err error) {
	p := w.pool

	// Start with the caller-provided context
	cctx, cancel := context.WithCancelCause(s.ctx)
	defer cancel(nil)
	stop := context.AfterFunc(p.ctx, func() { cancel(errors.ErrQueueClosed) })
	defer stop()

	// The effective timeout is the minimum of the context deadline and TaskTimeout
	ctx, cancelTimeout := ctxutil.WithTimeout(cctx, p.config.TaskTimeout)
	defer cancelTimeout()

	// Handle panics during task execution
	defer func() {
		if r := recover(); r != nil {
			if p.config.PanicHandler != nil {
				p.config.PanicHandler(s.task, r)
			}
			p.logger.Error("task panicked", zap.Stringer("task_id", s.id), zap.Int("worker_id", w.id), zap.Any("panic", r))
			err = errors.NewPanicError(s.id, r, debug.Stack())
		}
	}()

	if execErr := s.task.Execute(ctx); execErr != nil {
		return errors.NewExecutionError(s.id, execErr)
	}
	return nil
}
