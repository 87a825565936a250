package task

import (
	"context"
	"sync"

	"github.com/google/uuid"

	ctxutil "github.com/vnykmshr/activeflow/pkg/common/context"
)

// Future is a single-slot hand-off carrying one task's Result to one waiter.
//
// Exactly one Complete call succeeds. A waiter that gives up abandons the
// future, after which Complete reports false and the result is dropped
// rather than delivered to a channel nobody reads.
type Future[V any] struct {
	id uuid.UUID
	c  chan Result[V]

	mu        sync.Mutex
	completed bool
	abandoned bool
}

// NewFuture creates a pending future for task id.
func NewFuture[V any](id uuid.UUID) *Future[V] {
	return &Future[V]{
		id: id,
		c:  make(chan Result[V], 1),
	}
}

// ID returns the id of the task the future belongs to.
func (f *Future[V]) ID() uuid.UUID {
	return f.id
}

// Complete publishes r. It returns false if the future was already completed
// or its waiter abandoned it.
func (f *Future[V]) Complete(r Result[V]) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completed || f.abandoned {
		return false
	}
	f.completed = true
	f.c <- r
	return true
}

// Abandoned reports whether the waiter has given up on the future.
func (f *Future[V]) Abandoned() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.abandoned
}

// C returns the channel that receives the single result.
func (f *Future[V]) C() <-chan Result[V] {
	return f.c
}

// Wait blocks until the result is published or ctx ends. A deadline yields an
// error matching errors.ErrTaskTimeout; cancellation yields the cancel cause.
// Either way the future is abandoned. A result that raced in before the
// abandonment is still returned.
func (f *Future[V]) Wait(ctx context.Context) (V, error) {
	select {
	case r := <-f.c:
		return r.Value, r.Err
	case <-ctx.Done():
	}

	f.mu.Lock()
	if f.completed {
		f.mu.Unlock()
		r := <-f.c
		return r.Value, r.Err
	}
	f.abandoned = true
	f.mu.Unlock()

	var zero V
	return zero, ctxutil.Err(ctx)
}
