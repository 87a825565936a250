package queue

import (
	"context"
	"sync"

	"github.com/gammazero/deque"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
)

// Queue is an unbounded, thread-safe FIFO queue.
//
// Enqueue never blocks beyond acquiring the internal lock. Dequeue suspends
// until an item is available, the queue is closed and empty, or the context
// ends. Items are returned in exactly the order the lock admitted them.
type Queue[T any] struct {
	mu     sync.Mutex
	items  deque.Deque[T]
	closed bool

	// ready holds at most one pending wake-up for a suspended consumer.
	ready chan struct{}
	done  chan struct{}
}

// New creates an empty queue.
func New[T any]() *Queue[T] {
	return &Queue[T]{
		ready: make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Enqueue appends item to the back of the queue. It fails with
// errors.ErrQueueClosed once Close has been called.
func (q *Queue[T]) Enqueue(item T) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return errors.ErrQueueClosed
	}
	q.items.PushBack(item)
	q.wake()
	return nil
}

// Dequeue removes and returns the item at the front of the queue, suspending
// while the queue is empty. Items enqueued before Close are still returned;
// once the queue is closed and drained, Dequeue returns errors.ErrQueueClosed.
func (q *Queue[T]) Dequeue(ctx context.Context) (T, error) {
	var zero T
	for {
		q.mu.Lock()
		if q.items.Len() > 0 {
			item := q.items.PopFront()
			if q.items.Len() > 0 {
				// Pass the wake-up on so another consumer does not sleep on a
				// non-empty queue.
				q.wake()
			}
			q.mu.Unlock()
			return item, nil
		}
		closed := q.closed
		q.mu.Unlock()

		if closed {
			return zero, errors.ErrQueueClosed
		}

		select {
		case <-q.ready:
		case <-q.done:
		case <-ctx.Done():
			return zero, ctx.Err()
		}
	}
}

// TryDequeue removes the front item without blocking.
func (q *Queue[T]) TryDequeue() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.items.Len() == 0 {
		var zero T
		return zero, false
	}
	return q.items.PopFront(), true
}

// DrainPending removes and returns every queued item in FIFO order. It is the
// explicit cancellation path: the caller owns the returned items.
func (q *Queue[T]) DrainPending() []T {
	q.mu.Lock()
	defer q.mu.Unlock()

	items := make([]T, 0, q.items.Len())
	for q.items.Len() > 0 {
		items = append(items, q.items.PopFront())
	}
	return items
}

// Close stops the queue from accepting new items and wakes every suspended
// consumer. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()

	if !q.closed {
		q.closed = true
		close(q.done)
	}
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Done returns a channel that is closed when the queue is closed.
func (q *Queue[T]) Done() <-chan struct{} {
	return q.done
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// wake must be called with mu held.
func (q *Queue[T]) wake() {
	select {
	case q.ready <- struct{}{}:
	default:
	}
}
