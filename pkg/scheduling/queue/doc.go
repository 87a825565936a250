// Package queue provides the unbounded multi-producer work queue that feeds
// activeflow's serial engines and worker pools.
//
// Producers call Enqueue from any goroutine; it only takes a lock. Consumers
// call Dequeue, which suspends on a channel while the queue is empty instead
// of polling. Closing the queue rejects new items with errors.ErrQueueClosed
// while letting consumers drain what was already accepted; DrainPending hands
// the remainder back to the caller when pending work must be cancelled
// instead.
//
// Storage is a github.com/gammazero/deque ring buffer, so the queue grows and
// shrinks with demand and imposes no capacity limit.
package queue
