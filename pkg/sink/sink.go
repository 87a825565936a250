package sink

import (
	"go.uber.org/zap"

	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// Fanout composes independent subscribers into one sink. See task.Fanout.
func Fanout[V any](sinks ...task.Sink[V]) task.Sink[V] {
	return task.Fanout(sinks...)
}

// Channel returns a sink that sends every result on c. The send blocks the
// worker until the receiver is ready, so c should be buffered or drained
// promptly.
func Channel[V any](c chan<- task.Result[V]) task.Sink[V] {
	return func(r task.Result[V]) {
		c <- r
	}
}

// Log returns a sink that logs every result: successes at debug level,
// failures at warn level.
func Log[V any](logger *zap.Logger) task.Sink[V] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(r task.Result[V]) {
		fields := []zap.Field{
			zap.Stringer("task_id", r.TaskID),
			zap.Duration("duration", r.Duration),
		}
		if r.Err != nil {
			logger.Warn("task failed", append(fields, zap.Error(r.Err))...)
			return
		}
		logger.Debug("task completed", append(fields, zap.Any("value", r.Value))...)
	}
}

// Filter returns a sink that forwards only the results keep accepts.
func Filter[V any](keep func(task.Result[V]) bool, next task.Sink[V]) task.Sink[V] {
	return func(r task.Result[V]) {
		if keep(r) {
			next.Deliver(r)
		}
	}
}

// Failures forwards only failed results.
func Failures[V any](next task.Sink[V]) task.Sink[V] {
	return Filter(task.Result[V].Failed, next)
}
