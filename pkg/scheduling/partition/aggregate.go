package partition

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// aggregate folds partial results of one run into an accumulator and
// reports the outcome exactly once.
type aggregate[V any] struct {
	id       uuid.UUID
	start    time.Time
	combine  CombineFunc[V]
	notify   func(task.Result[V])
	cleanups []func() bool

	mu       sync.Mutex
	pending  int
	acc      V
	finished bool
}

func newAggregate[V any](identity V, pending int, combine CombineFunc[V], notify func(task.Result[V])) *aggregate[V] {
	return &aggregate[V]{
		id:      uuid.New(),
		start:   time.Now(),
		combine: combine,
		notify:  notify,
		pending: pending,
		acc:     identity,
	}
}

// partDone records the outcome of one partition.
func (a *aggregate[V]) partDone(v V, err error) {
	a.mu.Lock()
	if a.finished {
		a.mu.Unlock()
		return
	}
	if err == nil {
		err = a.fold(v)
	}
	if err != nil {
		a.finishLocked(errors.Incomplete(a.pending, err))
		return
	}
	a.pending--
	if a.pending > 0 {
		a.mu.Unlock()
		return
	}
	a.finishLocked(nil)
}

// abort ends the run early unless it already finished.
func (a *aggregate[V]) abort(cause error) {
	a.mu.Lock()
	if a.finished {
		a.mu.Unlock()
		return
	}
	a.finishLocked(errors.Incomplete(a.pending, cause))
}

// fold must be called with mu held.
func (a *aggregate[V]) fold(v V) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("combine panicked: %v", r)
		}
	}()
	a.acc = a.combine(a.acc, v)
	return nil
}

// finishLocked must be called with mu held; it releases mu.
func (a *aggregate[V]) finishLocked(err error) {
	a.finished = true
	r := task.Result[V]{TaskID: a.id, Err: err, Duration: time.Since(a.start), WorkerID: -1}
	if err == nil {
		r.Value = a.acc
	}
	cleanups := a.cleanups
	a.mu.Unlock()

	for _, stop := range cleanups {
		stop()
	}
	a.notify(r)
}

// onCleanup registers stop to run when the aggregate finishes.
func (a *aggregate[V]) onCleanup(stop func() bool) {
	a.mu.Lock()
	if a.finished {
		a.mu.Unlock()
		stop()
		return
	}
	a.cleanups = append(a.cleanups, stop)
	a.mu.Unlock()
}
