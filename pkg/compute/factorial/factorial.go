package factorial

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
	"github.com/vnykmshr/activeflow/pkg/common/validation"
	"github.com/vnykmshr/activeflow/pkg/scheduling/partition"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
	"github.com/vnykmshr/activeflow/pkg/scheduling/workerpool"
)

// MaxN is the largest n whose factorial fits in an int64.
const MaxN = 20

// ErrOverflow is returned when a product does not fit in an int64.
var ErrOverflow = errors.New("factorial: int64 overflow")

// Product multiplies every integer in r. The product of an empty range is 1.
func Product(r partition.Range) (int64, error) {
	acc := int64(1)
	for i := r.Start; i < r.End; i++ {
		v := int64(i)
		if v == 0 {
			return 0, nil
		}
		if !fits(acc, v) {
			return 0, fmt.Errorf("%w: product of %s", ErrOverflow, r)
		}
		acc *= v
	}
	return acc, nil
}

// fits reports whether a*b stays within int64.
func fits(a, b int64) bool {
	if b < 0 {
		if a < 0 {
			return a >= math.MaxInt64/b
		}
		return a <= math.MinInt64/b
	}
	if a < 0 {
		return a >= math.MinInt64/b
	}
	return a <= math.MaxInt64/b
}

// Bounds returns the half-open range whose product is n!.
func Bounds(n int) partition.Range {
	return partition.Range{Start: 1, End: n + 1}
}

// Of computes n! on the calling goroutine.
func Of(n int) (int64, error) {
	if err := check(n); err != nil {
		return 0, err
	}
	return Product(Bounds(n))
}

func check(n int) error {
	if err := validation.ValidateNonNegative("factorial", "n", n); err != nil {
		return err
	}
	if n > MaxN {
		return fmt.Errorf("%w: %d! exceeds %d!", ErrOverflow, n, MaxN)
	}
	return nil
}

// Task returns a task computing the product of r, for use with an engine or
// dispatcher.
func Task(r partition.Range) task.Task[int64] {
	return task.Func[int64](func(ctx context.Context) (int64, error) {
		if err := ctx.Err(); err != nil {
			return 0, err
		}
		return Product(r)
	})
}

// NewPartitioner returns a partitioner multiplying sub-ranges on pool.
func NewPartitioner(pool workerpool.Pool, config partition.Config) *partition.Partitioner[int64] {
	return partition.New(pool, int64(1),
		func(ctx context.Context, r partition.Range) (int64, error) {
			return Product(r)
		},
		func(acc, part int64) int64 { return acc * part },
		config)
}

// Compute calculates n! with p. Partial products of a valid n never
// overflow, so only the bound on n is checked up front.
func Compute(ctx context.Context, p *partition.Partitioner[int64], n int) (int64, error) {
	if err := check(n); err != nil {
		return 0, err
	}
	return p.Compute(ctx, Bounds(n))
}

// ComputeAsync is Compute without blocking: sink receives exactly one
// Result. An out-of-range n is reported through sink without running
// anything.
func ComputeAsync(ctx context.Context, p *partition.Partitioner[int64], n int, sink task.Sink[int64]) {
	if err := check(n); err != nil {
		sink.Deliver(task.Result[int64]{TaskID: uuid.New(), Err: err, WorkerID: -1})
		return
	}
	p.ComputeAsync(ctx, Bounds(n), sink)
}
