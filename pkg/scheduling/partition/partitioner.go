package partition

import (
	"context"

	"go.uber.org/zap"

	ctxutil "github.com/vnykmshr/activeflow/pkg/common/context"
	"github.com/vnykmshr/activeflow/pkg/common/validation"
	"github.com/vnykmshr/activeflow/pkg/metrics"
	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
	"github.com/vnykmshr/activeflow/pkg/scheduling/workerpool"
)

// RangeFunc computes the partial result of one sub-range.
type RangeFunc[V any] func(ctx context.Context, r Range) (V, error)

// CombineFunc merges a partial result into the accumulator. Partial results
// arrive in completion order, so it must be associative and commutative.
type CombineFunc[V any] func(acc, part V) V

// Config holds configuration options for a Partitioner.
type Config struct {
	// Name labels the partitioner in logs and metrics.
	Name string

	// Policy chooses the number of partitions. Nil means DefaultPolicy.
	Policy Policy

	// Logger receives run outcomes. Nil disables logging.
	Logger *zap.Logger

	// Metrics records aggregate runs. Nil disables metrics.
	Metrics *metrics.Registry
}

// DefaultConfig returns a Config using DefaultPolicy.
func DefaultConfig() Config {
	return Config{
		Name:   "partitioner",
		Policy: DefaultPolicy,
	}
}

// Partitioner splits a range, runs the pieces on a worker pool and combines
// the partial results.
type Partitioner[V any] struct {
	pool     workerpool.Pool
	identity V
	work     RangeFunc[V]
	combine  CombineFunc[V]

	name    string
	policy  Policy
	logger  *zap.Logger
	metrics *metrics.Registry
}

// New creates a Partitioner. It panics if an argument is invalid.
func New[V any](pool workerpool.Pool, identity V, work RangeFunc[V], combine CombineFunc[V], config Config) *Partitioner[V] {
	p, err := NewSafe(pool, identity, work, combine, config)
	if err != nil {
		panic(err)
	}
	return p
}

// NewSafe creates a Partitioner, returning an error if an argument is invalid.
func NewSafe[V any](pool workerpool.Pool, identity V, work RangeFunc[V], combine CombineFunc[V], config Config) (*Partitioner[V], error) {
	if pool == nil {
		return nil, validation.ValidateNotNil("partition", "pool", nil)
	}
	if work == nil {
		return nil, validation.ValidateNotNil("partition", "work", nil)
	}
	if combine == nil {
		return nil, validation.ValidateNotNil("partition", "combine", nil)
	}
	if config.Name == "" {
		config.Name = DefaultConfig().Name
	}
	if config.Policy == nil {
		config.Policy = DefaultPolicy
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Partitioner[V]{
		pool:     pool,
		identity: identity,
		work:     work,
		combine:  combine,
		name:     config.Name,
		policy:   config.Policy,
		logger:   logger.Named(config.Name),
		metrics:  config.Metrics,
	}, nil
}

// Partitions returns the sub-ranges r would be split into.
func (p *Partitioner[V]) Partitions(r Range) []Range {
	n := p.policy(r, p.pool.Size())
	if n <= 0 {
		return nil
	}
	return Split(r, n)
}

// Compute combines the partial results over r and blocks until every
// partition has reported or ctx ends. An empty range yields the identity
// without running anything. If any partition fails, the pool drops one, or
// ctx ends first, the error matches errors.ErrAggregationIncomplete.
func (p *Partitioner[V]) Compute(ctx context.Context, r Range) (V, error) {
	c := make(chan task.Result[V], 1)
	p.ComputeAsync(ctx, r, func(res task.Result[V]) { c <- res })
	res := <-c
	return res.Value, res.Err
}

// ComputeAsync is Compute without blocking: sink receives exactly one Result,
// possibly before ComputeAsync returns.
func (p *Partitioner[V]) ComputeAsync(ctx context.Context, r Range, sink task.Sink[V]) {
	parts := p.Partitions(r)

	agg := newAggregate(p.identity, len(parts), p.combine, func(res task.Result[V]) {
		p.metrics.ObserveAggregate(p.name, len(parts), res.Err)
		if res.Err != nil {
			p.logger.Warn("aggregate incomplete",
				zap.Stringer("run_id", res.TaskID),
				zap.Stringer("range", r),
				zap.Error(res.Err))
		} else {
			p.logger.Debug("aggregate complete",
				zap.Stringer("run_id", res.TaskID),
				zap.Stringer("range", r),
				zap.Int("partitions", len(parts)),
				zap.Duration("duration", res.Duration))
		}
		sink.Deliver(res)
	})

	if len(parts) == 0 {
		agg.mu.Lock()
		agg.finishLocked(nil)
		return
	}

	agg.onCleanup(context.AfterFunc(ctx, func() {
		agg.abort(ctxutil.Err(ctx))
	}))

	for _, part := range parts {
		part := part
		var partial V
		_, err := p.pool.Submit(ctx, workerpool.TaskFunc(func(ctx context.Context) error {
			v, err := p.work(ctx, part)
			partial = v
			return err
		}), func(res workerpool.Result) {
			agg.partDone(partial, res.Error)
		})
		if err != nil {
			agg.abort(err)
			return
		}
	}
}
