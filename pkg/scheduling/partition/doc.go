// Package partition implements a partitioner/aggregator: a half-open range
// is split into contiguous sub-ranges, each sub-range is computed on a
// workerpool.Pool, and the partial results are folded into one value.
//
//	pool := workerpool.New(runtime.NumCPU())
//	sum := partition.New(pool, 0,
//		func(ctx context.Context, r partition.Range) (int, error) {
//			s := 0
//			for i := r.Start; i < r.End; i++ {
//				s += i
//			}
//			return s, nil
//		},
//		func(acc, part int) int { return acc + part },
//		partition.DefaultConfig())
//
//	total, err := sum.Compute(ctx, partition.Range{Start: 1, End: 101}) // 5050
//
// How many partitions are used is a Policy decision and never changes the
// result. Every run tracks its outstanding partitions under its own lock and
// completes exactly once. A run that cannot finish reports an error matching
// errors.ErrAggregationIncomplete, wrapping the cause, instead of leaving the
// caller waiting.
package partition
