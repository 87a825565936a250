// Package factorial computes n! by multiplying contiguous sub-ranges of
// [1, n+1) on a worker pool and folding the partial products.
//
//	p := factorial.NewPartitioner(pool, partition.DefaultConfig())
//	v, err := factorial.Compute(ctx, p, 11) // 39916800
//
// Products are int64, so 20! is the largest supported value.
package factorial
