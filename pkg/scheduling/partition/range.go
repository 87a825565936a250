package partition

import "fmt"

// Range is the half-open integer interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Size returns the number of integers in the range.
func (r Range) Size() int {
	if r.End <= r.Start {
		return 0
	}
	return r.End - r.Start
}

// Empty reports whether the range contains no integers.
func (r Range) Empty() bool {
	return r.Size() == 0
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// Split divides r into at most parts contiguous, non-overlapping sub-ranges
// whose sizes differ by at most one. The sub-ranges cover r exactly and are
// returned in ascending order. An empty range yields no sub-ranges.
func Split(r Range, parts int) []Range {
	size := r.Size()
	if size == 0 {
		return nil
	}
	if parts < 1 {
		parts = 1
	}
	if parts > size {
		parts = size
	}

	base, extra := size/parts, size%parts
	out := make([]Range, 0, parts)
	start := r.Start
	for i := 0; i < parts; i++ {
		n := base
		if i < extra {
			n++
		}
		out = append(out, Range{Start: start, End: start + n})
		start += n
	}
	return out
}

// DefaultSplitFactor is the per-worker size a range must exceed before
// ThresholdPolicy splits it.
const DefaultSplitFactor = 2

// Policy decides how many partitions a range is divided into given the number
// of workers available. Any positive answer yields the same combined result;
// only the amount of parallelism changes.
type Policy func(r Range, workers int) int

// ThresholdPolicy splits a range into one partition per worker once its size
// exceeds splitFactor*workers, and otherwise runs it as a single partition.
func ThresholdPolicy(splitFactor int) Policy {
	return func(r Range, workers int) int {
		size := r.Size()
		switch {
		case size == 0:
			return 0
		case workers > 1 && size > splitFactor*workers:
			return workers
		default:
			return 1
		}
	}
}

// DefaultPolicy is ThresholdPolicy(DefaultSplitFactor).
var DefaultPolicy = ThresholdPolicy(DefaultSplitFactor)

// Fixed returns a policy that always asks for n partitions.
func Fixed(n int) Policy {
	return func(r Range, _ int) int {
		if r.Empty() {
			return 0
		}
		return n
	}
}
