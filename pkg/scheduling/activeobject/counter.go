package activeobject

import (
	"context"

	"github.com/vnykmshr/activeflow/pkg/scheduling/task"
)

// Counter is an int64 owned by an engine. Every operation runs on the
// engine's worker, so no two operations ever overlap.
type Counter struct {
	engine *Engine
	value  int64
}

// NewCounter creates a counter served by e.
func NewCounter(e *Engine, initial int64) *Counter {
	return &Counter{engine: e, value: initial}
}

// Get returns the current value.
func (c *Counter) Get(ctx context.Context) (int64, error) {
	return c.do(ctx, func() int64 { return c.value })
}

// IncrementAndGet adds one and returns the new value.
func (c *Counter) IncrementAndGet(ctx context.Context) (int64, error) {
	return c.do(ctx, func() int64 {
		c.value++
		return c.value
	})
}

// GetAndIncrement adds one and returns the previous value.
func (c *Counter) GetAndIncrement(ctx context.Context) (int64, error) {
	return c.do(ctx, func() int64 {
		v := c.value
		c.value++
		return v
	})
}

// DecrementAndGet subtracts one and returns the new value.
func (c *Counter) DecrementAndGet(ctx context.Context) (int64, error) {
	return c.do(ctx, func() int64 {
		c.value--
		return c.value
	})
}

// GetAndDecrement subtracts one and returns the previous value.
func (c *Counter) GetAndDecrement(ctx context.Context) (int64, error) {
	return c.do(ctx, func() int64 {
		v := c.value
		c.value--
		return v
	})
}

func (c *Counter) do(ctx context.Context, op func() int64) (int64, error) {
	return Call(ctx, c.engine, task.Func[int64](func(context.Context) (int64, error) {
		return op(), nil
	}))
}
