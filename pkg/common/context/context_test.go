package context

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
)

func TestWithTimeout(t *testing.T) {
	parent := context.Background()

	ctx, cancel := WithTimeout(parent, 0)
	cancel()
	assert.Equal(t, parent, ctx)
	assert.False(t, IsCanceled(ctx))

	ctx, cancel = WithTimeout(parent, time.Millisecond)
	defer cancel()
	<-ctx.Done()
	assert.True(t, IsCanceled(ctx))
	assert.True(t, IsTimedOut(ctx))
}

func TestErr(t *testing.T) {
	assert.NoError(t, Err(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()
	<-ctx.Done()
	assert.ErrorIs(t, Err(ctx), errors.ErrTaskTimeout)
	assert.ErrorIs(t, Err(ctx), context.DeadlineExceeded)

	ctx, cancel = context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, Err(ctx), context.Canceled)
	assert.False(t, IsTimedOut(ctx))

	cause := stderrors.New("engine stopped")
	cctx, ccancel := context.WithCancelCause(context.Background())
	ccancel(cause)
	assert.ErrorIs(t, Err(cctx), cause)
}
