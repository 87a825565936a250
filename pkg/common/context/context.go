// Package context holds the context helpers shared by activeflow components.
package context

import (
	"context"
	"time"

	"github.com/vnykmshr/activeflow/pkg/common/errors"
)

// WithTimeout bounds parent by timeout. A timeout that is not positive
// leaves parent unbounded and returns a no-op cancel function.
func WithTimeout(parent context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return parent, func() {}
	}
	return context.WithTimeout(parent, timeout)
}

// IsCanceled returns true if the context has been canceled
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// IsTimedOut returns true if the context was canceled due to a timeout
func IsTimedOut(ctx context.Context) bool {
	return errors.Is(ctx.Err(), context.DeadlineExceeded)
}

// Err reports why ctx ended, or nil while it is live. An expired deadline
// matches both errors.ErrTaskTimeout and context.DeadlineExceeded; any
// other ending reports the cancellation cause.
func Err(ctx context.Context) error {
	err := ctx.Err()
	if err == nil {
		return nil
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return errors.Timeout(err)
	}
	return context.Cause(ctx)
}
