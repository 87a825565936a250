package scheduler

import (
	"context"

	"github.com/cenkalti/backoff/v5"
)

// WithRetry wraps job so that a failed run is retried, at most maxTries
// attempts in total, waiting between attempts as b dictates. A nil b means
// exponential backoff with the library defaults.
func WithRetry(job Job, b backoff.BackOff, maxTries uint) Job {
	return func(ctx context.Context) error {
		policy := b
		if policy == nil {
			policy = backoff.NewExponentialBackOff()
		}
		_, err := backoff.Retry(ctx, func() (struct{}, error) {
			return struct{}{}, job(ctx)
		}, backoff.WithBackOff(policy), backoff.WithMaxTries(maxTries))
		return err
	}
}
