package resilience

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy declares how an operation is retried: a bounded number of
// attempts, each under its own timeout, with a pause between attempts.
// Stepback behavior (moving a queried base time backward per attempt) lives
// in the operation itself, which receives the attempt index.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts, including the first.
	// Default: 3
	MaxAttempts uint64

	// AttemptTimeout bounds each individual attempt. Zero means the parent
	// context's deadline is the only bound.
	AttemptTimeout time.Duration

	// Interval is the pause between attempts. Default: 100ms.
	Interval time.Duration
}

// Permanent marks err as non-retryable: Retry stops immediately and returns
// it. Timeouts use this so a slow provider is abandoned rather than hammered.
func Permanent(err error) error {
	return backoff.Permanent(err)
}

// Retry runs op under the policy. The attempt index starts at 0 so the
// operation can derive its stepped-back query parameters from it. When every
// attempt fails the last attempt's error is returned.
func Retry(ctx context.Context, policy RetryPolicy, op func(ctx context.Context, attempt int) error) error {
	maxAttempts := policy.MaxAttempts
	if maxAttempts == 0 {
		maxAttempts = 3
	}
	interval := policy.Interval
	if interval == 0 {
		interval = 100 * time.Millisecond
	}

	attempt := 0
	run := func() error {
		attemptCtx := ctx
		if policy.AttemptTimeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, policy.AttemptTimeout)
			defer cancel()
		}
		err := op(attemptCtx, attempt)
		attempt++
		return err
	}

	bo := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), maxAttempts-1),
		ctx,
	)

	return backoff.Retry(run, bo)
}
