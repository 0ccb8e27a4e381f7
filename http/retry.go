package http

import (
	"context"
	"time"

	"github.com/fwojciec/prepcat"
)

// DefaultRetryDelays returns the backoff delays for idempotent request
// retries: 100ms, 200ms, 400ms.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 400 * time.Millisecond}
}

// withRetry calls fn until it succeeds, returns a non-retryable error, or
// the delays are exhausted. It makes len(delays)+1 attempts at most.
func withRetry(ctx context.Context, delays []time.Duration, fn func() error) error {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		err := fn()
		if err == nil || !retryable(err) {
			return err
		}
		lastErr = err

		if attempt == len(delays) {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return lastErr
}

// retryable reports whether err may succeed on a later attempt.
// Application errors such as not found or invalid input never do.
func retryable(err error) bool {
	return prepcat.ErrorCode(err) == prepcat.EINTERNAL
}
