package retry

import (
	"context"
	"strings"
	"time"
)

// Do runs op up to attempts times. After each failed try the delay doubles,
// starting from baseDelay. Errors rejected by retryable abort immediately;
// the last error is returned once the attempts are used up.
func Do[T any](ctx context.Context, attempts int, baseDelay time.Duration, retryable func(error) bool, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	delay := baseDelay
	for attempt := 0; attempt < attempts; attempt++ {
		v, err := op()
		if err == nil {
			return v, nil
		}
		lastErr = err

		if !retryable(err) || attempt == attempts-1 {
			return zero, err
		}

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return zero, ctx.Err()
		}
		delay *= 2
	}

	return zero, lastErr
}

// RateLimited reports whether err carries the processor's rate-limit marker.
func RateLimited(err error) bool {
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "rate limit")
}
