package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestDoSucceedsAfterRetries(t *testing.T) {
	calls := 0
	v, err := Do(context.Background(), 3, time.Millisecond, RateLimited, func() (int, error) {
		calls++
		if calls < 3 {
			return 0, errors.New("rate limit exceeded")
		}
		return 42, nil
	})
	require.NoError(t, err)
	require.Equal(t, 42, v)
	require.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryableError(t *testing.T) {
	calls := 0
	boom := errors.New("boom")
	_, err := Do(context.Background(), 3, time.Millisecond, RateLimited, func() (int, error) {
		calls++
		return 0, boom
	})
	require.ErrorIs(t, err, boom)
	require.Equal(t, 1, calls)
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), 3, time.Millisecond, RateLimited, func() (int, error) {
		calls++
		return 0, errors.New("rate limit exceeded")
	})
	require.Error(t, err)
	require.Equal(t, 3, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Do(ctx, 3, time.Minute, RateLimited, func() (int, error) {
		return 0, errors.New("rate limit exceeded")
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestRateLimited(t *testing.T) {
	require.True(t, RateLimited(errors.New("Rate Limit reached")))
	require.False(t, RateLimited(errors.New("connection refused")))
	require.False(t, RateLimited(nil))
}
