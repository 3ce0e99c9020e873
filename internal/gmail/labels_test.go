package gmail

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestWithRateLimitRetrySuccess(t *testing.T) {
	calls := 0
	err := withRateLimitRetry(context.Background(), func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRateLimitRetryNonRateLimitError(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := withRateLimitRetry(context.Background(), func() error {
		calls++
		return boom
	})
	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls, "non-429 errors must not be retried")
}

func TestWithRateLimitRetryOtherAPIError(t *testing.T) {
	calls := 0
	err := withRateLimitRetry(context.Background(), func() error {
		calls++
		return &googleapi.Error{Code: 404, Message: "not found"}
	})

	var apiErr *googleapi.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, 404, apiErr.Code)
	assert.Equal(t, 1, calls)
}

func TestWithRateLimitRetryCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	err := withRateLimitRetry(ctx, func() error {
		calls++
		return &googleapi.Error{Code: 429, Message: "rate limit exceeded"}
	})

	// The cancelled context short-circuits the backoff sleep.
	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestWithRateLimitRetryWrappedRateLimit(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// errors.As must see through wrapping.
	err := withRateLimitRetry(ctx, func() error {
		return fmt.Errorf("batch call: %w", &googleapi.Error{Code: 429})
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestSleepBetweenChunks(t *testing.T) {
	require.NoError(t, sleepBetweenChunks(context.Background(), time.Millisecond))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.ErrorIs(t, sleepBetweenChunks(ctx, time.Hour), context.Canceled)
}
