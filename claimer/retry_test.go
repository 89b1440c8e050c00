package claimer

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type waitRecorder struct {
	waits []time.Duration
}

func (w *waitRecorder) wait(_ context.Context, d time.Duration) error {
	w.waits = append(w.waits, d)
	return nil
}

func TestRetrySucceedsOnThirdAttempt(t *testing.T) {
	rec := &waitRecorder{}
	policy := RetryPolicy{Attempts: 3, Backoff: 2 * time.Second, Wait: rec.wait}

	calls := 0
	res := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (string, error) {
		calls++
		if attempt < 3 {
			return "", errors.New("rate limited")
		}
		return "ok", nil
	})

	require.True(t, res.OK())
	assert.Equal(t, "ok", res.Value)
	assert.Equal(t, 3, res.Attempts)
	assert.Equal(t, 3, calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second}, rec.waits)
	assert.NoError(t, res.Err)
}

func TestRetryExhausted(t *testing.T) {
	rec := &waitRecorder{}
	policy := RetryPolicy{Attempts: 3, Backoff: 2 * time.Second, Wait: rec.wait}
	last := errors.New("third failure")

	calls := 0
	res := Retry(context.Background(), policy, func(ctx context.Context, attempt int) (int, error) {
		calls++
		if attempt == 3 {
			return 7, last
		}
		return 7, errors.New("failure")
	})

	require.False(t, res.OK())
	assert.True(t, res.Exhausted)
	assert.Equal(t, 0, res.Value)
	assert.Equal(t, 3, calls)
	assert.Len(t, rec.waits, 2)
	assert.True(t, errors.Is(res.Err, ErrRetriesExhausted))
	assert.True(t, errors.Is(res.Err, last))

	var exhaustedErr *ExhaustedError
	require.True(t, errors.As(res.Err, &exhaustedErr))
	assert.Equal(t, 3, exhaustedErr.Attempts)
}

func TestRetryFirstAttemptNoWait(t *testing.T) {
	rec := &waitRecorder{}
	res := Retry(context.Background(), RetryPolicy{Attempts: 3, Wait: rec.wait}, func(ctx context.Context, attempt int) (bool, error) {
		return true, nil
	})

	require.True(t, res.OK())
	assert.Equal(t, 1, res.Attempts)
	assert.Empty(t, rec.waits)
}

func TestRetryZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	res := Retry(context.Background(), RetryPolicy{}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("boom")
	})

	assert.False(t, res.OK())
	assert.Equal(t, 1, calls)
}

func TestRetryStopsOnCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	res := Retry(ctx, RetryPolicy{Attempts: 3, Backoff: time.Hour}, func(ctx context.Context, attempt int) (int, error) {
		calls++
		return 0, errors.New("boom")
	})

	assert.False(t, res.OK())
	assert.Equal(t, 1, calls)
	assert.True(t, errors.Is(res.Err, context.Canceled))
}

func TestRetryDefaultWaitSleeps(t *testing.T) {
	start := time.Now()
	res := Retry(context.Background(), RetryPolicy{Attempts: 2, Backoff: 20 * time.Millisecond}, func(ctx context.Context, attempt int) (int, error) {
		if attempt == 1 {
			return 0, errors.New("boom")
		}
		return attempt, nil
	})

	require.True(t, res.OK())
	assert.Equal(t, 2, res.Value)
	assert.GreaterOrEqual(t, time.Since(start), 20*time.Millisecond)
}
