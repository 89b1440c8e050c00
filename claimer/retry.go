package claimer

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// ErrRetriesExhausted marks a Result whose operation never succeeded.
var ErrRetriesExhausted = errors.New("retry time over")

// RetryPolicy is a fixed delay policy. Wait defaults to a context aware sleep.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
	Wait     func(ctx context.Context, d time.Duration) error
}

// Result carries either Value or, when Exhausted, the last error seen.
type Result[T any] struct {
	Value     T
	Attempts  int
	Exhausted bool
	Err       error
}

func (r Result[T]) OK() bool {
	return !r.Exhausted
}

// Retry runs op until it succeeds or the policy runs out of attempts, waiting
// Backoff between attempts. It never returns an error directly: the caller
// must look at Exhausted.
func Retry[T any](ctx context.Context, policy RetryPolicy, op func(ctx context.Context, attempt int) (T, error)) Result[T] {
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	wait := policy.Wait
	if wait == nil {
		wait = sleep
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		v, err := op(ctx, attempt)
		if err == nil {
			return Result[T]{Value: v, Attempts: attempt}
		}
		lastErr = err

		if attempt == attempts {
			return exhausted[T](attempt, lastErr)
		}
		if err := wait(ctx, policy.Backoff); err != nil {
			return exhausted[T](attempt, errors.Wrapf(err, "waiting after %v", lastErr))
		}
	}
	return exhausted[T](attempts, lastErr)
}

// ExhaustedError keeps the last failure of an exhausted Retry.
type ExhaustedError struct {
	Attempts int
	Last     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("%s after %d attempts: %v", ErrRetriesExhausted, e.Attempts, e.Last)
}

func (e *ExhaustedError) Unwrap() error { return e.Last }

func (e *ExhaustedError) Is(target error) bool { return target == ErrRetriesExhausted }

func exhausted[T any](attempts int, err error) Result[T] {
	return Result[T]{
		Attempts:  attempts,
		Exhausted: true,
		Err:       &ExhaustedError{Attempts: attempts, Last: err},
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
