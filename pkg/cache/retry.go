package cache

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNetwork marks a backend that could not be reached.
	ErrNetwork = errors.New("network error")

	// ErrClosed marks an operation on a closed backend.
	ErrClosed = errors.New("cache closed")
)

// retryDelay is the wait before the second attempt of RetryWithBackoff.
var retryDelay = 200 * time.Millisecond

// RetryableError marks a transient failure worth another attempt.
type RetryableError struct{ Err error }

func (e *RetryableError) Error() string { return e.Err.Error() }
func (e *RetryableError) Unwrap() error { return e.Err }

// Retryable marks err as transient. A nil err stays nil.
func Retryable(err error) error {
	if err == nil {
		return nil
	}
	return &RetryableError{Err: err}
}

// IsRetryable reports whether err carries a RetryableError.
func IsRetryable(err error) bool {
	var re *RetryableError
	return errors.As(err, &re)
}

// Backoff retries an operation with a doubling delay.
type Backoff struct {
	Attempts int
	Delay    time.Duration
}

// Do calls fn until it succeeds, fails with an error not marked
// [Retryable], or Attempts calls have been made. The last error is returned
// as is. Cancelling ctx between attempts returns ctx.Err().
func (b Backoff) Do(ctx context.Context, fn func() error) error {
	wait := b.Delay
	for n := 1; ; n++ {
		err := fn()
		if err == nil || !IsRetryable(err) || n >= b.Attempts {
			return err
		}
		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
		wait *= 2
	}
}

// RetryWithBackoff makes up to three attempts of fn.
func RetryWithBackoff(ctx context.Context, fn func() error) error {
	return Backoff{Attempts: 3, Delay: retryDelay}.Do(ctx, fn)
}
