package carrier

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// DefaultMaxRetries is the bounded retry limit for transient carrier failures.
const DefaultMaxRetries = 5

// RetryPolicy wraps carrier operations that may fail transiently with bounded
// retry. Only ErrUnavailable is retried; every other error kind propagates
// immediately. Sleeps between attempts use exponential backoff with jitter
// and are cancellable through the context.
type RetryPolicy struct {
	// MaxRetries is the number of retries after the first attempt, so an
	// operation is attempted at most MaxRetries+1 times. Zero means
	// DefaultMaxRetries.
	MaxRetries uint64

	// InitialInterval is the first backoff delay. Zero means the backoff
	// library default.
	InitialInterval time.Duration

	// MaxInterval caps the backoff delay. Zero means the library default.
	MaxInterval time.Duration
}

func (p RetryPolicy) backoff(ctx context.Context) backoff.BackOffContext {
	b := backoff.NewExponentialBackOff()
	if p.InitialInterval > 0 {
		b.InitialInterval = p.InitialInterval
	}
	if p.MaxInterval > 0 {
		b.MaxInterval = p.MaxInterval
	}
	b.MaxElapsedTime = 0 // bounded by attempt count, not wall clock

	maxRetries := p.MaxRetries
	if maxRetries == 0 {
		maxRetries = DefaultMaxRetries
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, maxRetries), ctx)
}

// Do runs op with the same parameters until it succeeds, fails with a
// non-transient error, or the retry budget is exhausted. The last error is
// propagated after exhaustion.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	wrapped := func() error {
		err := op()
		if err != nil && !IsTransient(err) {
			return backoff.Permanent(err)
		}
		return err
	}
	return backoff.Retry(wrapped, p.backoff(ctx))
}

// RetryWithResult runs op under policy p and returns its result.
func RetryWithResult[T any](ctx context.Context, p RetryPolicy, op func() (T, error)) (T, error) {
	wrapped := func() (T, error) {
		v, err := op()
		if err != nil && !IsTransient(err) {
			return v, backoff.Permanent(err)
		}
		return v, err
	}
	return backoff.RetryWithData(wrapped, p.backoff(ctx))
}
