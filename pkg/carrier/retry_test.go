package carrier_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderbridge/shipping/pkg/carrier"
)

func fastPolicy(maxRetries uint64) carrier.RetryPolicy {
	return carrier.RetryPolicy{
		MaxRetries:      maxRetries,
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}
}

func transientErr() error {
	return carrier.NewCarrierError("test", carrier.ErrUnavailable, "SERVICE_UNAVAILABLE", "503")
}

func TestRetryPolicy_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := fastPolicy(5).Do(context.Background(), func() error {
		attempts++
		if attempts < 3 {
			return transientErr()
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetryPolicy_ExhaustsBudget(t *testing.T) {
	attempts := 0
	err := fastPolicy(5).Do(context.Background(), func() error {
		attempts++
		return transientErr()
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, carrier.ErrUnavailable)
	// 1 initial attempt plus 5 retries.
	assert.Equal(t, 6, attempts)
}

func TestRetryPolicy_AuthErrorNotRetried(t *testing.T) {
	attempts := 0
	err := fastPolicy(5).Do(context.Background(), func() error {
		attempts++
		return carrier.NewCarrierError("test", carrier.ErrAuth, "AUTH_FAILED", "401")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, carrier.ErrAuth)
	assert.Equal(t, 1, attempts)
}

func TestRetryPolicy_BadRequestNotRetried(t *testing.T) {
	attempts := 0
	err := fastPolicy(5).Do(context.Background(), func() error {
		attempts++
		return carrier.NewCarrierError("test", carrier.ErrBadRequest, "INVALID_INPUT", "400")
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, carrier.ErrBadRequest)
	assert.Equal(t, 1, attempts)
}

func TestRetryPolicy_ContextCancellationStopsRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	attempts := 0
	err := carrier.RetryPolicy{
		MaxRetries:      10,
		InitialInterval: 50 * time.Millisecond,
	}.Do(ctx, func() error {
		attempts++
		cancel()
		return transientErr()
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestRetryWithResult_ReturnsValue(t *testing.T) {
	attempts := 0
	got, err := carrier.RetryWithResult(context.Background(), fastPolicy(5), func() (string, error) {
		attempts++
		if attempts < 2 {
			return "", transientErr()
		}
		return "TRK123", nil
	})

	require.NoError(t, err)
	assert.Equal(t, "TRK123", got)
	assert.Equal(t, 2, attempts)
}

func TestRetryPolicy_ZeroMeansDefault(t *testing.T) {
	attempts := 0
	err := carrier.RetryPolicy{
		InitialInterval: time.Millisecond,
		MaxInterval:     2 * time.Millisecond,
	}.Do(context.Background(), func() error {
		attempts++
		return transientErr()
	})

	require.Error(t, err)
	assert.Equal(t, carrier.DefaultMaxRetries+1, attempts)
}
