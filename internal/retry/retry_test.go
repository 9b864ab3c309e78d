package retry_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/signalnine/algolens/internal/retry"
)

func fastConfig(retries int) retry.Config {
	return retry.Config{MaxRetries: retries, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond, BackoffMultiple: 2}
}

func TestDoRetriesTransient(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastConfig(3), "test", nil, func(int) error {
		calls++
		if calls < 3 {
			return &retry.StatusError{StatusCode: 503}
		}
		return nil
	})
	assert.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnPermanent(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastConfig(3), "test", nil, func(int) error {
		calls++
		return &retry.StatusError{StatusCode: 400, Body: "bad request"}
	})
	assert.EqualError(t, err, "unexpected status 400: bad request")
	assert.Equal(t, 1, calls)
}

func TestDoExhausts(t *testing.T) {
	calls := 0
	err := retry.Do(context.Background(), fastConfig(2), "test", nil, func(int) error {
		calls++
		return &retry.StatusError{StatusCode: 429}
	})
	assert.Error(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cfg := retry.Config{MaxRetries: 3, BaseDelay: time.Hour, MaxDelay: time.Hour, BackoffMultiple: 1}
	err := retry.Do(ctx, cfg, "test", nil, func(int) error {
		cancel()
		return &retry.StatusError{StatusCode: 500}
	})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestTransient(t *testing.T) {
	assert.True(t, retry.Transient(&retry.StatusError{StatusCode: 502}))
	assert.True(t, retry.Transient(context.DeadlineExceeded))
	assert.False(t, retry.Transient(context.Canceled))
	assert.False(t, retry.Transient(errors.New("boom")))
	assert.False(t, retry.Transient(nil))
}
