package retry

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"
)

// Config holds the backoff schedule.
type Config struct {
	MaxRetries      int
	BaseDelay       time.Duration
	MaxDelay        time.Duration
	BackoffMultiple float64
}

// DefaultConfig returns the schedule used for provider calls.
func DefaultConfig() Config {
	return Config{
		MaxRetries:      2,
		BaseDelay:       200 * time.Millisecond,
		MaxDelay:        5 * time.Second,
		BackoffMultiple: 2.0,
	}
}

// StatusError carries an HTTP status so callers can decide retryability.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("unexpected status %d", e.StatusCode)
	}
	return fmt.Sprintf("unexpected status %d: %s", e.StatusCode, e.Body)
}

// Transient reports whether err is worth retrying: rate limits, server
// errors and timeouts. Context cancellation never is.
func Transient(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	var se *StatusError
	if errors.As(err, &se) {
		return se.StatusCode == 429 || se.StatusCode >= 500
	}
	return errors.Is(err, context.DeadlineExceeded) || isTimeout(err)
}

func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}

func (c Config) delay(attempt int) time.Duration {
	d := time.Duration(float64(c.BaseDelay) * math.Pow(c.BackoffMultiple, float64(attempt)))
	if d > c.MaxDelay {
		d = c.MaxDelay
	}
	return d
}

// Do runs fn until it succeeds, returns a non-retryable error, or the retry
// budget is spent. The last error is returned.
func Do(ctx context.Context, cfg Config, name string, logger *zap.Logger, fn func(attempt int) error) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	var err error
	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			d := cfg.delay(attempt - 1)
			logger.Debug("retrying", zap.String("call", name), zap.Int("attempt", attempt+1), zap.Duration("delay", d))
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(d):
			}
		}
		err = fn(attempt)
		if err == nil {
			return nil
		}
		if !Transient(err) {
			return err
		}
		logger.Warn("transient failure", zap.String("call", name), zap.Int("attempt", attempt+1), zap.Error(err))
	}
	return err
}
