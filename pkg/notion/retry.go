package notion

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// RetryConfig holds retry configuration.
type RetryConfig struct {
	MaxAttempts int           // attempts including the first, 1 disables retries
	InitialWait time.Duration // wait before the second attempt
	MaxWait     time.Duration // upper bound of a single wait
	Multiplier  float64       // backoff multiplier
	Jitter      float64       // jitter factor (0-1)
}

func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts: 3,
		InitialWait: 500 * time.Millisecond,
		MaxWait:     10 * time.Second,
		Multiplier:  2.0,
		Jitter:      0.1,
	}
}

// retryableError marks an error worth retrying, optionally carrying the wait
// the server asked for.
type retryableError struct {
	err   error
	after time.Duration
}

func (e retryableError) Error() string { return e.err.Error() }
func (e retryableError) Unwrap() error { return e.err }

func retryable(err error, after time.Duration) error {
	if err == nil {
		return nil
	}
	return retryableError{err: err, after: after}
}

func retryableIf(ok bool, err error, after time.Duration) error {
	if !ok {
		return err
	}
	return retryable(err, after)
}

// withRetry runs fn until it succeeds, returns a non-retryable error, or the
// attempts are used up. The returned error is never wrapped as retryable.
func withRetry(ctx context.Context, cfg RetryConfig, fn func() error) error {
	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		var re retryableError
		if !errors.As(err, &re) {
			return err
		}
		lastErr = re.err
		if attempt == attempts {
			break
		}

		wait := backoff(cfg, attempt)
		if re.after > wait {
			wait = re.after
		}

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}

func backoff(cfg RetryConfig, attempt int) time.Duration {
	mult := cfg.Multiplier
	if mult <= 0 {
		mult = 1
	}
	wait := float64(cfg.InitialWait) * math.Pow(mult, float64(attempt-1))
	if cfg.MaxWait > 0 && wait > float64(cfg.MaxWait) {
		wait = float64(cfg.MaxWait)
	}
	if cfg.Jitter > 0 {
		wait += wait * cfg.Jitter * (rand.Float64()*2 - 1)
	}
	if wait < 0 {
		return 0
	}
	return time.Duration(wait)
}
