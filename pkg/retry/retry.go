// Package retry runs calls to external collaborators with bounded
// exponential backoff.
package retry

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Config defines retry behavior with exponential backoff.
type Config struct {
	MaxRetries   int           `yaml:"max_retries" env:"RETRY_MAX_RETRIES" env-default:"2"`
	InitialDelay time.Duration `yaml:"initial_delay" env:"RETRY_INITIAL_DELAY" env-default:"200ms"`
	MaxDelay     time.Duration `yaml:"max_delay" env:"RETRY_MAX_DELAY" env-default:"2s"`
	Multiplier   float64       `yaml:"multiplier" env:"RETRY_MULTIPLIER" env-default:"2"`
	JitterFactor float64       `yaml:"jitter_factor" env:"RETRY_JITTER_FACTOR" env-default:"0.1"` // 0.0-1.0
}

// DefaultConfig keeps the worst case short: a chat reply is waiting on it.
// 2 retries, 200ms initial delay capped at 2s, doubling, with 10% jitter.
func DefaultConfig() *Config {
	return &Config{
		MaxRetries:   2,
		InitialDelay: 200 * time.Millisecond,
		MaxDelay:     2 * time.Second,
		Multiplier:   2.0,
		JitterFactor: 0.1,
	}
}

// applyJitter returns delay +/- (delay * jitterFactor * random(-1 to +1)).
func applyJitter(delay time.Duration, jitterFactor float64) time.Duration {
	if jitterFactor <= 0 {
		return delay
	}
	jitter := float64(delay) * jitterFactor * (rand.Float64()*2 - 1)
	return time.Duration(float64(delay) + jitter)
}

// Do retries fn on any error until it succeeds or retries are exhausted.
// Returns the last error, or ctx.Err() if the context ends while waiting.
func Do(ctx context.Context, cfg *Config, fn func() error) error {
	return run(ctx, cfg, fn, func(error) bool { return true })
}

// DoIfRetryable retries only transient errors; a permanent error (bad key,
// unknown model) is returned immediately.
func DoIfRetryable(ctx context.Context, cfg *Config, fn func() error) error {
	return run(ctx, cfg, fn, IsRetryable)
}

// DoWithResult is DoIfRetryable for functions that return a value.
func DoWithResult[T any](ctx context.Context, cfg *Config, fn func() (T, error)) (T, error) {
	var result T
	err := DoIfRetryable(ctx, cfg, func() error {
		r, err := fn()
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	return result, err
}

func run(ctx context.Context, cfg *Config, fn func() error, shouldRetry func(error) bool) error {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	delay := cfg.InitialDelay
	var lastErr error

	for attempt := 0; attempt <= cfg.MaxRetries; attempt++ {
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !shouldRetry(lastErr) || attempt == cfg.MaxRetries {
			break
		}

		timer := time.NewTimer(applyJitter(delay, cfg.JitterFactor))
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}

		delay = time.Duration(float64(delay) * cfg.Multiplier)
		if delay > cfg.MaxDelay {
			delay = cfg.MaxDelay
		}
	}

	return lastErr
}

// RetryableError is implemented by errors that declare their own retryability.
type RetryableError interface {
	error
	IsRetryable() bool
}

var retryablePatterns = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"timeout",
	"timed out",
	"temporary failure",
	"network is unreachable",
	"429",
	"500",
	"502",
	"503",
	"504",
	"rate limit",
	"service unavailable",
	"too many requests",
}

// IsRetryable determines if an error is transient and worth retrying.
// Errors implementing RetryableError decide for themselves; anything else is
// matched against known transient network and HTTP failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}

	if r, ok := err.(RetryableError); ok {
		return r.IsRetryable()
	}

	errStr := strings.ToLower(err.Error())
	for _, pattern := range retryablePatterns {
		if strings.Contains(errStr, pattern) {
			return true
		}
	}
	return false
}
