// Package retry re-runs a function while its error is classified as retryable.
//
// Retries continue until MaxAttempts calls have been made, the context is done,
// or RetryOn returns false. Waits grow exponentially from BaseDelay by a factor
// of Exp, are randomized by +/- Jitter and never exceed MaxBackoff.
package retry

import (
	"context"
	"math"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Func is the function to retry
type Func func() error

// RetryOnFunc decides whether to retry on a given error
type RetryOnFunc func(error) bool

// Config holds the retry strategy
type Config struct {
	MaxAttempts int
	MaxBackoff  time.Duration
	BaseDelay   time.Duration
	Exp         float64
	Jitter      float64
	RetryOn     RetryOnFunc
}

// Option mutates a Config
type Option func(*Config)

func defaultConfig() *Config {
	return &Config{
		MaxAttempts: math.MaxInt,
		MaxBackoff:  time.Duration(math.MaxInt64),
		Exp:         1,
		RetryOn:     func(error) bool { return false },
	}
}

// WithMaxAttempts caps the total number of calls, the first one included
func WithMaxAttempts(n int) Option {
	return func(c *Config) {
		c.MaxAttempts = n
	}
}

func WithBaseDelay(d time.Duration) Option {
	return func(c *Config) {
		c.BaseDelay = d
	}
}

func WithMaxBackoff(d time.Duration) Option {
	return func(c *Config) {
		c.MaxBackoff = d
	}
}

func WithExp(e float64) Option {
	return func(c *Config) {
		c.Exp = e
	}
}

// WithJitter sets the randomization factor, between 0 and 1
func WithJitter(j float64) Option {
	return func(c *Config) {
		c.Jitter = j
	}
}

func WithRetryOn(f RetryOnFunc) Option {
	return func(c *Config) {
		c.RetryOn = f
	}
}

// Retry calls f and keeps calling it while the returned error is retryable.
// It returns the last error from f, or the context error if ctx ends first.
func Retry(ctx context.Context, f Func, opts ...Option) error {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}

	return backoff.Retry(func() error {
		err := f()
		if err != nil && !cfg.RetryOn(err) {
			return backoff.Permanent(err)
		}
		return err
	}, backoff.WithContext(cfg.policy(), ctx))
}

// policy builds the backoff schedule. Attempts beyond the first are retries.
func (c *Config) policy() backoff.BackOff {
	b := c.exponential()
	if c.MaxAttempts == math.MaxInt {
		return b
	}
	retries := uint64(0)
	if c.MaxAttempts > 1 {
		retries = uint64(c.MaxAttempts - 1)
	}
	return backoff.WithMaxRetries(b, retries)
}

func (c *Config) exponential() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = c.BaseDelay
	b.Multiplier = c.Exp
	b.RandomizationFactor = c.Jitter
	b.MaxInterval = c.MaxBackoff
	// attempts, not wall time, bound the loop
	b.MaxElapsedTime = 0
	b.Reset()
	return b
}
