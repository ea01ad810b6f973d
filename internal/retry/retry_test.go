package retry

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testErrRetryable struct{}

func (e testErrRetryable) Error() string {
	return "retryable err"
}

func TestRetry(t *testing.T) {
	retryable, nonRetryable := testErrRetryable{}, fmt.Errorf("non-retryable")
	retryOn := func(e error) bool {
		_, ok := e.(testErrRetryable)
		return ok
	}
	tcs := []struct {
		name     string
		errs     []error
		strategy []Option
		expected int
	}{
		{
			name:     "no retry",
			errs:     []error{nil},
			expected: 1,
		},
		{
			name:     "retryable error without RetryOn is returned at once",
			errs:     []error{retryable, nil},
			expected: 1,
		},
		{
			name:     "max attempts counts the first call",
			errs:     []error{retryable, retryable, retryable, nil},
			expected: 2,
			strategy: []Option{WithMaxAttempts(2), WithRetryOn(retryOn)},
		},
		{
			name:     "stops on non-retryable",
			errs:     []error{retryable, retryable, nonRetryable, retryable, retryable},
			expected: 3,
			strategy: []Option{WithMaxAttempts(10), WithRetryOn(retryOn)},
		},
		{
			name:     "stops on success",
			errs:     []error{retryable, nil, retryable},
			expected: 2,
			strategy: []Option{WithMaxAttempts(10), WithRetryOn(retryOn), WithBaseDelay(time.Millisecond), WithJitter(0.5)},
		},
	}

	for _, tc := range tcs {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), func() error {
				e := tc.errs[calls]
				calls++
				return e
			}, tc.strategy...)
			assert.Equal(t, tc.expected, calls)
			assert.Equal(t, tc.errs[calls-1], err)
		})
	}
}

func TestRetry_ContextCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0

	err := Retry(ctx, func() error {
		calls++
		cancel()
		return testErrRetryable{}
	}, WithBaseDelay(time.Hour), WithRetryOn(func(error) bool { return true }))

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestConfig_BackoffIsCapped(t *testing.T) {
	cfg := defaultConfig()
	WithBaseDelay(10 * time.Millisecond)(cfg)
	WithExp(2)(cfg)
	WithMaxBackoff(50 * time.Millisecond)(cfg)

	b := cfg.exponential()
	var waits []time.Duration
	for i := 0; i < 5; i++ {
		waits = append(waits, b.NextBackOff())
	}
	assert.Equal(t, []time.Duration{
		10 * time.Millisecond,
		20 * time.Millisecond,
		40 * time.Millisecond,
		50 * time.Millisecond,
		50 * time.Millisecond,
	}, waits)
}

func TestConfig_PolicyStopsAfterMaxAttempts(t *testing.T) {
	cfg := defaultConfig()
	WithMaxAttempts(3)(cfg)

	p := cfg.policy()
	p.Reset()
	assert.NotEqual(t, backoff.Stop, p.NextBackOff())
	assert.NotEqual(t, backoff.Stop, p.NextBackOff())
	assert.Equal(t, backoff.Stop, p.NextBackOff())
}

func TestConfig_JitterStaysInRange(t *testing.T) {
	cfg := defaultConfig()
	WithBaseDelay(100 * time.Millisecond)(cfg)
	WithJitter(0.25)(cfg)

	b := cfg.exponential()
	for i := 0; i < 20; i++ {
		d := b.NextBackOff()
		assert.GreaterOrEqual(t, d, 75*time.Millisecond)
		assert.LessOrEqual(t, d, 126*time.Millisecond)
	}
}
