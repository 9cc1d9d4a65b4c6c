package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastConfig keeps the backoff short enough for tests; jitter is off so
// attempt counts stay deterministic.
func fastConfig(attempts int) Config {
	return Config{
		MaxAttempts:  attempts,
		InitialDelay: time.Millisecond,
		MaxDelay:     5 * time.Millisecond,
		Multiplier:   2.0,
	}
}

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	calls := 0
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		if calls < 3 {
			return errors.New("endpoint not up yet")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls, "must stop retrying on the first success")
}

func TestDoExhaustsAttempts(t *testing.T) {
	calls := 0
	stubErr := errors.New("still down")
	err := Do(context.Background(), fastConfig(3), func() error {
		calls++
		return stubErr
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, stubErr)
	assert.Contains(t, err.Error(), "after 3 attempts")
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnNonRetryable(t *testing.T) {
	calls := 0
	bad := errors.New("badly formed query")
	err := Do(context.Background(), fastConfig(5), func() error {
		calls++
		return NonRetryable(bad)
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, bad)
	assert.Equal(t, 1, calls, "a non-retryable error must short-circuit")
}

func TestNonRetryableNilPassthrough(t *testing.T) {
	assert.NoError(t, NonRetryable(nil))
	assert.False(t, IsNonRetryable(errors.New("plain")))
	assert.True(t, IsNonRetryable(NonRetryable(errors.New("wrapped"))))
}

func TestDoHonorsContextDuringBackoff(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	cfg := Config{
		MaxAttempts:  10,
		InitialDelay: time.Minute,
		MaxDelay:     time.Minute,
		Multiplier:   2.0,
	}

	calls := 0
	done := make(chan error, 1)
	go func() {
		done <- Do(ctx, cfg, func() error {
			calls++
			return errors.New("down")
		})
	}()

	cancel()

	select {
	case err := <-done:
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls, "cancellation must abort the backoff sleep")
	case <-time.After(5 * time.Second):
		t.Fatal("retry did not observe the cancelled context")
	}
}

func TestDoRejectsBadConfig(t *testing.T) {
	err := Do(context.Background(), Config{InitialDelay: -time.Second}, func() error {
		t.Fatal("the operation must not run with an invalid config")
		return nil
	})
	assert.Error(t, err)

	err = Do(context.Background(), Config{
		InitialDelay: time.Second,
		MaxDelay:     time.Millisecond,
	}, func() error { return nil })
	assert.Error(t, err, "MaxDelay below InitialDelay is a configuration error")
}

func TestDoZeroConfigRunsOnce(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Config{}, func() error {
		calls++
		return errors.New("down")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls, "zero MaxAttempts means a single try")
}

func TestDoWithResult(t *testing.T) {
	calls := 0
	got, err := DoWithResult(context.Background(), fastConfig(4), func() (int64, error) {
		calls++
		if calls < 2 {
			return 0, errors.New("down")
		}
		return 42, nil
	})

	require.NoError(t, err)
	assert.Equal(t, int64(42), got)
	assert.Equal(t, 2, calls)
}

func TestPresetsAreValid(t *testing.T) {
	for name, cfg := range map[string]Config{
		"default":    DefaultConfig(),
		"quick":      Quick(),
		"persistent": Persistent(),
	} {
		assert.Positive(t, cfg.MaxAttempts, name)
		assert.Positive(t, cfg.InitialDelay, name)
		assert.GreaterOrEqual(t, cfg.MaxDelay, cfg.InitialDelay, name)
		assert.GreaterOrEqual(t, cfg.Multiplier, 1.0, name)
	}
}
