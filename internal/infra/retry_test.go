package infra

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastBackoff(attempts int) BackoffPolicy {
	return BackoffPolicy{MaxAttempts: attempts, BaseDelay: time.Millisecond, MaxDelay: 5 * time.Millisecond}
}

func TestBackoffDo_SucceedsFirstTry(t *testing.T) {
	calls := 0
	err := fastBackoff(3).Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffDo_RetriesTransientThenSucceeds(t *testing.T) {
	calls := 0
	err := fastBackoff(3).Do(context.Background(), func() error {
		calls++
		if calls < 3 {
			return errors.New("connection reset")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestBackoffDo_ExhaustsAttempts(t *testing.T) {
	transient := errors.New("still down")
	calls := 0
	err := fastBackoff(3).Do(context.Background(), func() error {
		calls++
		return transient
	})

	require.ErrorIs(t, err, transient)
	assert.Equal(t, 3, calls)
}

func TestBackoffDo_PermanentStopsImmediately(t *testing.T) {
	notFound := errors.New("record not found")
	calls := 0
	err := fastBackoff(5).Do(context.Background(), func() error {
		calls++
		return Permanent(notFound)
	})

	// The wrapped error comes back unwrapped so callers can errors.Is it.
	require.Equal(t, notFound, err)
	assert.Equal(t, 1, calls)
}

func TestBackoffDo_PermanentNil(t *testing.T) {
	assert.NoError(t, Permanent(nil))
}

func TestBackoffDo_ContextCancelledDuringWait(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	policy := BackoffPolicy{MaxAttempts: 5, BaseDelay: time.Second}
	errCh := make(chan error, 1)
	go func() {
		errCh <- policy.Do(ctx, func() error {
			calls++
			return errors.New("flaky")
		})
	}()

	time.Sleep(10 * time.Millisecond)
	cancel()

	select {
	case err := <-errCh:
		require.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, 1, calls)
	case <-time.After(time.Second):
		t.Fatal("Do did not return after context cancellation")
	}
}

func TestBackoffDo_ZeroAttemptsRunsOnce(t *testing.T) {
	calls := 0
	err := BackoffPolicy{}.Do(context.Background(), func() error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}
