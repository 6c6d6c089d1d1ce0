package invoke

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fastInvoker() *Invoker {
	return New(func(o *Options) {
		o.InitialBackoff = time.Millisecond
		o.MaxBackoff = 2 * time.Millisecond
	})
}

func TestWithRecovery_SucceedsFirstAttempt(t *testing.T) {
	iv := fastInvoker()
	calls := 0
	out := iv.WithRecovery(context.Background(),
		func(context.Context, map[string]any) (string, error) {
			calls++
			return "fresh", nil
		},
		nil,
		func() string { return "fallback" },
		2,
	)

	assert.True(t, out.OK())
	assert.Equal(t, "fresh", out.Text)
	assert.Equal(t, 1, calls)
}

func TestWithRecovery_RetriesThenSucceeds(t *testing.T) {
	iv := fastInvoker()
	calls := 0
	out := iv.WithRecovery(context.Background(),
		func(context.Context, map[string]any) (string, error) {
			calls++
			if calls < 3 {
				return "", errors.New("transient")
			}
			return "eventually", nil
		},
		nil,
		func() string { return "fallback" },
		2,
	)

	assert.True(t, out.OK())
	assert.Equal(t, "eventually", out.Text)
	assert.Equal(t, 3, out.Attempts)
}

func TestWithRecovery_ExhaustionReturnsDefault(t *testing.T) {
	iv := fastInvoker()
	calls := 0
	out := iv.WithRecovery(context.Background(),
		func(context.Context, map[string]any) (string, error) {
			calls++
			return "", errors.New("down")
		},
		nil,
		func() string { return "fallback" },
		2,
	)

	assert.True(t, out.Degraded())
	assert.Equal(t, "fallback", out.Text)
	assert.Equal(t, 3, calls, "1 initial attempt + 2 retries")
	assert.Equal(t, 3, out.Attempts)
	require.Error(t, out.Cause)
}

func TestWithRecovery_ContextCancellationIsFatal(t *testing.T) {
	iv := fastInvoker()
	ctx, cancel := context.WithCancel(context.Background())
	out := iv.WithRecovery(ctx,
		func(context.Context, map[string]any) (string, error) {
			cancel()
			return "", errors.New("interrupted")
		},
		nil,
		func() string { return "fallback" },
		5,
	)

	assert.Equal(t, StatusFatal, out.Status)
	assert.ErrorIs(t, out.Cause, context.Canceled)
}

func TestWithRecovery_NegativeRetriesMeansSingleAttempt(t *testing.T) {
	iv := fastInvoker()
	calls := 0
	out := iv.WithRecovery(context.Background(),
		func(context.Context, map[string]any) (string, error) {
			calls++
			return "", errors.New("down")
		},
		nil,
		func() string { return "fallback" },
		-1,
	)

	assert.Equal(t, 1, calls)
	assert.True(t, out.Degraded())
}

func TestExpBackoffIsCapped(t *testing.T) {
	initial := 10 * time.Millisecond
	max := 50 * time.Millisecond
	assert.Equal(t, initial, expBackoff(0, initial, max))
	assert.Equal(t, 20*time.Millisecond, expBackoff(1, initial, max))
	assert.Equal(t, max, expBackoff(10, initial, max))
	assert.Equal(t, max, expBackoff(63, initial, max), "overflow clamps to max")
}
