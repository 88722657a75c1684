package guard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- CircuitBreaker Tests ---

func TestCircuitBreaker(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown key is allowed and closed", func(t *testing.T) {
		cb := NewCircuitBreaker(3, time.Minute)
		assert.True(t, cb.Check(ctx, "search:acc-1").Allowed)
		assert.Equal(t, CircuitClosed, cb.State("search:acc-1"))
	})

	t.Run("opens after the failure threshold", func(t *testing.T) {
		cb := NewCircuitBreaker(3, time.Minute)
		cb.Check(ctx, "k")
		cb.RecordFailure("k")
		cb.RecordFailure("k")
		assert.Equal(t, CircuitClosed, cb.State("k"))

		cb.RecordFailure("k")
		assert.Equal(t, CircuitOpen, cb.State("k"))

		res := cb.Check(ctx, "k")
		assert.False(t, res.Allowed)
		assert.NotEmpty(t, res.Reason)
	})

	t.Run("success resets the failure count while closed", func(t *testing.T) {
		cb := NewCircuitBreaker(3, time.Minute)
		cb.Check(ctx, "k")
		cb.RecordFailure("k")
		cb.RecordFailure("k")
		cb.RecordSuccess("k")
		cb.RecordFailure("k")
		cb.RecordFailure("k")
		assert.Equal(t, CircuitClosed, cb.State("k"))
	})

	t.Run("half-opens after the reset timeout", func(t *testing.T) {
		cb := NewCircuitBreaker(1, 10*time.Millisecond)
		cb.Check(ctx, "k")
		cb.RecordFailure("k")
		require.Equal(t, CircuitOpen, cb.State("k"))

		time.Sleep(20 * time.Millisecond)
		assert.True(t, cb.Check(ctx, "k").Allowed)
		assert.Equal(t, CircuitHalfOpen, cb.State("k"))
	})

	t.Run("successful probe closes the circuit", func(t *testing.T) {
		cb := NewCircuitBreaker(1, 10*time.Millisecond)
		cb.Check(ctx, "k")
		cb.RecordFailure("k")
		time.Sleep(20 * time.Millisecond)
		require.True(t, cb.Check(ctx, "k").Allowed)

		cb.RecordSuccess("k")
		assert.Equal(t, CircuitClosed, cb.State("k"))
		assert.True(t, cb.Check(ctx, "k").Allowed)
	})

	t.Run("failed probe reopens the circuit", func(t *testing.T) {
		cb := NewCircuitBreaker(1, 10*time.Millisecond)
		cb.Check(ctx, "k")
		cb.RecordFailure("k")
		time.Sleep(20 * time.Millisecond)
		require.True(t, cb.Check(ctx, "k").Allowed)

		cb.RecordFailure("k")
		assert.Equal(t, CircuitOpen, cb.State("k"))
		assert.False(t, cb.Check(ctx, "k").Allowed)
	})

	t.Run("keys are independent", func(t *testing.T) {
		cb := NewCircuitBreaker(1, time.Minute)
		cb.Check(ctx, "search:a")
		cb.RecordFailure("search:a")
		assert.False(t, cb.Check(ctx, "search:a").Allowed)
		assert.True(t, cb.Check(ctx, "social:b").Allowed)
	})
}
