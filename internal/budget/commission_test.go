package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/paceboard/platform/internal/domain"
)

// --- Gross/Net Conversion Tests ---

func TestToNetToGross(t *testing.T) {
	pct20 := domain.Commission{Type: domain.CommissionPercentage, Value: 20}
	fixed5k := domain.Commission{Type: domain.CommissionFixed, Value: 5000}

	t.Run("percentage to net", func(t *testing.T) {
		assert.InDelta(t, 80000, ToNet(100000, pct20), 1e-9)
	})

	t.Run("percentage to gross", func(t *testing.T) {
		assert.InDelta(t, 100000, ToGross(80000, pct20), 1e-9)
	})

	t.Run("percentage round trip", func(t *testing.T) {
		gross := 123456.78
		assert.InDelta(t, gross, ToGross(ToNet(gross, pct20), pct20), 1e-6)
	})

	t.Run("fixed to net subtracts the fee", func(t *testing.T) {
		assert.InDelta(t, 95000, ToNet(100000, fixed5k), 1e-9)
	})

	t.Run("fixed round trip", func(t *testing.T) {
		assert.InDelta(t, 100000, ToGross(ToNet(100000, fixed5k), fixed5k), 1e-9)
	})

	t.Run("zero percentage is identity", func(t *testing.T) {
		zero := domain.Commission{Type: domain.CommissionPercentage, Value: 0}
		assert.InDelta(t, 100000, ToNet(100000, zero), 1e-9)
		assert.InDelta(t, 100000, ToGross(100000, zero), 1e-9)
	})
}

// --- Pro-Rated Fixed Commission Tests ---

func TestProRatedGrossFromSpend(t *testing.T) {
	fixed6k := domain.Commission{Type: domain.CommissionFixed, Value: 6000}

	t.Run("half the budget spent consumes half the fee", func(t *testing.T) {
		// 47k spent of a 94k platform budget: ratio 0.5, so 3k of the fee.
		assert.InDelta(t, 50000, ProRatedGrossFromSpend(47000, 94000, fixed6k), 1e-9)
	})

	t.Run("fully spent consumes the whole fee", func(t *testing.T) {
		assert.InDelta(t, 100000, ProRatedGrossFromSpend(94000, 94000, fixed6k), 1e-9)
	})

	t.Run("zero budget passes spend through", func(t *testing.T) {
		assert.InDelta(t, 1234, ProRatedGrossFromSpend(1234, 0, fixed6k), 1e-9)
	})

	t.Run("percentage commission delegates to ToGross", func(t *testing.T) {
		pct20 := domain.Commission{Type: domain.CommissionPercentage, Value: 20}
		assert.InDelta(t, 100000, ProRatedGrossFromSpend(80000, 94000, pct20), 1e-9)
	})
}

// --- GrossSpend Tests ---

func TestGrossSpend(t *testing.T) {
	t.Run("nil commission is passthrough", func(t *testing.T) {
		assert.InDelta(t, 5000, GrossSpend(5000, 10000, nil), 1e-9)
	})

	t.Run("percentage grosses up", func(t *testing.T) {
		c := domain.Commission{Type: domain.CommissionPercentage, Value: 20}
		assert.InDelta(t, 6250, GrossSpend(5000, 10000, &c), 1e-9)
	})

	t.Run("fixed pro-rates", func(t *testing.T) {
		c := domain.Commission{Type: domain.CommissionFixed, Value: 1000}
		assert.InDelta(t, 5500, GrossSpend(5000, 10000, &c), 1e-9)
	})
}
