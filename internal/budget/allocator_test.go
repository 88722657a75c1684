package budget

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paceboard/platform/internal/domain"
)

func fixedConfig(start, end time.Time, amount float64) domain.CampaignBudgetConfig {
	return domain.CampaignBudgetConfig{
		Type:    domain.BudgetFixed,
		Periods: []domain.BudgetPeriod{{StartDate: start, EndDate: end, Amount: amount}},
	}
}

func recurringConfig(startMonth, endMonth time.Time, monthly float64) domain.CampaignBudgetConfig {
	return domain.CampaignBudgetConfig{
		Type:    domain.BudgetRecurring,
		Periods: ExpandRecurring(startMonth, endMonth, monthly),
	}
}

// --- Fixed Allocation Tests ---

func TestAllocateFixed(t *testing.T) {
	// 620000 across Dec 1 - Jan 31: 62 days, 10000/day.
	cfg := fixedConfig(date(2025, 12, 1), date(2026, 1, 31), 620000)

	t.Run("full period", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 12, 1), date(2026, 1, 31))
		assert.InDelta(t, 620000, got.Amount, 1e-6)
		assert.Len(t, got.Periods, 1)
	})

	t.Run("december half", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 12, 1), date(2025, 12, 31))
		assert.InDelta(t, 310000, got.Amount, 1e-6)
	})

	t.Run("january half", func(t *testing.T) {
		got := Allocate(cfg, date(2026, 1, 1), date(2026, 1, 31))
		assert.InDelta(t, 310000, got.Amount, 1e-6)
	})

	t.Run("single day", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 12, 15), date(2025, 12, 15))
		assert.InDelta(t, 10000, got.Amount, 1e-6)
	})

	t.Run("window wider than period clamps to period", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 11, 1), date(2026, 3, 1))
		assert.InDelta(t, 620000, got.Amount, 1e-6)
	})

	t.Run("no overlap", func(t *testing.T) {
		got := Allocate(cfg, date(2026, 2, 1), date(2026, 2, 28))
		assert.Zero(t, got.Amount)
		assert.Empty(t, got.Periods)
	})
}

// --- Recurring Allocation Tests ---

func TestAllocateRecurring(t *testing.T) {
	// 300000 per month, December through February.
	cfg := recurringConfig(date(2025, 12, 1), date(2026, 2, 1), 300000)

	t.Run("full month", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 12, 1), date(2025, 12, 31))
		assert.InDelta(t, 300000, got.Amount, 1e-6)
		assert.Len(t, got.Periods, 1)
	})

	t.Run("partial month still bills the full month", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 12, 28), date(2025, 12, 31))
		assert.InDelta(t, 300000, got.Amount, 1e-6)
	})

	t.Run("window spanning two months sums both", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 12, 20), date(2026, 1, 10))
		assert.InDelta(t, 600000, got.Amount, 1e-6)
		assert.Len(t, got.Periods, 2)
	})

	t.Run("before the schedule", func(t *testing.T) {
		got := Allocate(cfg, date(2025, 10, 1), date(2025, 11, 30))
		assert.Zero(t, got.Amount)
	})
}

// --- ExpandRecurring Tests ---

func TestExpandRecurring(t *testing.T) {
	t.Run("single month", func(t *testing.T) {
		periods := ExpandRecurring(date(2025, 12, 1), date(2025, 12, 1), 300000)
		require.Len(t, periods, 1)
		assert.Equal(t, date(2025, 12, 1), periods[0].StartDate)
		assert.Equal(t, date(2025, 12, 31), periods[0].EndDate)
		assert.InDelta(t, 300000, periods[0].Amount, 1e-9)
	})

	t.Run("spans year boundary", func(t *testing.T) {
		periods := ExpandRecurring(date(2025, 11, 1), date(2026, 2, 1), 1000)
		require.Len(t, periods, 4)
		assert.Equal(t, date(2025, 11, 1), periods[0].StartDate)
		assert.Equal(t, date(2026, 2, 28), periods[3].EndDate)
	})

	t.Run("leap february gets 29 days", func(t *testing.T) {
		periods := ExpandRecurring(date(2028, 2, 1), date(2028, 2, 1), 1000)
		require.Len(t, periods, 1)
		assert.Equal(t, date(2028, 2, 29), periods[0].EndDate)
	})

	t.Run("mid-month inputs snap to month bounds", func(t *testing.T) {
		periods := ExpandRecurring(date(2025, 12, 17), date(2026, 1, 9), 1000)
		require.Len(t, periods, 2)
		assert.Equal(t, date(2025, 12, 1), periods[0].StartDate)
		assert.Equal(t, date(2026, 1, 31), periods[1].EndDate)
	})

	t.Run("end before start yields nothing", func(t *testing.T) {
		assert.Empty(t, ExpandRecurring(date(2026, 2, 1), date(2025, 12, 1), 1000))
	})
}

// --- ActiveWindow Tests ---

func TestActiveWindow(t *testing.T) {
	t.Run("fixed period containing today", func(t *testing.T) {
		cfg := fixedConfig(date(2025, 12, 1), date(2026, 1, 31), 620000)
		start, end, ok := ActiveWindow(cfg, date(2025, 12, 15))
		require.True(t, ok)
		assert.Equal(t, date(2025, 12, 1), start)
		assert.Equal(t, date(2026, 1, 31), end)
	})

	t.Run("fixed period not containing today", func(t *testing.T) {
		cfg := fixedConfig(date(2025, 12, 1), date(2025, 12, 31), 300000)
		_, _, ok := ActiveWindow(cfg, date(2026, 2, 10))
		assert.False(t, ok)
	})

	t.Run("recurring returns the calendar month", func(t *testing.T) {
		cfg := recurringConfig(date(2025, 12, 1), date(2026, 2, 1), 300000)
		start, end, ok := ActiveWindow(cfg, date(2026, 1, 14))
		require.True(t, ok)
		assert.Equal(t, date(2026, 1, 1), start)
		assert.Equal(t, date(2026, 1, 31), end)
	})

	t.Run("recurring outside the schedule", func(t *testing.T) {
		cfg := recurringConfig(date(2025, 12, 1), date(2026, 2, 1), 300000)
		_, _, ok := ActiveWindow(cfg, date(2026, 5, 1))
		assert.False(t, ok)
	})

	t.Run("empty config", func(t *testing.T) {
		_, _, ok := ActiveWindow(domain.CampaignBudgetConfig{Type: domain.BudgetFixed}, date(2025, 12, 1))
		assert.False(t, ok)
	})
}
