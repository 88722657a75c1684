package budget

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paceboard/platform/internal/domain"
)

// --- SuggestExtension Tests ---

func TestSuggestExtension(t *testing.T) {
	t.Run("december extended to january fifth", func(t *testing.T) {
		p := domain.BudgetPeriod{StartDate: date(2025, 12, 1), EndDate: date(2025, 12, 31), Amount: 300000}
		got := SuggestExtension(p, date(2026, 1, 5))
		assert.Equal(t, 5, got.AddedDays)
		assert.InDelta(t, 300000.0/31, got.CurrentDaily, 1e-6)
		assert.InDelta(t, 48387, got.SuggestedAmount, 1e-9)
	})

	t.Run("one extra day", func(t *testing.T) {
		p := domain.BudgetPeriod{StartDate: date(2025, 12, 1), EndDate: date(2025, 12, 31), Amount: 310000}
		got := SuggestExtension(p, date(2026, 1, 1))
		assert.Equal(t, 1, got.AddedDays)
		assert.InDelta(t, 10000, got.SuggestedAmount, 1e-9)
	})

	t.Run("new end equal to current end adds nothing", func(t *testing.T) {
		p := domain.BudgetPeriod{StartDate: date(2025, 12, 1), EndDate: date(2025, 12, 31), Amount: 300000}
		got := SuggestExtension(p, date(2025, 12, 31))
		assert.Equal(t, 0, got.AddedDays)
		assert.Zero(t, got.SuggestedAmount)
	})

	t.Run("new end before current end adds nothing", func(t *testing.T) {
		p := domain.BudgetPeriod{StartDate: date(2025, 12, 1), EndDate: date(2025, 12, 31), Amount: 300000}
		got := SuggestExtension(p, date(2025, 12, 20))
		assert.Equal(t, 0, got.AddedDays)
		assert.Zero(t, got.SuggestedAmount)
	})
}

// --- ApplyExtension Tests ---

func TestApplyExtension(t *testing.T) {
	base := domain.CampaignBudgetConfig{
		CampaignID: "c-1",
		Type:       domain.BudgetFixed,
		Periods:    []domain.BudgetPeriod{{StartDate: date(2025, 12, 1), EndDate: date(2025, 12, 31), Amount: 300000}},
		RawConfig:  domain.RawConfig{Start: "2025-12-01", End: "2025-12-31", Amount: 300000},
	}
	now := date(2025, 12, 28)

	t.Run("replaces the period with the extended one", func(t *testing.T) {
		got := ApplyExtension(base, date(2026, 1, 5), 48387, "ops@agency.test", now)
		require.Len(t, got.Periods, 1)
		assert.Equal(t, date(2025, 12, 1), got.Periods[0].StartDate)
		assert.Equal(t, date(2026, 1, 5), got.Periods[0].EndDate)
		assert.InDelta(t, 348387, got.Periods[0].Amount, 1e-9)
	})

	t.Run("updates the raw config echo", func(t *testing.T) {
		got := ApplyExtension(base, date(2026, 1, 5), 48387, "ops@agency.test", now)
		assert.Equal(t, "2025-12-01", got.RawConfig.Start)
		assert.Equal(t, "2026-01-05", got.RawConfig.End)
		assert.InDelta(t, 348387, got.RawConfig.Amount, 1e-9)
	})

	t.Run("appends a history entry", func(t *testing.T) {
		got := ApplyExtension(base, date(2026, 1, 5), 48387, "ops@agency.test", now)
		require.Len(t, got.History, 1)
		entry := got.History[0]
		assert.Equal(t, now, entry.Timestamp)
		assert.Equal(t, domain.BudgetFixed, entry.Type)
		assert.InDelta(t, 348387, entry.Amount, 1e-9)
		assert.Equal(t, "ops@agency.test", entry.Actor)
	})

	t.Run("does not mutate the input config", func(t *testing.T) {
		_ = ApplyExtension(base, date(2026, 1, 5), 48387, "ops@agency.test", now)
		assert.Equal(t, date(2025, 12, 31), base.Periods[0].EndDate)
		assert.Empty(t, base.History)
	})
}
