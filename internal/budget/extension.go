package budget

import (
	"math"
	"time"

	"github.com/paceboard/platform/internal/domain"
)

// ExtensionSuggestion is the proposed top-up for extending a fixed period to
// a later end date at the period's current daily rate.
type ExtensionSuggestion struct {
	AddedDays       int     `json:"added_days"`
	CurrentDaily    float64 `json:"current_daily"`
	SuggestedAmount float64 `json:"suggested_amount"`
}

// SuggestExtension computes the top-up needed to keep a fixed period's daily
// rate constant through newEnd. The added-day count subtracts 1 because the
// original end day is already covered by the existing amount. The suggested
// amount is rounded to the nearest whole unit.
func SuggestExtension(p domain.BudgetPeriod, newEnd time.Time) ExtensionSuggestion {
	addedDays := TotalDays(p.EndDate, newEnd) - 1
	if addedDays < 0 {
		addedDays = 0
	}
	daily := p.Amount / float64(TotalDays(p.StartDate, p.EndDate))
	return ExtensionSuggestion{
		AddedDays:       addedDays,
		CurrentDaily:    daily,
		SuggestedAmount: math.Round(daily * float64(addedDays)),
	}
}

// ApplyExtension replaces the fixed config's single period with one running
// to newEnd carrying the topped-up amount, updates the rawConfig echo and
// appends an audit entry. The original period is superseded, never mutated:
// history keeps the trail.
func ApplyExtension(cfg domain.CampaignBudgetConfig, newEnd time.Time, addAmount float64, actor string, now time.Time) domain.CampaignBudgetConfig {
	p := cfg.Periods[0]
	extended := domain.BudgetPeriod{
		StartDate: p.StartDate,
		EndDate:   Midnight(newEnd),
		Amount:    p.Amount + addAmount,
	}
	cfg.Periods = []domain.BudgetPeriod{extended}
	cfg.RawConfig = domain.RawConfig{
		Start:  extended.StartDate.Format(domain.DateFormat),
		End:    extended.EndDate.Format(domain.DateFormat),
		Amount: extended.Amount,
	}
	cfg.History = append(cfg.History, domain.BudgetHistoryEntry{
		Timestamp:         now,
		Type:              domain.BudgetFixed,
		Amount:            extended.Amount,
		PeriodDescription: extended.StartDate.Format(domain.DateFormat) + " - " + extended.EndDate.Format(domain.DateFormat),
		Actor:             actor,
	})
	return cfg
}
