package budget

import (
	"time"

	"github.com/paceboard/platform/internal/domain"
)

// Allocation is the resolved budget for one query window: the total amount
// plus the periods that contributed to it.
type Allocation struct {
	Amount  float64               `json:"amount"`
	Periods []domain.BudgetPeriod `json:"periods"`
}

// Allocate computes the budget allocated to [windowStart, windowEnd] under
// the config's allocation rule.
//
// Fixed configs pro-rate each period's amount by day: a window covering half
// the period's days is allocated half its amount. Recurring configs count a
// period's full amount on any overlap at all: recurring periods are generated
// one per calendar month, and a partial-month query still bills the full
// month. Contributions from multiple periods are summed without
// de-duplication; generation guarantees periods never overlap within a config.
func Allocate(cfg domain.CampaignBudgetConfig, windowStart, windowEnd time.Time) Allocation {
	var alloc Allocation
	for _, p := range cfg.Periods {
		overlap := OverlapDays(windowStart, windowEnd, p.StartDate, p.EndDate)
		if overlap == 0 {
			continue
		}
		switch cfg.Type {
		case domain.BudgetFixed:
			periodDays := TotalDays(p.StartDate, p.EndDate)
			if periodDays == 0 {
				continue
			}
			alloc.Amount += p.Amount / float64(periodDays) * float64(overlap)
		case domain.BudgetRecurring:
			alloc.Amount += p.Amount
		}
		alloc.Periods = append(alloc.Periods, p)
	}
	return alloc
}

// ExpandRecurring generates one period per calendar month from startMonth to
// endMonth inclusive, each spanning the month's first to last day with the
// full monthly amount. Month lengths come from calendar arithmetic, so
// February and leap years are handled correctly.
func ExpandRecurring(startMonth, endMonth time.Time, monthlyAmount float64) []domain.BudgetPeriod {
	var periods []domain.BudgetPeriod
	for m := MonthStart(startMonth); !m.After(MonthStart(endMonth)); m = m.AddDate(0, 1, 0) {
		periods = append(periods, domain.BudgetPeriod{
			StartDate: m,
			EndDate:   MonthEnd(m),
			Amount:    monthlyAmount,
		})
	}
	return periods
}

// ActiveWindow returns the reporting window currently in effect for the
// config: for fixed configs the configured period containing today (or the
// most recently started one when today is past every period), for recurring
// configs today's calendar month when any period touches it. ok is false when
// no period applies.
func ActiveWindow(cfg domain.CampaignBudgetConfig, today time.Time) (start, end time.Time, ok bool) {
	today = Midnight(today)
	switch cfg.Type {
	case domain.BudgetFixed:
		for _, p := range cfg.Periods {
			if OverlapDays(today, today, p.StartDate, p.EndDate) > 0 {
				return Midnight(p.StartDate), Midnight(p.EndDate), true
			}
		}
	case domain.BudgetRecurring:
		ms, me := MonthStart(today), MonthEnd(today)
		for _, p := range cfg.Periods {
			if OverlapDays(ms, me, p.StartDate, p.EndDate) > 0 {
				return ms, me, true
			}
		}
	}
	return time.Time{}, time.Time{}, false
}
