package domain

import (
	"time"
)

// BudgetType selects the allocation rule for a campaign's budget config.
type BudgetType string

const (
	// BudgetRecurring is a fixed amount per calendar month, re-applied every
	// month in range. Not pro-rated for partial-month queries.
	BudgetRecurring BudgetType = "recurring"
	// BudgetFixed is a single total amount spread evenly (pro-rated by day)
	// across one explicit date range.
	BudgetFixed BudgetType = "fixed"
)

// BudgetPeriod is one contiguous span during which a monetary amount applies.
// Dates are calendar-day granularity; StartDate <= EndDate always. Periods are
// never mutated in place once saved; a change creates a replacement period
// plus a history entry.
type BudgetPeriod struct {
	StartDate time.Time `json:"startDate"`
	EndDate   time.Time `json:"endDate"`
	Amount    float64   `json:"amount"`
}

// RawConfig echoes the user-facing form state that produced the canonical
// periods, so historical reads can reconstruct editable form state without
// re-deriving it. Exactly one variant is populated depending on the budget
// type: recurring uses StartMonth/EndMonth, fixed uses Start/End.
type RawConfig struct {
	// Recurring variant: months in "2006-01" form.
	StartMonth string `json:"startMonth,omitempty"`
	EndMonth   string `json:"endMonth,omitempty"`

	// Fixed variant: dates in "2006-01-02" form.
	Start string `json:"start,omitempty"`
	End   string `json:"end,omitempty"`

	Amount float64 `json:"amount"`
}

// BudgetHistoryEntry is one row of the append-only audit trail. One entry is
// added per save/extension operation; entries are never deleted.
type BudgetHistoryEntry struct {
	Timestamp         time.Time  `json:"timestamp"`
	Type              BudgetType `json:"type"`
	Amount            float64    `json:"amount"`
	PeriodDescription string     `json:"periodDescription"`
	Actor             string     `json:"actor,omitempty"`
}

// CampaignBudgetConfig is the persisted budget document for one campaign.
// Exactly one active config exists per campaign; switching type replaces the
// document wholesale (with caller confirmation), never merges.
type CampaignBudgetConfig struct {
	CampaignID string               `json:"campaignId"`
	Type       BudgetType           `json:"type"`
	Periods    []BudgetPeriod       `json:"periods"`
	RawConfig  RawConfig            `json:"rawConfig"`
	History    []BudgetHistoryEntry `json:"history"`
}

// DateFormat is the wire/persistence format for calendar dates.
const DateFormat = "2006-01-02"

// MonthFormat is the wire/persistence format for calendar months.
const MonthFormat = "2006-01"
