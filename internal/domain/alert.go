package domain

import (
	"time"

	"github.com/google/uuid"
)

// AlertKind is the closed set of alert types the rule engine can emit.
type AlertKind string

const (
	AlertDailyBudgetOver       AlertKind = "daily_budget_over"
	AlertDailyBudgetUnder      AlertKind = "daily_budget_under"
	AlertProgressMismatchOver  AlertKind = "progress_mismatch_over"
	AlertProgressMismatchUnder AlertKind = "progress_mismatch_under"
	AlertCampaignEnding        AlertKind = "campaign_ending"
	AlertBudgetAlmostExhausted AlertKind = "budget_almost_exhausted"
	AlertBudgetNotSet          AlertKind = "budget_not_set"
)

// AllAlertKinds lists every kind, in a stable order, for settings defaults.
var AllAlertKinds = []AlertKind{
	AlertDailyBudgetOver,
	AlertDailyBudgetUnder,
	AlertProgressMismatchOver,
	AlertProgressMismatchUnder,
	AlertCampaignEnding,
	AlertBudgetAlmostExhausted,
	AlertBudgetNotSet,
}

// AlertSeverity orders alerts for the dashboard.
type AlertSeverity string

const (
	SeverityHigh   AlertSeverity = "high"
	SeverityMedium AlertSeverity = "medium"
	SeverityLow    AlertSeverity = "low"
)

// Alert is one raised condition for a campaign. Identity is (CampaignID, Kind):
// re-evaluating a rule replaces the existing alert of the same kind for the
// same campaign rather than duplicating it.
type Alert struct {
	ID         uuid.UUID     `json:"id"`
	AgencyID   uuid.UUID     `json:"agency_id"`
	CampaignID string        `json:"campaign_id"`
	Kind       AlertKind     `json:"kind"`
	Severity   AlertSeverity `json:"severity"`
	Message    string        `json:"message"`
	Metric     float64       `json:"metric"`
	Threshold  float64       `json:"threshold"`
	Read       bool          `json:"read"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// AlertSettings holds the per-agency thresholds and the enabled-kind
// allow-list the rule engine evaluates against.
type AlertSettings struct {
	AgencyID uuid.UUID `json:"agency_id"`

	// DailyBudgetPct is the % deviation between the live daily budget and the
	// recommended daily that triggers daily_budget_over/under.
	DailyBudgetPct float64 `json:"daily_budget_pct"`

	// ProgressPct is the allowed gap, in percentage points, between spend
	// progress and time progress before progress_mismatch_over/under fires.
	ProgressPct float64 `json:"progress_pct"`

	// ExhaustionPct fires budget_almost_exhausted once spend reaches this
	// percentage of the allocated budget.
	ExhaustionPct float64 `json:"exhaustion_pct"`

	// EndingSoonDays fires campaign_ending when that many days or fewer remain.
	EndingSoonDays int `json:"ending_soon_days"`

	EnabledKinds []AlertKind `json:"enabled_kinds"`
}

// DefaultAlertSettings returns the thresholds used until an agency saves its own.
func DefaultAlertSettings(agencyID uuid.UUID) AlertSettings {
	return AlertSettings{
		AgencyID:       agencyID,
		DailyBudgetPct: 20,
		ProgressPct:    15,
		ExhaustionPct:  90,
		EndingSoonDays: 7,
		EnabledKinds:   AllAlertKinds,
	}
}

// KindEnabled reports whether the allow-list contains the given kind.
func (s AlertSettings) KindEnabled(kind AlertKind) bool {
	for _, k := range s.EnabledKinds {
		if k == kind {
			return true
		}
	}
	return false
}
