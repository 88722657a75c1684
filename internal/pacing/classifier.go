// Package pacing derives spend-pacing signals from a campaign's allocated
// budget: the recommended daily rate, the projected end-of-window spend and
// the deviation-based status tier that drives the dashboard and alerting.
package pacing

import (
	"math"
	"time"

	"github.com/paceboard/platform/internal/budget"
	"github.com/paceboard/platform/internal/domain"
)

// Status is the pacing tier for a campaign.
type Status string

const (
	// StatusOnTrack: live daily budget within ±5% of the recommended daily.
	StatusOnTrack Status = "on_track"
	// StatusAttention: deviation above 5% and up to 15%.
	StatusAttention Status = "attention"
	// StatusCritical: deviation above 15%, budget already overspent, or an
	// active campaign running with no daily budget set.
	StatusCritical Status = "critical"
	// StatusInactive: campaign not active, no window end, or the window has
	// already closed without overspend. Neutral, no action implied.
	StatusInactive Status = "inactive"
)

// Deviation band boundaries. The lower bound of each band is inclusive:
// a deviation of exactly 0.05 is still on track.
const (
	onTrackMaxDeviation   = 0.05
	attentionMaxDeviation = 0.15
)

// Input carries everything the classifier needs for one campaign. Spend and
// the live daily budget are net platform-side figures; AllocatedBudget is the
// gross amount resolved by the allocator for the window ending at WindowEnd.
type Input struct {
	CampaignStatus  domain.CampaignStatus
	SpendToDate     float64
	LiveDailyBudget float64
	AllocatedBudget float64
	Commission      *domain.Commission
	Today           time.Time
	WindowEnd       time.Time
	HasWindow       bool
}

// Result is the classifier output consumed by the dashboard and the alert
// rule engine.
type Result struct {
	GrossSpend       float64 `json:"gross_spend"`
	DaysLeft         int     `json:"days_left"`
	RecommendedDaily float64 `json:"recommended_daily"`
	ProjectedSpend   float64 `json:"projected_spend"`
	Deviation        float64 `json:"deviation"`
	Status           Status  `json:"status"`
}

// TierForDeviation maps a deviation (|1 - live/recommended|) to a status
// tier. Band lower bounds are inclusive.
func TierForDeviation(deviation float64) Status {
	switch {
	case deviation <= onTrackMaxDeviation:
		return StatusOnTrack
	case deviation <= attentionMaxDeviation:
		return StatusAttention
	default:
		return StatusCritical
	}
}

// Classify computes the pacing figures and status tier for one campaign.
// The math is total: out-of-domain inputs (closed windows, zero allocations)
// fall back to zeros and StatusInactive rather than errors.
func Classify(in Input) Result {
	var r Result

	// Gross spend: fixed commissions pro-rate the consumed fee against the
	// net window budget, percentage commissions convert directly.
	netBudget := in.AllocatedBudget
	if in.Commission != nil {
		netBudget = budget.ToNet(in.AllocatedBudget, *in.Commission)
	}
	r.GrossSpend = budget.GrossSpend(in.SpendToDate, netBudget, in.Commission)

	// Inclusive days from today through window end; 0 once the window closed.
	if in.HasWindow && !budget.Midnight(in.WindowEnd).Before(budget.Midnight(in.Today)) {
		r.DaysLeft = budget.TotalDays(in.Today, in.WindowEnd)
	}

	remaining := math.Max(0, in.AllocatedBudget-r.GrossSpend)
	if r.DaysLeft > 0 {
		r.RecommendedDaily = remaining / float64(r.DaysLeft)
	}

	// Projection only accrues further spend while the campaign is running.
	r.ProjectedSpend = r.GrossSpend
	if in.CampaignStatus == domain.CampaignActive {
		liveDailyGross := in.LiveDailyBudget
		if in.Commission != nil && in.Commission.Type == domain.CommissionPercentage {
			liveDailyGross = budget.ToGross(in.LiveDailyBudget, *in.Commission)
		}
		r.ProjectedSpend += liveDailyGross * float64(r.DaysLeft)
	}

	r.Status = classifyStatus(in, r)
	if r.Status != StatusInactive && r.RecommendedDaily > 0 {
		r.Deviation = math.Abs(1 - in.LiveDailyBudget/r.RecommendedDaily)
	}
	return r
}

func classifyStatus(in Input, r Result) Status {
	if in.CampaignStatus != domain.CampaignActive || !in.HasWindow || in.AllocatedBudget <= 0 {
		return StatusInactive
	}
	if in.AllocatedBudget-r.GrossSpend < 0 {
		return StatusCritical
	}
	if r.DaysLeft <= 0 {
		return StatusInactive
	}
	if in.LiveDailyBudget == 0 {
		return StatusCritical
	}
	if r.RecommendedDaily <= 0 {
		// Budget exactly exhausted but the campaign keeps spending.
		return StatusCritical
	}
	return TierForDeviation(math.Abs(1 - in.LiveDailyBudget/r.RecommendedDaily))
}
