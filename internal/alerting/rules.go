// Package alerting evaluates pacing outputs against per-agency thresholds and
// emits typed alerts. Evaluation is stateless; persistence and deduplication
// by (campaignID, kind) belong to the alert repository.
package alerting

import (
	"fmt"
	"math"
	"time"

	"github.com/paceboard/platform/internal/budget"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/pacing"
)

// Input is one campaign's state at evaluation time. Pacing carries the
// classifier output for the active window; HasBudget is false when the
// campaign has no budget config at all.
type Input struct {
	Campaign    domain.Campaign
	HasBudget   bool
	Allocated   float64
	WindowStart time.Time
	WindowEnd   time.Time
	Today       time.Time
	Pacing      pacing.Result
}

// Draft is an alert produced by a rule, before the repository assigns
// identity and timestamps.
type Draft struct {
	CampaignID string
	Kind       domain.AlertKind
	Severity   domain.AlertSeverity
	Message    string
	Metric     float64
	Threshold  float64
}

// Evaluate runs every enabled rule for one campaign and returns the alerts
// whose conditions hold. Rules for kinds missing from the allow-list are
// skipped entirely.
func Evaluate(in Input, settings domain.AlertSettings) []Draft {
	var drafts []Draft
	add := func(d Draft, ok bool) {
		if ok && settings.KindEnabled(d.Kind) {
			d.CampaignID = in.Campaign.ID
			drafts = append(drafts, d)
		}
	}

	add(budgetNotSet(in))
	if !in.HasBudget || in.Campaign.Status != domain.CampaignActive {
		return drafts
	}
	add(dailyBudget(in, settings))
	add(progressMismatch(in, settings))
	add(campaignEnding(in, settings))
	add(almostExhausted(in, settings))
	return drafts
}

// budgetNotSet fires for active campaigns with no budget config.
func budgetNotSet(in Input) (Draft, bool) {
	if in.HasBudget || in.Campaign.Status != domain.CampaignActive {
		return Draft{}, false
	}
	return Draft{
		Kind:     domain.AlertBudgetNotSet,
		Severity: domain.SeverityHigh,
		Message:  fmt.Sprintf("%s is active but has no budget configured", in.Campaign.Name),
	}, true
}

// dailyBudget compares the live daily budget against the recommended daily
// and fires over/under once the gap exceeds the threshold percentage.
func dailyBudget(in Input, settings domain.AlertSettings) (Draft, bool) {
	rec := in.Pacing.RecommendedDaily
	if rec <= 0 || in.Pacing.DaysLeft <= 0 {
		return Draft{}, false
	}
	live := in.Campaign.LiveDailyBudget
	pct := math.Abs(live-rec) / rec * 100
	if pct <= settings.DailyBudgetPct {
		return Draft{}, false
	}
	kind := domain.AlertDailyBudgetUnder
	direction := "below"
	if live > rec {
		kind = domain.AlertDailyBudgetOver
		direction = "above"
	}
	return Draft{
		Kind:     kind,
		Severity: severityByFactor(pct, settings.DailyBudgetPct),
		Message: fmt.Sprintf("%s daily budget %.2f is %.0f%% %s the recommended %.2f",
			in.Campaign.Name, live, pct, direction, rec),
		Metric:    pct,
		Threshold: settings.DailyBudgetPct,
	}, true
}

// progressMismatch compares spend progress against time progress through the
// window and fires once they diverge by more than the threshold, in
// percentage points.
func progressMismatch(in Input, settings domain.AlertSettings) (Draft, bool) {
	if in.Allocated <= 0 {
		return Draft{}, false
	}
	total := budget.TotalDays(in.WindowStart, in.WindowEnd)
	elapsed := budget.OverlapDays(in.WindowStart, in.Today, in.WindowStart, in.WindowEnd)
	if total == 0 || elapsed == 0 {
		return Draft{}, false
	}
	timePct := float64(elapsed) / float64(total) * 100
	spendPct := in.Pacing.GrossSpend / in.Allocated * 100
	gap := spendPct - timePct
	if math.Abs(gap) <= settings.ProgressPct {
		return Draft{}, false
	}
	kind := domain.AlertProgressMismatchUnder
	direction := "behind"
	if gap > 0 {
		kind = domain.AlertProgressMismatchOver
		direction = "ahead of"
	}
	return Draft{
		Kind:     kind,
		Severity: severityByFactor(math.Abs(gap), settings.ProgressPct),
		Message: fmt.Sprintf("%s spend is at %.0f%% with %.0f%% of the window elapsed (%s plan)",
			in.Campaign.Name, spendPct, timePct, direction),
		Metric:    math.Abs(gap),
		Threshold: settings.ProgressPct,
	}, true
}

// campaignEnding fires while the window still has days left but no more than
// the configured ending-soon horizon.
func campaignEnding(in Input, settings domain.AlertSettings) (Draft, bool) {
	days := in.Pacing.DaysLeft
	if days <= 0 || days > settings.EndingSoonDays {
		return Draft{}, false
	}
	return Draft{
		Kind:     domain.AlertCampaignEnding,
		Severity: domain.SeverityLow,
		Message:  fmt.Sprintf("%s budget period ends in %d day(s)", in.Campaign.Name, days),
		Metric:   float64(days),
		Threshold: float64(settings.EndingSoonDays),
	}, true
}

// almostExhausted fires once gross spend reaches the exhaustion percentage of
// the allocated budget.
func almostExhausted(in Input, settings domain.AlertSettings) (Draft, bool) {
	if in.Allocated <= 0 {
		return Draft{}, false
	}
	pct := in.Pacing.GrossSpend / in.Allocated * 100
	if pct < settings.ExhaustionPct {
		return Draft{}, false
	}
	severity := domain.SeverityMedium
	if pct >= 100 {
		severity = domain.SeverityHigh
	}
	return Draft{
		Kind:      domain.AlertBudgetAlmostExhausted,
		Severity:  severity,
		Message:   fmt.Sprintf("%s has spent %.0f%% of its allocated budget", in.Campaign.Name, pct),
		Metric:    pct,
		Threshold: settings.ExhaustionPct,
	}, true
}

// severityByFactor grades a breached percentage metric: double the threshold
// is high, anything else medium.
func severityByFactor(metric, threshold float64) domain.AlertSeverity {
	if threshold > 0 && metric >= 2*threshold {
		return domain.SeverityHigh
	}
	return domain.SeverityMedium
}
