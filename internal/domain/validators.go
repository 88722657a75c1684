package domain

import (
	"fmt"
	"time"
)

// ValidateDateRange checks that end does not precede start.
func ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return fmt.Errorf("start and end dates are required")
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s precedes start date %s",
			end.Format(DateFormat), start.Format(DateFormat))
	}
	return nil
}

// ValidateAmount checks that a monetary amount is non-negative. Zero is valid
// and represents a configured-but-empty budget.
func ValidateAmount(amount float64) error {
	if amount < 0 {
		return fmt.Errorf("amount must be non-negative, got %.2f", amount)
	}
	return nil
}

// ValidateBudgetType checks the budget type enum.
func ValidateBudgetType(t BudgetType) error {
	switch t {
	case BudgetRecurring, BudgetFixed:
		return nil
	}
	return fmt.Errorf("unknown budget type: %q", t)
}

// ValidateCommission checks type and value bounds. A percentage of exactly 100
// is rejected here, at save time, because it makes the net→gross conversion
// divide by zero.
func ValidateCommission(c Commission) error {
	switch c.Type {
	case CommissionFixed:
		if c.Value < 0 {
			return fmt.Errorf("fixed commission must be non-negative, got %.2f", c.Value)
		}
	case CommissionPercentage:
		if c.Value < 0 || c.Value >= 100 {
			return fmt.Errorf("percentage commission must be in [0, 100), got %.2f", c.Value)
		}
	default:
		return fmt.Errorf("unknown commission type: %q", c.Type)
	}
	return nil
}

// ValidateAlertKind checks membership in the closed alert-kind set.
func ValidateAlertKind(kind AlertKind) error {
	for _, k := range AllAlertKinds {
		if k == kind {
			return nil
		}
	}
	return fmt.Errorf("unknown alert kind: %q", kind)
}

// ValidateAlertSettings checks threshold bounds before persisting.
func ValidateAlertSettings(s AlertSettings) error {
	if s.DailyBudgetPct < 0 || s.ProgressPct < 0 || s.ExhaustionPct < 0 {
		return fmt.Errorf("alert thresholds must be non-negative")
	}
	if s.ExhaustionPct > 100 {
		return fmt.Errorf("exhaustion threshold must not exceed 100, got %.2f", s.ExhaustionPct)
	}
	if s.EndingSoonDays < 0 {
		return fmt.Errorf("ending-soon days must be non-negative, got %d", s.EndingSoonDays)
	}
	for _, k := range s.EnabledKinds {
		if err := ValidateAlertKind(k); err != nil {
			return err
		}
	}
	return nil
}
