package budget

import "github.com/paceboard/platform/internal/domain"

// ToNet converts a gross (billed-to-client) amount to the net amount placed
// with the ad platform.
func ToNet(gross float64, c domain.Commission) float64 {
	switch c.Type {
	case domain.CommissionFixed:
		return gross - c.Value
	case domain.CommissionPercentage:
		return gross * (1 - c.Value/100)
	}
	return gross
}

// ToGross converts a net platform amount back to the gross client amount.
// Percentage commissions of exactly 100 are rejected at configuration-save
// time, so the divisor here is never zero for persisted commissions.
func ToGross(net float64, c domain.Commission) float64 {
	switch c.Type {
	case domain.CommissionFixed:
		return net + c.Value
	case domain.CommissionPercentage:
		return net / (1 - c.Value/100)
	}
	return net
}

// ProRatedGrossFromSpend approximates gross spend for a fixed commission when
// the full gross is not yet known: the consumed share of the commission is
// assumed proportional to how much of the platform budget has been spent.
// A zero adBudget yields a ratio of 0, so the spend passes through unchanged.
func ProRatedGrossFromSpend(spend, adBudget float64, c domain.Commission) float64 {
	if c.Type != domain.CommissionFixed {
		return ToGross(spend, c)
	}
	ratio := 0.0
	if adBudget != 0 {
		ratio = spend / adBudget
	}
	return spend + c.Value*ratio
}

// GrossSpend derives the gross spend figure for pacing from the net spend
// reported by the platform. Nil commission means no markup is configured and
// the net figure is used as-is.
func GrossSpend(spendToDate, adBudget float64, c *domain.Commission) float64 {
	if c == nil {
		return spendToDate
	}
	if c.Type == domain.CommissionFixed {
		return ProRatedGrossFromSpend(spendToDate, adBudget, *c)
	}
	return ToGross(spendToDate, *c)
}
