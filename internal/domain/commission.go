package domain

// CommissionType distinguishes a flat fee from a percentage cut.
type CommissionType string

const (
	CommissionFixed      CommissionType = "fixed"
	CommissionPercentage CommissionType = "percentage"
)

// Commission is the agency's cut on a client's ad spend, used to translate
// between gross (billed-to-client) and net (spent-on-platform) amounts.
// Associated with a client, not a campaign. Percentage values live in
// [0, 100); a literal 100 is rejected at save time because it makes the
// net→gross conversion undefined.
type Commission struct {
	ClientID string         `json:"clientId"`
	Type     CommissionType `json:"type"`
	Value    float64        `json:"value"`
}
