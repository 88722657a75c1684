package domain

import (
	"time"

	"github.com/google/uuid"
)

// Platform identifies which ad platform a campaign or account belongs to.
type Platform string

const (
	PlatformSearch Platform = "search"
	PlatformSocial Platform = "social"
)

// CampaignStatus mirrors the status reported by the ad platform.
type CampaignStatus string

const (
	CampaignActive CampaignStatus = "active"
	CampaignPaused CampaignStatus = "paused"
	CampaignEnded  CampaignStatus = "ended"
)

// Campaign is the synced snapshot of an ad-platform campaign. It is owned by
// the sync layer and read-only to the budget core: SpendToDate and
// LiveDailyBudget are net (platform-side) amounts refreshed on every sync.
type Campaign struct {
	ID              string         `json:"id"`
	AccountID       uuid.UUID      `json:"account_id"`
	AgencyID        uuid.UUID      `json:"agency_id"`
	ClientID        string         `json:"client_id"`
	Name            string         `json:"name"`
	Platform        Platform       `json:"platform"`
	Status          CampaignStatus `json:"status"`
	SpendToDate     float64        `json:"spend_to_date"`
	LiveDailyBudget float64        `json:"live_daily_budget"`
	SyncedAt        time.Time      `json:"synced_at"`
}

// Account is one ad-platform account an agency has connected. Campaigns are
// fetched per account; one account's fetch failing must not block others.
type Account struct {
	ID         uuid.UUID `json:"id"`
	AgencyID   uuid.UUID `json:"agency_id"`
	Platform   Platform  `json:"platform"`
	ExternalID string    `json:"external_id"`
	Name       string    `json:"name"`
}
