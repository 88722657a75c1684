package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/paceboard/platform/internal/domain"
)

// ── Social-ads wire types ──
//
// The social platform reports money fields as decimal strings in minor units.

type socialCampaign struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	EffectiveStatus string `json:"effective_status"` // ACTIVE, PAUSED, ARCHIVED, DELETED
	Spend           string `json:"spend"`
	DailyBudget     string `json:"daily_budget"`
	ClientRef       string `json:"client_ref"`
}

type socialCampaignPage struct {
	Data   []socialCampaign `json:"data"`
	Paging struct {
		Next string `json:"next"`
	} `json:"paging"`
}

// SocialAdsClient fetches campaigns from the social-ads platform.
type SocialAdsClient struct {
	baseURL string
	apiKey  string
	logger  *slog.Logger
	client  *http.Client
}

// NewSocialAdsClient creates a social-ads client.
func NewSocialAdsClient(baseURL, apiKey string, logger *slog.Logger) *SocialAdsClient {
	return &SocialAdsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *SocialAdsClient) Platform() domain.Platform { return domain.PlatformSocial }

// FetchCampaigns walks the paged campaign listing for the ad account.
func (c *SocialAdsClient) FetchCampaigns(ctx context.Context, account domain.Account) ([]domain.Campaign, error) {
	url := fmt.Sprintf("%s/v19/act_%s/campaigns?fields=id,name,effective_status,spend,daily_budget,client_ref&access_token=%s",
		c.baseURL, account.ExternalID, c.apiKey)

	var campaigns []domain.Campaign
	for url != "" {
		body, err := getJSON(ctx, c.client, url, nil)
		if err != nil {
			return nil, domain.ErrExternalService(string(domain.PlatformSocial), err)
		}

		var page socialCampaignPage
		if err := json.Unmarshal(body, &page); err != nil {
			return nil, domain.ErrExternalService(string(domain.PlatformSocial), fmt.Errorf("decode campaigns: %w", err))
		}

		for _, sc := range page.Data {
			campaigns = append(campaigns, domain.Campaign{
				ID:              sc.ID,
				AccountID:       account.ID,
				AgencyID:        account.AgencyID,
				ClientID:        sc.ClientRef,
				Name:            sc.Name,
				Platform:        domain.PlatformSocial,
				Status:          socialStatus(sc.EffectiveStatus),
				SpendToDate:     minorUnits(sc.Spend),
				LiveDailyBudget: minorUnits(sc.DailyBudget),
				SyncedAt:        time.Now().UTC(),
			})
		}
		url = page.Paging.Next
	}

	c.logger.Debug("social ads campaigns fetched", "account", account.ExternalID, "count", len(campaigns))
	return campaigns, nil
}

func socialStatus(s string) domain.CampaignStatus {
	switch s {
	case "ACTIVE":
		return domain.CampaignActive
	case "PAUSED":
		return domain.CampaignPaused
	default:
		return domain.CampaignEnded
	}
}

// minorUnits parses a decimal string of minor units ("125000" cents) into
// whole currency units. Unparseable values count as zero spend.
func minorUnits(s string) float64 {
	if s == "" {
		return 0
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return float64(n) / 100
}
