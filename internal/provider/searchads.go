package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/paceboard/platform/internal/domain"
)

// ── Search-ads wire types ──

type searchCampaign struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Status      string  `json:"status"` // ENABLED, PAUSED, REMOVED
	CostMicros  int64   `json:"cost_micros"`
	DailyMicros int64   `json:"daily_budget_micros"`
	CustomerRef string  `json:"customer_ref"`
}

type searchCampaignList struct {
	Results []searchCampaign `json:"results"`
}

// SearchAdsClient fetches campaigns from the search-ads platform.
type SearchAdsClient struct {
	baseURL string
	apiKey  string
	logger  *slog.Logger
	client  *http.Client
}

// NewSearchAdsClient creates a search-ads client.
func NewSearchAdsClient(baseURL, apiKey string, logger *slog.Logger) *SearchAdsClient {
	return &SearchAdsClient{
		baseURL: baseURL,
		apiKey:  apiKey,
		logger:  logger,
		client:  &http.Client{Timeout: 30 * time.Second},
	}
}

func (c *SearchAdsClient) Platform() domain.Platform { return domain.PlatformSearch }

// FetchCampaigns lists all campaigns under the account, mapped to domain
// snapshots. Spend and daily budgets arrive in micros and are scaled down.
func (c *SearchAdsClient) FetchCampaigns(ctx context.Context, account domain.Account) ([]domain.Campaign, error) {
	url := fmt.Sprintf("%s/v2/customers/%s/campaigns", c.baseURL, account.ExternalID)
	header := http.Header{"Authorization": []string{"Bearer " + c.apiKey}}

	body, err := getJSON(ctx, c.client, url, header)
	if err != nil {
		return nil, domain.ErrExternalService(string(domain.PlatformSearch), err)
	}

	var list searchCampaignList
	if err := json.Unmarshal(body, &list); err != nil {
		return nil, domain.ErrExternalService(string(domain.PlatformSearch), fmt.Errorf("decode campaigns: %w", err))
	}

	campaigns := make([]domain.Campaign, 0, len(list.Results))
	for _, sc := range list.Results {
		campaigns = append(campaigns, domain.Campaign{
			ID:              sc.ID,
			AccountID:       account.ID,
			AgencyID:        account.AgencyID,
			ClientID:        sc.CustomerRef,
			Name:            sc.Name,
			Platform:        domain.PlatformSearch,
			Status:          searchStatus(sc.Status),
			SpendToDate:     float64(sc.CostMicros) / 1e6,
			LiveDailyBudget: float64(sc.DailyMicros) / 1e6,
			SyncedAt:        time.Now().UTC(),
		})
	}
	c.logger.Debug("search ads campaigns fetched", "account", account.ExternalID, "count", len(campaigns))
	return campaigns, nil
}

func searchStatus(s string) domain.CampaignStatus {
	switch s {
	case "ENABLED":
		return domain.CampaignActive
	case "PAUSED":
		return domain.CampaignPaused
	default:
		return domain.CampaignEnded
	}
}
