package service

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paceboard/platform/internal/budget"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/infra"
	"github.com/paceboard/platform/internal/pacing"
	"github.com/paceboard/platform/internal/repository"
)

// CampaignOverview joins one campaign's synced snapshot with its resolved
// budget window and pacing figures. It is the row behind both the dashboard
// list and the alert evaluation.
type CampaignOverview struct {
	Campaign    domain.Campaign `json:"campaign"`
	HasBudget   bool            `json:"has_budget"`
	Allocated   float64         `json:"allocated"`
	WindowStart time.Time       `json:"window_start,omitzero"`
	WindowEnd   time.Time       `json:"window_end,omitzero"`
	Pacing      pacing.Result   `json:"pacing"`
}

// Summary is the KPI header of the dashboard.
type Summary struct {
	Campaigns      int     `json:"campaigns"`
	ActiveCount    int     `json:"active_count"`
	AllocatedTotal float64 `json:"allocated_total"`
	GrossSpend     float64 `json:"gross_spend"`
	OnTrack        int     `json:"on_track"`
	Attention      int     `json:"attention"`
	Critical       int     `json:"critical"`
}

// DashboardService assembles the read path: allocation plus pacing for every
// campaign an agency has synced. Campaign snapshots are read through the
// shared cache account by account, so a fresh sync serves dashboard requests
// from memory and a database outage falls back to the last-known-good
// snapshot instead of an empty page.
type DashboardService struct {
	pool        *pgxpool.Pool
	accounts    repository.AccountRepository
	campaigns   repository.CampaignRepository
	configs     repository.BudgetConfigRepository
	commissions repository.CommissionRepository
	cache       *infra.CampaignCache
	logger      *slog.Logger
}

// NewDashboardService creates a DashboardService.
func NewDashboardService(pool *pgxpool.Pool, accounts repository.AccountRepository, campaigns repository.CampaignRepository, configs repository.BudgetConfigRepository, commissions repository.CommissionRepository, cache *infra.CampaignCache, logger *slog.Logger) *DashboardService {
	return &DashboardService{pool: pool, accounts: accounts, campaigns: campaigns, configs: configs, commissions: commissions, cache: cache, logger: logger}
}

// BuildOverviews computes the overview row for every campaign of the agency
// as of today.
func (s *DashboardService) BuildOverviews(ctx context.Context, agencyID uuid.UUID, today time.Time) ([]CampaignOverview, error) {
	campaigns, err := s.agencyCampaigns(ctx, agencyID)
	if err != nil {
		return nil, err
	}

	overviews := make([]CampaignOverview, 0, len(campaigns))
	for _, c := range campaigns {
		ov, err := s.buildOverview(ctx, c, today)
		if err != nil {
			return nil, err
		}
		overviews = append(overviews, ov)
	}
	return overviews, nil
}

// agencyCampaigns gathers the agency's campaign snapshots account by account
// through the cache.
func (s *DashboardService) agencyCampaigns(ctx context.Context, agencyID uuid.UUID) ([]domain.Campaign, error) {
	accounts, err := s.accounts.ListByAgency(ctx, s.pool, agencyID)
	if err != nil {
		return nil, domain.ErrInternal("list accounts", err)
	}

	var campaigns []domain.Campaign
	for _, account := range accounts {
		cs, err := s.accountCampaigns(ctx, account)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, cs...)
	}
	sort.Slice(campaigns, func(i, j int) bool { return campaigns[i].Name < campaigns[j].Name })
	return campaigns, nil
}

// accountCampaigns serves a fresh cache entry directly, refreshes the entry
// from the store on a miss, and on a store failure serves the stale entry so
// the last-known-good snapshot stays visible through the outage.
func (s *DashboardService) accountCampaigns(ctx context.Context, account domain.Account) ([]domain.Campaign, error) {
	key := campaignCacheKey(account.ID)
	if cached, ok := s.cache.Get(key); ok {
		return cached, nil
	}

	campaigns, err := s.campaigns.ListByAccount(ctx, s.pool, account.ID)
	if err != nil {
		if cached, _, ok := s.cache.GetStale(key); ok {
			s.logger.Warn("campaign read failed, serving last-known-good snapshot",
				"account_id", account.ID, "error", err)
			return cached, nil
		}
		return nil, domain.ErrInternal("list campaigns", err)
	}
	s.cache.Set(key, campaigns)
	return campaigns, nil
}

func (s *DashboardService) buildOverview(ctx context.Context, c domain.Campaign, today time.Time) (CampaignOverview, error) {
	ov := CampaignOverview{Campaign: c}

	cfg, err := s.configs.Get(ctx, s.pool, c.ID)
	if err != nil {
		return ov, domain.ErrInternal("load budget config", err)
	}

	commission, err := s.commissions.Get(ctx, s.pool, c.ClientID)
	if err != nil {
		return ov, domain.ErrInternal("load commission", err)
	}

	in := pacing.Input{
		CampaignStatus:  c.Status,
		SpendToDate:     c.SpendToDate,
		LiveDailyBudget: c.LiveDailyBudget,
		Commission:      commission,
		Today:           today,
	}

	if cfg != nil {
		ov.HasBudget = true
		if start, end, ok := budget.ActiveWindow(*cfg, today); ok {
			ov.WindowStart, ov.WindowEnd = start, end
			ov.Allocated = budget.Allocate(*cfg, start, end).Amount
			in.AllocatedBudget = ov.Allocated
			in.WindowEnd = end
			in.HasWindow = true
		}
	}

	ov.Pacing = pacing.Classify(in)
	return ov, nil
}

// Summarize aggregates the KPI totals over all overview rows.
func (s *DashboardService) Summarize(ctx context.Context, agencyID uuid.UUID, today time.Time) (Summary, error) {
	overviews, err := s.BuildOverviews(ctx, agencyID, today)
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	for _, ov := range overviews {
		sum.Campaigns++
		if ov.Campaign.Status == domain.CampaignActive {
			sum.ActiveCount++
		}
		sum.AllocatedTotal += ov.Allocated
		sum.GrossSpend += ov.Pacing.GrossSpend
		switch ov.Pacing.Status {
		case pacing.StatusOnTrack:
			sum.OnTrack++
		case pacing.StatusAttention:
			sum.Attention++
		case pacing.StatusCritical:
			sum.Critical++
		}
	}
	return sum, nil
}
