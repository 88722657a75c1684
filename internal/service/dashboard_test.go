package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/infra"
	"github.com/paceboard/platform/internal/pacing"
	"github.com/paceboard/platform/internal/repository"
)

// fakeAccountRepo serves a fixed account list.
type fakeAccountRepo struct {
	accounts []domain.Account
}

func (f *fakeAccountRepo) ListAll(_ context.Context, _ repository.DBTX) ([]domain.Account, error) {
	return f.accounts, nil
}

func (f *fakeAccountRepo) ListByAgency(_ context.Context, _ repository.DBTX, agencyID uuid.UUID) ([]domain.Account, error) {
	var out []domain.Account
	for _, a := range f.accounts {
		if a.AgencyID == agencyID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (f *fakeAccountRepo) ListAgencyIDs(_ context.Context, _ repository.DBTX) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, a := range f.accounts {
		if !seen[a.AgencyID] {
			seen[a.AgencyID] = true
			ids = append(ids, a.AgencyID)
		}
	}
	return ids, nil
}

// fakeCampaignRepo serves a fixed campaign list. listErr simulates a store
// outage on reads; replaceCalls counts snapshot swaps.
type fakeCampaignRepo struct {
	campaigns    []domain.Campaign
	listErr      error
	replaceCalls int
}

func (f *fakeCampaignRepo) FindByID(_ context.Context, _ repository.DBTX, id string) (*domain.Campaign, error) {
	for _, c := range f.campaigns {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCampaignRepo) ListByAgency(_ context.Context, _ repository.DBTX, agencyID uuid.UUID) ([]domain.Campaign, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Campaign
	for _, c := range f.campaigns {
		if c.AgencyID == agencyID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) ListByAccount(_ context.Context, _ repository.DBTX, accountID uuid.UUID) ([]domain.Campaign, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []domain.Campaign
	for _, c := range f.campaigns {
		if c.AccountID == accountID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCampaignRepo) ReplaceForAccount(_ context.Context, _ pgx.Tx, accountID uuid.UUID, campaigns []domain.Campaign) error {
	f.replaceCalls++
	var kept []domain.Campaign
	for _, c := range f.campaigns {
		if c.AccountID != accountID {
			kept = append(kept, c)
		}
	}
	f.campaigns = append(kept, campaigns...)
	return nil
}

// fakeCommissionRepo serves per-client commissions.
type fakeCommissionRepo struct {
	commissions map[string]domain.Commission
}

func (f *fakeCommissionRepo) Get(_ context.Context, _ repository.DBTX, clientID string) (*domain.Commission, error) {
	c, ok := f.commissions[clientID]
	if !ok {
		return nil, nil
	}
	return &c, nil
}

func (f *fakeCommissionRepo) Put(_ context.Context, _ repository.DBTX, _ uuid.UUID, c domain.Commission) error {
	if f.commissions == nil {
		f.commissions = make(map[string]domain.Commission)
	}
	f.commissions[c.ClientID] = c
	return nil
}

// --- BuildOverviews Tests ---

func TestBuildOverviews(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	accountID := uuid.New()
	today := date(2025, 12, 16)

	accounts := &fakeAccountRepo{accounts: []domain.Account{
		{ID: accountID, AgencyID: agencyID, Platform: domain.PlatformSearch, ExternalID: "ext-1"},
	}}

	campaign := domain.Campaign{
		ID:              "c-1",
		AccountID:       accountID,
		AgencyID:        agencyID,
		ClientID:        "client-a",
		Name:            "Winter Launch",
		Status:          domain.CampaignActive,
		SpendToDate:     150000,
		LiveDailyBudget: 10000,
	}

	newService := func(campaigns *fakeCampaignRepo, configs *fakeConfigRepo, commissions *fakeCommissionRepo) *DashboardService {
		return NewDashboardService(nil, accounts, campaigns, configs, commissions, infra.NewCampaignCache(time.Hour), testLogger())
	}

	t.Run("campaign with a fixed budget", func(t *testing.T) {
		configs := newFakeConfigRepo()
		budgets := newBudgetService(configs)
		_, err := budgets.SaveFixed(ctx, agencyID, "c-1", date(2025, 12, 1), date(2025, 12, 31), 310000, "ops", false)
		require.NoError(t, err)

		svc := newService(&fakeCampaignRepo{campaigns: []domain.Campaign{campaign}}, configs, &fakeCommissionRepo{})
		overviews, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)
		require.Len(t, overviews, 1)

		ov := overviews[0]
		assert.True(t, ov.HasBudget)
		assert.Equal(t, date(2025, 12, 1), ov.WindowStart)
		assert.Equal(t, date(2025, 12, 31), ov.WindowEnd)
		assert.InDelta(t, 310000, ov.Allocated, 1e-6)
		assert.Equal(t, 16, ov.Pacing.DaysLeft)
		assert.InDelta(t, 10000, ov.Pacing.RecommendedDaily, 1e-6)
		assert.Equal(t, pacing.StatusOnTrack, ov.Pacing.Status)
	})

	t.Run("campaign without a budget is inactive", func(t *testing.T) {
		svc := newService(&fakeCampaignRepo{campaigns: []domain.Campaign{campaign}}, newFakeConfigRepo(), &fakeCommissionRepo{})
		overviews, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)
		require.Len(t, overviews, 1)
		assert.False(t, overviews[0].HasBudget)
		assert.Equal(t, pacing.StatusInactive, overviews[0].Pacing.Status)
	})

	t.Run("recurring budget uses the calendar month window", func(t *testing.T) {
		configs := newFakeConfigRepo()
		budgets := newBudgetService(configs)
		_, err := budgets.SaveRecurring(ctx, agencyID, "c-1", date(2025, 12, 1), date(2026, 2, 1), 310000, "ops", false)
		require.NoError(t, err)

		svc := newService(&fakeCampaignRepo{campaigns: []domain.Campaign{campaign}}, configs, &fakeCommissionRepo{})
		overviews, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)
		ov := overviews[0]
		assert.Equal(t, date(2025, 12, 1), ov.WindowStart)
		assert.Equal(t, date(2025, 12, 31), ov.WindowEnd)
		assert.InDelta(t, 310000, ov.Allocated, 1e-6)
	})

	t.Run("commission grosses up reported spend", func(t *testing.T) {
		configs := newFakeConfigRepo()
		budgets := newBudgetService(configs)
		_, err := budgets.SaveFixed(ctx, agencyID, "c-1", date(2025, 12, 1), date(2025, 12, 31), 310000, "ops", false)
		require.NoError(t, err)

		commissions := &fakeCommissionRepo{commissions: map[string]domain.Commission{
			"client-a": {ClientID: "client-a", Type: domain.CommissionPercentage, Value: 20},
		}}
		svc := newService(&fakeCampaignRepo{campaigns: []domain.Campaign{campaign}}, configs, commissions)
		overviews, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)
		assert.InDelta(t, 187500, overviews[0].Pacing.GrossSpend, 1e-6)
	})

	t.Run("other agencies' campaigns are excluded", func(t *testing.T) {
		other := campaign
		other.ID = "c-2"
		other.AccountID = uuid.New()
		other.AgencyID = uuid.New()
		scoped := &fakeAccountRepo{accounts: []domain.Account{
			{ID: accountID, AgencyID: agencyID, Platform: domain.PlatformSearch},
			{ID: other.AccountID, AgencyID: other.AgencyID, Platform: domain.PlatformSocial},
		}}
		svc := NewDashboardService(nil, scoped, &fakeCampaignRepo{campaigns: []domain.Campaign{campaign, other}},
			newFakeConfigRepo(), &fakeCommissionRepo{}, infra.NewCampaignCache(time.Hour), testLogger())
		overviews, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)
		assert.Len(t, overviews, 1)
	})
}

// --- Cache Read-Through Tests ---

func TestBuildOverviewsCache(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	accountID := uuid.New()
	today := date(2025, 12, 16)

	accounts := &fakeAccountRepo{accounts: []domain.Account{
		{ID: accountID, AgencyID: agencyID, Platform: domain.PlatformSearch},
	}}
	campaign := domain.Campaign{
		ID: "c-1", AccountID: accountID, AgencyID: agencyID, ClientID: "client-a",
		Name: "Winter Launch", Status: domain.CampaignActive,
	}

	t.Run("fresh entry is served without touching the store", func(t *testing.T) {
		cache := infra.NewCampaignCache(time.Hour)
		cache.Set(campaignCacheKey(accountID), []domain.Campaign{campaign})
		repo := &fakeCampaignRepo{listErr: errors.New("store must not be read")}

		svc := NewDashboardService(nil, accounts, repo, newFakeConfigRepo(), &fakeCommissionRepo{}, cache, testLogger())
		overviews, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)
		require.Len(t, overviews, 1)
		assert.Equal(t, "c-1", overviews[0].Campaign.ID)
	})

	t.Run("miss reads the store and refreshes the entry", func(t *testing.T) {
		cache := infra.NewCampaignCache(time.Hour)
		repo := &fakeCampaignRepo{campaigns: []domain.Campaign{campaign}}

		svc := NewDashboardService(nil, accounts, repo, newFakeConfigRepo(), &fakeCommissionRepo{}, cache, testLogger())
		_, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)

		cached, ok := cache.Get(campaignCacheKey(accountID))
		require.True(t, ok)
		assert.Len(t, cached, 1)
	})

	t.Run("store outage serves the stale snapshot", func(t *testing.T) {
		// Nanosecond TTL: the entry is stale immediately, so only GetStale
		// can serve it.
		cache := infra.NewCampaignCache(time.Nanosecond)
		cache.Set(campaignCacheKey(accountID), []domain.Campaign{campaign})
		repo := &fakeCampaignRepo{listErr: errors.New("connection refused")}

		svc := NewDashboardService(nil, accounts, repo, newFakeConfigRepo(), &fakeCommissionRepo{}, cache, testLogger())
		overviews, err := svc.BuildOverviews(ctx, agencyID, today)
		require.NoError(t, err)
		require.Len(t, overviews, 1)
		assert.Equal(t, "c-1", overviews[0].Campaign.ID)
	})

	t.Run("store outage with no snapshot fails", func(t *testing.T) {
		cache := infra.NewCampaignCache(time.Hour)
		repo := &fakeCampaignRepo{listErr: errors.New("connection refused")}

		svc := NewDashboardService(nil, accounts, repo, newFakeConfigRepo(), &fakeCommissionRepo{}, cache, testLogger())
		_, err := svc.BuildOverviews(ctx, agencyID, today)
		require.Error(t, err)
	})
}

// --- Summarize Tests ---

func TestSummarize(t *testing.T) {
	ctx := context.Background()
	agencyID := uuid.New()
	accountID := uuid.New()
	today := date(2025, 12, 16)

	configs := newFakeConfigRepo()
	budgets := newBudgetService(configs)

	onTrack := domain.Campaign{ID: "c-1", AccountID: accountID, AgencyID: agencyID, ClientID: "a", Status: domain.CampaignActive, SpendToDate: 150000, LiveDailyBudget: 10000}
	_, err := budgets.SaveFixed(ctx, agencyID, "c-1", date(2025, 12, 1), date(2025, 12, 31), 310000, "ops", false)
	require.NoError(t, err)

	critical := domain.Campaign{ID: "c-2", AccountID: accountID, AgencyID: agencyID, ClientID: "a", Status: domain.CampaignActive, SpendToDate: 400000, LiveDailyBudget: 10000}
	_, err = budgets.SaveFixed(ctx, agencyID, "c-2", date(2025, 12, 1), date(2025, 12, 31), 310000, "ops", false)
	require.NoError(t, err)

	paused := domain.Campaign{ID: "c-3", AccountID: accountID, AgencyID: agencyID, ClientID: "a", Status: domain.CampaignPaused}

	accounts := &fakeAccountRepo{accounts: []domain.Account{
		{ID: accountID, AgencyID: agencyID, Platform: domain.PlatformSearch},
	}}
	svc := NewDashboardService(nil, accounts, &fakeCampaignRepo{campaigns: []domain.Campaign{onTrack, critical, paused}},
		configs, &fakeCommissionRepo{}, infra.NewCampaignCache(time.Hour), testLogger())
	sum, err := svc.Summarize(ctx, agencyID, today)
	require.NoError(t, err)

	assert.Equal(t, 3, sum.Campaigns)
	assert.Equal(t, 2, sum.ActiveCount)
	assert.InDelta(t, 620000, sum.AllocatedTotal, 1e-6)
	assert.InDelta(t, 550000, sum.GrossSpend, 1e-6)
	assert.Equal(t, 1, sum.OnTrack)
	assert.Equal(t, 1, sum.Critical)
	assert.Equal(t, 0, sum.Attention)
}
