package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/guard"
	"github.com/paceboard/platform/internal/infra"
	"github.com/paceboard/platform/internal/provider"
	"github.com/paceboard/platform/internal/repository"
)

// campaignCacheKey is the cache slot for one account's campaign snapshot.
// Sync writes it after every successful fetch; the dashboard reads through it.
func campaignCacheKey(accountID uuid.UUID) infra.CacheKey {
	return infra.CacheKey{AccountID: accountID, Resource: "campaigns"}
}

// SyncService refreshes campaign snapshots from the ad platforms. One
// account's failure never blocks the others, and a failed fetch leaves both
// the database rows and the cache entry untouched so the dashboard keeps
// serving the last-known-good data.
type SyncService struct {
	pool      *pgxpool.Pool
	accounts  repository.AccountRepository
	campaigns repository.CampaignRepository
	sources   map[domain.Platform]provider.CampaignSource
	breaker   *guard.CircuitBreaker
	cache     *infra.CampaignCache
	logger    *slog.Logger
}

// NewSyncService creates a SyncService over the given campaign sources.
func NewSyncService(pool *pgxpool.Pool, accounts repository.AccountRepository, campaigns repository.CampaignRepository, sources []provider.CampaignSource, breaker *guard.CircuitBreaker, cache *infra.CampaignCache, logger *slog.Logger) *SyncService {
	byPlatform := make(map[domain.Platform]provider.CampaignSource, len(sources))
	for _, src := range sources {
		byPlatform[src.Platform()] = src
	}
	return &SyncService{
		pool:      pool,
		accounts:  accounts,
		campaigns: campaigns,
		sources:   byPlatform,
		breaker:   breaker,
		cache:     cache,
		logger:    logger,
	}
}

// SyncAll refreshes every connected account sequentially. The returned error
// is non-nil only when no account could be listed at all; per-account
// failures are logged and skipped.
func (s *SyncService) SyncAll(ctx context.Context) error {
	accounts, err := s.accounts.ListAll(ctx, s.pool)
	if err != nil {
		return fmt.Errorf("list accounts: %w", err)
	}

	var failed int
	for _, account := range accounts {
		if err := s.syncAccount(ctx, account); err != nil {
			failed++
			s.logger.Error("account sync failed, keeping last-known-good data",
				"account_id", account.ID, "platform", account.Platform, "error", err)
		}
	}
	s.logger.Info("campaign sync finished", "accounts", len(accounts), "failed", failed)
	return nil
}

func (s *SyncService) syncAccount(ctx context.Context, account domain.Account) error {
	src, ok := s.sources[account.Platform]
	if !ok {
		return fmt.Errorf("no source configured for platform %s", account.Platform)
	}

	key := fmt.Sprintf("%s:%s", account.Platform, account.ExternalID)
	if res := s.breaker.Check(ctx, key); !res.Allowed {
		return fmt.Errorf("skipped: %s", res.Reason)
	}

	campaigns, err := src.FetchCampaigns(ctx, account)
	if err != nil {
		s.breaker.RecordFailure(key)
		return err
	}
	s.breaker.RecordSuccess(key)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx)

	if err := s.campaigns.ReplaceForAccount(ctx, tx, account.ID, campaigns); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	s.cache.Set(campaignCacheKey(account.ID), campaigns)
	s.logger.Debug("account synced", "account_id", account.ID, "campaigns", len(campaigns))
	return nil
}
