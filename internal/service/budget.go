package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paceboard/platform/internal/budget"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/repository"
)

// BudgetService owns budget configuration writes and the allocation read
// entry point. Saves are whole-document replacements; switching the budget
// type without confirmation is refused so callers can warn the user first.
type BudgetService struct {
	pool      *pgxpool.Pool
	configs   repository.BudgetConfigRepository
	campaigns repository.CampaignRepository
	logger    *slog.Logger
}

// NewBudgetService creates a BudgetService.
func NewBudgetService(pool *pgxpool.Pool, configs repository.BudgetConfigRepository, campaigns repository.CampaignRepository, logger *slog.Logger) *BudgetService {
	return &BudgetService{pool: pool, configs: configs, campaigns: campaigns, logger: logger}
}

// GetConfig returns the campaign's budget document.
func (s *BudgetService) GetConfig(ctx context.Context, campaignID string) (*domain.CampaignBudgetConfig, error) {
	cfg, err := s.configs.Get(ctx, s.pool, campaignID)
	if err != nil {
		return nil, domain.ErrInternal("load budget config", err)
	}
	if cfg == nil {
		return nil, domain.ErrNotFound("budget config", campaignID)
	}
	return cfg, nil
}

// Allocate resolves the allocated budget for an arbitrary reporting window.
func (s *BudgetService) Allocate(ctx context.Context, campaignID string, windowStart, windowEnd time.Time) (budget.Allocation, error) {
	if err := domain.ValidateDateRange(windowStart, windowEnd); err != nil {
		return budget.Allocation{}, domain.ErrValidation(err.Error())
	}
	cfg, err := s.GetConfig(ctx, campaignID)
	if err != nil {
		return budget.Allocation{}, err
	}
	return budget.Allocate(*cfg, windowStart, windowEnd), nil
}

// SaveFixed replaces the campaign's config with a single fixed period.
// An existing recurring config is only overwritten when confirmOverwrite is
// set; otherwise the caller receives a typed conflict to surface as a warning.
func (s *BudgetService) SaveFixed(ctx context.Context, agencyID uuid.UUID, campaignID string, start, end time.Time, amount float64, actor string, confirmOverwrite bool) (*domain.CampaignBudgetConfig, error) {
	if err := domain.ValidateDateRange(start, end); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateAmount(amount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	existing, err := s.checkTypeSwitch(ctx, campaignID, domain.BudgetFixed, confirmOverwrite)
	if err != nil {
		return nil, err
	}

	start, end = budget.Midnight(start), budget.Midnight(end)
	cfg := domain.CampaignBudgetConfig{
		CampaignID: campaignID,
		Type:       domain.BudgetFixed,
		Periods: []domain.BudgetPeriod{
			{StartDate: start, EndDate: end, Amount: amount},
		},
		RawConfig: domain.RawConfig{
			Start:  start.Format(domain.DateFormat),
			End:    end.Format(domain.DateFormat),
			Amount: amount,
		},
		History: append(history(existing), domain.BudgetHistoryEntry{
			Timestamp:         time.Now().UTC(),
			Type:              domain.BudgetFixed,
			Amount:            amount,
			PeriodDescription: fmt.Sprintf("%s - %s", start.Format(domain.DateFormat), end.Format(domain.DateFormat)),
			Actor:             actor,
		}),
	}

	return s.put(ctx, agencyID, cfg)
}

// SaveRecurring replaces the campaign's config with one generated period per
// calendar month from startMonth through endMonth.
func (s *BudgetService) SaveRecurring(ctx context.Context, agencyID uuid.UUID, campaignID string, startMonth, endMonth time.Time, monthlyAmount float64, actor string, confirmOverwrite bool) (*domain.CampaignBudgetConfig, error) {
	if err := domain.ValidateDateRange(startMonth, endMonth); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	if err := domain.ValidateAmount(monthlyAmount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}

	existing, err := s.checkTypeSwitch(ctx, campaignID, domain.BudgetRecurring, confirmOverwrite)
	if err != nil {
		return nil, err
	}

	cfg := domain.CampaignBudgetConfig{
		CampaignID: campaignID,
		Type:       domain.BudgetRecurring,
		Periods:    budget.ExpandRecurring(startMonth, endMonth, monthlyAmount),
		RawConfig: domain.RawConfig{
			StartMonth: budget.MonthStart(startMonth).Format(domain.MonthFormat),
			EndMonth:   budget.MonthStart(endMonth).Format(domain.MonthFormat),
			Amount:     monthlyAmount,
		},
		History: append(history(existing), domain.BudgetHistoryEntry{
			Timestamp: time.Now().UTC(),
			Type:      domain.BudgetRecurring,
			Amount:    monthlyAmount,
			PeriodDescription: fmt.Sprintf("%s - %s monthly",
				budget.MonthStart(startMonth).Format(domain.MonthFormat),
				budget.MonthStart(endMonth).Format(domain.MonthFormat)),
			Actor: actor,
		}),
	}

	return s.put(ctx, agencyID, cfg)
}

// SuggestExtension proposes the top-up for extending the fixed period to
// newEnd at its current daily rate.
func (s *BudgetService) SuggestExtension(ctx context.Context, campaignID string, newEnd time.Time) (budget.ExtensionSuggestion, error) {
	cfg, err := s.fixedConfigForExtension(ctx, campaignID, newEnd)
	if err != nil {
		return budget.ExtensionSuggestion{}, err
	}
	return budget.SuggestExtension(cfg.Periods[0], newEnd), nil
}

// Extend applies a top-up, replacing the period and appending history.
func (s *BudgetService) Extend(ctx context.Context, agencyID uuid.UUID, campaignID string, newEnd time.Time, addAmount float64, actor string) (*domain.CampaignBudgetConfig, error) {
	if err := domain.ValidateAmount(addAmount); err != nil {
		return nil, domain.ErrValidation(err.Error())
	}
	cfg, err := s.fixedConfigForExtension(ctx, campaignID, newEnd)
	if err != nil {
		return nil, err
	}
	updated := budget.ApplyExtension(*cfg, newEnd, addAmount, actor, time.Now().UTC())
	return s.put(ctx, agencyID, updated)
}

func (s *BudgetService) fixedConfigForExtension(ctx context.Context, campaignID string, newEnd time.Time) (*domain.CampaignBudgetConfig, error) {
	cfg, err := s.GetConfig(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if cfg.Type != domain.BudgetFixed {
		return nil, domain.ErrValidation("only fixed budgets can be extended")
	}
	if len(cfg.Periods) == 0 {
		return nil, domain.ErrValidation("budget config has no period to extend")
	}
	if !budget.Midnight(newEnd).After(budget.Midnight(cfg.Periods[0].EndDate)) {
		return nil, domain.ErrValidation("new end date must be after the current end date")
	}
	return cfg, nil
}

// checkTypeSwitch loads the existing config and refuses a cross-type
// overwrite unless confirmed.
func (s *BudgetService) checkTypeSwitch(ctx context.Context, campaignID string, newType domain.BudgetType, confirmed bool) (*domain.CampaignBudgetConfig, error) {
	existing, err := s.configs.Get(ctx, s.pool, campaignID)
	if err != nil {
		return nil, domain.ErrInternal("load budget config", err)
	}
	if existing != nil && existing.Type != newType && !confirmed {
		return nil, domain.ErrTypeSwitch(existing.Type)
	}
	return existing, nil
}

func (s *BudgetService) put(ctx context.Context, agencyID uuid.UUID, cfg domain.CampaignBudgetConfig) (*domain.CampaignBudgetConfig, error) {
	if err := s.configs.Put(ctx, s.pool, agencyID, cfg); err != nil {
		return nil, err
	}
	s.logger.Info("budget config saved", "campaign_id", cfg.CampaignID, "type", cfg.Type)
	return &cfg, nil
}

// history carries the audit trail forward across replacements; the trail is
// append-only even when the config itself is overwritten.
func history(existing *domain.CampaignBudgetConfig) []domain.BudgetHistoryEntry {
	if existing == nil {
		return nil
	}
	return existing.History
}
