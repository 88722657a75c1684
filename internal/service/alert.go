package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paceboard/platform/internal/alerting"
	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/repository"
)

// AlertService evaluates the rule engine for whole agencies and owns alert
// persistence. Each raised alert is upserted and its event recorded in the
// outbox within one transaction, so Kafka sees exactly the alerts that were
// stored.
type AlertService struct {
	pool      *pgxpool.Pool
	dashboard *DashboardService
	accounts  repository.AccountRepository
	settings  repository.AlertSettingsRepository
	alerts    repository.AlertRepository
	outbox    repository.AlertOutboxRepository
	logger    *slog.Logger
}

// NewAlertService creates an AlertService.
func NewAlertService(pool *pgxpool.Pool, dashboard *DashboardService, accounts repository.AccountRepository, settings repository.AlertSettingsRepository, alerts repository.AlertRepository, outbox repository.AlertOutboxRepository, logger *slog.Logger) *AlertService {
	return &AlertService{
		pool:      pool,
		dashboard: dashboard,
		accounts:  accounts,
		settings:  settings,
		alerts:    alerts,
		outbox:    outbox,
		logger:    logger,
	}
}

// EvaluateAll runs rule evaluation for every agency with a connected account.
// Driven by the periodic alert task.
func (s *AlertService) EvaluateAll(ctx context.Context) error {
	agencyIDs, err := s.accounts.ListAgencyIDs(ctx, s.pool)
	if err != nil {
		return err
	}
	for _, agencyID := range agencyIDs {
		if _, err := s.EvaluateAgency(ctx, agencyID); err != nil {
			s.logger.Error("agency alert evaluation failed", "agency_id", agencyID, "error", err)
		}
	}
	return nil
}

// EvaluateAgency re-runs every enabled rule against the agency's campaigns
// and upserts the resulting alerts. Returns the number of alerts raised.
func (s *AlertService) EvaluateAgency(ctx context.Context, agencyID uuid.UUID) (int, error) {
	settings, err := s.GetSettings(ctx, agencyID)
	if err != nil {
		return 0, err
	}

	today := time.Now().UTC()
	overviews, err := s.dashboard.BuildOverviews(ctx, agencyID, today)
	if err != nil {
		return 0, err
	}

	var raised int
	for _, ov := range overviews {
		drafts := alerting.Evaluate(alerting.Input{
			Campaign:    ov.Campaign,
			HasBudget:   ov.HasBudget,
			Allocated:   ov.Allocated,
			WindowStart: ov.WindowStart,
			WindowEnd:   ov.WindowEnd,
			Today:       today,
			Pacing:      ov.Pacing,
		}, settings)

		for _, d := range drafts {
			if err := s.store(ctx, agencyID, d); err != nil {
				return raised, err
			}
			raised++
		}
	}
	s.logger.Info("alerts evaluated", "agency_id", agencyID, "raised", raised)
	return raised, nil
}

// store upserts one alert and records its outbox event in one transaction.
func (s *AlertService) store(ctx context.Context, agencyID uuid.UUID, d alerting.Draft) error {
	alert := domain.Alert{
		AgencyID:   agencyID,
		CampaignID: d.CampaignID,
		Kind:       d.Kind,
		Severity:   d.Severity,
		Message:    d.Message,
		Metric:     d.Metric,
		Threshold:  d.Threshold,
	}

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return domain.ErrInternal("begin tx", err)
	}
	defer tx.Rollback(ctx)

	if err := s.alerts.Upsert(ctx, tx, &alert); err != nil {
		return err
	}

	payload, err := json.Marshal(alert)
	if err != nil {
		return domain.ErrInternal("encode alert event", err)
	}
	event := domain.AlertEvent{
		EventID:    uuid.New(),
		AgencyID:   agencyID,
		CampaignID: alert.CampaignID,
		Kind:       alert.Kind,
		Payload:    payload,
		OccurredAt: time.Now().UTC(),
	}
	if err := s.outbox.Insert(ctx, tx, event); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return domain.ErrInternal("commit alert", err)
	}
	return nil
}

// List returns the agency's alerts, unread first.
func (s *AlertService) List(ctx context.Context, agencyID uuid.UUID) ([]domain.Alert, error) {
	return s.alerts.ListByAgency(ctx, s.pool, agencyID)
}

// MarkRead flags one alert as read.
func (s *AlertService) MarkRead(ctx context.Context, agencyID, id uuid.UUID) error {
	return s.alerts.MarkRead(ctx, s.pool, agencyID, id)
}

// Delete removes one alert.
func (s *AlertService) Delete(ctx context.Context, agencyID, id uuid.UUID) error {
	return s.alerts.Delete(ctx, s.pool, agencyID, id)
}

// GetSettings returns the agency's thresholds, falling back to defaults when
// none were ever saved.
func (s *AlertService) GetSettings(ctx context.Context, agencyID uuid.UUID) (domain.AlertSettings, error) {
	settings, err := s.settings.Get(ctx, s.pool, agencyID)
	if err != nil {
		return domain.AlertSettings{}, domain.ErrInternal("load alert settings", err)
	}
	if settings == nil {
		return domain.DefaultAlertSettings(agencyID), nil
	}
	return *settings, nil
}

// PutSettings validates and saves the agency's thresholds.
func (s *AlertService) PutSettings(ctx context.Context, settings domain.AlertSettings) error {
	if err := domain.ValidateAlertSettings(settings); err != nil {
		return domain.ErrValidation(err.Error())
	}
	return s.settings.Put(ctx, s.pool, settings)
}
