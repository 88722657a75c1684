package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paceboard/platform/internal/domain"
)

type alertRepo struct{}

// NewAlertRepository returns a pgx-backed AlertRepository.
func NewAlertRepository() AlertRepository {
	return &alertRepo{}
}

func (r *alertRepo) ListByAgency(ctx context.Context, db DBTX, agencyID uuid.UUID) ([]domain.Alert, error) {
	rows, err := db.Query(ctx, `
		SELECT id, agency_id, campaign_id, kind, severity, message, metric, threshold, read, created_at, updated_at
		FROM alerts
		WHERE agency_id = $1
		ORDER BY read ASC, updated_at DESC`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list alerts: %w", err)
	}
	defer rows.Close()

	var alerts []domain.Alert
	for rows.Next() {
		var a domain.Alert
		if err := rows.Scan(&a.ID, &a.AgencyID, &a.CampaignID, &a.Kind, &a.Severity,
			&a.Message, &a.Metric, &a.Threshold, &a.Read, &a.CreatedAt, &a.UpdatedAt); err != nil {
			return nil, err
		}
		alerts = append(alerts, a)
	}
	return alerts, rows.Err()
}

// Upsert keys on (campaign_id, kind): re-evaluating a rule refreshes the
// existing row's payload instead of stacking duplicates. A previously read
// alert stays read; its updated_at still moves so the UI can resurface it.
func (r *alertRepo) Upsert(ctx context.Context, db DBTX, alert *domain.Alert) error {
	err := db.QueryRow(ctx, `
		INSERT INTO alerts (id, agency_id, campaign_id, kind, severity, message, metric, threshold, read, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, now(), now())
		ON CONFLICT (campaign_id, kind)
		DO UPDATE SET severity = EXCLUDED.severity,
		              message = EXCLUDED.message,
		              metric = EXCLUDED.metric,
		              threshold = EXCLUDED.threshold,
		              updated_at = now()
		RETURNING id, read, created_at, updated_at`,
		uuid.New(), alert.AgencyID, alert.CampaignID, alert.Kind, alert.Severity,
		alert.Message, alert.Metric, alert.Threshold).
		Scan(&alert.ID, &alert.Read, &alert.CreatedAt, &alert.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert alert: %w", err)
	}
	return nil
}

func (r *alertRepo) MarkRead(ctx context.Context, db DBTX, agencyID, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `
		UPDATE alerts SET read = true, updated_at = now()
		WHERE id = $1 AND agency_id = $2`, id, agencyID)
	if err != nil {
		return fmt.Errorf("mark alert read: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("alert", id.String())
	}
	return nil
}

func (r *alertRepo) Delete(ctx context.Context, db DBTX, agencyID, id uuid.UUID) error {
	tag, err := db.Exec(ctx, `
		DELETE FROM alerts WHERE id = $1 AND agency_id = $2`, id, agencyID)
	if err != nil {
		return fmt.Errorf("delete alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("alert", id.String())
	}
	return nil
}

type alertSettingsRepo struct{}

// NewAlertSettingsRepository returns a pgx-backed AlertSettingsRepository.
func NewAlertSettingsRepository() AlertSettingsRepository {
	return &alertSettingsRepo{}
}

func (r *alertSettingsRepo) Get(ctx context.Context, db DBTX, agencyID uuid.UUID) (*domain.AlertSettings, error) {
	var (
		s     domain.AlertSettings
		kinds []string
	)
	err := db.QueryRow(ctx, `
		SELECT agency_id, daily_budget_pct, progress_pct, exhaustion_pct, ending_soon_days, enabled_kinds
		FROM alert_settings WHERE agency_id = $1`, agencyID).
		Scan(&s.AgencyID, &s.DailyBudgetPct, &s.ProgressPct, &s.ExhaustionPct, &s.EndingSoonDays, &kinds)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select alert settings: %w", err)
	}

	s.EnabledKinds = make([]domain.AlertKind, len(kinds))
	for i, k := range kinds {
		s.EnabledKinds[i] = domain.AlertKind(k)
	}
	return &s, nil
}

func (r *alertSettingsRepo) Put(ctx context.Context, db DBTX, s domain.AlertSettings) error {
	kinds := make([]string, len(s.EnabledKinds))
	for i, k := range s.EnabledKinds {
		kinds[i] = string(k)
	}
	_, err := db.Exec(ctx, `
		INSERT INTO alert_settings (agency_id, daily_budget_pct, progress_pct, exhaustion_pct, ending_soon_days, enabled_kinds, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, now())
		ON CONFLICT (agency_id)
		DO UPDATE SET daily_budget_pct = EXCLUDED.daily_budget_pct,
		              progress_pct = EXCLUDED.progress_pct,
		              exhaustion_pct = EXCLUDED.exhaustion_pct,
		              ending_soon_days = EXCLUDED.ending_soon_days,
		              enabled_kinds = EXCLUDED.enabled_kinds,
		              updated_at = now()`,
		s.AgencyID, s.DailyBudgetPct, s.ProgressPct, s.ExhaustionPct, s.EndingSoonDays, kinds)
	if err != nil {
		return fmt.Errorf("upsert alert settings: %w", err)
	}
	return nil
}
