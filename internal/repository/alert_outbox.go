package repository

import (
	"context"
	"fmt"

	"github.com/paceboard/platform/internal/domain"
)

type alertOutboxRepo struct{}

// NewAlertOutboxRepository returns a pgx-backed AlertOutboxRepository.
func NewAlertOutboxRepository() AlertOutboxRepository {
	return &alertOutboxRepo{}
}

func (r *alertOutboxRepo) Insert(ctx context.Context, db DBTX, event domain.AlertEvent) error {
	_, err := db.Exec(ctx, `
		INSERT INTO alert_outbox (event_id, agency_id, campaign_id, kind, payload, occurred_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		event.EventID, event.AgencyID, event.CampaignID, event.Kind, event.Payload, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("insert alert event: %w", err)
	}
	return nil
}

func (r *alertOutboxRepo) FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.AlertEvent, error) {
	rows, err := db.Query(ctx, `
		SELECT id, event_id, agency_id, campaign_id, kind, payload, occurred_at
		FROM alert_outbox
		WHERE published_at IS NULL
		ORDER BY occurred_at ASC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unpublished: %w", err)
	}
	defer rows.Close()

	var events []domain.AlertEvent
	for rows.Next() {
		var e domain.AlertEvent
		if err := rows.Scan(&e.ID, &e.EventID, &e.AgencyID, &e.CampaignID, &e.Kind, &e.Payload, &e.OccurredAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

func (r *alertOutboxRepo) MarkPublished(ctx context.Context, db DBTX, ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := db.Exec(ctx, `
		UPDATE alert_outbox SET published_at = now() WHERE id = ANY($1)`, ids)
	if err != nil {
		return fmt.Errorf("mark published: %w", err)
	}
	return nil
}
