package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/paceboard/platform/internal/domain"
)

type budgetConfigRepo struct{}

// NewBudgetConfigRepository returns a pgx-backed BudgetConfigRepository.
// The config is stored as a single JSONB document with the stable field names
// of domain.CampaignBudgetConfig, so previously saved documents (including the
// legacy rawConfig echo) keep reading back unchanged.
func NewBudgetConfigRepository() BudgetConfigRepository {
	return &budgetConfigRepo{}
}

func (r *budgetConfigRepo) Get(ctx context.Context, db DBTX, campaignID string) (*domain.CampaignBudgetConfig, error) {
	var doc []byte
	err := db.QueryRow(ctx, `
		SELECT document FROM budget_configs WHERE campaign_id = $1`, campaignID).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select budget config: %w", err)
	}

	var cfg domain.CampaignBudgetConfig
	if err := json.Unmarshal(doc, &cfg); err != nil {
		return nil, fmt.Errorf("decode budget config: %w", err)
	}
	return &cfg, nil
}

func (r *budgetConfigRepo) Put(ctx context.Context, db DBTX, agencyID uuid.UUID, cfg domain.CampaignBudgetConfig) error {
	doc, err := json.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encode budget config: %w", err)
	}

	// The FK subquery guards against saving a config for a campaign that was
	// removed by a sync while the form was open.
	tag, err := db.Exec(ctx, `
		INSERT INTO budget_configs (campaign_id, agency_id, document, updated_at)
		SELECT c.id, $2, $3, now() FROM campaigns c WHERE c.id = $1
		ON CONFLICT (campaign_id)
		DO UPDATE SET document = EXCLUDED.document, updated_at = now()`,
		cfg.CampaignID, agencyID, doc)
	if err != nil {
		return fmt.Errorf("upsert budget config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound("campaign", cfg.CampaignID)
	}
	return nil
}
