package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/infra"
)

type campaignRepo struct{}

// NewCampaignRepository returns a pgx-backed CampaignRepository.
func NewCampaignRepository() CampaignRepository {
	return &campaignRepo{}
}

const campaignColumns = `id, account_id, agency_id, client_id, name, platform, status, spend_to_date, live_daily_budget, synced_at`

func (r *campaignRepo) FindByID(ctx context.Context, db DBTX, id string) (*domain.Campaign, error) {
	row := db.QueryRow(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE id = $1`, id)
	c, err := scanCampaign(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	return c, err
}

func (r *campaignRepo) ListByAgency(ctx context.Context, db DBTX, agencyID uuid.UUID) ([]domain.Campaign, error) {
	rows, err := db.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE agency_id = $1 ORDER BY name`, agencyID)
	if err != nil {
		return nil, fmt.Errorf("list campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *campaignRepo) ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID) ([]domain.Campaign, error) {
	rows, err := db.Query(ctx, `
		SELECT `+campaignColumns+` FROM campaigns WHERE account_id = $1 ORDER BY name`, accountID)
	if err != nil {
		return nil, fmt.Errorf("list account campaigns: %w", err)
	}
	defer rows.Close()

	var campaigns []domain.Campaign
	for rows.Next() {
		c, err := scanCampaign(rows)
		if err != nil {
			return nil, err
		}
		campaigns = append(campaigns, *c)
	}
	return campaigns, rows.Err()
}

func (r *campaignRepo) ReplaceForAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, campaigns []domain.Campaign) error {
	if _, err := tx.Exec(ctx, `DELETE FROM campaigns WHERE account_id = $1`, accountID); err != nil {
		return fmt.Errorf("clear account campaigns: %w", err)
	}
	for _, c := range campaigns {
		_, err := tx.Exec(ctx, `
			INSERT INTO campaigns (`+campaignColumns+`)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
			c.ID, c.AccountID, c.AgencyID, c.ClientID, c.Name, c.Platform, c.Status,
			infra.Float64ToNumeric(c.SpendToDate),
			infra.Float64ToNumeric(c.LiveDailyBudget),
			c.SyncedAt,
		)
		if err != nil {
			return fmt.Errorf("insert campaign %s: %w", c.ID, err)
		}
	}
	return nil
}

func scanCampaign(row pgx.Row) (*domain.Campaign, error) {
	var (
		c     domain.Campaign
		spend pgtype.Numeric
		daily pgtype.Numeric
	)
	err := row.Scan(&c.ID, &c.AccountID, &c.AgencyID, &c.ClientID, &c.Name,
		&c.Platform, &c.Status, &spend, &daily, &c.SyncedAt)
	if err != nil {
		return nil, err
	}
	if c.SpendToDate, err = infra.NumericToFloat64(spend); err != nil {
		return nil, fmt.Errorf("campaign spend: %w", err)
	}
	if c.LiveDailyBudget, err = infra.NumericToFloat64(daily); err != nil {
		return nil, fmt.Errorf("campaign daily budget: %w", err)
	}
	return &c, nil
}

type accountRepo struct{}

// NewAccountRepository returns a pgx-backed AccountRepository.
func NewAccountRepository() AccountRepository {
	return &accountRepo{}
}

func (r *accountRepo) ListAll(ctx context.Context, db DBTX) ([]domain.Account, error) {
	return r.list(ctx, db, `
		SELECT id, agency_id, platform, external_id, name FROM accounts ORDER BY agency_id, platform`)
}

func (r *accountRepo) ListByAgency(ctx context.Context, db DBTX, agencyID uuid.UUID) ([]domain.Account, error) {
	return r.list(ctx, db, `
		SELECT id, agency_id, platform, external_id, name FROM accounts WHERE agency_id = $1 ORDER BY platform`, agencyID)
}

func (r *accountRepo) list(ctx context.Context, db DBTX, sql string, args ...interface{}) ([]domain.Account, error) {
	rows, err := db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []domain.Account
	for rows.Next() {
		var a domain.Account
		if err := rows.Scan(&a.ID, &a.AgencyID, &a.Platform, &a.ExternalID, &a.Name); err != nil {
			return nil, err
		}
		accounts = append(accounts, a)
	}
	return accounts, rows.Err()
}

func (r *accountRepo) ListAgencyIDs(ctx context.Context, db DBTX) ([]uuid.UUID, error) {
	rows, err := db.Query(ctx, `SELECT DISTINCT agency_id FROM accounts`)
	if err != nil {
		return nil, fmt.Errorf("list agencies: %w", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
