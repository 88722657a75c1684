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

type commissionRepo struct{}

// NewCommissionRepository returns a pgx-backed CommissionRepository.
func NewCommissionRepository() CommissionRepository {
	return &commissionRepo{}
}

func (r *commissionRepo) Get(ctx context.Context, db DBTX, clientID string) (*domain.Commission, error) {
	var (
		c     domain.Commission
		value pgtype.Numeric
	)
	err := db.QueryRow(ctx, `
		SELECT client_id, type, value FROM commissions WHERE client_id = $1`, clientID).
		Scan(&c.ClientID, &c.Type, &value)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select commission: %w", err)
	}

	c.Value, err = infra.NumericToFloat64(value)
	if err != nil {
		return nil, fmt.Errorf("commission value: %w", err)
	}
	return &c, nil
}

func (r *commissionRepo) Put(ctx context.Context, db DBTX, agencyID uuid.UUID, c domain.Commission) error {
	_, err := db.Exec(ctx, `
		INSERT INTO commissions (client_id, agency_id, type, value, updated_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (client_id)
		DO UPDATE SET type = EXCLUDED.type, value = EXCLUDED.value, updated_at = now()`,
		c.ClientID, agencyID, c.Type, infra.Float64ToNumeric(c.Value))
	if err != nil {
		return fmt.Errorf("upsert commission: %w", err)
	}
	return nil
}
