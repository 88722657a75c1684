package service

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paceboard/platform/internal/domain"
	"github.com/paceboard/platform/internal/repository"
)

// CommissionService owns per-client commission reads and writes. Bounds are
// enforced here at write time; a percentage of 100 never reaches the
// gross/net conversion.
type CommissionService struct {
	pool        *pgxpool.Pool
	commissions repository.CommissionRepository
	logger      *slog.Logger
}

// NewCommissionService creates a CommissionService.
func NewCommissionService(pool *pgxpool.Pool, commissions repository.CommissionRepository, logger *slog.Logger) *CommissionService {
	return &CommissionService{pool: pool, commissions: commissions, logger: logger}
}

// Get returns the client's commission.
func (s *CommissionService) Get(ctx context.Context, clientID string) (*domain.Commission, error) {
	c, err := s.commissions.Get(ctx, s.pool, clientID)
	if err != nil {
		return nil, domain.ErrInternal("load commission", err)
	}
	if c == nil {
		return nil, domain.ErrNotFound("commission", clientID)
	}
	return c, nil
}

// Put validates and upserts the client's commission.
func (s *CommissionService) Put(ctx context.Context, agencyID uuid.UUID, c domain.Commission) error {
	if err := domain.ValidateCommission(c); err != nil {
		return domain.ErrValidation(err.Error())
	}
	if err := s.commissions.Put(ctx, s.pool, agencyID, c); err != nil {
		return err
	}
	s.logger.Info("commission saved", "client_id", c.ClientID, "type", c.Type)
	return nil
}
