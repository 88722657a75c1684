package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/paceboard/platform/internal/domain"
)

// DBTX abstracts pgx.Tx and pgxpool.Pool so repositories work with both.
type DBTX interface {
	Exec(ctx context.Context, sql string, arguments ...interface{}) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...interface{}) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...interface{}) pgx.Row
}

// BudgetConfigRepository stores the per-campaign budget document. Reads and
// writes are whole-document replace-and-persist; concurrent writers to the
// same campaign race last-writer-wins, which is accepted for these
// low-frequency human edits.
type BudgetConfigRepository interface {
	// Get returns the config document, or nil when the campaign has none.
	Get(ctx context.Context, db DBTX, campaignID string) (*domain.CampaignBudgetConfig, error)

	// Put replaces the whole document. Putting a config for a campaign that
	// was removed mid-edit returns domain.ErrNotFound; the caller treats it
	// as a recoverable no-op.
	Put(ctx context.Context, db DBTX, agencyID uuid.UUID, cfg domain.CampaignBudgetConfig) error
}

// CommissionRepository stores the per-client commission.
type CommissionRepository interface {
	// Get returns the commission, or nil when the client has none configured.
	Get(ctx context.Context, db DBTX, clientID string) (*domain.Commission, error)

	// Put upserts the commission. Values are validated by the service before
	// they reach here.
	Put(ctx context.Context, db DBTX, agencyID uuid.UUID, c domain.Commission) error
}

// CampaignRepository stores synced campaign snapshots.
type CampaignRepository interface {
	// FindByID returns a campaign snapshot by its platform ID.
	FindByID(ctx context.Context, db DBTX, id string) (*domain.Campaign, error)

	// ListByAgency returns every synced campaign for the agency.
	ListByAgency(ctx context.Context, db DBTX, agencyID uuid.UUID) ([]domain.Campaign, error)

	// ListByAccount returns the account's synced campaigns, for the
	// per-account cache read-through on the dashboard path.
	ListByAccount(ctx context.Context, db DBTX, accountID uuid.UUID) ([]domain.Campaign, error)

	// ReplaceForAccount swaps the account's snapshot for a fresh fetch inside
	// one transaction. Callers never invoke this with a failed fetch's empty
	// result, so last-known-good rows survive platform outages.
	ReplaceForAccount(ctx context.Context, tx pgx.Tx, accountID uuid.UUID, campaigns []domain.Campaign) error
}

// AccountRepository stores the ad-platform accounts agencies have connected.
type AccountRepository interface {
	// ListAll returns every connected account, for the sync job.
	ListAll(ctx context.Context, db DBTX) ([]domain.Account, error)

	// ListByAgency returns the agency's connected accounts.
	ListByAgency(ctx context.Context, db DBTX, agencyID uuid.UUID) ([]domain.Account, error)

	// ListAgencyIDs returns the distinct agencies with at least one account,
	// for the alert evaluation job.
	ListAgencyIDs(ctx context.Context, db DBTX) ([]uuid.UUID, error)
}

// AlertSettingsRepository stores per-agency alert thresholds.
type AlertSettingsRepository interface {
	// Get returns the agency's settings, or nil when it never saved any
	// (callers fall back to domain.DefaultAlertSettings).
	Get(ctx context.Context, db DBTX, agencyID uuid.UUID) (*domain.AlertSettings, error)

	// Put upserts the settings document.
	Put(ctx context.Context, db DBTX, s domain.AlertSettings) error
}

// AlertRepository stores raised alerts keyed by (campaignID, kind).
type AlertRepository interface {
	// ListByAgency returns the agency's alerts, unread first, newest first.
	ListByAgency(ctx context.Context, db DBTX, agencyID uuid.UUID) ([]domain.Alert, error)

	// Upsert inserts the alert or, when one already exists for the same
	// (campaignID, kind), replaces its payload in place. The stored alert
	// (with identity and timestamps) is written back into alert.
	Upsert(ctx context.Context, db DBTX, alert *domain.Alert) error

	// MarkRead flags an alert as read.
	MarkRead(ctx context.Context, db DBTX, agencyID, id uuid.UUID) error

	// Delete removes an alert.
	Delete(ctx context.Context, db DBTX, agencyID, id uuid.UUID) error
}

// AlertOutboxRepository stores alert events pending Kafka publication.
type AlertOutboxRepository interface {
	// Insert writes an outbox event (within the same transaction as the
	// alert upsert).
	Insert(ctx context.Context, db DBTX, event domain.AlertEvent) error

	// FetchUnpublished returns unpublished events for the outbox poller.
	FetchUnpublished(ctx context.Context, db DBTX, limit int) ([]domain.AlertEvent, error)

	// MarkPublished marks events as published.
	MarkPublished(ctx context.Context, db DBTX, ids []int64) error
}
