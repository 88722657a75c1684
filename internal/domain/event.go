package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AlertEvent is one outbox row: an alert change recorded in the same
// transaction as the alert upsert, published to Kafka by the outbox poller so
// downstream notification channels see every raised alert exactly once.
type AlertEvent struct {
	ID         int64           `json:"-"`
	EventID    uuid.UUID       `json:"event_id"`
	AgencyID   uuid.UUID       `json:"agency_id"`
	CampaignID string          `json:"campaign_id"`
	Kind       AlertKind       `json:"kind"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}
