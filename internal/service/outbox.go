package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/paceboard/platform/internal/infra"
	"github.com/paceboard/platform/internal/repository"
)

// AlertPublisher polls the alert_outbox table and publishes events to Kafka.
type AlertPublisher struct {
	pool      *pgxpool.Pool
	outbox    repository.AlertOutboxRepository
	producer  *infra.KafkaProducer
	logger    *slog.Logger
	interval  time.Duration
	batchSize int
}

// NewAlertPublisher creates an alert outbox publisher.
func NewAlertPublisher(pool *pgxpool.Pool, outbox repository.AlertOutboxRepository, producer *infra.KafkaProducer, logger *slog.Logger) *AlertPublisher {
	return &AlertPublisher{
		pool:      pool,
		outbox:    outbox,
		producer:  producer,
		logger:    logger,
		interval:  2 * time.Second,
		batchSize: 100,
	}
}

// SetPolling overrides the default poll interval and batch size. Call before Start.
func (p *AlertPublisher) SetPolling(interval time.Duration, batchSize int) {
	if interval > 0 {
		p.interval = interval
	}
	if batchSize > 0 {
		p.batchSize = batchSize
	}
}

// Start begins polling in a goroutine. Stops when ctx is cancelled.
func (p *AlertPublisher) Start(ctx context.Context) {
	p.logger.Info("alert publisher started", "interval", p.interval, "batch_size", p.batchSize)

	go func() {
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				p.logger.Info("alert publisher stopped")
				return
			case <-ticker.C:
				if err := p.poll(ctx); err != nil {
					p.logger.Error("alert outbox poll error", "error", err)
				}
			}
		}
	}()
}

func (p *AlertPublisher) poll(ctx context.Context) error {
	events, err := p.outbox.FetchUnpublished(ctx, p.pool, p.batchSize)
	if err != nil {
		return err
	}
	if len(events) == 0 {
		return nil
	}

	published := make([]int64, 0, len(events))
	for _, e := range events {
		topic := "paceboard.alert." + string(e.Kind)
		msg, err := json.Marshal(e)
		if err != nil {
			p.logger.Error("encode alert event", "event_id", e.EventID, "error", err)
			continue
		}
		if err := p.producer.Publish(ctx, topic, []byte(e.CampaignID), msg); err != nil {
			// Leave unpublished; the next poll retries in order.
			p.logger.Error("publish alert event", "event_id", e.EventID, "error", err)
			break
		}
		published = append(published, e.ID)
	}

	if len(published) > 0 {
		if err := p.outbox.MarkPublished(ctx, p.pool, published); err != nil {
			return err
		}
		p.logger.Debug("alert events published", "count", len(published))
	}
	return nil
}
