package workers

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/ports"
	"rally/internal/platform/metrics"
)

const (
	TopicClipSubmitted = "clip.submitted"
	TopicClipApproved  = "clip.approved"
	TopicClipRejected  = "clip.rejected"
	TopicStatsUpdated  = "stats.updated"

	defaultClipConsumerGroup = "campaign-service-clip-events-cg"
)

// ClipEventsConsumer projects clip facts from the clip ingestion domain onto
// the campaign's denormalized counters. Delivery is at-least-once; every
// handler reserves the event id before applying, so redelivery never
// double-counts.
type ClipEventsConsumer struct {
	Subscriber    ports.EventSubscriber
	Counters      ports.CounterRepository
	Dedup         ports.EventDedupStore
	Clock         ports.Clock
	ConsumerGroup string
	DedupTTL      time.Duration
	Logger        *slog.Logger
}

func (c ClipEventsConsumer) Start(ctx context.Context) error {
	group := strings.TrimSpace(c.ConsumerGroup)
	if group == "" {
		group = defaultClipConsumerGroup
	}
	bindings := []struct {
		topic   string
		handler func(context.Context, ports.EventEnvelope) error
	}{
		{TopicClipSubmitted, c.handleCounter(TopicClipSubmitted, ports.ClipCounterPending)},
		{TopicClipApproved, c.handleCounter(TopicClipApproved, ports.ClipCounterApproved)},
		{TopicClipRejected, c.handleCounter(TopicClipRejected, ports.ClipCounterRejected)},
		{TopicStatsUpdated, c.handleStatsUpdated},
	}
	for _, binding := range bindings {
		if err := c.Subscriber.Subscribe(ctx, binding.topic, group, binding.handler); err != nil {
			return err
		}
	}
	return nil
}

func (c ClipEventsConsumer) handleCounter(topic string, counter ports.ClipCounter) func(context.Context, ports.EventEnvelope) error {
	return func(ctx context.Context, event ports.EventEnvelope) error {
		logger := application.ResolveLogger(c.Logger)
		now := c.now()

		replayed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), now.Add(c.dedupTTL()))
		if err != nil {
			logger.Error("clip event dedupe failed",
				"event", "campaign_clip_event_dedupe_failed",
				"module", "promotions/campaign-service",
				"layer", "worker",
				"topic", topic,
				"event_id", event.EventID,
				"error", err.Error(),
			)
			return err
		}
		if replayed {
			logger.Debug("clip event already processed",
				"event", "campaign_clip_event_replayed",
				"module", "promotions/campaign-service",
				"layer", "worker",
				"topic", topic,
				"event_id", event.EventID,
			)
			return nil
		}

		var payload struct {
			CampaignID string `json:"campaign_id"`
			ClipID     string `json:"clip_id"`
		}
		if err := json.Unmarshal(event.Data, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", topic, err)
		}
		if strings.TrimSpace(payload.CampaignID) == "" {
			return fmt.Errorf("%s payload missing campaign_id", topic)
		}

		occurredAt := event.OccurredAt.UTC()
		if occurredAt.IsZero() {
			occurredAt = now
		}
		if err := c.Counters.IncrementClipCounter(ctx, payload.CampaignID, counter, occurredAt); err != nil {
			logger.Error("clip counter projection failed",
				"event", "campaign_clip_counter_failed",
				"module", "promotions/campaign-service",
				"layer", "worker",
				"topic", topic,
				"event_id", event.EventID,
				"campaign_id", payload.CampaignID,
				"error", err.Error(),
			)
			return err
		}

		metrics.RecordEventConsumed(topic)
		logger.Info("clip counter projected",
			"event", "campaign_clip_counter_projected",
			"module", "promotions/campaign-service",
			"layer", "worker",
			"topic", topic,
			"event_id", event.EventID,
			"campaign_id", payload.CampaignID,
			"counter", string(counter),
		)
		return nil
	}
}

// handleStatsUpdated is acknowledge-only; the aggregate refresh shape is
// reserved for the stats pipeline.
func (c ClipEventsConsumer) handleStatsUpdated(ctx context.Context, event ports.EventEnvelope) error {
	logger := application.ResolveLogger(c.Logger)
	now := c.now()

	replayed, err := c.Dedup.ReserveEvent(ctx, event.EventID, hashPayload(event.Data), now.Add(c.dedupTTL()))
	if err != nil {
		return err
	}
	if replayed {
		return nil
	}

	metrics.RecordEventConsumed(TopicStatsUpdated)
	logger.Debug("stats update acknowledged",
		"event", "campaign_stats_update_acknowledged",
		"module", "promotions/campaign-service",
		"layer", "worker",
		"event_id", event.EventID,
	)
	return nil
}

func (c ClipEventsConsumer) now() time.Time {
	if c.Clock != nil {
		return c.Clock.Now().UTC()
	}
	return time.Now().UTC()
}

func (c ClipEventsConsumer) dedupTTL() time.Duration {
	if c.DedupTTL <= 0 {
		return 7 * 24 * time.Hour
	}
	return c.DedupTTL
}

func hashPayload(payload []byte) string {
	sum := sha256.Sum256(payload)
	return hex.EncodeToString(sum[:])
}
