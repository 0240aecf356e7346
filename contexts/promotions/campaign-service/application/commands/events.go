package commands

import (
	"context"
	"encoding/json"
	"time"

	"rally/contexts/promotions/campaign-service/ports"
)

const sourceService = "campaign-service"

const (
	EventCampaignCreated   = "campaign.created"
	EventStatusChanged     = "campaign.status_changed"
	EventCampaignFunded    = "campaign.funded"
	EventCampaignEnded     = "campaign.ended"
	EventParticipantJoined = "campaign.participant_joined"
	EventParticipantLeft   = "campaign.participant_left"
)

func newCampaignEnvelope(
	eventID string,
	eventType string,
	campaignID string,
	occurredAt time.Time,
	data map[string]any,
) (ports.EventEnvelope, error) {
	payload, err := json.Marshal(data)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        eventType,
		OccurredAt:       occurredAt.UTC(),
		SourceService:    sourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "campaign_id",
		PartitionKey:     campaignID,
		Data:             payload,
	}, nil
}

// appendEvent builds an envelope and writes it to the outbox. A nil outbox
// disables publication (some test wirings run without one).
func appendEvent(
	ctx context.Context,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	eventType string,
	campaignID string,
	occurredAt time.Time,
	data map[string]any,
) error {
	if outbox == nil {
		return nil
	}
	eventID, err := idGen.NewID(ctx)
	if err != nil {
		return err
	}
	envelope, err := newCampaignEnvelope(eventID, eventType, campaignID, occurredAt, data)
	if err != nil {
		return err
	}
	return outbox.AppendOutbox(ctx, envelope)
}
