package workers

import (
	"context"
	"testing"
	"time"

	"rally/contexts/promotions/campaign-service/adapters/memory"
	"rally/contexts/promotions/campaign-service/domain/entities"
	"rally/contexts/promotions/campaign-service/ports"
)

// stubSubscriber records handler bindings and lets tests deliver events
// synchronously, including redeliveries.
type stubSubscriber struct {
	handlers map[string]func(context.Context, ports.EventEnvelope) error
	groups   map[string]string
}

func newStubSubscriber() *stubSubscriber {
	return &stubSubscriber{
		handlers: make(map[string]func(context.Context, ports.EventEnvelope) error),
		groups:   make(map[string]string),
	}
}

func (s *stubSubscriber) Subscribe(
	_ context.Context,
	topic string,
	consumerGroup string,
	handler func(context.Context, ports.EventEnvelope) error,
) error {
	s.handlers[topic] = handler
	s.groups[topic] = consumerGroup
	return nil
}

func (s *stubSubscriber) deliver(t *testing.T, topic string, event ports.EventEnvelope) error {
	t.Helper()
	handler, ok := s.handlers[topic]
	if !ok {
		t.Fatalf("no handler bound for topic %s", topic)
	}
	return handler(context.Background(), event)
}

func clipEvent(id string, campaignID string) ports.EventEnvelope {
	return ports.EventEnvelope{
		EventID:      id,
		EventType:    TopicClipSubmitted,
		OccurredAt:   time.Now().UTC(),
		PartitionKey: campaignID,
		Data:         []byte(`{"campaign_id":"` + campaignID + `","clip_id":"clip-1"}`),
	}
}

func newConsumerFixture(t *testing.T) (*memory.Store, *stubSubscriber, ClipEventsConsumer) {
	t.Helper()
	store := memory.NewStore([]entities.Campaign{{
		CampaignID: "c1",
		Status:     entities.CampaignStatusActive,
	}})
	subscriber := newStubSubscriber()
	consumer := ClipEventsConsumer{
		Subscriber: subscriber,
		Counters:   store,
		Dedup:      store,
		Clock:      store,
	}
	if err := consumer.Start(context.Background()); err != nil {
		t.Fatalf("start failed: %v", err)
	}
	return store, subscriber, consumer
}

func TestConsumerBindsAllClipTopics(t *testing.T) {
	_, subscriber, _ := newConsumerFixture(t)

	for _, topic := range []string{TopicClipSubmitted, TopicClipApproved, TopicClipRejected, TopicStatsUpdated} {
		if _, ok := subscriber.handlers[topic]; !ok {
			t.Fatalf("topic %s not subscribed", topic)
		}
		if subscriber.groups[topic] != defaultClipConsumerGroup {
			t.Fatalf("topic %s group = %s, want %s", topic, subscriber.groups[topic], defaultClipConsumerGroup)
		}
	}
}

func TestClipEventsProjectCounters(t *testing.T) {
	store, subscriber, _ := newConsumerFixture(t)
	ctx := context.Background()

	deliveries := []struct {
		topic   string
		eventID string
	}{
		{TopicClipSubmitted, "e-submitted"},
		{TopicClipApproved, "e-approved"},
		{TopicClipApproved, "e-approved-2"},
		{TopicClipRejected, "e-rejected"},
	}
	for _, d := range deliveries {
		event := clipEvent(d.eventID, "c1")
		event.EventType = d.topic
		if err := subscriber.deliver(t, d.topic, event); err != nil {
			t.Fatalf("deliver %s: %v", d.eventID, err)
		}
	}

	campaign, err := store.GetCampaign(ctx, "c1")
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if campaign.PendingClips != 1 || campaign.ApprovedClips != 2 || campaign.RejectedClips != 1 {
		t.Fatalf("counters = pending %d approved %d rejected %d, want 1/2/1",
			campaign.PendingClips, campaign.ApprovedClips, campaign.RejectedClips)
	}
}

func TestRedeliveryNeverDoubleCounts(t *testing.T) {
	store, subscriber, _ := newConsumerFixture(t)
	ctx := context.Background()

	event := clipEvent("e-dup", "c1")
	for i := 0; i < 3; i++ {
		if err := subscriber.deliver(t, TopicClipSubmitted, event); err != nil {
			t.Fatalf("delivery %d: %v", i, err)
		}
	}

	campaign, err := store.GetCampaign(ctx, "c1")
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if campaign.PendingClips != 1 {
		t.Fatalf("pending clips = %d, want 1 after redeliveries", campaign.PendingClips)
	}
}

func TestMalformedClipEventIsRejected(t *testing.T) {
	_, subscriber, _ := newConsumerFixture(t)

	missing := ports.EventEnvelope{
		EventID:    "e-missing",
		EventType:  TopicClipSubmitted,
		OccurredAt: time.Now().UTC(),
		Data:       []byte(`{"clip_id":"clip-9"}`),
	}
	if err := subscriber.deliver(t, TopicClipSubmitted, missing); err == nil {
		t.Fatalf("payload without campaign_id should fail")
	}

	garbage := ports.EventEnvelope{
		EventID:    "e-garbage",
		EventType:  TopicClipSubmitted,
		OccurredAt: time.Now().UTC(),
		Data:       []byte(`{{{`),
	}
	if err := subscriber.deliver(t, TopicClipSubmitted, garbage); err == nil {
		t.Fatalf("undecodable payload should fail")
	}
}

func TestStatsUpdatedIsAcknowledgeOnly(t *testing.T) {
	store, subscriber, _ := newConsumerFixture(t)
	ctx := context.Background()

	event := ports.EventEnvelope{
		EventID:    "e-stats",
		EventType:  TopicStatsUpdated,
		OccurredAt: time.Now().UTC(),
		Data:       []byte(`{"campaign_id":"c1","total_views":500}`),
	}
	if err := subscriber.deliver(t, TopicStatsUpdated, event); err != nil {
		t.Fatalf("stats delivery failed: %v", err)
	}
	if err := subscriber.deliver(t, TopicStatsUpdated, event); err != nil {
		t.Fatalf("stats redelivery failed: %v", err)
	}

	campaign, err := store.GetCampaign(ctx, "c1")
	if err != nil {
		t.Fatalf("get campaign: %v", err)
	}
	if campaign.TotalClips() != 0 {
		t.Fatalf("stats event must not touch clip counters: %+v", campaign)
	}
}
