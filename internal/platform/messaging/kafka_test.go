package messaging

import (
	"context"
	"testing"
	"time"

	sharedevents "rally/internal/shared/events"
)

func TestPublishReachesSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}

	received := make(chan sharedevents.Envelope, 1)
	err = bus.Subscribe(ctx, "campaign.created", "test-cg", func(_ context.Context, event sharedevents.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	event := sharedevents.Envelope{
		EventID:   "e1",
		EventType: "campaign.created",
		Data:      []byte(`{"campaign_id":"c1"}`),
	}
	if err := bus.Publish(ctx, "campaign.created", event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-received:
		if got.EventID != "e1" {
			t.Fatalf("event id = %s, want e1", got.EventID)
		}
	case <-time.After(2 * time.Second):
		t.Fatalf("subscriber never received the event")
	}
}

func TestPublishSkipsOtherTopics(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bus, err := NewKafka(nil, nil)
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}

	received := make(chan sharedevents.Envelope, 1)
	err = bus.Subscribe(ctx, "clip.approved", "test-cg", func(_ context.Context, event sharedevents.Envelope) error {
		received <- event
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	if err := bus.Publish(ctx, "clip.rejected", sharedevents.Envelope{EventID: "e1"}); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case got := <-received:
		t.Fatalf("subscriber on another topic received %+v", got)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestPublishWithoutSubscribersIsFine(t *testing.T) {
	bus, err := NewKafka([]string{"localhost:9092"}, nil)
	if err != nil {
		t.Fatalf("new bus: %v", err)
	}
	if err := bus.Publish(context.Background(), "campaign.ended", sharedevents.Envelope{EventID: "e1"}); err != nil {
		t.Fatalf("publish to empty topic: %v", err)
	}
}
