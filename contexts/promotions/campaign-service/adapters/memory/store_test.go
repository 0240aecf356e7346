package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/ports"
)

func seedCampaign(id string, status entities.CampaignStatus) entities.Campaign {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	return entities.Campaign{
		CampaignID:  id,
		CreatedBy:   "creator-1",
		Title:       "seed " + id,
		Status:      status,
		EditorSlots: 10,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func TestFundCampaignIsOneShot(t *testing.T) {
	ctx := context.Background()
	store := NewStore([]entities.Campaign{seedCampaign("c1", entities.CampaignStatusDraft)})
	now := time.Now().UTC()

	if err := store.FundCampaign(ctx, "c1", 10, 90, now); err != nil {
		t.Fatalf("first fund failed: %v", err)
	}
	if err := store.FundCampaign(ctx, "c1", 10, 90, now); !errors.Is(err, domainerrors.ErrAlreadyFunded) {
		t.Fatalf("second fund: got %v, want ErrAlreadyFunded", err)
	}
	if err := store.FundCampaign(ctx, "missing", 10, 90, now); !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("fund missing: got %v, want ErrCampaignNotFound", err)
	}

	campaign, err := store.GetCampaign(ctx, "c1")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !campaign.IsFunded || campaign.PlatformFee != 10 || campaign.RemainingBudget != 90 {
		t.Fatalf("fund did not persist: %+v", campaign)
	}
}

func TestCloseCampaignIsOneShot(t *testing.T) {
	ctx := context.Background()
	store := NewStore([]entities.Campaign{seedCampaign("c1", entities.CampaignStatusActive)})
	now := time.Now().UTC()

	closed, err := store.CloseCampaign(ctx, "c1", now)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Status != entities.CampaignStatusEnded {
		t.Fatalf("status = %s, want ended", closed.Status)
	}
	if closed.ArchivedAt == nil || !closed.ArchivedAt.Equal(now) {
		t.Fatalf("archived_at not stamped: %+v", closed.ArchivedAt)
	}
	if _, err := store.CloseCampaign(ctx, "c1", now); !errors.Is(err, domainerrors.ErrAlreadyEnded) {
		t.Fatalf("second close: got %v, want ErrAlreadyEnded", err)
	}
}

func TestAdmitWithCapacityStopsAtLimit(t *testing.T) {
	ctx := context.Background()
	store := NewStore([]entities.Campaign{seedCampaign("c1", entities.CampaignStatusActive)})
	now := time.Now().UTC()

	// The creator row never consumes a slot.
	if err := store.AddParticipant(ctx, entities.Participant{
		CampaignID: "c1", UserID: "creator-1", Role: entities.RoleCreator, JoinedAt: now,
	}); err != nil {
		t.Fatalf("add creator: %v", err)
	}

	for _, userID := range []string{"u1", "u2"} {
		err := store.AdmitWithCapacity(ctx, entities.Participant{
			CampaignID: "c1", UserID: userID, Role: entities.RoleMember, JoinedAt: now,
		}, 2)
		if err != nil {
			t.Fatalf("admit %s: %v", userID, err)
		}
	}
	err := store.AdmitWithCapacity(ctx, entities.Participant{
		CampaignID: "c1", UserID: "u3", Role: entities.RoleMember, JoinedAt: now,
	}, 2)
	if !errors.Is(err, domainerrors.ErrCampaignFull) {
		t.Fatalf("third admit: got %v, want ErrCampaignFull", err)
	}

	err = store.AdmitWithCapacity(ctx, entities.Participant{
		CampaignID: "c1", UserID: "u1", Role: entities.RoleMember, JoinedAt: now,
	}, 5)
	if !errors.Is(err, domainerrors.ErrAlreadyParticipant) {
		t.Fatalf("re-admit: got %v, want ErrAlreadyParticipant", err)
	}
}

func TestPromoteWithCapacity(t *testing.T) {
	ctx := context.Background()
	store := NewStore([]entities.Campaign{seedCampaign("c1", entities.CampaignStatusActive)})
	now := time.Now().UTC()

	if err := store.AddParticipant(ctx, entities.Participant{
		CampaignID: "c1", UserID: "applicant", Role: entities.RolePending, JoinedAt: now,
	}); err != nil {
		t.Fatalf("add pending: %v", err)
	}

	// A pending row does not consume a slot before promotion.
	if err := store.AdmitWithCapacity(ctx, entities.Participant{
		CampaignID: "c1", UserID: "member", Role: entities.RoleMember, JoinedAt: now,
	}, 1); err != nil {
		t.Fatalf("admit member: %v", err)
	}

	err := store.PromoteWithCapacity(ctx, "c1", "applicant", 1, now)
	if !errors.Is(err, domainerrors.ErrCampaignFull) {
		t.Fatalf("promote at capacity: got %v, want ErrCampaignFull", err)
	}
	if err := store.PromoteWithCapacity(ctx, "c1", "applicant", 2, now); err != nil {
		t.Fatalf("promote with room: %v", err)
	}

	promoted, err := store.GetParticipant(ctx, "c1", "applicant")
	if err != nil {
		t.Fatalf("get promoted: %v", err)
	}
	if promoted.Role != entities.RoleMember {
		t.Fatalf("role = %s, want member", promoted.Role)
	}

	// Only pending rows are promotable.
	err = store.PromoteWithCapacity(ctx, "c1", "member", 10, now)
	if !errors.Is(err, domainerrors.ErrParticipantNotFound) {
		t.Fatalf("promote non-pending: got %v, want ErrParticipantNotFound", err)
	}
}

func TestListExpiredActiveOrdersByEndDate(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	older := now.Add(-48 * time.Hour)
	newer := now.Add(-1 * time.Hour)
	future := now.Add(24 * time.Hour)

	first := seedCampaign("first", entities.CampaignStatusActive)
	first.EndDate = &older
	second := seedCampaign("second", entities.CampaignStatusActive)
	second.EndDate = &newer
	running := seedCampaign("running", entities.CampaignStatusActive)
	running.EndDate = &future
	ended := seedCampaign("ended", entities.CampaignStatusEnded)
	ended.EndDate = &older

	store := NewStore([]entities.Campaign{second, running, ended, first})

	ids, err := store.ListExpiredActive(ctx, now, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(ids) != 2 || ids[0] != "first" || ids[1] != "second" {
		t.Fatalf("ids = %v, want [first second]", ids)
	}

	limited, err := store.ListExpiredActive(ctx, now, 1)
	if err != nil {
		t.Fatalf("limited list failed: %v", err)
	}
	if len(limited) != 1 || limited[0] != "first" {
		t.Fatalf("limited ids = %v, want [first]", limited)
	}
}

func TestIdempotencyRecordsExpire(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	now := time.Now().UTC()

	record := ports.IdempotencyRecord{
		Key:             "create:key-1",
		RequestHash:     "hash-a",
		ResponsePayload: []byte(`{"campaign_id":"c1"}`),
		ExpiresAt:       now.Add(time.Hour),
	}
	if err := store.PutRecord(ctx, record); err != nil {
		t.Fatalf("put failed: %v", err)
	}

	got, found, err := store.GetRecord(ctx, record.Key, now)
	if err != nil || !found {
		t.Fatalf("get = (%v, %v), want hit", found, err)
	}
	if got.RequestHash != record.RequestHash {
		t.Fatalf("hash = %s, want %s", got.RequestHash, record.RequestHash)
	}

	conflicting := record
	conflicting.RequestHash = "hash-b"
	if err := store.PutRecord(ctx, conflicting); !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("conflicting put: got %v, want ErrIdempotencyKeyConflict", err)
	}

	_, found, err = store.GetRecord(ctx, record.Key, now.Add(2*time.Hour))
	if err != nil {
		t.Fatalf("expired get failed: %v", err)
	}
	if found {
		t.Fatalf("expired record should be dropped")
	}
}

func TestOutboxLifecycle(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	now := time.Now().UTC()

	for _, id := range []string{"e1", "e2"} {
		err := store.AppendOutbox(ctx, ports.EventEnvelope{
			EventID:      id,
			EventType:    "campaign.created",
			OccurredAt:   now,
			PartitionKey: "c1",
			Data:         []byte(`{"campaign_id":"c1"}`),
		})
		if err != nil {
			t.Fatalf("append %s: %v", id, err)
		}
	}

	pending, err := store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(pending) != 2 {
		t.Fatalf("pending = %d, want 2", len(pending))
	}

	if err := store.MarkOutboxPublished(ctx, "e1", now); err != nil {
		t.Fatalf("mark failed: %v", err)
	}
	pending, err = store.ListPendingOutbox(ctx, 10)
	if err != nil {
		t.Fatalf("second list failed: %v", err)
	}
	if len(pending) != 1 || pending[0].OutboxID != "e2" {
		t.Fatalf("pending after mark = %+v, want only e2", pending)
	}
}

func TestReserveEventDedup(t *testing.T) {
	ctx := context.Background()
	store := NewStore(nil)
	expires := time.Now().UTC().Add(time.Hour)

	replayed, err := store.ReserveEvent(ctx, "evt-1", "hash-a", expires)
	if err != nil || replayed {
		t.Fatalf("first reserve = (%v, %v), want fresh", replayed, err)
	}
	replayed, err = store.ReserveEvent(ctx, "evt-1", "hash-a", expires)
	if err != nil || !replayed {
		t.Fatalf("second reserve = (%v, %v), want replayed", replayed, err)
	}
	_, err = store.ReserveEvent(ctx, "evt-1", "hash-b", expires)
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("hash mismatch: got %v, want ErrIdempotencyKeyConflict", err)
	}
}
