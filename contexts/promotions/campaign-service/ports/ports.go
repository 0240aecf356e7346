package ports

import (
	"context"
	"time"

	"rally/contexts/promotions/campaign-service/domain/entities"
	sharedevents "rally/internal/shared/events"
)

type CampaignFilter struct {
	CreatedBy string
	Status    entities.CampaignStatus
}

type CampaignRepository interface {
	CreateCampaign(ctx context.Context, campaign entities.Campaign) error
	GetCampaign(ctx context.Context, campaignID string) (entities.Campaign, error)
	ListCampaigns(ctx context.Context, filter CampaignFilter) ([]entities.Campaign, error)
	UpdateCampaign(ctx context.Context, campaign entities.Campaign) error
	DeleteCampaign(ctx context.Context, campaignID string) error

	// FundCampaign flips is_funded and sets the fee split behind a
	// conditional write (WHERE is_funded = false). Returns ErrAlreadyFunded
	// when the guard does not match.
	FundCampaign(ctx context.Context, campaignID string, fee int64, remaining int64, now time.Time) error

	// CloseCampaign ends the campaign behind a conditional write
	// (WHERE status <> ended) and returns the post-close snapshot used for
	// the ended event. Returns ErrAlreadyEnded when the guard does not match.
	CloseCampaign(ctx context.Context, campaignID string, now time.Time) (entities.Campaign, error)

	// ListExpiredActive returns ids of active campaigns whose end date has
	// passed, oldest deadline first.
	ListExpiredActive(ctx context.Context, now time.Time, limit int) ([]string, error)
}

type ParticipantRepository interface {
	// AddParticipant inserts a row relying on the (campaign_id, user_id)
	// unique key; duplicates return ErrAlreadyParticipant.
	AddParticipant(ctx context.Context, participant entities.Participant) error

	// AdmitWithCapacity inserts an admitted participant only while the
	// campaign's admitted non-creator count is below capacity, as one
	// atomic operation. Returns ErrCampaignFull or ErrAlreadyParticipant.
	AdmitWithCapacity(ctx context.Context, participant entities.Participant, capacity int) error

	// PromoteWithCapacity promotes a pending participant to member under
	// the same capacity guard. Returns ErrParticipantNotFound when no
	// pending row exists, ErrCampaignFull when capacity is exhausted.
	PromoteWithCapacity(ctx context.Context, campaignID string, userID string, capacity int, now time.Time) error

	GetParticipant(ctx context.Context, campaignID string, userID string) (entities.Participant, error)
	ListParticipants(ctx context.Context, campaignID string) ([]entities.Participant, error)
	UpdateRole(ctx context.Context, campaignID string, userID string, role entities.ParticipantRole, now time.Time) error
	RemoveParticipant(ctx context.Context, campaignID string, userID string) error
}

type WaitlistRepository interface {
	ReplaceQuestions(ctx context.Context, campaignID string, questions []entities.WaitlistQuestion) error
	ListQuestions(ctx context.Context, campaignID string) ([]entities.WaitlistQuestion, error)

	CreateResponse(ctx context.Context, response entities.WaitlistResponse) error
	GetResponse(ctx context.Context, campaignID string, userID string) (entities.WaitlistResponse, error)
	ListResponses(ctx context.Context, campaignID string, status entities.ResponseStatus) ([]entities.WaitlistResponse, error)
	UpdateResponse(ctx context.Context, response entities.WaitlistResponse) error

	// RejectPendingResponse rejects the target's pending application if one
	// exists; absence is not an error.
	RejectPendingResponse(ctx context.Context, campaignID string, userID string, reviewedBy string, now time.Time) error
}

type BanRepository interface {
	AddBan(ctx context.Context, ban entities.CampaignBan) error
	IsBanned(ctx context.Context, campaignID string, userID string) (bool, error)
}

type PermissionsRepository interface {
	// GetPermissions returns the stored record, or found=false when the
	// campaign has no explicit record and defaults apply.
	GetPermissions(ctx context.Context, campaignID string) (entities.CampaignPermissions, bool, error)
	PutPermissions(ctx context.Context, perms entities.CampaignPermissions) error
}

type PrizeRepository interface {
	ReplacePrizes(ctx context.Context, campaignID string, prizes []entities.PrizeDistribution) error
	ListPrizes(ctx context.Context, campaignID string) ([]entities.PrizeDistribution, error)
}

type InviteRepository interface {
	AddInvites(ctx context.Context, invites []entities.CampaignInvite) error
	ListInvites(ctx context.Context, campaignID string) ([]entities.CampaignInvite, error)
}

type ClipCounter string

const (
	ClipCounterPending  ClipCounter = "pending"
	ClipCounterApproved ClipCounter = "approved"
	ClipCounterRejected ClipCounter = "rejected"
)

type CounterRepository interface {
	// IncrementClipCounter bumps one denormalized clip counter by one.
	// Returns ErrCampaignNotFound for unknown campaigns.
	IncrementClipCounter(ctx context.Context, campaignID string, counter ClipCounter, occurredAt time.Time) error
}

type IdempotencyRecord struct {
	Key             string
	RequestHash     string
	ResponsePayload []byte
	ExpiresAt       time.Time
}

type IdempotencyStore interface {
	GetRecord(ctx context.Context, key string, now time.Time) (IdempotencyRecord, bool, error)
	PutRecord(ctx context.Context, record IdempotencyRecord) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = sharedevents.Envelope

type OutboxMessage struct {
	OutboxID     string
	EventType    string
	PartitionKey string
	Payload      []byte
	CreatedAt    time.Time
}

type OutboxWriter interface {
	AppendOutbox(ctx context.Context, envelope EventEnvelope) error
}

type OutboxRepository interface {
	ListPendingOutbox(ctx context.Context, limit int) ([]OutboxMessage, error)
	MarkOutboxPublished(ctx context.Context, outboxID string, publishedAt time.Time) error
}

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}

type EventSubscriber interface {
	Subscribe(
		ctx context.Context,
		topic string,
		consumerGroup string,
		handler func(context.Context, EventEnvelope) error,
	) error
}

type EventDedupStore interface {
	// ReserveEvent records the event id; returns true when the event was
	// already reserved (redelivery), false when freshly reserved.
	ReserveEvent(ctx context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error)
}
