package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/ports"

	"github.com/google/uuid"
)

type outboxRow struct {
	message   ports.OutboxMessage
	published bool
}

type dedupRow struct {
	payloadHash string
	expiresAt   time.Time
}

// Store is the in-memory adapter backing every repository port. All
// conditional-write guarantees hold under the single mutex.
type Store struct {
	mu sync.RWMutex

	campaigns    map[string]entities.Campaign
	participants map[string]map[string]entities.Participant
	questions    map[string][]entities.WaitlistQuestion
	responses    map[string]map[string]entities.WaitlistResponse
	bans         map[string]map[string]entities.CampaignBan
	permissions  map[string]entities.CampaignPermissions
	prizes       map[string][]entities.PrizeDistribution
	invites      map[string][]entities.CampaignInvite
	idempotency  map[string]ports.IdempotencyRecord
	outbox       []outboxRow
	dedup        map[string]dedupRow

	// FailCampaigns causes CloseCampaign to fail for listed ids; used to
	// exercise sweep partial-failure isolation.
	FailCampaigns map[string]error
}

func NewStore(seed []entities.Campaign) *Store {
	campaigns := make(map[string]entities.Campaign, len(seed))
	for _, item := range seed {
		campaigns[item.CampaignID] = item
	}
	return &Store{
		campaigns:    campaigns,
		participants: make(map[string]map[string]entities.Participant),
		questions:    make(map[string][]entities.WaitlistQuestion),
		responses:    make(map[string]map[string]entities.WaitlistResponse),
		bans:         make(map[string]map[string]entities.CampaignBan),
		permissions:  make(map[string]entities.CampaignPermissions),
		prizes:       make(map[string][]entities.PrizeDistribution),
		invites:      make(map[string][]entities.CampaignInvite),
		idempotency:  make(map[string]ports.IdempotencyRecord),
		dedup:        make(map[string]dedupRow),
	}
}

func (s *Store) CreateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; exists {
		return domainerrors.ErrInvalidCampaignInput
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetCampaign(_ context.Context, campaignID string) (entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	item, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	return item, nil
}

func (s *Store) ListCampaigns(_ context.Context, filter ports.CampaignFilter) ([]entities.Campaign, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entities.Campaign, 0, len(s.campaigns))
	for _, campaign := range s.campaigns {
		if filter.CreatedBy != "" && campaign.CreatedBy != filter.CreatedBy {
			continue
		}
		if filter.Status != "" && campaign.Status != filter.Status {
			continue
		}
		items = append(items, campaign)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	return items, nil
}

func (s *Store) UpdateCampaign(_ context.Context, campaign entities.Campaign) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.campaigns[campaign.CampaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) DeleteCampaign(_ context.Context, campaignID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID = strings.TrimSpace(campaignID)
	if _, exists := s.campaigns[campaignID]; !exists {
		return domainerrors.ErrCampaignNotFound
	}
	delete(s.campaigns, campaignID)
	delete(s.participants, campaignID)
	delete(s.questions, campaignID)
	delete(s.responses, campaignID)
	delete(s.bans, campaignID)
	delete(s.permissions, campaignID)
	delete(s.prizes, campaignID)
	delete(s.invites, campaignID)
	return nil
}

func (s *Store) FundCampaign(_ context.Context, campaignID string, fee int64, remaining int64, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	if campaign.IsFunded {
		return domainerrors.ErrAlreadyFunded
	}
	campaign.IsFunded = true
	campaign.PlatformFee = fee
	campaign.RemainingBudget = remaining
	campaign.UpdatedAt = now.UTC()
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) CloseCampaign(_ context.Context, campaignID string, now time.Time) (entities.Campaign, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID = strings.TrimSpace(campaignID)
	if err, poisoned := s.FailCampaigns[campaignID]; poisoned {
		return entities.Campaign{}, err
	}
	campaign, exists := s.campaigns[campaignID]
	if !exists {
		return entities.Campaign{}, domainerrors.ErrCampaignNotFound
	}
	if campaign.Status == entities.CampaignStatusEnded {
		return entities.Campaign{}, domainerrors.ErrAlreadyEnded
	}
	timestamp := now.UTC()
	campaign.Status = entities.CampaignStatusEnded
	campaign.ArchivedAt = &timestamp
	campaign.UpdatedAt = timestamp
	s.campaigns[campaign.CampaignID] = campaign
	return campaign, nil
}

func (s *Store) ListExpiredActive(_ context.Context, now time.Time, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type expired struct {
		id      string
		endDate time.Time
	}
	items := make([]expired, 0)
	for _, campaign := range s.campaigns {
		if campaign.PastEndDate(now) {
			items = append(items, expired{id: campaign.CampaignID, endDate: campaign.EndDate.UTC()})
		}
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].endDate.Before(items[j].endDate)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.id)
	}
	return ids, nil
}

func (s *Store) AddParticipant(_ context.Context, participant entities.Participant) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.addParticipantLocked(participant)
}

func (s *Store) AdmitWithCapacity(_ context.Context, participant entities.Participant, capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.admittedCountLocked(participant.CampaignID) >= capacity {
		return domainerrors.ErrCampaignFull
	}
	return s.addParticipantLocked(participant)
}

func (s *Store) PromoteWithCapacity(_ context.Context, campaignID string, userID string, capacity int, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaignID = strings.TrimSpace(campaignID)
	userID = strings.TrimSpace(userID)
	rows := s.participants[campaignID]
	participant, exists := rows[userID]
	if !exists || participant.Role != entities.RolePending {
		return domainerrors.ErrParticipantNotFound
	}
	if s.admittedCountLocked(campaignID) >= capacity {
		return domainerrors.ErrCampaignFull
	}
	participant.Role = entities.RoleMember
	participant.UpdatedAt = now.UTC()
	rows[userID] = participant
	return nil
}

func (s *Store) GetParticipant(_ context.Context, campaignID string, userID string) (entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	participant, exists := s.participants[strings.TrimSpace(campaignID)][strings.TrimSpace(userID)]
	if !exists {
		return entities.Participant{}, domainerrors.ErrParticipantNotFound
	}
	return participant, nil
}

func (s *Store) ListParticipants(_ context.Context, campaignID string) ([]entities.Participant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.participants[strings.TrimSpace(campaignID)]
	items := make([]entities.Participant, 0, len(rows))
	for _, participant := range rows {
		items = append(items, participant)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].JoinedAt.Before(items[j].JoinedAt)
	})
	return items, nil
}

func (s *Store) UpdateRole(_ context.Context, campaignID string, userID string, role entities.ParticipantRole, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.participants[strings.TrimSpace(campaignID)]
	participant, exists := rows[strings.TrimSpace(userID)]
	if !exists {
		return domainerrors.ErrParticipantNotFound
	}
	participant.Role = role
	participant.UpdatedAt = now.UTC()
	rows[participant.UserID] = participant
	return nil
}

func (s *Store) RemoveParticipant(_ context.Context, campaignID string, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.participants[strings.TrimSpace(campaignID)]
	userID = strings.TrimSpace(userID)
	if _, exists := rows[userID]; !exists {
		return domainerrors.ErrParticipantNotFound
	}
	delete(rows, userID)
	return nil
}

func (s *Store) addParticipantLocked(participant entities.Participant) error {
	rows, exists := s.participants[participant.CampaignID]
	if !exists {
		rows = make(map[string]entities.Participant)
		s.participants[participant.CampaignID] = rows
	}
	if _, exists := rows[participant.UserID]; exists {
		return domainerrors.ErrAlreadyParticipant
	}
	rows[participant.UserID] = participant
	return nil
}

func (s *Store) admittedCountLocked(campaignID string) int {
	count := 0
	for _, participant := range s.participants[campaignID] {
		if participant.Admitted() {
			count++
		}
	}
	return count
}

func (s *Store) ReplaceQuestions(_ context.Context, campaignID string, questions []entities.WaitlistQuestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.questions[strings.TrimSpace(campaignID)] = append([]entities.WaitlistQuestion(nil), questions...)
	return nil
}

func (s *Store) ListQuestions(_ context.Context, campaignID string) ([]entities.WaitlistQuestion, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]entities.WaitlistQuestion(nil), s.questions[strings.TrimSpace(campaignID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Order < items[j].Order
	})
	return items, nil
}

func (s *Store) CreateResponse(_ context.Context, response entities.WaitlistResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, exists := s.responses[response.CampaignID]
	if !exists {
		rows = make(map[string]entities.WaitlistResponse)
		s.responses[response.CampaignID] = rows
	}
	if _, exists := rows[response.UserID]; exists {
		return domainerrors.ErrAlreadyParticipant
	}
	rows[response.UserID] = response
	return nil
}

func (s *Store) GetResponse(_ context.Context, campaignID string, userID string) (entities.WaitlistResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	response, exists := s.responses[strings.TrimSpace(campaignID)][strings.TrimSpace(userID)]
	if !exists {
		return entities.WaitlistResponse{}, domainerrors.ErrResponseNotFound
	}
	return response, nil
}

func (s *Store) ListResponses(_ context.Context, campaignID string, status entities.ResponseStatus) ([]entities.WaitlistResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows := s.responses[strings.TrimSpace(campaignID)]
	items := make([]entities.WaitlistResponse, 0, len(rows))
	for _, response := range rows {
		if status != "" && response.Status != status {
			continue
		}
		items = append(items, response)
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].SubmittedAt.Before(items[j].SubmittedAt)
	})
	return items, nil
}

func (s *Store) UpdateResponse(_ context.Context, response entities.WaitlistResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.responses[response.CampaignID]
	if _, exists := rows[response.UserID]; !exists {
		return domainerrors.ErrResponseNotFound
	}
	rows[response.UserID] = response
	return nil
}

func (s *Store) RejectPendingResponse(_ context.Context, campaignID string, userID string, reviewedBy string, now time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows := s.responses[strings.TrimSpace(campaignID)]
	response, exists := rows[strings.TrimSpace(userID)]
	if !exists || response.Status != entities.ResponseStatusPending {
		return nil
	}
	timestamp := now.UTC()
	response.Status = entities.ResponseStatusRejected
	response.ReviewedBy = reviewedBy
	response.ReviewedAt = &timestamp
	rows[response.UserID] = response
	return nil
}

func (s *Store) AddBan(_ context.Context, ban entities.CampaignBan) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	rows, exists := s.bans[ban.CampaignID]
	if !exists {
		rows = make(map[string]entities.CampaignBan)
		s.bans[ban.CampaignID] = rows
	}
	rows[ban.UserID] = ban
	return nil
}

func (s *Store) IsBanned(_ context.Context, campaignID string, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, banned := s.bans[strings.TrimSpace(campaignID)][strings.TrimSpace(userID)]
	return banned, nil
}

func (s *Store) GetPermissions(_ context.Context, campaignID string) (entities.CampaignPermissions, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	perms, exists := s.permissions[strings.TrimSpace(campaignID)]
	return perms, exists, nil
}

func (s *Store) PutPermissions(_ context.Context, perms entities.CampaignPermissions) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.permissions[perms.CampaignID] = perms
	return nil
}

func (s *Store) ReplacePrizes(_ context.Context, campaignID string, prizes []entities.PrizeDistribution) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.prizes[strings.TrimSpace(campaignID)] = append([]entities.PrizeDistribution(nil), prizes...)
	return nil
}

func (s *Store) ListPrizes(_ context.Context, campaignID string) ([]entities.PrizeDistribution, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := append([]entities.PrizeDistribution(nil), s.prizes[strings.TrimSpace(campaignID)]...)
	sort.Slice(items, func(i, j int) bool {
		return items[i].Position < items[j].Position
	})
	return items, nil
}

func (s *Store) AddInvites(_ context.Context, invites []entities.CampaignInvite) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, invite := range invites {
		s.invites[invite.CampaignID] = append(s.invites[invite.CampaignID], invite)
	}
	return nil
}

func (s *Store) ListInvites(_ context.Context, campaignID string) ([]entities.CampaignInvite, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return append([]entities.CampaignInvite(nil), s.invites[strings.TrimSpace(campaignID)]...), nil
}

func (s *Store) IncrementClipCounter(_ context.Context, campaignID string, counter ports.ClipCounter, occurredAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	campaign, exists := s.campaigns[strings.TrimSpace(campaignID)]
	if !exists {
		return domainerrors.ErrCampaignNotFound
	}
	switch counter {
	case ports.ClipCounterPending:
		campaign.PendingClips++
	case ports.ClipCounterApproved:
		campaign.ApprovedClips++
	case ports.ClipCounterRejected:
		campaign.RejectedClips++
	default:
		return domainerrors.ErrInvalidCampaignInput
	}
	campaign.UpdatedAt = occurredAt.UTC()
	s.campaigns[campaign.CampaignID] = campaign
	return nil
}

func (s *Store) GetRecord(_ context.Context, key string, now time.Time) (ports.IdempotencyRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.idempotency[key]
	if !exists {
		return ports.IdempotencyRecord{}, false, nil
	}
	if !record.ExpiresAt.After(now) {
		delete(s.idempotency, key)
		return ports.IdempotencyRecord{}, false, nil
	}
	return record, true, nil
}

func (s *Store) PutRecord(_ context.Context, record ports.IdempotencyRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.idempotency[record.Key]
	if exists {
		if existing.RequestHash != record.RequestHash ||
			!bytes.Equal(existing.ResponsePayload, record.ResponsePayload) {
			return domainerrors.ErrIdempotencyKeyConflict
		}
	}
	s.idempotency[record.Key] = record
	return nil
}

func (s *Store) AppendOutbox(_ context.Context, envelope ports.EventEnvelope) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	payload, err := marshalEnvelope(envelope)
	if err != nil {
		return err
	}
	s.outbox = append(s.outbox, outboxRow{
		message: ports.OutboxMessage{
			OutboxID:     envelope.EventID,
			EventType:    envelope.EventType,
			PartitionKey: envelope.PartitionKey,
			Payload:      payload,
			CreatedAt:    envelope.OccurredAt.UTC(),
		},
	})
	return nil
}

func (s *Store) ListPendingOutbox(_ context.Context, limit int) ([]ports.OutboxMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = 100
	}
	items := make([]ports.OutboxMessage, 0)
	for _, row := range s.outbox {
		if row.published {
			continue
		}
		items = append(items, row.message)
		if len(items) >= limit {
			break
		}
	}
	return items, nil
}

func (s *Store) MarkOutboxPublished(_ context.Context, outboxID string, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.outbox {
		if s.outbox[i].message.OutboxID == outboxID {
			s.outbox[i].published = true
			return nil
		}
	}
	return domainerrors.ErrInvalidCampaignInput
}

func (s *Store) ReserveEvent(_ context.Context, eventID string, payloadHash string, expiresAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, exists := s.dedup[eventID]
	if exists {
		if existing.payloadHash != payloadHash {
			return false, domainerrors.ErrIdempotencyKeyConflict
		}
		return true, nil
	}
	s.dedup[eventID] = dedupRow{payloadHash: payloadHash, expiresAt: expiresAt.UTC()}
	return false, nil
}

func marshalEnvelope(envelope ports.EventEnvelope) ([]byte, error) {
	return json.Marshal(envelope)
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}
