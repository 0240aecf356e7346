package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/ports"
)

const defaultEditorSlots = 10

type PrizeRankInput struct {
	Reward int64
	Label  string
}

type CreateCampaignCommand struct {
	IdempotencyKey    string
	Title             string
	Description       string
	StudioID          string
	CampaignType      string
	Platforms         []string
	EditorSlots       *int
	TotalBudget       int64
	EnableLeaderboard bool
	LeaderboardRanks  []PrizeRankInput
	IsPrivate         bool
	InvitedUsers      []string
	StartDate         *time.Time
	EndDate           *time.Time
}

type CreateCampaignUseCase struct {
	Campaigns      ports.CampaignRepository
	Participants   ports.ParticipantRepository
	Prizes         ports.PrizeRepository
	Invites        ports.InviteRepository
	Idempotency    ports.IdempotencyStore
	Outbox         ports.OutboxWriter
	Clock          ports.Clock
	IDGenerator    ports.IDGenerator
	IdempotencyTTL time.Duration
	Logger         *slog.Logger
}

type CreateCampaignResult struct {
	Campaign entities.Campaign
	Replayed bool
}

type createCampaignReplayPayload struct {
	CampaignID        string     `json:"campaign_id"`
	CreatedBy         string     `json:"created_by"`
	StudioID          string     `json:"studio_id"`
	Title             string     `json:"title"`
	Description       string     `json:"description"`
	Status            string     `json:"status"`
	CampaignType      string     `json:"campaign_type"`
	Platforms         []string   `json:"platforms"`
	EditorSlots       int        `json:"editor_slots"`
	TotalBudget       int64      `json:"total_budget"`
	EnableLeaderboard bool       `json:"enable_leaderboard"`
	IsPrivate         bool       `json:"is_private"`
	StartDate         *time.Time `json:"start_date"`
	EndDate           *time.Time `json:"end_date"`
	CreatedAt         time.Time  `json:"created_at"`
}

func (uc CreateCampaignUseCase) Execute(ctx context.Context, cmd CreateCampaignCommand, creator Actor) (CreateCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	creator = creator.normalized()
	if creator.UserID == "" {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}
	if strings.TrimSpace(cmd.IdempotencyKey) == "" {
		return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyRequired
	}

	now := uc.Clock.Now().UTC()
	requestHash := hashCreateCampaignCommand(cmd, creator.UserID)
	if record, found, err := uc.Idempotency.GetRecord(ctx, cmd.IdempotencyKey, now); err != nil {
		return CreateCampaignResult{}, err
	} else if found {
		if record.RequestHash != requestHash {
			return CreateCampaignResult{}, domainerrors.ErrIdempotencyKeyConflict
		}
		var payload createCampaignReplayPayload
		if err := json.Unmarshal(record.ResponsePayload, &payload); err != nil {
			return CreateCampaignResult{}, err
		}
		return CreateCampaignResult{Campaign: payload.toEntity(), Replayed: true}, nil
	}

	platforms, ok := entities.NormalizePlatforms(cmd.Platforms)
	if !ok {
		return CreateCampaignResult{}, domainerrors.ErrInvalidPlatform
	}

	campaignType := entities.CampaignType(strings.TrimSpace(cmd.CampaignType))
	if campaignType == "" {
		campaignType = entities.CampaignTypeAutoJoin
	}
	if !entities.IsSupportedCampaignType(campaignType) {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	slots := defaultEditorSlots
	if cmd.EditorSlots != nil {
		slots = *cmd.EditorSlots
	}
	if slots < 0 || strings.TrimSpace(cmd.Title) == "" || cmd.TotalBudget < 0 {
		return CreateCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	campaignID, err := uc.IDGenerator.NewID(ctx)
	if err != nil {
		return CreateCampaignResult{}, err
	}

	campaign := entities.Campaign{
		CampaignID:        campaignID,
		CreatedBy:         creator.UserID,
		StudioID:          strings.TrimSpace(cmd.StudioID),
		Title:             strings.TrimSpace(cmd.Title),
		Description:       strings.TrimSpace(cmd.Description),
		Status:            entities.CampaignStatusDraft,
		CampaignType:      campaignType,
		Platforms:         platforms,
		EditorSlots:       slots,
		TotalBudget:       cmd.TotalBudget,
		RemainingBudget:   0,
		EnableLeaderboard: cmd.EnableLeaderboard,
		IsPrivate:         cmd.IsPrivate,
		StartDate:         normalizeTime(cmd.StartDate),
		EndDate:           normalizeTime(cmd.EndDate),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := uc.Campaigns.CreateCampaign(ctx, campaign); err != nil {
		return CreateCampaignResult{}, err
	}
	if err := uc.Participants.AddParticipant(ctx, entities.Participant{
		CampaignID: campaignID,
		UserID:     creator.UserID,
		Role:       entities.RoleCreator,
		JoinedAt:   now,
		UpdatedAt:  now,
	}); err != nil {
		return CreateCampaignResult{}, err
	}

	if campaign.EnableLeaderboard && len(cmd.LeaderboardRanks) > 0 {
		prizes := make([]entities.PrizeDistribution, 0, len(cmd.LeaderboardRanks))
		for i, rank := range cmd.LeaderboardRanks {
			prizes = append(prizes, entities.PrizeDistribution{
				CampaignID: campaignID,
				Position:   i + 1,
				Reward:     rank.Reward,
				Label:      strings.TrimSpace(rank.Label),
			})
		}
		if err := uc.Prizes.ReplacePrizes(ctx, campaignID, prizes); err != nil {
			return CreateCampaignResult{}, err
		}
	}

	if campaign.IsPrivate && len(cmd.InvitedUsers) > 0 {
		invites := make([]entities.CampaignInvite, 0, len(cmd.InvitedUsers))
		for _, userID := range cmd.InvitedUsers {
			userID = strings.TrimSpace(userID)
			if userID == "" || userID == creator.UserID {
				continue
			}
			invites = append(invites, entities.CampaignInvite{
				CampaignID: campaignID,
				UserID:     userID,
				CreatedAt:  now,
			})
		}
		if len(invites) > 0 {
			if err := uc.Invites.AddInvites(ctx, invites); err != nil {
				return CreateCampaignResult{}, err
			}
		}
	}

	replay := createCampaignReplayPayload{
		CampaignID:        campaign.CampaignID,
		CreatedBy:         campaign.CreatedBy,
		StudioID:          campaign.StudioID,
		Title:             campaign.Title,
		Description:       campaign.Description,
		Status:            string(campaign.Status),
		CampaignType:      string(campaign.CampaignType),
		Platforms:         append([]string(nil), campaign.Platforms...),
		EditorSlots:       campaign.EditorSlots,
		TotalBudget:       campaign.TotalBudget,
		EnableLeaderboard: campaign.EnableLeaderboard,
		IsPrivate:         campaign.IsPrivate,
		StartDate:         campaign.StartDate,
		EndDate:           campaign.EndDate,
		CreatedAt:         campaign.CreatedAt,
	}
	serialized, err := json.Marshal(replay)
	if err != nil {
		return CreateCampaignResult{}, err
	}
	if err := uc.Idempotency.PutRecord(ctx, ports.IdempotencyRecord{
		Key:             strings.TrimSpace(cmd.IdempotencyKey),
		RequestHash:     requestHash,
		ResponsePayload: serialized,
		ExpiresAt:       now.Add(uc.IdempotencyTTL),
	}); err != nil {
		return CreateCampaignResult{}, err
	}

	data := map[string]any{
		"campaign_id": campaign.CampaignID,
		"owner_id":    campaign.CreatedBy,
		"title":       campaign.Title,
		"status":      string(campaign.Status),
	}
	if campaign.StudioID != "" {
		data["studio_id"] = campaign.StudioID
	}
	if err := appendEvent(ctx, uc.Outbox, uc.IDGenerator, EventCampaignCreated, campaign.CampaignID, now, data); err != nil {
		return CreateCampaignResult{}, err
	}

	logger.Info("campaign created",
		"event", "campaign_created",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaign.CampaignID,
		"owner_id", campaign.CreatedBy,
		"campaign_type", string(campaign.CampaignType),
	)
	return CreateCampaignResult{Campaign: campaign}, nil
}

func (p createCampaignReplayPayload) toEntity() entities.Campaign {
	return entities.Campaign{
		CampaignID:        p.CampaignID,
		CreatedBy:         p.CreatedBy,
		StudioID:          p.StudioID,
		Title:             p.Title,
		Description:       p.Description,
		Status:            entities.CampaignStatus(p.Status),
		CampaignType:      entities.CampaignType(p.CampaignType),
		Platforms:         append([]string(nil), p.Platforms...),
		EditorSlots:       p.EditorSlots,
		TotalBudget:       p.TotalBudget,
		EnableLeaderboard: p.EnableLeaderboard,
		IsPrivate:         p.IsPrivate,
		StartDate:         p.StartDate,
		EndDate:           p.EndDate,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.CreatedAt,
	}
}

func hashCreateCampaignCommand(cmd CreateCampaignCommand, creatorID string) string {
	payload := map[string]any{
		"created_by":         creatorID,
		"title":              strings.TrimSpace(cmd.Title),
		"description":        strings.TrimSpace(cmd.Description),
		"studio_id":          strings.TrimSpace(cmd.StudioID),
		"campaign_type":      strings.TrimSpace(cmd.CampaignType),
		"platforms":          append([]string(nil), cmd.Platforms...),
		"editor_slots":       cmd.EditorSlots,
		"total_budget":       cmd.TotalBudget,
		"enable_leaderboard": cmd.EnableLeaderboard,
		"is_private":         cmd.IsPrivate,
		"invited_users":      append([]string(nil), cmd.InvitedUsers...),
	}
	if len(cmd.LeaderboardRanks) > 0 {
		ranks := make([]map[string]any, 0, len(cmd.LeaderboardRanks))
		for _, rank := range cmd.LeaderboardRanks {
			ranks = append(ranks, map[string]any{
				"reward": rank.Reward,
				"label":  strings.TrimSpace(rank.Label),
			})
		}
		payload["leaderboard_ranks"] = ranks
	}
	if cmd.StartDate != nil {
		payload["start_date"] = cmd.StartDate.UTC().Format(time.RFC3339Nano)
	}
	if cmd.EndDate != nil {
		payload["end_date"] = cmd.EndDate.UTC().Format(time.RFC3339Nano)
	}
	raw, _ := json.Marshal(payload)
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}

func normalizeTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	timestamp := value.UTC()
	return &timestamp
}
