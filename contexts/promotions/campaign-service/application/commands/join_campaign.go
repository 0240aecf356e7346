package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/ports"
)

type JoinCampaignCommand struct {
	CampaignID string
	Answers    map[string]string
}

type JoinCampaignUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Waitlist     ports.WaitlistRepository
	Bans         ports.BanRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

type JoinCampaignResult struct {
	Role       entities.ParticipantRole
	JoinMethod entities.JoinMethod
}

func (uc JoinCampaignUseCase) Execute(ctx context.Context, cmd JoinCampaignCommand, user Actor) (JoinCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	user = user.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)
	if user.UserID == "" {
		return JoinCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return JoinCampaignResult{}, err
	}
	if !campaign.IsActive() {
		return JoinCampaignResult{}, domainerrors.ErrCampaignNotActive
	}
	if _, err := uc.Participants.GetParticipant(ctx, campaignID, user.UserID); err == nil {
		return JoinCampaignResult{}, domainerrors.ErrAlreadyParticipant
	} else if !errors.Is(err, domainerrors.ErrParticipantNotFound) {
		return JoinCampaignResult{}, err
	}
	banned, err := uc.Bans.IsBanned(ctx, campaignID, user.UserID)
	if err != nil {
		return JoinCampaignResult{}, err
	}
	if banned {
		return JoinCampaignResult{}, domainerrors.ErrUserBanned
	}

	now := uc.Clock.Now().UTC()
	var result JoinCampaignResult

	switch campaign.CampaignType {
	case entities.CampaignTypeAutoJoin:
		// Capacity check and insert happen as one conditional operation in
		// the repository; two racing joins cannot both land.
		if err := uc.Participants.AdmitWithCapacity(ctx, entities.Participant{
			CampaignID: campaignID,
			UserID:     user.UserID,
			Role:       entities.RoleMember,
			JoinedAt:   now,
			UpdatedAt:  now,
		}, campaign.EditorSlots); err != nil {
			return JoinCampaignResult{}, err
		}
		result = JoinCampaignResult{Role: entities.RoleMember, JoinMethod: entities.JoinMethodDirect}

	case entities.CampaignTypeWaitlist:
		// Applications are unbounded; capacity is enforced at approval time.
		if err := uc.Participants.AddParticipant(ctx, entities.Participant{
			CampaignID: campaignID,
			UserID:     user.UserID,
			Role:       entities.RolePending,
			JoinedAt:   now,
			UpdatedAt:  now,
		}); err != nil {
			return JoinCampaignResult{}, err
		}
		if len(cmd.Answers) > 0 {
			if err := uc.Waitlist.CreateResponse(ctx, entities.WaitlistResponse{
				CampaignID:  campaignID,
				UserID:      user.UserID,
				Answers:     cmd.Answers,
				Status:      entities.ResponseStatusPending,
				SubmittedAt: now,
			}); err != nil {
				return JoinCampaignResult{}, err
			}
		}
		result = JoinCampaignResult{Role: entities.RolePending, JoinMethod: entities.JoinMethodWaitlist}

	default:
		return JoinCampaignResult{}, domainerrors.ErrInvalidCampaignInput
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGenerator, EventParticipantJoined, campaignID, now, map[string]any{
		"campaign_id": campaignID,
		"user_id":     user.UserID,
		"role":        string(result.Role),
		"join_method": string(result.JoinMethod),
	}); err != nil {
		return JoinCampaignResult{}, err
	}

	logger.Info("participant joined",
		"event", "campaign_participant_joined",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"user_id", user.UserID,
		"join_method", string(result.JoinMethod),
	)
	return result, nil
}
