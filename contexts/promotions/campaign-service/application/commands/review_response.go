package commands

import (
	"context"
	"log/slog"
	"strings"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

type ReviewResponseCommand struct {
	CampaignID   string
	TargetUserID string
	Decision     entities.ResponseStatus
	Note         string
}

// ReviewResponseUseCase records a review decision on a waitlist response.
// Approving here does not promote the participant; callers pair it with an
// explicit ApproveParticipant call.
type ReviewResponseUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Waitlist     ports.WaitlistRepository
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc ReviewResponseUseCase) Execute(ctx context.Context, cmd ReviewResponseCommand, actor Actor) (entities.WaitlistResponse, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)
	targetID := strings.TrimSpace(cmd.TargetUserID)

	if cmd.Decision != entities.ResponseStatusApproved && cmd.Decision != entities.ResponseStatusRejected {
		return entities.WaitlistResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return entities.WaitlistResponse{}, err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionReviewClips); err != nil {
		return entities.WaitlistResponse{}, err
	}

	response, err := uc.Waitlist.GetResponse(ctx, campaignID, targetID)
	if err != nil {
		return entities.WaitlistResponse{}, err
	}

	now := uc.Clock.Now().UTC()
	response.Status = cmd.Decision
	response.ReviewedBy = actor.UserID
	response.ReviewedAt = &now
	response.Note = strings.TrimSpace(cmd.Note)
	if err := uc.Waitlist.UpdateResponse(ctx, response); err != nil {
		return entities.WaitlistResponse{}, err
	}

	logger.Info("waitlist response reviewed",
		"event", "campaign_waitlist_response_reviewed",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"user_id", targetID,
		"decision", string(cmd.Decision),
		"reviewed_by", actor.UserID,
	)
	return response, nil
}
