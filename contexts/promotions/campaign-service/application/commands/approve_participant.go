package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

type ApproveParticipantCommand struct {
	CampaignID   string
	TargetUserID string
}

type ApproveParticipantUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Waitlist     ports.WaitlistRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func (uc ApproveParticipantUseCase) Execute(ctx context.Context, cmd ApproveParticipantCommand, actor Actor) error {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)
	targetID := strings.TrimSpace(cmd.TargetUserID)

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionManageTeam); err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	// Capacity is enforced here, not at application time; the promote is a
	// single conditional operation against the slot count.
	if err := uc.Participants.PromoteWithCapacity(ctx, campaignID, targetID, campaign.EditorSlots, now); err != nil {
		return err
	}

	// Audit the matching waitlist response when one exists; applicants who
	// joined without answers have none.
	response, err := uc.Waitlist.GetResponse(ctx, campaignID, targetID)
	if err == nil {
		response.Status = entities.ResponseStatusApproved
		response.ReviewedBy = actor.UserID
		response.ReviewedAt = &now
		if err := uc.Waitlist.UpdateResponse(ctx, response); err != nil {
			return err
		}
	} else if !errors.Is(err, domainerrors.ErrResponseNotFound) {
		return err
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGenerator, EventParticipantJoined, campaignID, now, map[string]any{
		"campaign_id": campaignID,
		"user_id":     targetID,
		"role":        string(entities.RoleMember),
		"join_method": string(entities.JoinMethodWaitlist),
	}); err != nil {
		return err
	}

	logger.Info("participant approved",
		"event", "campaign_participant_approved",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"user_id", targetID,
		"approved_by", actor.UserID,
	)
	return nil
}
