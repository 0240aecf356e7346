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

type RemoveParticipantCommand struct {
	CampaignID   string
	TargetUserID string
	Reason       string
}

type RemoveParticipantUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func (uc RemoveParticipantUseCase) Execute(ctx context.Context, cmd RemoveParticipantCommand, actor Actor) error {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)
	targetID := strings.TrimSpace(cmd.TargetUserID)

	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionManageRoles); err != nil {
		return err
	}
	if targetID == actor.UserID {
		return domainerrors.ErrSelfTarget
	}

	target, err := uc.Participants.GetParticipant(ctx, campaignID, targetID)
	if err != nil {
		return err
	}
	if target.Role == entities.RoleCreator {
		return domainerrors.ErrCreatorImmutable
	}
	if err := uc.Participants.RemoveParticipant(ctx, campaignID, targetID); err != nil {
		return err
	}

	now := uc.Clock.Now().UTC()
	if err := appendEvent(ctx, uc.Outbox, uc.IDGenerator, EventParticipantLeft, campaignID, now, map[string]any{
		"campaign_id": campaignID,
		"user_id":     targetID,
		"reason":      string(entities.LeaveReasonKicked),
	}); err != nil {
		return err
	}

	logger.Info("participant removed",
		"event", "campaign_participant_removed",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"user_id", targetID,
		"removed_by", actor.UserID,
	)
	return nil
}
