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

type TeamAction string

const (
	TeamActionPromote TeamAction = "promote"
	TeamActionDemote  TeamAction = "demote"
	TeamActionRemove  TeamAction = "remove"
)

type ManageTeamCommand struct {
	CampaignID   string
	TargetUserID string
	Action       TeamAction
}

type ManageTeamUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Remove       RemoveParticipantUseCase
	Clock        ports.Clock
	Logger       *slog.Logger
}

func (uc ManageTeamUseCase) Execute(ctx context.Context, cmd ManageTeamCommand, actor Actor) error {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)
	targetID := strings.TrimSpace(cmd.TargetUserID)

	if cmd.Action == TeamActionRemove {
		return uc.Remove.Execute(ctx, RemoveParticipantCommand{
			CampaignID:   campaignID,
			TargetUserID: targetID,
		}, actor)
	}

	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionManageRoles); err != nil {
		return err
	}

	var role entities.ParticipantRole
	switch cmd.Action {
	case TeamActionPromote:
		role = entities.RoleAdmin
	case TeamActionDemote:
		role = entities.RoleMember
	default:
		return domainerrors.ErrInvalidCampaignInput
	}

	target, err := uc.Participants.GetParticipant(ctx, campaignID, targetID)
	if err != nil {
		return err
	}
	if target.Role == entities.RoleCreator {
		return domainerrors.ErrCreatorImmutable
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Participants.UpdateRole(ctx, campaignID, targetID, role, now); err != nil {
		return err
	}

	logger.Info("team role changed",
		"event", "campaign_team_role_changed",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"user_id", targetID,
		"new_role", string(role),
		"changed_by", actor.UserID,
	)
	return nil
}
