package commands

import (
	"context"
	"log/slog"
	"strings"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

type SetPermissionsCommand struct {
	CampaignID              string
	AdminsCanEditCampaign   bool
	AdminsCanDeleteCampaign bool
	AdminsCanManageTeam     bool
	AdminsCanAddBudget      bool
	AdminsCanReviewClips    bool
}

type SetPermissionsUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Logger       *slog.Logger
}

func (uc SetPermissionsUseCase) Execute(ctx context.Context, cmd SetPermissionsCommand, actor Actor) error {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)

	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionSetPermissions); err != nil {
		return err
	}

	if err := uc.Permissions.PutPermissions(ctx, entities.CampaignPermissions{
		CampaignID:              campaignID,
		AdminsCanEditCampaign:   cmd.AdminsCanEditCampaign,
		AdminsCanDeleteCampaign: cmd.AdminsCanDeleteCampaign,
		AdminsCanManageTeam:     cmd.AdminsCanManageTeam,
		AdminsCanAddBudget:      cmd.AdminsCanAddBudget,
		AdminsCanReviewClips:    cmd.AdminsCanReviewClips,
	}); err != nil {
		return err
	}

	logger.Info("campaign permissions updated",
		"event", "campaign_permissions_updated",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"changed_by", actor.UserID,
	)
	return nil
}
