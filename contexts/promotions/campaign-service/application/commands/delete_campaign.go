package commands

import (
	"context"
	"log/slog"
	"strings"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

type DeleteCampaignCommand struct {
	CampaignID string
}

// DeleteCampaignUseCase removes the campaign and its dependent rows.
// Dependent-entity cleanup beyond the campaign row is the storage layer's
// cascade contract.
type DeleteCampaignUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Logger       *slog.Logger
}

func (uc DeleteCampaignUseCase) Execute(ctx context.Context, cmd DeleteCampaignCommand, actor Actor) error {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)

	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionDeleteCampaign); err != nil {
		return err
	}
	if err := uc.Campaigns.DeleteCampaign(ctx, campaignID); err != nil {
		return err
	}

	logger.Info("campaign deleted",
		"event", "campaign_deleted",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"deleted_by", actor.UserID,
	)
	return nil
}
