package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/ports"
)

type CloseCampaignCommand struct {
	CampaignID string
}

type CloseCampaignUseCase struct {
	Campaigns   ports.CampaignRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

func (uc CloseCampaignUseCase) Execute(ctx context.Context, cmd CloseCampaignCommand, actor Actor) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return entities.Campaign{}, err
	}
	if campaign.Status == entities.CampaignStatusEnded {
		return entities.Campaign{}, domainerrors.ErrAlreadyEnded
	}
	// Closing is irreversible; the admin override table is deliberately not
	// consulted here.
	if !actor.Staff && campaign.CreatedBy != actor.UserID {
		return entities.Campaign{}, domainerrors.ErrForbidden
	}

	closed, err := performClose(ctx, uc.Campaigns, uc.Outbox, uc.IDGenerator, campaignID, entities.EndReasonManual, uc.Clock.Now().UTC())
	if err != nil {
		return entities.Campaign{}, err
	}

	logger.Info("campaign closed",
		"event", "campaign_closed",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"end_reason", string(entities.EndReasonManual),
	)
	return closed, nil
}

// performClose runs the conditional close write and emits the ended event
// with snapshot stats. Shared by the manual command and the auto-close sweep.
func performClose(
	ctx context.Context,
	campaigns ports.CampaignRepository,
	outbox ports.OutboxWriter,
	idGen ports.IDGenerator,
	campaignID string,
	reason entities.EndReason,
	now time.Time,
) (entities.Campaign, error) {
	closed, err := campaigns.CloseCampaign(ctx, campaignID, now)
	if err != nil {
		return entities.Campaign{}, err
	}
	if err := appendEvent(ctx, outbox, idGen, EventCampaignEnded, campaignID, now, map[string]any{
		"campaign_id":     campaignID,
		"end_reason":      string(reason),
		"has_leaderboard": closed.EnableLeaderboard,
		"total_clips":     closed.TotalClips(),
		"total_views":     closed.TotalViews,
		"total_paid":      closed.SpentBudget,
	}); err != nil {
		return entities.Campaign{}, err
	}
	return closed, nil
}
