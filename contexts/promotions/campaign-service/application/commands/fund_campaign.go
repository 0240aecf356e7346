package commands

import (
	"context"
	"log/slog"
	"strings"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/ports"
)

type FundCampaignCommand struct {
	CampaignID string
}

type FundCampaignUseCase struct {
	Campaigns   ports.CampaignRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	Logger      *slog.Logger
}

type FundCampaignResult struct {
	PlatformFee     int64
	RemainingBudget int64
}

func (uc FundCampaignUseCase) Execute(ctx context.Context, cmd FundCampaignCommand, actor Actor) (FundCampaignResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return FundCampaignResult{}, err
	}
	// Funding moves money; only the original creator or staff may trigger it.
	if !actor.Staff && campaign.CreatedBy != actor.UserID {
		return FundCampaignResult{}, domainerrors.ErrForbidden
	}
	if campaign.IsFunded {
		return FundCampaignResult{}, domainerrors.ErrAlreadyFunded
	}

	now := uc.Clock.Now().UTC()
	fee := entities.PlatformFeeFor(campaign.TotalBudget)
	remaining := campaign.TotalBudget - fee

	// Conditional write closes the double-fund race: the repository only
	// matches rows still unfunded.
	if err := uc.Campaigns.FundCampaign(ctx, campaignID, fee, remaining, now); err != nil {
		return FundCampaignResult{}, err
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGenerator, EventCampaignFunded, campaignID, now, map[string]any{
		"campaign_id":  campaignID,
		"amount":       campaign.TotalBudget,
		"total_budget": campaign.TotalBudget,
		"funded_by":    actor.UserID,
	}); err != nil {
		return FundCampaignResult{}, err
	}

	logger.Info("campaign funded",
		"event", "campaign_funded",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"total_budget", campaign.TotalBudget,
		"platform_fee", fee,
		"remaining_budget", remaining,
	)
	return FundCampaignResult{PlatformFee: fee, RemainingBudget: remaining}, nil
}
