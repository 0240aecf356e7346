package queries

import (
	"context"
	"log/slog"
	"strings"

	"rally/contexts/promotions/campaign-service/domain/entities"
	"rally/contexts/promotions/campaign-service/ports"
)

type CampaignStats struct {
	CampaignID      string
	Status          entities.CampaignStatus
	ApprovedClips   int
	PendingClips    int
	RejectedClips   int
	TotalClips      int
	TotalViews      int64
	TotalBudget     int64
	RemainingBudget int64
	SpentBudget     int64
	IsFunded        bool
}

type GetStatsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc GetStatsUseCase) Execute(ctx context.Context, campaignID string) (CampaignStats, error) {
	campaign, err := uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
	if err != nil {
		return CampaignStats{}, err
	}
	return CampaignStats{
		CampaignID:      campaign.CampaignID,
		Status:          campaign.Status,
		ApprovedClips:   campaign.ApprovedClips,
		PendingClips:    campaign.PendingClips,
		RejectedClips:   campaign.RejectedClips,
		TotalClips:      campaign.TotalClips(),
		TotalViews:      campaign.TotalViews,
		TotalBudget:     campaign.TotalBudget,
		RemainingBudget: campaign.RemainingBudget,
		SpentBudget:     campaign.SpentBudget,
		IsFunded:        campaign.IsFunded,
	}, nil
}

type GetLeaderboardUseCase struct {
	Campaigns ports.CampaignRepository
	Prizes    ports.PrizeRepository
	Logger    *slog.Logger
}

type LeaderboardView struct {
	CampaignID string
	Enabled    bool
	Prizes     []entities.PrizeDistribution
}

func (uc GetLeaderboardUseCase) Execute(ctx context.Context, campaignID string) (LeaderboardView, error) {
	campaignID = strings.TrimSpace(campaignID)
	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return LeaderboardView{}, err
	}
	prizes, err := uc.Prizes.ListPrizes(ctx, campaignID)
	if err != nil {
		return LeaderboardView{}, err
	}
	return LeaderboardView{
		CampaignID: campaignID,
		Enabled:    campaign.EnableLeaderboard,
		Prizes:     prizes,
	}, nil
}

type GetPermissionsUseCase struct {
	Campaigns   ports.CampaignRepository
	Permissions ports.PermissionsRepository
	Logger      *slog.Logger
}

func (uc GetPermissionsUseCase) Execute(ctx context.Context, campaignID string) (entities.CampaignPermissions, error) {
	campaignID = strings.TrimSpace(campaignID)
	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return entities.CampaignPermissions{}, err
	}
	perms, found, err := uc.Permissions.GetPermissions(ctx, campaignID)
	if err != nil {
		return entities.CampaignPermissions{}, err
	}
	if !found {
		return entities.DefaultPermissions(campaignID), nil
	}
	return perms, nil
}
