package queries

import (
	"context"
	"log/slog"
	"strings"

	"rally/contexts/promotions/campaign-service/domain/entities"
	"rally/contexts/promotions/campaign-service/ports"
)

type GetCampaignUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc GetCampaignUseCase) Execute(ctx context.Context, campaignID string) (entities.Campaign, error) {
	return uc.Campaigns.GetCampaign(ctx, strings.TrimSpace(campaignID))
}

type ListCampaignsQuery struct {
	CreatedBy string
	Status    string
}

type ListCampaignsUseCase struct {
	Campaigns ports.CampaignRepository
	Logger    *slog.Logger
}

func (uc ListCampaignsUseCase) Execute(ctx context.Context, query ListCampaignsQuery) ([]entities.Campaign, error) {
	return uc.Campaigns.ListCampaigns(ctx, ports.CampaignFilter{
		CreatedBy: strings.TrimSpace(query.CreatedBy),
		Status:    entities.CampaignStatus(strings.TrimSpace(query.Status)),
	})
}
