package queries

import (
	"context"
	"log/slog"
	"strings"

	"rally/contexts/promotions/campaign-service/domain/entities"
	"rally/contexts/promotions/campaign-service/ports"
)

type ListTeamUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Logger       *slog.Logger
}

func (uc ListTeamUseCase) Execute(ctx context.Context, campaignID string) ([]entities.Participant, error) {
	campaignID = strings.TrimSpace(campaignID)
	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return uc.Participants.ListParticipants(ctx, campaignID)
}
