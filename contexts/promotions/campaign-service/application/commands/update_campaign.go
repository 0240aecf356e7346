package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

// UpdateCampaignCommand is a sparse patch: nil fields are left untouched.
type UpdateCampaignCommand struct {
	CampaignID        string
	Title             *string
	Description       *string
	Status            *string
	Platforms         *[]string
	EditorSlots       *int
	EnableLeaderboard *bool
	IsPrivate         *bool
	StartDate         *time.Time
	EndDate           *time.Time
	LeaderboardRanks  *[]PrizeRankInput
}

type UpdateCampaignUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Prizes       ports.PrizeRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func (uc UpdateCampaignUseCase) Execute(ctx context.Context, cmd UpdateCampaignCommand, actor Actor) (entities.Campaign, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)

	campaign, err := uc.Campaigns.GetCampaign(ctx, campaignID)
	if err != nil {
		return entities.Campaign{}, err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionEditCampaign); err != nil {
		return entities.Campaign{}, err
	}

	now := uc.Clock.Now().UTC()
	oldStatus := campaign.Status
	statusChanged := false

	if cmd.Status != nil {
		next := entities.CampaignStatus(strings.TrimSpace(*cmd.Status))
		if next != oldStatus {
			if !entities.ValidStatusTransition(oldStatus, next) {
				return entities.Campaign{}, domainerrors.ErrInvalidTransition
			}
			campaign.Status = next
			if next == entities.CampaignStatusEnded {
				campaign.ArchivedAt = &now
			}
			statusChanged = true
		}
	}
	if cmd.Title != nil {
		title := strings.TrimSpace(*cmd.Title)
		if title == "" {
			return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
		}
		campaign.Title = title
	}
	if cmd.Description != nil {
		campaign.Description = strings.TrimSpace(*cmd.Description)
	}
	if cmd.Platforms != nil {
		platforms, ok := entities.NormalizePlatforms(*cmd.Platforms)
		if !ok {
			return entities.Campaign{}, domainerrors.ErrInvalidPlatform
		}
		campaign.Platforms = platforms
	}
	if cmd.EditorSlots != nil {
		if *cmd.EditorSlots < 0 {
			return entities.Campaign{}, domainerrors.ErrInvalidCampaignInput
		}
		campaign.EditorSlots = *cmd.EditorSlots
	}
	if cmd.EnableLeaderboard != nil {
		campaign.EnableLeaderboard = *cmd.EnableLeaderboard
	}
	if cmd.IsPrivate != nil {
		campaign.IsPrivate = *cmd.IsPrivate
	}
	if cmd.StartDate != nil {
		campaign.StartDate = normalizeTime(cmd.StartDate)
	}
	if cmd.EndDate != nil {
		campaign.EndDate = normalizeTime(cmd.EndDate)
	}
	campaign.UpdatedAt = now

	if cmd.LeaderboardRanks != nil {
		prizes := make([]entities.PrizeDistribution, 0, len(*cmd.LeaderboardRanks))
		for i, rank := range *cmd.LeaderboardRanks {
			prizes = append(prizes, entities.PrizeDistribution{
				CampaignID: campaignID,
				Position:   i + 1,
				Reward:     rank.Reward,
				Label:      strings.TrimSpace(rank.Label),
			})
		}
		if err := uc.Prizes.ReplacePrizes(ctx, campaignID, prizes); err != nil {
			return entities.Campaign{}, err
		}
	}

	if err := uc.Campaigns.UpdateCampaign(ctx, campaign); err != nil {
		return entities.Campaign{}, err
	}

	if statusChanged {
		if err := appendEvent(ctx, uc.Outbox, uc.IDGenerator, EventStatusChanged, campaignID, now, map[string]any{
			"campaign_id": campaignID,
			"old_status":  string(oldStatus),
			"new_status":  string(campaign.Status),
			"changed_by":  actor.UserID,
		}); err != nil {
			return entities.Campaign{}, err
		}
	}

	logger.Info("campaign updated",
		"event", "campaign_updated",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"status_changed", statusChanged,
	)
	return campaign, nil
}
