package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

type GetQuestionsUseCase struct {
	Campaigns ports.CampaignRepository
	Waitlist  ports.WaitlistRepository
	Logger    *slog.Logger
}

func (uc GetQuestionsUseCase) Execute(ctx context.Context, campaignID string) ([]entities.WaitlistQuestion, error) {
	campaignID = strings.TrimSpace(campaignID)
	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return uc.Waitlist.ListQuestions(ctx, campaignID)
}

type ListResponsesQuery struct {
	CampaignID   string
	ActorUserID  string
	ActorStaff   bool
	StatusFilter string
}

type ListResponsesUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Waitlist     ports.WaitlistRepository
	Logger       *slog.Logger
}

func (uc ListResponsesUseCase) Execute(ctx context.Context, query ListResponsesQuery) ([]entities.WaitlistResponse, error) {
	campaignID := strings.TrimSpace(query.CampaignID)
	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	if err := uc.authorizeReview(ctx, campaignID, strings.TrimSpace(query.ActorUserID), query.ActorStaff); err != nil {
		return nil, err
	}
	return uc.Waitlist.ListResponses(ctx, campaignID, entities.ResponseStatus(strings.TrimSpace(query.StatusFilter)))
}

func (uc ListResponsesUseCase) authorizeReview(ctx context.Context, campaignID string, userID string, staff bool) error {
	if staff {
		return nil
	}
	if userID == "" {
		return domainerrors.ErrForbidden
	}
	role := entities.ParticipantRole("")
	participant, err := uc.Participants.GetParticipant(ctx, campaignID, userID)
	if err == nil {
		role = participant.Role
	} else if !errors.Is(err, domainerrors.ErrParticipantNotFound) {
		return err
	}
	perms := entities.DefaultPermissions(campaignID)
	stored, found, err := uc.Permissions.GetPermissions(ctx, campaignID)
	if err != nil {
		return err
	}
	if found {
		perms = stored
	}
	if !services.Allowed(role, staff, perms, services.ActionReviewClips) {
		return domainerrors.ErrForbidden
	}
	return nil
}
