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

type QuestionInput struct {
	Text  string
	Order int
}

type SetQuestionsCommand struct {
	CampaignID string
	Questions  []QuestionInput
}

type SetQuestionsUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Waitlist     ports.WaitlistRepository
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func (uc SetQuestionsUseCase) Execute(ctx context.Context, cmd SetQuestionsCommand, actor Actor) ([]entities.WaitlistQuestion, error) {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)

	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionSetQuestions); err != nil {
		return nil, err
	}

	questions := make([]entities.WaitlistQuestion, 0, len(cmd.Questions))
	for i, input := range cmd.Questions {
		text := strings.TrimSpace(input.Text)
		if text == "" {
			return nil, domainerrors.ErrInvalidCampaignInput
		}
		order := input.Order
		if order <= 0 {
			order = i + 1
		}
		questionID, err := uc.IDGenerator.NewID(ctx)
		if err != nil {
			return nil, err
		}
		questions = append(questions, entities.WaitlistQuestion{
			QuestionID: questionID,
			CampaignID: campaignID,
			Text:       text,
			Order:      order,
		})
	}

	if err := uc.Waitlist.ReplaceQuestions(ctx, campaignID, questions); err != nil {
		return nil, err
	}

	logger.Info("waitlist questions replaced",
		"event", "campaign_waitlist_questions_replaced",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"question_count", len(questions),
	)
	return questions, nil
}
