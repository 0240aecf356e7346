package httpadapter

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"rally/contexts/promotions/campaign-service/application/commands"
	"rally/contexts/promotions/campaign-service/application/queries"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	httptransport "rally/contexts/promotions/campaign-service/transport/http"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

type Handler struct {
	CreateCampaign     commands.CreateCampaignUseCase
	UpdateCampaign     commands.UpdateCampaignUseCase
	FundCampaign       commands.FundCampaignUseCase
	CloseCampaign      commands.CloseCampaignUseCase
	DeleteCampaign     commands.DeleteCampaignUseCase
	JoinCampaign       commands.JoinCampaignUseCase
	ApproveParticipant commands.ApproveParticipantUseCase
	RemoveParticipant  commands.RemoveParticipantUseCase
	BanParticipant     commands.BanParticipantUseCase
	ManageTeam         commands.ManageTeamUseCase
	SetQuestions       commands.SetQuestionsUseCase
	ReviewResponse     commands.ReviewResponseUseCase
	SetPermissions     commands.SetPermissionsUseCase
	GetCampaign        queries.GetCampaignUseCase
	ListCampaigns      queries.ListCampaignsUseCase
	ListTeam           queries.ListTeamUseCase
	GetQuestions       queries.GetQuestionsUseCase
	ListResponses      queries.ListResponsesUseCase
	GetStats           queries.GetStatsUseCase
	GetLeaderboard     queries.GetLeaderboardUseCase
	GetPermissions     queries.GetPermissionsUseCase
	Logger             *slog.Logger
}

type Actor = commands.Actor

func (h Handler) CreateCampaignHandler(
	ctx context.Context,
	actor Actor,
	idempotencyKey string,
	req httptransport.CreateCampaignRequest,
) (httptransport.CreateCampaignResponse, error) {
	if err := validate.Struct(req); err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	startDate, err := parseOptionalDate(req.StartDate)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	endDate, err := parseOptionalDate(req.EndDate)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}

	ranks := make([]commands.PrizeRankInput, 0, len(req.LeaderboardRanks))
	for _, rank := range req.LeaderboardRanks {
		ranks = append(ranks, commands.PrizeRankInput{Reward: rank.Reward, Label: rank.Label})
	}

	result, err := h.CreateCampaign.Execute(ctx, commands.CreateCampaignCommand{
		IdempotencyKey:    idempotencyKey,
		Title:             req.Title,
		Description:       req.Description,
		StudioID:          req.StudioID,
		CampaignType:      req.CampaignType,
		Platforms:         append([]string(nil), req.Platforms...),
		EditorSlots:       req.EditorSlots,
		TotalBudget:       req.TotalBudget,
		EnableLeaderboard: req.EnableLeaderboard,
		LeaderboardRanks:  ranks,
		IsPrivate:         req.IsPrivate,
		InvitedUsers:      append([]string(nil), req.InvitedUsers...),
		StartDate:         startDate,
		EndDate:           endDate,
	}, actor)
	if err != nil {
		return httptransport.CreateCampaignResponse{}, err
	}
	return httptransport.CreateCampaignResponse{
		Campaign: mapCampaign(result.Campaign),
		Replayed: result.Replayed,
	}, nil
}

func (h Handler) GetCampaignHandler(ctx context.Context, campaignID string) (httptransport.GetCampaignResponse, error) {
	item, err := h.GetCampaign.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) ListCampaignsHandler(ctx context.Context, createdBy string, status string) (httptransport.ListCampaignsResponse, error) {
	items, err := h.ListCampaigns.Execute(ctx, queries.ListCampaignsQuery{
		CreatedBy: createdBy,
		Status:    status,
	})
	if err != nil {
		return httptransport.ListCampaignsResponse{}, err
	}
	result := make([]httptransport.CampaignDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapCampaign(item))
	}
	return httptransport.ListCampaignsResponse{Items: result}, nil
}

func (h Handler) UpdateCampaignHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	req httptransport.UpdateCampaignRequest,
) (httptransport.GetCampaignResponse, error) {
	startDate, err := parseOptionalDatePtr(req.StartDate)
	if err != nil {
		return httptransport.GetCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}
	endDate, err := parseOptionalDatePtr(req.EndDate)
	if err != nil {
		return httptransport.GetCampaignResponse{}, domainerrors.ErrInvalidCampaignInput
	}

	var ranks *[]commands.PrizeRankInput
	if req.LeaderboardRanks != nil {
		mapped := make([]commands.PrizeRankInput, 0, len(*req.LeaderboardRanks))
		for _, rank := range *req.LeaderboardRanks {
			mapped = append(mapped, commands.PrizeRankInput{Reward: rank.Reward, Label: rank.Label})
		}
		ranks = &mapped
	}

	item, err := h.UpdateCampaign.Execute(ctx, commands.UpdateCampaignCommand{
		CampaignID:        campaignID,
		Title:             req.Title,
		Description:       req.Description,
		Status:            req.Status,
		Platforms:         req.Platforms,
		EditorSlots:       req.EditorSlots,
		EnableLeaderboard: req.EnableLeaderboard,
		IsPrivate:         req.IsPrivate,
		StartDate:         startDate,
		EndDate:           endDate,
		LeaderboardRanks:  ranks,
	}, actor)
	if err != nil {
		return httptransport.GetCampaignResponse{}, err
	}
	return httptransport.GetCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) DeleteCampaignHandler(ctx context.Context, actor Actor, campaignID string) error {
	return h.DeleteCampaign.Execute(ctx, commands.DeleteCampaignCommand{CampaignID: campaignID}, actor)
}

func (h Handler) FundCampaignHandler(ctx context.Context, actor Actor, campaignID string) (httptransport.FundCampaignResponse, error) {
	result, err := h.FundCampaign.Execute(ctx, commands.FundCampaignCommand{CampaignID: campaignID}, actor)
	if err != nil {
		return httptransport.FundCampaignResponse{}, err
	}
	return httptransport.FundCampaignResponse{
		CampaignID:      strings.TrimSpace(campaignID),
		PlatformFee:     result.PlatformFee,
		RemainingBudget: result.RemainingBudget,
	}, nil
}

func (h Handler) CloseCampaignHandler(ctx context.Context, actor Actor, campaignID string) (httptransport.CloseCampaignResponse, error) {
	item, err := h.CloseCampaign.Execute(ctx, commands.CloseCampaignCommand{CampaignID: campaignID}, actor)
	if err != nil {
		return httptransport.CloseCampaignResponse{}, err
	}
	return httptransport.CloseCampaignResponse{Campaign: mapCampaign(item)}, nil
}

func (h Handler) JoinCampaignHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	req httptransport.JoinCampaignRequest,
) (httptransport.JoinCampaignResponse, error) {
	result, err := h.JoinCampaign.Execute(ctx, commands.JoinCampaignCommand{
		CampaignID: campaignID,
		Answers:    req.Answers,
	}, actor)
	if err != nil {
		return httptransport.JoinCampaignResponse{}, err
	}
	return httptransport.JoinCampaignResponse{
		CampaignID: strings.TrimSpace(campaignID),
		Role:       string(result.Role),
		JoinMethod: string(result.JoinMethod),
	}, nil
}

func (h Handler) ListTeamHandler(ctx context.Context, campaignID string) (httptransport.ListTeamResponse, error) {
	items, err := h.ListTeam.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.ListTeamResponse{}, err
	}
	result := make([]httptransport.ParticipantDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.ParticipantDTO{
			CampaignID: item.CampaignID,
			UserID:     item.UserID,
			Role:       string(item.Role),
			JoinedAt:   item.JoinedAt.UTC().Format(time.RFC3339),
		})
	}
	return httptransport.ListTeamResponse{Items: result}, nil
}

func (h Handler) ManageTeamHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	req httptransport.ManageTeamRequest,
) error {
	if err := validate.Struct(req); err != nil {
		return domainerrors.ErrInvalidCampaignInput
	}
	return h.ManageTeam.Execute(ctx, commands.ManageTeamCommand{
		CampaignID:   campaignID,
		TargetUserID: req.UserID,
		Action:       commands.TeamAction(req.Action),
	}, actor)
}

func (h Handler) ApproveParticipantHandler(ctx context.Context, actor Actor, campaignID string, userID string) error {
	return h.ApproveParticipant.Execute(ctx, commands.ApproveParticipantCommand{
		CampaignID:   campaignID,
		TargetUserID: userID,
	}, actor)
}

func (h Handler) RemoveParticipantHandler(ctx context.Context, actor Actor, campaignID string, userID string) error {
	return h.RemoveParticipant.Execute(ctx, commands.RemoveParticipantCommand{
		CampaignID:   campaignID,
		TargetUserID: userID,
	}, actor)
}

func (h Handler) BanParticipantHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	req httptransport.BanParticipantRequest,
) error {
	if err := validate.Struct(req); err != nil {
		return domainerrors.ErrInvalidCampaignInput
	}
	return h.BanParticipant.Execute(ctx, commands.BanParticipantCommand{
		CampaignID:   campaignID,
		TargetUserID: req.UserID,
		Reason:       req.Reason,
	}, actor)
}

func (h Handler) SetQuestionsHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	req httptransport.SetQuestionsRequest,
) (httptransport.QuestionsResponse, error) {
	inputs := make([]commands.QuestionInput, 0, len(req.Questions))
	for _, question := range req.Questions {
		inputs = append(inputs, commands.QuestionInput{Text: question.Text, Order: question.Order})
	}
	items, err := h.SetQuestions.Execute(ctx, commands.SetQuestionsCommand{
		CampaignID: campaignID,
		Questions:  inputs,
	}, actor)
	if err != nil {
		return httptransport.QuestionsResponse{}, err
	}
	return httptransport.QuestionsResponse{Items: mapQuestions(items)}, nil
}

func (h Handler) GetQuestionsHandler(ctx context.Context, campaignID string) (httptransport.QuestionsResponse, error) {
	items, err := h.GetQuestions.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.QuestionsResponse{}, err
	}
	return httptransport.QuestionsResponse{Items: mapQuestions(items)}, nil
}

func (h Handler) ListResponsesHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	status string,
) (httptransport.ListResponsesResponse, error) {
	items, err := h.ListResponses.Execute(ctx, queries.ListResponsesQuery{
		CampaignID:   campaignID,
		ActorUserID:  actor.UserID,
		ActorStaff:   actor.Staff,
		StatusFilter: status,
	})
	if err != nil {
		return httptransport.ListResponsesResponse{}, err
	}
	result := make([]httptransport.WaitlistResponseDTO, 0, len(items))
	for _, item := range items {
		result = append(result, mapResponse(item))
	}
	return httptransport.ListResponsesResponse{Items: result}, nil
}

func (h Handler) ReviewResponseHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	userID string,
	req httptransport.ReviewResponseRequest,
) (httptransport.WaitlistResponseDTO, error) {
	if err := validate.Struct(req); err != nil {
		return httptransport.WaitlistResponseDTO{}, domainerrors.ErrInvalidCampaignInput
	}
	item, err := h.ReviewResponse.Execute(ctx, commands.ReviewResponseCommand{
		CampaignID:   campaignID,
		TargetUserID: userID,
		Decision:     entities.ResponseStatus(req.Decision),
		Note:         req.Note,
	}, actor)
	if err != nil {
		return httptransport.WaitlistResponseDTO{}, err
	}
	return mapResponse(item), nil
}

func (h Handler) SetPermissionsHandler(
	ctx context.Context,
	actor Actor,
	campaignID string,
	req httptransport.SetPermissionsRequest,
) error {
	return h.SetPermissions.Execute(ctx, commands.SetPermissionsCommand{
		CampaignID:              campaignID,
		AdminsCanEditCampaign:   req.AdminsCanEditCampaign,
		AdminsCanDeleteCampaign: req.AdminsCanDeleteCampaign,
		AdminsCanManageTeam:     req.AdminsCanManageTeam,
		AdminsCanAddBudget:      req.AdminsCanAddBudget,
		AdminsCanReviewClips:    req.AdminsCanReviewClips,
	}, actor)
}

func (h Handler) GetPermissionsHandler(ctx context.Context, campaignID string) (httptransport.PermissionsDTO, error) {
	perms, err := h.GetPermissions.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.PermissionsDTO{}, err
	}
	return httptransport.PermissionsDTO{
		CampaignID:              perms.CampaignID,
		AdminsCanEditCampaign:   perms.AdminsCanEditCampaign,
		AdminsCanDeleteCampaign: perms.AdminsCanDeleteCampaign,
		AdminsCanManageTeam:     perms.AdminsCanManageTeam,
		AdminsCanAddBudget:      perms.AdminsCanAddBudget,
		AdminsCanReviewClips:    perms.AdminsCanReviewClips,
	}, nil
}

func (h Handler) GetStatsHandler(ctx context.Context, campaignID string) (httptransport.StatsResponse, error) {
	stats, err := h.GetStats.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.StatsResponse{}, err
	}
	return httptransport.StatsResponse{
		CampaignID:      stats.CampaignID,
		Status:          string(stats.Status),
		ApprovedClips:   stats.ApprovedClips,
		PendingClips:    stats.PendingClips,
		RejectedClips:   stats.RejectedClips,
		TotalClips:      stats.TotalClips,
		TotalViews:      stats.TotalViews,
		TotalBudget:     stats.TotalBudget,
		RemainingBudget: stats.RemainingBudget,
		SpentBudget:     stats.SpentBudget,
		IsFunded:        stats.IsFunded,
	}, nil
}

func (h Handler) GetLeaderboardHandler(ctx context.Context, campaignID string) (httptransport.LeaderboardResponse, error) {
	view, err := h.GetLeaderboard.Execute(ctx, campaignID)
	if err != nil {
		return httptransport.LeaderboardResponse{}, err
	}
	prizes := make([]httptransport.PrizeRankDTO, 0, len(view.Prizes))
	for _, prize := range view.Prizes {
		prizes = append(prizes, httptransport.PrizeRankDTO{
			Position: prize.Position,
			Reward:   prize.Reward,
			Label:    prize.Label,
		})
	}
	return httptransport.LeaderboardResponse{
		CampaignID: view.CampaignID,
		Enabled:    view.Enabled,
		Prizes:     prizes,
	}, nil
}

func mapCampaign(item entities.Campaign) httptransport.CampaignDTO {
	return httptransport.CampaignDTO{
		CampaignID:        item.CampaignID,
		CreatedBy:         item.CreatedBy,
		StudioID:          item.StudioID,
		Title:             item.Title,
		Description:       item.Description,
		Status:            string(item.Status),
		CampaignType:      string(item.CampaignType),
		Platforms:         append([]string(nil), item.Platforms...),
		EditorSlots:       item.EditorSlots,
		TotalBudget:       item.TotalBudget,
		PlatformFee:       item.PlatformFee,
		RemainingBudget:   item.RemainingBudget,
		SpentBudget:       item.SpentBudget,
		IsFunded:          item.IsFunded,
		ApprovedClips:     item.ApprovedClips,
		PendingClips:      item.PendingClips,
		RejectedClips:     item.RejectedClips,
		TotalViews:        item.TotalViews,
		EnableLeaderboard: item.EnableLeaderboard,
		IsPrivate:         item.IsPrivate,
		StartDate:         formatOptionalDate(item.StartDate),
		EndDate:           formatOptionalDate(item.EndDate),
		ArchivedAt:        formatOptionalDate(item.ArchivedAt),
		CreatedAt:         item.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:         item.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func mapQuestions(items []entities.WaitlistQuestion) []httptransport.QuestionDTO {
	result := make([]httptransport.QuestionDTO, 0, len(items))
	for _, item := range items {
		result = append(result, httptransport.QuestionDTO{
			QuestionID: item.QuestionID,
			Text:       item.Text,
			Order:      item.Order,
		})
	}
	return result
}

func mapResponse(item entities.WaitlistResponse) httptransport.WaitlistResponseDTO {
	return httptransport.WaitlistResponseDTO{
		CampaignID:  item.CampaignID,
		UserID:      item.UserID,
		Answers:     item.Answers,
		Status:      string(item.Status),
		ReviewedBy:  item.ReviewedBy,
		ReviewedAt:  formatOptionalDate(item.ReviewedAt),
		Note:        item.Note,
		SubmittedAt: item.SubmittedAt.UTC().Format(time.RFC3339),
	}
}

func parseOptionalDate(value string) (*time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return nil, err
	}
	utc := parsed.UTC()
	return &utc, nil
}

func parseOptionalDatePtr(value *string) (*time.Time, error) {
	if value == nil {
		return nil, nil
	}
	return parseOptionalDate(*value)
}

func formatOptionalDate(value *time.Time) string {
	if value == nil {
		return ""
	}
	return value.UTC().Format(time.RFC3339)
}
