package http

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type PrizeRankDTO struct {
	Position int    `json:"position"`
	Reward   int64  `json:"reward"`
	Label    string `json:"label"`
}

type CreateCampaignRequest struct {
	Title             string         `json:"title" validate:"required,min=1,max=200"`
	Description       string         `json:"description" validate:"max=5000"`
	StudioID          string         `json:"studio_id"`
	CampaignType      string         `json:"campaign_type" validate:"omitempty,oneof=auto_join waitlist"`
	Platforms         []string       `json:"platforms"`
	EditorSlots       *int           `json:"editor_slots" validate:"omitempty,min=1"`
	TotalBudget       int64          `json:"total_budget" validate:"min=0"`
	EnableLeaderboard bool           `json:"enable_leaderboard"`
	LeaderboardRanks  []PrizeRankDTO `json:"leaderboard_ranks"`
	IsPrivate         bool           `json:"is_private"`
	InvitedUsers      []string       `json:"invited_users"`
	StartDate         string         `json:"start_date"`
	EndDate           string         `json:"end_date"`
}

type CreateCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
	Replayed bool        `json:"replayed"`
}

type UpdateCampaignRequest struct {
	Title             *string         `json:"title"`
	Description       *string         `json:"description"`
	Status            *string         `json:"status"`
	Platforms         *[]string       `json:"platforms"`
	EditorSlots       *int            `json:"editor_slots"`
	EnableLeaderboard *bool           `json:"enable_leaderboard"`
	IsPrivate         *bool           `json:"is_private"`
	StartDate         *string         `json:"start_date"`
	EndDate           *string         `json:"end_date"`
	LeaderboardRanks  *[]PrizeRankDTO `json:"leaderboard_ranks"`
}

type FundCampaignResponse struct {
	CampaignID      string `json:"campaign_id"`
	PlatformFee     int64  `json:"platform_fee"`
	RemainingBudget int64  `json:"remaining_budget"`
}

type JoinCampaignRequest struct {
	Answers map[string]string `json:"answers"`
}

type JoinCampaignResponse struct {
	CampaignID string `json:"campaign_id"`
	Role       string `json:"role"`
	JoinMethod string `json:"join_method"`
}

type ManageTeamRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Action string `json:"action" validate:"required,oneof=promote demote remove"`
}

type BanParticipantRequest struct {
	UserID string `json:"user_id" validate:"required"`
	Reason string `json:"reason"`
}

type QuestionDTO struct {
	QuestionID string `json:"question_id,omitempty"`
	Text       string `json:"text"`
	Order      int    `json:"order"`
}

type SetQuestionsRequest struct {
	Questions []QuestionDTO `json:"questions"`
}

type QuestionsResponse struct {
	Items []QuestionDTO `json:"items"`
}

type ReviewResponseRequest struct {
	Decision string `json:"decision" validate:"required,oneof=approved rejected"`
	Note     string `json:"note"`
}

type WaitlistResponseDTO struct {
	CampaignID  string            `json:"campaign_id"`
	UserID      string            `json:"user_id"`
	Answers     map[string]string `json:"answers"`
	Status      string            `json:"status"`
	ReviewedBy  string            `json:"reviewed_by,omitempty"`
	ReviewedAt  string            `json:"reviewed_at,omitempty"`
	Note        string            `json:"note,omitempty"`
	SubmittedAt string            `json:"submitted_at"`
}

type ListResponsesResponse struct {
	Items []WaitlistResponseDTO `json:"items"`
}

type PermissionsDTO struct {
	CampaignID              string `json:"campaign_id"`
	AdminsCanEditCampaign   bool   `json:"admins_can_edit_campaign"`
	AdminsCanDeleteCampaign bool   `json:"admins_can_delete_campaign"`
	AdminsCanManageTeam     bool   `json:"admins_can_manage_team"`
	AdminsCanAddBudget      bool   `json:"admins_can_add_budget"`
	AdminsCanReviewClips    bool   `json:"admins_can_review_clips"`
}

type SetPermissionsRequest struct {
	AdminsCanEditCampaign   bool `json:"admins_can_edit_campaign"`
	AdminsCanDeleteCampaign bool `json:"admins_can_delete_campaign"`
	AdminsCanManageTeam     bool `json:"admins_can_manage_team"`
	AdminsCanAddBudget      bool `json:"admins_can_add_budget"`
	AdminsCanReviewClips    bool `json:"admins_can_review_clips"`
}

type ParticipantDTO struct {
	CampaignID string `json:"campaign_id"`
	UserID     string `json:"user_id"`
	Role       string `json:"role"`
	JoinedAt   string `json:"joined_at"`
}

type ListTeamResponse struct {
	Items []ParticipantDTO `json:"items"`
}

type CampaignDTO struct {
	CampaignID        string   `json:"campaign_id"`
	CreatedBy         string   `json:"created_by"`
	StudioID          string   `json:"studio_id,omitempty"`
	Title             string   `json:"title"`
	Description       string   `json:"description"`
	Status            string   `json:"status"`
	CampaignType      string   `json:"campaign_type"`
	Platforms         []string `json:"platforms"`
	EditorSlots       int      `json:"editor_slots"`
	TotalBudget       int64    `json:"total_budget"`
	PlatformFee       int64    `json:"platform_fee"`
	RemainingBudget   int64    `json:"remaining_budget"`
	SpentBudget       int64    `json:"spent_budget"`
	IsFunded          bool     `json:"is_funded"`
	ApprovedClips     int      `json:"approved_clips"`
	PendingClips      int      `json:"pending_clips"`
	RejectedClips     int      `json:"rejected_clips"`
	TotalViews        int64    `json:"total_views"`
	EnableLeaderboard bool     `json:"enable_leaderboard"`
	IsPrivate         bool     `json:"is_private"`
	StartDate         string   `json:"start_date,omitempty"`
	EndDate           string   `json:"end_date,omitempty"`
	ArchivedAt        string   `json:"archived_at,omitempty"`
	CreatedAt         string   `json:"created_at"`
	UpdatedAt         string   `json:"updated_at"`
}

type GetCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type ListCampaignsResponse struct {
	Items []CampaignDTO `json:"items"`
}

type CloseCampaignResponse struct {
	Campaign CampaignDTO `json:"campaign"`
}

type StatsResponse struct {
	CampaignID      string `json:"campaign_id"`
	Status          string `json:"status"`
	ApprovedClips   int    `json:"approved_clips"`
	PendingClips    int    `json:"pending_clips"`
	RejectedClips   int    `json:"rejected_clips"`
	TotalClips      int    `json:"total_clips"`
	TotalViews      int64  `json:"total_views"`
	TotalBudget     int64  `json:"total_budget"`
	RemainingBudget int64  `json:"remaining_budget"`
	SpentBudget     int64  `json:"spent_budget"`
	IsFunded        bool   `json:"is_funded"`
}

type LeaderboardResponse struct {
	CampaignID string         `json:"campaign_id"`
	Enabled    bool           `json:"enabled"`
	Prizes     []PrizeRankDTO `json:"prizes"`
}
