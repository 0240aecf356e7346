package campaignservice

import (
	"context"
	"errors"
	"testing"

	"rally/contexts/promotions/campaign-service/application/commands"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	httptransport "rally/contexts/promotions/campaign-service/transport/http"
)

type Actor = commands.Actor

var (
	creator = Actor{UserID: "creator-1"}
	staff   = Actor{UserID: "ops-1", Staff: true}
)

func mustCreate(t *testing.T, module Module, key string, req httptransport.CreateCampaignRequest) httptransport.CampaignDTO {
	t.Helper()
	resp, err := module.Handler.CreateCampaignHandler(context.Background(), creator, key, req)
	if err != nil {
		t.Fatalf("create campaign failed: %v", err)
	}
	return resp.Campaign
}

func mustActivate(t *testing.T, module Module, campaignID string) {
	t.Helper()
	status := "active"
	_, err := module.Handler.UpdateCampaignHandler(context.Background(), creator, campaignID, httptransport.UpdateCampaignRequest{
		Status: &status,
	})
	if err != nil {
		t.Fatalf("activate campaign failed: %v", err)
	}
}

func TestCreateCampaignDefaultsAndCreatorSeat(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()

	campaign := mustCreate(t, module, "key-1", httptransport.CreateCampaignRequest{
		Title:       "Spring clip drive",
		Platforms:   []string{"tt", "yt"},
		TotalBudget: 50000,
	})

	if campaign.Status != "draft" {
		t.Fatalf("status = %s, want draft", campaign.Status)
	}
	if campaign.CampaignType != "auto_join" {
		t.Fatalf("campaign_type = %s, want auto_join", campaign.CampaignType)
	}
	if campaign.EditorSlots != 10 {
		t.Fatalf("editor_slots = %d, want default 10", campaign.EditorSlots)
	}
	if campaign.CreatedBy != creator.UserID {
		t.Fatalf("created_by = %s, want %s", campaign.CreatedBy, creator.UserID)
	}

	team, err := module.Handler.ListTeamHandler(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("list team failed: %v", err)
	}
	if len(team.Items) != 1 || team.Items[0].UserID != creator.UserID || team.Items[0].Role != "creator" {
		t.Fatalf("team = %+v, want single creator row", team.Items)
	}
}

func TestCreateCampaignIdempotencyReplay(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	req := httptransport.CreateCampaignRequest{Title: "Replay test", TotalBudget: 1000}

	first, err := module.Handler.CreateCampaignHandler(ctx, creator, "key-replay", req)
	if err != nil {
		t.Fatalf("first create failed: %v", err)
	}
	if first.Replayed {
		t.Fatalf("first create should not be a replay")
	}

	second, err := module.Handler.CreateCampaignHandler(ctx, creator, "key-replay", req)
	if err != nil {
		t.Fatalf("second create failed: %v", err)
	}
	if !second.Replayed {
		t.Fatalf("second create with same key should replay")
	}
	if second.Campaign.CampaignID != first.Campaign.CampaignID {
		t.Fatalf("replay returned a different campaign: %s vs %s",
			second.Campaign.CampaignID, first.Campaign.CampaignID)
	}

	_, err = module.Handler.CreateCampaignHandler(ctx, creator, "", req)
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyRequired) {
		t.Fatalf("missing key: got %v, want ErrIdempotencyKeyRequired", err)
	}
}

func TestCreateCampaignKeyReuseWithDifferentPrizes(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	req := httptransport.CreateCampaignRequest{
		Title:             "Prize pool",
		TotalBudget:       5000,
		EnableLeaderboard: true,
		LeaderboardRanks: []httptransport.PrizeRankDTO{
			{Reward: 3000, Label: "gold"},
			{Reward: 2000, Label: "silver"},
		},
	}

	if _, err := module.Handler.CreateCampaignHandler(ctx, creator, "key-prizes", req); err != nil {
		t.Fatalf("first create failed: %v", err)
	}

	req.LeaderboardRanks = []httptransport.PrizeRankDTO{
		{Reward: 4000, Label: "gold"},
		{Reward: 1000, Label: "silver"},
	}
	_, err := module.Handler.CreateCampaignHandler(ctx, creator, "key-prizes", req)
	if !errors.Is(err, domainerrors.ErrIdempotencyKeyConflict) {
		t.Fatalf("reused key with different prizes: got %v, want ErrIdempotencyKeyConflict", err)
	}
}

func TestFundCampaignTakesTenPercentOnce(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-fund", httptransport.CreateCampaignRequest{
		Title:       "Funded drive",
		TotalBudget: 100000,
	})

	resp, err := module.Handler.FundCampaignHandler(ctx, creator, campaign.CampaignID)
	if err != nil {
		t.Fatalf("fund failed: %v", err)
	}
	if resp.PlatformFee != 10000 {
		t.Fatalf("platform_fee = %d, want 10000", resp.PlatformFee)
	}
	if resp.RemainingBudget != 90000 {
		t.Fatalf("remaining_budget = %d, want 90000", resp.RemainingBudget)
	}

	_, err = module.Handler.FundCampaignHandler(ctx, creator, campaign.CampaignID)
	if !errors.Is(err, domainerrors.ErrAlreadyFunded) {
		t.Fatalf("second fund: got %v, want ErrAlreadyFunded", err)
	}

	other := mustCreate(t, module, "key-fund-2", httptransport.CreateCampaignRequest{
		Title:       "Someone else's drive",
		TotalBudget: 1000,
	})
	_, err = module.Handler.FundCampaignHandler(ctx, Actor{UserID: "stranger"}, other.CampaignID)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("stranger fund: got %v, want ErrForbidden", err)
	}
	if _, err := module.Handler.FundCampaignHandler(ctx, staff, other.CampaignID); err != nil {
		t.Fatalf("staff fund failed: %v", err)
	}
}

func TestCloseCampaignIsFinal(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-close", httptransport.CreateCampaignRequest{Title: "Closing"})
	mustActivate(t, module, campaign.CampaignID)

	_, err := module.Handler.CloseCampaignHandler(ctx, Actor{UserID: "stranger"}, campaign.CampaignID)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("stranger close: got %v, want ErrForbidden", err)
	}

	closed, err := module.Handler.CloseCampaignHandler(ctx, creator, campaign.CampaignID)
	if err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if closed.Campaign.Status != "ended" {
		t.Fatalf("status = %s, want ended", closed.Campaign.Status)
	}
	if closed.Campaign.ArchivedAt == "" {
		t.Fatalf("archived_at should be stamped")
	}

	_, err = module.Handler.CloseCampaignHandler(ctx, creator, campaign.CampaignID)
	if !errors.Is(err, domainerrors.ErrAlreadyEnded) {
		t.Fatalf("second close: got %v, want ErrAlreadyEnded", err)
	}
}

func TestAutoJoinCapacity(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	slots := 2
	campaign := mustCreate(t, module, "key-join", httptransport.CreateCampaignRequest{
		Title:       "Two seats",
		EditorSlots: &slots,
	})

	_, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "early"}, campaign.CampaignID, httptransport.JoinCampaignRequest{})
	if !errors.Is(err, domainerrors.ErrCampaignNotActive) {
		t.Fatalf("join draft: got %v, want ErrCampaignNotActive", err)
	}

	mustActivate(t, module, campaign.CampaignID)

	for _, userID := range []string{"u1", "u2"} {
		resp, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: userID}, campaign.CampaignID, httptransport.JoinCampaignRequest{})
		if err != nil {
			t.Fatalf("join %s failed: %v", userID, err)
		}
		if resp.Role != "member" || resp.JoinMethod != "direct" {
			t.Fatalf("join %s = %+v, want direct member", userID, resp)
		}
	}

	_, err = module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "u3"}, campaign.CampaignID, httptransport.JoinCampaignRequest{})
	if !errors.Is(err, domainerrors.ErrCampaignFull) {
		t.Fatalf("join past capacity: got %v, want ErrCampaignFull", err)
	}

	_, err = module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "u1"}, campaign.CampaignID, httptransport.JoinCampaignRequest{})
	if !errors.Is(err, domainerrors.ErrAlreadyParticipant) {
		t.Fatalf("repeat join: got %v, want ErrAlreadyParticipant", err)
	}
}

func TestZeroSlotCampaignAdmitsNobody(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-zero", httptransport.CreateCampaignRequest{Title: "Closed shop"})
	mustActivate(t, module, campaign.CampaignID)

	zero := 0
	if _, err := module.Handler.UpdateCampaignHandler(ctx, creator, campaign.CampaignID, httptransport.UpdateCampaignRequest{
		EditorSlots: &zero,
	}); err != nil {
		t.Fatalf("shrink slots to zero failed: %v", err)
	}

	_, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "u1"}, campaign.CampaignID, httptransport.JoinCampaignRequest{})
	if !errors.Is(err, domainerrors.ErrCampaignFull) {
		t.Fatalf("join zero-slot campaign: got %v, want ErrCampaignFull", err)
	}
}

func TestBannedUserCannotJoin(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-ban", httptransport.CreateCampaignRequest{Title: "No trolls"})
	mustActivate(t, module, campaign.CampaignID)

	err := module.Handler.BanParticipantHandler(ctx, creator, campaign.CampaignID, httptransport.BanParticipantRequest{
		UserID: "troll",
		Reason: "spam",
	})
	if err != nil {
		t.Fatalf("ban failed: %v", err)
	}

	_, err = module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "troll"}, campaign.CampaignID, httptransport.JoinCampaignRequest{})
	if !errors.Is(err, domainerrors.ErrUserBanned) {
		t.Fatalf("banned join: got %v, want ErrUserBanned", err)
	}
}

func TestBanEvictsParticipantAndRejectsApplication(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-ban-2", httptransport.CreateCampaignRequest{
		Title:        "Waitlisted",
		CampaignType: "waitlist",
	})
	mustActivate(t, module, campaign.CampaignID)

	_, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "applicant"}, campaign.CampaignID, httptransport.JoinCampaignRequest{
		Answers: map[string]string{"q1": "pick me"},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}

	err = module.Handler.BanParticipantHandler(ctx, creator, campaign.CampaignID, httptransport.BanParticipantRequest{
		UserID: "applicant",
	})
	if err != nil {
		t.Fatalf("ban failed: %v", err)
	}

	team, err := module.Handler.ListTeamHandler(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("list team failed: %v", err)
	}
	for _, item := range team.Items {
		if item.UserID == "applicant" {
			t.Fatalf("banned applicant still on the team: %+v", item)
		}
	}

	responses, err := module.Handler.ListResponsesHandler(ctx, creator, campaign.CampaignID, "rejected")
	if err != nil {
		t.Fatalf("list responses failed: %v", err)
	}
	if len(responses.Items) != 1 || responses.Items[0].UserID != "applicant" {
		t.Fatalf("responses = %+v, want rejected applicant row", responses.Items)
	}

	err = module.Handler.BanParticipantHandler(ctx, creator, campaign.CampaignID, httptransport.BanParticipantRequest{
		UserID: creator.UserID,
	})
	if !errors.Is(err, domainerrors.ErrSelfTarget) {
		t.Fatalf("self ban: got %v, want ErrSelfTarget", err)
	}
}

func TestWaitlistApplicationAndApproval(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	slots := 1
	campaign := mustCreate(t, module, "key-wait", httptransport.CreateCampaignRequest{
		Title:        "Curated drive",
		CampaignType: "waitlist",
		EditorSlots:  &slots,
	})

	questions, err := module.Handler.SetQuestionsHandler(ctx, creator, campaign.CampaignID, httptransport.SetQuestionsRequest{
		Questions: []httptransport.QuestionDTO{
			{Text: "Why you?"},
			{Text: "Portfolio link?"},
		},
	})
	if err != nil {
		t.Fatalf("set questions failed: %v", err)
	}
	if len(questions.Items) != 2 || questions.Items[0].Order != 1 || questions.Items[1].Order != 2 {
		t.Fatalf("questions = %+v, want orders defaulted to 1,2", questions.Items)
	}

	mustActivate(t, module, campaign.CampaignID)

	joined, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "editor-1"}, campaign.CampaignID, httptransport.JoinCampaignRequest{
		Answers: map[string]string{"q1": "I edit fast"},
	})
	if err != nil {
		t.Fatalf("apply failed: %v", err)
	}
	if joined.Role != "pending" || joined.JoinMethod != "waitlist" {
		t.Fatalf("apply = %+v, want pending via waitlist", joined)
	}

	pending, err := module.Handler.ListResponsesHandler(ctx, creator, campaign.CampaignID, "pending")
	if err != nil {
		t.Fatalf("list responses failed: %v", err)
	}
	if len(pending.Items) != 1 || pending.Items[0].Answers["q1"] != "I edit fast" {
		t.Fatalf("responses = %+v, want stored answers", pending.Items)
	}

	reviewed, err := module.Handler.ReviewResponseHandler(ctx, creator, campaign.CampaignID, "editor-1", httptransport.ReviewResponseRequest{
		Decision: "approved",
		Note:     "solid reel",
	})
	if err != nil {
		t.Fatalf("review failed: %v", err)
	}
	if reviewed.Status != "approved" || reviewed.ReviewedBy != creator.UserID {
		t.Fatalf("reviewed = %+v, want approved by creator", reviewed)
	}

	// Review alone does not grant a seat.
	team, err := module.Handler.ListTeamHandler(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("list team failed: %v", err)
	}
	for _, item := range team.Items {
		if item.UserID == "editor-1" && item.Role != "pending" {
			t.Fatalf("review should not promote: %+v", item)
		}
	}

	if err := module.Handler.ApproveParticipantHandler(ctx, creator, campaign.CampaignID, "editor-1"); err != nil {
		t.Fatalf("approve failed: %v", err)
	}
	team, err = module.Handler.ListTeamHandler(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("second list team failed: %v", err)
	}
	found := false
	for _, item := range team.Items {
		if item.UserID == "editor-1" {
			found = true
			if item.Role != "member" {
				t.Fatalf("role after approval = %s, want member", item.Role)
			}
		}
	}
	if !found {
		t.Fatalf("approved editor missing from team: %+v", team.Items)
	}

	// The single slot is now taken; the next approval must fail.
	if _, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "editor-2"}, campaign.CampaignID, httptransport.JoinCampaignRequest{}); err != nil {
		t.Fatalf("second apply failed: %v", err)
	}
	err = module.Handler.ApproveParticipantHandler(ctx, creator, campaign.CampaignID, "editor-2")
	if !errors.Is(err, domainerrors.ErrCampaignFull) {
		t.Fatalf("approve past capacity: got %v, want ErrCampaignFull", err)
	}
}

func TestManageTeamRoles(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-team", httptransport.CreateCampaignRequest{Title: "Team ops"})
	mustActivate(t, module, campaign.CampaignID)

	if _, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "u1"}, campaign.CampaignID, httptransport.JoinCampaignRequest{}); err != nil {
		t.Fatalf("join failed: %v", err)
	}

	err := module.Handler.ManageTeamHandler(ctx, creator, campaign.CampaignID, httptransport.ManageTeamRequest{
		UserID: "u1",
		Action: "promote",
	})
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	team, _ := module.Handler.ListTeamHandler(ctx, campaign.CampaignID)
	for _, item := range team.Items {
		if item.UserID == "u1" && item.Role != "admin" {
			t.Fatalf("role after promote = %s, want admin", item.Role)
		}
	}

	err = module.Handler.ManageTeamHandler(ctx, creator, campaign.CampaignID, httptransport.ManageTeamRequest{
		UserID: "u1",
		Action: "demote",
	})
	if err != nil {
		t.Fatalf("demote failed: %v", err)
	}

	err = module.Handler.ManageTeamHandler(ctx, creator, campaign.CampaignID, httptransport.ManageTeamRequest{
		UserID: creator.UserID,
		Action: "promote",
	})
	if !errors.Is(err, domainerrors.ErrCreatorImmutable) {
		t.Fatalf("promote creator: got %v, want ErrCreatorImmutable", err)
	}

	err = module.Handler.ManageTeamHandler(ctx, creator, campaign.CampaignID, httptransport.ManageTeamRequest{
		UserID: creator.UserID,
		Action: "remove",
	})
	if !errors.Is(err, domainerrors.ErrSelfTarget) {
		t.Fatalf("remove self: got %v, want ErrSelfTarget", err)
	}

	err = module.Handler.ManageTeamHandler(ctx, creator, campaign.CampaignID, httptransport.ManageTeamRequest{
		UserID: "u1",
		Action: "remove",
	})
	if err != nil {
		t.Fatalf("remove failed: %v", err)
	}
	team, _ = module.Handler.ListTeamHandler(ctx, campaign.CampaignID)
	for _, item := range team.Items {
		if item.UserID == "u1" {
			t.Fatalf("removed user still on team: %+v", item)
		}
	}
}

func TestAdminPermissionOverrides(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-perms", httptransport.CreateCampaignRequest{Title: "Override test"})
	mustActivate(t, module, campaign.CampaignID)

	if _, err := module.Handler.JoinCampaignHandler(ctx, Actor{UserID: "admin-1"}, campaign.CampaignID, httptransport.JoinCampaignRequest{}); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	err := module.Handler.ManageTeamHandler(ctx, creator, campaign.CampaignID, httptransport.ManageTeamRequest{
		UserID: "admin-1",
		Action: "promote",
	})
	if err != nil {
		t.Fatalf("promote failed: %v", err)
	}
	admin := Actor{UserID: "admin-1"}

	// Defaults: admins manage the team but do not edit the campaign.
	err = module.Handler.BanParticipantHandler(ctx, admin, campaign.CampaignID, httptransport.BanParticipantRequest{UserID: "troll"})
	if err != nil {
		t.Fatalf("admin ban under defaults failed: %v", err)
	}
	title := "renamed"
	_, err = module.Handler.UpdateCampaignHandler(ctx, admin, campaign.CampaignID, httptransport.UpdateCampaignRequest{Title: &title})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("admin edit under defaults: got %v, want ErrForbidden", err)
	}

	// Only the creator may rewrite the override table.
	err = module.Handler.SetPermissionsHandler(ctx, admin, campaign.CampaignID, httptransport.SetPermissionsRequest{})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("admin set permissions: got %v, want ErrForbidden", err)
	}

	err = module.Handler.SetPermissionsHandler(ctx, creator, campaign.CampaignID, httptransport.SetPermissionsRequest{
		AdminsCanEditCampaign: true,
		AdminsCanManageTeam:   false,
		AdminsCanReviewClips:  true,
	})
	if err != nil {
		t.Fatalf("set permissions failed: %v", err)
	}

	_, err = module.Handler.UpdateCampaignHandler(ctx, admin, campaign.CampaignID, httptransport.UpdateCampaignRequest{Title: &title})
	if err != nil {
		t.Fatalf("admin edit with flag on failed: %v", err)
	}
	err = module.Handler.BanParticipantHandler(ctx, admin, campaign.CampaignID, httptransport.BanParticipantRequest{UserID: "troll-2"})
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("admin ban with flag off: got %v, want ErrForbidden", err)
	}
}

func TestUpdateCampaignValidation(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-update", httptransport.CreateCampaignRequest{Title: "Patch me"})

	empty := "   "
	_, err := module.Handler.UpdateCampaignHandler(ctx, creator, campaign.CampaignID, httptransport.UpdateCampaignRequest{Title: &empty})
	if !errors.Is(err, domainerrors.ErrInvalidCampaignInput) {
		t.Fatalf("blank title: got %v, want ErrInvalidCampaignInput", err)
	}

	bad := []string{"tiktok", "vine"}
	_, err = module.Handler.UpdateCampaignHandler(ctx, creator, campaign.CampaignID, httptransport.UpdateCampaignRequest{Platforms: &bad})
	if !errors.Is(err, domainerrors.ErrInvalidPlatform) {
		t.Fatalf("unknown platform: got %v, want ErrInvalidPlatform", err)
	}

	mustActivate(t, module, campaign.CampaignID)
	back := "draft"
	_, err = module.Handler.UpdateCampaignHandler(ctx, creator, campaign.CampaignID, httptransport.UpdateCampaignRequest{Status: &back})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("active->draft: got %v, want ErrInvalidTransition", err)
	}

	ended := "ended"
	if _, err := module.Handler.UpdateCampaignHandler(ctx, creator, campaign.CampaignID, httptransport.UpdateCampaignRequest{Status: &ended}); err != nil {
		t.Fatalf("end via patch failed: %v", err)
	}
	reopen := "active"
	_, err = module.Handler.UpdateCampaignHandler(ctx, creator, campaign.CampaignID, httptransport.UpdateCampaignRequest{Status: &reopen})
	if !errors.Is(err, domainerrors.ErrInvalidTransition) {
		t.Fatalf("reopen ended: got %v, want ErrInvalidTransition", err)
	}
}

func TestStatsAndLeaderboard(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-stats", httptransport.CreateCampaignRequest{
		Title:             "Ranked drive",
		TotalBudget:       1000,
		EnableLeaderboard: true,
		LeaderboardRanks: []httptransport.PrizeRankDTO{
			{Reward: 500, Label: "1st"},
			{Reward: 300, Label: "2nd"},
		},
	})

	stats, err := module.Handler.GetStatsHandler(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	if stats.TotalClips != 0 || stats.TotalBudget != 1000 || stats.IsFunded {
		t.Fatalf("stats = %+v, want zeroed counters on unfunded campaign", stats)
	}

	board, err := module.Handler.GetLeaderboardHandler(ctx, campaign.CampaignID)
	if err != nil {
		t.Fatalf("leaderboard failed: %v", err)
	}
	if !board.Enabled || len(board.Prizes) != 2 {
		t.Fatalf("leaderboard = %+v, want two prizes", board)
	}
	if board.Prizes[0].Position != 1 || board.Prizes[1].Position != 2 {
		t.Fatalf("prize positions = %+v, want 1,2", board.Prizes)
	}
}

func TestDeleteCampaign(t *testing.T) {
	module := NewInMemoryModule(nil, nil)
	ctx := context.Background()
	campaign := mustCreate(t, module, "key-delete", httptransport.CreateCampaignRequest{Title: "Short lived"})

	err := module.Handler.DeleteCampaignHandler(ctx, Actor{UserID: "stranger"}, campaign.CampaignID)
	if !errors.Is(err, domainerrors.ErrForbidden) {
		t.Fatalf("stranger delete: got %v, want ErrForbidden", err)
	}
	if err := module.Handler.DeleteCampaignHandler(ctx, creator, campaign.CampaignID); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, err = module.Handler.GetCampaignHandler(ctx, campaign.CampaignID)
	if !errors.Is(err, domainerrors.ErrCampaignNotFound) {
		t.Fatalf("get after delete: got %v, want ErrCampaignNotFound", err)
	}
}
