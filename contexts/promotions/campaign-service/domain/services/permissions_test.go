package services

import (
	"testing"

	"rally/contexts/promotions/campaign-service/domain/entities"
)

func TestStaffBypassesEveryCheck(t *testing.T) {
	perms := entities.CampaignPermissions{}
	actions := []Action{
		ActionEditCampaign, ActionDeleteCampaign, ActionAddBudget,
		ActionManageTeam, ActionReviewClips, ActionCloseCampaign,
		ActionFundCampaign, ActionManageRoles, ActionSetQuestions,
		ActionSetPermissions,
	}
	for _, action := range actions {
		if !Allowed("", true, perms, action) {
			t.Fatalf("staff should be allowed %s", action)
		}
	}
}

func TestCreatorIgnoresOverrideFlags(t *testing.T) {
	// All override flags off; the creator is still allowed everything.
	perms := entities.CampaignPermissions{}
	actions := []Action{
		ActionEditCampaign, ActionDeleteCampaign, ActionAddBudget,
		ActionManageTeam, ActionReviewClips, ActionManageRoles,
		ActionSetQuestions, ActionSetPermissions,
	}
	for _, action := range actions {
		if !Allowed(entities.RoleCreator, false, perms, action) {
			t.Fatalf("creator should be allowed %s", action)
		}
	}
}

func TestAdminFollowsOverrideFlags(t *testing.T) {
	defaults := entities.DefaultPermissions("c1")

	if !Allowed(entities.RoleAdmin, false, defaults, ActionManageTeam) {
		t.Fatalf("default permissions should let admins manage the team")
	}
	if !Allowed(entities.RoleAdmin, false, defaults, ActionReviewClips) {
		t.Fatalf("default permissions should let admins review clips")
	}
	if Allowed(entities.RoleAdmin, false, defaults, ActionEditCampaign) {
		t.Fatalf("default permissions should not let admins edit the campaign")
	}
	if Allowed(entities.RoleAdmin, false, defaults, ActionDeleteCampaign) {
		t.Fatalf("default permissions should not let admins delete the campaign")
	}

	opened := defaults
	opened.AdminsCanEditCampaign = true
	if !Allowed(entities.RoleAdmin, false, opened, ActionEditCampaign) {
		t.Fatalf("edit flag on should let admins edit the campaign")
	}

	locked := defaults
	locked.AdminsCanManageTeam = false
	if Allowed(entities.RoleAdmin, false, locked, ActionManageTeam) {
		t.Fatalf("manage-team flag off should block admins")
	}
}

func TestAdminNeverGetsCreatorOnlyActions(t *testing.T) {
	perms := entities.CampaignPermissions{
		AdminsCanEditCampaign:   true,
		AdminsCanDeleteCampaign: true,
		AdminsCanManageTeam:     true,
		AdminsCanAddBudget:      true,
		AdminsCanReviewClips:    true,
	}
	creatorOnly := []Action{
		ActionCloseCampaign, ActionFundCampaign, ActionManageRoles,
		ActionSetQuestions, ActionSetPermissions,
	}
	for _, action := range creatorOnly {
		if Allowed(entities.RoleAdmin, false, perms, action) {
			t.Fatalf("admin should never be allowed %s", action)
		}
	}
}

func TestMembersAndOutsidersAreDenied(t *testing.T) {
	perms := entities.DefaultPermissions("c1")
	for _, role := range []entities.ParticipantRole{entities.RoleMember, entities.RolePending, ""} {
		if Allowed(role, false, perms, ActionManageTeam) {
			t.Fatalf("role %q should be denied manage team", role)
		}
		if Allowed(role, false, perms, ActionReviewClips) {
			t.Fatalf("role %q should be denied review clips", role)
		}
	}
}
