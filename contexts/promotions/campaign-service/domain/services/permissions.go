package services

import "rally/contexts/promotions/campaign-service/domain/entities"

// Action is a privileged operation gated by the permission table below.
type Action string

const (
	ActionEditCampaign   Action = "edit_campaign"
	ActionDeleteCampaign Action = "delete_campaign"
	ActionAddBudget      Action = "add_budget"
	ActionManageTeam     Action = "manage_team"
	ActionReviewClips    Action = "review_clips"
	ActionCloseCampaign  Action = "close_campaign"
	ActionFundCampaign   Action = "fund_campaign"
	ActionManageRoles    Action = "manage_roles"
	ActionSetQuestions   Action = "set_questions"
	ActionSetPermissions Action = "set_permissions"
)

// adminOverrides maps each admin-gated action to the campaign permission
// flag that grants or denies it for admins. Actions absent from this map
// are creator-only (staff aside).
var adminOverrides = map[Action]func(entities.CampaignPermissions) bool{
	ActionEditCampaign:   func(p entities.CampaignPermissions) bool { return p.AdminsCanEditCampaign },
	ActionDeleteCampaign: func(p entities.CampaignPermissions) bool { return p.AdminsCanDeleteCampaign },
	ActionAddBudget:      func(p entities.CampaignPermissions) bool { return p.AdminsCanAddBudget },
	ActionManageTeam:     func(p entities.CampaignPermissions) bool { return p.AdminsCanManageTeam },
	ActionReviewClips:    func(p entities.CampaignPermissions) bool { return p.AdminsCanReviewClips },
}

// Allowed decides whether the actor may perform action on a campaign.
// Staff bypasses every role check. The creator is allowed everything and is
// never subject to the per-campaign override flags. Admins are allowed the
// override-gated actions according to the campaign's permission flags;
// members and pending applicants are allowed nothing here.
func Allowed(
	role entities.ParticipantRole,
	staff bool,
	perms entities.CampaignPermissions,
	action Action,
) bool {
	if staff {
		return true
	}
	if role == entities.RoleCreator {
		return true
	}
	if role != entities.RoleAdmin {
		return false
	}
	selector, ok := adminOverrides[action]
	if !ok {
		return false
	}
	return selector(perms)
}
