package entities

// CampaignPermissions holds per-campaign override flags controlling which
// admin-gated actions the campaign's admins may perform. The creator and
// staff are never subject to these flags.
type CampaignPermissions struct {
	CampaignID              string
	AdminsCanEditCampaign   bool
	AdminsCanDeleteCampaign bool
	AdminsCanManageTeam     bool
	AdminsCanAddBudget      bool
	AdminsCanReviewClips    bool
}

// DefaultPermissions applies when no permissions record exists for a
// campaign: admins may review clips and manage the team, nothing else.
func DefaultPermissions(campaignID string) CampaignPermissions {
	return CampaignPermissions{
		CampaignID:           campaignID,
		AdminsCanManageTeam:  true,
		AdminsCanReviewClips: true,
	}
}
