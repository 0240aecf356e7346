package entities

import "time"

type ParticipantRole string
type JoinMethod string
type LeaveReason string

const (
	RoleCreator ParticipantRole = "creator"
	RoleAdmin   ParticipantRole = "admin"
	RoleMember  ParticipantRole = "member"
	RolePending ParticipantRole = "pending"

	JoinMethodDirect   JoinMethod = "direct"
	JoinMethodWaitlist JoinMethod = "waitlist"

	LeaveReasonKicked LeaveReason = "kicked"
	LeaveReasonBanned LeaveReason = "banned"
)

type Participant struct {
	CampaignID string
	UserID     string
	Role       ParticipantRole
	JoinedAt   time.Time
	UpdatedAt  time.Time
}

// Admitted reports whether the participant consumes an editor slot.
// The creator holds no slot; pending applicants hold none until approved.
func (p Participant) Admitted() bool {
	return p.Role == RoleAdmin || p.Role == RoleMember
}

func IsAssignableRole(role ParticipantRole) bool {
	return role == RoleAdmin || role == RoleMember
}

type CampaignBan struct {
	CampaignID string
	UserID     string
	BannedBy   string
	Reason     string
	CreatedAt  time.Time
}
