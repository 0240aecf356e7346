package entities

import "time"

type ResponseStatus string

const (
	ResponseStatusPending  ResponseStatus = "pending"
	ResponseStatusApproved ResponseStatus = "approved"
	ResponseStatusRejected ResponseStatus = "rejected"
)

type WaitlistQuestion struct {
	QuestionID string
	CampaignID string
	Text       string
	Order      int
}

type WaitlistResponse struct {
	CampaignID  string
	UserID      string
	Answers     map[string]string
	Status      ResponseStatus
	ReviewedBy  string
	ReviewedAt  *time.Time
	Note        string
	SubmittedAt time.Time
}
