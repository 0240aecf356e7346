package entities

import (
	"strings"
	"time"
)

type CampaignStatus string
type CampaignType string
type EndReason string

const (
	CampaignStatusDraft  CampaignStatus = "draft"
	CampaignStatusActive CampaignStatus = "active"
	CampaignStatusEnded  CampaignStatus = "ended"

	CampaignTypeAutoJoin CampaignType = "auto_join"
	CampaignTypeWaitlist CampaignType = "waitlist"

	EndReasonManual      EndReason = "manual"
	EndReasonDateReached EndReason = "date_reached"
)

type Campaign struct {
	CampaignID        string
	CreatedBy         string
	StudioID          string
	Title             string
	Description       string
	Status            CampaignStatus
	CampaignType      CampaignType
	Platforms         []string
	EditorSlots       int
	TotalBudget       int64
	PlatformFee       int64
	RemainingBudget   int64
	SpentBudget       int64
	IsFunded          bool
	ApprovedClips     int
	PendingClips      int
	RejectedClips     int
	TotalViews        int64
	EnableLeaderboard bool
	IsPrivate         bool
	StartDate         *time.Time
	EndDate           *time.Time
	ArchivedAt        *time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (c Campaign) IsActive() bool {
	return c.Status == CampaignStatusActive
}

func (c Campaign) TotalClips() int {
	return c.ApprovedClips + c.PendingClips + c.RejectedClips
}

// PastEndDate reports whether an active campaign crossed its end date.
func (c Campaign) PastEndDate(now time.Time) bool {
	return c.Status == CampaignStatusActive && c.EndDate != nil && c.EndDate.UTC().Before(now.UTC())
}

// PlatformFeeFor is the service cut charged at funding time: 10% of the
// gross budget, rounded half-up on integer minor units.
func PlatformFeeFor(totalBudget int64) int64 {
	if totalBudget <= 0 {
		return 0
	}
	return (totalBudget + 5) / 10
}

// ValidStatusTransition permits only the forward path draft->active->ended.
func ValidStatusTransition(from, to CampaignStatus) bool {
	switch from {
	case CampaignStatusDraft:
		return to == CampaignStatusActive || to == CampaignStatusEnded
	case CampaignStatusActive:
		return to == CampaignStatusEnded
	default:
		return false
	}
}

func IsSupportedCampaignType(value CampaignType) bool {
	switch value {
	case CampaignTypeAutoJoin, CampaignTypeWaitlist:
		return true
	default:
		return false
	}
}

const (
	PlatformTikTok    = "tiktok"
	PlatformInstagram = "instagram"
	PlatformYouTube   = "youtube"
	PlatformTwitter   = "twitter"
)

var platformAliases = map[string]string{
	"tiktok":    PlatformTikTok,
	"tt":        PlatformTikTok,
	"instagram": PlatformInstagram,
	"ig":        PlatformInstagram,
	"insta":     PlatformInstagram,
	"youtube":   PlatformYouTube,
	"yt":        PlatformYouTube,
	"twitter":   PlatformTwitter,
	"x":         PlatformTwitter,
}

// NormalizePlatform resolves a raw platform string to its canonical name.
func NormalizePlatform(value string) (string, bool) {
	canonical, ok := platformAliases[strings.ToLower(strings.TrimSpace(value))]
	return canonical, ok
}

// NormalizePlatforms canonicalizes and dedupes a platform list, failing on
// the first unrecognized entry.
func NormalizePlatforms(values []string) ([]string, bool) {
	result := make([]string, 0, len(values))
	seen := make(map[string]bool, len(values))
	for _, value := range values {
		canonical, ok := NormalizePlatform(value)
		if !ok {
			return nil, false
		}
		if seen[canonical] {
			continue
		}
		seen[canonical] = true
		result = append(result, canonical)
	}
	return result, true
}

type PrizeDistribution struct {
	CampaignID string
	Position   int
	Reward     int64
	Label      string
}

type CampaignInvite struct {
	CampaignID string
	UserID     string
	CreatedAt  time.Time
}
