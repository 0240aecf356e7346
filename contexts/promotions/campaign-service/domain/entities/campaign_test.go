package entities

import (
	"testing"
	"time"
)

func TestNormalizePlatformAliases(t *testing.T) {
	cases := map[string]string{
		"tiktok":    PlatformTikTok,
		"tt":        PlatformTikTok,
		"TikTok":    PlatformTikTok,
		"instagram": PlatformInstagram,
		"ig":        PlatformInstagram,
		"insta":     PlatformInstagram,
		"youtube":   PlatformYouTube,
		"YT":        PlatformYouTube,
		"twitter":   PlatformTwitter,
		"x":         PlatformTwitter,
		"  x  ":     PlatformTwitter,
	}
	for raw, want := range cases {
		got, ok := NormalizePlatform(raw)
		if !ok {
			t.Fatalf("NormalizePlatform(%q) unexpectedly rejected", raw)
		}
		if got != want {
			t.Fatalf("NormalizePlatform(%q) = %q, want %q", raw, got, want)
		}
	}

	if _, ok := NormalizePlatform("myspace"); ok {
		t.Fatalf("expected myspace to be rejected")
	}
}

func TestNormalizePlatformsDedupes(t *testing.T) {
	got, ok := NormalizePlatforms([]string{"tt", "tiktok", "ig", "insta", "yt"})
	if !ok {
		t.Fatalf("unexpected rejection")
	}
	want := []string{PlatformTikTok, PlatformInstagram, PlatformYouTube}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}

	if _, ok := NormalizePlatforms([]string{"tiktok", "vine"}); ok {
		t.Fatalf("expected list with unknown platform to be rejected")
	}
}

func TestPlatformFeeRoundsHalfUp(t *testing.T) {
	cases := []struct {
		budget int64
		fee    int64
	}{
		{0, 0},
		{-100, 0},
		{100, 10},
		{101, 10},
		{104, 10},
		{105, 11},
		{109, 11},
		{999, 100},
		{100000, 10000},
	}
	for _, tc := range cases {
		if got := PlatformFeeFor(tc.budget); got != tc.fee {
			t.Fatalf("PlatformFeeFor(%d) = %d, want %d", tc.budget, got, tc.fee)
		}
	}
}

func TestValidStatusTransitionIsForwardOnly(t *testing.T) {
	allowed := map[[2]CampaignStatus]bool{
		{CampaignStatusDraft, CampaignStatusActive}: true,
		{CampaignStatusDraft, CampaignStatusEnded}:  true,
		{CampaignStatusActive, CampaignStatusEnded}: true,
	}
	statuses := []CampaignStatus{CampaignStatusDraft, CampaignStatusActive, CampaignStatusEnded}
	for _, from := range statuses {
		for _, to := range statuses {
			want := allowed[[2]CampaignStatus{from, to}]
			if got := ValidStatusTransition(from, to); got != want {
				t.Fatalf("ValidStatusTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestPastEndDate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	past := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	active := Campaign{Status: CampaignStatusActive, EndDate: &past}
	if !active.PastEndDate(now) {
		t.Fatalf("active campaign past its end date should report expired")
	}

	notYet := Campaign{Status: CampaignStatusActive, EndDate: &future}
	if notYet.PastEndDate(now) {
		t.Fatalf("campaign before its end date should not report expired")
	}

	openEnded := Campaign{Status: CampaignStatusActive}
	if openEnded.PastEndDate(now) {
		t.Fatalf("campaign without an end date never expires")
	}

	draft := Campaign{Status: CampaignStatusDraft, EndDate: &past}
	if draft.PastEndDate(now) {
		t.Fatalf("draft campaign should not report expired")
	}
}

func TestParticipantAdmitted(t *testing.T) {
	cases := map[ParticipantRole]bool{
		RoleCreator: false,
		RoleAdmin:   true,
		RoleMember:  true,
		RolePending: false,
	}
	for role, want := range cases {
		p := Participant{Role: role}
		if got := p.Admitted(); got != want {
			t.Fatalf("Admitted() for role %s = %v, want %v", role, got, want)
		}
	}
}
