package commands

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

type BanParticipantCommand struct {
	CampaignID   string
	TargetUserID string
	Reason       string
}

type BanParticipantUseCase struct {
	Campaigns    ports.CampaignRepository
	Participants ports.ParticipantRepository
	Permissions  ports.PermissionsRepository
	Waitlist     ports.WaitlistRepository
	Bans         ports.BanRepository
	Outbox       ports.OutboxWriter
	Clock        ports.Clock
	IDGenerator  ports.IDGenerator
	Logger       *slog.Logger
}

func (uc BanParticipantUseCase) Execute(ctx context.Context, cmd BanParticipantCommand, actor Actor) error {
	logger := application.ResolveLogger(uc.Logger)
	actor = actor.normalized()
	campaignID := strings.TrimSpace(cmd.CampaignID)
	targetID := strings.TrimSpace(cmd.TargetUserID)

	if _, err := uc.Campaigns.GetCampaign(ctx, campaignID); err != nil {
		return err
	}
	if err := authorize(ctx, uc.Participants, uc.Permissions, campaignID, actor, services.ActionManageTeam); err != nil {
		return err
	}
	if targetID == actor.UserID {
		return domainerrors.ErrSelfTarget
	}
	if target, err := uc.Participants.GetParticipant(ctx, campaignID, targetID); err == nil {
		if target.Role == entities.RoleCreator {
			return domainerrors.ErrCreatorImmutable
		}
	} else if !errors.Is(err, domainerrors.ErrParticipantNotFound) {
		return err
	}

	now := uc.Clock.Now().UTC()
	if err := uc.Bans.AddBan(ctx, entities.CampaignBan{
		CampaignID: campaignID,
		UserID:     targetID,
		BannedBy:   actor.UserID,
		Reason:     strings.TrimSpace(cmd.Reason),
		CreatedAt:  now,
	}); err != nil {
		return err
	}

	// The target may never have held a participant row; that is fine.
	if err := uc.Participants.RemoveParticipant(ctx, campaignID, targetID); err != nil &&
		!errors.Is(err, domainerrors.ErrParticipantNotFound) {
		return err
	}
	if err := uc.Waitlist.RejectPendingResponse(ctx, campaignID, targetID, actor.UserID, now); err != nil {
		return err
	}

	if err := appendEvent(ctx, uc.Outbox, uc.IDGenerator, EventParticipantLeft, campaignID, now, map[string]any{
		"campaign_id": campaignID,
		"user_id":     targetID,
		"reason":      string(entities.LeaveReasonBanned),
	}); err != nil {
		return err
	}

	logger.Info("participant banned",
		"event", "campaign_participant_banned",
		"module", "promotions/campaign-service",
		"layer", "application",
		"campaign_id", campaignID,
		"user_id", targetID,
		"banned_by", actor.UserID,
	)
	return nil
}
