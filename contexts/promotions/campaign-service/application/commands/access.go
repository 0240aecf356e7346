package commands

import (
	"context"
	"errors"
	"strings"

	"rally/contexts/promotions/campaign-service/domain/entities"
	domainerrors "rally/contexts/promotions/campaign-service/domain/errors"
	"rally/contexts/promotions/campaign-service/domain/services"
	"rally/contexts/promotions/campaign-service/ports"
)

// Actor is the verified caller identity handed in by the transport layer.
type Actor struct {
	UserID string
	Staff  bool
}

func (a Actor) normalized() Actor {
	return Actor{UserID: strings.TrimSpace(a.UserID), Staff: a.Staff}
}

// actorRole resolves the actor's role on a campaign; absence of a
// participant row yields the empty role.
func actorRole(
	ctx context.Context,
	participants ports.ParticipantRepository,
	campaignID string,
	actor Actor,
) (entities.ParticipantRole, error) {
	participant, err := participants.GetParticipant(ctx, campaignID, actor.UserID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrParticipantNotFound) {
			return "", nil
		}
		return "", err
	}
	return participant.Role, nil
}

// authorize runs the permission table for one action, loading the actor's
// role and the campaign's permission overrides (defaults when absent).
func authorize(
	ctx context.Context,
	participants ports.ParticipantRepository,
	permissions ports.PermissionsRepository,
	campaignID string,
	actor Actor,
	action services.Action,
) error {
	if actor.Staff {
		return nil
	}
	if actor.UserID == "" {
		return domainerrors.ErrForbidden
	}
	role, err := actorRole(ctx, participants, campaignID, actor)
	if err != nil {
		return err
	}
	perms := entities.DefaultPermissions(campaignID)
	if permissions != nil {
		stored, found, err := permissions.GetPermissions(ctx, campaignID)
		if err != nil {
			return err
		}
		if found {
			perms = stored
		}
	}
	if !services.Allowed(role, actor.Staff, perms, action) {
		return domainerrors.ErrForbidden
	}
	return nil
}
