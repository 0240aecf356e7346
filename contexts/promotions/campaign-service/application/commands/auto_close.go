package commands

import (
	"context"
	"log/slog"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/domain/entities"
	"rally/contexts/promotions/campaign-service/ports"
)

// AutoCloseUseCase force-closes active campaigns whose end date has passed.
// Failures are isolated per campaign: a broken row is logged, left active
// for the next sweep, and never aborts the batch.
type AutoCloseUseCase struct {
	Campaigns   ports.CampaignRepository
	Outbox      ports.OutboxWriter
	Clock       ports.Clock
	IDGenerator ports.IDGenerator
	BatchSize   int
	Logger      *slog.Logger
}

func (uc AutoCloseUseCase) Execute(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(uc.Logger)
	now := uc.Clock.Now().UTC()

	limit := uc.BatchSize
	if limit <= 0 {
		limit = 100
	}

	expired, err := uc.Campaigns.ListExpiredActive(ctx, now, limit)
	if err != nil {
		return 0, err
	}

	closed := 0
	for _, campaignID := range expired {
		if _, err := performClose(ctx, uc.Campaigns, uc.Outbox, uc.IDGenerator, campaignID, entities.EndReasonDateReached, now); err != nil {
			logger.Error("auto close failed for campaign",
				"event", "campaign_auto_close_failed",
				"module", "promotions/campaign-service",
				"layer", "application",
				"campaign_id", campaignID,
				"error", err.Error(),
			)
			continue
		}
		closed++
	}
	return closed, nil
}
