package workers

import (
	"context"
	"log/slog"

	application "rally/contexts/promotions/campaign-service/application"
	"rally/contexts/promotions/campaign-service/application/commands"
	"rally/internal/platform/metrics"
)

// AutoCloser periodically force-closes active campaigns past their end date.
type AutoCloser struct {
	Close  commands.AutoCloseUseCase
	Logger *slog.Logger
}

func (j AutoCloser) RunOnce(ctx context.Context) error {
	logger := application.ResolveLogger(j.Logger)
	closed, err := j.Close.Execute(ctx)
	if err != nil {
		logger.Error("auto close sweep failed",
			"event", "campaign_auto_close_sweep_failed",
			"module", "promotions/campaign-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return err
	}
	if closed > 0 {
		metrics.CampaignsAutoClosed.Add(float64(closed))
		logger.Info("auto close sweep completed",
			"event", "campaign_auto_close_sweep_completed",
			"module", "promotions/campaign-service",
			"layer", "worker",
			"closed_count", closed,
		)
	}
	return nil
}
