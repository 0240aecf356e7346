// Package bootstrap is the composition root: configuration, storage, bus,
// and module wiring for the api and worker processes live here.
package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	campaignservice "rally/contexts/promotions/campaign-service"
	postgresadapter "rally/contexts/promotions/campaign-service/adapters/postgres"
	workerapp "rally/contexts/promotions/campaign-service/application/workers"
	"rally/internal/platform/config"
	"rally/internal/platform/db"
	"rally/internal/platform/httpserver"
	"rally/internal/platform/messaging"
)

type APIApp struct {
	server   *httpserver.Server
	postgres *db.Postgres
	logger   *slog.Logger
}

type WorkerApp struct {
	postgres     *db.Postgres
	outboxRelay  workerapp.OutboxRelay
	clipEvents   workerapp.ClipEventsConsumer
	autoCloser   workerapp.AutoCloser
	relayEnabled bool
	clipsEnabled bool
	closeEnabled bool
	pollInterval time.Duration
	logger       *slog.Logger
}

func BuildAPI(ctx context.Context) (*APIApp, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "api")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:      repo,
		Participants:   repo,
		Waitlist:       repo,
		Bans:           repo,
		Permissions:    repo,
		Prizes:         repo,
		Invites:        repo,
		Idempotency:    repo,
		Outbox:         repo,
		Clock:          postgresadapter.SystemClock{},
		IDGenerator:    postgresadapter.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		AutoCloseBatch: cfg.Worker.AutoCloseBatch,
		Logger:         logger,
	})

	server := httpserver.New(module, logger, normalizeAddr(cfg.HTTPPort))
	return &APIApp{
		server:   server,
		postgres: pg,
		logger:   logger,
	}, nil
}

func BuildWorker(ctx context.Context) (*WorkerApp, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("service", cfg.ServiceName, "process", "worker")
	if strings.TrimSpace(cfg.PostgresDSN) == "" {
		return nil, errors.New("POSTGRES_DSN is required")
	}

	pg, err := db.Connect(cfg.PostgresDSN, logger)
	if err != nil {
		return nil, err
	}

	kafka, err := messaging.NewKafka(cfg.KafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	repo := postgresadapter.NewRepository(pg.DB, logger)
	module := campaignservice.NewModule(campaignservice.Dependencies{
		Campaigns:      repo,
		Participants:   repo,
		Waitlist:       repo,
		Bans:           repo,
		Permissions:    repo,
		Prizes:         repo,
		Invites:        repo,
		Idempotency:    repo,
		Outbox:         repo,
		Clock:          postgresadapter.SystemClock{},
		IDGenerator:    postgresadapter.UUIDGenerator{},
		IdempotencyTTL: 7 * 24 * time.Hour,
		AutoCloseBatch: cfg.Worker.AutoCloseBatch,
		Logger:         logger,
	})

	return &WorkerApp{
		postgres: pg,
		outboxRelay: workerapp.OutboxRelay{
			Outbox:    repo,
			Publisher: kafka,
			Clock:     postgresadapter.SystemClock{},
			BatchSize: cfg.Worker.OutboxBatchSize,
			Logger:    logger,
		},
		clipEvents: workerapp.ClipEventsConsumer{
			Subscriber:    kafka,
			Counters:      repo,
			Dedup:         repo,
			Clock:         postgresadapter.SystemClock{},
			ConsumerGroup: cfg.Worker.ConsumerGroup,
			DedupTTL:      cfg.Worker.DedupTTL,
			Logger:        logger,
		},
		autoCloser:   module.AutoCloser,
		relayEnabled: cfg.EnableOutboxRelay,
		clipsEnabled: cfg.EnableClipConsumer,
		closeEnabled: cfg.EnableAutoClose,
		pollInterval: cfg.Worker.PollInterval,
		logger:       logger,
	}, nil
}

func (a *APIApp) Run(_ context.Context) error {
	if a.logger != nil {
		a.logger.Info("api app started",
			"event", "bootstrap_api_started",
			"module", "internal/app/bootstrap",
			"layer", "platform",
		)
	}
	return a.server.Start()
}

func (a *APIApp) Close() error {
	if a.postgres != nil {
		return a.postgres.Close()
	}
	return nil
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.clipsEnabled {
		if err := w.clipEvents.Start(ctx); err != nil {
			return err
		}
	}

	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"poll_interval", w.pollInterval.String(),
	)

	// Transient cycle failures are logged inside RunOnce; the loop keeps
	// ticking and retries on the next interval.
	for {
		if w.closeEnabled {
			_ = w.autoCloser.RunOnce(ctx)
		}
		if w.relayEnabled {
			_ = w.outboxRelay.RunOnce(ctx)
		}
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func (w *WorkerApp) Close() error {
	if w.postgres != nil {
		return w.postgres.Close()
	}
	return nil
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.HasPrefix(value, ":") {
		return value
	}
	return ":" + value
}
