// Package db owns the Postgres handle shared by the campaign adapters.
// Campaign rows, participant rows, idempotency records and the outbox all
// live in one database so conditional writes and outbox inserts can share
// a transaction.
package db

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	connectTimeout  = 5 * time.Second
	maxOpenConns    = 25
	maxIdleConns    = 5
	connMaxLifetime = 30 * time.Minute
)

// Postgres carries the gorm handle handed to the campaign store, the
// idempotency store and the outbox relay.
type Postgres struct {
	DB     *gorm.DB
	logger *slog.Logger
}

// Connect opens the campaign database and verifies it is reachable before
// any adapter gets the handle. Pool limits are sized for the campaign
// service's short conditional-write transactions.
func Connect(dsn string, logger *slog.Logger) (*Postgres, error) {
	if dsn == "" {
		return nil, errors.New("postgres dsn is required")
	}
	if logger == nil {
		logger = slog.Default()
	}

	gdb, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("open campaign database: %w", err)
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("resolve campaign database handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(maxOpenConns)
	sqlDB.SetMaxIdleConns(maxIdleConns)
	sqlDB.SetConnMaxLifetime(connMaxLifetime)

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping campaign database: %w", err)
	}

	logger.Info("campaign database connected",
		"event", "postgres_connected",
		"module", "internal/platform/db",
		"layer", "platform",
		"max_open_conns", maxOpenConns,
	)
	return &Postgres{DB: gdb, logger: logger}, nil
}

// Close releases the underlying pool. Safe on a nil receiver so shutdown
// paths do not need to guard the in-memory wiring.
func (p *Postgres) Close() error {
	if p == nil || p.DB == nil {
		return nil
	}
	sqlDB, err := p.DB.DB()
	if err != nil {
		return err
	}
	if p.logger != nil {
		p.logger.Info("campaign database closed",
			"event", "postgres_closed",
			"module", "internal/platform/db",
			"layer", "platform",
		)
	}
	return sqlDB.Close()
}
