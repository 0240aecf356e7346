package config

import (
	"context"
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/sethvargo/go-envconfig"
)

// Config is centralized process configuration.
// Keep infra values here and pass typed config into builders.
type Config struct {
	ServiceName string `env:"SERVICE_NAME,default=rally"`
	HTTPPort    string `env:"HTTP_PORT,default=8080"`
	PostgresDSN string `env:"POSTGRES_DSN"`

	KafkaBrokers []string `env:"KAFKA_BROKERS,default=localhost:9092"`

	Worker WorkerConfig `env:",prefix=WORKER_"`

	EnableAutoClose    bool `env:"ENABLE_AUTO_CLOSE,default=true"`
	EnableClipConsumer bool `env:"ENABLE_CLIP_CONSUMER,default=true"`
	EnableOutboxRelay  bool `env:"ENABLE_OUTBOX_RELAY,default=true"`
}

type WorkerConfig struct {
	PollInterval    time.Duration `env:"POLL_INTERVAL,default=5s"`
	OutboxBatchSize int           `env:"OUTBOX_BATCH_SIZE,default=100"`
	AutoCloseBatch  int           `env:"AUTO_CLOSE_BATCH,default=100"`
	ConsumerGroup   string        `env:"CONSUMER_GROUP,default=campaign-service"`
	DedupTTL        time.Duration `env:"DEDUP_TTL,default=168h"`
}

// Load reads configuration from the environment. A local .env file is
// applied first when present; missing files are not an error.
func Load(ctx context.Context) (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process(ctx, &cfg); err != nil {
		return Config{}, fmt.Errorf("process environment config: %w", err)
	}
	return cfg, nil
}
