package internal

import (
	apperrors "chat-hub/errors"
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	StorageBadger   = "badger"
	StoragePostgres = "postgres"
)

type Config struct {
	LogLevel        string        `env:"LOG_LEVEL,default=INFO"`
	Host            string        `env:"HOST,default=0.0.0.0"`
	Port            int           `env:"PORT,default=8080"`
	BasePath        string        `env:"BASE_PATH,default=/api/v1/chats"`
	RestartInterval time.Duration `env:"RESTART_INTERVAL,default=2s"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	JWTSecret       string        `env:"JWT_SECRET"`

	StorageDriver  string `env:"STORAGE_DRIVER,default=badger"`
	BadgerFilepath string `env:"BADGER_FILEPATH,default=./data/badger"`
	BlugeFilepath  string `env:"BLUGE_FILEPATH,default=./data/bluge"`
	DatabaseURL    string `env:"DATABASE_URL"`
	RedisURL       string `env:"REDIS_URL"`
	// InstanceID names this process in shared state, a random id is used when empty
	InstanceID string `env:"INSTANCE_ID"`

	NatsURL       string        `env:"NATS_URL,default=nats://localhost:4222"`
	BusStream     string        `env:"BUS_STREAM,default=HUB_EVENTS"`
	BusConsumer   string        `env:"BUS_CONSUMER,default=chat-hub"`
	BusMaxDeliver int           `env:"BUS_MAX_DELIVER,default=10"`
	BusAckWait    time.Duration `env:"BUS_ACK_WAIT,default=30s"`
	BusMaxAge     time.Duration `env:"BUS_MAX_AGE,default=24h"`
	BusNakDelay   time.Duration `env:"BUS_NAK_DELAY,default=2s"`
	BusWorkers    int           `env:"BUS_WORKERS,default=16"`
	DedupTTL      time.Duration `env:"DEDUP_TTL,default=1h"`

	StreamBufferSize      int           `env:"STREAM_BUFFER_SIZE,default=256"`
	StreamIdleTimeout     time.Duration `env:"STREAM_IDLE_TIMEOUT,default=5m"`
	StreamClosedRetention time.Duration `env:"STREAM_CLOSED_RETENTION,default=10m"`
	StreamReapInterval    time.Duration `env:"STREAM_REAP_INTERVAL,default=30s"`
	StreamLockTTL         time.Duration `env:"STREAM_LOCK_TTL,default=5s"`
	StreamLockWait        time.Duration `env:"STREAM_LOCK_WAIT,default=2s"`

	WSWriteTimeout    time.Duration `env:"WS_WRITE_TIMEOUT,default=10s"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=15s"`
	PresenceLeaseTTL  time.Duration `env:"PRESENCE_LEASE_TTL,default=45s"`
	PresenceRenew     time.Duration `env:"PRESENCE_RENEW_INTERVAL,default=15s"`
	MaxContentLength  int           `env:"MAX_CONTENT_LENGTH,default=4000"`
	CensorCharacter   string        `env:"CENSOR_CHARACTER,default=*"`
	CensoredWords     []string      `env:"CENSORED_WORDS,separator=,"`
}

// Load reads an optional .env file, then the environment.
func Load() (Config, error) {
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	config.StorageDriver = strings.ToLower(config.StorageDriver)
	if config.StorageDriver != StorageBadger && config.StorageDriver != StoragePostgres {
		return Config{}, fmt.Errorf("%w: %q", apperrors.ErrUnknownStorageDriver, config.StorageDriver)
	}
	if config.StorageDriver == StoragePostgres && config.DatabaseURL == "" {
		return Config{}, fmt.Errorf("config error: DATABASE_URL is required with the postgres driver")
	}
	if config.PresenceRenew <= 0 || config.PresenceRenew >= config.PresenceLeaseTTL {
		return Config{}, fmt.Errorf("config error: PRESENCE_RENEW_INTERVAL must be positive and shorter than PRESENCE_LEASE_TTL")
	}
	if config.BusWorkers < 1 {
		return Config{}, fmt.Errorf("config error: BUS_WORKERS must be at least 1, got %d", config.BusWorkers)
	}
	return config, nil
}

func CharacterRune(str string) (rune, error) {
	r := []rune(str)
	if len(r) != 1 {
		return 0, fmt.Errorf("%w: got %q", apperrors.ErrInvalidCensorCharacter, str)
	}
	return r[0], nil
}
