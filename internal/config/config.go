package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const PROD_STRING = "prod"

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv      string `envconfig:"APP_ENV" default:"dev"`
	ProdOrigins string `envconfig:"PROD_ORIGINS"`
	HTTPAddr    string `envconfig:"HTTP_ADDR" default:":8080"`

	StorageDriver string        `envconfig:"STORAGE_DRIVER" default:"postgres"`
	DBDSN         string        `envconfig:"DB_DSN"`
	DBMigrate     bool          `envconfig:"DB_MIGRATE" default:"false"`
	SeedSites     bool          `envconfig:"SEED_SITES" default:"false"`
	LockTimeout   time.Duration `envconfig:"LOCK_TIMEOUT" default:"5s"`
	Timezone      string        `envconfig:"TIMEZONE" default:"Asia/Seoul"`

	AdminJWTSecret string        `envconfig:"ADMIN_JWT_SECRET" required:"true"`
	AdminTokenTTL  time.Duration `envconfig:"ADMIN_TOKEN_TTL" default:"12h"`

	// Optional integrations; left empty they are disabled.
	AMQPURL      string `envconfig:"AMQP_URL"`
	AMQPExchange string `envconfig:"AMQP_EXCHANGE" default:"reservations"`
	OTLPEndpoint string `envconfig:"OTEL_EXPORTER_OTLP_ENDPOINT"`

	// Resolved from Timezone by Load.
	Location *time.Location `ignored:"true"`
}

func (c *Config) IsProduction() bool {
	return c.AppEnv == PROD_STRING
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageDriver {
	case StoragePostgres:
		// Database DSN is required
		if c.DBDSN == "" {
			return fmt.Errorf("DB_DSN is required when STORAGE_DRIVER=%s", StoragePostgres)
		}
	case StorageMemory:
	default:
		return fmt.Errorf("STORAGE_DRIVER must be %q or %q, got %q", StoragePostgres, StorageMemory, c.StorageDriver)
	}

	// envconfig accepts a variable that is set but empty.
	if c.AdminJWTSecret == "" {
		return fmt.Errorf("ADMIN_JWT_SECRET is required")
	}

	// Postgres reads lock_timeout = 0 as no limit.
	if c.LockTimeout < time.Millisecond {
		return fmt.Errorf("LOCK_TIMEOUT must be at least 1ms, got %s", c.LockTimeout)
	}

	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return fmt.Errorf("invalid TIMEZONE: %w", err)
	}
	c.Location = loc
	return nil
}
