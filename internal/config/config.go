// Package config reads the configuration of the progression service from the
// environment and builds the components it configures.
package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
	"go.uber.org/zap"
)

// Backend is the event log backend.
type Backend string

const (
	// Memory keeps the event log in memory.
	Memory = Backend("memory")

	// Postgres keeps the event log in a PostgreSQL table.
	Postgres = Backend("postgres")

	// Mongo keeps the event log in a MongoDB collection.
	Mongo = Backend("mongo")
)

var (
	// ErrUnknownBackend is returned when the configured backend is not one of
	// Memory, Postgres or Mongo.
	ErrUnknownBackend = errors.New("unknown backend")

	// ErrMissingURL is returned when the configured backend has no URL.
	ErrMissingURL = errors.New("missing backend url")
)

// Config is the configuration of the progression service.
type Config struct {
	Backend     Backend       `env:"PROGRESSION_BACKEND" envDefault:"memory"`
	PostgresURL string        `env:"POSTGRES_EVENTSTORE"`
	MongoURL    string        `env:"MONGO_URL"`
	NATSURL     string        `env:"NATS_URL"`
	RedisURL    string        `env:"REDIS_URL"`
	RefdataTTL  time.Duration `env:"PROGRESSION_REFDATA_TTL" envDefault:"10m"`
	MaxRetries  uint64        `env:"PROGRESSION_MAX_RETRIES" envDefault:"3"`
	Development bool          `env:"PROGRESSION_DEVELOPMENT"`
}

// Load parses the Config from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return cfg, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the configured backend is known and has a URL.
func (cfg Config) Validate() error {
	switch cfg.Backend {
	case Memory:
		return nil
	case Postgres:
		if cfg.PostgresURL == "" {
			return fmt.Errorf("%w: POSTGRES_EVENTSTORE [backend=%s]", ErrMissingURL, cfg.Backend)
		}
	case Mongo:
		if cfg.MongoURL == "" {
			return fmt.Errorf("%w: MONGO_URL [backend=%s]", ErrMissingURL, cfg.Backend)
		}
	default:
		return fmt.Errorf("%w %q", ErrUnknownBackend, cfg.Backend)
	}
	return nil
}

// Logger returns a production logger, or a development logger if
// PROGRESSION_DEVELOPMENT is set.
func (cfg Config) Logger() (*zap.Logger, error) {
	if cfg.Development {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
