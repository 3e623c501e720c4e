// Package configs handles application configuration parsed from
// environment variables.
package configs

import (
	"time"

	"github.com/caarlos0/env/v6"
	log "github.com/sirupsen/logrus"
)

type Config struct {
	Host string `env:"HOST"`
	Port int    `env:"PORT" envDefault:"3000"`

	DatabaseDSN  string `env:"DATABASE_DSN" envDefault:"prefs.db"`
	DatabaseType string `env:"DATABASE_TYPE" envDefault:"sqlite"`

	// Hex encoded 32 byte key used to encrypt account passwords at rest.
	EncryptionKey string `env:"ENCRYPTION_KEY,notEmpty"`

	DefaultDisplayCount     int           `env:"DEFAULT_DISPLAY_COUNT" envDefault:"25"`
	DefaultStorageProvider  string        `env:"DEFAULT_STORAGE_PROVIDER" envDefault:"internal"`
	ServerValidationTimeout time.Duration `env:"SERVER_VALIDATION_TIMEOUT" envDefault:"30s"`
	// Maximum number of server validation checks per second.
	ServerValidationMaxRate int `env:"SERVER_VALIDATION_MAX_RATE" envDefault:"5"`

	ServerRequestTimeout time.Duration `env:"REQUEST_TIMEOUT" envDefault:"60s"`

	DisableIdempotencyMiddleware      bool   `env:"DISABLE_IDEMPOTENCY_MIDDLEWARE" envDefault:"false"`
	IdempotencyMiddlewareDatabaseType string `env:"IDEMPOTENCY_MIDDLEWARE_DATABASE_TYPE" envDefault:"local"`
	IdempotencyMiddlewareRedisURL     string `env:"IDEMPOTENCY_MIDDLEWARE_REDIS_URL"`

	LogLevel string `env:"LOGLEVEL" envDefault:"info"`
}

// Parse parses environment variables into a Config.
// All variables are prefixed with "MAIL_PREFS_".
func Parse() (*Config, error) {
	cfg := Config{}
	if err := env.Parse(&cfg, env.Options{Prefix: "MAIL_PREFS_"}); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ConfigureLogger sets the log level of the global logger.
func ConfigureLogger(logLevel string) {
	level, err := log.ParseLevel(logLevel)
	if err != nil {
		log.Warnf("Unable to parse log level %q, defaulting to info", logLevel)
		level = log.InfoLevel
	}
	log.SetLevel(level)
}
