package backends

import (
	"time"

	"github.com/caarlos0/env/v6"
)

// Config struct for the backend manager.
type Config struct {
	ValidationTimeout time.Duration `env:"SERVER_VALIDATION_TIMEOUT" envDefault:"30s"`
	// Maximum number of validation checks per second.
	ValidationMaxRate int `env:"SERVER_VALIDATION_MAX_RATE" envDefault:"5"`
	DialMaxRetries    int `env:"SERVER_VALIDATION_DIAL_RETRIES" envDefault:"3"`
}

// ParseConfig parses environment variables to a valid Config.
func ParseConfig() (cfg Config) {
	if err := env.Parse(&cfg, env.Options{Prefix: "MAIL_PREFS_"}); err != nil {
		panic(err)
	}

	return
}
