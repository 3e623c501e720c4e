package accounts

import (
	"github.com/caarlos0/env/v6"
)

// Config struct for the account preferences service.
type Config struct {
	DefaultDisplayCount    int    `env:"DEFAULT_DISPLAY_COUNT" envDefault:"25"`
	DefaultStorageProvider string `env:"DEFAULT_STORAGE_PROVIDER" envDefault:"internal"`
}

// ParseConfig parses environment variables to a valid Config.
func ParseConfig() (cfg Config) {
	if err := env.Parse(&cfg, env.Options{Prefix: "MAIL_PREFS_"}); err != nil {
		panic(err)
	}

	return
}
