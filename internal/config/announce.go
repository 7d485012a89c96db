package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type AnnounceConfig struct {
	DeathWebhookURL string        `env:"DEATH_WEBHOOK_URL"`
	LevelWebhookURL string        `env:"LEVEL_WEBHOOK_URL"`
	Workers         int           `env:"ANNOUNCE_WORKERS" envDefault:"2"`
	Buffer          int           `env:"ANNOUNCE_BUFFER" envDefault:"256"`
	RetryMax        int           `env:"ANNOUNCE_RETRY_MAX" envDefault:"3"`
	RetryBase       time.Duration `env:"ANNOUNCE_RETRY_BASE" envDefault:"500ms"`
	RetryCap        time.Duration `env:"ANNOUNCE_RETRY_CAP" envDefault:"30s"`
	LevelRetryMax   int           `env:"ANNOUNCE_LEVEL_RETRY_MAX" envDefault:"1"`
	RequestTimeout  time.Duration `env:"ANNOUNCE_TIMEOUT" envDefault:"5s"`
}

// Enabled reports whether any webhook destination is configured.
func (c AnnounceConfig) Enabled() bool {
	return c.DeathWebhookURL != "" || c.LevelWebhookURL != ""
}

func LoadAnnounce() (AnnounceConfig, error) {
	var cfg AnnounceConfig
	err := env.Parse(&cfg)
	return cfg, err
}
