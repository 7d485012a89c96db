package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type BotConfig struct {
	DiscordToken   string        `env:"DISCORD_TOKEN,required,notEmpty"`
	Prefix         string        `env:"COMMAND_PREFIX" envDefault:"-"`
	CommandTimeout time.Duration `env:"COMMAND_TIMEOUT" envDefault:"5s"`
	AdminIDs       []string      `env:"ADMIN_IDS" envSeparator:","`
	PassiveXP      bool          `env:"PASSIVE_XP" envDefault:"true"`
}

func LoadBot() (BotConfig, error) {
	var cfg BotConfig
	err := env.Parse(&cfg)
	return cfg, err
}
