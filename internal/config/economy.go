package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type EconomyConfig struct {
	StartingBalance int64         `env:"STARTING_BALANCE" envDefault:"0"`
	DailyReward     int64         `env:"DAILY_REWARD" envDefault:"500"`
	DailyPeriod     time.Duration `env:"DAILY_PERIOD" envDefault:"24h"`
	SlotsMaxBet     int64         `env:"SLOTS_MAX_BET" envDefault:"3000"`
	RollMaxBet      int64         `env:"ROLL_MAX_BET" envDefault:"0"`
	WorkMin         int64         `env:"WORK_MIN" envDefault:"50"`
	WorkMax         int64         `env:"WORK_MAX" envDefault:"500"`
}

func LoadEconomy() (EconomyConfig, error) {
	var cfg EconomyConfig
	err := env.Parse(&cfg)
	return cfg, err
}
