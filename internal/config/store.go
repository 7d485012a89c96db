package config

import (
	"errors"
	"time"

	"github.com/caarlos0/env/v11"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMemory   = "memory"
)

type StoreConfig struct {
	Driver      string        `env:"STORE_DRIVER" envDefault:"postgres"`
	PostgresDSN string        `env:"POSTGRES_DSN"`
	Timeout     time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`
	MaxConns    int32         `env:"DB_MAX_CONNS" envDefault:"10"`
}

func LoadStore() (StoreConfig, error) {
	var cfg StoreConfig
	if err := env.Parse(&cfg); err != nil {
		return cfg, err
	}
	switch cfg.Driver {
	case StoreDriverPostgres:
		if cfg.PostgresDSN == "" {
			return cfg, errors.New("POSTGRES_DSN is required for the postgres store driver")
		}
	case StoreDriverMemory:
	default:
		return cfg, errors.New("unknown STORE_DRIVER " + cfg.Driver)
	}
	return cfg, nil
}
