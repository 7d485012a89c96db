package config

import (
	"time"

	"github.com/caarlos0/env/v11"
)

type RateLimitConfig struct {
	RedisAddr     string        `env:"REDIS_ADDR"`
	RedisPassword string        `env:"REDIS_PASSWORD"`
	RedisDB       int           `env:"REDIS_DB" envDefault:"0"`
	Commands      int           `env:"RATE_LIMIT_COMMANDS" envDefault:"20"`
	Window        time.Duration `env:"RATE_LIMIT_WINDOW" envDefault:"1m"`
}

func LoadRateLimit() (RateLimitConfig, error) {
	var cfg RateLimitConfig
	err := env.Parse(&cfg)
	return cfg, err
}
