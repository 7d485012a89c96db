package config

import "github.com/caarlos0/env/v11"

// TracingConfig is opt-in: an empty endpoint keeps the no-op provider.
type TracingConfig struct {
	Enabled  bool   `env:"OTEL_ENABLED" envDefault:"true"`
	Endpoint string `env:"OTEL_ENDPOINT"`
}

func LoadTracing() (TracingConfig, error) {
	var cfg TracingConfig
	err := env.Parse(&cfg)
	return cfg, err
}
