package config

import "github.com/caarlos0/env/v11"

type HTTPConfig struct {
	Addr        string `env:"HTTP_ADDR" envDefault:":8080"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`
}

func LoadHTTP() (HTTPConfig, error) {
	var cfg HTTPConfig
	err := env.Parse(&cfg)
	return cfg, err
}
