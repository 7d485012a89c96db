package config

type AppConfig struct {
	Log       LogConfig
	Bot       BotConfig
	Store     StoreConfig
	Economy   EconomyConfig
	RateLimit RateLimitConfig
	Announce  AnnounceConfig
	HTTP      HTTPConfig
	Tracing   TracingConfig
}

func LoadApp() (AppConfig, error) {
	var cfg AppConfig
	var err error
	if cfg.Log, err = LoadLog(); err != nil {
		return AppConfig{}, err
	}
	if cfg.Bot, err = LoadBot(); err != nil {
		return AppConfig{}, err
	}
	if cfg.Store, err = LoadStore(); err != nil {
		return AppConfig{}, err
	}
	if cfg.Economy, err = LoadEconomy(); err != nil {
		return AppConfig{}, err
	}
	if cfg.RateLimit, err = LoadRateLimit(); err != nil {
		return AppConfig{}, err
	}
	if cfg.Announce, err = LoadAnnounce(); err != nil {
		return AppConfig{}, err
	}
	if cfg.HTTP, err = LoadHTTP(); err != nil {
		return AppConfig{}, err
	}
	if cfg.Tracing, err = LoadTracing(); err != nil {
		return AppConfig{}, err
	}
	return cfg, nil
}
