package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"coal-bot/internal/announce"
	"coal-bot/internal/bot"
	"coal-bot/internal/config"
	"coal-bot/internal/discord"
	"coal-bot/internal/ledger"
	"coal-bot/internal/logging"
	"coal-bot/internal/random"
	"coal-bot/internal/ratelimit"
	"coal-bot/internal/store"
	"coal-bot/internal/tracing"
	httptransport "coal-bot/internal/transport/http"
	"coal-bot/internal/wager"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

const serviceName = "coal-bot"

func main() {
	// .env is optional; real environment variables win.
	_ = godotenv.Load()

	cfg, err := config.LoadApp()
	if err != nil {
		logging.Init(config.LogConfig{Level: "info"})
		log.Fatal().Err(err).Msg("load config failed")
	}
	logging.Init(cfg.Log)
	defer logging.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		log.Error().Err(err).Msg("coal-bot stopped")
		stop()
		_ = logging.Close()
		os.Exit(1)
	}
	log.Info().Msg("coal-bot stopped")
}

func run(ctx context.Context, cfg config.AppConfig) error {
	shutdownTracing, err := tracing.Setup(ctx, cfg.Tracing, serviceName)
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			log.Warn().Err(err).Msg("tracing shutdown failed")
		}
	}()

	st, closeStore, err := openStore(ctx, cfg.Store, cfg.Economy.StartingBalance)
	if err != nil {
		return err
	}
	defer closeStore()

	src, err := random.NewCryptoSeeded()
	if err != nil {
		return err
	}
	led := ledger.New(st, wager.NewEngine(src, policyFrom(cfg.Economy)))

	limiter, closeLimiter, err := ratelimit.New(ctx, cfg.RateLimit)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeLimiter(); err != nil {
			log.Warn().Err(err).Msg("rate limiter close failed")
		}
	}()

	var announcer announce.Announcer = announce.Nop{}
	if cfg.Announce.Enabled() {
		m := announce.NewManager(announce.FromConfig(cfg.Announce))
		if err := m.Start(ctx); err != nil {
			return err
		}
		announcer = m
		log.Info().Int("workers", cfg.Announce.Workers).Msg("webhook announcer started")
	}

	gw, err := discord.New(cfg.Bot.DiscordToken)
	if err != nil {
		return err
	}
	d, err := bot.New(bot.Deps{Ledger: led, Limiter: limiter, Announcer: announcer}, bot.Options{
		Prefix:     cfg.Bot.Prefix,
		Timeout:    cfg.Bot.CommandTimeout,
		Admins:     cfg.Bot.AdminIDs,
		PassiveXP:  cfg.Bot.PassiveXP,
		RateWindow: cfg.RateLimit.Window,
		Latency:    gw.Latency,
	})
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	var server *http.Server
	if cfg.HTTP.Addr != "" {
		r := httptransport.NewRouter(st, cfg.HTTP)
		httptransport.LogRoutes(r)
		server = &http.Server{
			Addr:              cfg.HTTP.Addr,
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       10 * time.Second,
			IdleTimeout:       120 * time.Second,
		}
		go func() {
			log.Info().Str("addr", cfg.HTTP.Addr).Msg("http listening")
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()
	}

	if err := gw.Open(ctx, d); err != nil {
		return err
	}
	log.Info().Str("prefix", cfg.Bot.Prefix).Str("store", cfg.Store.Driver).Msg("coal-bot connected")

	select {
	case <-ctx.Done():
	case err = <-errCh:
	}

	if cerr := gw.Close(); cerr != nil {
		log.Warn().Err(cerr).Msg("discord close failed")
	}
	if server != nil {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := server.Shutdown(sctx); serr != nil {
			log.Warn().Err(serr).Msg("http shutdown failed")
		}
	}
	return err
}

func openStore(ctx context.Context, cfg config.StoreConfig, starting int64) (store.Ledger, func(), error) {
	if cfg.Driver == config.StoreDriverMemory {
		log.Warn().Msg("using in-memory store; balances are lost on restart")
		return store.NewMemory(starting), func() {}, nil
	}
	pg, err := store.New(ctx, cfg.PostgresDSN, store.Options{
		Timeout:         cfg.Timeout,
		MaxConns:        cfg.MaxConns,
		StartingBalance: starting,
	})
	if err != nil {
		return nil, nil, err
	}
	if err := pg.Ping(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	if err := pg.Bootstrap(ctx); err != nil {
		pg.Close()
		return nil, nil, err
	}
	return pg, pg.Close, nil
}

// policyFrom overlays the configurable economy knobs on the default odds.
func policyFrom(cfg config.EconomyConfig) wager.Policy {
	p := wager.DefaultPolicy()
	if cfg.DailyReward > 0 {
		p.DailyReward = cfg.DailyReward
	}
	if cfg.DailyPeriod > 0 {
		p.DailyPeriod = cfg.DailyPeriod
	}
	if cfg.SlotsMaxBet >= 0 {
		p.SlotsMaxBet = cfg.SlotsMaxBet
	}
	if cfg.RollMaxBet >= 0 {
		p.RollMaxBet = cfg.RollMaxBet
	}
	if cfg.WorkMin > 0 && cfg.WorkMax >= cfg.WorkMin {
		p.WorkMin, p.WorkMax = cfg.WorkMin, cfg.WorkMax
	}
	return p
}
