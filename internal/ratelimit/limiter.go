// Package ratelimit throttles commands per user in fixed windows.
package ratelimit

import (
	"context"
	"fmt"

	"coal-bot/internal/config"

	"github.com/redis/go-redis/v9"
)

// Limiter reports whether key may run another command in the current window.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
}

// New returns a Redis limiter when cfg names an address and an in-process
// one otherwise. The returned close func releases the Redis client.
func New(ctx context.Context, cfg config.RateLimitConfig) (Limiter, func() error, error) {
	if cfg.Commands <= 0 {
		return Unlimited{}, func() error { return nil }, nil
	}
	if cfg.RedisAddr == "" {
		return NewMemory(cfg.Commands, cfg.Window), func() error { return nil }, nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("connect redis: %w", err)
	}
	return NewRedis(client, cfg.Commands, cfg.Window), client.Close, nil
}

// Unlimited allows everything.
type Unlimited struct{}

func (Unlimited) Allow(context.Context, string) (bool, error) { return true, nil }
