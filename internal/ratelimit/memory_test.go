package ratelimit

import (
	"context"
	"testing"
	"time"

	"coal-bot/internal/config"
)

func TestMemoryFixedWindow(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMemory(2, time.Minute)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	for i, want := range []bool{true, true, false} {
		got, err := m.Allow(ctx, "u1")
		if err != nil {
			t.Fatalf("Allow() error = %v", err)
		}
		if got != want {
			t.Fatalf("call %d allowed = %v, want %v", i+1, got, want)
		}
	}
	if ok, _ := m.Allow(ctx, "u2"); !ok {
		t.Fatal("other keys must have their own window")
	}

	now = now.Add(time.Minute)
	if ok, _ := m.Allow(ctx, "u1"); !ok {
		t.Fatal("window did not reset")
	}
}

func TestNewSelectsBackend(t *testing.T) {
	l, closeFn, err := New(context.Background(), config.RateLimitConfig{Commands: 5, Window: time.Second})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer closeFn()
	if _, ok := l.(*Memory); !ok {
		t.Fatalf("limiter = %T, want *Memory", l)
	}

	l, _, err = New(context.Background(), config.RateLimitConfig{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if _, ok := l.(Unlimited); !ok {
		t.Fatalf("limiter = %T, want Unlimited", l)
	}
}
