// Package store persists accounts, the coin ledger and the death log.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrNegativeBalance = errors.New("negative_balance")
	ErrSameAccount     = errors.New("same_account")
	ErrStaleClaim      = errors.New("stale_claim")
	ErrInvalidAmount   = errors.New("invalid_amount")
	ErrTimeout         = errors.New("store_timeout")
	ErrUnavailable     = errors.New("store_unavailable")
)

// Ledger reasons recorded with every balance change.
const (
	ReasonCoinFlip   = "coinflip"
	ReasonRoll       = "roll"
	ReasonSlots      = "slots"
	ReasonWork       = "work"
	ReasonDaily      = "daily"
	ReasonGive       = "give"
	ReasonRob        = "rob"
	ReasonRobPenalty = "rob_penalty"
	ReasonAdmin      = "admin"
)

type Account struct {
	UserID          string     `json:"user_id"`
	Balance         int64      `json:"balance"`
	LastDailyClaim  *time.Time `json:"last_daily_claim,omitempty"`
	Experience      int64      `json:"experience"`
	DeathCount      int        `json:"death_count"`
	LastDeathReason string     `json:"last_death_reason,omitempty"`
	RobbedCount     int        `json:"robbed_count"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type Entry struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Amount    int64     `json:"amount"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// Death is one graveyard record. Seq is global and never reused.
type Death struct {
	ID        string    `json:"id"`
	Seq       int64     `json:"seq"`
	Subject   string    `json:"subject"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Transfer struct {
	From   string
	To     string
	Amount int64
	Reason string
}

type Metric string

const (
	MetricBalance    Metric = "balance"
	MetricExperience Metric = "experience"
	MetricDeaths     Metric = "deaths"
	MetricRobbed     Metric = "robbed"
)

func ParseMetric(s string) (Metric, error) {
	switch m := Metric(s); m {
	case MetricBalance, MetricExperience, MetricDeaths, MetricRobbed:
		return m, nil
	case "":
		return MetricBalance, nil
	default:
		return "", fmt.Errorf("unknown metric %q", s)
	}
}

type Standing struct {
	Rank   int    `json:"rank"`
	UserID string `json:"user_id"`
	Value  int64  `json:"value"`
}

// Ledger is the persistence contract every command runs against. Mutations
// on one identity are serialized and each call is all-or-nothing.
type Ledger interface {
	GetOrCreate(ctx context.Context, userID string) (Account, error)
	Get(ctx context.Context, userID string) (Account, error)
	ApplyDelta(ctx context.Context, userID string, delta int64, reason string) (Account, error)
	Transfer(ctx context.Context, t Transfer) (from, to Account, err error)
	// RecordClaim credits reward and stamps the claim only while the stored
	// last claim still equals expected.
	RecordClaim(ctx context.Context, userID string, at time.Time, reward int64, expected *time.Time) (Account, error)
	IncrementExperience(ctx context.Context, userID string, amount int64) (Account, error)
	RecordDeath(ctx context.Context, subject, reason string) (Death, error)
	ClearDeath(ctx context.Context, userID string) (Death, Account, error)
	Deaths(ctx context.Context, subject string, limit int) ([]Death, int, error)
	AllDeaths(ctx context.Context) ([]Death, error)
	Entries(ctx context.Context, userID string, limit int) ([]Entry, error)
	TopN(ctx context.Context, metric Metric, n int) ([]Standing, error)
	Ping(ctx context.Context) error
}

// AnonymousSubject deaths never touch an account.
const AnonymousSubject = "0"

func sameClaim(a, b *time.Time) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(*b)
}
