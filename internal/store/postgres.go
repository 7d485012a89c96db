package store

import (
	"context"
	_ "embed"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
)

//go:embed schema.sql
var schemaSQL string

var tracer = otel.Tracer("coal-bot/internal/store")

type Options struct {
	Timeout         time.Duration
	MaxConns        int32
	StartingBalance int64
}

// Postgres is the pgx-backed Ledger.
type Postgres struct {
	Pool     *pgxpool.Pool
	timeout  time.Duration
	starting int64
}

var _ Ledger = (*Postgres)(nil)

func New(ctx context.Context, dsn string, opts Options) (*Postgres, error) {
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, err
	}
	if opts.MaxConns > 0 {
		poolCfg.MaxConns = opts.MaxConns
	}
	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, classify(err)
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	return &Postgres{Pool: pool, timeout: opts.Timeout, starting: opts.StartingBalance}, nil
}

func (s *Postgres) Close() {
	if s.Pool != nil {
		s.Pool.Close()
	}
}

func (s *Postgres) Ping(ctx context.Context) error {
	ctx, done := s.op(ctx, "store.ping")
	defer done()
	return classify(s.Pool.Ping(ctx))
}

// Bootstrap creates missing tables. It is idempotent.
func (s *Postgres) Bootstrap(ctx context.Context) error {
	ctx, done := s.op(ctx, "store.bootstrap")
	defer done()
	_, err := s.Pool.Exec(ctx, schemaSQL)
	return classify(err)
}

// op bounds a store call by the configured timeout and traces it.
func (s *Postgres) op(ctx context.Context, name string) (context.Context, func()) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	ctx, span := tracer.Start(ctx, name)
	return ctx, func() {
		span.End()
		cancel()
	}
}

// inTx runs fn in one transaction and classifies whatever fails.
func (s *Postgres) inTx(ctx context.Context, fn func(pgx.Tx) error) error {
	tx, err := s.Pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return classify(err)
	}
	defer tx.Rollback(ctx)
	if err := fn(tx); err != nil {
		return classify(err)
	}
	return classify(tx.Commit(ctx))
}

const accountColumns = `user_id, balance, last_daily_claim, experience, death_count,
	last_death_reason, robbed_count, created_at, updated_at`

func scanAccount(row pgx.Row) (Account, error) {
	var a Account
	err := row.Scan(&a.UserID, &a.Balance, &a.LastDailyClaim, &a.Experience, &a.DeathCount,
		&a.LastDeathReason, &a.RobbedCount, &a.CreatedAt, &a.UpdatedAt)
	return a, err
}

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

func insertEntry(ctx context.Context, q querier, userID string, amount int64, reason string) error {
	_, err := q.Exec(ctx,
		`INSERT INTO ledger_entries (id, user_id, amount, reason) VALUES ($1, $2, $3, $4)`,
		NewID(), userID, amount, reason)
	return err
}

func ensureAccount(ctx context.Context, q querier, userID string, starting int64) error {
	_, err := q.Exec(ctx,
		`INSERT INTO accounts (user_id, balance) VALUES ($1, $2) ON CONFLICT (user_id) DO NOTHING`,
		userID, starting)
	return err
}

func accountExists(ctx context.Context, q querier, userID string) (bool, error) {
	var exists bool
	err := q.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM accounts WHERE user_id = $1)`, userID).Scan(&exists)
	return exists, err
}
