package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

func (s *Postgres) GetOrCreate(ctx context.Context, userID string) (Account, error) {
	ctx, done := s.op(ctx, "store.get_or_create")
	defer done()
	if err := ensureAccount(ctx, s.Pool, userID, s.starting); err != nil {
		return Account{}, classify(err)
	}
	a, err := scanAccount(s.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID))
	return a, classify(err)
}

func (s *Postgres) Get(ctx context.Context, userID string) (Account, error) {
	ctx, done := s.op(ctx, "store.get")
	defer done()
	a, err := scanAccount(s.Pool.QueryRow(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE user_id = $1`, userID))
	return a, classify(err)
}

// ApplyDelta adds delta in a single conditional update so concurrent calls
// cannot drive the balance below zero.
func (s *Postgres) ApplyDelta(ctx context.Context, userID string, delta int64, reason string) (Account, error) {
	ctx, done := s.op(ctx, "store.apply_delta")
	defer done()
	var out Account
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		a, err := scanAccount(tx.QueryRow(ctx,
			`UPDATE accounts SET balance = balance + $2, updated_at = now()
			WHERE user_id = $1 AND balance + $2 >= 0
			RETURNING `+accountColumns, userID, delta))
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := accountExists(ctx, tx, userID)
			if existsErr != nil {
				return existsErr
			}
			if exists {
				return ErrNegativeBalance
			}
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if delta != 0 {
			if err := insertEntry(ctx, tx, userID, delta, reason); err != nil {
				return err
			}
		}
		out = a
		return nil
	})
	return out, err
}

// Transfer locks both rows in id order so opposite transfers cannot deadlock.
func (s *Postgres) Transfer(ctx context.Context, t Transfer) (Account, Account, error) {
	if t.From == t.To {
		return Account{}, Account{}, ErrSameAccount
	}
	if t.Amount <= 0 {
		return Account{}, Account{}, ErrInvalidAmount
	}
	ctx, done := s.op(ctx, "store.transfer")
	defer done()

	var from, to Account
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		first, second := t.From, t.To
		if second < first {
			first, second = second, first
		}
		balances := map[string]int64{}
		for _, id := range []string{first, second} {
			var bal int64
			if err := tx.QueryRow(ctx,
				`SELECT balance FROM accounts WHERE user_id = $1 FOR UPDATE`, id).Scan(&bal); err != nil {
				return err
			}
			balances[id] = bal
		}
		if balances[t.From] < t.Amount {
			return ErrNegativeBalance
		}
		var err error
		from, err = scanAccount(tx.QueryRow(ctx,
			`UPDATE accounts SET balance = balance - $2, updated_at = now()
			WHERE user_id = $1 RETURNING `+accountColumns, t.From, t.Amount))
		if err != nil {
			return err
		}
		robbed := 0
		if t.Reason == ReasonRob {
			robbed = 1
		}
		to, err = scanAccount(tx.QueryRow(ctx,
			`UPDATE accounts SET balance = balance + $2, robbed_count = robbed_count + $3, updated_at = now()
			WHERE user_id = $1 RETURNING `+accountColumns, t.To, t.Amount, robbed))
		if err != nil {
			return err
		}
		if err := insertEntry(ctx, tx, t.From, -t.Amount, t.Reason); err != nil {
			return err
		}
		return insertEntry(ctx, tx, t.To, t.Amount, t.Reason)
	})
	if err != nil {
		return Account{}, Account{}, err
	}
	return from, to, nil
}

func (s *Postgres) RecordClaim(ctx context.Context, userID string, at time.Time, reward int64, expected *time.Time) (Account, error) {
	if reward < 0 {
		return Account{}, ErrInvalidAmount
	}
	ctx, done := s.op(ctx, "store.record_claim")
	defer done()
	var out Account
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		a, err := scanAccount(tx.QueryRow(ctx,
			`UPDATE accounts SET balance = balance + $2, last_daily_claim = $3, updated_at = now()
			WHERE user_id = $1 AND last_daily_claim IS NOT DISTINCT FROM $4
			RETURNING `+accountColumns, userID, reward, at, expected))
		if errors.Is(err, pgx.ErrNoRows) {
			exists, existsErr := accountExists(ctx, tx, userID)
			if existsErr != nil {
				return existsErr
			}
			if exists {
				return ErrStaleClaim
			}
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		if reward > 0 {
			if err := insertEntry(ctx, tx, userID, reward, ReasonDaily); err != nil {
				return err
			}
		}
		out = a
		return nil
	})
	return out, err
}

func (s *Postgres) IncrementExperience(ctx context.Context, userID string, amount int64) (Account, error) {
	if amount < 0 {
		return Account{}, ErrInvalidAmount
	}
	ctx, done := s.op(ctx, "store.increment_experience")
	defer done()
	a, err := scanAccount(s.Pool.QueryRow(ctx,
		`INSERT INTO accounts (user_id, balance, experience) VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET experience = accounts.experience + EXCLUDED.experience, updated_at = now()
		RETURNING `+accountColumns, userID, s.starting, amount))
	return a, classify(err)
}

func (s *Postgres) Entries(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	ctx, done := s.op(ctx, "store.entries")
	defer done()
	rows, err := s.Pool.Query(ctx,
		`SELECT id, user_id, amount, reason, created_at FROM ledger_entries
		WHERE user_id = $1 ORDER BY created_at DESC, id DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, classify(err)
	}
	defer rows.Close()
	out := make([]Entry, 0, limit)
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.UserID, &e.Amount, &e.Reason, &e.CreatedAt); err != nil {
			return nil, classify(err)
		}
		out = append(out, e)
	}
	return out, classify(rows.Err())
}
