package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
)

func (s *Postgres) RecordDeath(ctx context.Context, subject, reason string) (Death, error) {
	ctx, done := s.op(ctx, "store.record_death")
	defer done()
	var d Death
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if subject != AnonymousSubject {
			if err := ensureAccount(ctx, tx, subject, s.starting); err != nil {
				return err
			}
		}
		d = Death{ID: NewID(), Subject: subject, Reason: reason}
		if err := tx.QueryRow(ctx,
			`INSERT INTO death_log (id, subject, reason) VALUES ($1, $2, $3) RETURNING seq, created_at`,
			d.ID, subject, reason).Scan(&d.Seq, &d.CreatedAt); err != nil {
			return err
		}
		if subject == AnonymousSubject {
			return nil
		}
		_, err := tx.Exec(ctx,
			`UPDATE accounts SET death_count = death_count + 1, last_death_reason = $2, updated_at = now()
			WHERE user_id = $1`, subject, reason)
		return err
	})
	if err != nil {
		return Death{}, err
	}
	return d, nil
}

// ClearDeath removes userID's most recent death and rolls the account's
// death statistics back to the entry before it.
func (s *Postgres) ClearDeath(ctx context.Context, userID string) (Death, Account, error) {
	if userID == AnonymousSubject {
		return Death{}, Account{}, ErrNotFound
	}
	ctx, done := s.op(ctx, "store.clear_death")
	defer done()
	var d Death
	var a Account
	err := s.inTx(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`SELECT id, seq, subject, reason, created_at FROM death_log
			WHERE subject = $1 ORDER BY seq DESC LIMIT 1 FOR UPDATE`, userID).
			Scan(&d.ID, &d.Seq, &d.Subject, &d.Reason, &d.CreatedAt); err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, `DELETE FROM death_log WHERE id = $1`, d.ID); err != nil {
			return err
		}
		var prevReason string
		err := tx.QueryRow(ctx,
			`SELECT reason FROM death_log WHERE subject = $1 ORDER BY seq DESC LIMIT 1`, userID).Scan(&prevReason)
		if err != nil && !errors.Is(err, pgx.ErrNoRows) {
			return err
		}
		a, err = scanAccount(tx.QueryRow(ctx,
			`UPDATE accounts SET death_count = GREATEST(death_count - 1, 0), last_death_reason = $2, updated_at = now()
			WHERE user_id = $1 RETURNING `+accountColumns, userID, prevReason))
		return err
	})
	if err != nil {
		return Death{}, Account{}, err
	}
	return d, a, nil
}

// Deaths returns the latest limit deaths of subject, oldest first, and the
// subject's total.
func (s *Postgres) Deaths(ctx context.Context, subject string, limit int) ([]Death, int, error) {
	if limit <= 0 {
		limit = 10
	}
	ctx, done := s.op(ctx, "store.deaths")
	defer done()
	var total int
	if err := s.Pool.QueryRow(ctx,
		`SELECT count(*) FROM death_log WHERE subject = $1`, subject).Scan(&total); err != nil {
		return nil, 0, classify(err)
	}
	rows, err := s.Pool.Query(ctx,
		`SELECT id, seq, subject, reason, created_at FROM death_log
		WHERE subject = $1 ORDER BY seq DESC LIMIT $2`, subject, limit)
	if err != nil {
		return nil, 0, classify(err)
	}
	out, err := collectDeaths(rows)
	if err != nil {
		return nil, 0, err
	}
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	return out, total, nil
}

func (s *Postgres) AllDeaths(ctx context.Context) ([]Death, error) {
	ctx, done := s.op(ctx, "store.all_deaths")
	defer done()
	rows, err := s.Pool.Query(ctx,
		`SELECT id, seq, subject, reason, created_at FROM death_log ORDER BY seq`)
	if err != nil {
		return nil, classify(err)
	}
	return collectDeaths(rows)
}

func collectDeaths(rows pgx.Rows) ([]Death, error) {
	defer rows.Close()
	var out []Death
	for rows.Next() {
		var d Death
		if err := rows.Scan(&d.ID, &d.Seq, &d.Subject, &d.Reason, &d.CreatedAt); err != nil {
			return nil, classify(err)
		}
		out = append(out, d)
	}
	return out, classify(rows.Err())
}
