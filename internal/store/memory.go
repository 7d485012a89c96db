package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"
)

// Memory is an in-process Ledger. One mutex serializes every call, which
// gives the same per-identity atomicity as the Postgres implementation.
type Memory struct {
	mu       sync.Mutex
	starting int64
	now      func() time.Time
	accounts map[string]*Account
	entries  []Entry
	deaths   []Death
	seq      int64
}

var _ Ledger = (*Memory)(nil)

func NewMemory(startingBalance int64) *Memory {
	return &Memory{
		starting: startingBalance,
		now:      time.Now,
		accounts: map[string]*Account{},
	}
}

// WithClock replaces the timestamp source; tests use it for fixed times.
func (m *Memory) WithClock(now func() time.Time) *Memory {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.now = now
	return m
}

func (m *Memory) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (m *Memory) ensure(userID string) *Account {
	a, ok := m.accounts[userID]
	if !ok {
		t := m.now()
		a = &Account{UserID: userID, Balance: m.starting, CreatedAt: t, UpdatedAt: t}
		m.accounts[userID] = a
	}
	return a
}

func (m *Memory) record(userID string, amount int64, reason string) {
	t := m.now()
	m.entries = append(m.entries, Entry{ID: newIDAt(t), UserID: userID, Amount: amount, Reason: reason, CreatedAt: t})
}

func (m *Memory) touch(a *Account) {
	a.UpdatedAt = m.now()
}

func snapshot(a *Account) Account {
	out := *a
	if a.LastDailyClaim != nil {
		t := *a.LastDailyClaim
		out.LastDailyClaim = &t
	}
	return out
}

func (m *Memory) GetOrCreate(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return snapshot(m.ensure(userID)), nil
}

func (m *Memory) Get(ctx context.Context, userID string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	return snapshot(a), nil
}

func (m *Memory) ApplyDelta(ctx context.Context, userID string, delta int64, reason string) (Account, error) {
	if err := ctx.Err(); err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	if a.Balance+delta < 0 {
		return Account{}, ErrNegativeBalance
	}
	a.Balance += delta
	m.touch(a)
	if delta != 0 {
		m.record(userID, delta, reason)
	}
	return snapshot(a), nil
}

func (m *Memory) Transfer(ctx context.Context, t Transfer) (Account, Account, error) {
	if t.From == t.To {
		return Account{}, Account{}, ErrSameAccount
	}
	if t.Amount <= 0 {
		return Account{}, Account{}, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return Account{}, Account{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	from, ok := m.accounts[t.From]
	if !ok {
		return Account{}, Account{}, ErrNotFound
	}
	to, ok := m.accounts[t.To]
	if !ok {
		return Account{}, Account{}, ErrNotFound
	}
	if from.Balance < t.Amount {
		return Account{}, Account{}, ErrNegativeBalance
	}
	from.Balance -= t.Amount
	to.Balance += t.Amount
	if t.Reason == ReasonRob {
		to.RobbedCount++
	}
	m.touch(from)
	m.touch(to)
	m.record(t.From, -t.Amount, t.Reason)
	m.record(t.To, t.Amount, t.Reason)
	return snapshot(from), snapshot(to), nil
}

func (m *Memory) RecordClaim(ctx context.Context, userID string, at time.Time, reward int64, expected *time.Time) (Account, error) {
	if reward < 0 {
		return Account{}, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.accounts[userID]
	if !ok {
		return Account{}, ErrNotFound
	}
	if !sameClaim(a.LastDailyClaim, expected) {
		return Account{}, ErrStaleClaim
	}
	claimed := at
	a.LastDailyClaim = &claimed
	a.Balance += reward
	m.touch(a)
	if reward > 0 {
		m.record(userID, reward, ReasonDaily)
	}
	return snapshot(a), nil
}

func (m *Memory) IncrementExperience(ctx context.Context, userID string, amount int64) (Account, error) {
	if amount < 0 {
		return Account{}, ErrInvalidAmount
	}
	if err := ctx.Err(); err != nil {
		return Account{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	a := m.ensure(userID)
	a.Experience += amount
	m.touch(a)
	return snapshot(a), nil
}

func (m *Memory) RecordDeath(ctx context.Context, subject, reason string) (Death, error) {
	if err := ctx.Err(); err != nil {
		return Death{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	t := m.now()
	m.seq++
	d := Death{ID: newIDAt(t), Seq: m.seq, Subject: subject, Reason: reason, CreatedAt: t}
	m.deaths = append(m.deaths, d)
	if subject != AnonymousSubject {
		a := m.ensure(subject)
		a.DeathCount++
		a.LastDeathReason = reason
		m.touch(a)
	}
	return d, nil
}

func (m *Memory) ClearDeath(ctx context.Context, userID string) (Death, Account, error) {
	if userID == AnonymousSubject {
		return Death{}, Account{}, ErrNotFound
	}
	if err := ctx.Err(); err != nil {
		return Death{}, Account{}, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	idx := -1
	for i := len(m.deaths) - 1; i >= 0; i-- {
		if m.deaths[i].Subject == userID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return Death{}, Account{}, ErrNotFound
	}
	d := m.deaths[idx]
	m.deaths = append(m.deaths[:idx], m.deaths[idx+1:]...)
	prevReason := ""
	for i := len(m.deaths) - 1; i >= 0; i-- {
		if m.deaths[i].Subject == userID {
			prevReason = m.deaths[i].Reason
			break
		}
	}
	a := m.ensure(userID)
	if a.DeathCount > 0 {
		a.DeathCount--
	}
	a.LastDeathReason = prevReason
	m.touch(a)
	return d, snapshot(a), nil
}

func (m *Memory) Deaths(ctx context.Context, subject string, limit int) ([]Death, int, error) {
	if limit <= 0 {
		limit = 10
	}
	if err := ctx.Err(); err != nil {
		return nil, 0, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var mine []Death
	for _, d := range m.deaths {
		if d.Subject == subject {
			mine = append(mine, d)
		}
	}
	total := len(mine)
	if total > limit {
		mine = mine[total-limit:]
	}
	return mine, total, nil
}

func (m *Memory) AllDeaths(ctx context.Context) ([]Death, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Death(nil), m.deaths...), nil
}

func (m *Memory) Entries(ctx context.Context, userID string, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 50
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Entry, 0, limit)
	for i := len(m.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if m.entries[i].UserID == userID {
			out = append(out, m.entries[i])
		}
	}
	return out, nil
}

func (m *Memory) TopN(ctx context.Context, metric Metric, n int) ([]Standing, error) {
	value, err := metricValue(metric)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	m.mu.Lock()
	all := make([]Standing, 0, len(m.accounts))
	for id, a := range m.accounts {
		all = append(all, Standing{UserID: id, Value: value(a)})
	}
	m.mu.Unlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Value != all[j].Value {
			return all[i].Value > all[j].Value
		}
		return all[i].UserID < all[j].UserID
	})
	if n < 0 {
		n = 0
	}
	if len(all) > n {
		all = all[:n]
	}
	for i := range all {
		all[i].Rank = i + 1
	}
	return all, nil
}

func metricValue(metric Metric) (func(*Account) int64, error) {
	switch metric {
	case MetricBalance:
		return func(a *Account) int64 { return a.Balance }, nil
	case MetricExperience:
		return func(a *Account) int64 { return a.Experience }, nil
	case MetricDeaths:
		return func(a *Account) int64 { return int64(a.DeathCount) }, nil
	case MetricRobbed:
		return func(a *Account) int64 { return int64(a.RobbedCount) }, nil
	default:
		return nil, fmt.Errorf("unknown metric %q", metric)
	}
}
