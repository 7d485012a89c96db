// Package ledger settles wager engine outcomes against the store. Every
// command produces at most one store mutation.
package ledger

import (
	"context"
	"errors"
	"time"

	"coal-bot/internal/levels"
	"coal-bot/internal/store"
	"coal-bot/internal/wager"
)

type Ledger struct {
	Store  store.Ledger
	Engine *wager.Engine
	Now    func() time.Time
}

func New(s store.Ledger, e *wager.Engine) *Ledger {
	return &Ledger{Store: s, Engine: e, Now: time.Now}
}

// Play is a settled game and the account after the delta was applied.
type Play struct {
	Result  wager.Result
	Account store.Account
}

func (l *Ledger) CoinFlip(ctx context.Context, userID string, stake int64, call wager.Side) (Play, error) {
	return l.play(ctx, userID, store.ReasonCoinFlip, func(w wager.Wager) (wager.Result, error) {
		return l.Engine.CoinFlip(w, call)
	}, stake)
}

func (l *Ledger) Roll(ctx context.Context, userID string, stake int64) (Play, error) {
	return l.play(ctx, userID, store.ReasonRoll, l.Engine.Roll, stake)
}

func (l *Ledger) Slots(ctx context.Context, userID string, stake int64) (Play, error) {
	return l.play(ctx, userID, store.ReasonSlots, l.Engine.Slots, stake)
}

func (l *Ledger) play(ctx context.Context, userID, reason string, resolve func(wager.Wager) (wager.Result, error), stake int64) (Play, error) {
	a, err := l.Store.GetOrCreate(ctx, userID)
	if err != nil {
		return Play{}, err
	}
	res, err := resolve(wager.Wager{Stake: stake, Balance: a.Balance})
	if err != nil {
		return Play{}, err
	}
	if res.Delta == 0 {
		return Play{Result: res, Account: a}, nil
	}
	after, err := l.Store.ApplyDelta(ctx, userID, res.Delta, reason)
	if errors.Is(err, store.ErrNegativeBalance) {
		// another command spent the stake between the read and the write
		return Play{}, insufficient()
	}
	if err != nil {
		return Play{}, err
	}
	return Play{Result: res, Account: after}, nil
}

// Transfer is a settled give or rob with both accounts after the move.
type Transfer struct {
	Outcome wager.TransferOutcome
	Actor   store.Account
	Target  store.Account
}

func (l *Ledger) Give(ctx context.Context, from, to string, amount int64) (Transfer, error) {
	src, err := l.Store.GetOrCreate(ctx, from)
	if err != nil {
		return Transfer{}, err
	}
	dst, exists, err := l.lookup(ctx, to)
	if err != nil {
		return Transfer{}, err
	}
	out, err := l.Engine.Give(wager.GiveRequest{
		Source:        from,
		Target:        to,
		Amount:        amount,
		SourceBalance: src.Balance,
		TargetExists:  exists,
	})
	if err != nil {
		return Transfer{}, err
	}
	src, dst, err = l.Store.Transfer(ctx, store.Transfer{From: from, To: to, Amount: out.Amount, Reason: store.ReasonGive})
	if err != nil {
		return Transfer{}, transferError(err)
	}
	return Transfer{Outcome: out, Actor: src, Target: dst}, nil
}

// Rob moves the stolen amount from target to actor, or takes the penalty
// from a caught actor.
func (l *Ledger) Rob(ctx context.Context, actor, target string) (Transfer, error) {
	act, err := l.Store.GetOrCreate(ctx, actor)
	if err != nil {
		return Transfer{}, err
	}
	tgt, exists, err := l.lookup(ctx, target)
	if err != nil {
		return Transfer{}, err
	}
	out, err := l.Engine.Rob(wager.RobRequest{
		Actor:         actor,
		Target:        target,
		ActorBalance:  act.Balance,
		TargetBalance: tgt.Balance,
		TargetExists:  exists,
	})
	if err != nil {
		return Transfer{}, err
	}
	if out.Succeeded {
		from, to, err := l.Store.Transfer(ctx, store.Transfer{From: target, To: actor, Amount: out.Amount, Reason: store.ReasonRob})
		if errors.Is(err, store.ErrNegativeBalance) {
			return Transfer{}, &wager.RuleError{Kind: wager.ErrInvalidOperation, Detail: "they spent it before you got there"}
		}
		if err != nil {
			return Transfer{}, err
		}
		return Transfer{Outcome: out, Actor: to, Target: from}, nil
	}
	if out.Penalty == 0 {
		return Transfer{Outcome: out, Actor: act, Target: tgt}, nil
	}
	after, taken, err := l.takeUpTo(ctx, actor, out.Penalty, store.ReasonRobPenalty)
	if err != nil {
		return Transfer{}, err
	}
	out.Penalty = taken
	return Transfer{Outcome: out, Actor: after, Target: tgt}, nil
}

// Claim is a granted daily reward.
type Claim struct {
	Outcome wager.ClaimOutcome
	Account store.Account
}

func (l *Ledger) Daily(ctx context.Context, userID string) (Claim, error) {
	a, err := l.Store.GetOrCreate(ctx, userID)
	if err != nil {
		return Claim{}, err
	}
	now := l.Now().UTC()
	out, err := l.Engine.Daily(a.LastDailyClaim, now)
	if err != nil {
		return Claim{}, err
	}
	after, err := l.Store.RecordClaim(ctx, userID, out.ClaimedAt, out.Reward, a.LastDailyClaim)
	if errors.Is(err, store.ErrStaleClaim) {
		return Claim{}, l.lostClaim(ctx, userID, now)
	}
	if err != nil {
		return Claim{}, err
	}
	return Claim{Outcome: out, Account: after}, nil
}

// lostClaim reports the wait left by the claim that won the race.
func (l *Ledger) lostClaim(ctx context.Context, userID string, now time.Time) error {
	remaining := l.Engine.DailyPeriod
	if cur, err := l.Store.Get(ctx, userID); err == nil && cur.LastDailyClaim != nil {
		if left := cur.LastDailyClaim.Add(l.Engine.DailyPeriod).Sub(now); left > 0 {
			remaining = left
		}
	}
	return &wager.CooldownError{Remaining: remaining}
}

// Shift is one work attempt.
type Shift struct {
	Outcome wager.WorkOutcome
	Account store.Account
}

func (l *Ledger) Work(ctx context.Context, userID string) (Shift, error) {
	a, err := l.Store.GetOrCreate(ctx, userID)
	if err != nil {
		return Shift{}, err
	}
	out := l.Engine.Work()
	if out.Earned == 0 {
		return Shift{Outcome: out, Account: a}, nil
	}
	after, err := l.Store.ApplyDelta(ctx, userID, out.Earned, store.ReasonWork)
	if err != nil {
		return Shift{}, err
	}
	return Shift{Outcome: out, Account: after}, nil
}

// Grant credits amount from the house.
func (l *Ledger) Grant(ctx context.Context, userID string, amount int64) (store.Account, error) {
	if amount <= 0 {
		return store.Account{}, &wager.RuleError{Kind: wager.ErrInvalidArgument, Detail: "amount must be positive"}
	}
	if _, err := l.Store.GetOrCreate(ctx, userID); err != nil {
		return store.Account{}, err
	}
	return l.Store.ApplyDelta(ctx, userID, amount, store.ReasonAdmin)
}

// Seize debits up to amount, stopping at zero. It returns the account and the
// amount actually taken.
func (l *Ledger) Seize(ctx context.Context, userID string, amount int64) (store.Account, int64, error) {
	if amount <= 0 {
		return store.Account{}, 0, &wager.RuleError{Kind: wager.ErrInvalidArgument, Detail: "amount must be positive"}
	}
	before, exists, err := l.lookup(ctx, userID)
	if err != nil {
		return store.Account{}, 0, err
	}
	if !exists {
		return store.Account{}, 0, notInDatabase()
	}
	if amount > before.Balance {
		amount = before.Balance
	}
	if amount == 0 {
		return before, 0, nil
	}
	return l.takeUpTo(ctx, userID, amount, store.ReasonAdmin)
}

// Experience is the progression change from one grant.
type Experience struct {
	Account  store.Account
	Progress levels.Progress
	LevelUp  bool
}

func (l *Ledger) GrantExperience(ctx context.Context, userID string, amount int64) (Experience, error) {
	a, err := l.Store.IncrementExperience(ctx, userID, amount)
	if err != nil {
		return Experience{}, err
	}
	_, up := levels.LeveledUp(a.Experience-amount, a.Experience)
	return Experience{Account: a, Progress: levels.FromExperience(a.Experience), LevelUp: up}, nil
}

// PassiveExperience grants 1..3 experience for an ordinary chat message.
func (l *Ledger) PassiveExperience(ctx context.Context, userID string) (Experience, error) {
	return l.GrantExperience(ctx, userID, int64(l.Engine.Intn(3)+1))
}

const takeAttempts = 3

// takeUpTo debits amount, or whatever is left when a concurrent command
// spent part of it first. It returns the amount the store actually debited.
func (l *Ledger) takeUpTo(ctx context.Context, userID string, amount int64, reason string) (store.Account, int64, error) {
	want := amount
	for attempt := 1; ; attempt++ {
		after, err := l.Store.ApplyDelta(ctx, userID, -want, reason)
		if err == nil {
			return after, want, nil
		}
		if !errors.Is(err, store.ErrNegativeBalance) || attempt == takeAttempts {
			return store.Account{}, 0, err
		}
		cur, err := l.Store.Get(ctx, userID)
		if err != nil {
			return store.Account{}, 0, err
		}
		if cur.Balance == 0 {
			return cur, 0, nil
		}
		want = min(amount, cur.Balance)
	}
}

func (l *Ledger) lookup(ctx context.Context, userID string) (store.Account, bool, error) {
	a, err := l.Store.Get(ctx, userID)
	if errors.Is(err, store.ErrNotFound) {
		return store.Account{}, false, nil
	}
	if err != nil {
		return store.Account{}, false, err
	}
	return a, true, nil
}

func transferError(err error) error {
	switch {
	case errors.Is(err, store.ErrNegativeBalance):
		return insufficient()
	case errors.Is(err, store.ErrNotFound):
		return notInDatabase()
	case errors.Is(err, store.ErrSameAccount):
		return &wager.RuleError{Kind: wager.ErrInvalidOperation, Detail: "you cannot give coins to yourself"}
	}
	return err
}

func insufficient() error {
	return &wager.RuleError{Kind: wager.ErrInsufficientFunds, Detail: "you no longer have enough coins"}
}

func notInDatabase() error {
	return &wager.RuleError{Kind: wager.ErrInvalidOperation, Detail: "that user is not in the database"}
}
