package wager

import "time"

// Policy holds the fixed odds and limits of the economy. The zero value of a
// max bet means unlimited.
type Policy struct {
	SlotsMaxBet int64
	RollMaxBet  int64

	DailyReward int64
	DailyPeriod time.Duration

	WorkSuccessPercent int
	WorkMin            int64
	WorkMax            int64

	RobSuccessPercent int
	RobMinTarget      int64
	RobMaxSteal       int64
	RobPenaltyMin     int64
	RobPenaltyMax     int64
}

func DefaultPolicy() Policy {
	return Policy{
		SlotsMaxBet:        3000,
		DailyReward:        500,
		DailyPeriod:        24 * time.Hour,
		WorkSuccessPercent: 75,
		WorkMin:            50,
		WorkMax:            500,
		RobSuccessPercent:  25,
		RobMinTarget:       100,
		RobMaxSteal:        500,
		RobPenaltyMin:      100,
		RobPenaltyMax:      1000,
	}
}

// ValidateStake checks a stake against the balance and an optional max.
func ValidateStake(w Wager, max int64) error {
	if w.Stake <= 0 {
		return reject(ErrInvalidArgument, "bet must be a positive amount")
	}
	if max > 0 && w.Stake > max {
		return reject(ErrInvalidArgument, "bet must be between 1 and %d coins", max)
	}
	if w.Stake > w.Balance {
		return reject(ErrInsufficientFunds, "you only have %d coins", w.Balance)
	}
	return nil
}

func settle(game Game, stake, delta int64, detail, note string) Result {
	outcome := Push
	switch {
	case delta > 0:
		outcome = Win
	case delta < 0:
		outcome = Loss
	}
	return Result{Game: game, Outcome: outcome, Stake: stake, Delta: delta, Detail: detail, Note: note}
}
