package wager

import "fmt"

const (
	RollSides      = 100
	rollBigWinAt   = 90
	rollSmallWinAt = 60
)

// ResolveRoll maps a 1..100 roll to a return: 90+ returns 3x the stake, 60+
// returns 1.5x (floored), anything lower loses the stake.
func (p Policy) ResolveRoll(w Wager, roll int) (Result, error) {
	if roll < 1 || roll > RollSides {
		return Result{}, reject(ErrInvalidArgument, "roll %d out of range 1..%d", roll, RollSides)
	}
	if err := ValidateStake(w, p.RollMaxBet); err != nil {
		return Result{}, err
	}
	var delta int64
	var note string
	switch {
	case roll >= rollBigWinAt:
		delta = w.Stake*3 - w.Stake
		note = "Triple payout!"
	case roll >= rollSmallWinAt:
		delta = w.Stake*3/2 - w.Stake
		note = "One and a half payout."
	default:
		delta = -w.Stake
		note = fmt.Sprintf("Needed %d or more.", rollSmallWinAt)
	}
	return settle(GameRoll, w.Stake, delta, fmt.Sprintf("rolled %d", roll), note), nil
}
