package wager

// ResolveCoinFlip pays even money: +stake on a matching call, -stake otherwise.
func (p Policy) ResolveCoinFlip(w Wager, called, landed Side) (Result, error) {
	if called != Heads && called != Tails {
		return Result{}, reject(ErrInvalidArgument, "call must be heads or tails")
	}
	if landed != Heads && landed != Tails {
		return Result{}, reject(ErrInvalidArgument, "coin landed on an unknown face %q", landed)
	}
	if err := ValidateStake(w, 0); err != nil {
		return Result{}, err
	}
	delta := -w.Stake
	if called == landed {
		delta = w.Stake
	}
	return settle(GameCoinFlip, w.Stake, delta, string(landed), ""), nil
}
