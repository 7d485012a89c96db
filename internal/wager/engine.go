package wager

import "time"

// Source is the randomness behind every draw. Intn returns a value in [0, n).
// Implementations must be safe for concurrent use.
type Source interface {
	Intn(n int) int
}

// Engine binds a Policy to a Source. The Resolve methods on Policy stay pure;
// Engine only draws the random inputs and forwards them.
type Engine struct {
	Policy
	src Source
}

func NewEngine(src Source, p Policy) *Engine {
	return &Engine{Policy: p, src: src}
}

func (e *Engine) CoinFlip(w Wager, called Side) (Result, error) {
	if err := ValidateStake(w, 0); err != nil {
		return Result{}, err
	}
	landed := Heads
	if e.src.Intn(2) == 1 {
		landed = Tails
	}
	return e.ResolveCoinFlip(w, called, landed)
}

func (e *Engine) Roll(w Wager) (Result, error) {
	if err := ValidateStake(w, e.RollMaxBet); err != nil {
		return Result{}, err
	}
	return e.ResolveRoll(w, e.src.Intn(RollSides)+1)
}

func (e *Engine) Slots(w Wager) (Result, error) {
	if err := ValidateStake(w, e.SlotsMaxBet); err != nil {
		return Result{}, err
	}
	var reels [3]Symbol
	for i := range reels {
		reels[i] = symbolAt(e.src.Intn(reelWeight))
	}
	return e.ResolveSlots(w, reels)
}

func (e *Engine) Rob(req RobRequest) (TransferOutcome, error) {
	if err := e.checkRob(req); err != nil {
		return TransferOutcome{}, err
	}
	chance := e.between(1, 100)
	var amount int64
	if int(chance) <= e.RobSuccessPercent {
		amount = e.between(1, e.robStealCap(req))
	} else {
		amount = e.between(e.RobPenaltyMin, e.RobPenaltyMax)
	}
	return e.ResolveRob(req, RobDraw{Chance: int(chance), Amount: amount})
}

func (e *Engine) Give(req GiveRequest) (TransferOutcome, error) {
	return e.ResolveGive(req)
}

func (e *Engine) Daily(lastClaim *time.Time, now time.Time) (ClaimOutcome, error) {
	return e.ResolveDaily(lastClaim, now)
}

func (e *Engine) Work() WorkOutcome {
	return e.ResolveWork(WorkDraw{
		Chance:   int(e.between(1, 100)),
		Earnings: e.between(e.WorkMin, e.WorkMax),
		Phrase:   e.src.Intn(len(workSuccessPhrases) * len(workFailPhrases)),
	})
}

// Intn exposes the engine's source for non-wager draws such as passive XP.
func (e *Engine) Intn(n int) int {
	return e.src.Intn(n)
}

// between draws uniformly from [lo, hi].
func (e *Engine) between(lo, hi int64) int64 {
	if hi <= lo {
		return lo
	}
	return lo + int64(e.src.Intn(int(hi-lo+1)))
}
