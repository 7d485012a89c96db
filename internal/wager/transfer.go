package wager

func (p Policy) checkRob(req RobRequest) error {
	if req.Actor == req.Target {
		return reject(ErrInvalidOperation, "you cannot rob yourself")
	}
	if !req.TargetExists {
		return reject(ErrInvalidOperation, "that user is not in the database")
	}
	if req.TargetBalance < p.RobMinTarget {
		return reject(ErrInvalidOperation, "that person is too broke to rob")
	}
	return nil
}

// robStealCap is the most a successful rob can take from req's target.
func (p Policy) robStealCap(req RobRequest) int64 {
	limit := req.TargetBalance
	if p.RobMaxSteal > 0 && limit > p.RobMaxSteal {
		limit = p.RobMaxSteal
	}
	return limit
}

// ResolveRob succeeds when draw.Chance <= RobSuccessPercent and steals
// draw.Amount clamped to 1..min(target, RobMaxSteal). A caught robber pays
// draw.Amount, never more than their own balance.
func (p Policy) ResolveRob(req RobRequest, draw RobDraw) (TransferOutcome, error) {
	if err := p.checkRob(req); err != nil {
		return TransferOutcome{}, err
	}
	if draw.Chance < 1 || draw.Chance > 100 {
		return TransferOutcome{}, reject(ErrInvalidArgument, "rob chance %d out of range 1..100", draw.Chance)
	}
	if draw.Chance <= p.RobSuccessPercent {
		stolen := clamp(draw.Amount, 1, p.robStealCap(req))
		return TransferOutcome{Succeeded: true, Amount: stolen}, nil
	}
	penalty := clamp(draw.Amount, 0, req.ActorBalance)
	return TransferOutcome{Succeeded: false, Penalty: penalty}, nil
}

func (p Policy) ResolveGive(req GiveRequest) (TransferOutcome, error) {
	if req.Source == req.Target {
		return TransferOutcome{}, reject(ErrInvalidOperation, "you cannot give coins to yourself")
	}
	if req.Amount <= 0 {
		return TransferOutcome{}, reject(ErrInvalidArgument, "amount must be positive")
	}
	if !req.TargetExists {
		return TransferOutcome{}, reject(ErrInvalidOperation, "that user is not in the database")
	}
	if req.Amount > req.SourceBalance {
		return TransferOutcome{}, reject(ErrInsufficientFunds, "you only have %d coins", req.SourceBalance)
	}
	return TransferOutcome{Succeeded: true, Amount: req.Amount}, nil
}

func clamp(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
