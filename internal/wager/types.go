package wager

import (
	"strings"
	"time"
)

type Game string

const (
	GameCoinFlip Game = "coinflip"
	GameRoll     Game = "roll"
	GameSlots    Game = "slots"
)

type Outcome string

const (
	Win  Outcome = "win"
	Loss Outcome = "loss"
	Push Outcome = "push"
)

type Side string

const (
	Heads Side = "heads"
	Tails Side = "tails"
)

// ParseSide accepts heads, tails, h and t in any case.
func ParseSide(s string) (Side, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "heads", "h":
		return Heads, nil
	case "tails", "t":
		return Tails, nil
	default:
		return "", reject(ErrInvalidArgument, "call must be heads or tails")
	}
}

// Wager is a stake placed against the actor's current balance.
type Wager struct {
	Stake   int64
	Balance int64
}

// Result is the settlement of one game. Delta is the signed balance change.
type Result struct {
	Game    Game
	Outcome Outcome
	Stake   int64
	Delta   int64
	Detail  string
	Note    string
}

type RobRequest struct {
	Actor         string
	Target        string
	ActorBalance  int64
	TargetBalance int64
	TargetExists  bool
}

// RobDraw is the randomness consumed by one rob: Chance in 1..100 and the
// raw amount drawn for either the theft or the penalty.
type RobDraw struct {
	Chance int
	Amount int64
}

type GiveRequest struct {
	Source        string
	Target        string
	Amount        int64
	SourceBalance int64
	TargetExists  bool
}

// TransferOutcome describes a give or rob. Amount moves from the losing side
// to the winning side; Penalty is taken from a caught robber.
type TransferOutcome struct {
	Succeeded bool
	Amount    int64
	Penalty   int64
}

type ClaimOutcome struct {
	Reward    int64
	ClaimedAt time.Time
	NextClaim time.Time
}

type WorkDraw struct {
	Chance   int
	Earnings int64
	Phrase   int
}

type WorkOutcome struct {
	Succeeded bool
	Earned    int64
	Phrase    string
}
