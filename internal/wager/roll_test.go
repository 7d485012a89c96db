package wager

import (
	"errors"
	"testing"
)

func TestResolveRoll(t *testing.T) {
	p := DefaultPolicy()
	cases := []struct {
		roll  int
		stake int64
		delta int64
		out   Outcome
	}{
		{roll: 1, stake: 100, delta: -100, out: Loss},
		{roll: 59, stake: 100, delta: -100, out: Loss},
		{roll: 60, stake: 100, delta: 50, out: Win},
		{roll: 89, stake: 101, delta: 50, out: Win},
		{roll: 90, stake: 100, delta: 200, out: Win},
		{roll: 100, stake: 7, delta: 14, out: Win},
		{roll: 75, stake: 1, delta: 0, out: Push},
	}
	for _, tc := range cases {
		res, err := p.ResolveRoll(Wager{Stake: tc.stake, Balance: 1000}, tc.roll)
		if err != nil {
			t.Fatalf("roll %d: %v", tc.roll, err)
		}
		if res.Delta != tc.delta || res.Outcome != tc.out {
			t.Fatalf("roll %d stake %d: got %d %s, want %d %s", tc.roll, tc.stake, res.Delta, res.Outcome, tc.delta, tc.out)
		}
	}
}

func TestResolveRollRejects(t *testing.T) {
	p := DefaultPolicy()
	if _, err := p.ResolveRoll(Wager{Stake: 10, Balance: 10}, 0); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("roll 0 err = %v", err)
	}
	if _, err := p.ResolveRoll(Wager{Stake: 10, Balance: 10}, 101); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("roll 101 err = %v", err)
	}
	if _, err := p.ResolveRoll(Wager{Stake: 0, Balance: 10}, 50); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("zero stake err = %v", err)
	}
	p.RollMaxBet = 5
	if _, err := p.ResolveRoll(Wager{Stake: 10, Balance: 10}, 50); !errors.Is(err, ErrInvalidArgument) {
		t.Fatalf("over max err = %v", err)
	}
}

func TestEngineRollDrawsOneToHundred(t *testing.T) {
	e := newEngine(t, 99)
	res, err := e.Roll(Wager{Stake: 10, Balance: 10})
	if err != nil {
		t.Fatalf("Roll() error = %v", err)
	}
	if res.Detail != "rolled 100" || res.Delta != 20 {
		t.Fatalf("got %+v, want rolled 100 and +20", res)
	}
}

func TestEngineRollValidatesBeforeDrawing(t *testing.T) {
	e := newEngine(t)
	if _, err := e.Roll(Wager{Stake: 10, Balance: 5}); !errors.Is(err, ErrInsufficientFunds) {
		t.Fatalf("err = %v, want insufficient funds", err)
	}
}
