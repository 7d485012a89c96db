package wager

import "strings"

type Symbol string

const (
	Star     Symbol = "⭐"
	Cherry   Symbol = "🍒"
	Lemon    Symbol = "🍋"
	Orange   Symbol = "🍊"
	Melon    Symbol = "🍉"
	Seven    Symbol = "7️⃣"
	MoneyBag Symbol = "💰"
	Diamond  Symbol = "💎"
	Cash     Symbol = "💵"
)

type reelStop struct {
	Symbol Symbol
	Weight int
}

// Star is wild. Weights sum to reelWeight.
var reel = []reelStop{
	{Star, 1},
	{Cherry, 4},
	{Lemon, 4},
	{Orange, 4},
	{Melon, 3},
	{Seven, 2},
	{MoneyBag, 2},
	{Diamond, 1},
	{Cash, 3},
}

var reelWeight = func() int {
	total := 0
	for _, s := range reel {
		total += s.Weight
	}
	return total
}()

// symbolAt maps a draw in [0, reelWeight) onto the weighted reel.
func symbolAt(n int) Symbol {
	for _, s := range reel {
		if n < s.Weight {
			return s.Symbol
		}
		n -= s.Weight
	}
	return reel[len(reel)-1].Symbol
}

func knownSymbol(s Symbol) bool {
	for _, stop := range reel {
		if stop.Symbol == s {
			return true
		}
	}
	return false
}

// slotsMultiplier returns the total return multiple and its label. Zero is a loss.
func slotsMultiplier(reels [3]Symbol) (int64, string) {
	stars := 0
	counts := map[Symbol]int{}
	for _, s := range reels {
		if s == Star {
			stars++
			continue
		}
		counts[s]++
	}
	pair := false
	triple := false
	for _, n := range counts {
		if n == 3 {
			triple = true
		}
		if n == 2 {
			pair = true
		}
	}
	switch {
	case stars == 3:
		return 100, "JACKPOT!"
	case triple:
		return 50, "Triple match!"
	case stars == 1 && pair:
		return 10, "Wild match!"
	case stars == 2:
		return 5, "Two stars!"
	case stars == 1:
		return 3, "One star!"
	case pair:
		return 2, "Pair!"
	default:
		return 0, "No match."
	}
}

func (p Policy) ResolveSlots(w Wager, reels [3]Symbol) (Result, error) {
	for _, s := range reels {
		if !knownSymbol(s) {
			return Result{}, reject(ErrInvalidArgument, "unknown reel symbol %q", s)
		}
	}
	if err := ValidateStake(w, p.SlotsMaxBet); err != nil {
		return Result{}, err
	}
	mult, note := slotsMultiplier(reels)
	delta := -w.Stake
	if mult > 0 {
		delta = w.Stake * mult
	}
	detail := strings.Join([]string{string(reels[0]), string(reels[1]), string(reels[2])}, " | ")
	return settle(GameSlots, w.Stake, delta, detail, note), nil
}
