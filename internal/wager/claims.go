package wager

import "time"

// ResolveDaily grants DailyReward when no claim exists or the last one is at
// least DailyPeriod old.
func (p Policy) ResolveDaily(lastClaim *time.Time, now time.Time) (ClaimOutcome, error) {
	if lastClaim != nil {
		next := lastClaim.Add(p.DailyPeriod)
		if now.Before(next) {
			return ClaimOutcome{}, &CooldownError{Remaining: next.Sub(now)}
		}
	}
	return ClaimOutcome{
		Reward:    p.DailyReward,
		ClaimedAt: now,
		NextClaim: now.Add(p.DailyPeriod),
	}, nil
}

var (
	workSuccessPhrases = []string{
		"You cleared the mine shaft before lunch.",
		"You hauled three carts of coal up the ramp.",
		"The foreman liked your shift report.",
		"You found a seam nobody else noticed.",
		"You fixed the lift and the whole crew cheered.",
	}
	workFailPhrases = []string{
		"Your pickaxe snapped in the first hour.",
		"You took the wrong tunnel and wandered all day.",
		"The cart derailed and spilled everything.",
		"You slept through the shift whistle.",
	}
)

// ResolveWork never fails and has no cooldown. A failed shift earns nothing.
func (p Policy) ResolveWork(draw WorkDraw) WorkOutcome {
	if draw.Chance <= 100-p.WorkSuccessPercent {
		return WorkOutcome{Succeeded: false, Earned: 0, Phrase: pick(workFailPhrases, draw.Phrase)}
	}
	earned := clamp(draw.Earnings, p.WorkMin, p.WorkMax)
	return WorkOutcome{Succeeded: true, Earned: earned, Phrase: pick(workSuccessPhrases, draw.Phrase)}
}

func pick(list []string, i int) string {
	if i < 0 {
		i = -i
	}
	return list[i%len(list)]
}
