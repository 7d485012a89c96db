package bot

import (
	"errors"
	"fmt"

	"coal-bot/internal/grave"
	"coal-bot/internal/wager"
)

const genericFailure = "Something went wrong, try again later."

// usageError is a malformed invocation; the reply shows the usage line.
type usageError struct {
	usage string
}

func (e *usageError) Error() string {
	return "usage: " + e.usage
}

type outcome string

const (
	outcomeOK       outcome = "ok"
	outcomeRejected outcome = "rejected"
	outcomeFailed   outcome = "failed"
)

// replyForError turns a handler error into the user-facing reply. Anything
// not recognised as a rule violation is reported generically.
func replyForError(prefix string, err error) (Reply, outcome) {
	var cd *wager.CooldownError
	if errors.As(err, &cd) {
		return text(fmt.Sprintf("⏳ You already claimed your daily reward. Come back in %s.", wait(cd.Remaining))), outcomeRejected
	}
	var rule *wager.RuleError
	if errors.As(err, &rule) {
		return text("❌ " + capitalize(rule.Detail) + "."), outcomeRejected
	}
	var usage *usageError
	if errors.As(err, &usage) {
		return text("Usage: `" + prefix + usage.usage + "`"), outcomeRejected
	}
	if errors.Is(err, grave.ErrReviveAnonymous) {
		return text("Cannot revive anonymous deaths (ID 0)."), outcomeRejected
	}
	if errors.Is(err, errUnterminatedQuote) {
		return text("❌ Unmatched quote in arguments."), outcomeRejected
	}
	return text(genericFailure), outcomeFailed
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	b := []byte(s)
	if b[0] >= 'a' && b[0] <= 'z' {
		b[0] -= 'a' - 'A'
	}
	return string(b)
}
