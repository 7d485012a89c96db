package wager

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrInvalidArgument   = errors.New("invalid_argument")
	ErrInsufficientFunds = errors.New("insufficient_funds")
	ErrInvalidOperation  = errors.New("invalid_operation")
	ErrClaimOnCooldown   = errors.New("claim_on_cooldown")
)

// RuleError is a rejected request. Detail is safe to show to the player.
type RuleError struct {
	Kind   error
	Detail string
}

func (e *RuleError) Error() string {
	return e.Kind.Error() + ": " + e.Detail
}

func (e *RuleError) Unwrap() error {
	return e.Kind
}

func reject(kind error, format string, args ...any) error {
	return &RuleError{Kind: kind, Detail: fmt.Sprintf(format, args...)}
}

// CooldownError matches ErrClaimOnCooldown and carries the remaining wait.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s: %s remaining", ErrClaimOnCooldown, e.Remaining.Round(time.Second))
}

func (e *CooldownError) Is(target error) bool {
	return target == ErrClaimOnCooldown
}
