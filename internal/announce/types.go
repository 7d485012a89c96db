// Package announce posts graveyard and level events to chat webhooks in the
// background.
package announce

import (
	"time"
)

type Kind string

const (
	KindDeath   Kind = "death"
	KindRevive  Kind = "revive"
	KindLevelUp Kind = "level_up"
)

// Announcer accepts events without blocking the caller.
type Announcer interface {
	Announce(ev Event) bool
}

// Nop drops every event; used when no webhook is configured.
type Nop struct{}

func (Nop) Announce(Event) bool { return false }

// Event is one thing worth telling the channel about. Seq is the death log
// sequence for death and revive; Level is set for level_up.
type Event struct {
	Kind      Kind
	Subject   string
	Reason    string
	Seq       int64
	Level     int
	Total     int
	Anonymous bool
	At        time.Time
}

type Target struct {
	Platform string
	Endpoint string
}

type Config struct {
	Targets map[Kind][]Target
	Workers int
	// RetryMax and RetryBase shape the default backoff; Retry overrides it
	// per kind.
	RetryMax            int
	RetryBase           time.Duration
	RetryCap            time.Duration
	Retry               map[Kind]RetryPolicy
	FailureThreshold    int
	CircuitOpenDuration time.Duration
	RequestTimeout      time.Duration
	DispatchBuffer      int
}

// RetryPolicy is exponential backoff from Base, doubling per attempt up to
// Cap, for at most Max resends.
type RetryPolicy struct {
	Max  int
	Base time.Duration
	Cap  time.Duration
}

// levelUpRetryMax bounds level-up resends by default: a congratulation that
// arrives minutes late reads as noise, a late death entry does not.
const levelUpRetryMax = 1

// retryPolicy resolves the policy for kind, filling unset fields from the
// global settings.
func (c Config) retryPolicy(kind Kind) RetryPolicy {
	p, ok := c.Retry[kind]
	if !ok {
		p = RetryPolicy{Max: c.RetryMax}
		if kind == KindLevelUp && p.Max > levelUpRetryMax {
			p.Max = levelUpRetryMax
		}
	}
	if p.Base <= 0 {
		p.Base = c.RetryBase
	}
	if p.Cap <= 0 {
		p.Cap = c.RetryCap
	}
	return p
}

// delay is the wait before resend number attempt (1-based).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := p.Base
	for i := 1; i < attempt && (p.Cap <= 0 || d < p.Cap); i++ {
		d *= 2
	}
	if p.Cap > 0 && d > p.Cap {
		d = p.Cap
	}
	return d
}

// dropReason labels why an announcement was never delivered.
type dropReason string

const (
	dropQueueFull dropReason = "queue_full"
	dropNoAdapter dropReason = "no_adapter"
	dropRejected  dropReason = "rejected"
	dropExhausted dropReason = "retries_exhausted"
	dropStopped   dropReason = "stopped"
)

type MessageField struct {
	Name   string
	Value  string
	Inline bool
}

type FormattedMessage struct {
	Title       string
	Content     string
	Description string
	Color       int
	Timestamp   string
	Footer      string
	Fields      []MessageField
}

type pushJob struct {
	Target    Target
	Event     Event
	Formatted FormattedMessage
	Attempt   int
}

func (j pushJob) key() string {
	return j.Target.Platform + "|" + j.Target.Endpoint
}
