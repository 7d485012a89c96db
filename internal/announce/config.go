package announce

import (
	"coal-bot/internal/config"
)

const platformDiscord = "discord"

// FromConfig routes deaths and revives to the death webhook and level-ups to
// the level webhook.
func FromConfig(c config.AnnounceConfig) Config {
	targets := map[Kind][]Target{}
	if c.DeathWebhookURL != "" {
		t := Target{Platform: platformDiscord, Endpoint: c.DeathWebhookURL}
		targets[KindDeath] = []Target{t}
		targets[KindRevive] = []Target{t}
	}
	if c.LevelWebhookURL != "" {
		targets[KindLevelUp] = []Target{{Platform: platformDiscord, Endpoint: c.LevelWebhookURL}}
	}
	return Config{
		Targets:   targets,
		Workers:   c.Workers,
		RetryMax:  c.RetryMax,
		RetryBase: c.RetryBase,
		RetryCap:  c.RetryCap,
		Retry: map[Kind]RetryPolicy{
			KindLevelUp: {Max: c.LevelRetryMax},
		},
		RequestTimeout: c.RequestTimeout,
		DispatchBuffer: c.Buffer,
	}
}
