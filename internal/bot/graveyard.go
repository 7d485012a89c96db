package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"coal-bot/internal/announce"
	"coal-bot/internal/grave"
	"coal-bot/internal/store"
)

const (
	obitWindow       = 10
	obitWarnAt       = 100
	colorGrave       = 0x992D22
	deathLogFileName = "death_log.txt"
)

func (d *Dispatcher) death(ctx context.Context, req *request) (Reply, error) {
	entry := grave.ParseDeath(req.AuthorID, req.Args)
	dth, err := d.store.RecordDeath(ctx, entry.Subject, entry.Reason)
	if err != nil {
		return Reply{}, err
	}
	anon := entry.Subject == grave.Anonymous
	d.announcer.Announce(announce.Event{
		Kind:      announce.KindDeath,
		Subject:   entry.Subject,
		Reason:    entry.Reason,
		Seq:       dth.Seq,
		Anonymous: anon,
		At:        dth.CreatedAt,
	})
	if anon {
		return text(fmt.Sprintf("💀 A new soul has entered the graveyard anonymously. (Death #%d)", dth.Seq)), nil
	}
	return text(fmt.Sprintf("💀 A new soul has entered the graveyard. (Death #%d)", dth.Seq)), nil
}

func (d *Dispatcher) revive(ctx context.Context, req *request) (Reply, error) {
	entry, err := grave.ParseRevive(req.AuthorID, req.Args)
	if err != nil {
		return Reply{}, err
	}
	cleared, _, err := d.store.ClearDeath(ctx, entry.Subject)
	if errors.Is(err, store.ErrNotFound) {
		return text("Hmmmm, they don't seem dead yet... keep trying! 😉"), nil
	}
	if err != nil {
		return Reply{}, err
	}
	d.announcer.Announce(announce.Event{
		Kind:    announce.KindRevive,
		Subject: entry.Subject,
		Reason:  entry.Reason,
		Seq:     cleared.Seq,
		At:      time.Now(),
	})
	msg := fmt.Sprintf("🕊️ A soul has been revived: %s.", mention(entry.Subject))
	if entry.Reason != "" {
		msg += " They found the reason to live because of " + entry.Reason + "."
	}
	return text(msg), nil
}

func (d *Dispatcher) obit(ctx context.Context, req *request) (Reply, error) {
	q := grave.ParseObit(req.AuthorID, req.Args)
	switch q.Kind {
	case grave.QueryAll:
		return d.fullLog(ctx)
	case grave.QueryAnonymous:
		deaths, total, err := d.store.Deaths(ctx, grave.Anonymous, obitWindow)
		if err != nil {
			return Reply{}, err
		}
		if total == 0 {
			return text("No anonymous death logs found."), nil
		}
		return embed(Embed{
			Title:       "💀 Anonymous Death Logs (ID 0)",
			Description: deathLines(deaths, "No reason"),
			Color:       colorGrave,
			Footer:      fmt.Sprintf("Total anonymous deaths: %d", total),
		}), nil
	}

	deaths, total, err := d.store.Deaths(ctx, q.Subject, obitWindow)
	if err != nil {
		return Reply{}, err
	}
	if total == 0 {
		return text("Hmmmm, they don't seem dead yet... keep trying! 😉"), nil
	}
	r := embed(Embed{
		Title:       "💀 Obituary",
		Description: mention(q.Subject) + "\n" + deathLines(deaths, "Rest In Peace :("),
		Color:       colorRed,
		Footer:      fmt.Sprintf("Total deaths: %d. Showing last %d entries. | May they rest in peace.", total, len(deaths)),
	})
	if total >= obitWarnAt {
		r.Content = "Holy smokes, that is a lot of deaths... you might want to stop dying! 🤯"
	}
	return r, nil
}

func (d *Dispatcher) fullLog(ctx context.Context) (Reply, error) {
	all, err := d.store.AllDeaths(ctx)
	if err != nil {
		return Reply{}, err
	}
	if len(all) == 0 {
		return text("No death logs found. (The graveyard is empty.)"), nil
	}
	var b strings.Builder
	for _, dth := range all {
		reason := dth.Reason
		if reason == "" {
			reason = "No reason"
		}
		fmt.Fprintf(&b, "[%d] User ID: %s | Reason: %s\n", dth.Seq, dth.Subject, reason)
	}
	return Reply{
		Content: "Here is the full death log.",
		Files:   []File{{Name: deathLogFileName, ContentType: "text/plain; charset=utf-8", Data: []byte(b.String())}},
	}, nil
}

func deathLines(deaths []store.Death, fallback string) string {
	lines := make([]string, 0, len(deaths))
	for _, dth := range deaths {
		reason := dth.Reason
		if reason == "" {
			reason = fallback
		}
		lines = append(lines, fmt.Sprintf("**%d** - %s", dth.Seq, reason))
	}
	return strings.Join(lines, "\n")
}
