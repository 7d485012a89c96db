package bot

import (
	"context"
	"errors"
	"fmt"

	"coal-bot/internal/levels"
	"coal-bot/internal/store"
)

const colorLevels = 0x5865F2

func (d *Dispatcher) rank(ctx context.Context, req *request) (Reply, error) {
	id, ok := target(req, 0)
	if !ok {
		return Reply{}, usage("rank [user]")
	}
	a, err := d.store.Get(ctx, id)
	if errors.Is(err, store.ErrNotFound) || (err == nil && a.Experience == 0) {
		return text(mention(id) + " hasn't earned any XP yet."), nil
	}
	if err != nil {
		return Reply{}, err
	}
	p := levels.FromExperience(a.Experience)
	return embed(Embed{
		Title:       "📈 Rank",
		Description: mention(id),
		Color:       colorLevels,
		Fields: []Field{
			{Name: "Level", Value: fmt.Sprint(p.Level), Inline: true},
			{Name: "Progress", Value: fmt.Sprintf("%s / %s XP", coins(p.Into), coins(p.Needed)), Inline: true},
			{Name: "Total XP", Value: coins(p.Total), Inline: true},
			{Name: "Next level", Value: p.Bar()},
		},
	}), nil
}

func (d *Dispatcher) top(ctx context.Context, _ *request) (Reply, error) {
	top, err := d.store.TopN(ctx, store.MetricExperience, 10)
	if err != nil {
		return Reply{}, err
	}
	e := Embed{Title: "🏆 Level Leaderboard", Color: colorLevels}
	for _, s := range top {
		if s.Value == 0 {
			continue
		}
		p := levels.FromExperience(s.Value)
		e.Fields = append(e.Fields, Field{
			Name:  fmt.Sprintf("%s Level %d", medal(s.Rank), p.Level),
			Value: fmt.Sprintf("%s · %s total XP", mention(s.UserID), coins(s.Value)),
		})
	}
	if len(e.Fields) == 0 {
		return text("No users on the leaderboard yet."), nil
	}
	return embed(e), nil
}
