package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"coal-bot/internal/store"
)

const (
	colorGold  = 0xF1C40F
	colorGreen = 0x2ECC71
	colorRed   = 0xE74C3C
)

// target resolves the optional user argument at i, defaulting to the invoker.
func target(req *request, i int) (string, bool) {
	if len(req.Args) <= i {
		return req.AuthorID, true
	}
	return MentionID(req.Args[i])
}

func (d *Dispatcher) balance(ctx context.Context, req *request) (Reply, error) {
	id, ok := target(req, 0)
	if !ok {
		return Reply{}, usage("balance [user]")
	}
	var a store.Account
	var err error
	if id == req.AuthorID {
		a, err = d.store.GetOrCreate(ctx, id)
	} else {
		a, err = d.store.Get(ctx, id)
		if errors.Is(err, store.ErrNotFound) {
			return text("That user is not in the database."), nil
		}
	}
	if err != nil {
		return Reply{}, err
	}
	return embed(Embed{
		Title:       "💰 Balance",
		Description: fmt.Sprintf("%s has **%s** coins", mention(id), coins(a.Balance)),
		Color:       colorGold,
	}), nil
}

func (d *Dispatcher) daily(ctx context.Context, req *request) (Reply, error) {
	claim, err := d.ledger.Daily(ctx, req.AuthorID)
	if err != nil {
		return Reply{}, err
	}
	return embed(Embed{
		Title:       "🎁 Daily reward",
		Description: fmt.Sprintf("You claimed **%s** coins!\nBalance: 💰 %s coins", coins(claim.Outcome.Reward), coins(claim.Account.Balance)),
		Color:       colorGreen,
		Footer:      "Come back in " + wait(claim.Outcome.NextClaim.Sub(claim.Outcome.ClaimedAt)),
	}), nil
}

func (d *Dispatcher) work(ctx context.Context, req *request) (Reply, error) {
	shift, err := d.ledger.Work(ctx, req.AuthorID)
	if err != nil {
		return Reply{}, err
	}
	if !shift.Outcome.Succeeded {
		return embed(Embed{
			Title:       "⛏️ Rough shift",
			Description: shift.Outcome.Phrase + "\nYou earned nothing.",
			Color:       colorRed,
		}), nil
	}
	return embed(Embed{
		Title:       "⛏️ Work",
		Description: fmt.Sprintf("%s\nYou earned **%s** coins. Balance: 💰 %s", shift.Outcome.Phrase, coins(shift.Outcome.Earned), coins(shift.Account.Balance)),
		Color:       colorGreen,
	}), nil
}

func (d *Dispatcher) give(ctx context.Context, req *request) (Reply, error) {
	if len(req.Args) < 2 {
		return Reply{}, usage("give <user> <amount>")
	}
	to, ok := MentionID(req.Args[0])
	if !ok {
		return Reply{}, usage("give <user> <amount>")
	}
	amount, ok := parseAmount(req.Args[1])
	if !ok {
		return Reply{}, usage("give <user> <amount>")
	}
	tr, err := d.ledger.Give(ctx, req.AuthorID, to, amount)
	if err != nil {
		return Reply{}, err
	}
	return text(fmt.Sprintf("✅ Transferred **%s** coins to %s. Your balance: 💰 %s", coins(tr.Outcome.Amount), mention(to), coins(tr.Actor.Balance))), nil
}

func (d *Dispatcher) rob(ctx context.Context, req *request) (Reply, error) {
	if len(req.Args) < 1 {
		return Reply{}, usage("rob <user>")
	}
	victim, ok := MentionID(req.Args[0])
	if !ok {
		return Reply{}, usage("rob <user>")
	}
	tr, err := d.ledger.Rob(ctx, req.AuthorID, victim)
	if err != nil {
		return Reply{}, err
	}
	if tr.Outcome.Succeeded {
		return text(fmt.Sprintf("🦹 You robbed %s and got away with **%s** coins!", mention(victim), coins(tr.Outcome.Amount))), nil
	}
	if tr.Outcome.Penalty == 0 {
		return text("🚓 You got caught, but you had nothing to pay the fine with."), nil
	}
	return text(fmt.Sprintf("🚓 You got caught and paid a **%s** coin fine.", coins(tr.Outcome.Penalty))), nil
}

func (d *Dispatcher) leaderboard(ctx context.Context, req *request) (Reply, error) {
	top, err := d.store.TopN(ctx, store.MetricBalance, 10)
	if err != nil {
		return Reply{}, err
	}
	if len(top) == 0 {
		return text("No balances found!"), nil
	}
	e := Embed{Title: "💰 Wealth Leaderboard", Description: "Top balances in the server", Color: colorGold}
	for _, s := range top {
		e.Fields = append(e.Fields, Field{Name: medal(s.Rank), Value: fmt.Sprintf("%s · %s coins", mention(s.UserID), coins(s.Value))})
	}
	if req.AuthorName != "" {
		e.Footer = "Requested by " + req.AuthorName
	}
	return embed(e), nil
}

func (d *Dispatcher) adminArgs(req *request) (string, int64, error) {
	u := req.Command + " <user> <amount>"
	if len(req.Args) < 2 {
		return "", 0, usage(u)
	}
	id, ok := MentionID(req.Args[0])
	if !ok {
		return "", 0, usage(u)
	}
	amount, ok := parseAmount(req.Args[1])
	if !ok {
		return "", 0, usage(u)
	}
	return id, amount, nil
}

func (d *Dispatcher) adminGive(ctx context.Context, req *request) (Reply, error) {
	id, amount, err := d.adminArgs(req)
	if err != nil {
		return Reply{}, err
	}
	a, err := d.ledger.Grant(ctx, id, amount)
	if err != nil {
		return Reply{}, err
	}
	return text(fmt.Sprintf("🏦 Granted **%s** coins to %s. New balance: %s", coins(amount), mention(id), coins(a.Balance))), nil
}

func (d *Dispatcher) adminTake(ctx context.Context, req *request) (Reply, error) {
	id, amount, err := d.adminArgs(req)
	if err != nil {
		return Reply{}, err
	}
	a, taken, err := d.ledger.Seize(ctx, id, amount)
	if err != nil {
		return Reply{}, err
	}
	var b strings.Builder
	fmt.Fprintf(&b, "🏦 Took **%s** coins from %s. New balance: %s", coins(taken), mention(id), coins(a.Balance))
	if taken < amount {
		b.WriteString(" (they did not have the full amount)")
	}
	return text(b.String()), nil
}
