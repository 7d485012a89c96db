package bot

import (
	"context"
	"fmt"

	"coal-bot/internal/ledger"
	"coal-bot/internal/wager"
)

const defaultStake = 100

// stakeArg reads an optional bet at position i.
func stakeArg(req *request, i int, u string) (int64, error) {
	if len(req.Args) <= i {
		return defaultStake, nil
	}
	v, ok := parseAmount(req.Args[i])
	if !ok {
		return 0, usage(u)
	}
	return v, nil
}

// flipArgs accepts the bet and the call in either order. The token that
// parses as an amount is the bet; the other one is the call.
func flipArgs(args []string, u string) (wager.Side, int64, error) {
	var callTok, betTok string
	switch len(args) {
	case 1:
		if _, ok := parseAmount(args[0]); ok {
			return "", 0, usage(u)
		}
		callTok = args[0]
	case 2:
		if _, ok := parseAmount(args[0]); ok {
			betTok, callTok = args[0], args[1]
		} else {
			callTok, betTok = args[0], args[1]
		}
	default:
		return "", 0, usage(u)
	}
	side, err := wager.ParseSide(callTok)
	if err != nil {
		return "", 0, err
	}
	if betTok == "" {
		return side, defaultStake, nil
	}
	stake, ok := parseAmount(betTok)
	if !ok {
		return "", 0, usage(u)
	}
	return side, stake, nil
}

func (d *Dispatcher) coinflip(ctx context.Context, req *request) (Reply, error) {
	side, stake, err := flipArgs(req.Args, "coinflip [bet] <heads|tails>")
	if err != nil {
		return Reply{}, err
	}
	play, err := d.ledger.CoinFlip(ctx, req.AuthorID, stake, side)
	if err != nil {
		return Reply{}, err
	}
	return d.settled(play, fmt.Sprintf("🪙 The coin landed on: **%s**", play.Result.Detail)), nil
}

func (d *Dispatcher) roll(ctx context.Context, req *request) (Reply, error) {
	stake, err := stakeArg(req, 0, "roll [bet]")
	if err != nil {
		return Reply{}, err
	}
	play, err := d.ledger.Roll(ctx, req.AuthorID, stake)
	if err != nil {
		return Reply{}, err
	}
	return d.settled(play, fmt.Sprintf("🎲 You %s. %s", play.Result.Detail, play.Result.Note)), nil
}

func (d *Dispatcher) slots(ctx context.Context, req *request) (Reply, error) {
	stake, err := stakeArg(req, 0, "slots [bet]")
	if err != nil {
		return Reply{}, err
	}
	play, err := d.ledger.Slots(ctx, req.AuthorID, stake)
	if err != nil {
		return Reply{}, err
	}
	return d.settled(play, fmt.Sprintf("🎰 %s\n%s", play.Result.Detail, play.Result.Note)), nil
}

func (d *Dispatcher) settled(play ledger.Play, headline string) Reply {
	metricCoinsWagered.Add(play.Result.Stake)
	var line string
	switch play.Result.Outcome {
	case wager.Win:
		line = fmt.Sprintf("You won **%s** coins!", coins(play.Result.Delta))
	case wager.Loss:
		line = fmt.Sprintf("You lost **%s** coins.", coins(-play.Result.Delta))
	default:
		line = "You broke even."
	}
	return text(fmt.Sprintf("%s\n%s Balance: 💰 %s", headline, line, coins(play.Account.Balance)))
}
