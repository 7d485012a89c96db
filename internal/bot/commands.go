package bot

// table is the closed command set. Names and aliases must be unique.
func (d *Dispatcher) table() []*command {
	return []*command{
		{Name: "help", Usage: "help", Summary: "List every command.", run: d.help},
		{Name: "ping", Usage: "ping", Summary: "Check bot latency.", run: d.ping},
		{Name: "greet", Usage: "greet", Summary: "Say hello.", run: d.greet},
		{Name: "echo", Usage: "echo <message>", Summary: "Repeat a message.", run: d.echo},
		{Name: "color", Aliases: []string{"colour"}, Usage: "color <#RRGGBB>", Summary: "Show a colour swatch.", run: d.color},

		{Name: "balance", Aliases: []string{"bal"}, Usage: "balance [user]", Summary: "Show a coin balance.", run: d.balance},
		{Name: "daily", Usage: "daily", Summary: "Claim your daily reward.", run: d.daily},
		{Name: "work", Usage: "work", Summary: "Work a shift for coins.", run: d.work},
		{Name: "give", Usage: "give <user> <amount>", Summary: "Give coins to someone.", run: d.give},
		{Name: "rob", Usage: "rob <user>", Summary: "Try to rob someone.", run: d.rob},
		{Name: "leaderboard", Aliases: []string{"richest"}, Usage: "leaderboard", Summary: "Top balances.", run: d.leaderboard},

		{Name: "coinflip", Aliases: []string{"cf"}, Usage: "coinflip [bet] <heads|tails>", Summary: "Double or nothing on a coin. Bet and call go in either order.", run: d.coinflip},
		{Name: "roll", Usage: "roll [bet]", Summary: "Roll 1-100: 60+ pays 1.5x, 90+ pays 3x.", run: d.roll},
		{Name: "slots", Aliases: []string{"scratch"}, Usage: "slots [bet]", Summary: "Spin the slot machine. ⭐ is wild.", run: d.slots},

		{Name: "death", Aliases: []string{"die", "d"}, Usage: "death [user|0] [reason]", Summary: "Log a death.", run: d.death},
		{Name: "revive", Aliases: []string{"resurrect", "undeath", "r"}, Usage: "revive [user] [reason]", Summary: "Undo the most recent death.", run: d.revive},
		{Name: "obit", Aliases: []string{"obituary", "death_log", "deaths", "log", "l"}, Usage: "obit [user|0|-1]", Summary: "Show the death log.", run: d.obit},

		{Name: "rank", Aliases: []string{"level", "xp"}, Usage: "rank [user]", Summary: "Show level and XP.", run: d.rank},
		{Name: "top", Aliases: []string{"lvltop", "levelboard"}, Usage: "top", Summary: "Top 10 by level.", run: d.top},

		{Name: "a_give", Usage: "a_give <user> <amount>", Summary: "[Admin] Grant coins.", Admin: true, run: d.adminGive},
		{Name: "a_take", Usage: "a_take <user> <amount>", Summary: "[Admin] Take coins.", Admin: true, run: d.adminTake},
	}
}

func usage(c string) error {
	return &usageError{usage: c}
}
