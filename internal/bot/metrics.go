package bot

import "expvar"

var (
	metricCommandsTotal    = expvar.NewInt("bot_commands_total")
	metricCommandsRejected = expvar.NewInt("bot_commands_rejected_total")
	metricCommandsFailed   = expvar.NewInt("bot_commands_failed_total")
	metricCommandsLimited  = expvar.NewInt("bot_commands_rate_limited_total")
	metricPanicsTotal      = expvar.NewInt("bot_panics_total")
	metricCommandsByName   = expvar.NewMap("bot_commands_by_name")
	metricCoinsWagered     = expvar.NewInt("bot_coins_wagered_total")
	metricPassiveXPTotal   = expvar.NewInt("bot_passive_xp_messages_total")
	metricLevelUpsTotal    = expvar.NewInt("bot_level_ups_total")
)
