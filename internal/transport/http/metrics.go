package httptransport

import "expvar"

var (
	metricLeaderboardQueries = expvar.NewInt("http_leaderboard_queries_total")
	metricAccountQueries     = expvar.NewInt("http_account_queries_total")
	metricGraveyardQueries   = expvar.NewInt("http_graveyard_queries_total")
	metricHTTPErrors         = expvar.NewInt("http_errors_total")
	metricHTTPUnauthorized   = expvar.NewInt("http_unauthorized_total")
)
