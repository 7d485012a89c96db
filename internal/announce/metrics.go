package announce

import "expvar"

var (
	metricPushQueuedTotal      = expvar.NewInt("announce_queued_total")
	metricPushDroppedTotal     = expvar.NewInt("announce_dropped_total")
	metricPushRetryTotal       = expvar.NewInt("announce_retry_total")
	metricPushSentTotal        = expvar.NewInt("announce_sent_total")
	metricPushFailedTotal      = expvar.NewInt("announce_failed_total")
	metricPushCircuitOpenTotal = expvar.NewInt("announce_circuit_open_total")
	metricPushQueueLen         = expvar.NewInt("announce_queue_len")
	metricRetryPending         = expvar.NewInt("announce_retry_pending")

	// metricDropped is keyed "<kind>.<reason>", e.g. "death.rejected".
	metricDropped = expvar.NewMap("announce_dropped")
)
