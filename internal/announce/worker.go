package announce

import (
	"context"
	"errors"
	"time"

	"coal-bot/internal/announce/platforms"

	"github.com/rs/zerolog/log"
)

var errCircuitOpen = errors.New("circuit_open")

func (m *Manager) worker(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-m.done:
			return
		case job := <-m.dispatchCh:
			metricPushQueueLen.Set(int64(len(m.dispatchCh)))
			m.processJob(ctx, job)
		}
	}
}

func (m *Manager) processJob(ctx context.Context, job pushJob) {
	adapter := m.adapters[job.Target.Platform]
	if adapter == nil {
		m.drop(job, dropNoAdapter, nil)
		return
	}

	if err := m.beforeSend(job.key(), time.Now()); err != nil {
		metricPushCircuitOpenTotal.Add(1)
		m.retryOrDrop(job, err)
		return
	}

	err := adapter.Send(ctx, job.Target.Endpoint, toPlatformMessage(job.Formatted))
	if err != nil {
		metricPushFailedTotal.Add(1)
		m.afterFailure(job.key(), time.Now())
		if platforms.Permanent(err) {
			m.drop(job, dropRejected, err)
			return
		}
		m.retryOrDrop(job, err)
		return
	}

	metricPushSentTotal.Add(1)
	m.afterSuccess(job.key())
}

// retryOrDrop schedules the next attempt under the event kind's policy. A
// rate-limited response waits at least as long as the platform asked.
func (m *Manager) retryOrDrop(job pushJob, err error) bool {
	policy := m.cfg.retryPolicy(job.Event.Kind)
	if job.Attempt >= policy.Max {
		m.drop(job, dropExhausted, err)
		return false
	}
	job.Attempt++
	metricPushRetryTotal.Add(1)
	delay := policy.delay(job.Attempt)
	if wait := platforms.RetryAfter(err); wait > delay {
		delay = wait
	}
	m.retryQ.Enqueue(job, delay)
	return true
}

// drop records an undelivered announcement. The queue filling up under a
// burst is expected and logged at debug; the rest surface as warnings.
func (m *Manager) drop(job pushJob, reason dropReason, err error) {
	metricPushDroppedTotal.Add(1)
	metricDropped.Add(string(job.Event.Kind)+"."+string(reason), 1)
	ev := log.Warn()
	if reason == dropQueueFull || reason == dropStopped {
		ev = log.Debug()
	}
	ev.Err(err).
		Str("kind", string(job.Event.Kind)).
		Str("reason", string(reason)).
		Str("platform", job.Target.Platform).
		Int64("seq", job.Event.Seq).
		Int("attempts", job.Attempt+1).
		Msg("announcement dropped")
}

func (m *Manager) beforeSend(key string, now time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.breakerByKey[key]
	if !state.openUntil.IsZero() && now.Before(state.openUntil) {
		return errCircuitOpen
	}
	return nil
}

func (m *Manager) afterFailure(key string, now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	state := m.breakerByKey[key]
	state.consecutiveFailures++
	if state.consecutiveFailures >= m.cfg.FailureThreshold {
		state.openUntil = now.Add(m.cfg.CircuitOpenDuration)
		state.consecutiveFailures = 0
	}
	m.breakerByKey[key] = state
}

func (m *Manager) afterSuccess(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.breakerByKey[key] = breakerState{}
}

func toPlatformMessage(msg FormattedMessage) platforms.Message {
	fields := make([]platforms.Field, 0, len(msg.Fields))
	for _, f := range msg.Fields {
		fields = append(fields, platforms.Field{Name: f.Name, Value: f.Value, Inline: f.Inline})
	}
	return platforms.Message{
		Title:       msg.Title,
		Content:     msg.Content,
		Description: msg.Description,
		Color:       msg.Color,
		Timestamp:   msg.Timestamp,
		Footer:      msg.Footer,
		Fields:      fields,
	}
}
