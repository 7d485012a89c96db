package announce

import (
	"context"
	"sync"
	"time"

	"coal-bot/internal/announce/platforms"
)

type breakerState struct {
	consecutiveFailures int
	openUntil           time.Time
}

type Manager struct {
	cfg      Config
	adapters map[string]platforms.Adapter

	dispatchCh chan pushJob
	retryQ     *retryQueue
	done       chan struct{}

	mu           sync.Mutex
	started      bool
	breakerByKey map[string]breakerState
}

var _ Announcer = (*Manager)(nil)

func NewManager(cfg Config) *Manager {
	client := platforms.NewHTTPClient(cfg.RequestTimeout)
	adapters := map[string]platforms.Adapter{
		platformDiscord: platforms.NewDiscordAdapter(client),
	}
	if cfg.DispatchBuffer <= 0 {
		cfg.DispatchBuffer = 256
	}
	if cfg.Workers <= 0 {
		cfg.Workers = 2
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = 500 * time.Millisecond
	}
	if cfg.RetryCap <= 0 {
		cfg.RetryCap = 30 * time.Second
	}
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.CircuitOpenDuration <= 0 {
		cfg.CircuitOpenDuration = 30 * time.Second
	}

	m := &Manager{
		cfg:          cfg,
		adapters:     adapters,
		dispatchCh:   make(chan pushJob, cfg.DispatchBuffer),
		done:         make(chan struct{}),
		breakerByKey: map[string]breakerState{},
	}
	m.retryQ = newRetryQueue(m.dispatchCh, m.done, func(job pushJob) { m.drop(job, dropStopped, nil) })
	return m
}

// Start launches the workers. They stop when ctx is cancelled.
func (m *Manager) Start(ctx context.Context) error {
	m.mu.Lock()
	if m.started {
		m.mu.Unlock()
		return nil
	}
	m.started = true
	m.mu.Unlock()

	for i := 0; i < m.cfg.Workers; i++ {
		go m.worker(ctx)
	}
	go m.retryQ.cancelOnStop()
	go func() {
		<-ctx.Done()
		close(m.done)
	}()
	return nil
}

// Announce formats ev for every matching target and queues it. A full queue
// or a stopped manager drops the event.
func (m *Manager) Announce(ev Event) bool {
	targets := m.cfg.Targets[ev.Kind]
	if len(targets) == 0 {
		return false
	}
	if ev.At.IsZero() {
		ev.At = time.Now()
	}
	formatted, ok := FormatMessage(ev)
	if !ok {
		return false
	}
	queued := false
	for _, target := range targets {
		job := pushJob{Target: target, Event: ev, Formatted: formatted}
		if m.enqueue(job) {
			queued = true
			continue
		}
		reason := dropQueueFull
		if m.stopped() {
			reason = dropStopped
		}
		m.drop(job, reason, nil)
	}
	return queued
}

func (m *Manager) stopped() bool {
	select {
	case <-m.done:
		return true
	default:
		return false
	}
}

func (m *Manager) enqueue(job pushJob) bool {
	if m.stopped() {
		return false
	}
	select {
	case m.dispatchCh <- job:
		metricPushQueuedTotal.Add(1)
		metricPushQueueLen.Set(int64(len(m.dispatchCh)))
		return true
	default:
		return false
	}
}
