package announce

import (
	"context"
	"errors"
	"expvar"
	"net/http"
	"sync"
	"testing"
	"time"

	"coal-bot/internal/announce/platforms"
)

type fakeAdapter struct {
	mu    sync.Mutex
	calls int
	fail  bool
	// errs are returned one per call before fail applies.
	errs  []error
	last  platforms.Message
	hosts []string
}

func (a *fakeAdapter) Name() string { return "fake" }

func (a *fakeAdapter) Send(_ context.Context, endpoint string, msg platforms.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	a.last = msg
	a.hosts = append(a.hosts, endpoint)
	if len(a.errs) > 0 {
		err := a.errs[0]
		a.errs = a.errs[1:]
		return err
	}
	if a.fail {
		return errors.New("failed")
	}
	return nil
}

func (a *fakeAdapter) Calls() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls
}

func (a *fakeAdapter) Last() (platforms.Message, []string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.last, append([]string(nil), a.hosts...)
}

func newFakeManager(t *testing.T, cfg Config, adapter *fakeAdapter) *Manager {
	t.Helper()
	m := NewManager(cfg)
	m.adapters = map[string]platforms.Adapter{"fake": adapter}
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start manager: %v", err)
	}
	return m
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
}

var fakeTarget = Target{Platform: "fake", Endpoint: "https://example.com/hook"}

func TestRetryStopsAtMaxAttempts(t *testing.T) {
	adapter := &fakeAdapter{fail: true}
	m := newFakeManager(t, Config{
		Targets:   map[Kind][]Target{KindDeath: {fakeTarget}},
		Workers:   1,
		RetryMax:  1,
		RetryBase: 5 * time.Millisecond,
	}, adapter)

	if !m.enqueue(pushJob{Target: fakeTarget, Formatted: FormattedMessage{Title: "x"}}) {
		t.Fatal("enqueue failed")
	}
	waitFor(t, func() bool { return adapter.Calls() >= 2 })
	time.Sleep(40 * time.Millisecond)
	if got := adapter.Calls(); got != 2 {
		t.Fatalf("calls = %d, want 2 (initial + 1 retry)", got)
	}
}

func TestCircuitOpenSkipsSubsequentSends(t *testing.T) {
	adapter := &fakeAdapter{fail: true}
	m := newFakeManager(t, Config{
		Targets:             map[Kind][]Target{KindDeath: {fakeTarget}},
		Workers:             1,
		RetryBase:           5 * time.Millisecond,
		FailureThreshold:    1,
		CircuitOpenDuration: 500 * time.Millisecond,
	}, adapter)

	job := pushJob{Target: fakeTarget, Formatted: FormattedMessage{Title: "x"}}
	if !m.enqueue(job) {
		t.Fatal("enqueue first failed")
	}
	waitFor(t, func() bool { return adapter.Calls() >= 1 })
	if !m.enqueue(job) {
		t.Fatal("enqueue second failed")
	}
	time.Sleep(60 * time.Millisecond)
	if got := adapter.Calls(); got != 1 {
		t.Fatalf("calls = %d, want 1 while circuit is open", got)
	}
}

func TestSuccessResetsBreaker(t *testing.T) {
	m := NewManager(Config{FailureThreshold: 2})
	now := time.Now()
	m.afterFailure("k", now)
	m.afterSuccess("k")
	m.afterFailure("k", now)
	if err := m.beforeSend("k", now); err != nil {
		t.Fatalf("beforeSend() = %v, want closed breaker", err)
	}
	m.afterFailure("k", now)
	if err := m.beforeSend("k", now); !errors.Is(err, errCircuitOpen) {
		t.Fatalf("beforeSend() = %v, want errCircuitOpen", err)
	}
}

func droppedCount(key string) int64 {
	if v, ok := metricDropped.Get(key).(*expvar.Int); ok {
		return v.Value()
	}
	return 0
}

func TestRetryPolicyDelay(t *testing.T) {
	p := RetryPolicy{Max: 5, Base: 100 * time.Millisecond, Cap: time.Second}
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{attempt: 1, want: 100 * time.Millisecond},
		{attempt: 2, want: 200 * time.Millisecond},
		{attempt: 4, want: 800 * time.Millisecond},
		{attempt: 5, want: time.Second},
		{attempt: 40, want: time.Second},
	}
	for _, tc := range cases {
		if got := p.delay(tc.attempt); got != tc.want {
			t.Fatalf("delay(%d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
	uncapped := RetryPolicy{Base: time.Millisecond}
	if got := uncapped.delay(4); got != 8*time.Millisecond {
		t.Fatalf("uncapped delay(4) = %v, want 8ms", got)
	}
}

func TestRetryPolicyPerKind(t *testing.T) {
	cfg := Config{RetryMax: 3, RetryBase: 10 * time.Millisecond, RetryCap: time.Second}
	if got := cfg.retryPolicy(KindDeath); got != (RetryPolicy{Max: 3, Base: 10 * time.Millisecond, Cap: time.Second}) {
		t.Fatalf("death policy = %+v", got)
	}
	if got := cfg.retryPolicy(KindLevelUp).Max; got != levelUpRetryMax {
		t.Fatalf("level-up Max = %d, want %d", got, levelUpRetryMax)
	}
	cfg.Retry = map[Kind]RetryPolicy{KindRevive: {Max: 7, Base: time.Millisecond}}
	if got := cfg.retryPolicy(KindRevive); got != (RetryPolicy{Max: 7, Base: time.Millisecond, Cap: time.Second}) {
		t.Fatalf("revive override = %+v", got)
	}
}

func TestLevelUpGivesUpSoonerThanDeath(t *testing.T) {
	levels := &fakeAdapter{fail: true}
	cfg := Config{Workers: 1, RetryMax: 3, RetryBase: time.Millisecond, RetryCap: 2 * time.Millisecond, FailureThreshold: 100}
	m := newFakeManager(t, cfg, levels)
	before := droppedCount("level_up.retries_exhausted")
	m.enqueue(pushJob{Target: fakeTarget, Event: Event{Kind: KindLevelUp}})
	waitFor(t, func() bool { return droppedCount("level_up.retries_exhausted") > before })
	if got := levels.Calls(); got != 1+levelUpRetryMax {
		t.Fatalf("level-up calls = %d, want %d", got, 1+levelUpRetryMax)
	}

	deaths := &fakeAdapter{fail: true}
	m = newFakeManager(t, cfg, deaths)
	before = droppedCount("death.retries_exhausted")
	m.enqueue(pushJob{Target: fakeTarget, Event: Event{Kind: KindDeath}})
	waitFor(t, func() bool { return droppedCount("death.retries_exhausted") > before })
	if got := deaths.Calls(); got != 4 {
		t.Fatalf("death calls = %d, want 4", got)
	}
}

func TestRejectedWebhookIsNotRetried(t *testing.T) {
	adapter := &fakeAdapter{errs: []error{&platforms.WebhookError{Status: http.StatusNotFound}}}
	m := newFakeManager(t, Config{Workers: 1, RetryMax: 3, RetryBase: time.Millisecond}, adapter)
	before := droppedCount("death.rejected")
	m.enqueue(pushJob{Target: fakeTarget, Event: Event{Kind: KindDeath, Seq: 4}})
	waitFor(t, func() bool { return droppedCount("death.rejected") > before })
	time.Sleep(20 * time.Millisecond)
	if got := adapter.Calls(); got != 1 {
		t.Fatalf("calls = %d, want 1", got)
	}
	if got := m.retryQ.Len(); got != 0 {
		t.Fatalf("pending retries = %d, want 0", got)
	}
}

func TestRateLimitedRetryWaitsForPlatform(t *testing.T) {
	adapter := &fakeAdapter{errs: []error{&platforms.WebhookError{Status: http.StatusTooManyRequests, RetryAfter: 150 * time.Millisecond}}}
	m := newFakeManager(t, Config{Workers: 1, RetryMax: 2, RetryBase: time.Millisecond}, adapter)
	m.enqueue(pushJob{Target: fakeTarget, Event: Event{Kind: KindRevive}})
	waitFor(t, func() bool { return adapter.Calls() >= 1 })
	time.Sleep(40 * time.Millisecond)
	if got := adapter.Calls(); got != 1 {
		t.Fatalf("calls = %d before retry_after elapsed, want 1", got)
	}
	waitFor(t, func() bool { return adapter.Calls() >= 2 })
	if got := adapter.Calls(); got != 2 {
		t.Fatalf("calls = %d, want 2 after retry_after", got)
	}
}

func TestStopCancelsPendingRetries(t *testing.T) {
	adapter := &fakeAdapter{fail: true}
	m := NewManager(Config{
		Targets:   map[Kind][]Target{KindDeath: {fakeTarget}},
		Workers:   1,
		RetryMax:  3,
		RetryBase: time.Hour,
	})
	m.adapters = map[string]platforms.Adapter{"fake": adapter}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := m.Start(ctx); err != nil {
		t.Fatalf("start manager: %v", err)
	}
	before := droppedCount("death.stopped")
	m.enqueue(pushJob{Target: fakeTarget, Event: Event{Kind: KindDeath}})
	waitFor(t, func() bool { return m.retryQ.Len() == 1 })
	if got := m.retryQ.Len(); got != 1 {
		t.Fatalf("pending retries = %d, want 1", got)
	}

	cancel()
	waitFor(t, func() bool { return m.retryQ.Len() == 0 })
	if got := m.retryQ.Len(); got != 0 {
		t.Fatalf("pending retries = %d after stop, want 0", got)
	}
	waitFor(t, func() bool { return droppedCount("death.stopped") > before })
	if got := droppedCount("death.stopped") - before; got != 1 {
		t.Fatalf("stopped drops = %d, want 1", got)
	}
	if m.Announce(Event{Kind: KindDeath}) {
		t.Fatal("announce after stop should not queue")
	}
}
