package bot

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"coal-bot/internal/announce"
	"coal-bot/internal/ledger"
	"coal-bot/internal/ratelimit"
	"coal-bot/internal/store"
	"coal-bot/internal/wager"
)

type scripted struct {
	mu    sync.Mutex
	t     *testing.T
	draws []int
}

func (s *scripted) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.t.Helper()
	if len(s.draws) == 0 {
		s.t.Fatalf("scripted source exhausted (n=%d)", n)
	}
	v := s.draws[0]
	s.draws = s.draws[1:]
	if v < 0 || v >= n {
		s.t.Fatalf("scripted draw %d out of range [0,%d)", v, n)
	}
	return v
}

type recordingAnnouncer struct {
	mu     sync.Mutex
	events []announce.Event
}

func (a *recordingAnnouncer) Announce(ev announce.Event) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, ev)
	return true
}

func (a *recordingAnnouncer) Events() []announce.Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]announce.Event(nil), a.events...)
}

type harness struct {
	d      *Dispatcher
	mem    *store.Memory
	ledger *ledger.Ledger
	ann    *recordingAnnouncer
}

type harnessOption func(*Deps, *Options)

func withLimiter(l ratelimit.Limiter) harnessOption {
	return func(d *Deps, _ *Options) { d.Limiter = l }
}

func withPassiveXP() harnessOption {
	return func(_ *Deps, o *Options) { o.PassiveXP = true }
}

func newHarness(t *testing.T, draws []int, opts ...harnessOption) *harness {
	t.Helper()
	mem := store.NewMemory(0)
	l := ledger.New(mem, wager.NewEngine(&scripted{t: t, draws: draws}, wager.DefaultPolicy()))
	ann := &recordingAnnouncer{}
	deps := Deps{Ledger: l, Announcer: ann}
	o := Options{Prefix: "-", Timeout: time.Second, Admins: []string{"900"}}
	for _, opt := range opts {
		opt(&deps, &o)
	}
	d, err := New(deps, o)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return &harness{d: d, mem: mem, ledger: l, ann: ann}
}

func (h *harness) send(t *testing.T, author, content string) (Reply, bool) {
	t.Helper()
	return h.d.Handle(context.Background(), Message{
		ID:        "m1",
		ChannelID: "c1",
		AuthorID:  author,
		Content:   content,
	})
}

func (h *harness) mustSay(t *testing.T, author, content string) Reply {
	t.Helper()
	r, ok := h.send(t, author, content)
	if !ok {
		t.Fatalf("%q produced no reply", content)
	}
	return r
}

func (h *harness) fund(t *testing.T, id string, amount int64) {
	t.Helper()
	if _, err := h.ledger.Grant(context.Background(), id, amount); err != nil {
		t.Fatalf("Grant(%s): %v", id, err)
	}
}

func (h *harness) balance(t *testing.T, id string) int64 {
	t.Helper()
	a, err := h.mem.Get(context.Background(), id)
	if err != nil {
		t.Fatalf("Get(%s): %v", id, err)
	}
	return a.Balance
}

// replyText flattens content and embeds for substring assertions.
func replyText(r Reply) string {
	parts := []string{r.Content}
	for _, e := range r.Embeds {
		parts = append(parts, e.Title, e.Description, e.Footer)
		for _, f := range e.Fields {
			parts = append(parts, f.Name, f.Value)
		}
	}
	return strings.Join(parts, "\n")
}

func wantContains(t *testing.T, r Reply, sub string) {
	t.Helper()
	if got := replyText(r); !strings.Contains(got, sub) {
		t.Fatalf("reply %q does not contain %q", got, sub)
	}
}

// brokenStore fails every account read.
type brokenStore struct {
	*store.Memory
}

func (brokenStore) GetOrCreate(context.Context, string) (store.Account, error) {
	return store.Account{}, store.ErrUnavailable
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (bool, error) {
	return false, errors.New("redis down")
}
