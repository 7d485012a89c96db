package wager

import "testing"

// scripted replays fixed draws in order and fails the test when exhausted.
type scripted struct {
	t     *testing.T
	draws []int
}

func (s *scripted) Intn(n int) int {
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

func newEngine(t *testing.T, draws ...int) *Engine {
	return NewEngine(&scripted{t: t, draws: draws}, DefaultPolicy())
}
