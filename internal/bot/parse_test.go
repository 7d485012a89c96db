package bot

import (
	"errors"
	"reflect"
	"testing"
)

func TestSplitArgs(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{in: "", want: nil},
		{in: "  heads   50 ", want: []string{"heads", "50"}},
		{in: `<@1> "fell into lava" again`, want: []string{"<@1>", "fell into lava", "again"}},
		{in: `""`, want: []string{""}},
		{in: "a\tb\nc", want: []string{"a", "b", "c"}},
	}
	for _, tc := range cases {
		got, err := SplitArgs(tc.in)
		if err != nil {
			t.Fatalf("SplitArgs(%q) error = %v", tc.in, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("SplitArgs(%q) = %#v, want %#v", tc.in, got, tc.want)
		}
	}
	if _, err := SplitArgs(`"open`); !errors.Is(err, errUnterminatedQuote) {
		t.Fatalf("unterminated quote err = %v", err)
	}
}

func TestParseCommand(t *testing.T) {
	cases := []struct {
		in      string
		name    string
		args    []string
		command bool
	}{
		{in: "-CF heads 10", name: "cf", args: []string{"heads", "10"}, command: true},
		{in: "-balance", name: "balance", command: true},
		{in: "hello there", command: false},
		{in: "- spaced", command: false},
		{in: "-", command: false},
		{in: "-roll\t100", name: "roll", args: []string{"100"}, command: true},
		{in: "-death\nfell off a cliff", name: "death", args: []string{"fell", "off", "a", "cliff"}, command: true},
		{in: "-echo\u00a0hi", name: "echo", args: []string{"hi"}, command: true},
		{in: "-\tbalance", command: false},
	}
	for _, tc := range cases {
		name, args, ok, err := ParseCommand("-", tc.in)
		if err != nil {
			t.Fatalf("ParseCommand(%q) error = %v", tc.in, err)
		}
		if ok != tc.command || name != tc.name || !reflect.DeepEqual(args, tc.args) {
			t.Fatalf("ParseCommand(%q) = %q %#v %v, want %q %#v %v", tc.in, name, args, ok, tc.name, tc.args, tc.command)
		}
	}
}

func TestMentionID(t *testing.T) {
	cases := map[string]string{
		"<@123>":  "123",
		"<@!456>": "456",
		"789":     "789",
	}
	for in, want := range cases {
		got, ok := MentionID(in)
		if !ok || got != want {
			t.Fatalf("MentionID(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	for _, bad := range []string{"", "bob", "<@>", "<@12a>", "<#123>"} {
		if _, ok := MentionID(bad); ok {
			t.Fatalf("MentionID(%q) should fail", bad)
		}
	}
}

func TestCoins(t *testing.T) {
	cases := map[int64]string{0: "0", 999: "999", 1000: "1,000", 1234567: "1,234,567", -4500: "-4,500"}
	for in, want := range cases {
		if got := coins(in); got != want {
			t.Fatalf("coins(%d) = %q, want %q", in, got, want)
		}
	}
}
