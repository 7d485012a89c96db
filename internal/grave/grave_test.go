package grave

import (
	"errors"
	"testing"
)

func TestParseDeath(t *testing.T) {
	cases := []struct {
		name string
		args []string
		want Entry
	}{
		{name: "no args", args: nil, want: Entry{Subject: "42"}},
		{name: "reason only", args: []string{"fell", "in", "lava"}, want: Entry{Subject: "42", Reason: "fell in lava"}},
		{name: "mention", args: []string{"<@!77>", "creeper"}, want: Entry{Subject: "77", Reason: "creeper"}},
		{name: "digits", args: []string{"88"}, want: Entry{Subject: "88"}},
		{name: "anonymous", args: []string{"0", "mystery"}, want: Entry{Subject: Anonymous, Reason: "mystery"}},
		{name: "empty mention", args: []string{"<@>", "oops"}, want: Entry{Subject: "42", Reason: "<@> oops"}},
		{name: "non-numeric mention", args: []string{"<@abc>", "went", "missing"}, want: Entry{Subject: "42", Reason: "<@abc> went missing"}},
		{name: "unclosed mention", args: []string{"<@12", "hi"}, want: Entry{Subject: "42", Reason: "<@12 hi"}},
		{name: "signed number", args: []string{"-5", "lives", "left"}, want: Entry{Subject: "42", Reason: "-5 lives left"}},
		{name: "digits in a word", args: []string{"foo12", "bar"}, want: Entry{Subject: "42", Reason: "foo12 bar"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := ParseDeath("42", tc.args); got != tc.want {
				t.Fatalf("ParseDeath() = %+v, want %+v", got, tc.want)
			}
		})
	}
}

func TestParseReviveRejectsAnonymous(t *testing.T) {
	if _, err := ParseRevive("42", []string{"0"}); !errors.Is(err, ErrReviveAnonymous) {
		t.Fatalf("err = %v, want ErrReviveAnonymous", err)
	}
	got, err := ParseRevive("42", []string{"<@9>", "a", "potion"})
	if err != nil {
		t.Fatalf("ParseRevive() error = %v", err)
	}
	if got.Subject != "9" || got.Reason != "a potion" {
		t.Fatalf("ParseRevive() = %+v", got)
	}
}

func TestParseReviveNonSubjectIsReason(t *testing.T) {
	got, err := ParseRevive("42", []string{"<@xyz>", "totem"})
	if err != nil {
		t.Fatalf("ParseRevive() error = %v", err)
	}
	if got.Subject != "42" || got.Reason != "<@xyz> totem" {
		t.Fatalf("ParseRevive() = %+v", got)
	}
}

func TestSubjectID(t *testing.T) {
	cases := map[string]string{"<@1>": "1", "<@!22>": "22", "333": "333", "0": "0"}
	for in, want := range cases {
		if got, ok := SubjectID(in); !ok || got != want {
			t.Fatalf("SubjectID(%q) = %q, %v; want %q", in, got, ok, want)
		}
	}
	for _, in := range []string{"", "<@>", "<@!>", "<@abc>", "<@1", "-5", "foo12", "1.5", "<@1>x"} {
		if got, ok := SubjectID(in); ok {
			t.Fatalf("SubjectID(%q) = %q, want no subject", in, got)
		}
	}
}

func TestParseObit(t *testing.T) {
	cases := []struct {
		args []string
		want Query
	}{
		{args: nil, want: Query{Kind: QuerySubject, Subject: "42"}},
		{args: []string{"-1"}, want: Query{Kind: QueryAll}},
		{args: []string{"0"}, want: Query{Kind: QueryAnonymous, Subject: Anonymous}},
		{args: []string{"<@123>"}, want: Query{Kind: QuerySubject, Subject: "123"}},
		{args: []string{"<@!0>"}, want: Query{Kind: QueryAnonymous, Subject: Anonymous}},
		{args: []string{"nobody"}, want: Query{Kind: QuerySubject, Subject: "42"}},
		{args: []string{"-5"}, want: Query{Kind: QuerySubject, Subject: "42"}},
		{args: []string{"foo12"}, want: Query{Kind: QuerySubject, Subject: "42"}},
		{args: []string{"<@abc>"}, want: Query{Kind: QuerySubject, Subject: "42"}},
	}
	for _, tc := range cases {
		if got := ParseObit("42", tc.args); got != tc.want {
			t.Fatalf("ParseObit(%v) = %+v, want %+v", tc.args, got, tc.want)
		}
	}
}
