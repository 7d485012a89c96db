// Package grave parses graveyard command arguments.
package grave

import (
	"errors"
	"strings"
)

const (
	// Anonymous is the subject recorded for deaths nobody owns.
	Anonymous = "0"
	// FullLog asks for the entire death log.
	FullLog = "-1"
)

var ErrReviveAnonymous = errors.New("cannot_revive_anonymous")

// Entry is a parsed death or revive: who, and optionally why.
type Entry struct {
	Subject string
	Reason  string
}

type QueryKind int

const (
	QuerySubject QueryKind = iota
	QueryAnonymous
	QueryAll
)

type Query struct {
	Kind    QueryKind
	Subject string
}

// IsSubjectToken reports whether tok names a subject rather than starting a
// reason: the anonymous id, a mention, or a bare numeric id.
func IsSubjectToken(tok string) bool {
	_, ok := SubjectID(tok)
	return ok
}

// SubjectID resolves `<@id>`, `<@!id>` or a bare numeric id. Anything else,
// including signed numbers and text around digits, is not a subject.
func SubjectID(tok string) (string, bool) {
	id := tok
	if inner, ok := strings.CutPrefix(tok, "<@"); ok {
		inner, ok = strings.CutSuffix(inner, ">")
		if !ok {
			return "", false
		}
		id = strings.TrimPrefix(inner, "!")
	}
	if id == "" || !allDigits(id) {
		return "", false
	}
	return id, true
}

// ParseDeath reads `[subject] [reason...]`. Without a subject token the
// invoker dies and every argument is the reason.
func ParseDeath(invoker string, args []string) Entry {
	return parseEntry(invoker, args)
}

// ParseRevive reads the same shape as ParseDeath but refuses the anonymous id.
func ParseRevive(invoker string, args []string) (Entry, error) {
	e := parseEntry(invoker, args)
	if e.Subject == Anonymous {
		return Entry{}, ErrReviveAnonymous
	}
	return e, nil
}

// ParseObit reads an optional subject, 0 for anonymous deaths or -1 for all.
func ParseObit(invoker string, args []string) Query {
	if len(args) == 0 {
		return Query{Kind: QuerySubject, Subject: invoker}
	}
	if args[0] == FullLog {
		return Query{Kind: QueryAll}
	}
	id, ok := SubjectID(args[0])
	switch {
	case !ok:
		return Query{Kind: QuerySubject, Subject: invoker}
	case id == Anonymous:
		return Query{Kind: QueryAnonymous, Subject: Anonymous}
	}
	return Query{Kind: QuerySubject, Subject: id}
}

func parseEntry(invoker string, args []string) Entry {
	if len(args) == 0 {
		return Entry{Subject: invoker}
	}
	id, ok := SubjectID(args[0])
	if !ok {
		return Entry{Subject: invoker, Reason: strings.Join(args, " ")}
	}
	return Entry{Subject: id, Reason: strings.Join(args[1:], " ")}
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
