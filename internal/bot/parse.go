package bot

import (
	"errors"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errUnterminatedQuote = errors.New("unterminated_quote")

// SplitArgs splits on whitespace; double quotes group words into one
// argument and are removed.
func SplitArgs(s string) ([]string, error) {
	var (
		args    []string
		cur     strings.Builder
		inQuote bool
		started bool
	)
	for _, r := range s {
		switch {
		case r == '"':
			inQuote = !inQuote
			started = true
		case !inQuote && unicode.IsSpace(r):
			if started {
				args = append(args, cur.String())
				cur.Reset()
				started = false
			}
		default:
			cur.WriteRune(r)
			started = true
		}
	}
	if inQuote {
		return nil, errUnterminatedQuote
	}
	if started {
		args = append(args, cur.String())
	}
	return args, nil
}

// ParseCommand reports the lower-cased command name and its arguments when
// content starts with prefix.
func ParseCommand(prefix, content string) (string, []string, bool, error) {
	content = strings.TrimSpace(content)
	if prefix == "" || !strings.HasPrefix(content, prefix) {
		return "", nil, false, nil
	}
	rest := strings.TrimPrefix(content, prefix)
	if first, _ := utf8.DecodeRuneInString(rest); rest == "" || unicode.IsSpace(first) {
		return "", nil, false, nil
	}
	name, tail := rest, ""
	if i := strings.IndexFunc(rest, unicode.IsSpace); i >= 0 {
		name, tail = rest[:i], rest[i:]
	}
	args, err := SplitArgs(tail)
	if err != nil {
		return strings.ToLower(name), nil, true, err
	}
	return strings.ToLower(name), args, true, nil
}

// MentionID resolves <@id>, <@!id> or a bare numeric id.
func MentionID(tok string) (string, bool) {
	id := tok
	if strings.HasPrefix(tok, "<@") && strings.HasSuffix(tok, ">") {
		id = strings.TrimSuffix(strings.TrimPrefix(tok, "<@"), ">")
		id = strings.TrimPrefix(id, "!")
	}
	if id == "" {
		return "", false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return "", false
		}
	}
	return id, true
}

// parseAmount accepts plain integers with optional thousands separators.
func parseAmount(tok string) (int64, bool) {
	tok = strings.ReplaceAll(strings.TrimSpace(tok), ",", "")
	if tok == "" {
		return 0, false
	}
	v, err := strconv.ParseInt(tok, 10, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
