// Package delimited implements the delimiter-separated text format reader:
// lazy tokenization with optional quote-awareness, schema-directed field
// assignment, per-split header skipping, and diagnostic error reporting on
// field-count mismatches.
package delimited

import "strings"

// Tokenizer splits one raw line into an ordered sequence of field
// substrings, one token per Next call. Tokens are produced lazily so a
// wide row is never materialized twice on the happy path.
//
// In plain mode the delimiter is matched literally (never as a pattern)
// and consecutive delimiters yield empty tokens. In quote-aware mode a
// double quote toggles an inside-quote state: delimiters inside a quoted
// span are literal text, a doubled quote inside a quoted span is an
// escaped literal quote, and the quotes delimiting a span are stripped
// from the emitted token.
//
// A quoted span that is never closed runs to the end of the line, best
// effort; input arrives pre-split by line, so multi-line fields are not
// supported.
type Tokenizer struct {
	line   string
	delim  string
	quoted bool

	pos  int
	done bool
}

// NewTokenizer returns a tokenizer over line. delim must be non-empty.
func NewTokenizer(line, delim string, quoted bool) *Tokenizer {
	return &Tokenizer{line: line, delim: delim, quoted: quoted}
}

// Next returns the next token. The second result is false once the
// sequence is exhausted. An empty line yields exactly one empty token.
func (t *Tokenizer) Next() (string, bool) {
	if t.done {
		return "", false
	}
	if t.quoted {
		return t.nextQuoted(), true
	}
	return t.nextPlain(), true
}

func (t *Tokenizer) nextPlain() string {
	rest := t.line[t.pos:]
	i := strings.Index(rest, t.delim)
	if i < 0 {
		t.pos = len(t.line)
		t.done = true
		return rest
	}
	t.pos += i + len(t.delim)
	return rest[:i]
}

func (t *Tokenizer) nextQuoted() string {
	var b strings.Builder
	inQuotes := false

	for t.pos < len(t.line) {
		if !inQuotes && strings.HasPrefix(t.line[t.pos:], t.delim) {
			t.pos += len(t.delim)
			return b.String()
		}
		c := t.line[t.pos]
		if c == '"' {
			if inQuotes && t.pos+1 < len(t.line) && t.line[t.pos+1] == '"' {
				// Escaped quote inside a quoted span: emit one literal
				// quote without toggling state.
				b.WriteByte('"')
				t.pos += 2
				continue
			}
			inQuotes = !inQuotes
			t.pos++
			continue
		}
		b.WriteByte(c)
		t.pos++
	}
	t.done = true
	return b.String()
}

// Count re-scans line from the start and returns the total number of
// tokens it splits into. It exists for the diagnostic error path, where
// the line is tokenized a second time to report a true count; regular
// reads never pay for it.
func Count(line, delim string, quoted bool) int {
	tk := NewTokenizer(line, delim, quoted)
	n := 0
	for {
		if _, ok := tk.Next(); !ok {
			return n
		}
		n++
	}
}
