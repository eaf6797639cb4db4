package schema

import (
	"fmt"
	"strconv"
	"strings"
	"time"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Infer derives a schema from sampled, already-tokenized rows of a
// delimited file.
//
// When header is non-nil its cells are normalized into identifiers and used
// as field names; otherwise names are synthesized as col_0..col_N-1. The
// column count is taken from the header when present, else from the widest
// sampled row. Every inferred field is nullable: a sample proves nothing
// about absent values.
//
// Type inference per column, in order of preference: long, double, bool,
// datetime, date, time. A column whose non-empty samples satisfy none of
// these falls back to string. Columns with no non-empty samples are string.
func Infer(header []string, rows [][]string) (*Schema, error) {
	width := len(header)
	for _, r := range rows {
		if len(r) > width {
			width = len(r)
		}
	}
	if width == 0 {
		return nil, fmt.Errorf("schema: nothing to infer from")
	}

	fields := make([]Field, width)
	used := make(map[string]int, width)
	for i := range fields {
		name := ""
		if i < len(header) {
			name = NormalizeName(header[i])
		}
		if name == "" {
			name = fmt.Sprintf("col_%d", i)
		}
		// Disambiguate repeated header names positionally.
		if n, dup := used[name]; dup {
			used[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		used[name] = 1

		typ, logical := inferColumn(rows, i)
		fields[i] = Field{Name: name, Type: typ, Nullable: true, Logical: logical}
	}
	return New(fields)
}

// inferColumn classifies column i across all sampled rows.
func inferColumn(rows [][]string, i int) (Type, Logical) {
	type guess struct {
		typ     Type
		logical Logical
		check   func(string) bool
	}
	guesses := []guess{
		{TypeLong, LogicalNone, isLong},
		{TypeDouble, LogicalNone, isDouble},
		{TypeBool, LogicalNone, isBool},
		{TypeString, LogicalDatetime, layoutCheck(LayoutDatetime)},
		{TypeString, LogicalDate, layoutCheck(LayoutDate)},
		{TypeString, LogicalTime, layoutCheck(LayoutTime)},
	}

	seen := false
next:
	for _, g := range guesses {
		for _, r := range rows {
			if i >= len(r) {
				continue
			}
			v := strings.TrimSpace(r[i])
			if v == "" {
				continue
			}
			seen = true
			if !g.check(v) {
				continue next
			}
		}
		if seen {
			return g.typ, g.logical
		}
		break
	}
	return TypeString, LogicalNone
}

// isLong requires a signed base-10 integer that fits in int64.
func isLong(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// isDouble accepts decimal or scientific notation. Integer text also
// passes; pure integer columns never reach this check because long is
// tried first.
func isDouble(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool {
	switch strings.ToLower(s) {
	case "true", "false":
		return true
	}
	return false
}

func layoutCheck(layout string) func(string) bool {
	return func(s string) bool {
		_, err := time.Parse(layout, s)
		return err == nil
	}
}

// NormalizeName converts arbitrary header text into a lowercase ASCII
// identifier:
//  1. lowercase
//  2. strip accents (NFD → remove Mn → NFC)
//  3. keep [a-z0-9_]; convert space/dash/dot to underscore; drop others
func NormalizeName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	// Decompose → remove nonspacing marks → recompose.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		norm.NFC,
	)
	ascii, _, _ := transform.String(t, s)

	var b strings.Builder
	prevUnderscore := false
	for _, r := range ascii {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			prevUnderscore = false
		case r == '_' || r == ' ' || r == '-' || r == '.':
			if !prevUnderscore {
				b.WriteRune('_')
				prevUnderscore = true
			}
		}
	}
	return strings.Trim(b.String(), "_")
}
