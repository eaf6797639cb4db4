package delimited

import (
	"reflect"
	"strings"
	"testing"
)

func collect(t *testing.T, line, delim string, quoted bool) []string {
	t.Helper()
	tk := NewTokenizer(line, delim, quoted)
	var out []string
	for {
		tok, ok := tk.Next()
		if !ok {
			return out
		}
		out = append(out, tok)
	}
}

func TestTokenizerPlain(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		delim string
		want  []string
	}{
		{name: "simple", line: "a,b,c", delim: ",", want: []string{"a", "b", "c"}},
		{name: "empty line yields one empty token", line: "", delim: ",", want: []string{""}},
		{name: "consecutive delimiters", line: "a,,c", delim: ",", want: []string{"a", "", "c"}},
		{name: "trailing delimiter", line: "a,b,", delim: ",", want: []string{"a", "b", ""}},
		{name: "leading delimiter", line: ",b", delim: ",", want: []string{"", "b"}},
		{name: "multi byte delimiter", line: "a||b||c", delim: "||", want: []string{"a", "b", "c"}},
		{name: "delimiter matched literally not as pattern", line: "a.b.c", delim: ".", want: []string{"a", "b", "c"}},
		{name: "no delimiter in line", line: "abc", delim: ",", want: []string{"abc"}},
		{name: "quotes are plain text without quote mode", line: `a,"b,c",d`, delim: ",", want: []string{"a", `"b`, `c"`, "d"}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := collect(t, tt.line, tt.delim, false)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokens = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizerQuoted(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		line  string
		delim string
		want  []string
	}{
		{name: "quoted span swallows delimiter", line: `a,"b,c",d`, delim: ",", want: []string{"a", "b,c", "d"}},
		{name: "escaped quote inside span", line: `a,"b""c",d`, delim: ",", want: []string{"a", `b"c`, "d"}},
		{name: "fully quoted single field", line: `"a,b"`, delim: ",", want: []string{"a,b"}},
		{name: "empty quoted field", line: `a,"",c`, delim: ",", want: []string{"a", "", "c"}},
		{name: "unterminated span runs to end of line", line: `a,"b,c`, delim: ",", want: []string{"a", "b,c"}},
		{name: "quote in middle of token", line: `a"b,c`, delim: ",", want: []string{"ab,c"}},
		{name: "no quotes behaves like plain", line: "a,b,c", delim: ",", want: []string{"a", "b", "c"}},
		{name: "empty line yields one empty token", line: "", delim: ",", want: []string{""}},
		{name: "trailing delimiter", line: `"a",`, delim: ",", want: []string{"a", ""}},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := collect(t, tt.line, tt.delim, true)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("tokens = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTokenizerNextAfterExhaustion(t *testing.T) {
	t.Parallel()

	tk := NewTokenizer("a", ",", false)
	if tok, ok := tk.Next(); !ok || tok != "a" {
		t.Fatalf("first Next = (%q, %v), want (\"a\", true)", tok, ok)
	}
	for i := 0; i < 3; i++ {
		if tok, ok := tk.Next(); ok || tok != "" {
			t.Fatalf("Next after exhaustion = (%q, %v), want (\"\", false)", tok, ok)
		}
	}
}

// renderQuoted renders fields as one quote-aware line: every field is
// wrapped in quotes with embedded quotes doubled.
func renderQuoted(fields []string, delim string) string {
	quoted := make([]string, len(fields))
	for i, f := range fields {
		quoted[i] = `"` + strings.ReplaceAll(f, `"`, `""`) + `"`
	}
	return strings.Join(quoted, delim)
}

func TestTokenizerQuotedRoundTrip(t *testing.T) {
	t.Parallel()

	cases := [][]string{
		{"a", "b", "c"},
		{"contains,delimiter", "plain"},
		{`embedded"quote`, `""`, ""},
		{"", "", ""},
		{`tricky,"mix",end`},
	}
	for _, fields := range cases {
		line := renderQuoted(fields, ",")
		got := collect(t, line, ",", true)
		if !reflect.DeepEqual(got, fields) {
			t.Errorf("round trip of %q via %q = %q", fields, line, got)
		}
	}
}

func TestCount(t *testing.T) {
	t.Parallel()

	tests := []struct {
		line   string
		quoted bool
		want   int
	}{
		{line: "a,b,c", quoted: false, want: 3},
		{line: `a,"b,c",d`, quoted: false, want: 4},
		{line: `a,"b,c",d`, quoted: true, want: 3},
		{line: "", quoted: false, want: 1},
		{line: "a,b,", quoted: false, want: 3},
	}

	for _, tt := range tests {
		if got := Count(tt.line, ",", tt.quoted); got != tt.want {
			t.Errorf("Count(%q, quoted=%v) = %d, want %d", tt.line, tt.quoted, got, tt.want)
		}
	}
}
