package sqlite

import (
	"context"
	"strings"
	"testing"
)

func TestInsertStatement(t *testing.T) {
	t.Parallel()

	stmt, args, err := insertStatement("main.events", []string{"id", "note"}, [][]any{
		{int64(1), "a"},
		{int64(2), nil},
	})
	if err != nil {
		t.Fatalf("insertStatement: %v", err)
	}

	want := `INSERT INTO "main"."events" ("id","note") VALUES (?,?),(?,?)`
	if stmt != want {
		t.Errorf("stmt = %q, want %q", stmt, want)
	}
	if len(args) != 4 {
		t.Fatalf("args = %v, want 4 values", args)
	}
	if args[0] != int64(1) || args[1] != "a" || args[2] != int64(2) || args[3] != nil {
		t.Errorf("args = %v, not flattened in row order", args)
	}
}

func TestInsertStatementRowWidthMismatch(t *testing.T) {
	t.Parallel()

	_, _, err := insertStatement("t", []string{"a", "b"}, [][]any{{1}})
	if err == nil {
		t.Error("narrow row: want error")
	}
}

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"plain", `"plain"`},
		{`with"quote`, `"with""quote"`},
	}
	for _, tt := range tests {
		if got := quoteIdent(tt.in); got != tt.want {
			t.Errorf("quoteIdent(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	if got := quoteFQN("main.t"); got != `"main"."t"` {
		t.Errorf("quoteFQN = %q", got)
	}
	if got := quoteFQN("t"); got != `"t"` {
		t.Errorf("quoteFQN = %q", got)
	}
	if got := quoteFQN(`a."b`); !strings.Contains(got, `""`) {
		t.Errorf("quoteFQN did not escape the embedded quote: %q", got)
	}
}

func TestNewRepositoryRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{Table: "t"}); err == nil {
		t.Error("empty DSN: want error")
	}
}
