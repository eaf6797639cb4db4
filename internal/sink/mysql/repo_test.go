package mysql

import (
	"context"
	"testing"
)

func TestQuoteIdent(t *testing.T) {
	t.Parallel()

	if got := quoteIdent("plain"); got != "`plain`" {
		t.Errorf("quoteIdent = %q", got)
	}
	if got := quoteIdent("with`tick"); got != "`with``tick`" {
		t.Errorf("quoteIdent = %q", got)
	}
}

func TestQuoteFQN(t *testing.T) {
	t.Parallel()

	if got := quoteFQN("db.events"); got != "`db`.`events`" {
		t.Errorf("quoteFQN = %q", got)
	}
}

func TestNewRepositoryRequiresDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{Table: "t"}); err == nil {
		t.Error("empty DSN: want error")
	}
}
