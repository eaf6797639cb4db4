package postgres

import (
	"reflect"
	"testing"

	"github.com/jackc/pgx/v5"
)

func TestSplitFQN(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want pgx.Identifier
	}{
		{"public.orders", pgx.Identifier{"public", "orders"}},
		{"orders", pgx.Identifier{"orders"}},
		{"a.b.c", pgx.Identifier{"a", "b", "c"}},
		{".orders", pgx.Identifier{"orders"}},
	}
	for _, tt := range tests {
		if got := splitFQN(tt.in); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("splitFQN(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
