package schema

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestNewValidation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		fields  []Field
		wantErr string
	}{
		{
			name:    "no fields",
			fields:  nil,
			wantErr: "at least one field",
		},
		{
			name:    "empty name",
			fields:  []Field{{Name: "", Type: TypeString}},
			wantErr: "has no name",
		},
		{
			name: "duplicate name",
			fields: []Field{
				{Name: "a", Type: TypeString},
				{Name: "a", Type: TypeLong},
			},
			wantErr: "duplicate field",
		},
		{
			name:    "unknown type",
			fields:  []Field{{Name: "a", Type: "decimal"}},
			wantErr: "unknown type",
		},
		{
			name:    "unknown logical",
			fields:  []Field{{Name: "a", Type: TypeString, Logical: "timestamp_micros"}},
			wantErr: "unknown logical",
		},
		{
			name: "valid",
			fields: []Field{
				{Name: "id", Type: TypeLong},
				{Name: "ts", Type: TypeString, Nullable: true, Logical: LogicalDatetime},
			},
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			_, err := New(tt.fields)
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("New: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("New error = %v, want substring %q", err, tt.wantErr)
			}
		})
	}
}

func TestNewCopiesFields(t *testing.T) {
	t.Parallel()

	in := []Field{{Name: "a", Type: TypeString}}
	s, err := New(in)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in[0].Name = "mutated"
	if s.Fields()[0].Name != "a" {
		t.Error("schema shares the caller's field slice")
	}
}

func TestParseRoundTrip(t *testing.T) {
	t.Parallel()

	raw := []byte(`[
		{"name":"id","type":"long"},
		{"name":"score","type":"double","nullable":true},
		{"name":"when","type":"string","nullable":true,"logical":"datetime"}
	]`)

	s, err := Parse(raw)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if s.Len() != 3 {
		t.Fatalf("Len = %d, want 3", s.Len())
	}
	f, ok := s.Field("when")
	if !ok {
		t.Fatal(`Field("when") not found`)
	}
	if f.Logical != LogicalDatetime || !f.Nullable {
		t.Errorf("when = %+v, want nullable datetime", f)
	}
	if _, ok := s.Field("missing"); ok {
		t.Error(`Field("missing") found`)
	}

	out, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	back, err := Parse(out)
	if err != nil {
		t.Fatalf("Parse(Marshal): %v", err)
	}
	if !s.Equal(back) {
		t.Errorf("round trip changed the schema: %s vs %s", raw, out)
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	t.Parallel()

	if _, err := Parse([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("Parse of non-array: want error")
	}
}

func TestLogicalLayout(t *testing.T) {
	t.Parallel()

	tests := []struct {
		logical Logical
		want    string
	}{
		{LogicalDate, LayoutDate},
		{LogicalTime, LayoutTime},
		{LogicalDatetime, LayoutDatetime},
		{LogicalNone, ""},
		{Logical("bogus"), ""},
	}
	for _, tt := range tests {
		if got := tt.logical.Layout(); got != tt.want {
			t.Errorf("Layout(%q) = %q, want %q", tt.logical, got, tt.want)
		}
	}
}
