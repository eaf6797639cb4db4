package format

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"formats/internal/config"
	"formats/internal/records"
	"formats/internal/schema"
	"formats/internal/split"
)

// stubReader yields a fixed set of records.
type stubReader struct {
	recs   []records.Record
	i      int
	opened bool
	closed bool
}

func (s *stubReader) Open(ctx context.Context, sp split.Split) error {
	s.opened = true
	return nil
}

func (s *stubReader) Next() (bool, error) {
	if s.i >= len(s.recs) {
		return false, nil
	}
	s.i++
	return true, nil
}

func (s *stubReader) Record() (records.Record, error) {
	return s.recs[s.i-1], nil
}

func (s *stubReader) Progress() float64 { return float64(s.i) / float64(len(s.recs)) }

func (s *stubReader) Close() error {
	s.closed = true
	return nil
}

func TestRegistry(t *testing.T) {
	s, err := schema.New([]schema.Field{{Name: "a", Type: schema.TypeString, Nullable: true}})
	if err != nil {
		t.Fatalf("schema.New: %v", err)
	}

	stub := &stubReader{}
	Register("stub", func(s *schema.Schema, opts config.Options) (RecordReader, error) {
		return stub, nil
	})

	r, err := New("stub", s, config.Options{})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r != RecordReader(stub) {
		t.Error("New returned a different reader than the factory produced")
	}

	if _, err := New("nope", s, config.Options{}); err == nil {
		t.Error("New of unregistered kind: want error")
	}

	found := false
	for _, k := range Kinds() {
		if k == "stub" {
			found = true
		}
	}
	if !found {
		t.Errorf("Kinds() = %v, missing stub", Kinds())
	}
}

func TestWithPathTrackingDisabled(t *testing.T) {
	t.Parallel()

	stub := &stubReader{}
	if got := WithPathTracking(stub, PathTracking{}); got != RecordReader(stub) {
		t.Error("WithPathTracking with no fields configured must return the reader unchanged")
	}
}

func TestWithPathTracking(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	if err := os.WriteFile(path, []byte("1,2,3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	mod := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	if err := os.Chtimes(path, mod, mod); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	stub := &stubReader{recs: []records.Record{{"a": "1"}}}
	r := WithPathTracking(stub, PathTracking{
		PathField:             "src",
		LengthField:           "src_len",
		ModificationTimeField: "src_mtime",
	})

	if err := r.Open(context.Background(), split.Split{Path: path, Length: 6}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if ok, err := r.Next(); err != nil || !ok {
		t.Fatalf("Next = (%v, %v)", ok, err)
	}
	rec, err := r.Record()
	if err != nil {
		t.Fatalf("Record: %v", err)
	}

	if rec["a"] != "1" {
		t.Errorf("data field lost: %v", rec)
	}
	if rec["src"] != path {
		t.Errorf("src = %v, want %q", rec["src"], path)
	}
	if rec["src_len"] != int64(6) {
		t.Errorf("src_len = %v (%T), want 6", rec["src_len"], rec["src_len"])
	}
	if rec["src_mtime"] != mod.UnixMilli() {
		t.Errorf("src_mtime = %v, want %d", rec["src_mtime"], mod.UnixMilli())
	}
}

func TestWithPathTrackingFilenameOnly(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, "input.csv")
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	stub := &stubReader{recs: []records.Record{{"a": "x"}}}
	r := WithPathTracking(stub, PathTracking{PathField: "src", FilenameOnly: true})

	if err := r.Open(context.Background(), split.Split{Path: path}); err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if ok, _ := r.Next(); !ok {
		t.Fatal("Next = false")
	}
	rec, err := r.Record()
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if rec["src"] != "input.csv" {
		t.Errorf("src = %v, want input.csv", rec["src"])
	}
}

func TestWithPathTrackingMissingFile(t *testing.T) {
	t.Parallel()

	stub := &stubReader{}
	r := WithPathTracking(stub, PathTracking{LengthField: "len"})
	err := r.Open(context.Background(), split.Split{Path: filepath.Join(t.TempDir(), "missing")})
	if err == nil {
		t.Error("Open with missing file and length tracking: want error")
	}
}
