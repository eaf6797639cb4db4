package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"formats/internal/config"
	"formats/internal/schema"
	"formats/internal/sink"
)

var errInsert = errors.New("insert failed")

// failingRepo rejects every batch.
type failingRepo struct{}

func (failingRepo) CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error) {
	return 0, errInsert
}

func (failingRepo) Close() {}

func writeRows(t *testing.T, n int) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < n; i++ {
		fmt.Fprintf(&b, "%d,value\n", i)
	}
	path := filepath.Join(t.TempDir(), "rows.csv")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestRunReturnsPromptlyOnSinkFailure(t *testing.T) {
	sink.Register("failing", func(ctx context.Context, cfg sink.Config) (sink.Repository, error) {
		return failingRepo{}, nil
	})

	// Far more rows than the channel buffer holds, so readers would block
	// on the send forever if a dead loader did not cancel them.
	path := writeRows(t, 5000)

	p := config.Pipeline{
		Job:    "failfast",
		Source: config.Source{Path: path},
		Format: config.Format{
			Kind:    "delimited",
			Options: config.Options{"delimiter": ","},
			Schema:  json.RawMessage(`[{"name":"id","type":"long"},{"name":"v","type":"string","nullable":true}]`),
		},
		Sink: config.Sink{
			Kind: "failing",
			DB:   config.DBConfig{DSN: "unused", Table: "t"},
		},
		Runtime: config.RuntimeConfig{ReaderWorkers: 1, BatchSize: 1, ChannelBuffer: 1},
	}

	done := make(chan error, 1)
	go func() { done <- run(context.Background(), p, false) }()

	select {
	case err := <-done:
		if !errors.Is(err, errInsert) {
			t.Fatalf("run error = %v, want the sink failure", err)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not return after the sink failure")
	}
}

func TestInferFromSampleLongLine(t *testing.T) {
	t.Parallel()

	// One line well past bufio.Scanner's default 64 KiB token cap.
	long := strings.Repeat("x", 200<<10)
	path := filepath.Join(t.TempDir(), "wide.csv")
	content := "id,blob\n1," + long + "\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	s, err := inferFromSample(path, ",", false, true)
	if err != nil {
		t.Fatalf("inferFromSample: %v", err)
	}
	want := []schema.Field{
		{Name: "id", Type: schema.TypeLong, Nullable: true},
		{Name: "blob", Type: schema.TypeString, Nullable: true},
	}
	got := s.Fields()
	if len(got) != len(want) {
		t.Fatalf("got %d fields, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("field %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}
