package format

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"formats/internal/records"
	"formats/internal/split"
)

// PathTracking configures optional injection of file metadata into every
// record read from a split. Empty field names disable the corresponding
// injection. The injected fields are metadata, not data: they are added on
// top of the records the wrapped reader assembles from its data schema.
type PathTracking struct {
	// PathField receives the file path (string).
	PathField string
	// LengthField receives the file size in bytes (long).
	LengthField string
	// ModificationTimeField receives the file modification time in epoch
	// milliseconds (long).
	ModificationTimeField string
	// FilenameOnly replaces the full path with the final path element.
	FilenameOnly bool
}

func (p PathTracking) enabled() bool {
	return p.PathField != "" || p.LengthField != "" || p.ModificationTimeField != ""
}

// WithPathTracking wraps r so that every record it yields also carries the
// configured file metadata fields. When no field is configured, r is
// returned unchanged.
func WithPathTracking(r RecordReader, p PathTracking) RecordReader {
	if !p.enabled() {
		return r
	}
	return &trackingReader{inner: r, cfg: p}
}

type trackingReader struct {
	inner RecordReader
	cfg   PathTracking

	path    string
	length  int64
	modTime int64
}

func (t *trackingReader) Open(ctx context.Context, sp split.Split) error {
	if t.cfg.LengthField != "" || t.cfg.ModificationTimeField != "" {
		info, err := os.Stat(sp.Path)
		if err != nil {
			return fmt.Errorf("stat %s: %w", sp.Path, err)
		}
		t.length = info.Size()
		t.modTime = info.ModTime().UnixMilli()
	}
	t.path = sp.Path
	if t.cfg.FilenameOnly {
		t.path = filepath.Base(sp.Path)
	}
	return t.inner.Open(ctx, sp)
}

func (t *trackingReader) Next() (bool, error) { return t.inner.Next() }

func (t *trackingReader) Record() (records.Record, error) {
	rec, err := t.inner.Record()
	if err != nil {
		return nil, err
	}
	if t.cfg.PathField != "" {
		rec[t.cfg.PathField] = t.path
	}
	if t.cfg.LengthField != "" {
		rec[t.cfg.LengthField] = t.length
	}
	if t.cfg.ModificationTimeField != "" {
		rec[t.cfg.ModificationTimeField] = t.modTime
	}
	return rec, nil
}

func (t *trackingReader) Progress() float64 { return t.inner.Progress() }

func (t *trackingReader) Close() error { return t.inner.Close() }
