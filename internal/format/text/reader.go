// Package text implements the whole-line text format: one record per
// input line, with the raw line in a string "body" field and, when the
// schema asks for it, the line's byte offset in a long "offset" field.
//
// It is the format the delimited reader's mismatch diagnostic points at
// when a schema turns out to describe unstructured lines.
package text

import (
	"context"
	"fmt"
	"io"

	"formats/internal/config"
	"formats/internal/format"
	"formats/internal/records"
	"formats/internal/schema"
	"formats/internal/source/line"
	"formats/internal/split"
)

const (
	bodyField   = "body"
	offsetField = "offset"
)

// Reader is the whole-line record reader over one split.
type Reader struct {
	schema     *schema.Schema
	skipHeader bool

	src    *line.Reader
	opened bool
	done   bool

	cur       string
	curOffset int64
	curSet    bool
}

// NewReader returns an unopened text reader. The schema must declare a
// string "body" field; a long "offset" field is optional.
func NewReader(s *schema.Schema, skipHeader bool) (*Reader, error) {
	if s == nil {
		return nil, fmt.Errorf("text: schema must not be nil")
	}
	f, ok := s.Field(bodyField)
	if !ok || f.Type != schema.TypeString {
		return nil, fmt.Errorf("text: schema must contain a string %q field", bodyField)
	}
	if f, ok := s.Field(offsetField); ok && f.Type != schema.TypeLong {
		return nil, fmt.Errorf("text: %q field must be of type long, not %q", offsetField, f.Type)
	}
	return &Reader{schema: s, skipHeader: skipHeader}, nil
}

// Open binds the reader to the split's row source.
func (r *Reader) Open(ctx context.Context, sp split.Split) error {
	if r.opened {
		return fmt.Errorf("text: reader already opened")
	}
	src, err := line.Open(ctx, sp)
	if err != nil {
		return err
	}
	r.src = src
	r.opened = true
	return nil
}

// Next advances to the next line, honoring header skipping per split.
func (r *Reader) Next() (bool, error) {
	r.curSet = false
	if !r.opened {
		return false, fmt.Errorf("text: reader not opened")
	}
	if r.done {
		return false, nil
	}
	for {
		idx, ln, err := r.src.Next()
		if err == io.EOF {
			r.done = true
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if r.skipHeader && idx == 0 {
			continue
		}
		r.cur = ln
		r.curOffset = r.src.Offset()
		r.curSet = true
		return true, nil
	}
}

// Record returns the current line as a record.
func (r *Reader) Record() (records.Record, error) {
	if !r.curSet {
		return nil, fmt.Errorf("text: no current record; call Next first")
	}
	b := records.NewBuilder(r.schema)
	if err := b.Set(bodyField, r.cur); err != nil {
		return nil, err
	}
	if _, ok := r.schema.Field(offsetField); ok {
		if err := b.Set(offsetField, r.curOffset); err != nil {
			return nil, err
		}
	}
	return b.Build()
}

// Progress delegates to the row source.
func (r *Reader) Progress() float64 {
	if !r.opened {
		return 0
	}
	if r.done {
		return 1
	}
	return r.src.Progress()
}

// Close releases the row source. Idempotent.
func (r *Reader) Close() error {
	if r.src == nil {
		return nil
	}
	err := r.src.Close()
	r.src = nil
	return err
}

func init() {
	format.Register("text", func(s *schema.Schema, opts config.Options) (format.RecordReader, error) {
		return NewReader(s, opts.Bool("skip_header", false))
	})
}
