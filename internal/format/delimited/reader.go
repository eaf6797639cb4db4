package delimited

import (
	"context"
	"fmt"
	"io"
	"strings"

	"formats/internal/config"
	"formats/internal/format"
	"formats/internal/records"
	"formats/internal/schema"
	"formats/internal/source/line"
	"formats/internal/split"
)

// bodyField is the field name the whole-line "text" format emits; its
// presence in a delimited schema usually means the wrong format was picked.
const bodyField = "body"

// Config is the immutable per-session parse configuration.
type Config struct {
	// Delimiter is the literal string separating fields. Required.
	Delimiter string

	// EnableQuotedValues selects quote-aware tokenization.
	EnableQuotedValues bool

	// SkipHeader discards the first record of each split.
	SkipHeader bool

	// Schema drives positional field assignment and type coercion.
	Schema *schema.Schema
}

func (c Config) validate() error {
	if c.Delimiter == "" {
		return fmt.Errorf("delimited: delimiter must not be empty")
	}
	if c.Schema == nil {
		return fmt.Errorf("delimited: schema must not be nil")
	}
	return nil
}

// FieldCountError reports a line that split into more tokens than the
// schema has fields. Observed is recomputed by a second scan of the line
// so it reflects the true token count, not the point where the first walk
// stopped. Hints carry advisory diagnostics only.
type FieldCountError struct {
	Observed int
	Expected int
	Hints    []string
}

func (e *FieldCountError) Error() string {
	plural := "s"
	if e.Expected == 1 {
		plural = ""
	}
	msg := fmt.Sprintf("found a row with %d fields when the schema only contains %d field%s",
		e.Observed, e.Expected, plural)
	for _, h := range e.Hints {
		msg += "; " + h
	}
	return msg
}

// assemble tokenizes one line and builds one record from it, pairing
// tokens with schema fields positionally.
//
// The walk is a single index-bounded loop with explicit branches for the
// two ways the sequences can diverge: tokens running out first leaves the
// trailing schema fields explicitly null (the builder rejects the record
// later if any of them is non-nullable), and fields running out first
// fails with a *FieldCountError carrying the re-scanned token count.
func assemble(input string, cfg Config) (records.Record, error) {
	b := records.NewBuilder(cfg.Schema)
	fields := cfg.Schema.Fields()
	tk := NewTokenizer(input, cfg.Delimiter, cfg.EnableQuotedValues)

	i := 0
	for {
		tok, ok := tk.Next()
		if !ok {
			// Tokens exhausted. Null-fill any trailing fields.
			for ; i < len(fields); i++ {
				if err := b.Set(fields[i].Name, nil); err != nil {
					return nil, err
				}
			}
			break
		}
		if i >= len(fields) {
			return nil, countMismatch(input, cfg)
		}
		if err := coerce(b, fields[i], tok); err != nil {
			return nil, err
		}
		i++
	}
	return b.Build()
}

// countMismatch builds the diagnostic for a row wider than the schema,
// re-tokenizing the line to report the true field count.
func countMismatch(input string, cfg Config) *FieldCountError {
	e := &FieldCountError{
		Observed: Count(input, cfg.Delimiter, cfg.EnableQuotedValues),
		Expected: cfg.Schema.Len(),
	}
	if f, ok := cfg.Schema.Field(bodyField); ok && f.Type == schema.TypeString {
		e.Hints = append(e.Hints, "did you mean to use the 'text' format?")
	}
	if !cfg.EnableQuotedValues && strings.Contains(input, `"`) {
		e.Hints = append(e.Hints, "check if quoted values should be allowed")
	}
	e.Hints = append(e.Hints, "check that the schema contains the right number of fields")
	return e
}

// skipAsHeader reports whether the record at index idx must be discarded
// as a header row. Header skipping applies to the first record of every
// split, not only the split holding the file's first line; see the
// pipeline validator's warning about multi-split inputs.
func skipAsHeader(idx uint64, skipHeader bool) bool {
	return skipHeader && idx == 0
}

// rowSource is the line-oriented collaborator the reader pulls from.
type rowSource interface {
	Next() (uint64, string, error)
	Progress() float64
	Close() error
}

// openSource is a test hook that points at the real line reader by
// default. Tests may replace it to drive the reader from a fake source.
var openSource = func(ctx context.Context, sp split.Split) (rowSource, error) {
	return line.Open(ctx, sp)
}

type readerState int

const (
	stateUnopened readerState = iota
	stateReady
	stateExhausted
)

// Reader is the delimited-format record reader over one split. It is
// driven by a single goroutine; the configuration snapshot and schema it
// holds are immutable and may be shared with readers of other splits.
type Reader struct {
	cfg   Config
	src   rowSource
	state readerState

	cur    string
	curSet bool
}

// NewReader returns an unopened reader for one reading session.
func NewReader(cfg Config) (*Reader, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &Reader{cfg: cfg}, nil
}

// Open binds the reader to the split's row source.
func (r *Reader) Open(ctx context.Context, sp split.Split) error {
	if r.state != stateUnopened {
		return fmt.Errorf("delimited: reader already opened")
	}
	src, err := openSource(ctx, sp)
	if err != nil {
		return err
	}
	r.src = src
	r.state = stateReady
	return nil
}

// Next pulls the next raw line, skipping a header row where configured.
// It returns false at end of the split; a non-nil error is a source read
// failure.
func (r *Reader) Next() (bool, error) {
	r.curSet = false
	switch r.state {
	case stateUnopened:
		return false, fmt.Errorf("delimited: reader not opened")
	case stateExhausted:
		return false, nil
	}
	for {
		idx, ln, err := r.src.Next()
		if err == io.EOF {
			r.state = stateExhausted
			return false, nil
		}
		if err != nil {
			return false, err
		}
		if skipAsHeader(idx, r.cfg.SkipHeader) {
			continue
		}
		r.cur = ln
		r.curSet = true
		return true, nil
	}
}

// Record assembles the current line into a record. Valid only after a
// successful Next; assembly failures propagate to the caller and fail the
// record, never emitting a partial one.
func (r *Reader) Record() (records.Record, error) {
	if !r.curSet {
		return nil, fmt.Errorf("delimited: no current record; call Next first")
	}
	return assemble(r.cur, r.cfg)
}

// Progress delegates the completion estimate to the row source.
func (r *Reader) Progress() float64 {
	switch r.state {
	case stateUnopened:
		return 0
	case stateExhausted:
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
	format.Register("delimited", func(s *schema.Schema, opts config.Options) (format.RecordReader, error) {
		return NewReader(Config{
			Delimiter:          opts.String("delimiter", ""),
			EnableQuotedValues: opts.Bool("enable_quoted_values", false),
			SkipHeader:         opts.Bool("skip_header", false),
			Schema:             s,
		})
	})
}
