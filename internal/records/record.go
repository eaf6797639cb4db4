// Package records holds the generic structured record produced by the
// format readers and the schema-bound builder used to assemble one.
package records

import (
	"fmt"
	"strconv"
	"time"

	"formats/internal/schema"
)

// Record is one structured record keyed by field name. Values are nil or
// one of: string, int32, int64, float32, float64, bool.
type Record map[string]any

// Builder accumulates field values for a single record. It is owned by the
// call assembling one input line and must not be shared across lines or
// goroutines.
type Builder struct {
	schema *schema.Schema
	values Record
}

// NewBuilder returns a builder for one record of the given schema.
func NewBuilder(s *schema.Schema) *Builder {
	return &Builder{
		schema: s,
		values: make(Record, s.Len()),
	}
}

// Set stores a value for the named field without conversion. Setting an
// unknown field is an error.
func (b *Builder) Set(name string, v any) error {
	if _, ok := b.schema.Field(name); !ok {
		return fmt.Errorf("records: set %q: no such field", name)
	}
	b.values[name] = v
	return nil
}

// Convert parses raw according to the named field's declared type and
// stores the result. The caller handles empty tokens (they become nil via
// Set) before reaching here.
func (b *Builder) Convert(name, raw string) error {
	f, ok := b.schema.Field(name)
	if !ok {
		return fmt.Errorf("records: convert %q: no such field", name)
	}
	v, err := convert(f, raw)
	if err != nil {
		return err
	}
	b.values[name] = v
	return nil
}

// Build finalizes the record. Fields never set are nil; a nil value in a
// non-nullable field is rejected here rather than silently emitted.
func (b *Builder) Build() (Record, error) {
	for _, f := range b.schema.Fields() {
		if b.values[f.Name] == nil && !f.Nullable {
			return nil, fmt.Errorf("records: field %q is not nullable but has no value", f.Name)
		}
	}
	rec := b.values
	b.values = nil
	return rec, nil
}

func convert(f schema.Field, raw string) (any, error) {
	switch f.Type {
	case schema.TypeString:
		return raw, nil
	case schema.TypeInt:
		n, err := strconv.ParseInt(raw, 10, 32)
		if err != nil {
			return nil, fmt.Errorf("records: field %q: %q is not an int", f.Name, raw)
		}
		return int32(n), nil
	case schema.TypeLong:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("records: field %q: %q is not a long", f.Name, raw)
		}
		return n, nil
	case schema.TypeFloat:
		n, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return nil, fmt.Errorf("records: field %q: %q is not a float", f.Name, raw)
		}
		return float32(n), nil
	case schema.TypeDouble:
		n, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, fmt.Errorf("records: field %q: %q is not a double", f.Name, raw)
		}
		return n, nil
	case schema.TypeBool:
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("records: field %q: %q is not a bool", f.Name, raw)
		}
		return v, nil
	}
	return nil, fmt.Errorf("records: field %q: unsupported type %q", f.Name, f.Type)
}

// InvalidDateTimeError reports a value that does not parse against the
// ISO-8601 local layout demanded by a field's logical annotation.
type InvalidDateTimeError struct {
	Field  string
	Value  string
	Layout string
}

func (e *InvalidDateTimeError) Error() string {
	return fmt.Sprintf("records: field %q: %q does not match layout %s", e.Field, e.Value, e.Layout)
}

// ValidateDateTime checks raw against the layout implied by the field's
// logical annotation. Fields without an annotation always pass.
func ValidateDateTime(f schema.Field, raw string) error {
	layout := f.Logical.Layout()
	if layout == "" {
		return nil
	}
	if _, err := time.Parse(layout, raw); err != nil {
		return &InvalidDateTimeError{Field: f.Name, Value: raw, Layout: layout}
	}
	return nil
}
