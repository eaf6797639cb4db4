// Package schema defines the ordered field schema that drives positional
// field assignment and type coercion in the format readers.
//
// A Schema is immutable once constructed and is safe to share read-only
// across reader instances running on different splits. Field order is
// significant: for delimited input, the Nth token of a line is assigned to
// the Nth field of the schema.
package schema

import (
	"encoding/json"
	"fmt"
)

// Type is the primitive type of a field value.
type Type string

const (
	TypeString Type = "string"
	TypeInt    Type = "int"
	TypeLong   Type = "long"
	TypeFloat  Type = "float"
	TypeDouble Type = "double"
	TypeBool   Type = "bool"
)

// Logical annotates a string-carried field with a date/time interpretation.
// Values with a logical annotation are validated against the corresponding
// ISO-8601 local layout during coercion.
type Logical string

const (
	LogicalNone     Logical = ""
	LogicalDate     Logical = "date"
	LogicalTime     Logical = "time"
	LogicalDatetime Logical = "datetime"
)

// ISO-8601 local layouts for logical date/time fields. Fractional seconds
// are accepted on parse even though the layouts do not spell them out.
const (
	LayoutDate     = "2006-01-02"
	LayoutTime     = "15:04:05"
	LayoutDatetime = "2006-01-02T15:04:05"
)

// Layout returns the parse layout for a logical annotation, or "" when the
// annotation carries no date/time meaning.
func (l Logical) Layout() string {
	switch l {
	case LogicalDate:
		return LayoutDate
	case LogicalTime:
		return LayoutTime
	case LogicalDatetime:
		return LayoutDatetime
	}
	return ""
}

// Field describes a single named column.
type Field struct {
	Name     string  `json:"name"`
	Type     Type    `json:"type"`
	Nullable bool    `json:"nullable,omitempty"`
	Logical  Logical `json:"logical,omitempty"`
}

// Schema is an ordered sequence of named fields. The zero value is empty
// and invalid; construct through New or Parse.
type Schema struct {
	fields []Field
	index  map[string]int
}

// New builds a Schema from the provided fields. Field names must be
// non-empty and unique, and every type must be one of the known Type
// constants.
func New(fields []Field) (*Schema, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("schema: at least one field required")
	}
	idx := make(map[string]int, len(fields))
	for i, f := range fields {
		if f.Name == "" {
			return nil, fmt.Errorf("schema: field %d has no name", i)
		}
		if _, dup := idx[f.Name]; dup {
			return nil, fmt.Errorf("schema: duplicate field %q", f.Name)
		}
		switch f.Type {
		case TypeString, TypeInt, TypeLong, TypeFloat, TypeDouble, TypeBool:
		default:
			return nil, fmt.Errorf("schema: field %q has unknown type %q", f.Name, f.Type)
		}
		if f.Logical != LogicalNone && f.Logical.Layout() == "" {
			return nil, fmt.Errorf("schema: field %q has unknown logical annotation %q", f.Name, f.Logical)
		}
		idx[f.Name] = i
	}
	cp := make([]Field, len(fields))
	copy(cp, fields)
	return &Schema{fields: cp, index: idx}, nil
}

// Parse decodes a schema from its JSON representation: an array of field
// objects, e.g. [{"name":"id","type":"long"},{"name":"ts","type":"string",
// "nullable":true,"logical":"datetime"}].
func Parse(raw []byte) (*Schema, error) {
	var fields []Field
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return New(fields)
}

// Fields returns the ordered field list. Callers must not mutate the
// returned slice.
func (s *Schema) Fields() []Field { return s.fields }

// Len returns the number of fields.
func (s *Schema) Len() int { return len(s.fields) }

// Field returns the field with the given name, if present.
func (s *Schema) Field(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// MarshalJSON renders the schema back to the array form accepted by Parse.
func (s *Schema) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.fields)
}
