// Package config defines the canonical, JSON-serializable configuration
// model for an ingestion run. It is intentionally small, explicit, and
// dependency-free so that pipeline files can be loaded from disk (or other
// sources) and passed through the program without additional glue code.
//
// Design goals:
//
//  1. Stability: changes to this package should be additive and backwards-
//     compatible whenever possible.
//  2. Clarity: field names in Go mirror the JSON structure used in pipeline
//     files.
//  3. Minimalism: decoding is performed by the standard library, with a
//     light Options helper for typed access to free-form option bags.
//
// Example (trimmed):
//
//	{
//	  "job":    "orders",
//	  "source": { "path": "data/orders.csv", "split_size": 134217728 },
//	  "format": {
//	    "kind": "delimited",
//	    "options": { "delimiter": ",", "skip_header": true },
//	    "schema": [ {"name":"id","type":"long"}, {"name":"note","type":"string","nullable":true} ]
//	  },
//	  "sink":   { "kind": "postgres", "db": { "dsn": "...", "table": "public.orders" } }
//	}
package config

import "encoding/json"

// Pipeline is the top-level object decoded from a pipeline file.
type Pipeline struct {
	// Job names the run; it labels metrics and log lines.
	Job string `json:"job"`

	// Source describes the input file and how it is divided into splits.
	Source Source `json:"source"`

	// Format configures how raw lines are turned into records.
	Format Format `json:"format"`

	// Sink describes where assembled records are written.
	Sink Sink `json:"sink"`

	Runtime RuntimeConfig `json:"runtime"`
}

// RuntimeConfig controls concurrency, batching, and channel buffer sizes.
type RuntimeConfig struct {
	// ReaderWorkers caps how many splits are read concurrently. Zero means
	// one worker per split.
	ReaderWorkers int `json:"reader_workers"`
	BatchSize     int `json:"batch_size"`
	ChannelBuffer int `json:"channel_buffer"`
}

// Source identifies the input file.
type Source struct {
	// Path is the local filesystem path to the input file.
	Path string `json:"path"`

	// SplitSize is the target split size in bytes. Zero or negative reads
	// the whole file as a single split.
	SplitSize int64 `json:"split_size"`
}

// Format selects and configures the record reader for the run.
type Format struct {
	// Kind selects the format implementation (e.g. "delimited", "text").
	Kind string `json:"kind"`

	// Options is a free-form map interpreted by the format implementation.
	// For delimited, typical keys are:
	//   delimiter (string, required), enable_quoted_values (bool),
	//   skip_header (bool)
	Options Options `json:"options"`

	// Schema is the ordered field list driving positional assignment and
	// type coercion. When empty, the caller may infer one from a sample.
	Schema json.RawMessage `json:"schema"`

	// PathField, LengthField, and ModificationTimeField name optional
	// output fields that receive file metadata on every record. Empty
	// names disable the injection.
	PathField             string `json:"path_field,omitempty"`
	LengthField           string `json:"length_field,omitempty"`
	ModificationTimeField string `json:"modification_time_field,omitempty"`

	// FilenameOnly injects only the final path element into PathField.
	FilenameOnly bool `json:"filename_only,omitempty"`
}

// Sink selects the destination used to persist records.
type Sink struct {
	// Kind selects the sink implementation (e.g. "postgres", "sqlite",
	// "mysql", "mssql").
	Kind string `json:"kind"`

	DB DBConfig `json:"db"`
}

// DBConfig configures a database sink.
type DBConfig struct {
	// DSN is the driver connection string (e.g. postgresql://...).
	DSN string `json:"dsn"`

	// Table is the fully qualified destination table (e.g. "public.t").
	Table string `json:"table"`

	// Columns enumerates the destination columns in insertion order. When
	// empty, the schema's field names (plus any metadata fields) are used.
	Columns []string `json:"columns"`
}

// Options is a small helper to fetch typed values from arbitrary JSON maps
// without introducing third-party configuration libraries. It purposefully
// performs only minimal type coercion and returns provided defaults when a
// key is absent or of an unexpected type.
type Options map[string]any

// String returns the string value for key or def if key is missing or not a string.
func (o Options) String(key, def string) string {
	if v, ok := o[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// Bool returns the bool value for key or def if key is missing or not a bool.
func (o Options) Bool(key string, def bool) bool {
	if v, ok := o[key]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// Int returns the int value for key or def. JSON numbers are decoded as
// float64 by encoding/json, so this method accepts float64 and casts to int.
func (o Options) Int(key string, def int) int {
	if v, ok := o[key]; ok {
		switch n := v.(type) {
		case float64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// StringMap returns a map[string]string for key when the value is an object
// whose values are strings. Non-string values are ignored.
func (o Options) StringMap(key string) map[string]string {
	res := map[string]string{}
	if v, ok := o[key]; ok {
		if m, ok := v.(map[string]any); ok {
			for k, vv := range m {
				if s, ok := vv.(string); ok {
					res[k] = s
				}
			}
		}
	}
	return res
}

// Any returns the raw value for key (which may itself be a nested
// map[string]any, []any, or primitive).
func (o Options) Any(key string) any {
	if v, ok := o[key]; ok {
		return v
	}
	return nil
}

// UnmarshalJSON implements json.Unmarshaler so that a missing or null
// "options" object decodes to a non-nil, empty Options map. This removes
// the need to nil-check Options values at call sites.
func (o *Options) UnmarshalJSON(b []byte) error {
	var tmp map[string]any
	if len(b) == 0 || string(b) == "null" {
		*o = Options{}
		return nil
	}
	if err := json.Unmarshal(b, &tmp); err != nil {
		return err
	}
	*o = Options(tmp)
	return nil
}
