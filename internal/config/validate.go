// Package config provides configuration models and helpers for ingestion
// pipelines.
//
// This file adds a lightweight linter/validator for Pipeline values. It
// performs static checks over a decoded Pipeline and returns a list of
// issues (errors and warnings) that callers can surface in a CLI or tests.
package config

import (
	"fmt"
	"strings"
)

// IssueSeverity represents the severity of a configuration issue.
type IssueSeverity string

const (
	// SeverityError indicates a configuration error that should block execution.
	SeverityError IssueSeverity = "error"
	// SeverityWarning indicates a configuration warning that should be
	// surfaced to users but may not necessarily block execution.
	SeverityWarning IssueSeverity = "warning"
)

// Issue describes a single validation/lint finding for a Pipeline.
//
// Path is a dotted path into the config (e.g. "format.kind",
// "format.options.delimiter"). Message is human-readable.
type Issue struct {
	Severity IssueSeverity
	Path     string
	Message  string
}

// Error implements the error interface so an Issue can be treated as a
// single error in contexts that expect one.
func (i Issue) Error() string {
	return fmt.Sprintf("%s at %s: %s", i.Severity, i.Path, i.Message)
}

// ValidatePipeline performs static validation / linting of a Pipeline.
//
// It does not mutate the pipeline. Instead it returns a slice of Issue
// values; callers decide whether to treat warnings as fatal.
func ValidatePipeline(p Pipeline) []Issue {
	var issues []Issue

	if strings.TrimSpace(p.Job) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "job",
			Message:  "job must not be empty; it is used for metrics labeling and identifying runs",
		})
	}
	issues = append(issues, validateSource(p.Source)...)
	issues = append(issues, validateFormat(p)...)
	issues = append(issues, validateSink(p.Sink)...)
	issues = append(issues, validateRuntime(p.Runtime)...)

	return issues
}

func validateSource(s Source) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Path) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "source.path",
			Message:  "source requires a non-empty path",
		})
	}
	if s.SplitSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "source.split_size",
			Message:  "negative split_size is treated as a single split",
		})
	}
	return issues
}

func validateFormat(p Pipeline) []Issue {
	var issues []Issue
	f := p.Format

	if strings.TrimSpace(f.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "format.kind",
			Message:  "format.kind must not be empty",
		})
		return issues
	}

	// Known format kinds. Unknown kinds are warnings (for forward
	// compatibility with externally registered formats).
	known := map[string]struct{}{
		"delimited": {},
		"text":      {},
	}
	if _, ok := known[f.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "format.kind",
			Message:  fmt.Sprintf("unknown format kind %q; ensure a matching implementation exists", f.Kind),
		})
	}

	switch f.Kind {
	case "delimited":
		if f.Options.String("delimiter", "") == "" {
			issues = append(issues, Issue{
				Severity: SeverityError,
				Path:     "format.options.delimiter",
				Message:  "delimited format requires a non-empty delimiter",
			})
		}
		if f.Options.Bool("skip_header", false) && p.Source.SplitSize > 0 {
			// Header skipping discards the first record of every split, not
			// just the split containing the header line. With multiple
			// splits that drops one data row per extra split.
			issues = append(issues, Issue{
				Severity: SeverityWarning,
				Path:     "format.options.skip_header",
				Message:  "skip_header discards the first record of every split; with split_size > 0 this can drop data rows",
			})
		}
	}

	if len(f.Schema) == 0 {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "format.schema",
			Message:  "no schema configured; one must be inferred or supplied before reading",
		})
	}
	return issues
}

func validateSink(s Sink) []Issue {
	var issues []Issue

	if strings.TrimSpace(s.Kind) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.kind",
			Message:  "sink.kind must not be empty",
		})
		return issues
	}

	known := map[string]struct{}{
		"postgres": {},
		"sqlite":   {},
		"mysql":    {},
		"mssql":    {},
	}
	if _, ok := known[s.Kind]; !ok {
		issues = append(issues, Issue{
			Severity: SeverityWarning,
			Path:     "sink.kind",
			Message:  fmt.Sprintf("unknown sink kind %q; ensure a matching implementation exists", s.Kind),
		})
	}

	if strings.TrimSpace(s.DB.DSN) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.db.dsn",
			Message:  "sink requires a non-empty dsn",
		})
	}
	if strings.TrimSpace(s.DB.Table) == "" {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "sink.db.table",
			Message:  "sink requires a non-empty table",
		})
	}
	return issues
}

func validateRuntime(r RuntimeConfig) []Issue {
	var issues []Issue

	if r.ReaderWorkers < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.reader_workers",
			Message:  "reader_workers must not be negative",
		})
	}
	if r.BatchSize < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.batch_size",
			Message:  "batch_size must not be negative",
		})
	}
	if r.ChannelBuffer < 0 {
		issues = append(issues, Issue{
			Severity: SeverityError,
			Path:     "runtime.channel_buffer",
			Message:  "channel_buffer must not be negative",
		})
	}
	return issues
}
