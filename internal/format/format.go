// Package format contains the format-agnostic record reader contract and
// the factory that concrete format packages register themselves with.
//
// A RecordReader turns one input split into a sequence of structured
// records. Concrete formats (delimited text, whole-line text) live in
// subpackages and register a constructor at init time; callers obtain a
// reader via format.New without importing format packages directly. Import
// formats/internal/format/all (even blank) to make every built-in format
// available.
package format

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"formats/internal/config"
	"formats/internal/records"
	"formats/internal/schema"
	"formats/internal/split"
)

// RecordReader reads structured records from a single split. Instances are
// single-threaded: one goroutine owns the Open→Next/Record→Close cycle.
// Distinct instances over distinct splits share no mutable state.
type RecordReader interface {
	// Open binds the reader to its split's underlying row source.
	Open(ctx context.Context, sp split.Split) error

	// Next advances to the next record. It returns false at end of input;
	// a non-nil error is a source read failure, fatal to the split.
	Next() (bool, error)

	// Record assembles and returns the current record. Valid only after a
	// successful Next.
	Record() (records.Record, error)

	// Progress estimates fractional completion of the split in [0, 1].
	Progress() float64

	// Close releases the underlying source. Idempotent; callers invoke it
	// on every exit path, including after a fatal assembly error.
	Close() error
}

// Factory constructs a reader for one reading session from the session's
// schema and format-specific options. The returned reader is unopened.
type Factory func(s *schema.Schema, opts config.Options) (RecordReader, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a format constructor available under kind. Later
// registrations for the same kind replace earlier ones.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New constructs an unopened reader for the given format kind.
func New(kind string, s *schema.Schema, opts config.Options) (RecordReader, error) {
	mu.RLock()
	f, ok := factories[kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("format: unknown kind %q (available: %s)", kind, strings.Join(Kinds(), ", "))
	}
	return f(s, opts)
}

// Kinds returns the registered format kinds, sorted.
func Kinds() []string {
	mu.RLock()
	defer mu.RUnlock()
	kinds := make([]string, 0, len(factories))
	for k := range factories {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}
