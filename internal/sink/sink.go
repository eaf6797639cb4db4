// Package sink contains the storage-agnostic contract for persisting
// assembled records and the factory that concrete backends register
// themselves with.
//
// Backends (Postgres, SQLite, MySQL, MSSQL) live in subpackages and
// register a constructor at init time; import formats/internal/sink/all
// (even blank) to make every built-in backend available. Callers then
// obtain a Repository via sink.New without importing backend packages or
// database drivers directly.
package sink

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Config selects and configures a sink backend.
type Config struct {
	Kind    string
	DSN     string
	Table   string   // fully qualified, e.g. "public.orders"
	Columns []string // destination columns in insertion order
}

// Repository is the minimal bulk-load surface the ingestion pipeline
// needs. Implementations should use the backend's most efficient
// primitive (Postgres COPY, multi-row INSERT elsewhere).
type Repository interface {
	// CopyFrom inserts rows (aligned to the columns order) and returns
	// the number of rows reported as inserted. It must cancel promptly
	// when ctx is done.
	CopyFrom(ctx context.Context, columns []string, rows [][]any) (int64, error)

	// Close releases the underlying connection pool.
	Close()
}

// Factory constructs a Repository for one backend kind.
type Factory func(ctx context.Context, cfg Config) (Repository, error)

var (
	mu        sync.RWMutex
	factories = map[string]Factory{}
)

// Register makes a backend constructor available under kind.
func Register(kind string, f Factory) {
	mu.Lock()
	defer mu.Unlock()
	factories[kind] = f
}

// New opens a Repository for cfg.Kind.
func New(ctx context.Context, cfg Config) (Repository, error) {
	mu.RLock()
	f, ok := factories[cfg.Kind]
	mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("sink: unknown kind %q (available: %s)", cfg.Kind, strings.Join(Kinds(), ", "))
	}
	return f(ctx, cfg)
}

// Kinds returns the registered backend kinds, sorted.
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
