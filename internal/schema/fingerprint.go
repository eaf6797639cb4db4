package schema

import (
	"strconv"
	"strings"
	"sync"

	"github.com/zeebo/xxh3"
)

// Fingerprint returns a stable structural fingerprint of the schema: two
// schemas share a fingerprint value whenever their ordered field lists are
// structurally identical. The fingerprint is a fast lookup key, not a proof
// of equality; use Equal to confirm.
func (s *Schema) Fingerprint() uint64 {
	var b strings.Builder
	for _, f := range s.fields {
		b.WriteString(f.Name)
		b.WriteByte(0x1f)
		b.WriteString(string(f.Type))
		b.WriteByte(0x1f)
		b.WriteString(strconv.FormatBool(f.Nullable))
		b.WriteByte(0x1f)
		b.WriteString(string(f.Logical))
		b.WriteByte(0x1e)
	}
	return xxh3.HashString(b.String())
}

// Equal reports whether two schemas have identical ordered field lists.
func (s *Schema) Equal(o *Schema) bool {
	if s == nil || o == nil {
		return s == o
	}
	if len(s.fields) != len(o.fields) {
		return false
	}
	for i := range s.fields {
		if s.fields[i] != o.fields[i] {
			return false
		}
	}
	return true
}

// Cache memoizes Parse results across reader instances so that N readers
// over splits of the same input decode the schema JSON once.
//
// Entries are bucketed by an xxh3 hash of the raw JSON, but a hit is only
// served after byte-for-byte comparison of the source text, so a hash
// collision can never hand back the wrong schema.
type Cache struct {
	mu      sync.Mutex
	entries map[uint64][]cacheEntry
}

type cacheEntry struct {
	raw    string
	schema *Schema
}

// NewCache returns an empty schema cache, safe for concurrent use.
func NewCache() *Cache {
	return &Cache{entries: map[uint64][]cacheEntry{}}
}

// Parse returns the schema for raw, decoding it on first sight and serving
// the memoized value afterwards. Decode errors are not cached.
func (c *Cache) Parse(raw []byte) (*Schema, error) {
	key := xxh3.Hash(raw)

	c.mu.Lock()
	for _, e := range c.entries[key] {
		if e.raw == string(raw) {
			c.mu.Unlock()
			return e.schema, nil
		}
	}
	c.mu.Unlock()

	s, err := Parse(raw)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = append(c.entries[key], cacheEntry{raw: string(raw), schema: s})
	c.mu.Unlock()
	return s, nil
}
