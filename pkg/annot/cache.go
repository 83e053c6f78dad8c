package annot

import (
	"sync"

	"github.com/rajaldebnath/circleator/pkg/observability"
)

// Key identifies one parsed file. Equality on the struct is the cache
// identity; no ad hoc string concatenation.
type Key struct {
	Path   string
	Format string
}

// Cache memoizes parse results by (path, format) for the lifetime of the
// process. It is append-only and never evicts: a render run is a short,
// single-pass batch, so the unbounded growth is by construction bounded
// by the input file list. Safe for concurrent use by the HTTP service.
type Cache struct {
	mu      sync.Mutex
	entries map[Key][]Record
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{entries: make(map[Key][]Record)}
}

// Records parses the file at path with the named format, returning the
// cached result when the same (path, format) pair was parsed before.
func (c *Cache) Records(reg *Registry, path, format string, opts Options) ([]Record, error) {
	key := Key{Path: path, Format: format}

	c.mu.Lock()
	recs, ok := c.entries[key]
	c.mu.Unlock()
	if ok {
		observability.Cache().OnHit(path, format)
		return recs, nil
	}
	observability.Cache().OnMiss(path, format)

	reader, err := reg.Get(format)
	if err != nil {
		return nil, err
	}
	recs, err = reader.Read(path, opts)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = recs
	c.mu.Unlock()
	return recs, nil
}

// Len returns the number of cached files.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
