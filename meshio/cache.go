package meshio

import (
	"github.com/gogpu/voxscene/internal/cache"
)

// CachingImporter remembers the meshes of recently imported paths.
// Failed imports are not cached. Returned meshes are shared between callers
// and must not be modified.
type CachingImporter struct {
	inner Importer
	lru   *cache.LRU[string, *Mesh]
}

// NewCachingImporter wraps inner with a cache of up to capacity meshes.
func NewCachingImporter(inner Importer, capacity int) *CachingImporter {
	return &CachingImporter{inner: inner, lru: cache.NewLRU[string, *Mesh](capacity)}
}

// Import implements Importer.
func (c *CachingImporter) Import(path string) (*Mesh, error) {
	if m, ok := c.lru.Get(path); ok {
		return m, nil
	}
	m, err := c.inner.Import(path)
	if err != nil {
		return nil, err
	}
	c.lru.Put(path, m)
	return m, nil
}

// Forget drops path from the cache so the next Import reads it again.
func (c *CachingImporter) Forget(path string) { c.lru.Delete(path) }

// Stats returns the cache counters.
func (c *CachingImporter) Stats() cache.Stats { return c.lru.Stats() }

var _ Importer = (*CachingImporter)(nil)
