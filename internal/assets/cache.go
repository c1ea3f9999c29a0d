// Package assets loads mesh hierarchies from model files and caches
// them. The cache keeps one canonical, never-mutated hierarchy per
// source key and serves independent clones to callers.
package assets

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/cityglass/eramorph/internal/engine/scene"
)

// Loader resolves a source key (a file path or URL) to a mesh
// hierarchy. Implementations may block; the cache guarantees it is
// called at most once concurrently per key.
type Loader interface {
	Load(ctx context.Context, key string) (*scene.Node, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, key string) (*scene.Node, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, key string) (*scene.Node, error) {
	return f(ctx, key)
}

// Entry describes one cached model.
type Entry struct {
	Key           string
	LoadedAt      time.Time
	VertexCount   int
	MaterialCount int
}

type cacheEntry struct {
	canonical *scene.Node
	meta      Entry
}

type pendingLoad struct {
	done chan struct{}
	root *scene.Node
	err  error
}

// Cache memoizes loaded hierarchies by source key. A second Load for a
// key whose fetch is still in flight waits for that fetch instead of
// issuing a duplicate. Failed loads are forgotten so a later call
// retries. The cache is constructed by the host and passed to
// consumers explicitly; there is no package-level instance.
type Cache struct {
	loader Loader

	mu      sync.Mutex
	entries map[string]*cacheEntry
	pending map[string]*pendingLoad
}

// NewCache creates a cache backed by the given loader.
func NewCache(loader Loader) *Cache {
	return &Cache{
		loader:  loader,
		entries: make(map[string]*cacheEntry),
		pending: make(map[string]*pendingLoad),
	}
}

// Load returns a clone of the hierarchy for key, fetching it on first
// use. The canonical hierarchy never escapes: every caller receives its
// own deep copy and may mutate or release it freely. Concurrent calls
// for the same key share one underlying fetch. A failed fetch is
// reported to every waiter and evicted, so the next Load retries.
func (c *Cache) Load(ctx context.Context, key string) (*scene.Node, error) {
	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		c.mu.Unlock()
		return e.canonical.Clone(), nil
	}
	if p, ok := c.pending[key]; ok {
		c.mu.Unlock()
		select {
		case <-p.done:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		if p.err != nil {
			return nil, p.err
		}
		return p.root.Clone(), nil
	}

	p := &pendingLoad{done: make(chan struct{})}
	c.pending[key] = p
	c.mu.Unlock()

	root, err := c.loader.Load(ctx, key)

	c.mu.Lock()
	delete(c.pending, key)
	if err != nil {
		p.err = fmt.Errorf("loading model %q: %w", key, err)
		close(p.done)
		c.mu.Unlock()
		zap.L().Warn("model load failed", zap.String("key", key), zap.Error(err))
		return nil, p.err
	}
	c.entries[key] = &cacheEntry{
		canonical: root,
		meta: Entry{
			Key:           key,
			LoadedAt:      time.Now(),
			VertexCount:   root.VertexCount(),
			MaterialCount: len(root.CollectMaterials()),
		},
	}
	p.root = root
	close(p.done)
	c.mu.Unlock()

	return root.Clone(), nil
}

// Entries returns metadata for every cached model.
func (c *Cache) Entries() []Entry {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, 0, len(c.entries))
	for _, e := range c.entries {
		out = append(out, e.meta)
	}
	return out
}

// Len returns the number of cached models.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Clear releases every cached hierarchy's geometries and materials and
// empties the cache. Safe to call with nothing cached. In-flight loads
// are not cancelled; they complete into a fresh cache generation.
func (c *Cache) Clear() {
	c.mu.Lock()
	entries := c.entries
	c.entries = make(map[string]*cacheEntry)
	c.mu.Unlock()

	for _, e := range entries {
		scene.Release(e.canonical)
	}
}
