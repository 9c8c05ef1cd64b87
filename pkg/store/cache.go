package store

import (
	"github.com/dgraph-io/ristretto/v2"
)

// CacheOptions configures the optional read-through property cache placed
// in front of the persistent backend's node/edge-property lookups. It
// never changes observable semantics: every invariant that holds with the
// cache disabled holds identically with it enabled, since a cache miss
// always falls through to the underlying backend and every write
// invalidates the corresponding entry before returning.
type CacheOptions struct {
	// NumCounters sizes ristretto's admission-policy sketch. Ristretto's
	// own docs recommend roughly 10x the number of items the cache is
	// expected to hold.
	NumCounters int64
	// MaxCost bounds the number of cached values per cache: every value is
	// charged a cost of one regardless of its size, so memory use is not
	// bounded directly.
	MaxCost int64
	// BufferItems tunes ristretto's internal ring buffer size.
	BufferItems int64
}

// DefaultCacheOptions mirrors ristretto's own suggested defaults, scaled
// for a modest property cache rather than a page cache.
func DefaultCacheOptions() CacheOptions {
	return CacheOptions{NumCounters: 1e6, MaxCost: 1 << 26, BufferItems: 64}
}

// cachedBackend wraps another backend with a read-through cache over
// getNode/getEdgeProps. It is purely a latency optimization over the
// persistent backend's own block cache (badger already caches hot blocks;
// this additionally avoids repeated codec decode work for hot keys) — the
// index maps are never cached since set-ops and iteration already read
// them as ordered full scans.
type cachedBackend[NP, EP any] struct {
	backend[NP, EP]
	nodeCache *ristretto.Cache[NodeID, NP]
	edgeCache *ristretto.Cache[EdgeID, EP]
}

// withCache decorates base with a read-through property cache.
// NewBadgerStoreCached applies it to the result of newBadgerBackend;
// wrapping the in-memory backend is possible but pointless since it already
// holds everything in memory uncompressed.
func withCache[NP, EP any](base backend[NP, EP], opts CacheOptions) (*cachedBackend[NP, EP], error) {
	nodeCache, err := ristretto.NewCache(&ristretto.Config[NodeID, NP]{
		NumCounters: opts.NumCounters,
		MaxCost:     opts.MaxCost,
		BufferItems: opts.BufferItems,
	})
	if err != nil {
		return nil, wrapBackendIO(err)
	}
	edgeCache, err := ristretto.NewCache(&ristretto.Config[EdgeID, EP]{
		NumCounters: opts.NumCounters,
		MaxCost:     opts.MaxCost,
		BufferItems: opts.BufferItems,
	})
	if err != nil {
		nodeCache.Close()
		return nil, wrapBackendIO(err)
	}
	return &cachedBackend[NP, EP]{backend: base, nodeCache: nodeCache, edgeCache: edgeCache}, nil
}

func (c *cachedBackend[NP, EP]) getNode(id NodeID) (NP, bool, error) {
	if props, ok := c.nodeCache.Get(id); ok {
		return props, true, nil
	}
	props, ok, err := c.backend.getNode(id)
	if err != nil {
		return props, false, err
	}
	if ok {
		c.nodeCache.Set(id, props, 1)
	}
	return props, ok, nil
}

func (c *cachedBackend[NP, EP]) putNode(id NodeID, p NP) error {
	if err := c.backend.putNode(id, p); err != nil {
		return err
	}
	c.nodeCache.Del(id)
	return nil
}

func (c *cachedBackend[NP, EP]) deleteNode(id NodeID) error {
	if err := c.backend.deleteNode(id); err != nil {
		return err
	}
	c.nodeCache.Del(id)
	return nil
}

func (c *cachedBackend[NP, EP]) getEdgeProps(id EdgeID) (EP, bool, error) {
	if props, ok := c.edgeCache.Get(id); ok {
		return props, true, nil
	}
	props, ok, err := c.backend.getEdgeProps(id)
	if err != nil {
		return props, false, err
	}
	if ok {
		c.edgeCache.Set(id, props, 1)
	}
	return props, ok, nil
}

func (c *cachedBackend[NP, EP]) putEdgeProps(id EdgeID, p EP) error {
	if err := c.backend.putEdgeProps(id, p); err != nil {
		return err
	}
	c.edgeCache.Del(id)
	return nil
}

func (c *cachedBackend[NP, EP]) deleteEdgeProps(id EdgeID) error {
	if err := c.backend.deleteEdgeProps(id); err != nil {
		return err
	}
	c.edgeCache.Del(id)
	return nil
}

func (c *cachedBackend[NP, EP]) close() error {
	c.nodeCache.Close()
	c.edgeCache.Close()
	return c.backend.close()
}
