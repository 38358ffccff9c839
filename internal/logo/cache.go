package logo

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"calsync/pkg/metrics"
)

// pairKey is order-independent: (a, b) and (b, a) map to the same entry.
type pairKey struct {
	low  int64
	high int64
}

func newPairKey(a, b int64) pairKey {
	if a > b {
		a, b = b, a
	}
	return pairKey{low: a, high: b}
}

// Cache holds combined-logo references keyed by the normalized org-ID pair.
// Bounded LRU: long-running processes see many distinct pairings over a
// season, and entries for finished fixtures age out naturally.
type Cache struct {
	entries *lru.Cache[pairKey, string]
}

func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		return nil, fmt.Errorf("cache size must be positive, got %d", size)
	}

	entries, err := lru.New[pairKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create logo cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

func (c *Cache) Get(homeOrgID, awayOrgID int64) (string, bool) {
	path, ok := c.entries.Get(newPairKey(homeOrgID, awayOrgID))
	if ok {
		metrics.LogoCacheHitsTotal.WithLabelValues("hit").Inc()
	} else {
		metrics.LogoCacheHitsTotal.WithLabelValues("miss").Inc()
	}
	return path, ok
}

func (c *Cache) Add(homeOrgID, awayOrgID int64, path string) {
	c.entries.Add(newPairKey(homeOrgID, awayOrgID), path)
	metrics.LogoCacheSize.Set(float64(c.entries.Len()))
}

func (c *Cache) Len() int {
	return c.entries.Len()
}
