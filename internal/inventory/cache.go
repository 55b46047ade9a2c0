package inventory

import "sync"

// summaryCache keeps per-item summaries between reads. Entries are dropped
// when an append touches the item. Each key carries a generation counter so a
// fold that started before an invalidation can never write its stale result
// back afterwards.
type summaryCache struct {
	mu    sync.RWMutex
	items map[string]ItemSummary
	gens  map[string]uint64
}

func newSummaryCache() *summaryCache {
	return &summaryCache{
		items: make(map[string]ItemSummary),
		gens:  make(map[string]uint64),
	}
}

func (c *summaryCache) get(key string) (ItemSummary, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	summary, ok := c.items[key]
	return summary, ok
}

// snapshotGens records every key's generation before a fold begins. Keys that
// were never invalidated are absent and count as generation zero.
func (c *summaryCache) snapshotGens() map[string]uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	gens := make(map[string]uint64, len(c.gens))
	for key, gen := range c.gens {
		gens[key] = gen
	}
	return gens
}

// putAll stores fold results, skipping any key invalidated since the fold
// began. Invalidation always wins over a concurrent stale population.
func (c *summaryCache) putAll(summaries []ItemSummary, gens map[string]uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, s := range summaries {
		key := itemKey(s.Name)
		if c.gens[key] != gens[key] {
			continue
		}
		c.items[key] = s
	}
}

func (c *summaryCache) invalidate(key string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.items, key)
	c.gens[key]++
}
