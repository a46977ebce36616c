package memory

import (
	"hash/fnv"
	"sync"

	"github.com/hamed0406/statusdash/internal/domain"
	"github.com/hamed0406/statusdash/internal/repo"
)

const shardCount = 16

type shard struct {
	mu      sync.RWMutex
	entries map[domain.CheckIdentity]domain.CacheEntry
}

// Cache is a lock-striped in-process result cache. Entries are stored by
// value and cloned on the way in, so a stored entry is never mutated after
// Put returns. Nothing is ever evicted.
type Cache struct {
	shards [shardCount]*shard
}

func New() *Cache {
	c := &Cache{}
	for i := range c.shards {
		c.shards[i] = &shard{entries: make(map[domain.CheckIdentity]domain.CacheEntry)}
	}
	return c
}

func (c *Cache) shardFor(id domain.CheckIdentity) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(id.Environment))
	_, _ = h.Write([]byte{0})
	_, _ = h.Write([]byte(id.Check))
	return c.shards[h.Sum32()%shardCount]
}

// Get returns the entry for id. The returned value must be treated as
// read-only: its sub-check slice is shared with the cache.
func (c *Cache) Get(id domain.CheckIdentity) (domain.CacheEntry, bool) {
	s := c.shardFor(id)
	s.mu.RLock()
	e, ok := s.entries[id]
	s.mu.RUnlock()
	return e, ok
}

// Put replaces any existing entry for id (last write wins).
func (c *Cache) Put(id domain.CheckIdentity, entry domain.CacheEntry) {
	entry = entry.Clone()
	s := c.shardFor(id)
	s.mu.Lock()
	s.entries[id] = entry
	s.mu.Unlock()
}

// Len reports how many checks have been observed at least once.
func (c *Cache) Len() int {
	n := 0
	for _, s := range c.shards {
		s.mu.RLock()
		n += len(s.entries)
		s.mu.RUnlock()
	}
	return n
}

// Snapshot copies every entry. Shards are locked one at a time, so the
// result is per-key consistent but not a point-in-time view across keys.
func (c *Cache) Snapshot() map[domain.CheckIdentity]domain.CacheEntry {
	out := make(map[domain.CheckIdentity]domain.CacheEntry)
	for _, s := range c.shards {
		s.mu.RLock()
		for id, e := range s.entries {
			out[id] = e
		}
		s.mu.RUnlock()
	}
	return out
}

var _ repo.ResultCache = (*Cache)(nil)
var _ repo.SnapshotReader = (*Cache)(nil)
