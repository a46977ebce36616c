package repo

import "github.com/hamed0406/statusdash/internal/domain"

// ResultCache holds the latest observation per check. The poller is the
// only writer; any number of request handlers may read concurrently.
// Put replaces the whole entry, so readers see either the old entry or the
// new one.
type ResultCache interface {
	Get(id domain.CheckIdentity) (domain.CacheEntry, bool)
	Put(id domain.CheckIdentity, entry domain.CacheEntry)
}

// SnapshotReader is implemented by caches that can copy out every entry.
type SnapshotReader interface {
	Snapshot() map[domain.CheckIdentity]domain.CacheEntry
}
