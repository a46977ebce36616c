package scheduler

import (
	"time"

	"github.com/hamed0406/statusdash/internal/domain"
)

// IsDue reports whether a check needs probing. A check that was never
// observed is always due; otherwise it is due once its entry is strictly
// older than staleAfter. ObservedAt carries a monotonic reading, so wall
// clock steps do not affect the result.
func IsDue(entry domain.CacheEntry, ok bool, staleAfter time.Duration, now time.Time) bool {
	if !ok {
		return true
	}
	return now.Sub(entry.ObservedAt) > staleAfter
}
