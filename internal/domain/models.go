package domain

import (
	"slices"
	"time"
)

// CheckIdentity is the cache key for one configured check. Both parts are
// used verbatim: no trimming, no case folding.
type CheckIdentity struct {
	Environment string `json:"environment"`
	Check       string `json:"check"`
}

func (id CheckIdentity) String() string {
	return id.Environment + ":" + id.Check
}

// CheckKind selects the probe strategy.
type CheckKind string

const (
	KindHealthJSON   CheckKind = "health"
	KindKeywordMatch CheckKind = "keyword"
)

// Valid reports whether k is one of the known kinds (case-sensitive).
func (k CheckKind) Valid() bool {
	return k == KindHealthJSON || k == KindKeywordMatch
}

type CheckSpec struct {
	Name    string    `json:"name"`
	URL     string    `json:"url"`
	Kind    CheckKind `json:"check_type"`
	Keyword *string   `json:"keyword,omitempty"` // only meaningful for KindKeywordMatch
}

// ConfiguredCheck ties a spec to the environment it belongs to.
type ConfiguredCheck struct {
	ID   CheckIdentity
	Spec CheckSpec
}

type Status string

const (
	StatusHealthy   Status = "healthy"
	StatusUnhealthy Status = "unhealthy"
	StatusError     Status = "error"
)

// SubStatus is one component reported by a HealthJSON endpoint.
type SubStatus struct {
	Name       string  `json:"name"`
	Status     string  `json:"status"`
	Details    *string `json:"details,omitempty"`
	DurationMS *uint64 `json:"duration_ms,omitempty"`
}

// Healthy reports whether the component said exactly "Healthy".
func (s SubStatus) Healthy() bool { return s.Status == "Healthy" }

// Outcome is the normalized result of one probe attempt.
type Outcome struct {
	Status    Status      `json:"status"`
	Version   *string     `json:"version,omitempty"`
	SubChecks []SubStatus `json:"sub_checks"`
	Reason    string      `json:"reason,omitempty"`
	LatencyMS float64     `json:"latency_ms"`
}

// ErrorOutcome builds a StatusError outcome with the given reason.
func ErrorOutcome(reason string) Outcome {
	return Outcome{Status: StatusError, SubChecks: []SubStatus{}, Reason: reason}
}

// CacheEntry is what the poller stores per check. ObservedAt comes from
// time.Now and keeps its monotonic reading, so ages are computed with Sub.
type CacheEntry struct {
	Outcome    Outcome   `json:"outcome"`
	ObservedAt time.Time `json:"observed_at"`
}

// Clone returns a copy that shares no mutable memory with e.
func (e CacheEntry) Clone() CacheEntry {
	out := e
	if e.Outcome.Version != nil {
		v := *e.Outcome.Version
		out.Outcome.Version = &v
	}
	out.Outcome.SubChecks = slices.Clone(e.Outcome.SubChecks)
	if out.Outcome.SubChecks == nil {
		out.Outcome.SubChecks = []SubStatus{}
	}
	return out
}
