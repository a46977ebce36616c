package probe

import (
	"context"
	"time"

	"github.com/hamed0406/statusdash/internal/domain"
)

// DefaultTimeout bounds every outbound probe request.
const DefaultTimeout = 5 * time.Second

// Executor performs one probe for a check and normalizes the result.
//
// Implementations never return an error: transport failures, bad
// responses and missing parameters all come back as domain.StatusError.
// One call means at most one outbound request; there are no retries.
type Executor interface {
	Execute(ctx context.Context, spec domain.CheckSpec) domain.Outcome
}

// Prober implements a single probe kind.
type Prober interface {
	Probe(ctx context.Context, spec domain.CheckSpec) domain.Outcome
}
