package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/statusdash/internal/domain"
)

// Dispatcher is the production Executor: it routes each spec to the prober
// registered for its kind.
type Dispatcher struct {
	Probers map[domain.CheckKind]Prober
}

// NewDispatcher wires both probe kinds onto one HTTP client.
func NewDispatcher(timeout time.Duration) *Dispatcher {
	h := NewHTTPChecker(timeout)
	return &Dispatcher{
		Probers: map[domain.CheckKind]Prober{
			domain.KindHealthJSON:   &HealthJSONProber{HTTP: h},
			domain.KindKeywordMatch: &KeywordProber{HTTP: h},
		},
	}
}

func (d *Dispatcher) Execute(ctx context.Context, spec domain.CheckSpec) (out domain.Outcome) {
	p, ok := d.Probers[spec.Kind]
	if !ok {
		return domain.ErrorOutcome(fmt.Sprintf("unsupported check type %q", spec.Kind))
	}

	defer func() {
		if r := recover(); r != nil {
			out = domain.ErrorOutcome(fmt.Sprintf("probe panicked: %v", r))
		}
	}()
	return p.Probe(ctx, spec)
}

var _ Executor = (*Dispatcher)(nil)
