package scheduler

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/hamed0406/statusdash/internal/domain"
	"github.com/hamed0406/statusdash/internal/probe"
	"github.com/hamed0406/statusdash/internal/repo"
)

// DefaultInterval is the pause between two scan passes.
const DefaultInterval = time.Second

// Poller walks every configured check once per pass and re-probes the ones
// whose cached entry is missing or stale. It is the only writer of Cache.
type Poller struct {
	Logger      *zap.Logger
	Checks      []domain.ConfiguredCheck
	Cache       repo.ResultCache
	Executor    probe.Executor
	StaleAfter  time.Duration
	Interval    time.Duration
	Concurrency int
	Now         func() time.Time
}

func NewPoller(
	logger *zap.Logger,
	checks []domain.ConfiguredCheck,
	cache repo.ResultCache,
	executor probe.Executor,
	staleAfter time.Duration,
	interval time.Duration,
	concurrency int,
) *Poller {
	if concurrency < 1 {
		concurrency = 1
	}
	if interval <= 0 {
		interval = DefaultInterval
	}
	if staleAfter < 0 {
		staleAfter = 0
	}
	return &Poller{
		Logger:      logger,
		Checks:      checks,
		Cache:       cache,
		Executor:    executor,
		StaleAfter:  staleAfter,
		Interval:    interval,
		Concurrency: concurrency,
		Now:         time.Now,
	}
}

// PassStats summarizes one scan pass.
type PassStats struct {
	Checked  int
	Probed   int
	Errors   int
	Duration time.Duration
}

// Run does an immediate pass, then sleeps Interval between passes.
// The pause starts after a pass finishes, so slow probes stretch the cycle
// instead of stacking passes. Stops when ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	p.Logger.Info("poller_started",
		zap.Int("checks", len(p.Checks)),
		zap.Duration("stale_after", p.StaleAfter),
		zap.Duration("interval", p.Interval),
		zap.Int("concurrency", p.Concurrency),
	)

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Logger.Info("poller_stopped")
			return
		case <-timer.C:
			st := p.RunOnce(ctx)
			if st.Probed > 0 {
				p.Logger.Debug("poll_pass",
					zap.Int("checked", st.Checked),
					zap.Int("probed", st.Probed),
					zap.Int("errors", st.Errors),
					zap.Duration("took", st.Duration),
				)
			}
			timer.Reset(p.Interval)
		}
	}
}

// RunOnce performs one pass over all checks. With Concurrency 1 checks are
// probed one at a time in configuration order; higher values fan out probes
// and give up that ordering.
func (p *Poller) RunOnce(ctx context.Context) PassStats {
	start := time.Now()
	var (
		st PassStats
		mu sync.Mutex
		wg sync.WaitGroup
	)
	record := func(probed bool, status domain.Status) {
		mu.Lock()
		defer mu.Unlock()
		st.Checked++
		if probed {
			st.Probed++
			if status == domain.StatusError {
				st.Errors++
			}
		}
	}

	workers := max(p.Concurrency, 1)
	sem := make(chan struct{}, workers)
	for _, c := range p.Checks {
		if ctx.Err() != nil {
			break
		}
		entry, ok := p.Cache.Get(c.ID)
		if !IsDue(entry, ok, p.StaleAfter, p.now()) {
			record(false, "")
			continue
		}

		if workers == 1 {
			record(true, p.probeOne(ctx, c))
			continue
		}

		sem <- struct{}{}
		wg.Add(1)
		go func(c domain.ConfiguredCheck) {
			defer func() { <-sem }()
			defer wg.Done()
			record(true, p.probeOne(ctx, c))
		}(c)
	}
	wg.Wait()

	st.Duration = time.Since(start)
	return st
}

func (p *Poller) now() time.Time {
	if p.Now == nil {
		return time.Now()
	}
	return p.Now()
}

// probeOne stamps the entry with the time the probe started.
func (p *Poller) probeOne(ctx context.Context, c domain.ConfiguredCheck) domain.Status {
	started := p.now()
	out := p.Executor.Execute(ctx, c.Spec)
	p.Cache.Put(c.ID, domain.CacheEntry{Outcome: out, ObservedAt: started})

	fields := []zap.Field{
		zap.String("environment", c.ID.Environment),
		zap.String("check", c.ID.Check),
		zap.String("url", c.Spec.URL),
		zap.String("status", string(out.Status)),
		zap.Float64("latency_ms", out.LatencyMS),
		zap.String("reason", out.Reason),
	}
	if out.Status == domain.StatusError {
		p.Logger.Warn("poll_probe_error", fields...)
	} else {
		p.Logger.Debug("poll_probed", fields...)
	}
	return out.Status
}
