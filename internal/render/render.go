// Package render turns the configured checks and the result cache into the
// HTML dashboard.
package render

import (
	_ "embed"
	"html/template"
	"io"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/hamed0406/statusdash/internal/domain"
	"github.com/hamed0406/statusdash/internal/repo"
)

// RefreshSeconds is the browser auto-reload period.
const RefreshSeconds = 5

//go:embed dashboard.html.tmpl
var dashboardHTML string

var dashboardTmpl = template.Must(template.New("dashboard").Parse(dashboardHTML))

type Page struct {
	Project        string
	RefreshSeconds int
	Environments   []EnvironmentView
}

// EnvironmentView keeps health checks and keyword checks in separate
// grids, each in configuration order.
type EnvironmentView struct {
	Name    string
	Health  []CardView
	Keyword []CardView
}

type CardView struct {
	Name    string
	Present bool
	Class   string
	Version string
	Reason  string
	Age     string
	Rows    []RowView
}

type RowView struct {
	Name  string
	Class string
	Text  string
}

// BuildPage reads the cache once per check. Checks without an entry are
// shown as pending.
func BuildPage(project string, checks []domain.ConfiguredCheck, cache repo.ResultCache, now time.Time) Page {
	page := Page{Project: project, RefreshSeconds: RefreshSeconds}
	index := map[string]int{}

	for _, c := range checks {
		i, ok := index[c.ID.Environment]
		if !ok {
			i = len(page.Environments)
			index[c.ID.Environment] = i
			page.Environments = append(page.Environments, EnvironmentView{Name: c.ID.Environment})
		}

		entry, found := cache.Get(c.ID)
		card := cardFor(c.ID.Check, entry, found, now)

		env := &page.Environments[i]
		switch c.Spec.Kind {
		case domain.KindKeywordMatch:
			env.Keyword = append(env.Keyword, card)
		default:
			env.Health = append(env.Health, card)
		}
	}
	return page
}

func cardFor(name string, e domain.CacheEntry, found bool, now time.Time) CardView {
	if !found {
		return CardView{Name: name}
	}
	out := e.Outcome
	card := CardView{
		Name:    name,
		Present: true,
		Class:   string(out.Status),
		Age:     humanize.RelTime(e.ObservedAt, now, "ago", "from now"),
	}
	if out.Version != nil {
		card.Version = *out.Version
	}
	if out.Status != domain.StatusHealthy {
		card.Reason = out.Reason
	}

	if len(out.SubChecks) == 0 {
		card.Rows = []RowView{{Name: "Overall", Class: card.Class, Text: StatusText(out.Status)}}
		return card
	}
	for _, s := range out.SubChecks {
		row := RowView{Name: s.Name, Class: "unhealthy", Text: "Unhealthy ✗"}
		if s.Healthy() {
			row.Class, row.Text = "healthy", "Healthy ✓"
		}
		card.Rows = append(card.Rows, row)
	}
	return card
}

func StatusText(s domain.Status) string {
	switch s {
	case domain.StatusHealthy:
		return "Healthy ✓"
	case domain.StatusUnhealthy:
		return "Unhealthy ✗"
	default:
		return "Error ⚠"
	}
}

// Dashboard renders pages against a live cache.
type Dashboard struct {
	Project string
	Checks  []domain.ConfiguredCheck
	Cache   repo.ResultCache
	Now     func() time.Time
}

func NewDashboard(project string, checks []domain.ConfiguredCheck, cache repo.ResultCache) *Dashboard {
	return &Dashboard{Project: project, Checks: checks, Cache: cache, Now: time.Now}
}

func (d *Dashboard) Render(w io.Writer) error {
	now := time.Now()
	if d.Now != nil {
		now = d.Now()
	}
	return d.RenderAt(w, now)
}

// RenderAt renders with ages measured against now.
func (d *Dashboard) RenderAt(w io.Writer, now time.Time) error {
	return dashboardTmpl.Execute(w, BuildPage(d.Project, d.Checks, d.Cache, now))
}
