package httpapi

import (
	"encoding/json"
	"net/http"
	"net/url"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/hamed0406/statusdash/internal/domain"
	apimw "github.com/hamed0406/statusdash/internal/httpapi/middleware"
	"github.com/hamed0406/statusdash/internal/render"
	"github.com/hamed0406/statusdash/internal/repo"
)

// StatusPending marks a configured check that has not been probed yet.
const StatusPending = "pending"

// Server is the read-only side of the dashboard. It never probes and
// never writes to the cache. Now is the clock for both the HTML page and
// the JSON ages.
type Server struct {
	Logger    *zap.Logger
	Project   string
	Checks    []domain.ConfiguredCheck
	Cache     repo.ResultCache
	Dashboard *render.Dashboard
	Now       func() time.Time
}

func NewServer(l *zap.Logger, project string, checks []domain.ConfiguredCheck, cache repo.ResultCache) *Server {
	return &Server{
		Logger:    l,
		Project:   project,
		Checks:    checks,
		Cache:     cache,
		Dashboard: render.NewDashboard(project, checks, cache),
		Now:       time.Now,
	}
}

// Router wires routes. publicRPM/publicBurst throttle /api per client IP.
func (s *Server) Router(publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(cors.AllowAll().Handler)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Get("/", s.handleDashboard)

	r.Route("/api", func(api chi.Router) {
		api.Use(apimw.RateLimit(publicRPM, publicBurst))
		api.Get("/status", s.handleListStatus)
		api.Get("/status/{env}/{check}", s.handleGetStatus)
	})

	return r
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.Dashboard.RenderAt(w, s.Now()); err != nil {
		s.Logger.Error("render_dashboard", zap.Error(err))
		http.Error(w, "render error", http.StatusInternalServerError)
	}
}

// checkStatus is the JSON view of one configured check.
type checkStatus struct {
	Environment string             `json:"environment"`
	Check       string             `json:"check"`
	Kind        domain.CheckKind   `json:"check_type"`
	URL         string             `json:"url"`
	Status      string             `json:"status"`
	Version     *string            `json:"version,omitempty"`
	SubChecks   []domain.SubStatus `json:"sub_checks,omitempty"`
	Reason      string             `json:"reason,omitempty"`
	LatencyMS   float64            `json:"latency_ms,omitempty"`
	ObservedAt  *time.Time         `json:"observed_at,omitempty"`
	AgeSeconds  float64            `json:"age_seconds,omitempty"`
}

func (s *Server) statusOf(c domain.ConfiguredCheck, now time.Time) checkStatus {
	st := checkStatus{
		Environment: c.ID.Environment,
		Check:       c.ID.Check,
		Kind:        c.Spec.Kind,
		URL:         c.Spec.URL,
		Status:      StatusPending,
	}
	e, ok := s.Cache.Get(c.ID)
	if !ok {
		return st
	}
	observed := e.ObservedAt.UTC()
	st.Status = string(e.Outcome.Status)
	st.Version = e.Outcome.Version
	st.SubChecks = e.Outcome.SubChecks
	st.Reason = e.Outcome.Reason
	st.LatencyMS = e.Outcome.LatencyMS
	st.ObservedAt = &observed
	st.AgeSeconds = now.Sub(e.ObservedAt).Seconds()
	return st
}

func (s *Server) handleListStatus(w http.ResponseWriter, r *http.Request) {
	now := s.Now()
	out := make([]checkStatus, 0, len(s.Checks))
	for _, c := range s.Checks {
		out = append(out, s.statusOf(c, now))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"project": s.Project,
		"checks":  out,
	})
}

func (s *Server) handleGetStatus(w http.ResponseWriter, r *http.Request) {
	id := domain.CheckIdentity{
		Environment: pathParam(r, "env"),
		Check:       pathParam(r, "check"),
	}
	for _, c := range s.Checks {
		if c.ID == id {
			writeJSON(w, http.StatusOK, s.statusOf(c, s.Now()))
			return
		}
	}
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown check " + id.String()})
}

// pathParam undoes percent-encoding, which chi keeps when the request has
// a RawPath (names with spaces or slashes).
func pathParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}
