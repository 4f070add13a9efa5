package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/yndnr/restgate-go/internal/infra/buildinfo"
)

// ReadyCheck reports whether a dependency can serve requests.
type ReadyCheck func(ctx context.Context) error

// Health serves the liveness and readiness probes.
type Health struct {
	resp   *Responder
	checks map[string]ReadyCheck
	now    func() time.Time
}

// NewHealth creates a Health with the named readiness checks.
func NewHealth(resp *Responder, checks map[string]ReadyCheck) *Health {
	return &Health{resp: resp, checks: checks, now: time.Now}
}

// HandleHealth handles GET /health.
func (h *Health) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	h.resp.WriteJSON(w, http.StatusOK, map[string]string{
		"status":  "healthy",
		"version": buildinfo.Get().Version,
		"time":    h.now().UTC().Format(time.RFC3339),
	})
}

// HandleReady handles GET /ready. It answers 503 when any check fails.
func (h *Health) HandleReady(w http.ResponseWriter, r *http.Request) {
	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(r.Context()); err != nil {
			results[name] = err.Error()
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	state := "ready"
	if status != http.StatusOK {
		state = "not_ready"
	}
	h.resp.WriteJSON(w, status, map[string]any{
		"status": state,
		"checks": results,
		"time":   h.now().UTC().Format(time.RFC3339),
	})
}
