package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/dxworks/honeydew/pkg/apierr"
)

// Pinger is a backing store whose reachability gates readiness.
type Pinger interface {
	Ping(ctx context.Context) error
}

// GraphVerifier is the graph database check. It is optional; the API
// serves links and runs without a graph.
type GraphVerifier interface {
	Verify(ctx context.Context) error
}

type HealthHandler struct {
	runs    Pinger
	graph   GraphVerifier
	timeout time.Duration
}

func NewHealthHandler(runs Pinger, graph GraphVerifier) *HealthHandler {
	return &HealthHandler{runs: runs, graph: graph, timeout: 2 * time.Second}
}

// Healthz answers as long as the process can serve HTTP.
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz checks the run store, then the graph store when one is wired.
func (h *HealthHandler) Readyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	status := map[string]string{"status": "ok", "runs": "skipped", "graph": "skipped"}
	if h.runs != nil {
		if err := h.runs.Ping(ctx); err != nil {
			writeAPIError(w, nil, apierr.DatabaseNotReady())
			return
		}
		status["runs"] = "ok"
	}
	if h.graph != nil {
		if err := h.graph.Verify(ctx); err != nil {
			writeAPIError(w, nil, apierr.GraphNotReady())
			return
		}
		status["graph"] = "ok"
	}
	writeJSON(w, http.StatusOK, status)
}
