package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/graph"
	"github.com/dxworks/honeydew/internal/store/postgres"
	"github.com/dxworks/honeydew/pkg/apierr"
)

// NodeSearcher finds stored nodes of a run. *store.Store satisfies it.
type NodeSearcher interface {
	SearchNodes(ctx context.Context, runID uuid.UUID, term, kind string, limit int32) ([]postgres.GraphNode, error)
}

// CallGrapher walks call relationships. *graph.Client satisfies it.
type CallGrapher interface {
	Calls(ctx context.Context, nodeID uuid.UUID, direction string, maxDepth int) (*graph.CallGraph, error)
}

type GraphHandler struct {
	logger *slog.Logger
	nodes  NodeSearcher
	calls  CallGrapher
}

// NewGraphHandler builds the handler. calls may be nil when Neo4j is not
// configured.
func NewGraphHandler(logger *slog.Logger, nodes NodeSearcher, calls CallGrapher) *GraphHandler {
	return &GraphHandler{logger: logger, nodes: nodes, calls: calls}
}

// Nodes searches the nodes a run stored by qualified name.
func (h *GraphHandler) Nodes(w http.ResponseWriter, r *http.Request) {
	runID, err := uuid.Parse(chi.URLParam(r, "runID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidRunID())
		return
	}

	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit <= 0 || limit > 500 {
		limit = 50
	}

	nodes, err := h.nodes.SearchNodes(r.Context(), runID, q.Get("q"), q.Get("kind"), int32(limit))
	if err != nil {
		writeAPIError(w, h.logger, apierr.SearchFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"nodes": nodes,
		"total": len(nodes),
	})
}

// Calls returns the call graph around a method node.
func (h *GraphHandler) Calls(w http.ResponseWriter, r *http.Request) {
	if h.calls == nil {
		writeAPIError(w, h.logger, apierr.GraphUnavailable())
		return
	}

	nodeID, err := uuid.Parse(chi.URLParam(r, "nodeID"))
	if err != nil {
		writeAPIError(w, h.logger, apierr.InvalidID("node"))
		return
	}

	q := r.URL.Query()
	direction := q.Get("direction")
	if direction == "" {
		direction = "both"
	}
	if e := validateDirection(direction); e != nil {
		writeAPIError(w, h.logger, e)
		return
	}
	depth, _ := strconv.Atoi(q.Get("depth"))

	result, err := h.calls.Calls(r.Context(), nodeID, direction, depth)
	if err != nil {
		writeAPIError(w, h.logger, apierr.CallQueryFailed(err))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
