package api

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	apihandler "github.com/dxworks/honeydew/internal/api/handler"
	apimw "github.com/dxworks/honeydew/internal/api/middleware"
	"github.com/dxworks/honeydew/internal/graph"
	"github.com/dxworks/honeydew/internal/ingestion"
	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/internal/store"
	minioclient "github.com/dxworks/honeydew/internal/store/minio"
)

// RouterDeps holds optional dependencies for the router.
type RouterDeps struct {
	MinIO        *minioclient.Client
	Producer     *ingestion.Producer
	Graph        *graph.Client
	Engine       *resolver.Engine
	MaxBodyBytes int64
}

func NewRouter(logger *slog.Logger, s *store.Store, deps *RouterDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(apimw.Logger(logger))
	r.Use(apimw.CORS)
	r.Use(chimw.Recoverer)

	if deps == nil {
		deps = &RouterDeps{}
	}

	// Health checks
	var runsDB apihandler.Pinger
	if pool := s.Pool(); pool != nil {
		runsDB = pool
	}
	var graphDB apihandler.GraphVerifier
	if deps.Graph != nil {
		graphDB = deps.Graph
	}
	health := apihandler.NewHealthHandler(runsDB, graphDB)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)
	engine := deps.Engine
	if engine == nil {
		engine = resolver.NewEngine(ingestion.NewRegistry(), logger)
	}

	// Typed nil pointers must not reach the handler interfaces.
	var uploads apihandler.Uploader
	if deps.MinIO != nil {
		uploads = deps.MinIO
	}
	var producer apihandler.Enqueuer
	if deps.Producer != nil {
		producer = deps.Producer
	}
	var calls apihandler.CallGrapher
	if deps.Graph != nil {
		calls = deps.Graph
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		link := apihandler.NewLinkHandler(logger, engine, deps.MaxBodyBytes)
		r.Post("/link", link.Link)

		runs := apihandler.NewRunHandler(logger, s, uploads, producer, deps.MaxBodyBytes)
		graphs := apihandler.NewGraphHandler(logger, s, calls)
		r.Route("/runs", func(r chi.Router) {
			r.Get("/", runs.List)
			r.Post("/", runs.Create)
			r.Route("/{runID}", func(r chi.Router) {
				r.Get("/", runs.Get)
				r.Get("/nodes", graphs.Nodes)
			})
		})

		r.Get("/nodes/{nodeID}/calls", graphs.Calls)
	})

	return r
}
