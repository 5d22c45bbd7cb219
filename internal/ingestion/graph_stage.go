package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dxworks/honeydew/internal/export"
)

// GraphSyncer replaces a repository's subgraph. *graph.Client satisfies it.
type GraphSyncer interface {
	SyncDocument(ctx context.Context, doc *export.Document) error
}

// GraphStage syncs the node/edge document to Neo4j.
type GraphStage struct {
	graph  GraphSyncer
	logger *slog.Logger
}

func NewGraphStage(g GraphSyncer, logger *slog.Logger) *GraphStage {
	return &GraphStage{graph: g, logger: logger}
}

func (s *GraphStage) Name() string { return "graph_build" }

func (s *GraphStage) Execute(ctx context.Context, rc *RunContext) error {
	if rc.Document == nil {
		return fmt.Errorf("no document to sync")
	}

	s.logger.Info("syncing to neo4j",
		slog.Int("nodes", len(rc.Document.Nodes)),
		slog.Int("edges", len(rc.Document.Edges)))

	if err := s.graph.SyncDocument(ctx, rc.Document); err != nil {
		return fmt.Errorf("sync document to neo4j: %w", err)
	}

	s.logger.Info("neo4j: document synced")
	return nil
}
