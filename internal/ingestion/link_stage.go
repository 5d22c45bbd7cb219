package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dxworks/honeydew/internal/export"
	"github.com/dxworks/honeydew/internal/resolver"
)

// LinkStage runs the resolver over the raw document and flattens the linked
// model into a node/edge document.
type LinkStage struct {
	engine *resolver.Engine
	logger *slog.Logger
}

func NewLinkStage(engine *resolver.Engine, logger *slog.Logger) *LinkStage {
	return &LinkStage{engine: engine, logger: logger}
}

func (s *LinkStage) Name() string { return "link" }

func (s *LinkStage) Execute(ctx context.Context, rc *RunContext) error {
	if rc.Raw == nil {
		return fmt.Errorf("no raw document to link")
	}

	linked, err := s.engine.Link(ctx, rc.Raw)
	if err != nil {
		return fmt.Errorf("link repository: %w", err)
	}

	rc.Linked = linked
	rc.Document = export.Build(rc.Repository, linked)
	rc.Stats = rc.Document.Stats

	s.logger.Info("repository linked",
		slog.Int("entities", rc.Stats.Entities),
		slog.Int("methods", rc.Stats.Methods),
		slog.Int("calls", rc.Stats.Calls),
		slog.Int("stand_ins", rc.Stats.Created),
		slog.Int("nodes", len(rc.Document.Nodes)),
		slog.Int("edges", len(rc.Document.Edges)))
	return nil
}
