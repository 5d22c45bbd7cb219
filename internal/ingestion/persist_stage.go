package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/dxworks/honeydew/internal/store"
	"github.com/dxworks/honeydew/internal/store/postgres"
)

// PersistStage writes the node/edge document of a run to PostgreSQL in a
// single transaction.
type PersistStage struct {
	store  *store.Store
	logger *slog.Logger
}

func NewPersistStage(s *store.Store, logger *slog.Logger) *PersistStage {
	return &PersistStage{store: s, logger: logger}
}

func (s *PersistStage) Name() string { return "persist" }

func (s *PersistStage) Execute(ctx context.Context, rc *RunContext) error {
	if rc.Document == nil {
		return fmt.Errorf("no document to persist")
	}

	err := s.store.WithTx(ctx, func(q *postgres.Queries) error {
		nodes, edges, err := q.InsertDocument(ctx, rc.RunID, rc.Document)
		if err != nil {
			return err
		}
		rc.NodesStored, rc.EdgesStored = nodes, edges
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist document: %w", err)
	}

	s.logger.Info("document persisted",
		slog.Int64("nodes", rc.NodesStored),
		slog.Int64("edges", rc.EdgesStored))
	return nil
}
