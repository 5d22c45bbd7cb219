package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
)

// RunTracker records run status transitions. *store.Store satisfies it.
type RunTracker interface {
	StartRun(ctx context.Context, id uuid.UUID) error
	CompleteRun(ctx context.Context, id uuid.UUID, stats any) error
	FailRun(ctx context.Context, id uuid.UUID, message string) error
}

// Pipeline runs the stages of a link run in order. Every stage sees the
// RunContext left by the previous one; the first failing stage ends the run.
type Pipeline struct {
	tracker RunTracker
	stages  []Stage
	logger  *slog.Logger
}

// NewPipeline builds a pipeline. tracker may be nil when runs are not
// recorded, as in the CLI.
func NewPipeline(tracker RunTracker, stages []Stage, logger *slog.Logger) *Pipeline {
	return &Pipeline{tracker: tracker, stages: stages, logger: logger}
}

// Run processes a single queued link job.
func (p *Pipeline) Run(ctx context.Context, msg LinkMessage) error {
	rc := &RunContext{
		RunID:      msg.RunID,
		Repository: msg.Repository,
		Source:     msg.Source,
		Location:   msg.Location,
		Format:     msg.Format,
	}
	if msg.Source == SourceDirectory {
		rc.WorkDir = msg.Location
	}
	rc, err := p.Execute(ctx, rc)
	if ownsWorkDir(rc) {
		if rmErr := os.RemoveAll(rc.WorkDir); rmErr != nil {
			p.logger.Warn("remove work dir", slog.String("dir", rc.WorkDir), slog.String("error", rmErr.Error()))
		}
	}
	return err
}

// Execute runs every stage against rc and returns it.
func (p *Pipeline) Execute(ctx context.Context, rc *RunContext) (*RunContext, error) {
	if rc.RunID == uuid.Nil {
		rc.RunID = uuid.New()
	}
	log := p.logger.With(slog.String("run_id", rc.RunID.String()))
	log.Info("pipeline started",
		slog.String("repository", rc.Repository),
		slog.String("source", rc.Source))

	if p.tracker != nil {
		if err := p.tracker.StartRun(ctx, rc.RunID); err != nil {
			return rc, fmt.Errorf("update status to running: %w", err)
		}
	}

	for _, stage := range p.stages {
		log.Info("stage started", slog.String("stage", stage.Name()))

		if err := stage.Execute(ctx, rc); err != nil {
			if p.tracker != nil {
				_ = p.tracker.FailRun(ctx, rc.RunID, err.Error())
			}
			return rc, fmt.Errorf("stage %s failed: %w", stage.Name(), err)
		}

		log.Info("stage completed", slog.String("stage", stage.Name()))
	}

	if p.tracker != nil {
		if err := p.tracker.CompleteRun(ctx, rc.RunID, rc.Stats); err != nil {
			return rc, fmt.Errorf("update status to completed: %w", err)
		}
	}

	log.Info("pipeline completed",
		slog.Int("files", rc.Stats.Files),
		slog.Int("entities", rc.Stats.Entities),
		slog.Int("calls", rc.Stats.Calls),
		slog.Int("created", rc.Stats.Created))
	return rc, nil
}
