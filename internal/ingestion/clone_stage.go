package ingestion

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/dxworks/honeydew/internal/ingestion/connectors"
)

// CloneStage fetches source files (ZIP extract or git clone) into a local
// work directory. Document and directory sources pass through untouched.
type CloneStage struct {
	zipConn *connectors.ZipConnector
	gitConn *connectors.GitConnector
	baseDir string
}

func NewCloneStage(zipConn *connectors.ZipConnector, gitConn *connectors.GitConnector) *CloneStage {
	return &CloneStage{
		zipConn: zipConn,
		gitConn: gitConn,
		baseDir: filepath.Join(os.TempDir(), "honeydew-ingest"),
	}
}

func (s *CloneStage) Name() string { return "clone" }

func (s *CloneStage) Execute(ctx context.Context, rc *RunContext) error {
	switch rc.Source {
	case SourceDocument:
		return nil
	case SourceDirectory:
		if rc.WorkDir == "" {
			rc.WorkDir = rc.Location
		}
		return nil
	}

	workDir := filepath.Join(s.baseDir, rc.RunID.String())
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	switch rc.Source {
	case SourceArchive:
		if rc.Location == "" {
			return fmt.Errorf("archive source missing object name")
		}
		if err := s.zipConn.Extract(ctx, rc.Location, workDir); err != nil {
			return fmt.Errorf("extract zip: %w", err)
		}

	case SourceGit:
		if rc.Location == "" {
			return fmt.Errorf("git source missing clone url")
		}
		if err := s.gitConn.Clone(ctx, rc.Location, workDir); err != nil {
			return fmt.Errorf("git clone: %w", err)
		}
		rc.Commit = s.gitConn.Head(ctx, workDir)

	default:
		return fmt.Errorf("unsupported source type: %s", rc.Source)
	}

	rc.WorkDir = workDir
	return nil
}

// ownsWorkDir reports whether the work directory was created by CloneStage
// and may be removed once the run ends.
func ownsWorkDir(rc *RunContext) bool {
	return rc.WorkDir != "" && (rc.Source == SourceArchive || rc.Source == SourceGit)
}
