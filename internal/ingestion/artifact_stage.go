package ingestion

import (
	"context"
	"fmt"

	"github.com/dxworks/honeydew/internal/store/minio"
)

// ArtifactStage uploads the raw and the exported document of a run to
// artifact storage.
type ArtifactStage struct {
	objects ObjectStore
}

func NewArtifactStage(objects ObjectStore) *ArtifactStage {
	return &ArtifactStage{objects: objects}
}

func (s *ArtifactStage) Name() string { return "artifacts" }

func (s *ArtifactStage) Execute(ctx context.Context, rc *RunContext) error {
	if rc.Raw != nil && rc.Source != SourceDocument {
		if err := s.objects.UploadJSON(ctx, minio.RawKey(rc.RunID), rc.Raw); err != nil {
			return fmt.Errorf("upload raw document: %w", err)
		}
	}
	if rc.Document != nil {
		if err := s.objects.UploadJSON(ctx, minio.GraphKey(rc.RunID), rc.Document); err != nil {
			return fmt.Errorf("upload graph document: %w", err)
		}
	}
	return nil
}
