package ingestion

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/dxworks/honeydew/internal/parser"
)

// ObjectStore is the slice of artifact storage the pipeline needs.
// *minio.Client satisfies it.
type ObjectStore interface {
	Download(ctx context.Context, objectName string) (io.ReadCloser, error)
	UploadJSON(ctx context.Context, objectName string, v any) error
}

// LoadStage reads an uploaded raw fact document. Other sources are left for
// the extract stage.
type LoadStage struct {
	objects ObjectStore
}

func NewLoadStage(objects ObjectStore) *LoadStage {
	return &LoadStage{objects: objects}
}

func (s *LoadStage) Name() string { return "load" }

func (s *LoadStage) Execute(ctx context.Context, rc *RunContext) error {
	if rc.Source != SourceDocument {
		return nil
	}
	if rc.Location == "" {
		return fmt.Errorf("document source missing object name")
	}

	body, err := s.objects.Download(ctx, rc.Location)
	if err != nil {
		return fmt.Errorf("download document: %w", err)
	}
	defer body.Close()

	format := rc.Format
	if format == "" {
		format = documentFormat(rc.Location)
	}
	raw, err := parser.DecodeDocument(body, format)
	if err != nil {
		return fmt.Errorf("decode document: %w", err)
	}

	rc.Raw = raw
	for _, p := range raw.Projects {
		rc.FilesParsed += len(p.CompilationUnits)
	}
	return nil
}

func documentFormat(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		return "yaml"
	}
	return "json"
}
