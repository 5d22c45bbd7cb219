package ingestion

import (
	"context"

	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/export"
	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/pkg/models"
)

// Source types of a link run.
const (
	SourceDocument  = "document"  // raw fact document in artifact storage
	SourceArchive   = "archive"   // zipped source tree in artifact storage
	SourceGit       = "git"       // remote git repository
	SourceDirectory = "directory" // local directory, CLI only
)

// Stage represents a step in the link pipeline.
type Stage interface {
	Name() string
	Execute(ctx context.Context, rc *RunContext) error
}

// RunContext carries state through the pipeline stages.
type RunContext struct {
	RunID      uuid.UUID
	Repository string
	Source     string
	Location   string // object name, clone URL or directory
	Format     string // "json" or "yaml" for document sources

	// Set by clone stage, or by the caller for directory sources
	WorkDir string
	Commit  string

	// Set by load or extract stage
	Raw         *parser.Repository
	CacheKey    string
	CacheHit    bool
	FilesParsed int
	FilesFailed int
	Orphans     int

	// Set by link stage
	Linked   *models.Repository
	Document *export.Document
	Stats    resolver.Stats

	// Set by persist stage
	NodesStored int64
	EdgesStored int64
}
