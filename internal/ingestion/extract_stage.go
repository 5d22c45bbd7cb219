package ingestion

import (
	"context"
	"crypto/sha256"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"

	"golang.org/x/sync/errgroup"

	"github.com/dxworks/honeydew/internal/discover"
	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/store/valkey"
)

// RawCache stores extracted raw documents by content fingerprint.
// *valkey.DocumentCache satisfies it.
type RawCache interface {
	Get(ctx context.Context, key string) (*parser.Repository, bool, error)
	Put(ctx context.Context, key string, repo *parser.Repository) error
}

// ExtractStage discovers the solutions, projects and source files of the
// work directory and parses every source file into a raw fact document.
type ExtractStage struct {
	registry *parser.Registry
	cache    RawCache
	workers  int
	logger   *slog.Logger
}

// NewExtractStage builds the stage. cache may be nil.
func NewExtractStage(registry *parser.Registry, cache RawCache, workers int, logger *slog.Logger) *ExtractStage {
	if workers < 1 {
		workers = 1
	}
	return &ExtractStage{registry: registry, cache: cache, workers: workers, logger: logger}
}

func (s *ExtractStage) Name() string { return "extract" }

type sourceFile struct {
	project int
	slot    int
	path    string
	content []byte
}

func (s *ExtractStage) Execute(ctx context.Context, rc *RunContext) error {
	if rc.Raw != nil {
		return nil
	}
	if rc.WorkDir == "" {
		return fmt.Errorf("no work directory to extract from")
	}

	layout, err := discover.Scan(rc.WorkDir, s.logger)
	if err != nil {
		return fmt.Errorf("scan work dir: %w", err)
	}
	rc.Orphans = len(layout.Orphans)
	if rc.Orphans > 0 {
		s.logger.Warn("source files outside any project", slog.Int("count", rc.Orphans))
	}

	files, err := readSources(layout)
	if err != nil {
		return err
	}

	rc.CacheKey = valkey.Key(fingerprint(layout, files))
	if s.cache != nil {
		cached, ok, err := s.cache.Get(ctx, rc.CacheKey)
		if err != nil {
			s.logger.Warn("raw cache lookup failed", slog.String("error", err.Error()))
		} else if ok {
			rc.Raw = cached
			rc.CacheHit = true
			rc.FilesParsed = len(files)
			s.logger.Info("raw cache hit", slog.String("key", rc.CacheKey))
			return nil
		}
	}

	raw := layout.Repository()
	units := make([][]*parser.CompilationUnit, len(layout.Projects))
	for i, ps := range layout.Projects {
		units[i] = make([]*parser.CompilationUnit, len(ps.Sources))
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, f := range files {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			unit, err := s.registry.ParseFile(parser.FileInput{
				Path:     f.path,
				Content:  f.content,
				Language: raw.Projects[f.project].Language,
			})
			if err != nil {
				failed.Add(1)
				s.logger.Warn("parse failed", slog.String("path", f.path), slog.String("error", err.Error()))
				return nil
			}
			unit.FilePath = f.path
			units[f.project][f.slot] = unit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("parse sources: %w", err)
	}

	for i, p := range raw.Projects {
		for _, u := range units[i] {
			if u != nil {
				p.CompilationUnits = append(p.CompilationUnits, u)
			}
		}
	}

	rc.Raw = raw
	rc.FilesFailed = int(failed.Load())
	rc.FilesParsed = len(files) - rc.FilesFailed
	s.logger.Info("sources extracted",
		slog.Int("projects", len(raw.Projects)),
		slog.Int("parsed", rc.FilesParsed),
		slog.Int("failed", rc.FilesFailed))

	if s.cache != nil {
		if err := s.cache.Put(ctx, rc.CacheKey, raw); err != nil {
			s.logger.Warn("raw cache store failed", slog.String("error", err.Error()))
		}
	}
	return nil
}

func readSources(layout *discover.Layout) ([]sourceFile, error) {
	var files []sourceFile
	for i, ps := range layout.Projects {
		for j, src := range ps.Sources {
			content, err := os.ReadFile(filepath.Join(layout.Root, filepath.FromSlash(src)))
			if err != nil {
				return nil, fmt.Errorf("read %s: %w", src, err)
			}
			files = append(files, sourceFile{project: i, slot: j, path: src, content: content})
		}
	}
	return files, nil
}

// fingerprint digests everything that shapes the raw document: the solution
// and project structure and the content of every source file.
func fingerprint(layout *discover.Layout, files []sourceFile) []byte {
	h := sha256.New()
	for _, sol := range layout.Solutions {
		fmt.Fprintf(h, "sln\x00%s\x00%v\x00", sol.FilePath, sol.ProjectsPaths)
	}
	for _, ps := range layout.Projects {
		p := ps.Project
		fmt.Fprintf(h, "proj\x00%s\x00%s\x00%s\x00%v\x00", p.Name, p.FilePath, p.Language, p.ProjectReferences)
	}
	for _, f := range files {
		fmt.Fprintf(h, "src\x00%d\x00%s\x00", f.project, f.path)
		h.Write(f.content)
	}
	return h.Sum(nil)
}
