package discover

import (
	"fmt"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dxworks/honeydew/internal/parser"
)

// Layout is the structure of a repository checkout: its solutions and its
// projects, each with the source files that belong to it.
type Layout struct {
	Root      string
	Solutions []*parser.Solution
	Projects  []*ProjectSources
	// Orphans are source files no project claims.
	Orphans []string
}

// ProjectSources is a raw project (without compilation units) and the
// root-relative paths of its source files.
type ProjectSources struct {
	Project *parser.Project
	Sources []string

	explicit bool
	removed  []string
}

// Scan discovers root and assigns every source file to the nearest project
// above it. Unreadable solution or project files are logged and skipped.
func Scan(root string, logger *slog.Logger) (*Layout, error) {
	entries, err := Files(root)
	if err != nil {
		return nil, fmt.Errorf("discover files: %w", err)
	}

	layout := &Layout{Root: root}
	var sources []string
	for _, e := range entries {
		switch e.Kind {
		case KindSolution:
			sol, err := readSolutionFile(root, e.Path)
			if err != nil {
				logger.Warn("skip solution", slog.String("path", e.Path), slog.String("error", err.Error()))
				continue
			}
			layout.Solutions = append(layout.Solutions, sol)
		case KindProject:
			ps, err := readProjectFile(root, e.Path, e.Language)
			if err != nil {
				logger.Warn("skip project", slog.String("path", e.Path), slog.String("error", err.Error()))
				continue
			}
			layout.Projects = append(layout.Projects, ps)
		case KindSource:
			sources = append(sources, e.Path)
		}
	}

	layout.assign(sources)
	return layout, nil
}

func readSolutionFile(root, rel string) (*parser.Solution, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	projects, err := ReadSolution(f)
	if err != nil {
		return nil, err
	}
	sol := &parser.Solution{FilePath: rel}
	for _, p := range projects {
		sol.ProjectsPaths = append(sol.ProjectsPaths, resolve(path.Dir(rel), p))
	}
	return sol, nil
}

func readProjectFile(root, rel, language string) (*ProjectSources, error) {
	f, err := os.Open(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pf, err := ReadProject(f)
	if err != nil {
		return nil, err
	}
	dir := path.Dir(rel)
	name := strings.TrimSuffix(path.Base(rel), path.Ext(rel))
	raw := &parser.Project{Name: name, FilePath: rel, Language: language}
	for _, ref := range pf.References {
		raw.ProjectReferences = append(raw.ProjectReferences, resolve(dir, ref))
	}

	ps := &ProjectSources{Project: raw, explicit: len(pf.Compile) > 0}
	for _, c := range pf.Compile {
		ps.Sources = append(ps.Sources, resolve(dir, c))
	}
	for _, r := range pf.Removed {
		ps.removed = append(ps.removed, resolve(dir, r))
	}
	return ps, nil
}

// assign gives every source to the deepest project directory containing it.
// Legacy projects with explicit Compile items keep exactly those items, and
// unlisted files below them are dropped.
func (l *Layout) assign(sources []string) {
	claimed := make(map[string]bool)
	for _, ps := range l.Projects {
		for _, s := range ps.Sources {
			claimed[s] = true
		}
	}

	byDepth := make([]*ProjectSources, len(l.Projects))
	copy(byDepth, l.Projects)
	sort.SliceStable(byDepth, func(i, j int) bool {
		return len(path.Dir(byDepth[i].Project.FilePath)) > len(path.Dir(byDepth[j].Project.FilePath))
	})

	for _, src := range sources {
		if claimed[src] {
			continue
		}
		owner := ownerOf(byDepth, src)
		if owner == nil {
			l.Orphans = append(l.Orphans, src)
			continue
		}
		if owner.explicit || owner.excludes(src) {
			continue
		}
		owner.Sources = append(owner.Sources, src)
	}
}

func ownerOf(projects []*ProjectSources, src string) *ProjectSources {
	for _, ps := range projects {
		dir := path.Dir(ps.Project.FilePath)
		if dir == "." || strings.HasPrefix(src, dir+"/") {
			return ps
		}
	}
	return nil
}

func (ps *ProjectSources) excludes(src string) bool {
	for _, pattern := range ps.removed {
		if ok, _ := path.Match(pattern, src); ok || pattern == src {
			return true
		}
	}
	return false
}

// Repository returns the raw skeleton: solutions and projects without
// compilation units.
func (l *Layout) Repository() *parser.Repository {
	repo := &parser.Repository{Solutions: l.Solutions}
	for _, ps := range l.Projects {
		repo.Projects = append(repo.Projects, ps.Project)
	}
	return repo
}
