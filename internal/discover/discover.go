// Package discover finds solutions, projects and source files in a
// repository checkout and assembles them into a raw fact skeleton.
package discover

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"
	"time"

	ignore "github.com/sabhiram/go-gitignore"

	"github.com/dxworks/honeydew/internal/parser"
)

// FileKind tells what a discovered file is.
type FileKind int

const (
	KindSource FileKind = iota
	KindProject
	KindSolution
)

// FileEntry represents a discovered file.
type FileEntry struct {
	Path     string // relative to the repository root, slash separated
	Kind     FileKind
	Language string
}

var skipDirs = map[string]struct{}{
	"bin":          {},
	"obj":          {},
	"packages":     {},
	"node_modules": {},
	"TestResults":  {},
	".git":         {},
	".vs":          {},
	".idea":        {},
}

// Files discovers solution, project and source files under root, honoring
// .gitignore (through git when root is a work tree). Results are sorted by
// path.
func Files(root string) ([]FileEntry, error) {
	gitFiles := gitLsFiles(root)
	var gi *ignore.GitIgnore
	if gitFiles == nil {
		gi = loadGitignore(root)
	}

	var results []FileEntry

	err := filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // skip errors
		}

		name := d.Name()

		if d.IsDir() {
			if path == root {
				return nil
			}
			if _, skip := skipDirs[name]; skip || strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || d.Type()&os.ModeSymlink != 0 {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if gitFiles != nil {
			if _, ok := gitFiles[rel]; !ok {
				return nil
			}
		} else if gi != nil && gi.MatchesPath(rel) {
			return nil
		}

		kind, ok := kindOf(name)
		if !ok {
			return nil
		}
		results = append(results, FileEntry{Path: rel, Kind: kind, Language: parser.DetectLanguage(name)})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Path < results[j].Path
	})

	return results, nil
}

func kindOf(name string) (FileKind, bool) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".sln":
		return KindSolution, true
	case ".csproj", ".vbproj":
		return KindProject, true
	case ".cs", ".vb":
		return KindSource, true
	}
	return 0, false
}

func gitLsFiles(root string) map[string]struct{} {
	gitDir := filepath.Join(root, ".git")
	info, err := os.Stat(gitDir)
	if err != nil || !info.IsDir() {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "ls-files", "--cached", "--others", "--exclude-standard")
	cmd.Dir = root
	out, err := cmd.Output()
	if err != nil {
		return nil
	}

	files := make(map[string]struct{})
	for _, line := range strings.Split(strings.TrimRight(string(out), "\n"), "\n") {
		if line != "" {
			files[line] = struct{}{}
		}
	}
	return files
}

func loadGitignore(root string) *ignore.GitIgnore {
	path := filepath.Join(root, ".gitignore")
	gi, err := ignore.CompileIgnoreFile(path)
	if err != nil {
		return nil
	}
	return gi
}
