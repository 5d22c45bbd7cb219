package connectors

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// GitConnector clones remote repositories with the git binary.
type GitConnector struct {
	token string
}

// NewGitConnector reads an access token from GIT_TOKEN, if set.
func NewGitConnector() *GitConnector {
	return &GitConnector{token: os.Getenv("GIT_TOKEN")}
}

// Clone makes a shallow clone of location into destDir. A location of the
// form "url@branch" clones that branch.
func (g *GitConnector) Clone(ctx context.Context, location, destDir string) error {
	repoURL, branch := ParseLocation(location)

	args := []string{"clone", "--depth=1"}
	if branch != "" {
		args = append(args, "--branch", branch)
	}
	args = append(args, g.withToken(repoURL), destDir)

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Stdout = os.Stderr
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("git clone: %w", err)
	}
	return nil
}

// Head returns the commit checked out in dir, or "" when it cannot be read.
func (g *GitConnector) Head(ctx context.Context, dir string) string {
	cmd := exec.CommandContext(ctx, "git", "rev-parse", "HEAD")
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}

// ParseLocation splits "https://host/group/repo@branch" into URL and branch.
// The '@' of "git@host:" SSH locations is not a branch separator.
func ParseLocation(location string) (repoURL, branch string) {
	at := strings.LastIndex(location, "@")
	if at <= 0 || strings.Contains(location[at:], ":") || strings.Contains(location[at:], "/") {
		return location, ""
	}
	return location[:at], location[at+1:]
}

// withToken adds the access token to https clone URLs.
func (g *GitConnector) withToken(repoURL string) string {
	if g.token == "" || !strings.HasPrefix(repoURL, "https://") {
		return repoURL
	}
	return "https://oauth2:" + g.token + "@" + strings.TrimPrefix(repoURL, "https://")
}
