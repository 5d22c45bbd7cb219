package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dxworks/honeydew/internal/export"
	"github.com/dxworks/honeydew/internal/ingestion"
	"github.com/dxworks/honeydew/internal/resolver"
)

func TestRepositoryName(t *testing.T) {
	tests := []struct {
		path  string
		isDir bool
		want  string
	}{
		{"/src/shop", true, "shop"},
		{"/src/shop.v2", true, "shop.v2"},
		{"/tmp/facts.json", false, "facts"},
		{"/tmp/legacy.app.yaml", false, "legacy.app"},
	}
	for _, tt := range tests {
		if got := repositoryName(tt.path, tt.isDir); got != tt.want {
			t.Errorf("repositoryName(%q, %v) = %q, want %q", tt.path, tt.isDir, got, tt.want)
		}
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	printSummary(&buf, &ingestion.RunContext{
		Repository: "shop",
		Stats:      resolver.Stats{Projects: 3, Calls: 12},
		Document:   &export.Document{},
	})
	out := buf.String()
	for _, want := range []string{"repository", "shop", "projects", "calls", "12"} {
		if !strings.Contains(out, want) {
			t.Errorf("summary missing %q:\n%s", want, out)
		}
	}
}
