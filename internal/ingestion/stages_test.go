package ingestion

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/export"
	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/internal/store/minio"
)

type memObjects struct {
	objects map[string][]byte
}

func newMemObjects() *memObjects { return &memObjects{objects: make(map[string][]byte)} }

func (m *memObjects) Download(_ context.Context, name string) (io.ReadCloser, error) {
	data, ok := m.objects[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (m *memObjects) UploadJSON(_ context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	m.objects[name] = data
	return nil
}

type memCache struct {
	entries map[string]*parser.Repository
	puts    int
}

func (c *memCache) Get(_ context.Context, key string) (*parser.Repository, bool, error) {
	repo, ok := c.entries[key]
	return repo, ok, nil
}

func (c *memCache) Put(_ context.Context, key string, repo *parser.Repository) error {
	c.entries[key] = repo
	c.puts++
	return nil
}

func writeTree(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

var sampleTree = map[string]string{
	"Data/Data.csproj": `<Project Sdk="Microsoft.NET.Sdk"></Project>`,
	"Data/Repo.cs": `namespace Data
{
    public class Repo
    {
        public void Save(int id) { }
    }
}`,
	"App/App.csproj": `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <ProjectReference Include="..\Data\Data.csproj" />
  </ItemGroup>
</Project>`,
	"App/Service.cs": `using Data;

namespace App
{
    public class Service
    {
        private Repo _repo;

        public void Run()
        {
            _repo.Save(1);
        }
    }
}`,
}

func TestExtractStage(t *testing.T) {
	root := writeTree(t, sampleTree)
	cache := &memCache{entries: make(map[string]*parser.Repository)}
	stage := NewExtractStage(NewRegistry(), cache, 4, discardLogger())

	rc := &RunContext{Source: SourceDirectory, WorkDir: root}
	if err := stage.Execute(context.Background(), rc); err != nil {
		t.Fatal(err)
	}
	if rc.FilesParsed != 2 || rc.FilesFailed != 0 {
		t.Errorf("parsed=%d failed=%d, want 2/0", rc.FilesParsed, rc.FilesFailed)
	}
	if len(rc.Raw.Projects) != 2 {
		t.Fatalf("projects = %d, want 2", len(rc.Raw.Projects))
	}
	for _, p := range rc.Raw.Projects {
		if len(p.CompilationUnits) != 1 {
			t.Errorf("project %s has %d units, want 1", p.Name, len(p.CompilationUnits))
		}
	}
	if cache.puts != 1 || rc.CacheHit {
		t.Errorf("puts=%d hit=%v after first extract", cache.puts, rc.CacheHit)
	}

	again := &RunContext{Source: SourceDirectory, WorkDir: root}
	if err := stage.Execute(context.Background(), again); err != nil {
		t.Fatal(err)
	}
	if !again.CacheHit || again.CacheKey != rc.CacheKey {
		t.Errorf("second extract hit=%v key=%q, want hit on %q", again.CacheHit, again.CacheKey, rc.CacheKey)
	}
}

func TestExtractStageSkipsLoadedDocument(t *testing.T) {
	raw := &parser.Repository{}
	rc := &RunContext{Raw: raw}
	if err := NewExtractStage(NewRegistry(), nil, 1, discardLogger()).Execute(context.Background(), rc); err != nil {
		t.Fatal(err)
	}
	if rc.Raw != raw {
		t.Error("loaded document replaced")
	}
}

func TestLoadStage(t *testing.T) {
	objects := newMemObjects()
	id := uuid.New()
	key := minio.UploadKey(id, "facts.yaml")
	objects.objects[key] = []byte(`projects:
  - name: Core
    filePath: Core/Core.csproj
    language: C#
    compilationUnits:
      - filePath: Core/A.cs
`)

	rc := &RunContext{RunID: id, Source: SourceDocument, Location: key}
	if err := NewLoadStage(objects).Execute(context.Background(), rc); err != nil {
		t.Fatal(err)
	}
	if rc.Raw == nil || len(rc.Raw.Projects) != 1 || rc.FilesParsed != 1 {
		t.Fatalf("raw = %+v, files = %d", rc.Raw, rc.FilesParsed)
	}
}

func TestDocumentFormat(t *testing.T) {
	tests := map[string]string{
		"uploads/a.json": "json",
		"uploads/a.YML":  "yaml",
		"uploads/a.yaml": "yaml",
		"uploads/a":      "json",
	}
	for in, want := range tests {
		if got := documentFormat(in); got != want {
			t.Errorf("documentFormat(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestExtractLinkAndArtifacts(t *testing.T) {
	root := writeTree(t, sampleTree)
	objects := newMemObjects()
	registry := NewRegistry()
	engine := resolver.NewEngine(registry, discardLogger())

	p := NewPipeline(nil, []Stage{
		NewCloneStage(nil, nil),
		NewExtractStage(registry, nil, 2, discardLogger()),
		NewLinkStage(engine, discardLogger()),
		NewArtifactStage(objects),
	}, discardLogger())

	rc, err := p.Execute(context.Background(), &RunContext{Repository: "sample", Source: SourceDirectory, Location: root})
	if err != nil {
		t.Fatal(err)
	}
	if rc.WorkDir != root {
		t.Errorf("work dir = %q, want %q", rc.WorkDir, root)
	}

	doc := rc.Document
	run := doc.Find(export.NodeMethod, "App.Service.Run()")
	save := doc.Find(export.NodeMethod, "Data.Repo.Save(int)")
	if run == nil || save == nil {
		t.Fatalf("run=%v save=%v", run, save)
	}
	calls := doc.EdgesOf(run.ID, export.EdgeCalls)
	if len(calls) != 1 || calls[0].TargetID != save.ID {
		t.Errorf("CALLS from Run = %+v, want Save", calls)
	}

	if _, ok := objects.objects[minio.GraphKey(rc.RunID)]; !ok {
		t.Error("graph document not uploaded")
	}
	stored, ok := objects.objects[minio.RawKey(rc.RunID)]
	if !ok || !strings.Contains(string(stored), "App/Service.cs") {
		t.Error("raw document not uploaded")
	}
}

func TestCloneStageRejectsUnknownSource(t *testing.T) {
	stage := NewCloneStage(nil, nil)
	stage.baseDir = t.TempDir()
	err := stage.Execute(context.Background(), &RunContext{RunID: uuid.New(), Source: "ftp"})
	if err == nil || !strings.Contains(err.Error(), "unsupported source type") {
		t.Errorf("err = %v", err)
	}
}
