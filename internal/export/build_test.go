package export

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/parser/csharp"
	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/pkg/models"
)

func rawRepository() *parser.Repository {
	repo := &parser.Declaration{
		Type: "class", Name: "Data.Repo", ContainingNamespace: "Data",
		Methods: []*parser.Method{{Name: "Save", Parameters: []*parser.Parameter{{Type: "int"}}, ReturnValue: &parser.ReturnValue{Type: "void"}}},
	}
	service := &parser.Declaration{
		Type: "class", Name: "App.Service", ContainingNamespace: "App",
		Fields: []*parser.Field{{Name: "_repo", Type: "Data.Repo"}},
		Methods: []*parser.Method{{
			Name:        "Run",
			ReturnValue: &parser.ReturnValue{Type: "void"},
			CalledMethods: []*parser.MethodCall{
				{Name: "Save", LocationClassName: "Data.Repo", ParameterTypes: []*parser.ParameterType{{Type: "int"}}},
				{Name: "WriteLine", LocationClassName: "System.Console", ParameterTypes: []*parser.ParameterType{{Type: "string"}}},
			},
			AccessedFields: []*parser.AccessedField{{Name: "_repo", LocationClassName: "App.Service", Kind: "getter"}},
		}},
	}
	partA := &parser.Declaration{Type: "class", Name: "App.Part", ContainingNamespace: "App", Modifier: "partial"}
	partB := &parser.Declaration{Type: "class", Name: "App.Part", ContainingNamespace: "App", Modifier: "partial"}

	return &parser.Repository{
		Solutions: []*parser.Solution{{FilePath: "All.sln", ProjectsPaths: []string{"data/Data.csproj", "app/App.csproj"}}},
		Projects: []*parser.Project{
			{Name: "Data", FilePath: "data/Data.csproj", Language: "C#", CompilationUnits: []*parser.CompilationUnit{
				{FilePath: "data/Repo.cs", Declarations: []*parser.Declaration{repo}},
			}},
			{Name: "App", FilePath: "app/App.csproj", Language: "C#", ProjectReferences: []string{"data/Data.csproj"}, CompilationUnits: []*parser.CompilationUnit{
				{FilePath: "app/Service.cs", Declarations: []*parser.Declaration{service, partA, partB}},
			}},
		},
	}
}

func link(t *testing.T) *models.Repository {
	t.Helper()
	reg := parser.NewRegistry()
	reg.RegisterAdapter(csharp.NewAdapter())
	engine := resolver.NewEngine(reg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	repo, err := engine.Link(context.Background(), rawRepository())
	if err != nil {
		t.Fatal(err)
	}
	return repo
}

func TestBuildNodes(t *testing.T) {
	doc := Build("sample", link(t))

	if doc.ID != RepositoryID("sample") {
		t.Errorf("document ID = %s, want RepositoryID(sample)", doc.ID)
	}
	for _, want := range []struct{ kind, name string }{
		{NodeSolution, "All.sln"},
		{NodeProject, "Data"},
		{NodeProject, "App"},
		{NodeFile, "app/Service.cs"},
		{NodeNamespace, "Data"},
		{"class", "App.Service"},
		{NodeField, "App.Service._repo"},
		{NodeMethod, "Data.Repo.Save(int)"},
	} {
		if doc.Find(want.kind, want.name) == nil {
			t.Errorf("node %s %q not found", want.kind, want.name)
		}
	}

	console := doc.Find("class", "System.Console")
	if console == nil || !console.External {
		t.Fatalf("stand-in System.Console = %+v", console)
	}
	if console.Name != "Console" {
		t.Errorf("stand-in short name = %q, want Console", console.Name)
	}

	ids := make(map[string]bool)
	for _, n := range doc.Nodes {
		if ids[n.ID.String()] {
			t.Errorf("duplicate node ID %s for %s %q", n.ID, n.Kind, n.QualifiedName)
		}
		ids[n.ID.String()] = true
	}
	if got := len(doc.NodeIDs("class")); got < 4 {
		t.Errorf("class nodes = %d, want at least 4 (two fragments of App.Part)", got)
	}
	if doc.Stats.Projects != 2 || doc.Stats.Calls != 2 {
		t.Errorf("stats = %+v", doc.Stats)
	}
}

func TestBuildEdges(t *testing.T) {
	doc := Build("sample", link(t))

	run := doc.Find(NodeMethod, "App.Service.Run()")
	save := doc.Find(NodeMethod, "Data.Repo.Save(int)")
	if run == nil || save == nil {
		t.Fatalf("run=%v save=%v", run, save)
	}

	calls := doc.EdgesOf(run.ID, EdgeCalls)
	if len(calls) != 2 {
		t.Fatalf("CALLS from Run = %d, want 2", len(calls))
	}
	if calls[0].TargetID != save.ID {
		t.Errorf("first call target = %s, want Save", calls[0].TargetID)
	}

	accesses := doc.EdgesOf(run.ID, EdgeAccesses)
	field := doc.Find(NodeField, "App.Service._repo")
	if len(accesses) != 1 || accesses[0].TargetID != field.ID || accesses[0].Properties["kind"] != "getter" {
		t.Errorf("ACCESSES from Run = %+v", accesses)
	}
	if types := doc.EdgesOf(field.ID, EdgeHasType); len(types) != 1 || types[0].TargetID != doc.Find("class", "Data.Repo").ID {
		t.Errorf("HAS_TYPE from _repo = %+v", types)
	}

	app := doc.Find(NodeProject, "App")
	data := doc.Find(NodeProject, "Data")
	if refs := doc.EdgesOf(app.ID, EdgeReferences); len(refs) != 1 || refs[0].TargetID != data.ID {
		t.Errorf("REFERENCES from App = %+v", refs)
	}
	sln := doc.Find(NodeSolution, "All.sln")
	if n := len(doc.EdgesOf(sln.ID, EdgeContains)); n != 2 {
		t.Errorf("solution CONTAINS = %d, want 2", n)
	}

	var partials int
	for _, e := range doc.Edges {
		if e.Type == EdgePartialOf {
			partials++
		}
	}
	if partials != 2 {
		t.Errorf("PARTIAL_OF edges = %d, want 2", partials)
	}
}

func TestBuildIsDeterministic(t *testing.T) {
	a := Build("sample", link(t))
	b := Build("sample", link(t))
	if len(a.Nodes) != len(b.Nodes) || len(a.Edges) != len(b.Edges) {
		t.Fatalf("sizes differ: %d/%d nodes, %d/%d edges", len(a.Nodes), len(b.Nodes), len(a.Edges), len(b.Edges))
	}
	for i := range a.Nodes {
		if a.Nodes[i].ID != b.Nodes[i].ID {
			t.Errorf("node %d (%s) ID differs between runs", i, a.Nodes[i].QualifiedName)
		}
	}
}

func TestBuildNil(t *testing.T) {
	doc := Build("empty", nil)
	if len(doc.Nodes) != 0 || len(doc.Edges) != 0 {
		t.Errorf("Build(nil) = %+v", doc)
	}
}

func TestShortName(t *testing.T) {
	tests := []struct{ in, want string }{
		{"App.Service", "Service"},
		{"Plain", "Plain"},
		{"System.Collections.Generic.Dictionary<System.String, App.User>", "Dictionary<System.String, App.User>"},
	}
	for _, tt := range tests {
		if got := shortName(tt.in); got != tt.want {
			t.Errorf("shortName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
