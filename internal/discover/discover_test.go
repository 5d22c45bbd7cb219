package discover

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dxworks/honeydew/internal/parser"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

const solution = `
Microsoft Visual Studio Solution File, Format Version 12.00
Project("{FAE04EC0-301F-11D3-BF4B-00C04F79EFBC}") = "Core", "src\Core\Core.csproj", "{11111111-1111-1111-1111-111111111111}"
EndProject
Project("{2150E333-8FDC-42A3-9474-1A3956D46DE8}") = "Solution Items", "Solution Items", "{22222222-2222-2222-2222-222222222222}"
EndProject
Project("{F184B08F-C81C-45F6-A57F-5ABD9991F28F}") = "Legacy", "src\Legacy\Legacy.vbproj", "{33333333-3333-3333-3333-333333333333}"
EndProject
`

const sdkProject = `<Project Sdk="Microsoft.NET.Sdk">
  <ItemGroup>
    <ProjectReference Include="..\Legacy\Legacy.vbproj" />
    <Compile Remove="Generated/*.cs" />
  </ItemGroup>
</Project>`

const legacyProject = `<?xml version="1.0" encoding="utf-8"?>
<Project ToolsVersion="15.0" xmlns="http://schemas.microsoft.com/developer/msbuild/2003">
  <ItemGroup>
    <Compile Include="Module1.vb" />
    <Compile Include="**\*.Designer.vb" />
  </ItemGroup>
</Project>`

func TestReadSolution(t *testing.T) {
	got, err := ReadSolution(strings.NewReader(solution))
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"src/Core/Core.csproj", "src/Legacy/Legacy.vbproj"}
	if len(got) != len(want) {
		t.Fatalf("ReadSolution = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ReadSolution[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReadProject(t *testing.T) {
	pf, err := ReadProject(strings.NewReader(sdkProject))
	if err != nil {
		t.Fatal(err)
	}
	if len(pf.References) != 1 || pf.References[0] != "../Legacy/Legacy.vbproj" {
		t.Errorf("References = %q", pf.References)
	}
	if len(pf.Compile) != 0 || len(pf.Removed) != 1 {
		t.Errorf("Compile = %q, Removed = %q", pf.Compile, pf.Removed)
	}

	legacy, err := ReadProject(strings.NewReader(legacyProject))
	if err != nil {
		t.Fatal(err)
	}
	if len(legacy.Compile) != 1 || legacy.Compile[0] != "Module1.vb" {
		t.Errorf("legacy Compile = %q, want [Module1.vb]", legacy.Compile)
	}

	if _, err := ReadProject(strings.NewReader("not xml")); err == nil {
		t.Error("ReadProject(not xml) succeeded")
	}
}

func TestFilesSkipsBuildOutputAndIgnored(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "App.sln", solution)
	writeFile(t, dir, "src/Core/Core.csproj", sdkProject)
	writeFile(t, dir, "src/Core/User.cs", "class User {}")
	writeFile(t, dir, "src/Core/obj/Debug/AssemblyInfo.cs", "")
	writeFile(t, dir, "src/Core/bin/Tmp.cs", "")
	writeFile(t, dir, "src/Core/Scratch.cs", "")
	writeFile(t, dir, ".gitignore", "Scratch.cs\n")
	writeFile(t, dir, "README.md", "")

	entries, err := Files(dir)
	if err != nil {
		t.Fatalf("Files: %v", err)
	}
	var paths []string
	for _, e := range entries {
		paths = append(paths, e.Path)
	}
	want := []string{"App.sln", "src/Core/Core.csproj", "src/Core/User.cs"}
	if strings.Join(paths, ",") != strings.Join(want, ",") {
		t.Errorf("Files = %q, want %q", paths, want)
	}
	if entries[0].Kind != KindSolution || entries[1].Kind != KindProject || entries[2].Kind != KindSource {
		t.Errorf("kinds = %v %v %v", entries[0].Kind, entries[1].Kind, entries[2].Kind)
	}
	if entries[2].Language != parser.LanguageCSharp {
		t.Errorf("language = %q", entries[2].Language)
	}
}

func TestScan(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "App.sln", solution)
	writeFile(t, dir, "src/Core/Core.csproj", sdkProject)
	writeFile(t, dir, "src/Core/User.cs", "")
	writeFile(t, dir, "src/Core/Services/UserService.cs", "")
	writeFile(t, dir, "src/Core/Generated/Proxy.cs", "")
	writeFile(t, dir, "src/Core/Tests/Tests.csproj", `<Project Sdk="Microsoft.NET.Sdk"></Project>`)
	writeFile(t, dir, "src/Core/Tests/UserTests.cs", "")
	writeFile(t, dir, "src/Legacy/Legacy.vbproj", legacyProject)
	writeFile(t, dir, "src/Legacy/Module1.vb", "")
	writeFile(t, dir, "src/Legacy/Unlisted.vb", "")
	writeFile(t, dir, "tools/Script.cs", "")
	writeFile(t, dir, "Broken.csproj", "<Project")

	layout, err := Scan(dir, discardLogger())
	if err != nil {
		t.Fatal(err)
	}

	if len(layout.Solutions) != 1 {
		t.Fatalf("solutions = %d, want 1", len(layout.Solutions))
	}
	if got := layout.Solutions[0].ProjectsPaths; len(got) != 2 || got[0] != "src/Core/Core.csproj" {
		t.Errorf("solution projects = %q", got)
	}

	byPath := make(map[string]*ProjectSources)
	for _, ps := range layout.Projects {
		byPath[ps.Project.FilePath] = ps
	}
	if len(byPath) != 3 {
		t.Fatalf("projects = %d, want 3 (broken project skipped)", len(byPath))
	}

	core := byPath["src/Core/Core.csproj"]
	if got := strings.Join(core.Sources, ","); got != "src/Core/Services/UserService.cs,src/Core/User.cs" {
		t.Errorf("Core sources = %s", got)
	}
	if core.Project.Name != "Core" || core.Project.Language != parser.LanguageCSharp {
		t.Errorf("Core project = %+v", core.Project)
	}
	if refs := core.Project.ProjectReferences; len(refs) != 1 || refs[0] != "src/Legacy/Legacy.vbproj" {
		t.Errorf("Core references = %q", refs)
	}

	tests := byPath["src/Core/Tests/Tests.csproj"]
	if len(tests.Sources) != 1 || tests.Sources[0] != "src/Core/Tests/UserTests.cs" {
		t.Errorf("nested project sources = %q", tests.Sources)
	}

	legacy := byPath["src/Legacy/Legacy.vbproj"]
	if len(legacy.Sources) != 1 || legacy.Sources[0] != "src/Legacy/Module1.vb" {
		t.Errorf("legacy sources = %q", legacy.Sources)
	}
	if legacy.Project.Language != parser.LanguageVisualBasic {
		t.Errorf("legacy language = %q", legacy.Project.Language)
	}

	if len(layout.Orphans) != 1 || layout.Orphans[0] != "tools/Script.cs" {
		t.Errorf("orphans = %q", layout.Orphans)
	}

	repo := layout.Repository()
	if len(repo.Projects) != 3 || len(repo.Solutions) != 1 {
		t.Errorf("Repository() = %d projects, %d solutions", len(repo.Projects), len(repo.Solutions))
	}
}
