package discover

import (
	"bufio"
	"encoding/xml"
	"fmt"
	"io"
	"path"
	"regexp"
	"strings"
)

// solutionProject matches a project line of a .sln file:
// Project("{type-guid}") = "Name", "relative\path.csproj", "{guid}"
var solutionProject = regexp.MustCompile(`^Project\("\{[^}]*\}"\)\s*=\s*"[^"]*"\s*,\s*"([^"]+)"`)

// ReadSolution returns the project paths listed in a solution, relative to
// the solution's directory and slash separated. Solution folders and other
// non-project entries are skipped.
func ReadSolution(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		m := solutionProject.FindStringSubmatch(strings.TrimSpace(sc.Text()))
		if m == nil {
			continue
		}
		p := normalize(m[1])
		if kind, ok := kindOf(p); !ok || kind != KindProject {
			continue
		}
		out = append(out, p)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read solution: %w", err)
	}
	return out, nil
}

// ProjectFile is what honeydew reads from a .csproj or .vbproj.
type ProjectFile struct {
	// References holds ProjectReference includes, relative to the project
	// directory.
	References []string
	// Compile holds explicit Compile includes of legacy projects. It is empty
	// for SDK-style projects, which compile every source file below them.
	Compile []string
	// Removed holds Compile Remove patterns of SDK-style projects.
	Removed []string
}

type msbuildProject struct {
	ItemGroups []struct {
		ProjectReferences []struct {
			Include string `xml:"Include,attr"`
		} `xml:"ProjectReference"`
		Compile []struct {
			Include string `xml:"Include,attr"`
			Remove  string `xml:"Remove,attr"`
		} `xml:"Compile"`
	} `xml:"ItemGroup"`
}

// ReadProject parses an MSBuild project file.
func ReadProject(r io.Reader) (*ProjectFile, error) {
	var doc msbuildProject
	if err := xml.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	pf := &ProjectFile{}
	for _, group := range doc.ItemGroups {
		for _, ref := range group.ProjectReferences {
			if ref.Include != "" {
				pf.References = append(pf.References, normalize(ref.Include))
			}
		}
		for _, c := range group.Compile {
			switch {
			case c.Remove != "":
				pf.Removed = append(pf.Removed, normalize(c.Remove))
			case c.Include != "" && !strings.ContainsAny(c.Include, "*?"):
				pf.Compile = append(pf.Compile, normalize(c.Include))
			}
		}
	}
	return pf, nil
}

// normalize turns an MSBuild path into a clean slash-separated path.
func normalize(p string) string {
	p = strings.ReplaceAll(strings.TrimSpace(p), `\`, "/")
	return path.Clean(p)
}

// resolve joins a path relative to dir and cleans it. Paths escaping the
// repository root are kept as written after cleaning.
func resolve(dir, rel string) string {
	if dir == "" || dir == "." {
		return path.Clean(rel)
	}
	return path.Join(dir, rel)
}
