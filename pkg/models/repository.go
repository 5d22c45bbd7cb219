// Package models defines the fully linked semantic graph of a code repository.
//
// The graph is cyclic: namespaces point at their parents and children,
// partial fragments point at each other, and every call and field access is
// indexed from both ends. Back-references are plain pointers; ownership is
// whoever created the node first.
package models

// Repository is the root of a linked graph.
type Repository struct {
	Version    string
	Solutions  []*Solution
	Projects   []*Project
	Namespaces []*Namespace // root namespaces only

	// CreatedEntities lists every synthesized stand-in, in creation order.
	CreatedEntities []Entity
}

// Solution groups projects. A project may belong to several solutions.
type Solution struct {
	FilePath   string
	Projects   []*Project
	Repository *Repository
}

// Project is a single buildable unit of source files.
type Project struct {
	Name     string
	FilePath string
	Language string

	Files []*File

	ProjectReferences         []*Project
	ExternalProjectReferences []string

	Solutions  []*Solution
	Namespaces []*Namespace
	Repository *Repository
}

// LinesOfCode holds the line counts of a file or declaration.
type LinesOfCode struct {
	Source  int
	Comment int
	Empty   int
}

// File is a single compilation unit.
type File struct {
	FilePath    string
	LinesOfCode LinesOfCode
	Imports     []*Import

	// Entities holds the top-level declarations in source order.
	Entities []Entity
	Project  *Project
}

// Namespace is one node of the repository-wide namespace tree. There is
// exactly one instance per FullName.
type Namespace struct {
	Name     string
	FullName string

	Parent          *Namespace
	ChildNamespaces []*Namespace
	Entities        []Entity
}

// ImportKind classifies what an import alias denotes.
type ImportKind string

const (
	ImportNamespace     ImportKind = "namespace"
	ImportClass         ImportKind = "class"
	ImportNone          ImportKind = "none"
	ImportNotDetermined ImportKind = "notdetermined"
)

// Import is a using/imports directive. At most one of Entity and Namespace is
// set once resolved.
type Import struct {
	Name      string
	Alias     string
	AliasType ImportKind
	IsStatic  bool

	Entity    Entity
	Namespace *Namespace
}
