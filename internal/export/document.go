// Package export flattens a linked repository into a node/edge document.
// Node IDs are UUIDv5 values derived from qualified names, so exporting the
// same input twice yields the same IDs.
package export

import (
	"strings"

	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/pkg/models"
)

// Node kinds.
const (
	NodeSolution  = "solution"
	NodeProject   = "project"
	NodeFile      = "file"
	NodeNamespace = "namespace"
	NodeMethod    = "method"
	NodeField     = "field"
	NodeProperty  = "property"
)

// Edge types.
const (
	EdgeContains     = "CONTAINS"
	EdgeReferences   = "REFERENCES"
	EdgeDeclares     = "DECLARES"
	EdgeNestedIn     = "NESTED_IN"
	EdgeExtends      = "EXTENDS"
	EdgeImplements   = "IMPLEMENTS"
	EdgePartialOf    = "PARTIAL_OF"
	EdgeHasMember    = "HAS_MEMBER"
	EdgeHasAccessor  = "HAS_ACCESSOR"
	EdgeHasLocal     = "HAS_LOCAL_FUNCTION"
	EdgeImports      = "IMPORTS"
	EdgeCalls        = "CALLS"
	EdgeAccesses     = "ACCESSES"
	EdgeHasType      = "HAS_TYPE"
	EdgeReturns      = "RETURNS"
	EdgeAnnotatedBy  = "ANNOTATED_BY"
	EdgeTakesParamOf = "TAKES_PARAMETER_OF"
)

// Namespace is the UUID namespace every node ID is derived from.
var Namespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/dxworks/honeydew"))

type Node struct {
	ID            uuid.UUID      `json:"id"`
	Kind          string         `json:"kind"`
	Name          string         `json:"name"`
	QualifiedName string         `json:"qualifiedName"`
	Project       string         `json:"project,omitempty"`
	FilePath      string         `json:"filePath,omitempty"`
	External      bool           `json:"external,omitempty"`
	Properties    map[string]any `json:"properties,omitempty"`
}

type Edge struct {
	SourceID   uuid.UUID      `json:"sourceId"`
	TargetID   uuid.UUID      `json:"targetId"`
	Type       string         `json:"type"`
	Properties map[string]any `json:"properties,omitempty"`
}

// Document is the flattened form of a linked repository.
type Document struct {
	ID         uuid.UUID      `json:"id"`
	Repository string         `json:"repository"`
	Stats      resolver.Stats `json:"stats"`
	Nodes      []*Node        `json:"nodes"`
	Edges      []*Edge        `json:"edges"`
}

// RepositoryID derives the document ID for a repository name.
func RepositoryID(name string) uuid.UUID {
	return uuid.NewSHA1(Namespace, []byte("repository:"+name))
}

// NodeIDs returns the IDs of the nodes of the given kind.
func (d *Document) NodeIDs(kind string) []uuid.UUID {
	var out []uuid.UUID
	for _, n := range d.Nodes {
		if n.Kind == kind {
			out = append(out, n.ID)
		}
	}
	return out
}

// Find returns the first node with the given kind and qualified name.
func (d *Document) Find(kind, qualifiedName string) *Node {
	for _, n := range d.Nodes {
		if n.Kind == kind && n.QualifiedName == qualifiedName {
			return n
		}
	}
	return nil
}

// EdgesOf returns the edges of type typ leaving id.
func (d *Document) EdgesOf(id uuid.UUID, typ string) []*Edge {
	var out []*Edge
	for _, e := range d.Edges {
		if e.SourceID == id && e.Type == typ {
			out = append(out, e)
		}
	}
	return out
}

func signature(m *models.Method) string {
	var b strings.Builder
	b.WriteString(m.Name)
	b.WriteByte('(')
	for i, p := range m.Parameters {
		if i > 0 {
			b.WriteString(", ")
		}
		if p.Modifier != models.ParamNone {
			b.WriteString(string(p.Modifier))
			b.WriteByte(' ')
		}
		b.WriteString(typeName(p.Type, p.TypeName))
	}
	b.WriteByte(')')
	return b.String()
}

func typeName(t *models.EntityType, fallback string) string {
	if t == nil {
		return fallback
	}
	if t.IsNullable {
		return t.Name + "?"
	}
	return t.Name
}
