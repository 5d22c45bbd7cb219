package export

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dxworks/honeydew/internal/resolver"
	"github.com/dxworks/honeydew/pkg/models"
)

// builder assigns IDs in a first walk and emits edges in a second one, so
// edges may point at nodes visited later.
type builder struct {
	doc  *Document
	ids  map[any]uuid.UUID
	keys map[string]int
}

// Build flattens repo. The repository name only seeds the document ID.
func Build(name string, repo *models.Repository) *Document {
	b := &builder{
		doc: &Document{
			ID:         RepositoryID(name),
			Repository: name,
			Nodes:      []*Node{},
			Edges:      []*Edge{},
		},
		ids:  make(map[any]uuid.UUID),
		keys: make(map[string]int),
	}
	if repo == nil {
		return b.doc
	}
	b.doc.Stats = resolver.Summarize(repo)

	for _, s := range repo.Solutions {
		b.add(s, "solution:"+s.FilePath, &Node{Kind: NodeSolution, Name: baseName(s.FilePath), QualifiedName: s.FilePath, FilePath: s.FilePath})
	}
	for _, p := range repo.Projects {
		b.add(p, "project:"+projectKey(p), &Node{
			Kind: NodeProject, Name: p.Name, QualifiedName: p.Name, FilePath: p.FilePath,
			Properties: map[string]any{
				"language":                  p.Language,
				"externalProjectReferences": p.ExternalProjectReferences,
			},
		})
		for _, f := range p.Files {
			b.add(f, "file:"+projectKey(p)+"|"+f.FilePath, &Node{
				Kind: NodeFile, Name: baseName(f.FilePath), QualifiedName: f.FilePath,
				Project: p.Name, FilePath: f.FilePath,
				Properties: locProperties(f.LinesOfCode, nil),
			})
			for _, e := range f.Entities {
				b.entity(e, "entity:"+projectKey(p)+"|"+f.FilePath+"|"+e.Base().Name, p.Name)
			}
		}
	}
	var namespaces func([]*models.Namespace)
	namespaces = func(list []*models.Namespace) {
		for _, ns := range list {
			b.add(ns, "namespace:"+ns.FullName, &Node{Kind: NodeNamespace, Name: ns.Name, QualifiedName: ns.FullName})
			namespaces(ns.ChildNamespaces)
		}
	}
	namespaces(repo.Namespaces)
	for _, e := range repo.CreatedEntities {
		b.entity(e, fmt.Sprintf("external:%s/%d", e.Base().Name, arity(e)), "")
	}

	for _, s := range repo.Solutions {
		for _, p := range s.Projects {
			b.link(s, p, EdgeContains, nil)
		}
	}
	for _, p := range repo.Projects {
		for _, ref := range p.ProjectReferences {
			b.link(p, ref, EdgeReferences, nil)
		}
		for _, f := range p.Files {
			b.link(p, f, EdgeContains, nil)
			b.imports(f, f.Imports)
			for _, e := range f.Entities {
				b.link(f, e, EdgeDeclares, nil)
				b.entityEdges(e)
			}
		}
	}
	namespaces = func(list []*models.Namespace) {
		for _, ns := range list {
			for _, child := range ns.ChildNamespaces {
				b.link(ns, child, EdgeContains, nil)
			}
			for _, e := range ns.Entities {
				b.link(ns, e, EdgeDeclares, nil)
			}
			namespaces(ns.ChildNamespaces)
		}
	}
	namespaces(repo.Namespaces)
	for _, e := range repo.CreatedEntities {
		b.entityEdges(e)
	}
	return b.doc
}

// add registers obj under key. Colliding keys (partial fragments sharing a
// file, identical overloads) get an ordinal suffix in visiting order.
func (b *builder) add(obj any, key string, n *Node) uuid.UUID {
	if id, ok := b.ids[obj]; ok {
		return id
	}
	if seen := b.keys[key]; seen > 0 {
		b.keys[key] = seen + 1
		key = fmt.Sprintf("%s#%d", key, seen)
	} else {
		b.keys[key] = 1
	}
	n.ID = uuid.NewSHA1(Namespace, []byte(key))
	b.ids[obj] = n.ID
	b.doc.Nodes = append(b.doc.Nodes, n)
	return n.ID
}

func (b *builder) link(from, to any, typ string, props map[string]any) {
	src, ok := b.ids[from]
	if !ok {
		return
	}
	tgt, ok := b.ids[to]
	if !ok {
		return
	}
	b.doc.Edges = append(b.doc.Edges, &Edge{SourceID: src, TargetID: tgt, Type: typ, Properties: props})
}

func (b *builder) entity(e models.Entity, key, project string) {
	base := e.Base()
	props := locProperties(base.LinesOfCode, base.Metrics)
	props["accessModifier"] = base.AccessModifier
	if base.Modifier != "" {
		props["modifier"] = base.Modifier
	}
	if base.IsPrimitive {
		props["primitive"] = true
	}
	switch v := e.(type) {
	case *models.Class:
		props["classType"] = string(v.ClassType)
	case *models.Enum:
		labels := make([]string, 0, len(v.Labels))
		for _, l := range v.Labels {
			labels = append(labels, l.Name)
		}
		props["labels"] = labels
		if v.Type != "" {
			props["underlyingType"] = v.Type
		}
	}
	b.add(e, key, &Node{
		Kind:          string(e.Kind()),
		Name:          shortName(base.Name),
		QualifiedName: base.Name,
		Project:       project,
		FilePath:      base.FilePath,
		External:      base.IsExternal,
		Properties:    props,
	})

	for _, m := range methods(e) {
		b.method(m, key, project, base.FilePath)
	}
	for _, f := range fieldsOnly(e) {
		b.add(f, key+"."+f.Name, b.fieldNode(NodeField, f, base.Name, project, base.FilePath))
	}
	for _, p := range properties(e) {
		pkey := key + "." + p.Name
		n := b.fieldNode(NodeProperty, &p.Field, base.Name, project, base.FilePath)
		n.Properties["cyclomaticComplexity"] = p.CyclomaticComplexity
		id := b.add(p, pkey, n)
		b.ids[&p.Field] = id
		for _, acc := range p.Accessors {
			b.method(acc, pkey, project, base.FilePath)
		}
	}
}

func (b *builder) fieldNode(kind string, f *models.Field, owner, project, filePath string) *Node {
	props := map[string]any{"accessModifier": f.AccessModifier}
	if f.Modifier != "" {
		props["modifier"] = f.Modifier
	}
	if f.IsEvent {
		props["event"] = true
	}
	if f.Type != nil {
		props["type"] = typeName(f.Type, "")
	}
	if len(f.Metrics) > 0 {
		props["metrics"] = map[string]any(f.Metrics)
	}
	return &Node{
		Kind:          kind,
		Name:          f.Name,
		QualifiedName: owner + "." + f.Name,
		Project:       project,
		FilePath:      filePath,
		Properties:    props,
	}
}

func (b *builder) method(m *models.Method, ownerKey, project, filePath string) {
	sig := signature(m)
	key := ownerKey + "#" + string(m.Type) + ":" + sig
	props := locProperties(m.LinesOfCode, m.Metrics)
	props["methodType"] = string(m.Type)
	props["signature"] = sig
	props["cyclomaticComplexity"] = m.CyclomaticComplexity
	props["accessModifier"] = m.AccessModifier
	if m.ReturnValue != nil {
		props["returnType"] = typeName(m.ReturnValue.Type, "")
	}

	qualified := sig
	if m.Owner != nil {
		qualified = m.Owner.Base().Name + "." + sig
	}
	b.add(m, key, &Node{
		Kind:          NodeMethod,
		Name:          m.Name,
		QualifiedName: qualified,
		Project:       project,
		FilePath:      filePath,
		Properties:    props,
	})
	for _, lf := range m.LocalFunctions {
		b.method(lf, key, project, filePath)
	}
}

func (b *builder) entityEdges(e models.Entity) {
	base := e.Base()
	if base.ContainingEntity != nil {
		b.link(e, base.ContainingEntity, EdgeNestedIn, nil)
	}
	b.imports(e, base.Imports)
	b.attributes(e, base.Attributes)

	var bases []*models.BaseType
	switch v := e.(type) {
	case *models.Class:
		bases = v.BaseTypes
	case *models.Interface:
		bases = v.BaseTypes
	case *models.Delegate:
		b.signatureEdges(e, v.Parameters, v.ReturnValue)
	}
	for _, bt := range bases {
		if bt.Type == nil || bt.Type.Entity == nil {
			continue
		}
		typ := EdgeImplements
		if bt.Kind == "class" {
			typ = EdgeExtends
		}
		b.link(e, bt.Type.Entity, typ, nil)
	}
	for _, p := range models.PartialsOf(e) {
		b.link(e, p, EdgePartialOf, nil)
	}

	for _, m := range methods(e) {
		b.link(e, m, EdgeHasMember, nil)
		b.methodEdges(m)
	}
	for _, f := range fieldsOnly(e) {
		b.link(e, f, EdgeHasMember, nil)
		b.fieldEdges(f, f)
	}
	for _, p := range properties(e) {
		b.link(e, p, EdgeHasMember, nil)
		b.fieldEdges(p, &p.Field)
		for _, acc := range p.Accessors {
			b.link(p, acc, EdgeHasAccessor, nil)
			b.methodEdges(acc)
		}
	}
}

func (b *builder) fieldEdges(node any, f *models.Field) {
	if f.Type != nil && f.Type.Entity != nil {
		b.link(node, f.Type.Entity, EdgeHasType, nil)
	}
	b.attributes(node, f.Attributes)
}

func (b *builder) methodEdges(m *models.Method) {
	b.signatureEdges(m, m.Parameters, m.ReturnValue)
	b.attributes(m, m.Attributes)
	for _, call := range m.OutgoingCalls {
		props := map[string]any{}
		if call.Receiver != nil {
			props["receiver"] = call.Receiver.Name
		}
		if len(call.ParameterTypes) > 0 {
			types := make([]string, 0, len(call.ParameterTypes))
			for _, t := range call.ParameterTypes {
				types = append(types, typeName(t, ""))
			}
			props["parameterTypes"] = types
		}
		b.link(m, call.Called, EdgeCalls, props)
	}
	for _, access := range m.FieldAccesses {
		b.link(m, access.Field, EdgeAccesses, map[string]any{"kind": string(access.Kind)})
	}
	for _, lf := range m.LocalFunctions {
		b.link(m, lf, EdgeHasLocal, nil)
		b.methodEdges(lf)
	}
}

func (b *builder) signatureEdges(node any, params []*models.Parameter, ret *models.ReturnValue) {
	for _, p := range params {
		if p.Type != nil && p.Type.Entity != nil {
			b.link(node, p.Type.Entity, EdgeTakesParamOf, nil)
		}
	}
	if ret != nil && ret.Type != nil && ret.Type.Entity != nil {
		b.link(node, ret.Type.Entity, EdgeReturns, nil)
	}
}

func (b *builder) attributes(node any, attrs []*models.Attribute) {
	for _, a := range attrs {
		if a.Type != nil && a.Type.Entity != nil {
			b.link(node, a.Type.Entity, EdgeAnnotatedBy, nil)
		}
	}
}

func (b *builder) imports(node any, imports []*models.Import) {
	for _, imp := range imports {
		props := map[string]any{"name": imp.Name}
		if imp.Alias != "" {
			props["alias"] = imp.Alias
		}
		switch {
		case imp.Entity != nil:
			b.link(node, imp.Entity, EdgeImports, props)
		case imp.Namespace != nil:
			b.link(node, imp.Namespace, EdgeImports, props)
		}
	}
}

// methods lists every top-level callable of e except accessors, which hang
// off their property.
func methods(e models.Entity) []*models.Method {
	var out []*models.Method
	for _, m := range resolver.MethodsOf(e) {
		if m.ContainingProperty == nil {
			out = append(out, m)
		}
	}
	return out
}

func fieldsOnly(e models.Entity) []*models.Field {
	if c, ok := e.(*models.Class); ok {
		return c.Fields
	}
	return nil
}

func properties(e models.Entity) []*models.Property {
	switch v := e.(type) {
	case *models.Class:
		return v.Properties
	case *models.Interface:
		return v.Properties
	}
	return nil
}

func arity(e models.Entity) int {
	switch v := e.(type) {
	case *models.Class:
		return len(v.GenericParameters)
	case *models.Interface:
		return len(v.GenericParameters)
	case *models.Delegate:
		return len(v.GenericParameters)
	}
	return 0
}

func locProperties(loc models.LinesOfCode, metrics models.Metrics) map[string]any {
	props := map[string]any{
		"sourceLines":  loc.Source,
		"commentLines": loc.Comment,
		"emptyLines":   loc.Empty,
	}
	if len(metrics) > 0 {
		props["metrics"] = map[string]any(metrics)
	}
	return props
}

func projectKey(p *models.Project) string {
	if p.FilePath != "" {
		return p.FilePath
	}
	return p.Name
}

func shortName(name string) string {
	name = strings.TrimSpace(name)
	depth := 0
	for i := len(name) - 1; i >= 0; i-- {
		switch name[i] {
		case '>':
			depth++
		case '<':
			depth--
		case '.':
			if depth == 0 {
				return name[i+1:]
			}
		}
	}
	return name
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, `/\`); i >= 0 {
		return path[i+1:]
	}
	return path
}
