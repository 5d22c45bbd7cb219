package resolver

import (
	"strings"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

// constraintKeywords are generic constraints that name no type.
var constraintKeywords = map[string]bool{
	"class": true, "struct": true, "new()": true, "unmanaged": true,
	"notnull": true, "default": true, "class?": true, "new": true,
	"structure": true,
}

// resolveReferences resolves every type name reachable from the entity
// level of one project: imports, attributes, base types, generic
// parameters, enum labels and delegate signatures.
func (r *run) resolveReferences(ps *projectState) {
	for _, fp := range ps.files {
		fp.file.Imports = r.convertImports(ps, fp.unit.Imports)
	}

	for _, d := range ps.decls {
		d.hints = lookupHints(d.raw, d.file.unit)
		base := d.entity.Base()

		base.Imports = r.convertImports(ps, d.raw.Imports)
		base.Attributes = r.convertAttributes(ps, d.raw.Attributes, d.hints)

		if name := strings.TrimSpace(d.raw.ContainingClassName); name != "" {
			sig := ps.adapter.ParseTypeSignature(name)
			base.ContainingEntity = r.entities.Resolve(ps.project, qualify(sig.Name, d.hints), sig.Arity())
		}

		switch e := d.entity.(type) {
		case *models.Class:
			e.GenericParameters = r.convertGenericParameters(ps, d.raw.GenericParameters, d.hints)
			e.BaseTypes = r.convertBaseTypes(ps, d.raw.BaseTypes, d.hints)
		case *models.Interface:
			e.GenericParameters = r.convertGenericParameters(ps, d.raw.GenericParameters, d.hints)
			e.BaseTypes = r.convertBaseTypes(ps, d.raw.BaseTypes, d.hints)
		case *models.Enum:
			for _, l := range d.raw.Labels {
				if l == nil {
					continue
				}
				e.Labels = append(e.Labels, &models.EnumLabel{
					Name:       l.Name,
					Attributes: r.convertAttributes(ps, l.Attributes, d.hints),
				})
			}
		case *models.Delegate:
			e.GenericParameters = r.convertGenericParameters(ps, d.raw.GenericParameters, d.hints)
			e.Parameters = r.convertParameters(ps, d.raw.Parameters, d.hints)
			e.ReturnValue = r.convertReturnValue(ps, d.raw.ReturnValue, d.hints)
		}
	}
}

// lookupHints lists the namespaces a short name may be qualified with:
// the containing class, the containing namespace and its ancestors, then
// the namespaces imported by the declaration and its file.
func lookupHints(decl *parser.Declaration, unit *parser.CompilationUnit) []string {
	var hints []string
	if c := strings.TrimSpace(decl.ContainingClassName); c != "" {
		hints = append(hints, parser.StripGenericSuffix(c))
	}
	ns := strings.TrimSpace(decl.ContainingNamespace)
	for ns != "" {
		hints = append(hints, ns)
		i := strings.LastIndex(ns, NamespaceSeparator)
		if i < 0 {
			break
		}
		ns = ns[:i]
	}
	for _, list := range [][]*parser.Import{decl.Imports, unit.Imports} {
		for _, imp := range list {
			if imp == nil || imp.Alias != "" || imp.IsStatic {
				continue
			}
			if importKind(imp.AliasType) == models.ImportNamespace {
				hints = append(hints, imp.Name)
			}
		}
	}
	return hints
}

func qualify(name string, hints []string) []string {
	names := make([]string, 0, 1+len(hints))
	names = append(names, name)
	for _, h := range hints {
		if h == "" {
			continue
		}
		names = append(names, h+NamespaceSeparator+name)
	}
	return names
}

func importKind(aliasType string) models.ImportKind {
	switch strings.ToLower(strings.TrimSpace(aliasType)) {
	case "namespace":
		return models.ImportNamespace
	case "class":
		return models.ImportClass
	case "notdetermined":
		return models.ImportNotDetermined
	}
	return models.ImportNone
}

func (r *run) convertImports(ps *projectState, raw []*parser.Import) []*models.Import {
	var out []*models.Import
	for _, imp := range raw {
		if imp == nil {
			continue
		}
		m := &models.Import{
			Name:      imp.Name,
			Alias:     imp.Alias,
			AliasType: importKind(imp.AliasType),
			IsStatic:  imp.IsStatic,
		}
		switch {
		case m.AliasType == models.ImportClass || m.IsStatic:
			sig := ps.adapter.ParseTypeSignature(imp.Name)
			m.Entity = r.resolveEntity(ps, sig.Name, sig.Arity(), nil)
		case m.AliasType == models.ImportNamespace:
			m.Namespace = r.tree.GetOrAdd(imp.Name)
		}
		out = append(out, m)
	}
	return out
}

// resolveEntity finds the entity for a name or synthesizes a stand-in.
func (r *run) resolveEntity(ps *projectState, name string, arity int, hints []string) models.Entity {
	if e := r.entities.Resolve(ps.project, qualify(name, hints), arity); e != nil {
		return e
	}
	return r.entities.Synthesize(name, arity, ps.adapter.IsPrimitive(name))
}

// resolveType parses text and resolves it and its generic arguments.
func (r *run) resolveType(ps *projectState, text string, nullable bool, hints []string) *models.EntityType {
	if strings.TrimSpace(text) == "" {
		return &models.EntityType{IsNullable: nullable}
	}
	return r.entityType(ps, ps.adapter.ParseTypeSignature(text), nullable, hints)
}

func (r *run) entityType(ps *projectState, sig parser.TypeSignature, nullable bool, hints []string) *models.EntityType {
	et := &models.EntityType{
		Name:       sig.Text,
		IsNullable: sig.IsNullable || nullable,
	}
	if sig.Name != "" {
		et.Entity = r.resolveEntity(ps, sig.Name, sig.Arity(), hints)
	}
	for _, g := range sig.GenericTypes {
		et.GenericTypes = append(et.GenericTypes, r.entityType(ps, g, false, hints))
	}
	return et
}

func (r *run) convertAttributes(ps *projectState, raw []*parser.Attribute, hints []string) []*models.Attribute {
	var out []*models.Attribute
	for _, a := range raw {
		if a == nil {
			continue
		}
		out = append(out, &models.Attribute{
			Type:       r.resolveType(ps, a.Type, false, hints),
			Target:     a.Target,
			Parameters: r.convertParameters(ps, a.Parameters, hints),
		})
	}
	return out
}

func (r *run) convertParameters(ps *projectState, raw []*parser.Parameter, hints []string) []*models.Parameter {
	var out []*models.Parameter
	for _, p := range raw {
		if p == nil {
			continue
		}
		out = append(out, &models.Parameter{
			TypeName:     p.Type,
			Type:         r.resolveType(ps, p.Type, p.IsNullable, hints),
			Modifier:     models.ParameterModifier(strings.ToLower(p.Modifier)),
			DefaultValue: p.DefaultValue,
			Attributes:   r.convertAttributes(ps, p.Attributes, hints),
		})
	}
	return out
}

func (r *run) convertReturnValue(ps *projectState, raw *parser.ReturnValue, hints []string) *models.ReturnValue {
	if raw == nil {
		return nil
	}
	return &models.ReturnValue{
		Type:       r.resolveType(ps, raw.Type, raw.IsNullable, hints),
		Modifier:   raw.Modifier,
		Attributes: r.convertAttributes(ps, raw.Attributes, hints),
	}
}

func (r *run) convertGenericParameters(ps *projectState, raw []*parser.GenericParameter, hints []string) []*models.GenericParameter {
	var out []*models.GenericParameter
	for _, g := range raw {
		if g == nil {
			continue
		}
		gp := &models.GenericParameter{
			Name:       g.Name,
			Modifier:   g.Modifier,
			Attributes: r.convertAttributes(ps, g.Attributes, hints),
		}
		for _, c := range g.Constraints {
			if constraintKeywords[strings.ToLower(strings.TrimSpace(c))] {
				gp.Constraints = append(gp.Constraints, &models.EntityType{Name: strings.TrimSpace(c)})
				continue
			}
			gp.Constraints = append(gp.Constraints, r.resolveType(ps, c, false, hints))
		}
		out = append(out, gp)
	}
	return out
}

func (r *run) convertBaseTypes(ps *projectState, raw []*parser.BaseType, hints []string) []*models.BaseType {
	var out []*models.BaseType
	for _, b := range raw {
		if b == nil {
			continue
		}
		out = append(out, &models.BaseType{
			Type: r.resolveType(ps, b.Type, false, hints),
			Kind: b.Kind,
		})
	}
	return out
}
