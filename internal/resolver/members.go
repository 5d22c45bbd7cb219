package resolver

import (
	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

// populateMembers converts the raw members of every class and interface in
// one project. Each converted method remembers its raw counterpart so pass 4
// never has to search for it.
func (r *run) populateMembers(ps *projectState) {
	for _, d := range ps.decls {
		switch e := d.entity.(type) {
		case *models.Class:
			for _, m := range d.raw.Methods {
				if m != nil {
					e.Methods = append(e.Methods, r.convertMethod(ps, e, m, models.MethodKindMethod, d.hints))
				}
			}
			for _, m := range d.raw.Constructors {
				if m != nil {
					e.Constructors = append(e.Constructors, r.convertMethod(ps, e, m, models.MethodKindConstructor, d.hints))
				}
			}
			if d.raw.Destructor != nil {
				e.Destructor = r.convertMethod(ps, e, d.raw.Destructor, models.MethodKindDestructor, d.hints)
			}
			for _, f := range d.raw.Fields {
				if f != nil {
					e.Fields = append(e.Fields, r.convertField(ps, e, f, d.hints))
				}
			}
			for _, p := range d.raw.Properties {
				if p != nil {
					e.Properties = append(e.Properties, r.convertProperty(ps, e, p, d.hints))
				}
			}
		case *models.Interface:
			for _, m := range d.raw.Methods {
				if m != nil {
					e.Methods = append(e.Methods, r.convertMethod(ps, e, m, models.MethodKindMethod, d.hints))
				}
			}
			for _, p := range d.raw.Properties {
				if p != nil {
					e.Properties = append(e.Properties, r.convertProperty(ps, e, p, d.hints))
				}
			}
		}
	}
}

func (r *run) convertMethod(ps *projectState, owner models.Entity, raw *parser.Method, kind models.MethodKind, hints []string) *models.Method {
	m := &models.Method{
		Name:                 raw.Name,
		Type:                 kind,
		Owner:                owner,
		AccessModifier:       raw.AccessModifier,
		Modifier:             raw.Modifier,
		Modifiers:            raw.Modifiers,
		GenericParameters:    r.convertGenericParameters(ps, raw.GenericParameters, hints),
		CyclomaticComplexity: raw.CyclomaticComplexity,
		LinesOfCode:          convertLOC(raw.LinesOfCode),
		Attributes:           r.convertAttributes(ps, raw.Attributes, hints),
		Parameters:           r.convertParameters(ps, raw.Parameters, hints),
	}
	if kind != models.MethodKindConstructor && kind != models.MethodKindDestructor {
		m.ReturnValue = r.convertReturnValue(ps, raw.ReturnValue, hints)
	}
	if kind == models.MethodKindMethod && len(m.Parameters) > 0 && m.Parameters[0].Modifier == models.ParamThis {
		m.Type = models.MethodKindExtension
	}
	for _, v := range raw.LocalVariables {
		if v == nil {
			continue
		}
		m.LocalVariables = append(m.LocalVariables, &models.LocalVariable{
			Name:     v.Name,
			Type:     r.resolveType(ps, v.Type, v.IsNullable, hints),
			Modifier: v.Modifier,
		})
	}
	for _, lf := range raw.LocalFunctions {
		if lf == nil {
			continue
		}
		child := r.convertMethod(ps, owner, lf, models.MethodKindLocalFunction, hints)
		child.ContainingMethod = m
		m.LocalFunctions = append(m.LocalFunctions, child)
	}
	mergeMetrics(&m.Metrics, raw.Metrics)

	ps.methods[m] = raw
	return m
}

func (r *run) convertField(ps *projectState, owner models.Entity, raw *parser.Field, hints []string) *models.Field {
	f := &models.Field{
		Name:           raw.Name,
		Owner:          owner,
		IsEvent:        ps.adapter.IsEvent(raw),
		Type:           r.resolveType(ps, raw.Type, raw.IsNullable, hints),
		AccessModifier: raw.AccessModifier,
		Modifier:       raw.Modifier,
		Attributes:     r.convertAttributes(ps, raw.Attributes, hints),
	}
	mergeMetrics(&f.Metrics, raw.Metrics)
	return f
}

func (r *run) convertProperty(ps *projectState, owner models.Entity, raw *parser.Property, hints []string) *models.Property {
	p := &models.Property{
		Field:                *r.convertField(ps, owner, &raw.Field, hints),
		CyclomaticComplexity: raw.CyclomaticComplexity,
	}
	for _, a := range raw.Accessors {
		if a == nil {
			continue
		}
		m := r.convertMethod(ps, owner, a, models.MethodKindAccessor, hints)
		m.ContainingProperty = p
		p.Accessors = append(p.Accessors, m)
	}
	ps.properties[p] = raw
	return p
}
