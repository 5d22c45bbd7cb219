package resolver

import (
	"log/slog"
	"strings"

	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/pkg/models"
)

// argType is one call-site argument as compared by the overload matcher.
type argType struct {
	Name       string
	IsNullable bool
}

// linkCalls resolves the outgoing calls and field accesses of every method
// body in one project and records both directions of each edge.
func (r *run) linkCalls(ps *projectState) {
	for _, d := range ps.decls {
		switch e := d.entity.(type) {
		case *models.Class:
			for _, m := range e.Methods {
				r.linkMethod(ps, m, d.hints)
			}
			for _, m := range e.Constructors {
				r.linkMethod(ps, m, d.hints)
			}
			if e.Destructor != nil {
				r.linkMethod(ps, e.Destructor, d.hints)
			}
			for _, p := range e.Properties {
				r.linkAccessors(ps, e, p, d.hints)
			}
		case *models.Interface:
			for _, m := range e.Methods {
				r.linkMethod(ps, m, d.hints)
			}
			for _, p := range e.Properties {
				r.linkAccessors(ps, e, p, d.hints)
			}
		}
	}
}

func (r *run) linkAccessors(ps *projectState, owner models.Entity, p *models.Property, hints []string) {
	raw := ps.properties[p]
	if raw == nil || len(raw.Accessors) != len(p.Accessors) {
		r.logger.Warn("property accessors do not match their declaration",
			slog.String("project", ps.project.Name),
			slog.String("entity", owner.Base().Name),
			slog.String("property", p.Name),
		)
		return
	}
	for _, m := range p.Accessors {
		r.linkMethod(ps, m, hints)
	}
}

func (r *run) linkMethod(ps *projectState, m *models.Method, hints []string) {
	raw := ps.methods[m]
	if raw == nil {
		r.logger.Warn("method has no raw declaration",
			slog.String("project", ps.project.Name),
			slog.String("method", m.Name),
		)
		return
	}

	for _, a := range raw.AccessedFields {
		if a != nil {
			r.linkAccess(ps, m, a, hints)
		}
	}
	for _, c := range raw.CalledMethods {
		if c != nil {
			r.linkCall(ps, m, c, hints)
		}
	}
	for _, lf := range m.LocalFunctions {
		r.linkMethod(ps, lf, hints)
	}
}

func (r *run) linkAccess(ps *projectState, caller *models.Method, raw *parser.AccessedField, hints []string) {
	var field *models.Field
	for _, className := range searchOrder(raw.LocationClassName, raw.DefinitionClassName) {
		for _, cand := range r.candidates(ps, className, hints) {
			if field = findField(cand, raw.Name); field != nil {
				break
			}
		}
		if field != nil {
			break
		}
	}

	r.linkMu.Lock()
	defer r.linkMu.Unlock()

	if field == nil {
		field = r.standInField(ps, standInOwner(raw.LocationClassName, raw.DefinitionClassName), raw.Name)
	}
	kind := models.AccessGetter
	if strings.EqualFold(raw.Kind, string(models.AccessSetter)) {
		kind = models.AccessSetter
	}
	access := &models.FieldAccess{
		Field:    field,
		Caller:   caller,
		Receiver: r.receiver(raw.DefinitionClassName, raw.LocationClassName, field.Owner),
		Kind:     kind,
	}
	caller.FieldAccesses = append(caller.FieldAccesses, access)
	field.Accesses = append(field.Accesses, access)
}

func (r *run) linkCall(ps *projectState, caller *models.Method, raw *parser.MethodCall, hints []string) {
	args := make([]argType, 0, len(raw.ParameterTypes))
	for _, pt := range raw.ParameterTypes {
		if pt == nil {
			args = append(args, argType{})
			continue
		}
		sig := ps.adapter.ParseTypeSignature(pt.Type)
		args = append(args, argType{Name: sig.Text, IsNullable: sig.IsNullable || pt.IsNullable})
	}
	genericCount := len(raw.GenericParameters)

	var called *models.Method
	var declared []models.Entity
	for _, className := range searchOrder(raw.LocationClassName, raw.DefinitionClassName) {
		cands := r.candidates(ps, className, hints)
		declared = append(declared, cands...)
		for _, cand := range cands {
			if len(raw.MethodDefinitionNames) > 0 {
				called = r.walkScopeChain(ps, cand, raw.MethodDefinitionNames, raw.Name)
			} else {
				called = matchOverload(cand, raw.Name, genericCount, args)
			}
			if called != nil {
				break
			}
		}
		if called != nil {
			break
		}
	}

	call := &models.MethodCall{Caller: caller}
	for _, g := range raw.GenericParameters {
		call.GenericArguments = append(call.GenericArguments, r.resolveType(ps, g, false, hints))
	}
	for _, pt := range raw.ParameterTypes {
		if pt == nil {
			call.ParameterTypes = append(call.ParameterTypes, &models.EntityType{})
			continue
		}
		call.ParameterTypes = append(call.ParameterTypes, r.resolveType(ps, pt.Type, pt.IsNullable, hints))
	}

	r.linkMu.Lock()
	defer r.linkMu.Unlock()

	if called == nil && len(raw.MethodDefinitionNames) == 0 && len(args) == 0 {
		if cls := implicitConstructorOwner(declared, raw.Name); cls != nil {
			called = r.implicitConstructor(cls)
		}
	}
	if called == nil {
		owner := standInOwner(raw.LocationClassName, raw.DefinitionClassName)
		called = r.standInMethod(ps, owner, raw.Name, genericCount, args, call.ParameterTypes)
	}
	call.Called = called
	call.Receiver = r.receiver(raw.DefinitionClassName, raw.LocationClassName, called.Owner)

	caller.OutgoingCalls = append(caller.OutgoingCalls, call)
	called.IncomingCalls = append(called.IncomingCalls, call)
}

// searchOrder is the location class first, then the definition class.
func searchOrder(location, definition string) []string {
	var out []string
	if location = strings.TrimSpace(location); location != "" {
		out = append(out, location)
	}
	if definition = strings.TrimSpace(definition); definition != "" && definition != location {
		out = append(out, definition)
	}
	return out
}

func standInOwner(location, definition string) string {
	if strings.TrimSpace(location) != "" {
		return location
	}
	return definition
}

func (r *run) receiver(definition, location string, owner models.Entity) *models.EntityType {
	name := definition
	if name == "" {
		name = location
	}
	return &models.EntityType{Name: name, Entity: owner}
}

// findField looks for a field by name, then a property by name. A property
// match yields its embedded Field.
func findField(e models.Entity, name string) *models.Field {
	switch v := e.(type) {
	case *models.Class:
		for _, f := range v.Fields {
			if f.Name == name {
				return f
			}
		}
		for _, p := range v.Properties {
			if p.Name == name {
				return &p.Field
			}
		}
	case *models.Interface:
		for _, p := range v.Properties {
			if p.Name == name {
				return &p.Field
			}
		}
	}
	return nil
}

func findProperty(e models.Entity, name string) *models.Property {
	var props []*models.Property
	switch v := e.(type) {
	case *models.Class:
		props = v.Properties
	case *models.Interface:
		props = v.Properties
	}
	for _, p := range props {
		if p.Name == name {
			return p
		}
	}
	return nil
}

// callables returns methods, then constructors, then the destructor.
func callables(e models.Entity) []*models.Method {
	switch v := e.(type) {
	case *models.Class:
		out := make([]*models.Method, 0, len(v.Methods)+len(v.Constructors)+1)
		out = append(out, v.Methods...)
		out = append(out, v.Constructors...)
		if v.Destructor != nil {
			out = append(out, v.Destructor)
		}
		return out
	case *models.Interface:
		return v.Methods
	}
	return nil
}

// matchOverload returns the first callable of e with the given name and
// parameter count whose parameter types match args. A position whose
// nullability differs is not compared at all. The generic count is accepted
// but not checked.
func matchOverload(e models.Entity, name string, genericCount int, args []argType) *models.Method {
	_ = genericCount
	for _, m := range callables(e) {
		if m.Name != name || len(m.Parameters) != len(args) {
			continue
		}
		if parametersMatch(m.Parameters, args) {
			return m
		}
	}
	return nil
}

func parametersMatch(params []*models.Parameter, args []argType) bool {
	for i, p := range params {
		declared := p.Type
		if declared == nil {
			declared = &models.EntityType{}
		}
		if declared.IsNullable != args[i].IsNullable {
			continue
		}
		if declared.Name != args[i].Name {
			return false
		}
	}
	return true
}

// walkScopeChain resolves a call into a local function. The first chain
// segment is either a method signature "Name<T>(int, string)" or a property
// name followed by an accessor name. Each further segment descends into the
// first local function whose name is a prefix of it. The callee is then the
// local function of the last anchor named callName.
func (r *run) walkScopeChain(ps *projectState, e models.Entity, chain []string, callName string) *models.Method {
	var anchor *models.Method
	rest := chain[1:]

	first := strings.TrimSpace(chain[0])
	if open := strings.IndexByte(first, '('); open >= 0 {
		name, genericCount := splitGenericHead(first[:open])
		anchor = matchOverload(e, name, genericCount, r.chainArguments(ps, first[open:]))
	} else {
		if len(chain) < 2 {
			return nil
		}
		prop := findProperty(e, first)
		if prop == nil {
			return nil
		}
		accessor := strings.TrimSpace(chain[1])
		for _, a := range prop.Accessors {
			if a.Name == accessor {
				anchor = a
				break
			}
		}
		rest = chain[2:]
	}
	if anchor == nil {
		return nil
	}

	for _, seg := range rest {
		segName := parser.StripGenericSuffix(strings.TrimSpace(seg))
		var next *models.Method
		for _, lf := range anchor.LocalFunctions {
			if strings.HasPrefix(segName, parser.StripGenericSuffix(lf.Name)) {
				next = lf
				break
			}
		}
		if next == nil {
			return nil
		}
		anchor = next
	}

	for _, lf := range anchor.LocalFunctions {
		if lf.Name == callName {
			return lf
		}
	}
	return nil
}

// splitGenericHead splits "Name<T, U>" into "Name" and 2.
func splitGenericHead(head string) (string, int) {
	head = strings.TrimSpace(head)
	lt := strings.IndexByte(head, '<')
	if lt < 0 {
		return head, 0
	}
	inner := strings.TrimSuffix(strings.TrimSpace(head[lt+1:]), ">")
	return parser.StripGenericSuffix(head), len(parser.SplitTopLevel(inner, ','))
}

// chainArguments parses "(int, ref string?)" into comparable arguments.
func (r *run) chainArguments(ps *projectState, group string) []argType {
	group = strings.TrimSpace(group)
	group = strings.TrimPrefix(group, "(")
	if i := strings.LastIndexByte(group, ')'); i >= 0 {
		group = group[:i]
	}
	if strings.TrimSpace(group) == "" {
		return nil
	}
	var out []argType
	for _, part := range parser.SplitTopLevel(group, ',') {
		sig := ps.adapter.ParseParameterText(part)
		out = append(out, argType{Name: sig.Type.Text, IsNullable: sig.Type.IsNullable})
	}
	return out
}

// standInField returns the field name on the stand-in class for owner,
// creating both as needed. Callers hold linkMu.
func (r *run) standInField(ps *projectState, owner, name string) *models.Field {
	cls := r.standInClass(ps, owner)
	for _, f := range cls.Fields {
		if f.Name == name {
			return f
		}
	}
	f := &models.Field{Name: name, Owner: cls, Type: &models.EntityType{}}
	cls.Fields = append(cls.Fields, f)
	return f
}

// standInMethod returns a matching method on the stand-in class for owner,
// creating both as needed. Callers hold linkMu.
func (r *run) standInMethod(ps *projectState, owner, name string, genericCount int, args []argType, types []*models.EntityType) *models.Method {
	cls := r.standInClass(ps, owner)
	if m := matchOverload(cls, name, genericCount, args); m != nil {
		return m
	}
	m := &models.Method{
		Name:              name,
		Type:              models.MethodKindMethod,
		Owner:             cls,
		GenericParameters: placeholderGenerics(genericCount),
	}
	for i, t := range types {
		m.Parameters = append(m.Parameters, &models.Parameter{TypeName: args[i].Name, Type: t})
	}
	cls.Methods = append(cls.Methods, m)
	return m
}

// implicitConstructorOwner returns the first declared class named like
// the call when none of its fragments declares a constructor, so that
// "new T()" binds to T's parameterless default constructor.
func implicitConstructorOwner(declared []models.Entity, name string) *models.Class {
	var owner *models.Class
	for _, e := range declared {
		c, ok := e.(*models.Class)
		if !ok || shortName(c.Name) != name {
			continue
		}
		if len(c.Constructors) > 0 {
			return nil
		}
		if owner == nil {
			owner = c
		}
	}
	return owner
}

// implicitConstructor returns the default constructor of cls, creating it
// on first use. Callers hold linkMu. The constructor is attached to the
// class once the call pass has finished.
func (r *run) implicitConstructor(cls *models.Class) *models.Method {
	if m, ok := r.implicit[cls]; ok {
		return m
	}
	m := &models.Method{
		Name:           shortName(cls.Name),
		Type:           models.MethodKindConstructor,
		Owner:          cls,
		AccessModifier: "public",
	}
	if r.implicit == nil {
		r.implicit = make(map[*models.Class]*models.Method)
	}
	r.implicit[cls] = m
	r.implicitOrder = append(r.implicitOrder, cls)
	return m
}

// attachImplicitConstructors runs after the call pass, when no goroutine
// reads constructor lists any more.
func (r *run) attachImplicitConstructors() {
	for _, cls := range r.implicitOrder {
		cls.Constructors = append(cls.Constructors, r.implicit[cls])
	}
}

func shortName(name string) string {
	name = parser.StripGenericSuffix(name)
	return name[strings.LastIndex(name, ".")+1:]
}

func (r *run) standInClass(ps *projectState, owner string) *models.Class {
	sig := ps.adapter.ParseTypeSignature(owner)
	name := sig.Name
	if name == "" {
		name = owner
	}
	// The global table only ever holds synthesized classes.
	return r.entities.Synthesize(name, sig.Arity(), ps.adapter.IsPrimitive(name)).(*models.Class)
}
