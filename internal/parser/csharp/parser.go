package csharp

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/csharp"

	"github.com/dxworks/honeydew/internal/parser"
)

// Parser implements a tree-sitter based C# extractor. A tree-sitter parser
// is not safe for concurrent use, so one is created per Parse call.
type Parser struct {
	lang *sitter.Language
}

func New() *Parser {
	return &Parser{lang: csharp.GetLanguage()}
}

func (p *Parser) Languages() []string {
	return []string{parser.LanguageCSharp}
}

func (p *Parser) Parse(input parser.FileInput) (*parser.CompilationUnit, error) {
	ts := sitter.NewParser()
	ts.SetLanguage(p.lang)
	tree, err := ts.ParseCtx(context.Background(), nil, input.Content)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", input.Path, err)
	}
	defer tree.Close()

	e := &extractor{
		src: input.Content,
		unit: &parser.CompilationUnit{
			FilePath:    input.Path,
			LinesOfCode: parser.CountLines(input.Content),
		},
	}
	e.container(tree.RootNode(), "", nil)
	return e.unit, nil
}

type extractor struct {
	src  []byte
	unit *parser.CompilationUnit
}

// typeScope is the type whose body is being walked.
type typeScope struct {
	fqn     string
	outer   *typeScope
	base    string
	members map[string]string // field or property name -> declared type
	returns map[string]string // method name -> return type of its first overload
}

var typeDeclarations = map[string]string{
	"class_declaration":         "class",
	"struct_declaration":        "struct",
	"interface_declaration":     "interface",
	"enum_declaration":          "enum",
	"record_declaration":        "record",
	"record_struct_declaration": "record struct",
	"delegate_declaration":      "delegate",
}

// container walks the children of a compilation unit, namespace body or
// type body looking for usings, namespaces and type declarations.
func (e *extractor) container(node *sitter.Node, ns string, outer *typeScope) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		switch child.Type() {
		case "using_directive":
			if imp := e.using(child); imp != nil {
				e.unit.Imports = append(e.unit.Imports, imp)
			}
		case "namespace_declaration":
			inner := joinName(ns, e.text(child.ChildByFieldName("name")))
			if body := child.ChildByFieldName("body"); body != nil {
				e.container(body, inner, nil)
			}
		case "file_scoped_namespace_declaration":
			ns = joinName(ns, e.text(child.ChildByFieldName("name")))
			// newer grammars nest the following declarations inside the node
			e.container(child, ns, nil)
		default:
			if _, ok := typeDeclarations[child.Type()]; ok {
				e.declaration(child, ns, outer)
			}
		}
	}
}

func (e *extractor) using(node *sitter.Node) *parser.Import {
	imp := &parser.Import{AliasType: "namespace"}
	sawEquals := false
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Type() {
		case "static":
			imp.IsStatic = true
			imp.AliasType = "class"
		case "name_equals":
			imp.Alias = e.text(firstNamed(child, "identifier"))
			imp.AliasType = "notdetermined"
		case "=":
			sawEquals = true
		case "identifier", "qualified_name", "generic_name", "alias_qualified_name":
			if imp.Name != "" && !sawEquals {
				continue
			}
			if child.Type() == "identifier" && imp.Alias == "" && !sawEquals && nextIs(node, i, "=") {
				imp.Alias = e.text(child)
				imp.AliasType = "notdetermined"
				continue
			}
			imp.Name = e.text(child)
		}
	}
	if imp.Name == "" {
		return nil
	}
	return imp
}

func (e *extractor) declaration(node *sitter.Node, ns string, outer *typeScope) {
	name := e.text(node.ChildByFieldName("name"))
	if name == "" {
		return
	}
	parent := ns
	if outer != nil {
		parent = outer.fqn
	}

	access, modifier, modifiers := e.modifiers(node)
	if access == "" {
		access = "internal"
		if outer != nil {
			access = "private"
		}
	}

	decl := &parser.Declaration{
		Type:                typeDeclarations[node.Type()],
		Name:                joinName(parent, name),
		FilePath:            e.unit.FilePath,
		ContainingNamespace: ns,
		AccessModifier:      access,
		Modifier:            modifier,
		Modifiers:           modifiers,
		LinesOfCode:         parser.CountLines([]byte(e.text(node))),
		Attributes:          e.attributes(node),
		GenericParameters:   e.genericParameters(node),
	}
	if node.Type() == "record_declaration" && hasToken(node, "struct") {
		decl.Type = "record struct"
	}
	if outer != nil {
		decl.ContainingClassName = outer.fqn
	}
	e.unit.Declarations = append(e.unit.Declarations, decl)

	scope := &typeScope{fqn: decl.Name, outer: outer, members: make(map[string]string), returns: make(map[string]string)}
	e.baseTypes(node, decl, scope)

	switch decl.Type {
	case "enum":
		if body := node.ChildByFieldName("body"); body != nil {
			for i := 0; i < int(body.NamedChildCount()); i++ {
				m := body.NamedChild(i)
				if m.Type() != "enum_member_declaration" {
					continue
				}
				decl.Labels = append(decl.Labels, &parser.EnumLabel{
					Name:       e.text(m.ChildByFieldName("name")),
					Attributes: e.attributes(m),
				})
			}
		}
		return
	case "delegate":
		decl.Parameters = e.parameters(node.ChildByFieldName("parameters"))
		decl.ReturnValue = e.returnValue(node)
		return
	}

	body := node.ChildByFieldName("body")
	if body == nil {
		return
	}
	e.collectMembers(body, scope)
	e.members(body, decl, scope, ns)
}

func (e *extractor) baseTypes(node *sitter.Node, decl *parser.Declaration, scope *typeScope) {
	bases := node.ChildByFieldName("bases")
	if bases == nil {
		bases = firstNamed(node, "base_list")
	}
	if bases == nil {
		return
	}
	for i := 0; i < int(bases.NamedChildCount()); i++ {
		child := bases.NamedChild(i)
		switch child.Type() {
		case "argument_list", "comment":
			continue
		case "primary_constructor_base_type", "simple_base_type":
			if t := child.ChildByFieldName("type"); t != nil {
				child = t
			} else if child.NamedChildCount() > 0 {
				child = child.NamedChild(0)
			}
		}
		typeName := e.text(child)
		if typeName == "" {
			continue
		}
		if decl.Type == "enum" {
			decl.UnderlyingType = typeName
			return
		}
		kind := "interface"
		if decl.Type != "interface" && len(decl.BaseTypes) == 0 && !isInterfaceName(typeName) {
			kind = "class"
			scope.base = typeName
		}
		decl.BaseTypes = append(decl.BaseTypes, &parser.BaseType{Type: typeName, Kind: kind})
	}
}

// collectMembers records field and property types before any body is
// walked, so accesses to members declared further down still resolve.
func (e *extractor) collectMembers(body *sitter.Node, scope *typeScope) {
	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "field_declaration", "event_field_declaration":
			vd := firstNamed(child, "variable_declaration")
			if vd == nil {
				continue
			}
			typ := e.text(vd.ChildByFieldName("type"))
			for _, name := range e.declarators(vd) {
				scope.members[name] = typ
			}
		case "property_declaration", "event_declaration":
			scope.members[e.text(child.ChildByFieldName("name"))] = e.text(child.ChildByFieldName("type"))
		case "method_declaration":
			name := e.text(child.ChildByFieldName("name"))
			if _, seen := scope.returns[name]; !seen {
				scope.returns[name] = e.text(fieldOr(child, "returns", "type"))
			}
		}
	}
}

func (e *extractor) members(body *sitter.Node, decl *parser.Declaration, scope *typeScope, ns string) {
	isInterface := decl.Type == "interface"
	defaultAccess := "private"
	if isInterface {
		defaultAccess = "public"
	}

	for i := 0; i < int(body.NamedChildCount()); i++ {
		child := body.NamedChild(i)
		switch child.Type() {
		case "method_declaration":
			m := e.method(child, scope, nil, e.text(child.ChildByFieldName("name")), defaultAccess)
			decl.Methods = append(decl.Methods, m)
		case "constructor_declaration":
			m := e.method(child, scope, nil, e.text(child.ChildByFieldName("name")), defaultAccess)
			m.ReturnValue = nil
			decl.Constructors = append(decl.Constructors, m)
		case "destructor_declaration":
			m := e.method(child, scope, nil, "~"+e.text(child.ChildByFieldName("name")), defaultAccess)
			m.ReturnValue = nil
			decl.Destructor = m
		case "field_declaration", "event_field_declaration":
			decl.Fields = append(decl.Fields, e.fields(child, defaultAccess)...)
		case "property_declaration", "event_declaration":
			decl.Properties = append(decl.Properties, e.property(child, scope, defaultAccess))
		default:
			if _, ok := typeDeclarations[child.Type()]; ok {
				e.declaration(child, ns, scope)
			}
		}
	}
}

func (e *extractor) fields(node *sitter.Node, defaultAccess string) []*parser.Field {
	vd := firstNamed(node, "variable_declaration")
	if vd == nil {
		return nil
	}
	access, modifier, _ := e.modifiers(node)
	if access == "" {
		access = defaultAccess
	}
	typ, nullable := splitNullable(e.text(vd.ChildByFieldName("type")))
	attrs := e.attributes(node)

	var out []*parser.Field
	for _, name := range e.declarators(vd) {
		out = append(out, &parser.Field{
			Name:           name,
			Type:           typ,
			IsNullable:     nullable,
			AccessModifier: access,
			Modifier:       modifier,
			IsEvent:        node.Type() == "event_field_declaration",
			Attributes:     attrs,
		})
	}
	return out
}

func (e *extractor) property(node *sitter.Node, scope *typeScope, defaultAccess string) *parser.Property {
	access, modifier, _ := e.modifiers(node)
	if access == "" {
		access = defaultAccess
	}
	name := e.text(node.ChildByFieldName("name"))
	typ, nullable := splitNullable(e.text(node.ChildByFieldName("type")))

	p := &parser.Property{
		Field: parser.Field{
			Name:           name,
			Type:           typ,
			IsNullable:     nullable,
			AccessModifier: access,
			Modifier:       modifier,
			IsEvent:        node.Type() == "event_declaration",
			Attributes:     e.attributes(node),
		},
	}

	fr := &frame{signature: name}
	if list := node.ChildByFieldName("accessors"); list != nil || firstNamed(node, "accessor_list") != nil {
		if list == nil {
			list = firstNamed(node, "accessor_list")
		}
		for i := 0; i < int(list.NamedChildCount()); i++ {
			acc := list.NamedChild(i)
			if acc.Type() != "accessor_declaration" {
				continue
			}
			accName := e.accessorName(acc)
			m := e.method(acc, scope, []*frame{fr}, accName, access)
			m.ReturnValue = nil
			p.Accessors = append(p.Accessors, m)
		}
	} else if arrow := firstNamed(node, "arrow_expression_clause"); arrow != nil {
		m := e.method(node, scope, []*frame{fr}, "get", access)
		m.Parameters = nil
		m.ReturnValue = nil
		m.Attributes = nil
		p.Accessors = append(p.Accessors, m)
	}

	for _, a := range p.Accessors {
		p.CyclomaticComplexity += a.CyclomaticComplexity
	}
	if p.CyclomaticComplexity == 0 {
		p.CyclomaticComplexity = 1
	}
	return p
}

func (e *extractor) accessorName(node *sitter.Node) string {
	if n := node.ChildByFieldName("name"); n != nil {
		return e.text(n)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		switch t := node.Child(i).Type(); t {
		case "get", "set", "init", "add", "remove":
			return t
		}
	}
	return ""
}

// frame is one level of the method nesting a body walk is inside.
type frame struct {
	signature string
	locals    map[string]bool // local functions declared directly here
}

func (e *extractor) method(node *sitter.Node, scope *typeScope, outer []*frame, name, defaultAccess string) *parser.Method {
	access, modifier, modifiers := e.modifiers(node)
	if access == "" {
		access = defaultAccess
	}

	m := &parser.Method{
		Name:              name,
		AccessModifier:    access,
		Modifier:          modifier,
		Modifiers:         modifiers,
		GenericParameters: e.genericParameters(node),
		Attributes:        e.attributes(node),
		Parameters:        e.parameters(node.ChildByFieldName("parameters")),
		ReturnValue:       e.returnValue(node),
		LinesOfCode:       parser.CountLines([]byte(e.text(node))),
	}

	self := &frame{signature: signatureOf(name, m.Parameters), locals: make(map[string]bool)}
	if node.Type() == "accessor_declaration" || node.Type() == "property_declaration" {
		self.signature = name
	}
	frames := append(append([]*frame(nil), outer...), self)

	body := node.ChildByFieldName("body")
	if body == nil {
		body = firstNamed(node, "block")
	}
	if body == nil {
		body = firstNamed(node, "arrow_expression_clause")
	}

	w := &bodyWalker{
		e:      e,
		scope:  scope,
		method: m,
		frames: frames,
		vars:   make(map[string]string),
	}
	for i, pn := range e.parameterNames(node.ChildByFieldName("parameters")) {
		if pn != "" && i < len(m.Parameters) {
			w.vars[pn] = m.Parameters[i].Type
		}
	}
	m.CyclomaticComplexity = 1
	if body != nil {
		w.collectLocalFunctions(body, self)
		w.walk(body)
	}
	if ctorInit := firstNamed(node, "constructor_initializer"); ctorInit != nil {
		w.walk(ctorInit)
	}
	return m
}

func (e *extractor) returnValue(node *sitter.Node) *parser.ReturnValue {
	t := fieldOr(node, "returns", "type")
	if t == nil {
		return nil
	}
	typ, nullable := splitNullable(e.text(t))
	return &parser.ReturnValue{Type: typ, IsNullable: nullable}
}

func (e *extractor) parameters(list *sitter.Node) []*parser.Parameter {
	if list == nil {
		return nil
	}
	var out []*parser.Parameter
	for i := 0; i < int(list.NamedChildCount()); i++ {
		pn := list.NamedChild(i)
		if pn.Type() != "parameter" && pn.Type() != "parameter_array" {
			continue
		}
		p := &parser.Parameter{Attributes: e.attributes(pn)}
		if pn.Type() == "parameter_array" {
			p.Modifier = "params"
		}
		afterEquals := false
		for j := 0; j < int(pn.ChildCount()); j++ {
			c := pn.Child(j)
			switch c.Type() {
			case "modifier", "parameter_modifier", "ref", "out", "in", "this", "params":
				if mod := strings.TrimSpace(e.text(c)); mod != "scoped" && mod != "" {
					p.Modifier = mod
				}
			case "equals_value_clause":
				p.DefaultValue = strings.TrimSpace(strings.TrimPrefix(e.text(c), "="))
			case "=":
				afterEquals = true
			default:
				// The default value is the expression following "=".
				if afterEquals && c.IsNamed() && p.DefaultValue == "" {
					p.DefaultValue = strings.TrimSpace(e.text(c))
				}
			}
		}
		typ, nullable := splitNullable(e.text(pn.ChildByFieldName("type")))
		p.Type, p.IsNullable = typ, nullable
		out = append(out, p)
	}
	return out
}

// parameterNames lists the declared names in list, aligned with parameters.
func (e *extractor) parameterNames(list *sitter.Node) []string {
	if list == nil {
		return nil
	}
	var out []string
	for i := 0; i < int(list.NamedChildCount()); i++ {
		pn := list.NamedChild(i)
		if pn.Type() == "parameter" || pn.Type() == "parameter_array" {
			out = append(out, e.text(pn.ChildByFieldName("name")))
		}
	}
	return out
}

func (e *extractor) genericParameters(node *sitter.Node) []*parser.GenericParameter {
	list := node.ChildByFieldName("type_parameters")
	if list == nil {
		list = firstNamed(node, "type_parameter_list")
	}
	if list == nil {
		return nil
	}

	var out []*parser.GenericParameter
	byName := make(map[string]*parser.GenericParameter)
	for i := 0; i < int(list.NamedChildCount()); i++ {
		tp := list.NamedChild(i)
		if tp.Type() != "type_parameter" {
			continue
		}
		g := &parser.GenericParameter{Attributes: e.attributes(tp)}
		if n := tp.ChildByFieldName("name"); n != nil {
			g.Name = e.text(n)
		} else {
			g.Name = e.text(firstNamed(tp, "identifier"))
		}
		for j := 0; j < int(tp.ChildCount()); j++ {
			if t := tp.Child(j).Type(); t == "in" || t == "out" {
				g.Modifier = t
			}
		}
		byName[g.Name] = g
		out = append(out, g)
	}

	for i := 0; i < int(node.NamedChildCount()); i++ {
		clause := node.NamedChild(i)
		if clause.Type() != "type_parameter_constraints_clause" {
			continue
		}
		var target *parser.GenericParameter
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			c := clause.NamedChild(j)
			switch c.Type() {
			case "identifier":
				if target == nil {
					target = byName[e.text(c)]
				}
			case "type_parameter_constraint":
				if target != nil {
					target.Constraints = append(target.Constraints, e.text(c))
				}
			}
		}
	}
	return out
}

func (e *extractor) attributes(node *sitter.Node) []*parser.Attribute {
	var out []*parser.Attribute
	for i := 0; i < int(node.NamedChildCount()); i++ {
		list := node.NamedChild(i)
		if list.Type() != "attribute_list" {
			continue
		}
		target := ""
		if spec := firstNamed(list, "attribute_target_specifier"); spec != nil {
			target = strings.TrimSuffix(strings.TrimSpace(e.text(spec)), ":")
		}
		for j := 0; j < int(list.NamedChildCount()); j++ {
			a := list.NamedChild(j)
			if a.Type() != "attribute" {
				continue
			}
			attr := &parser.Attribute{Type: e.text(a.ChildByFieldName("name")), Target: target}
			if args := firstNamed(a, "attribute_argument_list"); args != nil {
				for k := 0; k < int(args.NamedChildCount()); k++ {
					arg := args.NamedChild(k)
					if arg.Type() != "attribute_argument" {
						continue
					}
					attr.Parameters = append(attr.Parameters, &parser.Parameter{
						Type:         literalType(arg.NamedChild(int(arg.NamedChildCount()) - 1)),
						DefaultValue: e.text(arg),
					})
				}
			}
			out = append(out, attr)
		}
	}
	return out
}

// modifiers splits modifier keywords into the access modifier and the rest.
func (e *extractor) modifiers(node *sitter.Node) (access, modifier string, all []string) {
	var accessWords, other []string
	for i := 0; i < int(node.ChildCount()); i++ {
		c := node.Child(i)
		if c.Type() != "modifier" {
			continue
		}
		word := e.text(c)
		all = append(all, word)
		switch word {
		case "public", "private", "protected", "internal", "file":
			accessWords = append(accessWords, word)
		default:
			other = append(other, word)
		}
	}
	return strings.Join(accessWords, " "), strings.Join(other, " "), all
}

func (e *extractor) declarators(vd *sitter.Node) []string {
	var names []string
	for i := 0; i < int(vd.NamedChildCount()); i++ {
		d := vd.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		if n := d.ChildByFieldName("name"); n != nil {
			names = append(names, e.text(n))
		} else if id := firstNamed(d, "identifier"); id != nil {
			names = append(names, e.text(id))
		}
	}
	return names
}

func (e *extractor) text(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	return node.Content(e.src)
}

func signatureOf(name string, params []*parser.Parameter) string {
	types := make([]string, 0, len(params))
	for _, p := range params {
		t := p.Type
		if p.IsNullable {
			t += "?"
		}
		if p.Modifier != "" {
			t = p.Modifier + " " + t
		}
		types = append(types, t)
	}
	return name + "(" + strings.Join(types, ", ") + ")"
}

func joinName(prefix, name string) string {
	if prefix == "" {
		return name
	}
	if name == "" {
		return prefix
	}
	return prefix + "." + name
}

// splitNullable removes a trailing '?' from a written type.
func splitNullable(t string) (string, bool) {
	t = strings.TrimSpace(t)
	if strings.HasSuffix(t, "?") {
		return strings.TrimSpace(strings.TrimSuffix(t, "?")), true
	}
	return t, false
}

func isInterfaceName(name string) bool {
	// C# convention: interfaces start with 'I' followed by an uppercase letter
	name = name[strings.LastIndex(name, ".")+1:]
	if len(name) < 2 {
		return false
	}
	return name[0] == 'I' && name[1] >= 'A' && name[1] <= 'Z'
}

func fieldOr(node *sitter.Node, names ...string) *sitter.Node {
	for _, n := range names {
		if c := node.ChildByFieldName(n); c != nil {
			return c
		}
	}
	return nil
}

func firstNamed(node *sitter.Node, nodeType string) *sitter.Node {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() == nodeType {
			return child
		}
	}
	return nil
}

func hasToken(node *sitter.Node, token string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == token {
			return true
		}
	}
	return false
}

func nextIs(node *sitter.Node, i int, token string) bool {
	return i+1 < int(node.ChildCount()) && node.Child(i+1).Type() == token
}

func walkTree(node *sitter.Node, fn func(*sitter.Node) bool) {
	if !fn(node) {
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTree(node.Child(i), fn)
	}
}
