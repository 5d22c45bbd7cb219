package csharp

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/dxworks/honeydew/internal/parser"
)

// bodyWalker collects the facts of one method body. Receiver types are
// inferred only from what the body and its type declare; a call whose
// receiver type cannot be inferred is dropped.
type bodyWalker struct {
	e      *extractor
	scope  *typeScope
	method *parser.Method
	frames []*frame
	vars   map[string]string // parameter or local name -> written type
}

// decisionNodes add one to cyclomatic complexity each.
var decisionNodes = map[string]bool{
	"if_statement":              true,
	"while_statement":           true,
	"for_statement":             true,
	"for_each_statement":        true,
	"do_statement":              true,
	"catch_clause":              true,
	"conditional_expression":    true,
	"case_switch_label":         true,
	"case_pattern_switch_label": true,
	"switch_expression_arm":     true,
}

var shortCircuit = map[string]bool{"&&": true, "||": true, "??": true}

// collectLocalFunctions records the names of local functions declared
// directly in body, without descending into their own bodies.
func (w *bodyWalker) collectLocalFunctions(body *sitter.Node, f *frame) {
	walkTree(body, func(n *sitter.Node) bool {
		if n.Type() == "local_function_statement" {
			f.locals[w.e.text(n.ChildByFieldName("name"))] = true
			return false
		}
		return !isLambda(n)
	})
}

func (w *bodyWalker) walk(node *sitter.Node) {
	t := node.Type()
	if t == "local_function_statement" {
		w.localFunction(node)
		return
	}
	if decisionNodes[t] || isShortCircuit(node) {
		w.method.CyclomaticComplexity++
	}

	switch t {
	case "local_declaration_statement", "using_statement", "fixed_statement", "for_statement":
		if vd := firstNamed(node, "variable_declaration"); vd != nil {
			w.localVariables(vd, modifiersText(w.e, node))
		}
	case "for_each_statement":
		w.forEach(node)
	case "declaration_expression":
		if name := w.e.text(node.ChildByFieldName("name")); name != "" {
			w.vars[name] = w.e.text(node.ChildByFieldName("type"))
		}
	case "catch_declaration":
		if name := w.e.text(node.ChildByFieldName("name")); name != "" {
			w.vars[name] = w.e.text(node.ChildByFieldName("type"))
		}
	case "invocation_expression":
		w.invocation(node)
	case "object_creation_expression":
		w.creation(node)
	case "member_access_expression":
		w.memberAccess(node)
	case "identifier":
		w.identifier(node)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		w.walk(node.Child(i))
	}
}

func isShortCircuit(node *sitter.Node) bool {
	if node.Type() != "binary_expression" {
		return false
	}
	if op := node.ChildByFieldName("operator"); op != nil {
		return shortCircuit[op.Type()]
	}
	return node.ChildCount() == 3 && shortCircuit[node.Child(1).Type()]
}

func (w *bodyWalker) localFunction(node *sitter.Node) {
	name := w.e.text(node.ChildByFieldName("name"))
	child := w.e.method(node, w.scope, w.frames, name, "private")
	child.AccessModifier = ""
	w.method.LocalFunctions = append(w.method.LocalFunctions, child)
}

func (w *bodyWalker) localVariables(vd *sitter.Node, modifier string) {
	typ := w.e.text(vd.ChildByFieldName("type"))
	for i := 0; i < int(vd.NamedChildCount()); i++ {
		d := vd.NamedChild(i)
		if d.Type() != "variable_declarator" {
			continue
		}
		name := w.e.text(d.ChildByFieldName("name"))
		if name == "" {
			name = w.e.text(firstNamed(d, "identifier"))
		}
		varType := typ
		if varType == "var" {
			// an uninferable var stays untyped rather than naming a class "var"
			varType = w.typeOf(initializerOf(d))
		}
		t, nullable := splitNullable(varType)
		w.method.LocalVariables = append(w.method.LocalVariables, &parser.LocalVariable{
			Name:       name,
			Type:       t,
			Modifier:   modifier,
			IsNullable: nullable,
		})
		w.vars[name] = varType
	}
}

func (w *bodyWalker) forEach(node *sitter.Node) {
	name := w.e.text(node.ChildByFieldName("left"))
	typ := w.e.text(node.ChildByFieldName("type"))
	if name == "" || typ == "" {
		return
	}
	t, nullable := splitNullable(typ)
	w.method.LocalVariables = append(w.method.LocalVariables, &parser.LocalVariable{Name: name, Type: t, IsNullable: nullable})
	w.vars[name] = typ
}

func (w *bodyWalker) invocation(node *sitter.Node) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return
	}
	call := &parser.MethodCall{ParameterTypes: w.arguments(node.ChildByFieldName("arguments"))}

	switch fn.Type() {
	case "identifier", "generic_name":
		call.Name, call.GenericParameters = w.simpleName(fn)
		if chain := w.localChain(call.Name); chain != nil {
			call.MethodDefinitionNames = chain
		}
		call.LocationClassName = w.scope.fqn
		call.DefinitionClassName = w.scope.fqn
	case "member_access_expression":
		call.Name, call.GenericParameters = w.simpleName(fn.ChildByFieldName("name"))
		receiver := w.receiverType(fn.ChildByFieldName("expression"))
		if receiver == "" {
			return
		}
		call.LocationClassName = receiver
		call.DefinitionClassName = receiver
	default:
		return
	}
	if call.Name == "" || call.Name == "nameof" {
		return
	}
	w.method.CalledMethods = append(w.method.CalledMethods, call)
}

func (w *bodyWalker) creation(node *sitter.Node) {
	typ := w.e.text(node.ChildByFieldName("type"))
	if typ == "" {
		return
	}
	base := parser.StripGenericSuffix(typ)
	name := base[strings.LastIndex(base, ".")+1:]
	w.method.CalledMethods = append(w.method.CalledMethods, &parser.MethodCall{
		Name:                name,
		LocationClassName:   typ,
		DefinitionClassName: typ,
		ParameterTypes:      w.arguments(node.ChildByFieldName("arguments")),
	})
}

// memberAccess records x.Name when it is not the callee of an invocation.
func (w *bodyWalker) memberAccess(node *sitter.Node) {
	if parent := node.Parent(); parent != nil && parent.Type() == "invocation_expression" {
		if fn := parent.ChildByFieldName("function"); fn != nil && sameNode(fn, node) {
			return
		}
	}
	if parent := node.Parent(); parent != nil && parent.Type() == "member_access_expression" {
		// a type name such as System.Console used only as a receiver
		if expr := parent.ChildByFieldName("expression"); expr != nil && sameNode(expr, node) && w.receiverType(node) == w.e.text(node) {
			return
		}
	}
	name := w.e.text(node.ChildByFieldName("name"))
	receiver := w.receiverType(node.ChildByFieldName("expression"))
	if name == "" || receiver == "" {
		return
	}
	w.method.AccessedFields = append(w.method.AccessedFields, &parser.AccessedField{
		Name:                name,
		LocationClassName:   receiver,
		DefinitionClassName: receiver,
		Kind:                accessKind(node),
	})
}

// identifier records a bare reference to a field or property of the
// enclosing types that no local or parameter shadows.
func (w *bodyWalker) identifier(node *sitter.Node) {
	parent := node.Parent()
	if parent == nil || !isExpressionPosition(node, parent) {
		return
	}
	name := w.e.text(node)
	if _, local := w.vars[name]; local {
		return
	}
	for s := w.scope; s != nil; s = s.outer {
		if _, ok := s.members[name]; ok {
			w.method.AccessedFields = append(w.method.AccessedFields, &parser.AccessedField{
				Name:                name,
				LocationClassName:   s.fqn,
				DefinitionClassName: s.fqn,
				Kind:                accessKind(node),
			})
			return
		}
	}
}

// localChain returns the scope chain leading to the frame that declares the
// local function name, or nil when name is not a visible local function.
func (w *bodyWalker) localChain(name string) []string {
	for i := len(w.frames) - 1; i >= 0; i-- {
		if w.frames[i].locals[name] {
			chain := make([]string, 0, i+1)
			for _, f := range w.frames[:i+1] {
				chain = append(chain, f.signature)
			}
			return chain
		}
	}
	return nil
}

func (w *bodyWalker) simpleName(node *sitter.Node) (string, []string) {
	if node == nil {
		return "", nil
	}
	if node.Type() != "generic_name" {
		return w.e.text(node), nil
	}
	name := w.e.text(firstNamed(node, "identifier"))
	var generics []string
	if args := firstNamed(node, "type_argument_list"); args != nil {
		for i := 0; i < int(args.NamedChildCount()); i++ {
			generics = append(generics, w.e.text(args.NamedChild(i)))
		}
	}
	return name, generics
}

// receiverType infers the written type of the expression a member is
// accessed on.
func (w *bodyWalker) receiverType(expr *sitter.Node) string {
	if expr == nil {
		return ""
	}
	switch expr.Type() {
	case "this_expression", "this":
		return w.scope.fqn
	case "base_expression", "base":
		if w.scope.base != "" {
			return w.scope.base
		}
		return w.scope.fqn
	case "identifier":
		name := w.e.text(expr)
		if t, ok := w.vars[name]; ok {
			return stripNullable(t)
		}
		for s := w.scope; s != nil; s = s.outer {
			if t, ok := s.members[name]; ok {
				return stripNullable(t)
			}
		}
		if isTypeLike(name) {
			return name
		}
	case "predefined_type", "generic_name", "qualified_name":
		return w.e.text(expr)
	case "member_access_expression":
		// A dotted chain that starts with no known variable is a type name.
		if root := rootIdentifier(expr); root != nil {
			if _, ok := w.vars[w.e.text(root)]; !ok && isTypeLike(w.e.text(root)) && !w.isMember(w.e.text(root)) {
				return w.e.text(expr)
			}
		}
	case "parenthesized_expression":
		if expr.NamedChildCount() > 0 {
			return w.receiverType(expr.NamedChild(0))
		}
	case "cast_expression":
		return stripNullable(w.e.text(expr.ChildByFieldName("type")))
	case "object_creation_expression":
		return w.e.text(expr.ChildByFieldName("type"))
	}
	return ""
}

func (w *bodyWalker) isMember(name string) bool {
	for s := w.scope; s != nil; s = s.outer {
		if _, ok := s.members[name]; ok {
			return true
		}
	}
	return false
}

func (w *bodyWalker) arguments(list *sitter.Node) []*parser.ParameterType {
	if list == nil {
		return nil
	}
	var out []*parser.ParameterType
	for i := 0; i < int(list.NamedChildCount()); i++ {
		arg := list.NamedChild(i)
		if arg.Type() != "argument" {
			continue
		}
		var expr *sitter.Node
		if e := arg.ChildByFieldName("expression"); e != nil {
			expr = e
		} else if arg.NamedChildCount() > 0 {
			expr = arg.NamedChild(int(arg.NamedChildCount()) - 1)
		}
		t, nullable := splitNullable(w.typeOf(expr))
		out = append(out, &parser.ParameterType{Type: t, IsNullable: nullable})
	}
	return out
}

// typeOf infers the written type of an argument or initializer expression.
func (w *bodyWalker) typeOf(expr *sitter.Node) string {
	if expr == nil {
		return ""
	}
	if t := literalType(expr); t != "" {
		return t
	}
	switch expr.Type() {
	case "identifier":
		name := w.e.text(expr)
		if t, ok := w.vars[name]; ok {
			return t
		}
		for s := w.scope; s != nil; s = s.outer {
			if t, ok := s.members[name]; ok {
				return t
			}
		}
	case "this_expression":
		return w.scope.fqn
	case "object_creation_expression", "array_creation_expression", "cast_expression", "default_expression":
		return w.e.text(expr.ChildByFieldName("type"))
	case "parenthesized_expression":
		if expr.NamedChildCount() > 0 {
			return w.typeOf(expr.NamedChild(0))
		}
	case "declaration_expression":
		return w.e.text(expr.ChildByFieldName("type"))
	case "invocation_expression":
		return w.returnType(expr.ChildByFieldName("function"))
	case "await_expression":
		if expr.NamedChildCount() > 0 {
			return awaitedType(w.typeOf(expr.NamedChild(0)))
		}
	}
	return ""
}

// returnType is the declared return type of a method of the enclosing
// types called as Name(...) or this.Name(...).
func (w *bodyWalker) returnType(fn *sitter.Node) string {
	if fn == nil {
		return ""
	}
	switch fn.Type() {
	case "generic_name":
		fn = firstNamed(fn, "identifier")
	case "member_access_expression":
		if recv := fn.ChildByFieldName("expression"); recv == nil || recv.Type() != "this_expression" && recv.Type() != "this" {
			return ""
		}
		fn = fn.ChildByFieldName("name")
	}
	if fn == nil || fn.Type() != "identifier" {
		return ""
	}
	name := w.e.text(fn)
	for s := w.scope; s != nil; s = s.outer {
		if t, ok := s.returns[name]; ok {
			if t == "void" {
				return ""
			}
			return t
		}
	}
	return ""
}

// awaitedType unwraps Task<T> and ValueTask<T>.
func awaitedType(t string) string {
	for _, prefix := range []string{"Task<", "ValueTask<", "System.Threading.Tasks.Task<", "System.Threading.Tasks.ValueTask<"} {
		if strings.HasPrefix(t, prefix) && strings.HasSuffix(t, ">") {
			return t[len(prefix) : len(t)-1]
		}
	}
	return ""
}

// literalType maps a literal node to its C# keyword type.
func literalType(node *sitter.Node) string {
	if node == nil {
		return ""
	}
	switch node.Type() {
	case "integer_literal":
		return "int"
	case "real_literal":
		return "double"
	case "string_literal", "verbatim_string_literal", "raw_string_literal", "interpolated_string_expression":
		return "string"
	case "character_literal":
		return "char"
	case "boolean_literal", "true", "false":
		return "bool"
	case "null_literal":
		return "null"
	}
	return ""
}

func accessKind(node *sitter.Node) string {
	parent := node.Parent()
	for parent != nil && parent.Type() == "parenthesized_expression" {
		node, parent = parent, parent.Parent()
	}
	if parent == nil {
		return "getter"
	}
	switch parent.Type() {
	case "assignment_expression":
		if left := parent.ChildByFieldName("left"); left != nil && sameNode(left, node) {
			return "setter"
		}
	case "postfix_unary_expression", "prefix_unary_expression":
		text := parent.Child(0).Type() + parent.Child(int(parent.ChildCount())-1).Type()
		if strings.Contains(text, "++") || strings.Contains(text, "--") {
			return "setter"
		}
	}
	return "getter"
}

// isExpressionPosition reports whether an identifier is used as a value
// rather than declared, typed or named.
func isExpressionPosition(node, parent *sitter.Node) bool {
	switch parent.Type() {
	case "variable_declarator", "parameter", "local_function_statement", "method_declaration",
		"type_parameter", "generic_name", "qualified_name", "name_colon", "name_equals",
		"object_creation_expression", "declaration_expression", "for_each_statement",
		"catch_declaration", "attribute", "nullable_type", "array_type", "labeled_statement",
		"goto_statement", "typeof_expression", "property_declaration", "accessor_declaration",
		"type_argument_list", "using_directive", "alias_qualified_name", "ref_type",
		"pointer_type", "tuple_element", "explicit_interface_specifier", "constructor_initializer":
		return false
	case "member_access_expression":
		expr := parent.ChildByFieldName("expression")
		return expr != nil && sameNode(expr, node)
	case "invocation_expression":
		fn := parent.ChildByFieldName("function")
		return fn == nil || !sameNode(fn, node)
	case "cast_expression":
		t := parent.ChildByFieldName("type")
		return t == nil || !sameNode(t, node)
	}
	return true
}

func isLambda(n *sitter.Node) bool {
	return n.Type() == "lambda_expression" || n.Type() == "anonymous_method_expression"
}

func initializerOf(declarator *sitter.Node) *sitter.Node {
	if eq := firstNamed(declarator, "equals_value_clause"); eq != nil && eq.NamedChildCount() > 0 {
		return eq.NamedChild(0)
	}
	// newer grammars put the value directly on the declarator
	if v := declarator.ChildByFieldName("value"); v != nil {
		return v
	}
	// or leave it as an unnamed child after "="
	name := declarator.ChildByFieldName("name")
	if n := int(declarator.NamedChildCount()); n > 1 {
		last := declarator.NamedChild(n - 1)
		if (name == nil || !sameNode(last, name)) && last.Type() != "bracketed_argument_list" {
			return last
		}
	}
	return nil
}

func rootIdentifier(n *sitter.Node) *sitter.Node {
	for n != nil && n.Type() == "member_access_expression" {
		n = n.ChildByFieldName("expression")
	}
	if n != nil && n.Type() == "identifier" {
		return n
	}
	return nil
}

// isTypeLike treats PascalCase names as type names.
func isTypeLike(name string) bool {
	return name != "" && name[0] >= 'A' && name[0] <= 'Z'
}

func stripNullable(t string) string {
	s, _ := splitNullable(t)
	return s
}

func modifiersText(e *extractor, node *sitter.Node) string {
	var words []string
	for i := 0; i < int(node.ChildCount()); i++ {
		switch c := node.Child(i); c.Type() {
		case "modifier", "const", "using", "await", "fixed":
			words = append(words, e.text(c))
		}
	}
	return strings.Join(words, " ")
}

func sameNode(a, b *sitter.Node) bool {
	return a.StartByte() == b.StartByte() && a.EndByte() == b.EndByte() && a.Type() == b.Type()
}
