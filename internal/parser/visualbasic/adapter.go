// Package visualbasic provides the Visual Basic language adapter. Raw facts
// for Visual Basic projects arrive as documents; there is no extractor.
package visualbasic

import (
	"strings"

	"github.com/dxworks/honeydew/internal/parser"
)

// Adapter is the Visual Basic language adapter.
type Adapter struct{}

func NewAdapter() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return parser.LanguageVisualBasic }

func (a *Adapter) Classify(decl *parser.Declaration) parser.DeclarationKind {
	switch strings.ToLower(decl.Type) {
	case "interface":
		return parser.KindInterface
	case "enum":
		return parser.KindEnum
	case "delegate":
		return parser.KindDelegate
	}
	// Class, Structure and Module
	return parser.KindClass
}

func (a *Adapter) GenericArity(decl *parser.Declaration) int {
	if n := len(decl.GenericParameters); n > 0 {
		return n
	}
	return a.ParseTypeSignature(decl.Name).Arity()
}

func (a *Adapter) IsEvent(m parser.Member) bool {
	return m.EventFlag() || strings.EqualFold(m.MemberModifier(), "event")
}

var primitives = map[string]struct{}{
	"boolean": {}, "byte": {}, "sbyte": {}, "char": {}, "date": {}, "decimal": {},
	"double": {}, "single": {}, "integer": {}, "uinteger": {}, "long": {},
	"ulong": {}, "short": {}, "ushort": {}, "object": {}, "string": {},
}

func (a *Adapter) IsPrimitive(name string) bool {
	name = strings.TrimSuffix(strings.TrimSpace(name), "?")
	name = strings.TrimSuffix(name, "()")
	_, ok := primitives[strings.ToLower(name)]
	return ok
}

var parameterModifiers = map[string]string{
	"byref":      "ref",
	"byval":      "",
	"optional":   "",
	"paramarray": "params",
}

// ParseParameterText accepts both "ByRef x As Integer" and bare "Integer".
func (a *Adapter) ParseParameterText(text string) parser.ParameterSignature {
	t := strings.TrimSpace(text)
	var sig parser.ParameterSignature
	for {
		word, rest, found := strings.Cut(t, " ")
		if !found {
			break
		}
		m, ok := parameterModifiers[strings.ToLower(word)]
		if !ok {
			break
		}
		if m != "" {
			sig.Modifier = m
		}
		t = strings.TrimSpace(rest)
	}
	if eq := strings.IndexByte(t, '='); eq >= 0 {
		t = strings.TrimSpace(t[:eq])
	}
	if i := indexAs(t); i >= 0 {
		t = strings.TrimSpace(t[i+4:])
	}
	sig.Type = a.ParseTypeSignature(t)
	return sig
}

// ParseTypeSignature parses "Dictionary(Of String, List(Of Integer))",
// "Integer?" and "Nullable(Of Integer)".
func (a *Adapter) ParseTypeSignature(text string) parser.TypeSignature {
	return parser.ParseAngleSignature(toAngle(strings.TrimSpace(text)))
}

// toAngle rewrites every "(Of ...)" group into "<...>".
func toAngle(t string) string {
	for {
		open := indexOf(t)
		if open < 0 {
			return t
		}
		depth := 0
		closeAt := -1
		for i := open; i < len(t); i++ {
			if t[i] == '(' {
				depth++
			} else if t[i] == ')' {
				depth--
				if depth == 0 {
					closeAt = i
					break
				}
			}
		}
		if closeAt < 0 {
			return t
		}
		inner := strings.TrimSpace(t[open+len("(Of ") : closeAt])
		t = strings.TrimSpace(t[:open]) + "<" + inner + ">" + t[closeAt+1:]
	}
}

func indexOf(t string) int {
	return strings.Index(strings.ToLower(t), "(of ")
}

func indexAs(t string) int {
	return strings.Index(strings.ToLower(t), " as ")
}
