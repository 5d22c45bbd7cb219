package csharp

import (
	"strings"

	"github.com/dxworks/honeydew/internal/parser"
)

// Adapter is the C# language adapter.
type Adapter struct{}

func NewAdapter() *Adapter { return &Adapter{} }

func (a *Adapter) Language() string { return parser.LanguageCSharp }

func (a *Adapter) Classify(decl *parser.Declaration) parser.DeclarationKind {
	switch strings.ToLower(decl.Type) {
	case "interface":
		return parser.KindInterface
	case "enum":
		return parser.KindEnum
	case "delegate":
		return parser.KindDelegate
	}
	return parser.KindClass
}

// GenericArity counts declared generic parameters, falling back to the
// arguments written in the name ("Repo<T, U>").
func (a *Adapter) GenericArity(decl *parser.Declaration) int {
	if n := len(decl.GenericParameters); n > 0 {
		return n
	}
	return a.ParseTypeSignature(decl.Name).Arity()
}

func (a *Adapter) IsEvent(m parser.Member) bool {
	return m.EventFlag() || m.MemberModifier() == "event"
}

var primitives = map[string]struct{}{
	"bool": {}, "byte": {}, "sbyte": {}, "char": {}, "decimal": {}, "double": {},
	"float": {}, "int": {}, "uint": {}, "nint": {}, "nuint": {}, "long": {},
	"ulong": {}, "short": {}, "ushort": {}, "object": {}, "string": {},
	"void": {}, "dynamic": {},
	"System.Boolean": {}, "System.Byte": {}, "System.SByte": {}, "System.Char": {},
	"System.Decimal": {}, "System.Double": {}, "System.Single": {}, "System.Int32": {},
	"System.UInt32": {}, "System.Int64": {}, "System.UInt64": {}, "System.Int16": {},
	"System.UInt16": {}, "System.Object": {}, "System.String": {}, "System.Void": {},
}

func (a *Adapter) IsPrimitive(name string) bool {
	name = strings.TrimSuffix(strings.TrimSpace(name), "?")
	name = strings.TrimSuffix(name, "[]")
	_, ok := primitives[name]
	return ok
}

var parameterModifiers = map[string]string{
	"ref":    "ref",
	"out":    "out",
	"in":     "in",
	"params": "params",
	"this":   "this",
}

func (a *Adapter) ParseParameterText(text string) parser.ParameterSignature {
	return parser.ParseParameterWords(text, parameterModifiers, a.ParseTypeSignature)
}

func (a *Adapter) ParseTypeSignature(text string) parser.TypeSignature {
	return parser.ParseAngleSignature(text)
}
