package parser

import "errors"

// Parser extracts raw declarations from a single source file.
type Parser interface {
	// Parse processes a single file and returns its compilation unit.
	Parse(input FileInput) (*CompilationUnit, error)

	// Languages returns the languages this parser handles.
	Languages() []string
}

// FileInput represents a file to be parsed.
type FileInput struct {
	Path     string
	Content  []byte
	Language string
}

// DeclarationKind is the classification an Adapter gives a raw declaration.
type DeclarationKind int

const (
	KindClass DeclarationKind = iota
	KindInterface
	KindEnum
	KindDelegate
)

func (k DeclarationKind) String() string {
	switch k {
	case KindInterface:
		return "interface"
	case KindEnum:
		return "enum"
	case KindDelegate:
		return "delegate"
	default:
		return "class"
	}
}

// TypeSignature is a parsed type reference.
type TypeSignature struct {
	Name         string // base name without generic arguments, e.g. "List"
	Text         string // written name without the nullability marker, e.g. "List<int>"
	IsNullable   bool
	GenericTypes []TypeSignature
}

// Arity returns the number of generic arguments.
func (s TypeSignature) Arity() int { return len(s.GenericTypes) }

// ParameterSignature is a parsed parameter text such as "ref int?".
type ParameterSignature struct {
	Modifier string
	Type     TypeSignature
}

// Member is a raw field or property.
type Member interface {
	MemberModifier() string
	EventFlag() bool
}

// Adapter answers the language specific questions the resolver asks about
// raw facts. One implementation exists per analyzed language.
type Adapter interface {
	Language() string
	Classify(decl *Declaration) DeclarationKind
	GenericArity(decl *Declaration) int
	IsEvent(m Member) bool
	IsPrimitive(name string) bool
	ParseParameterText(text string) ParameterSignature
	ParseTypeSignature(text string) TypeSignature
}

// ErrUnsupportedFormat is returned when a document has an unknown extension.
var ErrUnsupportedFormat = errors.New("unsupported document format")
