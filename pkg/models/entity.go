package models

// EntityKind discriminates the Entity variants.
type EntityKind string

const (
	KindClass     EntityKind = "class"
	KindInterface EntityKind = "interface"
	KindEnum      EntityKind = "enum"
	KindDelegate  EntityKind = "delegate"
)

// Metrics holds arbitrary named values produced upstream. Numeric values are
// float64 or int; anything else is kept as-is.
type Metrics map[string]any

// Entity is any declared or synthesized type.
type Entity interface {
	Kind() EntityKind
	Base() *EntityBase
}

// EntityBase carries the fields shared by every Entity variant.
type EntityBase struct {
	Name           string // fully qualified, doubles as identity
	FilePath       string
	AccessModifier string
	Modifier       string
	Modifiers      []string

	IsInternal  bool
	IsExternal  bool
	IsPrimitive bool

	LinesOfCode LinesOfCode
	Attributes  []*Attribute
	Imports     []*Import
	Metrics     Metrics

	File             *File
	Namespace        *Namespace
	ContainingEntity Entity
}

func (b *EntityBase) Base() *EntityBase { return b }

// ClassType is the declaration keyword of a Class.
type ClassType string

const (
	ClassTypeClass  ClassType = "class"
	ClassTypeStruct ClassType = "struct"
	ClassTypeRecord ClassType = "record"
)

// BaseType is a resolved base class or implemented interface.
type BaseType struct {
	Type *EntityType
	Kind string
}

// Class is a class, struct or record.
type Class struct {
	EntityBase

	ClassType         ClassType
	BaseTypes         []*BaseType
	GenericParameters []*GenericParameter

	Methods      []*Method
	Constructors []*Method
	Destructor   *Method
	Fields       []*Field
	Properties   []*Property

	Partials []*Class
}

func (c *Class) Kind() EntityKind { return KindClass }

// Interface is an interface declaration.
type Interface struct {
	EntityBase

	BaseTypes         []*BaseType
	GenericParameters []*GenericParameter
	Methods           []*Method
	Properties        []*Property

	Partials []*Interface
}

func (i *Interface) Kind() EntityKind { return KindInterface }

// EnumLabel is a single enum member.
type EnumLabel struct {
	Name       string
	Attributes []*Attribute
}

// Enum is an enum declaration.
type Enum struct {
	EntityBase

	Type   string
	Labels []*EnumLabel
}

func (e *Enum) Kind() EntityKind { return KindEnum }

// Delegate is a delegate declaration.
type Delegate struct {
	EntityBase

	Parameters        []*Parameter
	ReturnValue       *ReturnValue
	GenericParameters []*GenericParameter
}

func (d *Delegate) Kind() EntityKind { return KindDelegate }

// PartialsOf returns the other fragments of e, or nil for non-partial kinds.
func PartialsOf(e Entity) []Entity {
	var out []Entity
	switch v := e.(type) {
	case *Class:
		for _, p := range v.Partials {
			out = append(out, p)
		}
	case *Interface:
		for _, p := range v.Partials {
			out = append(out, p)
		}
	}
	return out
}
