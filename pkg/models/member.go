package models

// MethodKind discriminates the unified callable record.
type MethodKind string

const (
	MethodKindMethod        MethodKind = "method"
	MethodKindConstructor   MethodKind = "constructor"
	MethodKindDestructor    MethodKind = "destructor"
	MethodKindAccessor      MethodKind = "accessor"
	MethodKindExtension     MethodKind = "extension"
	MethodKindLocalFunction MethodKind = "local_function"
)

// Method is any callable: method, constructor, destructor, property accessor,
// extension method or local function. A local function has ContainingMethod
// set; an accessor has ContainingProperty set; never both.
type Method struct {
	Name  string
	Type  MethodKind
	Owner Entity

	ContainingMethod   *Method
	ContainingProperty *Property

	AccessModifier string
	Modifier       string
	Modifiers      []string

	GenericParameters    []*GenericParameter
	CyclomaticComplexity int
	LinesOfCode          LinesOfCode
	Attributes           []*Attribute
	Parameters           []*Parameter
	ReturnValue          *ReturnValue // nil for constructors and destructors
	LocalVariables       []*LocalVariable
	LocalFunctions       []*Method

	FieldAccesses []*FieldAccess
	OutgoingCalls []*MethodCall
	IncomingCalls []*MethodCall

	Metrics Metrics
}

// Field is a field or event field. Properties embed a Field so that
// accesses resolve to the same record type.
type Field struct {
	Name           string
	Owner          Entity
	IsEvent        bool
	Type           *EntityType
	AccessModifier string
	Modifier       string
	Attributes     []*Attribute

	Accesses []*FieldAccess
	Metrics  Metrics
}

// Property is a property or event property.
type Property struct {
	Field

	CyclomaticComplexity int
	Accessors            []*Method
}

// EntityType is a usage of a type, not a declaration.
type EntityType struct {
	Name         string // written name without the nullability marker
	Entity       Entity
	IsNullable   bool
	GenericTypes []*EntityType
}

// ParameterModifier is the passing mode of a parameter.
type ParameterModifier string

const (
	ParamNone   ParameterModifier = ""
	ParamRef    ParameterModifier = "ref"
	ParamOut    ParameterModifier = "out"
	ParamIn     ParameterModifier = "in"
	ParamParams ParameterModifier = "params"
	ParamThis   ParameterModifier = "this"
)

type Parameter struct {
	TypeName     string
	Type         *EntityType
	Modifier     ParameterModifier
	DefaultValue string
	Attributes   []*Attribute
}

type ReturnValue struct {
	Type       *EntityType
	Modifier   string
	Attributes []*Attribute
}

type LocalVariable struct {
	Name     string
	Type     *EntityType
	Modifier string
}

type GenericParameter struct {
	Name        string
	Modifier    string
	Constraints []*EntityType
	Attributes  []*Attribute
}

// Attribute is an applied attribute with constructor-style arguments.
type Attribute struct {
	Type       *EntityType
	Target     string
	Parameters []*Parameter
}
