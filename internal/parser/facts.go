package parser

// The raw fact tree emitted by front-end extractors. Everything here is flat
// and name based: types are written as text, calls and accesses refer to
// classes by their textual names. The resolver turns it into pkg/models.

// Repository is the root of a raw fact document.
type Repository struct {
	Version   string      `json:"version,omitempty" yaml:"version,omitempty"`
	Solutions []*Solution `json:"solutions,omitempty" yaml:"solutions,omitempty"`
	Projects  []*Project  `json:"projects,omitempty" yaml:"projects,omitempty"`
}

type Solution struct {
	FilePath      string   `json:"filePath" yaml:"filePath"`
	ProjectsPaths []string `json:"projectsPaths,omitempty" yaml:"projectsPaths,omitempty"`
}

type Project struct {
	Name              string             `json:"name" yaml:"name"`
	FilePath          string             `json:"filePath" yaml:"filePath"`
	Language          string             `json:"language" yaml:"language"`
	ProjectReferences []string           `json:"projectReferences,omitempty" yaml:"projectReferences,omitempty"`
	CompilationUnits  []*CompilationUnit `json:"compilationUnits,omitempty" yaml:"compilationUnits,omitempty"`
}

type LinesOfCode struct {
	SourceLines  int `json:"sourceLines" yaml:"sourceLines"`
	CommentLines int `json:"commentLines" yaml:"commentLines"`
	EmptyLines   int `json:"emptyLines" yaml:"emptyLines"`
}

// CompilationUnit is one source file.
type CompilationUnit struct {
	FilePath     string         `json:"filePath" yaml:"filePath"`
	LinesOfCode  LinesOfCode    `json:"linesOfCode" yaml:"linesOfCode"`
	Imports      []*Import      `json:"imports,omitempty" yaml:"imports,omitempty"`
	Declarations []*Declaration `json:"declarations,omitempty" yaml:"declarations,omitempty"`
}

type Import struct {
	Name      string `json:"name" yaml:"name"`
	Alias     string `json:"alias,omitempty" yaml:"alias,omitempty"`
	AliasType string `json:"aliasType,omitempty" yaml:"aliasType,omitempty"`
	IsStatic  bool   `json:"isStatic,omitempty" yaml:"isStatic,omitempty"`
}

type Attribute struct {
	Type       string       `json:"type" yaml:"type"`
	Target     string       `json:"target,omitempty" yaml:"target,omitempty"`
	Parameters []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
}

type Metric struct {
	Name  string `json:"name" yaml:"name"`
	Value any    `json:"value" yaml:"value"`
}

type GenericParameter struct {
	Name        string       `json:"name" yaml:"name"`
	Modifier    string       `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Constraints []string     `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Attributes  []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type BaseType struct {
	Type string `json:"type" yaml:"type"`
	Kind string `json:"kind,omitempty" yaml:"kind,omitempty"`
}

// Declaration is any top-level or nested type declaration. The Type field
// carries the keyword as written (class, struct, record, interface, enum,
// delegate, Structure, Module...); the language adapter classifies it.
type Declaration struct {
	Type                string   `json:"type" yaml:"type"`
	Name                string   `json:"name" yaml:"name"`
	FilePath            string   `json:"filePath,omitempty" yaml:"filePath,omitempty"`
	ContainingNamespace string   `json:"containingNamespace,omitempty" yaml:"containingNamespace,omitempty"`
	ContainingClassName string   `json:"containingClassName,omitempty" yaml:"containingClassName,omitempty"`
	AccessModifier      string   `json:"accessModifier,omitempty" yaml:"accessModifier,omitempty"`
	Modifier            string   `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Modifiers           []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`

	LinesOfCode       LinesOfCode         `json:"linesOfCode" yaml:"linesOfCode"`
	Imports           []*Import           `json:"imports,omitempty" yaml:"imports,omitempty"`
	Attributes        []*Attribute        `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	BaseTypes         []*BaseType         `json:"baseTypes,omitempty" yaml:"baseTypes,omitempty"`
	GenericParameters []*GenericParameter `json:"genericParameters,omitempty" yaml:"genericParameters,omitempty"`
	Metrics           []*Metric           `json:"metrics,omitempty" yaml:"metrics,omitempty"`

	Methods      []*Method   `json:"methods,omitempty" yaml:"methods,omitempty"`
	Constructors []*Method   `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Destructor   *Method     `json:"destructor,omitempty" yaml:"destructor,omitempty"`
	Fields       []*Field    `json:"fields,omitempty" yaml:"fields,omitempty"`
	Properties   []*Property `json:"properties,omitempty" yaml:"properties,omitempty"`

	// enum
	UnderlyingType string       `json:"underlyingType,omitempty" yaml:"underlyingType,omitempty"`
	Labels         []*EnumLabel `json:"labels,omitempty" yaml:"labels,omitempty"`

	// delegate
	Parameters  []*Parameter `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnValue *ReturnValue `json:"returnValue,omitempty" yaml:"returnValue,omitempty"`
}

type EnumLabel struct {
	Name       string       `json:"name" yaml:"name"`
	Attributes []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type Parameter struct {
	Type         string       `json:"type" yaml:"type"`
	Modifier     string       `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	DefaultValue string       `json:"defaultValue,omitempty" yaml:"defaultValue,omitempty"`
	IsNullable   bool         `json:"isNullable,omitempty" yaml:"isNullable,omitempty"`
	Attributes   []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type ReturnValue struct {
	Type       string       `json:"type" yaml:"type"`
	Modifier   string       `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	IsNullable bool         `json:"isNullable,omitempty" yaml:"isNullable,omitempty"`
	Attributes []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
}

type LocalVariable struct {
	Name       string `json:"name" yaml:"name"`
	Type       string `json:"type" yaml:"type"`
	Modifier   string `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	IsNullable bool   `json:"isNullable,omitempty" yaml:"isNullable,omitempty"`
}

// Method is a raw method, constructor, destructor, accessor or local function.
type Method struct {
	Name           string   `json:"name" yaml:"name"`
	AccessModifier string   `json:"accessModifier,omitempty" yaml:"accessModifier,omitempty"`
	Modifier       string   `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	Modifiers      []string `json:"modifiers,omitempty" yaml:"modifiers,omitempty"`

	GenericParameters    []*GenericParameter `json:"genericParameters,omitempty" yaml:"genericParameters,omitempty"`
	Attributes           []*Attribute        `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Parameters           []*Parameter        `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	ReturnValue          *ReturnValue        `json:"returnValue,omitempty" yaml:"returnValue,omitempty"`
	LocalVariables       []*LocalVariable    `json:"localVariables,omitempty" yaml:"localVariables,omitempty"`
	LocalFunctions       []*Method           `json:"localFunctions,omitempty" yaml:"localFunctions,omitempty"`
	CalledMethods        []*MethodCall       `json:"calledMethods,omitempty" yaml:"calledMethods,omitempty"`
	AccessedFields       []*AccessedField    `json:"accessedFields,omitempty" yaml:"accessedFields,omitempty"`
	CyclomaticComplexity int                 `json:"cyclomaticComplexity,omitempty" yaml:"cyclomaticComplexity,omitempty"`
	LinesOfCode          LinesOfCode         `json:"linesOfCode" yaml:"linesOfCode"`
	Metrics              []*Metric           `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

type Field struct {
	Name           string       `json:"name" yaml:"name"`
	Type           string       `json:"type" yaml:"type"`
	IsNullable     bool         `json:"isNullable,omitempty" yaml:"isNullable,omitempty"`
	AccessModifier string       `json:"accessModifier,omitempty" yaml:"accessModifier,omitempty"`
	Modifier       string       `json:"modifier,omitempty" yaml:"modifier,omitempty"`
	IsEvent        bool         `json:"isEvent,omitempty" yaml:"isEvent,omitempty"`
	Attributes     []*Attribute `json:"attributes,omitempty" yaml:"attributes,omitempty"`
	Metrics        []*Metric    `json:"metrics,omitempty" yaml:"metrics,omitempty"`
}

func (f *Field) MemberModifier() string { return f.Modifier }
func (f *Field) EventFlag() bool        { return f.IsEvent }

type Property struct {
	Field                `yaml:",inline"`
	CyclomaticComplexity int       `json:"cyclomaticComplexity,omitempty" yaml:"cyclomaticComplexity,omitempty"`
	Accessors            []*Method `json:"accessors,omitempty" yaml:"accessors,omitempty"`
}

// ParameterType is the type of one call-site argument.
type ParameterType struct {
	Type       string `json:"type" yaml:"type"`
	IsNullable bool   `json:"isNullable,omitempty" yaml:"isNullable,omitempty"`
}

// MethodCall is a call as seen in source. LocationClassName is the class in
// which the call textually occurs; DefinitionClassName is where the target
// is declared. MethodDefinitionNames is the scope-qualifier chain for calls
// into local functions, e.g. ["Method(int, int)", "Outer(int)"].
type MethodCall struct {
	Name                  string           `json:"name" yaml:"name"`
	DefinitionClassName   string           `json:"definitionClassName,omitempty" yaml:"definitionClassName,omitempty"`
	LocationClassName     string           `json:"locationClassName,omitempty" yaml:"locationClassName,omitempty"`
	MethodDefinitionNames []string         `json:"methodDefinitionNames,omitempty" yaml:"methodDefinitionNames,omitempty"`
	GenericParameters     []string         `json:"genericParameters,omitempty" yaml:"genericParameters,omitempty"`
	ParameterTypes        []*ParameterType `json:"parameterTypes,omitempty" yaml:"parameterTypes,omitempty"`
}

type AccessedField struct {
	Name                string `json:"name" yaml:"name"`
	DefinitionClassName string `json:"definitionClassName,omitempty" yaml:"definitionClassName,omitempty"`
	LocationClassName   string `json:"locationClassName,omitempty" yaml:"locationClassName,omitempty"`
	Kind                string `json:"kind,omitempty" yaml:"kind,omitempty"`
}
