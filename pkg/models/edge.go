package models

// AccessKind tells whether a field access reads or writes.
type AccessKind string

const (
	AccessGetter AccessKind = "getter"
	AccessSetter AccessKind = "setter"
)

// MethodCall is a resolved call site. It is listed in Caller.OutgoingCalls
// and in Called.IncomingCalls.
type MethodCall struct {
	Caller           *Method
	Called           *Method
	Receiver         *EntityType
	GenericArguments []*EntityType
	ParameterTypes   []*EntityType
}

// FieldAccess is a resolved field or property access. It is listed in
// Caller.FieldAccesses and in Field.Accesses.
type FieldAccess struct {
	Field    *Field
	Caller   *Method
	Receiver *EntityType
	Kind     AccessKind
}
