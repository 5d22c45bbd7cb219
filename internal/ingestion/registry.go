package ingestion

import (
	"github.com/dxworks/honeydew/internal/parser"
	"github.com/dxworks/honeydew/internal/parser/csharp"
	"github.com/dxworks/honeydew/internal/parser/visualbasic"
)

// NewRegistry returns a registry with the C# parser and both language
// adapters. Visual Basic sources have no parser; their facts arrive through
// raw documents.
func NewRegistry() *parser.Registry {
	registry := parser.NewRegistry()
	registry.Register(".cs", csharp.New())
	registry.RegisterAdapter(csharp.NewAdapter())
	registry.RegisterAdapter(visualbasic.NewAdapter())
	return registry
}
