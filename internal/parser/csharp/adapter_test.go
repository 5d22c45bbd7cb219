package csharp

import (
	"testing"

	"github.com/dxworks/honeydew/internal/parser"
)

func TestAdapterClassify(t *testing.T) {
	a := NewAdapter()
	tests := []struct {
		keyword string
		want    parser.DeclarationKind
	}{
		{"class", parser.KindClass},
		{"struct", parser.KindClass},
		{"record", parser.KindClass},
		{"interface", parser.KindInterface},
		{"enum", parser.KindEnum},
		{"delegate", parser.KindDelegate},
	}
	for _, tt := range tests {
		if got := a.Classify(&parser.Declaration{Type: tt.keyword}); got != tt.want {
			t.Errorf("Classify(%q) = %v, want %v", tt.keyword, got, tt.want)
		}
	}
}

func TestAdapterGenericArity(t *testing.T) {
	a := NewAdapter()
	declared := &parser.Declaration{
		Name:              "Repo",
		GenericParameters: []*parser.GenericParameter{{Name: "T"}, {Name: "U"}},
	}
	if got := a.GenericArity(declared); got != 2 {
		t.Errorf("GenericArity(declared) = %d, want 2", got)
	}
	if got := a.GenericArity(&parser.Declaration{Name: "Map<K, V, W>"}); got != 3 {
		t.Errorf("GenericArity(Map<K, V, W>) = %d, want 3", got)
	}
	if got := a.GenericArity(&parser.Declaration{Name: "Plain"}); got != 0 {
		t.Errorf("GenericArity(Plain) = %d, want 0", got)
	}
}

func TestAdapterIsPrimitive(t *testing.T) {
	a := NewAdapter()
	tests := []struct {
		name string
		want bool
	}{
		{"int", true},
		{"int?", true},
		{"string[]", true},
		{"System.Int32", true},
		{"List<int>", false},
		{"User", false},
	}
	for _, tt := range tests {
		if got := a.IsPrimitive(tt.name); got != tt.want {
			t.Errorf("IsPrimitive(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestAdapterIsEvent(t *testing.T) {
	a := NewAdapter()
	if !a.IsEvent(&parser.Field{Modifier: "event"}) {
		t.Error("event modifier not recognized")
	}
	if !a.IsEvent(&parser.Field{IsEvent: true}) {
		t.Error("event flag not recognized")
	}
	if a.IsEvent(&parser.Field{Modifier: "readonly"}) {
		t.Error("readonly field reported as event")
	}
}

func TestAdapterParseParameterText(t *testing.T) {
	a := NewAdapter()
	tests := []struct {
		text     string
		modifier string
		typ      string
		nullable bool
	}{
		{"int", "", "int", false},
		{"ref int? x", "ref", "int", true},
		{"this string value", "this", "string", false},
		{"params object[] args", "params", "object[]", false},
		{"Dictionary<string, int> map = null", "", "Dictionary<string, int>", false},
	}
	for _, tt := range tests {
		got := a.ParseParameterText(tt.text)
		if got.Modifier != tt.modifier || got.Type.Text != tt.typ || got.Type.IsNullable != tt.nullable {
			t.Errorf("ParseParameterText(%q) = %+v, want modifier %q type %q nullable %v",
				tt.text, got, tt.modifier, tt.typ, tt.nullable)
		}
	}
}
