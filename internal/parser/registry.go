package parser

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Registry maps file extensions to parsers and languages to adapters.
type Registry struct {
	parsers  map[string]Parser // extension -> parser
	adapters map[string]Adapter
	fallback Adapter
}

func NewRegistry() *Registry {
	return &Registry{
		parsers:  make(map[string]Parser),
		adapters: make(map[string]Adapter),
	}
}

func (r *Registry) Register(ext string, p Parser) {
	r.parsers[strings.ToLower(ext)] = p
}

// RegisterAdapter registers an adapter for its language. The first one registered is
// also used for projects whose language is unknown.
func (r *Registry) RegisterAdapter(a Adapter) {
	r.adapters[NormalizeLanguage(a.Language())] = a
	if r.fallback == nil {
		r.fallback = a
	}
}

// ForFile returns the parser for a given file path, or nil if none matches.
func (r *Registry) ForFile(path string) Parser {
	ext := strings.ToLower(filepath.Ext(path))
	return r.parsers[ext]
}

// AdapterFor returns the adapter for a project language.
func (r *Registry) AdapterFor(language string) Adapter {
	if a, ok := r.adapters[NormalizeLanguage(language)]; ok {
		return a
	}
	return r.fallback
}

// ParseFile detects the parser and parses the file.
func (r *Registry) ParseFile(input FileInput) (*CompilationUnit, error) {
	p := r.ForFile(input.Path)
	if p == nil {
		return nil, fmt.Errorf("no parser for file: %s", input.Path)
	}
	return p.Parse(input)
}

// SupportedExtensions returns all registered extensions.
func (r *Registry) SupportedExtensions() []string {
	exts := make([]string, 0, len(r.parsers))
	for ext := range r.parsers {
		exts = append(exts, ext)
	}
	return exts
}
