package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadDocument reads a raw fact document. The format is chosen by
// extension: .json, .yaml or .yml.
func LoadDocument(path string) (*Repository, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	format, err := formatOf(path)
	if err != nil {
		return nil, err
	}
	return DecodeDocument(f, format)
}

// DecodeDocument decodes a raw fact document in the given format ("json" or "yaml").
func DecodeDocument(r io.Reader, format string) (*Repository, error) {
	repo := &Repository{}
	switch format {
	case "json":
		if err := json.NewDecoder(r).Decode(repo); err != nil {
			return nil, fmt.Errorf("decode json document: %w", err)
		}
	case "yaml":
		if err := yaml.NewDecoder(r).Decode(repo); err != nil {
			return nil, fmt.Errorf("decode yaml document: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	return repo, nil
}

// WriteDocument writes a raw fact document as indented JSON.
func WriteDocument(w io.Writer, repo *Repository) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(repo); err != nil {
		return fmt.Errorf("encode document: %w", err)
	}
	return nil
}

func formatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "json", nil
	case ".yaml", ".yml":
		return "yaml", nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Ext(path))
}
