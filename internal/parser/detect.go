package parser

import (
	"path/filepath"
	"strings"
)

const (
	LanguageCSharp      = "C#"
	LanguageVisualBasic = "Visual Basic"
)

// NormalizeLanguage maps the spellings found in project files and documents
// to a canonical language tag.
func NormalizeLanguage(language string) string {
	switch strings.ToLower(strings.TrimSpace(language)) {
	case "c#", "csharp", "cs":
		return LanguageCSharp
	case "visual basic", "visualbasic", "vb", "vb.net":
		return LanguageVisualBasic
	}
	return language
}

// DetectLanguage determines the language of a project or source file from
// its extension. It returns "" when the extension is unknown.
func DetectLanguage(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csproj", ".cs":
		return LanguageCSharp
	case ".vbproj", ".vb":
		return LanguageVisualBasic
	}
	return ""
}
