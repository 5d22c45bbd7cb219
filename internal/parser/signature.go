package parser

import "strings"

// ParseAngleSignature parses a type written with angle-bracket generics,
// e.g. "Dictionary<string, List<int?>>?". A trailing '?' marks the type as
// nullable; Nullable<T> and System.Nullable<T> unwrap to a nullable T.
func ParseAngleSignature(text string) TypeSignature {
	t := strings.TrimSpace(text)
	nullable := false
	if strings.HasSuffix(t, "?") {
		nullable = true
		t = strings.TrimSpace(strings.TrimSuffix(t, "?"))
	}

	sig := TypeSignature{Name: t, Text: t, IsNullable: nullable}
	open := strings.IndexByte(t, '<')
	if open <= 0 || !strings.HasSuffix(t, ">") {
		return sig
	}

	sig.Name = strings.TrimSpace(t[:open])
	for _, arg := range SplitTopLevel(t[open+1:len(t)-1], ',') {
		sig.GenericTypes = append(sig.GenericTypes, ParseAngleSignature(arg))
	}

	if (sig.Name == "Nullable" || sig.Name == "System.Nullable") && len(sig.GenericTypes) == 1 {
		inner := sig.GenericTypes[0]
		inner.IsNullable = true
		return inner
	}
	return sig
}

// SplitTopLevel splits s on sep, ignoring separators nested inside <>, ()
// or []. Empty parts are dropped and every part is trimmed.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			if depth > 0 {
				depth--
			}
		case sep:
			if depth == 0 {
				if p := strings.TrimSpace(s[start:i]); p != "" {
					parts = append(parts, p)
				}
				start = i + 1
			}
		}
	}
	if p := strings.TrimSpace(s[start:]); p != "" {
		parts = append(parts, p)
	}
	return parts
}

// StripGenericSuffix removes the first balanced <...> group from name, so
// "Repo<T>" becomes "Repo" and "Map<K,V>(int)" becomes "Map(int)".
func StripGenericSuffix(name string) string {
	open := strings.IndexByte(name, '<')
	if open < 0 {
		return name
	}
	depth := 0
	for i := open; i < len(name); i++ {
		switch name[i] {
		case '<':
			depth++
		case '>':
			depth--
			if depth == 0 {
				return name[:open] + name[i+1:]
			}
		}
	}
	return name[:open]
}

// ParseParameterWords splits parameter text such as "ref int? x" into its
// modifier and type, given the set of modifier keywords of a language.
// Anything after the type (a parameter name or default value) is ignored.
func ParseParameterWords(text string, modifiers map[string]string, parseType func(string) TypeSignature) ParameterSignature {
	t := strings.TrimSpace(text)
	if eq := strings.IndexByte(t, '='); eq >= 0 {
		t = strings.TrimSpace(t[:eq])
	}

	var sig ParameterSignature
	for {
		word, rest, found := strings.Cut(t, " ")
		if !found {
			break
		}
		m, ok := modifiers[strings.ToLower(word)]
		if !ok {
			break
		}
		sig.Modifier = m
		t = strings.TrimSpace(rest)
	}

	// A trailing identifier after the type is a parameter name: "int x".
	if parts := splitTypeAndName(t); parts != "" {
		t = parts
	}
	sig.Type = parseType(t)
	return sig
}

// splitTypeAndName returns the type part of "Type name", or "" when the text
// holds only a type.
func splitTypeAndName(t string) string {
	depth := 0
	last := -1
	for i := 0; i < len(t); i++ {
		switch t[i] {
		case '<', '(', '[':
			depth++
		case '>', ')', ']':
			depth--
		case ' ':
			if depth == 0 {
				last = i
			}
		}
	}
	if last < 0 {
		return ""
	}
	return strings.TrimSpace(t[:last])
}
