package analysis

import (
	"regexp"
	"strings"

	"github.com/abdidvp/kodeguard/internal/domain"
)

// SplitTopLevel splits s on sep, ignoring separators nested inside <>, (), [] or {}.
// The arrow of a function type ("->") does not close an angle bracket.
func SplitTopLevel(s string, sep byte) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch c := s[i]; {
		case c == '<' || c == '(' || c == '[' || c == '{':
			depth++
		case c == '>' && i > 0 && s[i-1] == '-':
		case c == '>' || c == ')' || c == ']' || c == '}':
			if depth > 0 {
				depth--
			}
		case c == sep && depth == 0:
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])

	out := parts[:0]
	for _, p := range parts {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

var (
	paramAnnotation = regexp.MustCompile(`@[\w.]+(?:\([^)]*\))?\s*`)
	paramModifiers  = regexp.MustCompile(`^(?:(?:private|protected|internal|public|override|open|vararg|noinline|crossinline|val|var)\s+)+`)
)

// ParseParams parses the text between a declaration's parentheses.
func ParseParams(list string) []domain.Param {
	var params []domain.Param
	for _, raw := range SplitTopLevel(list, ',') {
		if p, ok := ParseParam(raw); ok {
			params = append(params, p)
		}
	}
	return params
}

// ParseParam parses one "name: Type = default" declaration, dropping annotations,
// modifiers and the default value.
func ParseParam(raw string) (domain.Param, bool) {
	s := paramAnnotation.ReplaceAllString(strings.TrimSpace(raw), "")
	s = paramModifiers.ReplaceAllString(strings.TrimSpace(s), "")
	parts := SplitTopLevel(s, ':')
	if len(parts) < 2 {
		return domain.Param{}, false
	}
	name := strings.TrimSpace(parts[0])
	typ := strings.Join(parts[1:], ":")
	if eq := SplitTopLevel(typ, '='); len(eq) > 0 {
		typ = eq[0]
	}
	return domain.Param{Name: name, Type: strings.TrimSpace(typ)}, name != ""
}

var unstableTypes = map[string]string{
	"MutableList":       "List",
	"MutableSet":        "Set",
	"MutableMap":        "Map",
	"MutableCollection": "Collection",
	"ArrayList":         "List",
	"HashMap":           "Map",
	"HashSet":           "Set",
	"LinkedHashMap":     "Map",
	"LinkedHashSet":     "Set",
	"LinkedList":        "List",
	"Array":             "",
	"IntArray":          "",
	"LongArray":         "",
	"FloatArray":        "",
	"DoubleArray":       "",
	"BooleanArray":      "",
	"ByteArray":         "",
	"CharArray":         "",
	"ShortArray":        "",
}

// baseTypeName strips nullability, type arguments and package qualifiers.
func baseTypeName(typ string) string {
	t := strings.TrimSuffix(strings.TrimSpace(typ), "?")
	if i := strings.IndexByte(t, '<'); i >= 0 {
		t = t[:i]
	}
	if i := strings.LastIndexByte(t, '.'); i >= 0 {
		t = t[i+1:]
	}
	return strings.TrimSpace(t)
}

// IsUnstableType reports whether a declared type is a mutable collection or raw array,
// which UI frameworks cannot treat as stable input.
func IsUnstableType(typ string) bool {
	_, ok := unstableTypes[baseTypeName(typ)]
	return ok
}

// StableReplacement returns the read-only counterpart of an unstable collection type,
// keeping its type arguments and nullability. It returns "" for raw arrays.
func StableReplacement(typ string) string {
	t := strings.TrimSpace(typ)
	repl := unstableTypes[baseTypeName(t)]
	if repl == "" {
		return ""
	}
	args := ""
	if i := strings.IndexByte(t, '<'); i >= 0 {
		args = strings.TrimSuffix(t[i:], "?")
	}
	nullable := ""
	if strings.HasSuffix(t, "?") {
		nullable = "?"
	}
	return repl + args + nullable
}
