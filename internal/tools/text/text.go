package text

import (
	"go/token"
	"strings"

	"github.com/gobuffalo/flect"
)

// Words that may not be used as generated identifiers. Go keywords plus
// "enum", which is reserved here so that schema-tooling downstreams that
// post-process the generated source never meet it as a bare identifier.
var extraReserved = map[string]struct{}{
	"enum": {},
}

// IsReserved reports whether s cannot be used as a generated identifier.
func IsReserved(s string) bool {
	if token.IsKeyword(s) {
		return true
	}
	_, ok := extraReserved[s]
	return ok
}

// RenameIfReserved returns a safe replacement identifier and true when
// candidate is a reserved word ("type" becomes "type_"). The caller keeps
// the original literal in the serialization annotation so the wire format
// is unaffected. When candidate is not reserved it is returned unchanged
// with false.
func RenameIfReserved(candidate string) (string, bool) {
	if IsReserved(candidate) {
		return candidate + "_", true
	}
	return candidate, false
}

// sanitize strips characters that are illegal in a Go identifier. "$" and
// "#" show up in real schema keys ("$ref", "$schema"); they are dropped
// outright, any other separator is normalized to "_" so flect can split
// on it.
func sanitize(raw string) string {
	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '_':
			b.WriteRune(r)
		case r == '$', r == '#':
			// dropped
		default:
			b.WriteRune('_')
		}
	}
	return b.String()
}

// ToTypeName converts an arbitrary schema key or reference tail to a Go
// type name.
func ToTypeName(raw string) string {
	name := flect.Pascalize(sanitize(raw))
	if name == "" {
		name = "Value"
	}
	if renamed, ok := RenameIfReserved(name); ok {
		return renamed
	}
	return name
}

// ToFieldName converts a raw property key to an exported Go field name.
// The second return value reports whether the identifier diverges from the
// raw key, in which case the field must carry a rename annotation (a json
// struct tag) reproducing the raw key.
func ToFieldName(raw string) (string, bool) {
	name := flect.Pascalize(sanitize(raw))
	if name == "" {
		name = "Field"
	}
	if renamed, ok := RenameIfReserved(name); ok {
		name = renamed
	}
	return name, name != raw
}

// FirstToLower lowers the first rune of s.
func FirstToLower(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// DocLines wraps a schema description into comment lines of at most width
// characters. Explicit newlines in the description are preserved as line
// breaks, matching how descriptions are authored in real schemas.
func DocLines(comment string, width int) []string {
	if width <= 0 {
		width = 100
	}
	var out []string
	for _, paragraph := range strings.Split(comment, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, word := range words[1:] {
			if len(line)+1+len(word) >= width {
				out = append(out, line)
				line = word
				continue
			}
			line += " " + word
		}
		out = append(out, line)
	}
	// Trim a trailing empty line left by a description ending in "\n".
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return out
}
