// Package template fills {{key}} placeholders in fixed text documents.
package template

import (
	"fmt"
	"strings"

	"github.com/aalvaropc/sympactl/internal/domain"
)

// Lookup resolves a placeholder key to its replacement text.
type Lookup func(key string) (string, bool)

// RenderString replaces {{VAR}} placeholders with vars values.
// It returns an error if a variable is missing or a placeholder is malformed.
func RenderString(input string, vars map[string]string) (string, error) {
	return Render(input, func(key string) (string, bool) {
		v, ok := vars[key]
		return v, ok
	})
}

// Render replaces {{key}} placeholders using lookup.
func Render(input string, lookup Lookup) (string, error) {
	if input == "" {
		return "", nil
	}

	var out strings.Builder
	rest := input
	for {
		start := strings.Index(rest, "{{")
		if start == -1 {
			out.WriteString(rest)
			return out.String(), nil
		}

		out.WriteString(rest[:start])
		rest = rest[start+2:]

		end := strings.Index(rest, "}}")
		if end == -1 {
			return "", renderError("unclosed template expression")
		}

		key := strings.TrimSpace(rest[:end])
		if key == "" {
			return "", renderError("empty template expression")
		}

		value, ok := lookup(key)
		if !ok {
			return "", renderError(fmt.Sprintf("missing variable %q", key))
		}

		out.WriteString(value)
		rest = rest[end+2:]
	}
}

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&apos;",
)

// EscapeXML escapes the five XML special characters.
func EscapeXML(s string) string {
	return xmlReplacer.Replace(s)
}

// Escaped wraps vars so every value is XML-escaped on lookup.
func Escaped(vars map[string]string) Lookup {
	return func(key string) (string, bool) {
		v, ok := vars[key]
		if !ok {
			return "", false
		}
		return EscapeXML(v), true
	}
}

func renderError(msg string) error {
	return &domain.OpError{
		Op:   "template.render",
		Kind: domain.KindInvalidFormat,
		Err:  fmt.Errorf("%s: %w", msg, domain.ErrInvalidFormat),
	}
}
