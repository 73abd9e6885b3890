// Package resolver substitutes {{token}} placeholders in config values with
// generated data.
package resolver

import (
	"fmt"
	"sort"
	"strings"
)

// Values holds generated token values. A fresh map is built per run and never
// persisted.
type Values map[string]string

// Resolve replaces every {{token}} occurrence in s with its mapped value.
// Tokens without a mapping pass through literally so configs that don't use
// generated data work untouched. Token names are [A-Za-z0-9_]+.
func Resolve(s string, values Values) string {
	out, _ := resolve(s, values, nil)
	return out
}

// ResolveStrict is Resolve, except tokens without a mapping are an error.
func ResolveStrict(s string, values Values) (string, error) {
	var missing []string
	out, missing := resolve(s, values, missing)
	if len(missing) > 0 {
		sort.Strings(missing)
		return out, fmt.Errorf("unresolved tokens: %s", strings.Join(missing, ", "))
	}
	return out, nil
}

func resolve(s string, values Values, missing []string) (string, []string) {
	if !strings.Contains(s, "{{") {
		return s, missing
	}

	var b strings.Builder
	b.Grow(len(s))
	i := 0
	for i < len(s) {
		start := strings.Index(s[i:], "{{")
		if start < 0 {
			b.WriteString(s[i:])
			break
		}
		start += i
		end := strings.Index(s[start+2:], "}}")
		if end < 0 {
			b.WriteString(s[i:])
			break
		}
		name := s[start+2 : start+2+end]

		b.WriteString(s[i:start])
		if !isIdent(name) {
			// Not a token, keep the braces and rescan just past them.
			b.WriteString("{{")
			i = start + 2
			continue
		}
		if v, ok := values[name]; ok {
			b.WriteString(v)
		} else {
			b.WriteString(s[start : start+2+end+2])
			missing = append(missing, name)
		}
		i = start + 2 + end + 2
	}
	return b.String(), missing
}

func isIdent(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '_':
		default:
			return false
		}
	}
	return true
}
