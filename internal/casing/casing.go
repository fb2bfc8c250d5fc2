// Package casing rewrites JSON-shaped data between snake_case and
// lowerCamelCase key conventions. The transform is pure and recursive: maps
// get their keys rewritten, slices are mapped element-wise, scalars and nil
// pass through unchanged.
package casing

import (
	"strings"
	"unicode"
)

// Keys that mix conventions cannot be rewritten heuristically; the tables
// below pin their translation in both directions. Extend as such keys appear.
var snakeOverrides = map[string]string{
	"account_last_four": "accountLastFour",
	"card_last_four":    "cardLastFour",
}

var camelOverrides = func() map[string]string {
	m := make(map[string]string, len(snakeOverrides))
	for s, c := range snakeOverrides {
		m[c] = s
	}
	return m
}()

// ToCamel converts a snake_case key to lowerCamelCase.
func ToCamel(key string) string {
	if v, ok := snakeOverrides[key]; ok {
		return v
	}
	parts := strings.Split(key, "_")
	if len(parts) == 1 {
		return key
	}
	var b strings.Builder
	b.WriteString(parts[0])
	for _, p := range parts[1:] {
		if p == "" {
			continue
		}
		r := []rune(p)
		r[0] = unicode.ToUpper(r[0])
		b.WriteString(string(r))
	}
	return b.String()
}

// ToSnake converts a lowerCamelCase key to snake_case.
func ToSnake(key string) string {
	if v, ok := camelOverrides[key]; ok {
		return v
	}
	var b strings.Builder
	for i, r := range key {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CamelizeKeys rewrites every map key in v from snake_case to camelCase.
func CamelizeKeys(v any) any { return transform(v, ToCamel) }

// SnakeKeys rewrites every map key in v from camelCase to snake_case.
func SnakeKeys(v any) any { return transform(v, ToSnake) }

func transform(v any, f func(string) string) any {
	switch t := v.(type) {
	case nil:
		return nil
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, val := range t {
			out[f(k)] = transform(val, f)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = transform(e, f)
		}
		return out
	default:
		return v
	}
}
