package render

import "fmt"

// str returns the field at key rendered as text. Missing and null fields
// yield the fallback; anything else is stringified as-is, so a present but
// oddly-typed value still shows up on the card.
func str(m map[string]interface{}, key, fallback string) string {
	v, ok := m[key]
	if !ok || v == nil {
		return fallback
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// num returns the number at key, or 0 when absent or not numeric.
func num(m map[string]interface{}, key string) float64 {
	v, _ := m[key].(float64)
	return v
}

// sub returns the nested object at key. A nil result is safe to read from.
func sub(m map[string]interface{}, key string) map[string]interface{} {
	v, _ := m[key].(map[string]interface{})
	return v
}

// list returns the array at key, or nil.
func list(m map[string]interface{}, key string) []interface{} {
	v, _ := m[key].([]interface{})
	return v
}

// fallback substitutes def for an empty string.
func fallback(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
