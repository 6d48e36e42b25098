// Package guards holds predicates and coercions for loosely-typed values
// decoded from JSON documents (map[string]interface{} trees).
package guards

import (
	"encoding/json"
	"math"
	"strconv"
)

// IsPlainObject reports whether v is a decoded JSON object.
func IsPlainObject(v interface{}) bool {
	_, ok := v.(map[string]interface{})
	return ok
}

// AsMap returns v as an object, or an empty object for any other value.
func AsMap(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

// AsSlice returns v as an array, or nil for any other value.
func AsSlice(v interface{}) []interface{} {
	if s, ok := v.([]interface{}); ok {
		return s
	}
	return nil
}

// AsString returns v as a string. Non-string values yield "" and false.
func AsString(v interface{}) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsBool coerces v to a boolean. Only true booleans count as true.
func AsBool(v interface{}) bool {
	b, ok := v.(bool)
	return ok && b
}

// AsInt coerces numbers and numeric strings to an int.
func AsInt(v interface{}) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int32:
		return int(n), true
	case int64:
		return int(n), true
	case float64:
		if math.IsNaN(n) || math.IsInf(n, 0) {
			return 0, false
		}
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		if err != nil {
			f, err := n.Float64()
			if err != nil {
				return 0, false
			}
			return int(f), true
		}
		return int(i), true
	case string:
		i, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return i, true
	default:
		return 0, false
	}
}

// IntOr coerces v to an int, returning fallback when it cannot.
func IntOr(v interface{}, fallback int) int {
	if i, ok := AsInt(v); ok {
		return i
	}
	return fallback
}

// AsStringSlice keeps only the string members of an array.
func AsStringSlice(v interface{}) []string {
	items := AsSlice(v)
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s, ok := item.(string); ok && s != "" {
			out = append(out, s)
		}
	}
	return out
}

// NullableString returns a string for string values and "" for null or anything else.
func NullableString(v interface{}) string {
	s, _ := AsString(v)
	return s
}
