// Package records defines the loosely typed row representation shared by the
// parser and transformer stages. A Record is a field-name → value map; values
// are strings as parsed, or typed values after coercion. nil marks an absent
// or empty cell.
package records

import "strconv"

// Record is one parsed input row keyed by canonical field name.
type Record map[string]any

// String returns the string value for key, or "" when the field is missing,
// nil, or not a string.
func (r Record) String(key string) string {
	if v, ok := r[key]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// Has reports whether key is present with a non-nil, non-empty value.
func (r Record) Has(key string) bool {
	v, ok := r[key]
	if !ok || v == nil {
		return false
	}
	if s, ok := v.(string); ok && s == "" {
		return false
	}
	return true
}

// Float returns the float64 value for key. Strings are parsed; missing or
// unparseable values return (0, false).
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}

// Int returns the int value for key. Strings are parsed; missing or
// unparseable values return (0, false).
func (r Record) Int(key string) (int, bool) {
	switch v := r[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		n, err := strconv.Atoi(v)
		if err != nil {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
