// Package records defines the generic row representation shared by parsers
// and loaders. A Record maps canonical column names to loosely typed values;
// typed accessors do best-effort conversion from the string forms that file
// parsers produce.
package records

import (
	"strconv"
	"strings"
	"time"
)

// Record is one parsed row keyed by canonical column name. Values are nil,
// string, or an already-coerced Go type (int, float64, bool, time.Time).
type Record map[string]any

// String returns the value under key as a string. Missing keys and nil
// values report ok=false.
func (r Record) String(key string) (string, bool) {
	v, ok := r[key]
	if !ok || v == nil {
		return "", false
	}
	if s, ok := v.(string); ok {
		return s, true
	}
	return "", false
}

// Int returns the value under key as an int, parsing string values when
// necessary.
func (r Record) Int(key string) (int, bool) {
	switch v := r[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	case string:
		s := strings.TrimSpace(v)
		if n, err := strconv.Atoi(s); err == nil {
			return n, true
		}
		// Spreadsheet exports often render integers as "3.0".
		if f, err := strconv.ParseFloat(s, 64); err == nil && f == float64(int(f)) {
			return int(f), true
		}
	}
	return 0, false
}

// Float returns the value under key as a float64, parsing string values when
// necessary.
func (r Record) Float(key string) (float64, bool) {
	switch v := r[key].(type) {
	case float64:
		return v, true
	case int:
		return float64(v), true
	case string:
		if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
			return f, true
		}
	}
	return 0, false
}

// Time returns the value under key as a time.Time. String values are tried
// against layouts in order; the first parse wins.
func (r Record) Time(key string, layouts ...string) (time.Time, bool) {
	switch v := r[key].(type) {
	case time.Time:
		return v, true
	case string:
		s := strings.TrimSpace(v)
		for _, layout := range layouts {
			if t, err := time.Parse(layout, s); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

// Empty reports whether every value in the record is nil or an empty string.
func (r Record) Empty() bool {
	for _, v := range r {
		if v == nil {
			continue
		}
		if s, ok := v.(string); ok && strings.TrimSpace(s) == "" {
			continue
		}
		return false
	}
	return true
}
