package util

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Guards for narrowing untyped JSON values. Each returns the narrowed value
// and whether the input had that shape; none of them panic or error.

// AsRecord narrows v to a JSON object (any non-nil key/value container).
func AsRecord(v any) (map[string]any, bool) {
	rec, ok := v.(map[string]any)
	if !ok || rec == nil {
		return nil, false
	}
	return rec, true
}

// AsArray narrows v to a JSON array, returned as-is.
func AsArray(v any) ([]any, bool) {
	arr, ok := v.([]any)
	if !ok {
		return nil, false
	}
	return arr, true
}

// AsString narrows v to a string.
func AsString(v any) (string, bool) {
	s, ok := v.(string)
	return s, ok
}

// AsNumber narrows v to a finite float64. A string holding a number is
// accepted after trimming, which absorbs APIs that serialize numeric fields
// as strings.
func AsNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, isFinite(n)
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil && isFinite(f)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		return f, isFinite(f)
	default:
		return 0, false
	}
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Field helpers returning nil for absent or invalid values, so optional
// fields degrade instead of failing a parse.

func NumField(rec map[string]any, key string) *float64 {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	n, ok := AsNumber(v)
	if !ok {
		return nil
	}
	return &n
}

func StrField(rec map[string]any, key string) *string {
	v, ok := rec[key]
	if !ok {
		return nil
	}
	s, ok := AsString(v)
	if !ok {
		return nil
	}
	return &s
}

func RecField(rec map[string]any, key string) (map[string]any, bool) {
	v, ok := rec[key]
	if !ok {
		return nil, false
	}
	return AsRecord(v)
}

func ArrField(rec map[string]any, key string) ([]any, bool) {
	v, ok := rec[key]
	if !ok {
		return nil, false
	}
	return AsArray(v)
}
