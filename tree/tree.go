// Package tree provides the plain-data vocabulary shared by the backup,
// history and diff layers.
//
// A tree value is built from map[string]any, []any and the scalar types
// that JSON and YAML decoders produce: string, bool, nil and numbers.
// Numbers compare by value across Go kinds, so an int 3 read from live
// state equals the float64 3 read back from an encoded snapshot.
//
// Values outside this vocabulary are treated as atomic: cloned by
// assignment, compared with reflect.DeepEqual and replaced wholesale by
// diffs.
package tree

import (
	"encoding/json"
	"maps"
	"reflect"
	"slices"
)

// Clone returns a deep copy of v. Maps and slices are copied
// recursively, everything else is copied by assignment.
func Clone(v any) any {
	switch t := v.(type) {
	case map[string]any:
		res := make(map[string]any, len(t))
		for k, e := range t {
			res[k] = Clone(e)
		}
		return res
	case []any:
		res := make([]any, len(t))
		for i, e := range t {
			res[i] = Clone(e)
		}
		return res
	default:
		return v
	}
}

// Equal reports whether a and b are structurally equal tree values.
func Equal(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if fa, ok := Number(a); ok {
		fb, ok := Number(b)
		return ok && fa == fb
	}
	switch ta := a.(type) {
	case map[string]any:
		tb, ok := b.(map[string]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for k, va := range ta {
			vb, ok := tb[k]
			if !ok || !Equal(va, vb) {
				return false
			}
		}
		return true
	case []any:
		tb, ok := b.([]any)
		if !ok || len(ta) != len(tb) {
			return false
		}
		for i := range ta {
			if !Equal(ta[i], tb[i]) {
				return false
			}
		}
		return true
	case string:
		tb, ok := b.(string)
		return ok && ta == tb
	case bool:
		tb, ok := b.(bool)
		return ok && ta == tb
	default:
		return reflect.DeepEqual(a, b)
	}
}

// Merge returns a copy of base with the top-level entries of over
// written over it. The result is a fresh map; values are shared by
// reference. Neither input is modified.
func Merge(base, over map[string]any) map[string]any {
	res := make(map[string]any, len(base)+len(over))
	for k, v := range base {
		res[k] = v
	}
	for k, v := range over {
		res[k] = v
	}
	return res
}

// Keys returns the keys of m in sorted order.
func Keys(m map[string]any) []string {
	return slices.Sorted(maps.Keys(m))
}

// Number reports whether v is a numeric value and returns it as a
// float64. json.Number values count as numeric when they parse.
func Number(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float32:
		return float64(n), true
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
