// internal/rules/operators.go
package rules

import (
	"reflect"
)

/*
 * Typed equality for conditional rules.
 *
 * A conditional rule grants access when the sibling field's value equals the
 * rule value under the sibling's declared type:
 *   - different dynamic types never compare equal (no numeric widening)
 *   - booleans, numbers and strings (and named types over them) use ==
 *   - everything else compares structurally via reflect.DeepEqual, so two
 *     distinct pointers to equal structs are equal
 *   - interface-typed siblings compare by the value they hold
 *   - a nil rule value matches only a nil sibling
 */

// Equal reports whether v holds a value equal to want.
func Equal(v reflect.Value, want any) bool {
	if v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			v = reflect.Value{}
		} else {
			v = v.Elem()
		}
	}

	w := reflect.ValueOf(want)
	if !w.IsValid() {
		return isNil(v)
	}
	if !v.IsValid() {
		return false
	}
	if v.Type() != w.Type() {
		return false
	}
	if isBasic(v.Kind()) {
		return v.Equal(w)
	}
	return reflect.DeepEqual(v.Interface(), want)
}

// isNil reports whether v is absent or a nil reference.
func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return v.IsNil()
	default:
		return false
	}
}

// isBasic reports whether values of kind k compare with ==.
func isBasic(k reflect.Kind) bool {
	switch k {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128,
		reflect.String:
		return true
	default:
		return false
	}
}
