package schema

import (
	"fmt"
	"reflect"
)

// Semantics classifies how values of a type behave on assignment.
type Semantics int

const (
	// Primitive types are leaves: booleans, numbers, strings, and named
	// enums built on them. Enumeration never expands them.
	Primitive Semantics = iota
	// Copy types are duplicated on assignment (structs, arrays). Mutating a
	// copy reaches the enclosing value only through explicit write-back.
	Copy
	// Reference types alias on assignment (pointers, maps, slices, interfaces).
	Reference
)

// String implements fmt.Stringer.
func (s Semantics) String() string {
	switch s {
	case Primitive:
		return "primitive"
	case Copy:
		return "copy"
	case Reference:
		return "reference"
	default:
		return fmt.Sprintf("Semantics(%d)", int(s))
	}
}

// Classify returns the semantics of t.
func Classify(t reflect.Type) Semantics {
	switch t.Kind() {
	case reflect.Struct, reflect.Array:
		return Copy
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.UnsafePointer:
		return Reference
	default:
		return Primitive
	}
}
