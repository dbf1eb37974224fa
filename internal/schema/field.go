package schema

import (
	"fmt"
	"reflect"

	"github.com/beatforge/fieldgate/internal/types"
)

// Field is a declared exported field of a struct type.
// Identity is per (Owner, Name); the same *Field is returned for every lookup.
type Field struct {
	Owner     reflect.Type      // declaring struct type
	Name      string            // field name
	Type      reflect.Type      // declared field type
	Index     int               // index within Owner
	Tag       reflect.StructTag // raw struct tag
	semantics Semantics
}

// Semantics reports whether the field's declared type is primitive,
// copy-semantics, or reference-semantics.
func (f *Field) Semantics() Semantics {
	return f.semantics
}

// Expandable reports whether enumeration may descend into the field.
func (f *Field) Expandable() bool {
	return f.semantics != Primitive
}

// String returns Owner.Name.
func (f *Field) String() string {
	return f.Owner.String() + "." + f.Name
}

// Get reads the field from container, which must be (or point to) a value of
// the field's owner type. The returned value is not addressable when the
// container is a copy; callers needing to mutate it must copy it first.
func (f *Field) Get(container reflect.Value) (reflect.Value, error) {
	v, err := owner(container, f.Owner)
	if err != nil {
		return reflect.Value{}, fmt.Errorf("get %s: %w", f, err)
	}
	return v.Field(f.Index), nil
}

// Set writes value into the field of container. The container must be a
// pointer to, or an addressable value of, the owner type. Value must be
// assignable to the declared field type.
func (f *Field) Set(container, value reflect.Value) error {
	v, err := owner(container, f.Owner)
	if err != nil {
		return fmt.Errorf("set %s: %w", f, err)
	}
	slot := v.Field(f.Index)
	if !slot.CanSet() {
		return fmt.Errorf("set %s: %w: container is not addressable", f, types.ErrSchemaMismatch)
	}
	assigned, err := Assignable(value, f.Type)
	if err != nil {
		return fmt.Errorf("set %s: %w", f, err)
	}
	slot.Set(assigned)
	return nil
}

// Assignable returns value in a form storable in a slot of type t.
// An invalid value (untyped nil) becomes the zero value of a nillable t.
// No implicit conversions are performed: an int is not stored in a float64.
func Assignable(value reflect.Value, t reflect.Type) (reflect.Value, error) {
	if !value.IsValid() {
		if Nillable(t) {
			return reflect.Zero(t), nil
		}
		return reflect.Value{}, fmt.Errorf("%w: nil for %s", types.ErrTypeMismatch, t)
	}
	if !value.Type().AssignableTo(t) {
		return reflect.Value{}, fmt.Errorf("%w: %s is not assignable to %s", types.ErrTypeMismatch, value.Type(), t)
	}
	return value, nil
}

// Nillable reports whether nil is a valid value of t.
func Nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Chan, reflect.Func:
		return true
	default:
		return false
	}
}
