// Package schema describes the declared fields of Go struct types.
//
// A Descriptor lists the exported fields of one struct type in declaration
// order; each Field can read and write its slot on an instance of that type.
// Descriptors are built lazily on first use and cached for the lifetime of
// the process. They are immutable once published, so concurrent readers
// need no locking.
package schema

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/beatforge/fieldgate/internal/types"
)

// Descriptor is the ordered set of declared fields of a struct type.
type Descriptor struct {
	Type   reflect.Type
	Fields []*Field
	byName map[string]*Field
}

// Lookup returns the declared field with the given name.
func (d *Descriptor) Lookup(name string) (*Field, bool) {
	f, ok := d.byName[name]
	return f, ok
}

var cache sync.Map // reflect.Type -> *Descriptor

// Of returns the descriptor of t, dereferencing pointer types. It returns nil
// when t does not resolve to a struct type.
func Of(t reflect.Type) *Descriptor {
	t = Indirect(t)
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	if d, ok := cache.Load(t); ok {
		return d.(*Descriptor)
	}
	// Concurrent first callers may both build; LoadOrStore publishes one.
	d, _ := cache.LoadOrStore(t, build(t))
	return d.(*Descriptor)
}

// OfValue returns the descriptor of the runtime type held by v, following
// pointers and interfaces. It returns nil for nil values and non-structs.
func OfValue(v reflect.Value) *Descriptor {
	v = Resolve(v)
	if !v.IsValid() {
		return nil
	}
	return Of(v.Type())
}

func build(t reflect.Type) *Descriptor {
	d := &Descriptor{
		Type:   t,
		Fields: make([]*Field, 0, t.NumField()),
		byName: make(map[string]*Field, t.NumField()),
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}
		f := &Field{
			Owner:     t,
			Name:      sf.Name,
			Type:      sf.Type,
			Index:     i,
			Tag:       sf.Tag,
			semantics: Classify(sf.Type),
		}
		d.Fields = append(d.Fields, f)
		d.byName[f.Name] = f
	}
	return d
}

// Indirect strips pointer levels from t.
func Indirect(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t
}

// Resolve follows pointers and interfaces until it reaches a concrete
// non-pointer value. It returns the zero Value when a nil is encountered.
func Resolve(v reflect.Value) reflect.Value {
	for v.IsValid() && (v.Kind() == reflect.Pointer || v.Kind() == reflect.Interface) {
		if v.IsNil() {
			return reflect.Value{}
		}
		v = v.Elem()
	}
	return v
}

// owner resolves v to a struct value of type t.
func owner(v reflect.Value, t reflect.Type) (reflect.Value, error) {
	v = Resolve(v)
	if !v.IsValid() {
		return reflect.Value{}, fmt.Errorf("%w: nil container for %s", types.ErrSchemaMismatch, t)
	}
	if v.Type() != t {
		return reflect.Value{}, fmt.Errorf("%w: expected %s, got %s", types.ErrSchemaMismatch, t, v.Type())
	}
	return v, nil
}
