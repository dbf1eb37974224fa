// internal/fieldpath/access.go
package fieldpath

import (
	"fmt"
	"reflect"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

/*
 * Path-addressed reads and writes.
 *
 * Get replays the chain root-to-leaf reading each field off the previous
 * result.
 *
 * Set must respect copy semantics: reading a struct field yields a copy, so a
 * write into that copy reaches the enclosing value only if it is written back.
 *
 * Set workflow:
 *   1. Snapshot the root through the caller's Ref and make it addressable
 *   2. Walk every field except the last, recording (container, field,
 *      child) for each step; copy-semantics children become addressable
 *      copies, reference-semantics children are used as-is
 *   3. Check the new value against the leaf's declared type
 *   4. Write the leaf into the last container
 *   5. Write each recorded child back into its container, leaf to root
 *   6. Store the rebuilt root through the Ref
 *
 * Steps 1-3 only read. Any schema or type mismatch is reported before the
 * first write, so a failed Set never leaves a partial mutation behind, even
 * when a reference-semantics container is shared with the caller.
 */

// Ref is a get/set binding over the slot holding a root value.
type Ref[T any] struct {
	get func() T
	set func(T)
}

// NewRef returns a binding backed by the given accessor pair.
func NewRef[T any](get func() T, set func(T)) *Ref[T] {
	return &Ref[T]{get: get, set: set}
}

// PointerRef returns a binding over the variable p points to.
func PointerRef[T any](p *T) *Ref[T] {
	return &Ref[T]{
		get: func() T { return *p },
		set: func(v T) { *p = v },
	}
}

// Value returns the current root value.
func (r *Ref[T]) Value() T {
	return r.get()
}

// Get returns the value of the field addressed by p within root.
func Get(p *Path, root any) (any, error) {
	v, err := get(p, reflect.ValueOf(root))
	if err != nil {
		return nil, err
	}
	return v.Interface(), nil
}

// GetValue is Get for callers already holding a reflect.Value.
func GetValue(p *Path, root reflect.Value) (reflect.Value, error) {
	return get(p, root)
}

func get(p *Path, root reflect.Value) (reflect.Value, error) {
	current := root
	for _, f := range p.Fields() {
		next, err := f.Get(current)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("path %s: %w", p, err)
		}
		current = next
	}
	return current, nil
}

// step records one container boundary crossed on the way to the leaf.
type step struct {
	container reflect.Value
	field     *schema.Field
	child     reflect.Value
}

// Set stores value into the field addressed by p and writes the rebuilt root
// back through ref. It fails with ErrSchemaMismatch if the chain is not
// reachable from the current root, ErrTypeMismatch if value does not fit the
// leaf's declared type, and ErrNilRoot if the root binding is empty.
func Set[T any](p *Path, ref *Ref[T], value any) error {
	snapshot := ref.get()
	rootSlot := reflect.ValueOf(&snapshot).Elem()

	root, rebind, err := addressable(rootSlot)
	if err != nil {
		return fmt.Errorf("path %s: %w", p, err)
	}

	fields := p.Fields()
	steps := make([]step, 0, len(fields)-1)
	current := root
	for _, f := range fields[:len(fields)-1] {
		next, err := f.Get(current)
		if err != nil {
			return fmt.Errorf("path %s: %w", p, err)
		}
		child, _, err := addressable(next)
		if err != nil {
			return fmt.Errorf("path %s: at %s: %w", p, f.Name, types.ErrSchemaMismatch)
		}
		steps = append(steps, step{container: current, field: f, child: child})
		current = child
	}

	leaf := p.Field()
	if _, err := leaf.Get(current); err != nil {
		return fmt.Errorf("path %s: %w", p, err)
	}
	newValue, err := schema.Assignable(reflect.ValueOf(value), leaf.Type)
	if err != nil {
		return fmt.Errorf("path %s: %w", p, err)
	}

	if err := leaf.Set(current, newValue); err != nil {
		return fmt.Errorf("path %s: %w", p, err)
	}
	for i := len(steps) - 1; i >= 0; i-- {
		s := steps[i]
		if err := s.field.Set(s.container, s.child); err != nil {
			return fmt.Errorf("path %s: write back %s: %w", p, s.field.Name, err)
		}
	}

	rebind(rootSlot)
	ref.set(snapshot)
	return nil
}

// SetAt is Set over a root variable.
func SetAt[T any](p *Path, root *T, value any) error {
	return Set(p, PointerRef(root), value)
}

// addressable returns a value whose fields can be set in place, plus a
// function that stores it back into the slot it came from.
//
// Pointers are used directly (their targets are shared). Interfaces are
// unwrapped to the held value. Copy-semantics values are copied into a fresh
// variable. A nil pointer or nil interface cannot be descended into.
func addressable(v reflect.Value) (reflect.Value, func(slot reflect.Value), error) {
	if v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}, nil, types.ErrNilRoot
		}
		inner, _, err := addressable(v.Elem())
		if err != nil {
			return reflect.Value{}, nil, err
		}
		return inner, func(slot reflect.Value) { slot.Set(inner) }, nil
	}
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return reflect.Value{}, nil, types.ErrNilRoot
		}
		return v, func(reflect.Value) {}, nil
	}
	if v.CanSet() {
		return v, func(reflect.Value) {}, nil
	}
	c := reflect.New(v.Type()).Elem()
	c.Set(v)
	return c, func(slot reflect.Value) { slot.Set(c) }, nil
}
