// internal/fieldpath/enumerate.go
package fieldpath

import (
	"fmt"
	"reflect"

	"github.com/beatforge/fieldgate/internal/rules"
	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

/*
 * Breadth-first enumeration of exposed fields.
 *
 * Produces a Path for every field that is exposed on its owning instance and
 * reachable from the root through exposed fields.
 *
 * Enumeration workflow:
 *   1. Seed: evaluate every declared field of the root's runtime type
 *   2. Each exposed field is appended to the output in discovery order
 *   3. Non-primitive exposed fields are queued with their current value
 *   4. Dequeue: resolve the value through pointers/interfaces; nil or
 *      non-struct values have no children; otherwise repeat 2-3 with the
 *      value as owning instance
 *
 * All fields of one owner are emitted before any of their children, so the
 * output order is stable for the same instance and schema.
 *
 * Cycle guard: objects reached through pointers on the current chain are
 * tracked by (pointee type, address); reaching the same object again returns
 * ErrCyclicSchema. Depth beyond the limit (MaxPathDepth unless WithMaxDepth
 * says otherwise) returns ErrPathTooDeep. Finite self-referential types
 * (linked lists) are fine.
 */

// object identifies a pointee: the same address may hold a struct and, at
// offset zero, its first field.
type object struct {
	typ  reflect.Type
	addr uintptr
}

type pending struct {
	path  *Path
	value reflect.Value
	seen  []object // objects on the chain from the root
}

type options struct {
	maxDepth int
}

// Option configures Enumerate.
type Option func(*options)

// WithMaxDepth bounds path depth. n <= 0 removes the bound; cycles are still
// reported as ErrCyclicSchema.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// Enumerate returns the exposed field paths of root in breadth-first order.
func Enumerate(engine *rules.Engine, root any, opts ...Option) ([]*Path, error) {
	cfg := options{maxDepth: types.MaxPathDepth}
	for _, opt := range opts {
		opt(&cfg)
	}

	rv := reflect.ValueOf(root)
	var out []*Path
	var queue []pending

	visit := func(parent *Path, owner reflect.Value, seen []object) error {
		d := schema.OfValue(owner)
		if d == nil {
			return nil
		}
		if parent != nil && cfg.maxDepth > 0 && parent.depth >= cfg.maxDepth {
			return fmt.Errorf("%w: %s", types.ErrPathTooDeep, parent)
		}
		if id, ok := identity(owner); ok {
			for _, s := range seen {
				if s == id {
					return fmt.Errorf("%w: at %s", types.ErrCyclicSchema, parent)
				}
			}
			seen = append(seen[:len(seen):len(seen)], id)
		}
		resolved := schema.Resolve(owner)

		for _, f := range d.Fields {
			if !engine.IsAccessibleValue(resolved, f) {
				continue
			}
			var p *Path
			if parent == nil {
				p = New(f)
			} else {
				p = parent.Extend(f)
			}
			out = append(out, p)

			if !f.Expandable() {
				continue
			}
			child, err := f.Get(resolved)
			if err != nil {
				return err
			}
			queue = append(queue, pending{path: p, value: child, seen: seen})
		}
		return nil
	}

	if err := visit(nil, rv, nil); err != nil {
		return nil, err
	}
	for len(queue) > 0 {
		front := queue[0]
		queue = queue[1:]
		if err := visit(front.path, front.value, front.seen); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// identity returns the pointee type and address of the object a pointer
// (possibly behind interfaces) refers to. Plain struct values have no
// identity.
func identity(v reflect.Value) (object, bool) {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return object{}, false
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Kind() != reflect.Pointer || v.IsNil() {
		return object{}, false
	}
	for v.Kind() == reflect.Pointer && !v.IsNil() && v.Elem().Kind() == reflect.Pointer {
		v = v.Elem()
	}
	return object{typ: v.Type().Elem(), addr: v.Pointer()}, true
}
