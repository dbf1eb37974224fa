package fieldpath

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/beatforge/fieldgate/internal/rules"
	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

func TestSet_WritesThroughCopyContainers(t *testing.T) {
	r := root{X: 1, Mode: modeA, Sub: sub{Y: 2}}
	p := mustLookup(t, r, "Sub.Y")

	// The root is held behind a getter/setter pair, as an editor would bind
	// a property.
	holder := struct{ r root }{r: r}
	ref := NewRef(func() root { return holder.r }, func(v root) { holder.r = v })

	if err := Set(p, ref, 99); err != nil {
		t.Fatalf("Set() error = %v, want nil", err)
	}
	if holder.r.Sub.Y != 99 {
		t.Errorf("Sub.Y = %d, want 99", holder.r.Sub.Y)
	}
	if holder.r.X != 1 || holder.r.Mode != modeA {
		t.Errorf("siblings changed: %+v", holder.r)
	}
	if r.Sub.Y != 2 {
		t.Errorf("original value changed: Sub.Y = %d", r.Sub.Y)
	}

	got, err := Get(p, ref.Value())
	if err != nil {
		t.Fatalf("Get() error = %v, want nil", err)
	}
	if got != 99 {
		t.Errorf("Get() = %v, want 99", got)
	}
}

func TestSet_Containers(t *testing.T) {
	tests := []struct {
		name   string
		dotted string
		value  any
		check  func(o outer) any
	}{
		{"root field", "Name", "boss", func(o outer) any { return o.Name }},
		{"two copy levels", "Middle.Leaf.Value", 1.5, func(o outer) any { return o.Middle.Leaf.Value }},
		{"pointer container", "Middle.Ptr.Label", "p", func(o outer) any { return o.Middle.Ptr.Label }},
		{"interface container", "Any.Value", 2.5, func(o outer) any { return o.Any.(leaf).Value }},
		{"copy container itself", "Middle.Leaf", leaf{Label: "whole"}, func(o outer) any { return o.Middle.Leaf.Label }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := outer{Middle: middle{Ptr: &leaf{}}, Any: leaf{}}
			p := mustLookup(t, o, tt.dotted)
			if err := SetAt(p, &o, tt.value); err != nil {
				t.Fatalf("SetAt(%s) error = %v, want nil", tt.dotted, err)
			}
			want := tt.value
			if l, ok := want.(leaf); ok {
				want = l.Label
			}
			if got := tt.check(o); got != want {
				t.Errorf("%s = %v, want %v", tt.dotted, got, want)
			}
		})
	}
}

func TestSet_PointerAndInterfaceRoots(t *testing.T) {
	p := mustLookup(t, root{Mode: modeA}, "Sub.Y")

	ptr := &root{Mode: modeA}
	if err := SetAt(p, &ptr, 7); err != nil {
		t.Fatalf("SetAt(pointer root) error = %v, want nil", err)
	}
	if ptr.Sub.Y != 7 {
		t.Errorf("pointer root Sub.Y = %d, want 7", ptr.Sub.Y)
	}

	var boxed any = root{Mode: modeA}
	if err := SetAt(p, &boxed, 8); err != nil {
		t.Fatalf("SetAt(interface root) error = %v, want nil", err)
	}
	if got := boxed.(root).Sub.Y; got != 8 {
		t.Errorf("interface root Sub.Y = %d, want 8", got)
	}
}

func TestSet_Errors(t *testing.T) {
	p := mustLookup(t, root{Mode: modeA}, "Sub.Y")

	tests := []struct {
		name    string
		root    any
		value   any
		wantErr error
	}{
		{"wrong value type", root{}, "seven", types.ErrTypeMismatch},
		{"no implicit conversion", root{}, int64(7), types.ErrTypeMismatch},
		{"nil for non-nillable", root{}, nil, types.ErrTypeMismatch},
		{"different root type", outer{}, 7, types.ErrSchemaMismatch},
		{"nil root", nil, 7, types.ErrNilRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := tt.root
			err := SetAt(p, &r, tt.value)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SetAt() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSet_FailureLeavesSharedContainersUntouched(t *testing.T) {
	shared := &leaf{Label: "before"}
	o := outer{Middle: middle{Ptr: shared}}
	p := mustLookup(t, o, "Middle.Ptr.Value")

	calls := 0
	ref := NewRef(func() outer { return o }, func(outer) { calls++ })
	if err := Set(p, ref, "not a float"); !errors.Is(err, types.ErrTypeMismatch) {
		t.Fatalf("Set() error = %v, want ErrTypeMismatch", err)
	}
	if calls != 0 {
		t.Errorf("setter called %d times after failed Set", calls)
	}
	if *shared != (leaf{Label: "before"}) {
		t.Errorf("shared container mutated: %+v", *shared)
	}
}

func TestSet_NilIntermediate(t *testing.T) {
	o := outer{Middle: middle{Ptr: &leaf{}}}
	p := mustLookup(t, o, "Middle.Ptr.Value")

	o.Middle.Ptr = nil
	if err := SetAt(p, &o, 1.0); err == nil {
		t.Errorf("SetAt() through nil pointer error = nil, want error")
	}
}

func TestGet_Errors(t *testing.T) {
	p := mustLookup(t, root{Mode: modeA}, "Sub.Y")
	if _, err := Get(p, outer{}); !errors.Is(err, types.ErrSchemaMismatch) {
		t.Errorf("Get(outer) error = %v, want ErrSchemaMismatch", err)
	}
	if _, err := Get(p, nil); !errors.Is(err, types.ErrSchemaMismatch) {
		t.Errorf("Get(nil) error = %v, want ErrSchemaMismatch", err)
	}
}

func TestSetGet_Properties(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	leafValue := mustLookup(t, outer{}, "Middle.Leaf.Value")
	count := mustLookup(t, outer{}, "Middle.Count")
	name := mustLookup(t, outer{}, "Name")

	properties.Property("get after set returns the written value", prop.ForAll(
		func(start, v float64) bool {
			o := outer{Middle: middle{Leaf: leaf{Value: start}}}
			if err := SetAt(leafValue, &o, v); err != nil {
				return false
			}
			got, err := Get(leafValue, o)
			return err == nil && got == v
		},
		gen.Float64Range(-1e6, 1e6),
		gen.Float64Range(-1e6, 1e6),
	))

	properties.Property("setting the current value changes nothing", prop.ForAll(
		func(c int, n string) bool {
			o := outer{Name: n, Middle: middle{Count: c, Leaf: leaf{Label: n}}}
			before := o
			current, err := Get(count, o)
			if err != nil {
				return false
			}
			if err := SetAt(count, &o, current); err != nil {
				return false
			}
			return reflect.DeepEqual(before, o)
		},
		gen.Int(),
		gen.AlphaString(),
	))

	properties.Property("set touches no other exposed field", prop.ForAll(
		func(c int, n, newName string) bool {
			o := outer{Name: n, Middle: middle{Count: c, Leaf: leaf{Label: n, Value: float64(c)}}}
			if err := SetAt(name, &o, newName); err != nil {
				return false
			}
			return o.Name == newName &&
				o.Middle.Count == c &&
				o.Middle.Leaf.Label == n &&
				o.Middle.Leaf.Value == float64(c)
		},
		gen.Int(),
		gen.AlphaString(),
		gen.AlphaString(),
	))

	properties.TestingRun(t)
}

// shape describes a generated outer: which optional containers are present
// and what the leaves hold.
type shape struct {
	value  float64
	label  string
	count  int
	name   string
	ptr    bool
	anyCtr int // 0: nil, 1: leaf value, 2: *leaf
}

func (s shape) build() outer {
	o := outer{
		Name:   s.name,
		Middle: middle{Leaf: leaf{Value: s.value, Label: s.label, Hidden: s.count}, Count: s.count},
	}
	if s.ptr {
		o.Middle.Ptr = &leaf{Value: -s.value, Label: s.label + "p"}
	}
	switch s.anyCtr {
	case 1:
		o.Any = leaf{Value: s.value + 1, Label: s.label + "a"}
	case 2:
		o.Any = &leaf{Value: s.value + 2, Label: s.label + "b"}
	}
	return o
}

func genShape() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(-1e6, 1e6),
		gen.AlphaString(),
		gen.IntRange(-1000, 1000),
		gen.AlphaString(),
		gen.Bool(),
		gen.IntRange(0, 2),
	).Map(func(v []any) shape {
		return shape{
			value:  v[0].(float64),
			label:  v[1].(string),
			count:  v[2].(int),
			name:   v[3].(string),
			ptr:    v[4].(bool),
			anyCtr: v[5].(int),
		}
	})
}

// walk follows p field by field with plain reflection.
func walk(p *Path, root any) (any, bool) {
	v := reflect.ValueOf(root)
	for _, f := range p.Fields() {
		v = schema.Resolve(v)
		if !v.IsValid() {
			return nil, false
		}
		v = v.Field(f.Index)
	}
	return v.Interface(), true
}

// related reports whether one dotted path is the other or an ancestor of it.
func related(a, b string) bool {
	return a == b || strings.HasPrefix(b, a+".") || strings.HasPrefix(a, b+".")
}

// changed returns a value of t that differs from current where t is
// primitive, and the zero value otherwise.
func changed(t reflect.Type, current any) any {
	cur := reflect.ValueOf(current)
	switch t.Kind() {
	case reflect.Int:
		return reflect.ValueOf(cur.Int() + 1).Convert(t).Interface()
	case reflect.Float64:
		return reflect.ValueOf(cur.Float() + 1).Convert(t).Interface()
	case reflect.String:
		return reflect.ValueOf(cur.String() + "x").Convert(t).Interface()
	}
	return reflect.Zero(t).Interface()
}

func TestEnumeratedPaths_Properties(t *testing.T) {
	engine := rules.NewEngine()
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	properties.Property("get matches a reflection walk on every enumerated path", prop.ForAll(
		func(s shape) bool {
			o := s.build()
			paths, err := Enumerate(engine, o)
			if err != nil || len(paths) == 0 {
				return false
			}
			for _, p := range paths {
				got, err := Get(p, o)
				if err != nil {
					return false
				}
				want, ok := walk(p, o)
				if !ok || !reflect.DeepEqual(got, want) {
					return false
				}
			}
			return true
		},
		genShape(),
	))

	properties.Property("set on one path leaves every unrelated path unchanged", prop.ForAll(
		func(s shape) bool {
			paths, err := Enumerate(engine, s.build())
			if err != nil {
				return false
			}
			for _, pa := range paths {
				o := s.build()
				current, err := Get(pa, o)
				if err != nil {
					return false
				}
				v := changed(pa.Type(), current)
				if err := SetAt(pa, &o, v); err != nil {
					return false
				}
				if got, err := Get(pa, o); err != nil || !reflect.DeepEqual(got, v) {
					return false
				}

				untouched := s.build()
				for _, pb := range paths {
					if related(pa.String(), pb.String()) {
						continue
					}
					got, err := Get(pb, o)
					if err != nil {
						return false
					}
					want, _ := Get(pb, untouched)
					if !reflect.DeepEqual(got, want) {
						return false
					}
				}
			}
			return true
		},
		genShape(),
	))

	properties.TestingRun(t)
}
