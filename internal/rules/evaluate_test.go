package rules

import (
	"reflect"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

func field(t *testing.T, typ reflect.Type, name string) *schema.Field {
	t.Helper()
	f, ok := schema.Of(typ).Lookup(name)
	if !ok {
		t.Fatalf("%s has no field %s", typ, name)
	}
	return f
}

func TestIsAccessible_TagRules(t *testing.T) {
	typ := reflect.TypeFor[ruled]()
	engine := NewEngine()

	tests := []struct {
		name     string
		field    string
		instance ruled
		want     bool
	}{
		{"no rules hides field", "Plain", ruled{}, false},
		{"always exposes field", "Shown", ruled{}, true},
		{"never hides field", "Hidden", ruled{}, false},
		{"repeated never hides field", "HiddenTwo", ruled{}, false},
		{"never does not stop later always", "Overridden", ruled{}, true},
		{"conditional matches", "OnLevel", ruled{Level: 5}, true},
		{"conditional differs", "OnLevel", ruled{Level: 4}, false},
		{"first alternative matches", "OnEither", ruled{Level: 1}, true},
		{"second alternative matches", "OnEither", ruled{Level: 2}, true},
		{"no alternative matches", "OnEither", ruled{Level: 3}, false},
		{"bool literal", "OnEnabled", ruled{Enabled: true}, true},
		{"bool literal differs", "OnEnabled", ruled{Enabled: false}, false},
		{"string literal", "OnName", ruled{Name: "boss"}, true},
		{"string literal differs", "OnName", ruled{Name: "note"}, false},
		{"nil literal with nil pointer", "OnNilOwner", ruled{}, true},
		{"nil literal with set pointer", "OnNilOwner", ruled{Owner: &sub{}}, false},
		{"missing sibling falls through", "Broken", ruled{}, false},
		{"uncoercible literal falls through", "BadLiteral", ruled{}, false},
		{"unknown declaration ignored", "Unknown", ruled{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := field(t, typ, tt.field)
			if got := engine.IsAccessible(tt.instance, f); got != tt.want {
				t.Errorf("IsAccessible(%s) = %v, want %v", tt.field, got, tt.want)
			}
			// Pointer and value instances are interchangeable.
			if got := engine.IsAccessible(&tt.instance, f); got != tt.want {
				t.Errorf("IsAccessible(&%s) = %v, want %v", tt.field, got, tt.want)
			}
		})
	}
}

func TestIsAccessible_ConditionalFlip(t *testing.T) {
	engine := NewEngine()
	f := field(t, reflect.TypeFor[root](), "Sub")

	r := root{Mode: modeA}
	if !engine.IsAccessible(r, f) {
		t.Fatalf("IsAccessible(Sub) with Mode=A = false, want true")
	}
	r.Mode = modeB
	if engine.IsAccessible(r, f) {
		t.Errorf("IsAccessible(Sub) with Mode=B = true, want false")
	}
}

func TestIsAccessible_NilInstance(t *testing.T) {
	engine := NewEngine()
	typ := reflect.TypeFor[ruled]()

	if !engine.IsAccessible((*ruled)(nil), field(t, typ, "Shown")) {
		t.Errorf("IsAccessible(nil, Shown) = false, want true")
	}
	if engine.IsAccessible((*ruled)(nil), field(t, typ, "OnLevel")) {
		t.Errorf("IsAccessible(nil, OnLevel) = true, want false")
	}
}

func TestRegister(t *testing.T) {
	typ := reflect.TypeFor[ruled]()

	t.Run("appends after tag rules", func(t *testing.T) {
		engine := NewEngine()
		f := field(t, typ, "Hidden")
		if engine.IsAccessible(ruled{}, f) {
			t.Fatalf("IsAccessible(Hidden) = true before registration")
		}
		if err := engine.Register(typ, "Hidden", types.Always()); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}
		if !engine.IsAccessible(ruled{}, f) {
			t.Errorf("IsAccessible(Hidden) = false after registering Always")
		}
		rules := engine.Rules(f)
		if len(rules) != 2 || rules[0].Kind != types.AccessNever || rules[1].Kind != types.AccessAlways {
			t.Errorf("Rules(Hidden) = %v, want [never always]", rules)
		}
	})

	t.Run("typed conditional", func(t *testing.T) {
		engine := NewEngine()
		if err := engine.Register(typ, "Plain", types.WhenValue("Level", 7)); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}
		f := field(t, typ, "Plain")
		if !engine.IsAccessible(ruled{Level: 7}, f) {
			t.Errorf("IsAccessible(Plain) with Level=7 = false, want true")
		}
	})

	t.Run("sibling type must match declared type", func(t *testing.T) {
		engine := NewEngine()
		// Level is declared int; an int64 rule never matches it.
		if err := engine.Register(typ, "Plain", types.WhenValue("Level", int64(7))); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}
		if engine.IsAccessible(ruled{Level: 7}, field(t, typ, "Plain")) {
			t.Errorf("IsAccessible(Plain) = true, want false for mismatched sibling type")
		}
	})

	t.Run("separate engines do not share registrations", func(t *testing.T) {
		a := NewEngine()
		b := NewEngine()
		if err := a.Register(typ, "Plain", types.Always()); err != nil {
			t.Fatalf("Register() error = %v, want nil", err)
		}
		if b.IsAccessible(ruled{}, field(t, typ, "Plain")) {
			t.Errorf("engine b sees engine a's registration")
		}
	})

	errorCases := []struct {
		name  string
		owner reflect.Type
		field string
		rule  types.AccessRule
	}{
		{"non-struct owner", reflect.TypeFor[int](), "X", types.Always()},
		{"unknown field", typ, "Nope", types.Always()},
		{"conditional without type", typ, "Plain", types.AccessRule{Kind: types.AccessConditional, SiblingName: "Level"}},
		{"conditional without name", typ, "Plain", types.AccessRule{Kind: types.AccessConditional, SiblingType: reflect.TypeFor[int]()}},
	}
	for _, tt := range errorCases {
		t.Run(tt.name, func(t *testing.T) {
			err := NewEngine().Register(tt.owner, tt.field, tt.rule)
			if err == nil {
				t.Fatalf("Register() error = nil, want ErrInvalidRule")
			}
		})
	}
}

func TestAccessibleFields(t *testing.T) {
	engine := NewEngine()
	got := engine.AccessibleFields(ruled{Level: 5, Enabled: true})

	var names []string
	for _, f := range got {
		names = append(names, f.Name)
	}
	want := []string{"Shown", "Overridden", "OnLevel", "OnEnabled", "OnNilOwner"}
	if !reflect.DeepEqual(names, want) {
		t.Errorf("AccessibleFields() = %v, want %v", names, want)
	}

	if engine.AccessibleFields(42) != nil {
		t.Errorf("AccessibleFields(int) = non-nil, want nil")
	}
}

// Property-based test: a conditional grants access iff the sibling equals the value
func TestIsAccessible_PropertyConditional(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	typ := reflect.TypeFor[ruled]()
	plain, _ := schema.Of(typ).Lookup("Plain")

	properties.Property("conditional tracks sibling value", prop.ForAll(
		func(level int, required int) bool {
			engine := NewEngine()
			if err := engine.Register(typ, "Plain", types.WhenValue("Level", required)); err != nil {
				return false
			}
			return engine.IsAccessible(ruled{Level: level}, plain) == (level == required)
		},
		gen.IntRange(-5, 5),
		gen.IntRange(-5, 5),
	))

	properties.TestingRun(t)
}

// Property-based test: Always wins regardless of position and other rules
func TestIsAccessible_PropertyAlwaysWins(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100
	properties := gopter.NewProperties(parameters)

	typ := reflect.TypeFor[ruled]()
	plain, _ := schema.Of(typ).Lookup("Plain")

	properties.Property("always grants access", prop.ForAll(
		func(before int, after int, level int) bool {
			var rules []types.AccessRule
			for i := 0; i < before; i++ {
				rules = append(rules, types.Never(), types.WhenValue("Level", level+1))
			}
			rules = append(rules, types.Always())
			for i := 0; i < after; i++ {
				rules = append(rules, types.Never())
			}
			engine := NewEngine()
			if err := engine.Register(typ, "Plain", rules...); err != nil {
				return false
			}
			return engine.IsAccessible(ruled{Level: level}, plain)
		},
		gen.IntRange(0, 4),
		gen.IntRange(0, 4),
		gen.Int(),
	))

	properties.Property("never-only fields stay hidden", prop.ForAll(
		func(count int, level int) bool {
			rules := make([]types.AccessRule, count)
			for i := range rules {
				rules[i] = types.Never()
			}
			engine := NewEngine()
			if err := engine.Register(typ, "Plain", rules...); err != nil {
				return false
			}
			return !engine.IsAccessible(ruled{Level: level}, plain)
		},
		gen.IntRange(1, 5),
		gen.Int(),
	))

	properties.TestingRun(t)
}
