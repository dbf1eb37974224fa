// internal/rules/evaluate.go
package rules

import (
	"reflect"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

/*
 * Field accessibility evaluation.
 *
 * Decides whether a declared field is exposed on a given instance by walking
 * the field's rules in declaration order with OR semantics.
 *
 * Evaluation flow:
 *   1. No rules: hidden
 *   2. Always: exposed immediately (short-circuit)
 *   3. Never: grants nothing, continue with the next rule
 *   4. Conditional: scan the instance's own declared fields for one with the
 *      rule's sibling type and name; exposed if its current value equals the
 *      rule value, otherwise continue
 *   5. No rule granted: hidden
 *
 * Evaluation never fails. An unresolvable conditional (sibling missing, type
 * differs, instance nil) simply does not grant access.
 */

// IsAccessible reports whether field is exposed on instance.
// Instance may be a struct value, a pointer to one, or an interface holding either.
func (e *Engine) IsAccessible(instance any, field *schema.Field) bool {
	return e.isAccessible(reflect.ValueOf(instance), field)
}

// IsAccessibleValue is IsAccessible for callers already holding a reflect.Value.
func (e *Engine) IsAccessibleValue(instance reflect.Value, field *schema.Field) bool {
	return e.isAccessible(instance, field)
}

// AccessibleFields returns the exposed fields declared on instance's runtime
// type, in declaration order. Nested fields are not included.
func (e *Engine) AccessibleFields(instance any) []*schema.Field {
	v := reflect.ValueOf(instance)
	d := schema.OfValue(v)
	if d == nil {
		return nil
	}
	var fields []*schema.Field
	for _, f := range d.Fields {
		if e.isAccessible(v, f) {
			fields = append(fields, f)
		}
	}
	return fields
}

func (e *Engine) isAccessible(instance reflect.Value, field *schema.Field) bool {
	rules := e.Rules(field)
	if len(rules) == 0 {
		return false
	}

	for _, rule := range rules {
		switch rule.Kind {
		case types.AccessAlways:
			return true
		case types.AccessNever:
			continue
		case types.AccessConditional:
			if siblingMatches(instance, rule) {
				return true
			}
		}
	}
	return false
}

// siblingMatches checks whether any of the instance's own declared fields
// matching the rule's sibling type and name currently holds the rule value.
func siblingMatches(instance reflect.Value, rule types.AccessRule) bool {
	if rule.SiblingType == nil {
		return false
	}
	owner := schema.Resolve(instance)
	if !owner.IsValid() {
		return false
	}
	d := schema.Of(owner.Type())
	if d == nil {
		return false
	}

	for _, f := range d.Fields {
		if f.Type != rule.SiblingType || f.Name != rule.SiblingName {
			continue
		}
		v, err := f.Get(owner)
		if err != nil {
			continue
		}
		if Equal(v, rule.Value) {
			return true
		}
	}
	return false
}
