// internal/types/access.go
package types

import (
	"fmt"
	"reflect"
)

/*
 * Domain types for field accessibility.
 *
 * An AccessRule is one declarative visibility rule attached to a struct
 * field. Rules are produced from struct tags, explicit registration, or rule
 * files by internal/rules, and consumed by the accessibility evaluator.
 *
 * Key types:
 *   - AccessKind: Always, Never, or Conditional
 *   - AccessRule: one rule; conditional rules name a sibling field by
 *     declared type and name plus the value that grants visibility
 *
 * A field carrying no rules is hidden. Several rules combine with OR.
 */

// AccessKind selects how an AccessRule decides visibility.
type AccessKind int

const (
	// AccessAlways exposes the field unconditionally.
	AccessAlways AccessKind = iota
	// AccessNever grants nothing; other rules on the field still get a chance.
	AccessNever
	// AccessConditional exposes the field while a sibling holds a given value.
	AccessConditional
)

// String implements fmt.Stringer.
func (k AccessKind) String() string {
	switch k {
	case AccessAlways:
		return "always"
	case AccessNever:
		return "never"
	case AccessConditional:
		return "when"
	default:
		return fmt.Sprintf("AccessKind(%d)", int(k))
	}
}

// AccessRule is a single visibility rule attached to a field.
type AccessRule struct {
	Kind        AccessKind
	SiblingType reflect.Type // declared type of the sibling (conditional only)
	SiblingName string       // sibling field name (conditional only)
	Value       any          // required sibling value (conditional only)
}

// Always returns a rule that always exposes the field.
func Always() AccessRule {
	return AccessRule{Kind: AccessAlways}
}

// Never returns a rule that never exposes the field.
func Never() AccessRule {
	return AccessRule{Kind: AccessNever}
}

// When returns a rule exposing the field while the sibling named name, declared
// with type siblingType, holds value.
func When(siblingType reflect.Type, name string, value any) AccessRule {
	return AccessRule{
		Kind:        AccessConditional,
		SiblingType: siblingType,
		SiblingName: name,
		Value:       value,
	}
}

// WhenValue is When with the sibling type taken from value's static type.
func WhenValue[T any](name string, value T) AccessRule {
	return When(reflect.TypeFor[T](), name, value)
}

// String renders the rule in struct-tag syntax.
func (r AccessRule) String() string {
	if r.Kind != AccessConditional {
		return r.Kind.String()
	}
	return fmt.Sprintf("when:%s=%v", r.SiblingName, r.Value)
}
