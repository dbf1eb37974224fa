// internal/rules/compile.go
package rules

import (
	"fmt"
	"strings"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

/*
 * Rule compilation from declarations.
 *
 * Access rules are declared in the `access` struct tag, one or more rules
 * separated by ';' and kept in declaration order:
 *
 *   Speed    float64 `access:"always"`
 *   Debug    bool    `access:"never"`
 *   Duration float64 `access:"when:UseUnified=true"`
 *   Sprite   Sprite  `access:"never;when:Visual=sprite;when:Visual=both"`
 *
 * A conditional names a sibling field of the same struct. The sibling's
 * declared type is taken from the owner descriptor and the literal is coerced
 * into that type (see coercion.go), so tags and programmatic rules compare
 * through the same typed equality.
 *
 * Tag compilation is lenient: a missing sibling or an uncoercible literal
 * yields an unresolvable conditional that never grants access, and the issue
 * is returned for logging. Rule files use ParseRule in strict mode instead.
 */

// TagName is the struct tag key holding access rules.
const TagName = "access"

const (
	keywordAlways = "always"
	keywordNever  = "never"
	prefixWhen    = "when:"
)

// ParseTag compiles an access tag declared on a field of owner.
// Returned issues describe rules that could not be fully resolved; the
// corresponding rules are still present but never grant access.
func ParseTag(owner *schema.Descriptor, tag string) ([]types.AccessRule, []error) {
	var rules []types.AccessRule
	var issues []error

	for _, part := range strings.Split(tag, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		rule, err := ParseRule(owner, part)
		if err != nil {
			issues = append(issues, err)
			if rule.Kind != types.AccessConditional {
				continue
			}
		}
		rules = append(rules, rule)
	}
	return rules, issues
}

// ParseRule compiles a single rule declaration against owner.
// On a conditional whose sibling or literal cannot be resolved it returns the
// unresolvable rule (SiblingType nil) together with the error.
func ParseRule(owner *schema.Descriptor, decl string) (types.AccessRule, error) {
	switch {
	case decl == keywordAlways:
		return types.Always(), nil
	case decl == keywordNever:
		return types.Never(), nil
	case strings.HasPrefix(decl, prefixWhen):
		return parseWhen(owner, strings.TrimPrefix(decl, prefixWhen))
	default:
		return types.AccessRule{Kind: -1}, fmt.Errorf("%w: unknown declaration %q", types.ErrInvalidRule, decl)
	}
}

// parseWhen compiles "Sibling=literal".
func parseWhen(owner *schema.Descriptor, body string) (types.AccessRule, error) {
	name, literal, ok := strings.Cut(body, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return types.AccessRule{Kind: -1}, fmt.Errorf("%w: conditional %q must be Sibling=value", types.ErrInvalidRule, body)
	}
	unresolved := types.AccessRule{Kind: types.AccessConditional, SiblingName: name, Value: literal}

	sibling, ok := owner.Lookup(name)
	if !ok {
		return unresolved, fmt.Errorf("%w: %s has no field %q", types.ErrFieldNotFound, owner.Type, name)
	}
	value, err := CoerceLiteral(literal, sibling.Type)
	if err != nil {
		return unresolved, fmt.Errorf("%s.%s: %w", owner.Type, name, err)
	}
	return types.When(sibling.Type, name, value.Interface()), nil
}
