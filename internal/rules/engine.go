package rules

import (
	"fmt"
	"log/slog"
	"reflect"
	"sync"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

// Engine owns the rule table: (owner type, field name) -> ordered rules.
// Rules declared in struct tags come first, followed by rules added through
// Register or ApplyRuleFile in call order. A type's table is compiled on
// first use and cached until a later registration touches that type.
type Engine struct {
	logger *slog.Logger

	mu       sync.RWMutex
	extra    map[fieldKey][]types.AccessRule
	compiled map[reflect.Type]map[string][]types.AccessRule
}

type fieldKey struct {
	owner reflect.Type
	name  string
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger used to report unresolvable rule declarations.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates an engine with an empty registration table.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:   slog.Default(),
		extra:    make(map[fieldKey][]types.AccessRule),
		compiled: make(map[reflect.Type]map[string][]types.AccessRule),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Register appends rules to the named field of owner.
// Returns ErrInvalidRule if owner is not a struct, the field is not a declared
// exported field, or a conditional rule lacks its sibling type or name.
func (e *Engine) Register(owner reflect.Type, field string, rules ...types.AccessRule) error {
	d := schema.Of(owner)
	if d == nil {
		return fmt.Errorf("%w: %v is not a struct type", types.ErrInvalidRule, owner)
	}
	if _, ok := d.Lookup(field); !ok {
		return fmt.Errorf("%w: %s has no exported field %q", types.ErrInvalidRule, d.Type, field)
	}
	for _, r := range rules {
		if err := validateRule(r); err != nil {
			return fmt.Errorf("%s.%s: %w", d.Type, field, err)
		}
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	key := fieldKey{owner: d.Type, name: field}
	e.extra[key] = append(e.extra[key], rules...)
	delete(e.compiled, d.Type)
	return nil
}

// Rules returns the ordered rules attached to f. The slice must not be modified.
func (e *Engine) Rules(f *schema.Field) []types.AccessRule {
	return e.table(f.Owner)[f.Name]
}

// table returns the compiled rule table of owner, compiling it on first use.
func (e *Engine) table(owner reflect.Type) map[string][]types.AccessRule {
	e.mu.RLock()
	t, ok := e.compiled[owner]
	e.mu.RUnlock()
	if ok {
		return t
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if t, ok := e.compiled[owner]; ok {
		return t
	}
	t = e.compileType(schema.Of(owner))
	e.compiled[owner] = t
	return t
}

// compileType builds the rule table of one struct type. Caller holds e.mu.
func (e *Engine) compileType(d *schema.Descriptor) map[string][]types.AccessRule {
	table := make(map[string][]types.AccessRule, len(d.Fields))
	for _, f := range d.Fields {
		var rules []types.AccessRule
		if tag, ok := f.Tag.Lookup(TagName); ok {
			parsed, issues := ParseTag(d, tag)
			for _, issue := range issues {
				e.logger.Warn("unresolvable access rule", "field", f.String(), "tag", tag, "error", issue)
			}
			rules = append(rules, parsed...)
		}
		rules = append(rules, e.extra[fieldKey{owner: d.Type, name: f.Name}]...)
		if len(rules) > 0 {
			table[f.Name] = rules
		}
	}
	return table
}

// validateRule checks that a programmatically built rule is well-formed.
func validateRule(r types.AccessRule) error {
	switch r.Kind {
	case types.AccessAlways, types.AccessNever:
		return nil
	case types.AccessConditional:
		if r.SiblingType == nil {
			return fmt.Errorf("%w: conditional rule on %q has no sibling type", types.ErrInvalidRule, r.SiblingName)
		}
		if r.SiblingName == "" {
			return fmt.Errorf("%w: conditional rule has no sibling name", types.ErrInvalidRule)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown kind %v", types.ErrInvalidRule, r.Kind)
	}
}
