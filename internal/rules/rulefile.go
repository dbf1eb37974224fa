package rules

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"

	"gopkg.in/yaml.v3"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

// RuleFile is a YAML rule table:
//
//	rules:
//	  - type: game.VolumeView
//	    field: BeatLineWidth
//	    access: [always]
//	  - type: game.NoteVisual
//	    field: Spine
//	    access: ["when:Kind=spine"]
type RuleFile struct {
	Rules []RuleEntry `yaml:"rules"`
}

// RuleEntry attaches rule declarations to one field of a named type.
type RuleEntry struct {
	Type   string   `yaml:"type"`
	Field  string   `yaml:"field"`
	Access []string `yaml:"access"`
}

// TypeResolver maps a type name used in rule files to its reflect.Type.
type TypeResolver func(name string) (reflect.Type, bool)

// LoadRuleFile reads and parses a YAML rule table.
func LoadRuleFile(path string) (*RuleFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rule file: %w", err)
	}
	return ParseRuleFile(data)
}

// ParseRuleFile parses a YAML rule table. Unknown keys and entries without
// access declarations are rejected. An empty document is an empty table.
func ParseRuleFile(data []byte) (*RuleFile, error) {
	var rf RuleFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&rf); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: %v", types.ErrInvalidRule, err)
	}
	for i, entry := range rf.Rules {
		if len(entry.Access) == 0 {
			return nil, fmt.Errorf("rules[%d] %s.%s: %w: no access declarations", i, entry.Type, entry.Field, types.ErrInvalidRule)
		}
	}
	return &rf, nil
}

// ApplyRuleFile registers every entry of rf. Unlike struct tags, rule files
// are validated strictly: an unknown type, field, sibling or literal fails the
// whole file and nothing is registered.
func (e *Engine) ApplyRuleFile(rf *RuleFile, resolve TypeResolver) error {
	type pending struct {
		owner reflect.Type
		field string
		rules []types.AccessRule
	}
	var batch []pending

	for i, entry := range rf.Rules {
		t, ok := resolve(entry.Type)
		if !ok {
			return fmt.Errorf("rules[%d]: %w: unknown type %q", i, types.ErrInvalidRule, entry.Type)
		}
		d := schema.Of(t)
		if d == nil {
			return fmt.Errorf("rules[%d]: %w: %s is not a struct type", i, types.ErrInvalidRule, entry.Type)
		}
		if _, ok := d.Lookup(entry.Field); !ok {
			return fmt.Errorf("rules[%d]: %w: %s has no field %q", i, types.ErrInvalidRule, entry.Type, entry.Field)
		}
		p := pending{owner: d.Type, field: entry.Field}
		for _, decl := range entry.Access {
			rule, err := ParseRule(d, decl)
			if err != nil {
				return fmt.Errorf("rules[%d] %s.%s: %w", i, entry.Type, entry.Field, err)
			}
			p.rules = append(p.rules, rule)
		}
		batch = append(batch, p)
	}

	for _, p := range batch {
		if err := e.Register(p.owner, p.field, p.rules...); err != nil {
			return err
		}
	}
	return nil
}
