package rules

import (
	"errors"
	"reflect"
	"testing"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

func TestParseTag(t *testing.T) {
	d := schema.Of(reflect.TypeFor[ruled]())

	tests := []struct {
		name       string
		tag        string
		wantKinds  []types.AccessKind
		wantIssues int
	}{
		{"always", "always", []types.AccessKind{types.AccessAlways}, 0},
		{"never", "never", []types.AccessKind{types.AccessNever}, 0},
		{"declaration order kept", "never; when:Level=3 ;always", []types.AccessKind{types.AccessNever, types.AccessConditional, types.AccessAlways}, 0},
		{"empty parts skipped", ";;always;", []types.AccessKind{types.AccessAlways}, 0},
		{"unknown keyword dropped", "sometimes;always", []types.AccessKind{types.AccessAlways}, 1},
		{"malformed conditional dropped", "when:Level", nil, 1},
		{"missing sibling kept unresolved", "when:Missing=1", []types.AccessKind{types.AccessConditional}, 1},
		{"bad literal kept unresolved", "when:Level=x", []types.AccessKind{types.AccessConditional}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, issues := ParseTag(d, tt.tag)
			if len(issues) != tt.wantIssues {
				t.Errorf("len(issues) = %d, want %d (%v)", len(issues), tt.wantIssues, issues)
			}
			if len(rules) != len(tt.wantKinds) {
				t.Fatalf("len(rules) = %d, want %d", len(rules), len(tt.wantKinds))
			}
			for i, k := range tt.wantKinds {
				if rules[i].Kind != k {
					t.Errorf("rules[%d].Kind = %v, want %v", i, rules[i].Kind, k)
				}
			}
		})
	}
}

func TestParseRule_ConditionalTyping(t *testing.T) {
	d := schema.Of(reflect.TypeFor[root]())

	rule, err := ParseRule(d, "when:Mode=B")
	if err != nil {
		t.Fatalf("ParseRule() error = %v, want nil", err)
	}
	if rule.SiblingType != reflect.TypeFor[mode]() {
		t.Errorf("SiblingType = %v, want mode", rule.SiblingType)
	}
	if rule.Value != modeB {
		t.Errorf("Value = %v (%T), want modeB", rule.Value, rule.Value)
	}

	rule, err = ParseRule(d, "when:Mode=C")
	if !errors.Is(err, types.ErrCoercionFailed) {
		t.Errorf("ParseRule(Mode=C) error = %v, want ErrCoercionFailed", err)
	}
	if rule.SiblingType != nil {
		t.Errorf("unresolved rule SiblingType = %v, want nil", rule.SiblingType)
	}
}

func TestEngine_CompiledOncePerType(t *testing.T) {
	engine := NewEngine()
	f := field(t, reflect.TypeFor[root](), "X")

	first := engine.Rules(f)
	second := engine.Rules(f)
	if len(first) != 1 || &first[0] != &second[0] {
		t.Errorf("Rules() recompiled the type table between calls")
	}
}
