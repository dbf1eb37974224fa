package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/beatforge/fieldgate/internal/fieldpath"
	"github.com/beatforge/fieldgate/internal/rules"
	"github.com/beatforge/fieldgate/internal/types"
)

func paths(t *testing.T, doc any) []string {
	t.Helper()
	ps, err := fieldpath.Enumerate(rules.NewEngine(), doc)
	if err != nil {
		t.Fatalf("Enumerate() error = %v, want nil", err)
	}
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.String()
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestEnums_TextRoundTrip(t *testing.T) {
	var a BossAnimationType
	if err := a.UnmarshalText([]byte("attack1-to-attack2")); err != nil {
		t.Fatalf("UnmarshalText() error = %v, want nil", err)
	}
	if a != AnimAttack1ToAttack2 {
		t.Errorf("UnmarshalText() = %v, want %v", a, AnimAttack1ToAttack2)
	}
	if err := a.UnmarshalText([]byte("dance")); err == nil {
		t.Errorf("UnmarshalText(dance) error = nil, want error")
	}
	if _, err := BossAnimationType(99).MarshalText(); err == nil {
		t.Errorf("MarshalText(99) error = nil, want error")
	}
	if got := MapType(99).String(); got != "unknown(99)" {
		t.Errorf("String() = %q, want unknown(99)", got)
	}
	if Beat16.Next() != Beat1 || Beat4.Next() != Beat8 {
		t.Errorf("BeatType.Next() does not wrap")
	}
	if StateWeapon2.StateAnimation() != AnimAttack2Standby {
		t.Errorf("StateAnimation(weapon2) = %v", StateWeapon2.StateAnimation())
	}
}

func TestBossAnimationData(t *testing.T) {
	d := BossAnimationData{Time: 1, Speed: 2, UnifiedDuration: 5}
	if got := d.EndTime(3); got != 7 {
		t.Errorf("EndTime() = %v, want 7", got)
	}
	d.UseUnifiedDuration = true
	if got := d.EndTime(3); got != 11 {
		t.Errorf("EndTime() unified = %v, want 11", got)
	}

	if contains(paths(t, BossAnimationData{}), "UnifiedDuration") {
		t.Errorf("UnifiedDuration exposed while UseUnifiedDuration is false")
	}
	if !contains(paths(t, d), "UnifiedDuration") {
		t.Errorf("UnifiedDuration hidden while UseUnifiedDuration is true")
	}
}

func TestChart_ExposedFields(t *testing.T) {
	tests := []struct {
		name    string
		chart   Chart
		present []string
		absent  []string
	}{
		{
			name:    "sprite note",
			chart:   Chart{},
			present: []string{"Title", "Note.Kind", "Note.Sprite.Path", "Volume.Beat", "Boss.Manual.FixedUpdate"},
			absent:  []string{"Offset", "Note.Spine", "Boss.Manual.Loop", "Boss.Manual.StartTime"},
		},
		{
			name: "spine note with manual loop",
			chart: Chart{
				Note: NoteVisual{Kind: VisualSpine, Spine: &SpineVisual{}},
				Boss: BossTrack{Manual: ManualAnimation{Type: AnimOutside, FixedUpdate: true}},
			},
			present: []string{"Note.Spine", "Note.Spine.Skin", "Boss.Manual.Loop", "Boss.Manual.StartTime"},
			absent:  []string{"Note.Sprite", "Note.Sprite.Path"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := paths(t, tt.chart)
			for _, p := range tt.present {
				if !contains(got, p) {
					t.Errorf("%s missing from %v", p, got)
				}
			}
			for _, p := range tt.absent {
				if contains(got, p) {
					t.Errorf("%s unexpectedly exposed", p)
				}
			}
		})
	}
}

func TestCatalog(t *testing.T) {
	c := DefaultCatalog()

	if got := strings.Join(c.Names(), ","); got != "boss-animation,chart,note-visual,volume-view" {
		t.Errorf("Names() = %s", got)
	}
	if _, ok := c.ResolveType("game.SpineVisual"); !ok {
		t.Errorf("ResolveType(game.SpineVisual) not found")
	}
	if _, ok := c.ResolveType("game.Nope"); ok {
		t.Errorf("ResolveType(game.Nope) found")
	}
	if _, err := c.Document("song"); !errors.Is(err, types.ErrUnknownDocumentType) {
		t.Errorf("Document(song) error = %v, want ErrUnknownDocumentType", err)
	}
	if err := c.Register("chart", VolumeView{}); err == nil {
		t.Errorf("Register(chart) rebinding error = nil, want error")
	}
	if err := c.Register("bad", 5); err == nil {
		t.Errorf("Register(int) error = nil, want error")
	}
}

func TestCatalog_Decode(t *testing.T) {
	c := DefaultCatalog()

	doc, err := c.Decode("chart", []byte(`{"title":"Overture","map":"02","note":{"kind":"spine","spine":{"skin":"red"}}}`))
	if err != nil {
		t.Fatalf("Decode() error = %v, want nil", err)
	}
	chart, ok := doc.(Chart)
	if !ok {
		t.Fatalf("Decode() = %T, want Chart", doc)
	}
	if chart.Title != "Overture" || chart.Map != Map02 || chart.Note.Spine.Skin != "red" {
		t.Errorf("Decode() = %+v", chart)
	}

	if doc, err := c.Decode("volume-view", nil); err != nil || doc != (VolumeView{}) {
		t.Errorf("Decode(empty) = %v, %v, want zero value", doc, err)
	}

	for _, payload := range []string{`{"unknown":1}`, `{"map":"99"}`, `[`} {
		if _, err := c.Decode("chart", []byte(payload)); err == nil {
			t.Errorf("Decode(%s) error = nil, want error", payload)
		}
	}
}
