// internal/game/enums.go
package game

import (
	"fmt"
)

// Enumerations are serialized by name so that documents and rule literals
// read the same way ("when:Type=standby").

// MapType selects the stage a chart is played on.
type MapType int

const (
	Map01 MapType = iota
	Map02
	Map03
	Map04
)

var mapTypeNames = []string{"01", "02", "03", "04"}

func (m MapType) String() string { return enumName(mapTypeNames, int(m)) }

func (m MapType) MarshalText() ([]byte, error) { return enumMarshal(mapTypeNames, int(m), "map type") }

func (m *MapType) UnmarshalText(b []byte) error {
	return enumUnmarshal(mapTypeNames, b, "map type", (*int)(m))
}

// BossAnimationType names a boss animation clip.
type BossAnimationType int

const (
	AnimNone BossAnimationType = iota
	AnimStandby
	AnimOutside
	AnimAttack1Standby
	AnimAttack1Start
	AnimAttack1End
	AnimAttack2Standby
	AnimAttack2Start
	AnimAttack2End
	AnimAttack1ToAttack2
	AnimAttack2ToAttack1
)

var bossAnimationNames = []string{
	"none",
	"standby",
	"outside",
	"attack1-standby",
	"attack1-start",
	"attack1-end",
	"attack2-standby",
	"attack2-start",
	"attack2-end",
	"attack1-to-attack2",
	"attack2-to-attack1",
}

func (a BossAnimationType) String() string { return enumName(bossAnimationNames, int(a)) }

func (a BossAnimationType) MarshalText() ([]byte, error) {
	return enumMarshal(bossAnimationNames, int(a), "boss animation")
}

func (a *BossAnimationType) UnmarshalText(b []byte) error {
	return enumUnmarshal(bossAnimationNames, b, "boss animation", (*int)(a))
}

// BossState is the stance a boss holds between animations.
type BossState int

const (
	StateIn BossState = iota
	StateOut
	StateWeapon1
	StateWeapon2
)

var bossStateNames = []string{"in", "out", "weapon1", "weapon2"}

func (s BossState) String() string { return enumName(bossStateNames, int(s)) }

func (s BossState) MarshalText() ([]byte, error) { return enumMarshal(bossStateNames, int(s), "boss state") }

func (s *BossState) UnmarshalText(b []byte) error {
	return enumUnmarshal(bossStateNames, b, "boss state", (*int)(s))
}

// StateAnimation returns the looping animation played while in s.
func (s BossState) StateAnimation() BossAnimationType {
	switch s {
	case StateIn:
		return AnimStandby
	case StateWeapon1:
		return AnimAttack1Standby
	case StateWeapon2:
		return AnimAttack2Standby
	default:
		return AnimOutside
	}
}

// BeatType is the beat subdivision drawn by the volume view.
type BeatType int

const (
	Beat1 BeatType = iota
	Beat2
	Beat4
	Beat8
	Beat16
)

var beatTypeNames = []string{"1", "2", "4", "8", "16"}

func (b BeatType) String() string { return enumName(beatTypeNames, int(b)) }

func (b BeatType) MarshalText() ([]byte, error) { return enumMarshal(beatTypeNames, int(b), "beat type") }

func (b *BeatType) UnmarshalText(text []byte) error {
	return enumUnmarshal(beatTypeNames, text, "beat type", (*int)(b))
}

// Next returns the following subdivision, wrapping after Beat16.
func (b BeatType) Next() BeatType {
	return (b + 1) % BeatType(len(beatTypeNames))
}

// VisualKind selects how a note is drawn.
type VisualKind int

const (
	VisualSprite VisualKind = iota
	VisualSpine
)

var visualKindNames = []string{"sprite", "spine"}

func (k VisualKind) String() string { return enumName(visualKindNames, int(k)) }

func (k VisualKind) MarshalText() ([]byte, error) { return enumMarshal(visualKindNames, int(k), "visual kind") }

func (k *VisualKind) UnmarshalText(b []byte) error {
	return enumUnmarshal(visualKindNames, b, "visual kind", (*int)(k))
}

func enumName(names []string, i int) string {
	if i < 0 || i >= len(names) {
		return fmt.Sprintf("unknown(%d)", i)
	}
	return names[i]
}

func enumMarshal(names []string, i int, what string) ([]byte, error) {
	if i < 0 || i >= len(names) {
		return nil, fmt.Errorf("invalid %s %d", what, i)
	}
	return []byte(names[i]), nil
}

func enumUnmarshal(names []string, b []byte, what string, dst *int) error {
	for i, name := range names {
		if name == string(b) {
			*dst = i
			return nil
		}
	}
	return fmt.Errorf("unknown %s %q", what, b)
}
