package rules

import "fmt"

type mode int

const (
	modeA mode = iota
	modeB
)

func (m *mode) UnmarshalText(b []byte) error {
	switch string(b) {
	case "A":
		*m = modeA
	case "B":
		*m = modeB
	default:
		return fmt.Errorf("unknown mode %q", b)
	}
	return nil
}

type sub struct {
	Y int `access:"always"`
}

type root struct {
	X    int `access:"always"`
	Mode mode
	Sub  sub `access:"when:Mode=A"`
}

type ruled struct {
	Level   int
	Enabled bool
	Name    string
	Tags    []string
	Owner   *sub
	Any     any

	Plain      int
	Shown      int `access:"always"`
	Hidden     int `access:"never"`
	HiddenTwo  int `access:"never;never"`
	Overridden int `access:"never;always"`
	OnLevel    int `access:"when:Level=5"`
	OnEither   int `access:"when:Level=1;when:Level=2"`
	OnEnabled  int `access:"when:Enabled=true"`
	OnName     int `access:"when:Name=boss"`
	OnNilOwner int `access:"when:Owner=nil"`
	Broken     int `access:"when:Missing=1"`
	BadLiteral int `access:"when:Level=abc"`
	Unknown    int `access:"sometimes"`
}
