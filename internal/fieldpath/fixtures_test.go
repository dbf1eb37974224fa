package fieldpath

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

type leaf struct {
	Value  float64 `access:"always"`
	Label  string  `access:"always"`
	Hidden int
}

type middle struct {
	Leaf  leaf  `access:"always"`
	Ptr   *leaf `access:"always"`
	Count int   `access:"always"`
}

type outer struct {
	Middle middle `access:"always"`
	Any    any    `access:"always"`
	Name   string `access:"always"`
}

type node struct {
	Value int   `access:"always"`
	Next  *node `access:"always"`
}

func list(n int) *node {
	var head *node
	for i := n; i > 0; i-- {
		head = &node{Value: i, Next: head}
	}
	return head
}

type inner struct {
	Value int `access:"always"`
}

// host can point into itself: Alias may hold &host.Inner.
type host struct {
	Inner inner  `access:"always"`
	Alias *inner `access:"always"`
}
