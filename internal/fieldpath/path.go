// Package fieldpath enumerates, reads and writes exposed fields of object
// graphs through chains of field descriptors.
//
// A Path is built by Enumerate against one root instance and stays valid for
// any instance with the same field layout. Get replays the chain from the
// root; Set rebuilds every container on the chain so that copy-semantics
// structs along the way receive the change.
package fieldpath

import (
	"reflect"
	"strings"

	"github.com/beatforge/fieldgate/internal/schema"
)

// Path is an immutable chain of fields from a root instance to a target
// field. Each node references its parent; root-level nodes have none.
type Path struct {
	field  *schema.Field
	parent *Path
	depth  int
}

// New returns a root-level path for f.
func New(f *schema.Field) *Path {
	return &Path{field: f, depth: 1}
}

// Extend returns a child path selecting f within the value p addresses.
func (p *Path) Extend(f *schema.Field) *Path {
	return &Path{field: f, parent: p, depth: p.depth + 1}
}

// Field returns the last field of the chain.
func (p *Path) Field() *schema.Field {
	return p.field
}

// Parent returns the enclosing path, or nil for root-level paths.
func (p *Path) Parent() *Path {
	return p.parent
}

// Depth returns the number of fields in the chain (1 for root-level).
func (p *Path) Depth() int {
	return p.depth
}

// Type returns the declared type of the target field.
func (p *Path) Type() reflect.Type {
	return p.field.Type
}

// Fields returns the chain in root-to-leaf order.
func (p *Path) Fields() []*schema.Field {
	fields := make([]*schema.Field, p.depth)
	for n := p; n != nil; n = n.parent {
		fields[n.depth-1] = n.field
	}
	return fields
}

// String returns the dotted field names, e.g. "Boss.Speed".
func (p *Path) String() string {
	names := make([]string, p.depth)
	for n := p; n != nil; n = n.parent {
		names[n.depth-1] = n.field.Name
	}
	return strings.Join(names, ".")
}
