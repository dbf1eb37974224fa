// internal/fieldpath/lookup.go
package fieldpath

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/beatforge/fieldgate/internal/rules"
	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

// Lookup resolves a dotted field path ("Boss.Speed") against root. Every
// segment must name a field exposed on the instance it is read from, so
// Lookup only returns paths that Enumerate would also return.
func Lookup(engine *rules.Engine, root any, dotted string) (*Path, error) {
	if dotted == "" {
		return nil, fmt.Errorf("%w: empty path", types.ErrFieldNotFound)
	}
	if len(dotted) > types.MaxPathLength {
		return nil, fmt.Errorf("%w: path length %d exceeds %d", types.ErrPathTooDeep, len(dotted), types.MaxPathLength)
	}
	segments := strings.Split(dotted, ".")
	if len(segments) > types.MaxPathDepth {
		return nil, fmt.Errorf("%w: %d segments", types.ErrPathTooDeep, len(segments))
	}

	var p *Path
	current := reflect.ValueOf(root)
	for i, name := range segments {
		resolved := schema.Resolve(current)
		d := schema.OfValue(resolved)
		if d == nil {
			at := "root"
			if i > 0 {
				at = strings.Join(segments[:i], ".")
			}
			return nil, fmt.Errorf("%w: %s has no fields", types.ErrFieldNotFound, at)
		}
		f, ok := d.Lookup(name)
		if !ok || !engine.IsAccessibleValue(resolved, f) {
			return nil, fmt.Errorf("%w: %s", types.ErrFieldNotFound, strings.Join(segments[:i+1], "."))
		}
		if p == nil {
			p = New(f)
		} else {
			p = p.Extend(f)
		}
		next, err := f.Get(resolved)
		if err != nil {
			return nil, err
		}
		current = next
	}
	return p, nil
}
