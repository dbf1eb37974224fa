// internal/game/catalog.go
package game

import (
	"bytes"
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

// Catalog maps document type names to their Go types. It also indexes every
// struct type reachable from a registered document under its qualified name
// ("game.BossAnimationData") so rule files can refer to nested types.
type Catalog struct {
	mu        sync.RWMutex
	documents map[string]reflect.Type
	types     map[string]reflect.Type
}

// NewCatalog returns an empty catalog.
func NewCatalog() *Catalog {
	return &Catalog{
		documents: make(map[string]reflect.Type),
		types:     make(map[string]reflect.Type),
	}
}

// DefaultCatalog returns a catalog holding the game's editable documents.
func DefaultCatalog() *Catalog {
	c := NewCatalog()
	for name, prototype := range map[string]any{
		"chart":          Chart{},
		"boss-animation": BossAnimationData{},
		"note-visual":    NoteVisual{},
		"volume-view":    VolumeView{},
	} {
		if err := c.Register(name, prototype); err != nil {
			panic(err)
		}
	}
	return c
}

// Register adds a document type under name. The prototype must be a struct
// value or a pointer to one.
func (c *Catalog) Register(name string, prototype any) error {
	t := schema.Indirect(reflect.TypeOf(prototype))
	if t == nil || t.Kind() != reflect.Struct {
		return fmt.Errorf("register %q: %T is not a struct", name, prototype)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if existing, ok := c.documents[name]; ok && existing != t {
		return fmt.Errorf("register %q: already bound to %s", name, existing)
	}
	c.documents[name] = t
	c.index(t)
	return nil
}

// index records t and every struct type reachable through its fields.
func (c *Catalog) index(t reflect.Type) {
	for k := t.Kind(); k == reflect.Pointer || k == reflect.Slice || k == reflect.Array || k == reflect.Map; k = t.Kind() {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return
	}
	if _, seen := c.types[t.String()]; seen {
		return
	}
	c.types[t.String()] = t
	for _, f := range schema.Of(t).Fields {
		c.index(f.Type)
	}
}

// Names returns the registered document names in sorted order.
func (c *Catalog) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, 0, len(c.documents))
	for name := range c.documents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Document returns the type registered under name.
func (c *Catalog) Document(name string) (reflect.Type, error) {
	c.mu.RLock()
	t, ok := c.documents[name]
	c.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownDocumentType, name)
	}
	return t, nil
}

// ResolveType looks up a qualified struct type name. Its signature matches
// rules.TypeResolver.
func (c *Catalog) ResolveType(name string) (reflect.Type, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	t, ok := c.types[name]
	return t, ok
}

// Decode builds a document of the named type from JSON. An empty payload
// yields the zero document. Unknown JSON fields are rejected. The returned
// value holds the struct itself, not a pointer.
func (c *Catalog) Decode(name string, payload []byte) (any, error) {
	t, err := c.Document(name)
	if err != nil {
		return nil, err
	}
	if len(payload) > types.MaxDocumentSize {
		return nil, fmt.Errorf("decode %s: payload of %d bytes exceeds %d", name, len(payload), types.MaxDocumentSize)
	}

	ptr := reflect.New(t)
	if len(bytes.TrimSpace(payload)) > 0 {
		dec := json.NewDecoder(bytes.NewReader(payload))
		dec.DisallowUnknownFields()
		if err := dec.Decode(ptr.Interface()); err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
	}
	return ptr.Elem().Interface(), nil
}
