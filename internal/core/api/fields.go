package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"reflect"
	"time"

	"github.com/beatforge/fieldgate/internal/core/auth"
	"github.com/beatforge/fieldgate/internal/core/store"
	"github.com/beatforge/fieldgate/internal/fieldpath"
	"github.com/beatforge/fieldgate/internal/schema"
	"github.com/beatforge/fieldgate/internal/types"
)

/*
 * Field access over open documents.
 *
 * Every operation holds the document's mutex for its whole duration, so an
 * enumeration never observes a half-applied edit and two edits of one
 * document never interleave. Different documents proceed in parallel.
 *
 * Paths are dotted field names resolved against the current value; a path
 * the rules do not expose right now is ErrFieldNotFound, the same as a path
 * that does not exist.
 *
 * SetField workflow:
 *   1. Resolve the path (exposed fields only)
 *   2. Decode the JSON value into the leaf's declared type
 *   3. fieldpath.Set through a Ref over the session root
 *   4. Bump the revision
 *   5. Append to the daily journal (best effort) and the store if present
 */

// FieldView describes one exposed field.
type FieldView struct {
	Path      string          `json:"path"`
	Depth     int             `json:"depth"`
	Type      string          `json:"type"`
	Semantics string          `json:"semantics"`
	Value     json.RawMessage `json:"value,omitempty"`
}

// ListFields returns the exposed fields of a document in breadth-first order.
func (s *InspectorService) ListFields(ctx context.Context, id types.DocumentID) ([]FieldView, error) {
	doc, err := s.session(id)
	if err != nil {
		return nil, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	paths, err := fieldpath.Enumerate(s.engine, doc.value)
	if err != nil {
		return nil, err
	}
	views := make([]FieldView, 0, len(paths))
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		views = append(views, s.view(p, doc.value))
	}
	return views, nil
}

// GetField returns the current value of one exposed field.
func (s *InspectorService) GetField(ctx context.Context, id types.DocumentID, path string) (FieldView, error) {
	doc, err := s.session(id)
	if err != nil {
		return FieldView{}, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	p, err := fieldpath.Lookup(s.engine, doc.value, path)
	if err != nil {
		return FieldView{}, err
	}
	return s.view(p, doc.value), nil
}

// SetField decodes value into the field's declared type and writes it.
func (s *InspectorService) SetField(ctx context.Context, id types.DocumentID, path string, value json.RawMessage) (FieldView, error) {
	if !json.Valid(value) {
		return FieldView{}, ErrInvalidValue
	}
	doc, err := s.session(id)
	if err != nil {
		return FieldView{}, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()

	p, err := fieldpath.Lookup(s.engine, doc.value, path)
	if err != nil {
		return FieldView{}, err
	}

	decoded, err := DecodeValue(p.Type(), value)
	if err != nil {
		return FieldView{}, fmt.Errorf("%w: %s: %v", types.ErrTypeMismatch, path, err)
	}

	ref := fieldpath.NewRef(
		func() any { return doc.value },
		func(v any) { doc.value = v },
	)
	if err := fieldpath.Set(p, ref, decoded); err != nil {
		return FieldView{}, err
	}
	doc.revision++

	edit := store.Edit{
		ID:         types.NewEditID(),
		DocumentID: id,
		Path:       p.String(),
		Value:      string(compact(value)),
		Editor:     auth.EditorFromContext(ctx),
		Revision:   doc.revision,
		AppliedAt:  time.Now().UTC(),
	}
	s.journal(edit)
	if s.store != nil {
		if err := s.store.RecordEdit(ctx, edit); err != nil {
			s.logger.Warn("failed to record edit", "document_id", id, "path", edit.Path, "error", err)
		}
	}
	s.logger.Debug("field set", "document_id", id, "path", edit.Path, "revision", doc.revision, "editor", edit.Editor)

	return s.view(p, doc.value), nil
}

// DecodeValue unmarshals raw into a fresh value of type t. Interface-typed
// fields receive the generic JSON form (map, slice, float64, ...). JSON null
// is only accepted for nillable types.
func DecodeValue(t reflect.Type, raw json.RawMessage) (any, error) {
	if bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		if !schema.Nillable(t) {
			return nil, fmt.Errorf("null for %s", t)
		}
		return reflect.Zero(t).Interface(), nil
	}
	ptr := reflect.New(t)
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(ptr.Interface()); err != nil {
		return nil, err
	}
	v := ptr.Elem()
	if t.Kind() == reflect.Interface && v.IsNil() {
		return nil, nil
	}
	return v.Interface(), nil
}

func compact(raw json.RawMessage) []byte {
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return raw
	}
	return buf.Bytes()
}

// view renders p against root. Values that cannot be encoded (channels,
// functions) are left empty.
func (s *InspectorService) view(p *fieldpath.Path, root any) FieldView {
	v := FieldView{
		Path:      p.String(),
		Depth:     p.Depth(),
		Type:      p.Type().String(),
		Semantics: p.Field().Semantics().String(),
	}
	current, err := fieldpath.Get(p, root)
	if err != nil {
		return v
	}
	if data, err := json.Marshal(current); err == nil {
		v.Value = data
	}
	return v
}
