package api

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/beatforge/fieldgate/internal/core/store"
	"github.com/beatforge/fieldgate/internal/types"
)

// Snapshot is the serialized state of an open document.
type Snapshot struct {
	ID       types.DocumentID `json:"id"`
	TypeName string           `json:"type"`
	Revision int64            `json:"revision"`
	Payload  json.RawMessage  `json:"payload"`
}

// OpenDocument decodes payload into a new document of the named type and
// opens an editing session for it.
func (s *InspectorService) OpenDocument(ctx context.Context, typeName string, payload []byte) (types.DocumentID, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	value, err := s.catalog.Decode(typeName, payload)
	if err != nil {
		return "", err
	}

	id := types.NewDocumentID()
	if err := s.add(id, &document{typeName: typeName, value: value}); err != nil {
		return "", err
	}
	s.logger.Debug("document opened", "document_id", id, "type", typeName)
	return id, nil
}

// add registers a session, enforcing the open-document limit. An existing
// session with the same id is replaced.
func (s *InspectorService) add(id types.DocumentID, doc *document) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.docs[id]; !exists && len(s.docs) >= s.cfg.MaxDocuments {
		return fmt.Errorf("%w: limit is %d", types.ErrTooManyDocuments, s.cfg.MaxDocuments)
	}
	s.docs[id] = doc
	return nil
}

// CloseDocument drops the session. Unsaved edits are discarded.
func (s *InspectorService) CloseDocument(ctx context.Context, id types.DocumentID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[id]; !ok {
		return fmt.Errorf("%w: %s", types.ErrDocumentNotFound, id)
	}
	delete(s.docs, id)
	s.logger.Debug("document closed", "document_id", id)
	return nil
}

// OpenDocuments returns the ids of open sessions in creation order.
func (s *InspectorService) OpenDocuments() []types.DocumentID {
	s.mu.RLock()
	ids := make([]types.DocumentID, 0, len(s.docs))
	for id := range s.docs {
		ids = append(ids, id)
	}
	s.mu.RUnlock()
	// UUIDv7 ids sort by creation time.
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// SnapshotDocument returns the document serialized as JSON.
func (s *InspectorService) SnapshotDocument(ctx context.Context, id types.DocumentID) (Snapshot, error) {
	doc, err := s.session(id)
	if err != nil {
		return Snapshot{}, err
	}
	doc.mu.Lock()
	defer doc.mu.Unlock()
	return doc.snapshot(id)
}

func (d *document) snapshot(id types.DocumentID) (Snapshot, error) {
	payload, err := json.Marshal(d.value)
	if err != nil {
		return Snapshot{}, fmt.Errorf("snapshot %s: %w", id, err)
	}
	return Snapshot{ID: id, TypeName: d.typeName, Revision: d.revision, Payload: payload}, nil
}

// SaveDocument persists the current state of an open document.
func (s *InspectorService) SaveDocument(ctx context.Context, id types.DocumentID) (store.Document, error) {
	if s.store == nil {
		return store.Document{}, ErrStoreUnavailable
	}
	doc, err := s.session(id)
	if err != nil {
		return store.Document{}, err
	}

	doc.mu.Lock()
	snap, err := doc.snapshot(id)
	doc.mu.Unlock()
	if err != nil {
		return store.Document{}, err
	}

	saved := store.Document{
		ID:       id,
		TypeName: snap.TypeName,
		Payload:  string(snap.Payload),
		Revision: snap.Revision,
	}
	if err := s.store.SaveDocument(ctx, saved); err != nil {
		return store.Document{}, err
	}
	s.logger.Info("document saved", "document_id", id, "revision", snap.Revision)
	return saved, nil
}

// LoadDocument opens a session for a saved document, replacing any open
// session with the same id.
func (s *InspectorService) LoadDocument(ctx context.Context, id types.DocumentID) (Snapshot, error) {
	if s.store == nil {
		return Snapshot{}, ErrStoreUnavailable
	}
	saved, err := s.store.LoadDocument(ctx, id)
	if err != nil {
		return Snapshot{}, err
	}
	value, err := s.catalog.Decode(saved.TypeName, []byte(saved.Payload))
	if err != nil {
		return Snapshot{}, fmt.Errorf("load %s: %w", id, err)
	}

	doc := &document{typeName: saved.TypeName, value: value, revision: saved.Revision}
	if err := s.add(id, doc); err != nil {
		return Snapshot{}, err
	}
	s.logger.Info("document loaded", "document_id", id, "revision", saved.Revision)
	return doc.snapshot(id)
}

// History returns the recorded edits of a document.
func (s *InspectorService) History(ctx context.Context, id types.DocumentID) ([]store.Edit, error) {
	if s.store == nil {
		return nil, ErrStoreUnavailable
	}
	return s.store.ListEdits(ctx, id)
}
