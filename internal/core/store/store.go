// Package store persists inspector documents, the field-edit history and
// editor keys through the named queries in internal/core/db.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/beatforge/fieldgate/internal/core/db"
	"github.com/beatforge/fieldgate/internal/types"
)

// Document is a saved document snapshot.
type Document struct {
	ID       types.DocumentID `db:"document_id"`
	TypeName string           `db:"type_name"`
	Payload  string           `db:"payload"`
	Revision int64            `db:"revision"`
	SavedAt  time.Time        `db:"saved_at"`
}

// DocumentSummary is a Document without its payload.
type DocumentSummary struct {
	ID       types.DocumentID `db:"document_id"`
	TypeName string           `db:"type_name"`
	Revision int64            `db:"revision"`
	SavedAt  time.Time        `db:"saved_at"`
}

// Edit is one applied field change.
type Edit struct {
	ID         types.EditID     `db:"edit_id" json:"edit_id"`
	DocumentID types.DocumentID `db:"document_id" json:"document_id"`
	Path       string           `db:"path" json:"path"`
	Value      string           `db:"value" json:"value"`
	Editor     string           `db:"editor" json:"editor"`
	Revision   int64            `db:"revision" json:"revision"`
	AppliedAt  time.Time        `db:"applied_at" json:"applied_at"`
}

// EditorKey is an issued editor key. The key itself is never stored.
type EditorKey struct {
	KeyID      types.KeyID  `db:"key_id"`
	Editor     string       `db:"editor"`
	KeyHash    string       `db:"key_hash"`
	SecretID   string       `db:"secret_id"`
	CreatedAt  time.Time    `db:"created_at"`
	RevokedAt  sql.NullTime `db:"revoked_at"`
	LastUsedAt sql.NullTime `db:"last_used_at"`
}

// Store wraps the named queries.
type Store struct {
	queries *db.Queries
}

// New returns a store over queries.
func New(queries *db.Queries) *Store {
	return &Store{queries: queries}
}

// SaveDocument inserts or replaces a snapshot.
func (s *Store) SaveDocument(ctx context.Context, doc Document) error {
	if doc.SavedAt.IsZero() {
		doc.SavedAt = time.Now().UTC()
	}
	_, err := s.queries.Exec(ctx, "upsert-document",
		string(doc.ID), doc.TypeName, doc.Payload, doc.Revision, doc.SavedAt)
	if err != nil {
		return fmt.Errorf("save document %s: %w", doc.ID, err)
	}
	return nil
}

// LoadDocument returns the snapshot saved under id.
func (s *Store) LoadDocument(ctx context.Context, id types.DocumentID) (Document, error) {
	var doc Document
	err := s.queries.Get(ctx, "get-document", &doc, string(id))
	if errors.Is(err, sql.ErrNoRows) {
		return Document{}, fmt.Errorf("%w: %s", types.ErrDocumentNotFound, id)
	}
	if err != nil {
		return Document{}, fmt.Errorf("load document %s: %w", id, err)
	}
	return doc, nil
}

// ListDocuments returns up to limit snapshots, most recently saved first.
func (s *Store) ListDocuments(ctx context.Context, limit int) ([]DocumentSummary, error) {
	if limit <= 0 {
		limit = types.DefaultMaxDocuments
	}
	var docs []DocumentSummary
	if err := s.queries.Select(ctx, "list-documents", &docs, limit); err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a snapshot and its edit history.
func (s *Store) DeleteDocument(ctx context.Context, id types.DocumentID) error {
	return s.queries.InTx(ctx, func(tx *db.Tx) error {
		if _, err := tx.Exec(ctx, "delete-field-edits", string(id)); err != nil {
			return fmt.Errorf("delete edits of %s: %w", id, err)
		}
		res, err := tx.Exec(ctx, "delete-document", string(id))
		if err != nil {
			return fmt.Errorf("delete document %s: %w", id, err)
		}
		if n, err := res.RowsAffected(); err == nil && n == 0 {
			return fmt.Errorf("%w: %s", types.ErrDocumentNotFound, id)
		}
		return nil
	})
}

// RecordEdit appends an edit to the history.
func (s *Store) RecordEdit(ctx context.Context, e Edit) error {
	if e.ID == "" {
		e.ID = types.NewEditID()
	}
	if e.AppliedAt.IsZero() {
		e.AppliedAt = time.Now().UTC()
	}
	_, err := s.queries.Exec(ctx, "insert-field-edit",
		string(e.ID), string(e.DocumentID), e.Path, e.Value, e.Editor, e.Revision, e.AppliedAt)
	if err != nil {
		return fmt.Errorf("record edit %s: %w", e.Path, err)
	}
	return nil
}

// ListEdits returns the edits of a document in revision order.
func (s *Store) ListEdits(ctx context.Context, id types.DocumentID) ([]Edit, error) {
	var edits []Edit
	if err := s.queries.Select(ctx, "list-field-edits", &edits, string(id)); err != nil {
		return nil, fmt.Errorf("list edits of %s: %w", id, err)
	}
	return edits, nil
}

// ListEditorKeys returns every issued key, oldest first.
func (s *Store) ListEditorKeys(ctx context.Context) ([]EditorKey, error) {
	var keys []EditorKey
	if err := s.queries.Select(ctx, "list-editor-keys", &keys); err != nil {
		return nil, fmt.Errorf("list editor keys: %w", err)
	}
	return keys, nil
}

// ErrKeyNotFound indicates no active key has the given id.
var ErrKeyNotFound = errors.New("editor key not found or already revoked")

// RevokeEditorKey marks a key revoked. Revoking twice returns ErrKeyNotFound.
func (s *Store) RevokeEditorKey(ctx context.Context, id types.KeyID) error {
	res, err := s.queries.Exec(ctx, "revoke-editor-key", time.Now().UTC(), string(id))
	if err != nil {
		return fmt.Errorf("revoke editor key %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("revoke editor key %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, id)
	}
	return nil
}
