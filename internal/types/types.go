// Package types provides domain models shared across fieldgate components.
//
// The access rule model lives here rather than in internal/rules so that
// schema producers (struct tags, rule files, the game catalog) can build rules
// without importing the evaluator. ID utilities in ids.go import uuid but
// are otherwise isolated.
package types

// DocumentID identifies an open or stored inspector document (UUIDv7).
type DocumentID string

// EditID identifies a single recorded field edit (UUIDv7).
type EditID string

// KeyID identifies an issued editor key (UUIDv7).
type KeyID string

// Limits enforced by enumeration and the inspector service.
const (
	// MaxPathDepth is the default enumeration depth bound and the segment
	// limit for dotted lookups. Deeper graphs are rejected with
	// ErrPathTooDeep rather than walked.
	MaxPathDepth = 32

	// MaxPathLength limits dotted path strings accepted from clients.
	MaxPathLength = 512

	// MaxDocumentSize limits document payloads accepted by OpenDocument.
	MaxDocumentSize = 1024 * 1024

	// DefaultMaxDocuments is the default cap on concurrently open documents.
	DefaultMaxDocuments = 256
)
