package types

import "errors"

// Sentinel errors for fieldgate operations.
var (
	// ErrSchemaMismatch indicates a field path was replayed against an instance
	// whose shape differs from the one the path was built from.
	ErrSchemaMismatch = errors.New("field path does not match instance schema")

	// ErrTypeMismatch indicates a value cannot be stored in the target field.
	ErrTypeMismatch = errors.New("value type incompatible with field type")

	// ErrNilRoot indicates a root binding holds no value to read or rebuild.
	ErrNilRoot = errors.New("root binding holds no value")

	// ErrCyclicSchema indicates enumeration re-entered an object already on the current chain.
	ErrCyclicSchema = errors.New("object graph re-enters an object on the current path")

	// ErrPathTooDeep indicates a field path exceeds MaxPathDepth.
	ErrPathTooDeep = errors.New("field path exceeds maximum depth")

	// ErrInvalidRule indicates an access rule declaration could not be parsed.
	ErrInvalidRule = errors.New("invalid access rule")

	// ErrCoercionFailed indicates a rule literal could not be converted to the sibling's type.
	ErrCoercionFailed = errors.New("type coercion failed")

	// ErrFieldNotFound indicates a field path could not be resolved to an exposed field.
	ErrFieldNotFound = errors.New("field not found")

	// ErrUnknownDocumentType indicates a document type name is not in the catalog.
	ErrUnknownDocumentType = errors.New("unknown document type")

	// ErrDocumentNotFound indicates no open or stored document has the given id.
	ErrDocumentNotFound = errors.New("document not found")

	// ErrTooManyDocuments indicates the open document limit was reached.
	ErrTooManyDocuments = errors.New("too many open documents")
)
