package api

import "errors"

// Service errors beyond the shared sentinels in internal/types.
// The gRPC layer maps them: validation to INVALID_ARGUMENT, missing
// documents and fields to NOT_FOUND, store failures to UNAVAILABLE.
var (
	// ErrStoreUnavailable indicates persistence was requested but no database is configured.
	ErrStoreUnavailable = errors.New("document store not configured")

	// ErrInvalidValue indicates a field value is not valid JSON.
	ErrInvalidValue = errors.New("field value is not valid JSON")
)
