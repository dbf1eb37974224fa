package auth

import "errors"

// Authentication errors. UNAUTHENTICATED for missing or invalid keys (does
// not confirm the key exists), PERMISSION_DENIED for revoked keys,
// UNAVAILABLE when the key table cannot be read.
var (
	ErrMissingKey       = errors.New("editor key required in x-editor-key metadata")
	ErrInvalidKeyFormat = errors.New("invalid editor key format")
	ErrUnknownKey       = errors.New("unknown secret ID")
	ErrInvalidKey       = errors.New("invalid editor key")
	ErrKeyRevoked       = errors.New("editor key has been revoked")
	ErrNoSecrets        = errors.New("no editor secrets configured")
	ErrDatabase         = errors.New("editor key lookup failed")
)
