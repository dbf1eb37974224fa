// Package config provides configuration management for fieldgate services.
package config

import (
	"encoding/base64"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/beatforge/fieldgate/internal/types"
)

// InspectorConfig holds configuration for the gRPC inspector service.
type InspectorConfig struct {
	Host           string
	Port           int
	RequestTimeout time.Duration
	DataDir        string
	MaxDocuments   int
	RulesFile      string
	AuthEnabled    bool
	DatabaseURL    string
}

// DefaultInspectorConfig returns configuration with default values.
func DefaultInspectorConfig() *InspectorConfig {
	return &InspectorConfig{
		Host:           "127.0.0.1",
		Port:           50061,
		RequestTimeout: 10 * time.Second,
		DataDir:        "./data",
		MaxDocuments:   types.DefaultMaxDocuments,
		AuthEnabled:    true,
	}
}

// EditorSecrets extracts editor-key HMAC secrets from environment variables.
// Supports FG_EDITOR_SECRET (single) and FG_EDITOR_SECRET_N (rotation).
// Returns map of secret_id -> decoded secret bytes.
// Secret IDs are UUIDv7 (32 hex chars without hyphens) matching the editor key format.
func EditorSecrets() (map[string][]byte, error) {
	secrets := make(map[string][]byte)

	add := func(key, val string) error {
		secretID, decoded, err := ParseEditorSecretWithID(val)
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		if _, exists := secrets[secretID]; exists {
			return fmt.Errorf("duplicate secret_id '%s' found in environment variables (check FG_EDITOR_SECRET and FG_EDITOR_SECRET_* for conflicts)", secretID)
		}
		secrets[secretID] = decoded
		return nil
	}

	// Format: <secret_id>:<base64_secret>
	if val := os.Getenv("FG_EDITOR_SECRET"); val != "" {
		if err := add("FG_EDITOR_SECRET", val); err != nil {
			return nil, err
		}
	}

	// Numbered secrets keep old keys valid while new ones are rolled out.
	for i := 1; ; i++ {
		key := fmt.Sprintf("FG_EDITOR_SECRET_%d", i)
		val := os.Getenv(key)
		if val == "" {
			break
		}
		if err := add(key, val); err != nil {
			return nil, err
		}
	}

	return secrets, nil
}

// ParseEditorSecret decodes a base64-encoded HMAC secret.
func ParseEditorSecret(envValue string) ([]byte, error) {
	decoded, err := base64.StdEncoding.DecodeString(strings.TrimSpace(envValue))
	if err != nil {
		return nil, fmt.Errorf("invalid base64 encoding: %w", err)
	}
	if len(decoded) < 32 {
		return nil, fmt.Errorf("secret must be at least 32 bytes, got %d", len(decoded))
	}
	return decoded, nil
}

// ParseEditorSecretWithID parses secret_id:base64_secret format.
// Secret ID must be 32 lowercase hex chars (UUIDv7 without hyphens).
func ParseEditorSecretWithID(envValue string) (secretID string, secret []byte, err error) {
	secretID, encoded, ok := strings.Cut(strings.TrimSpace(envValue), ":")
	if !ok {
		return "", nil, fmt.Errorf("format must be <secret_id>:<base64_secret>")
	}

	if len(secretID) != 32 {
		return "", nil, fmt.Errorf("secret_id must be 32 hex chars (UUIDv7 without hyphens)")
	}
	for _, c := range secretID {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return "", nil, fmt.Errorf("secret_id must be hex chars only")
		}
	}

	secret, err = ParseEditorSecret(encoded)
	if err != nil {
		return "", nil, err
	}
	return secretID, secret, nil
}
