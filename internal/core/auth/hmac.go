package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

const keyPrefix = "fg-v1-"

// ParseEditorKey extracts secret_id and random_data from an editor key.
// Format: fg-v1-<secret_id>-<random_data>, 32 and 64 lowercase hex chars.
func ParseEditorKey(key string) (secretID, randomData string, err error) {
	rest, ok := strings.CutPrefix(key, keyPrefix)
	if !ok {
		return "", "", ErrInvalidKeyFormat
	}
	secretID, randomData, ok = strings.Cut(rest, "-")
	if !ok || len(secretID) != 32 || len(randomData) != 64 {
		return "", "", ErrInvalidKeyFormat
	}
	if !isLowerHex(secretID) || !isLowerHex(randomData) {
		return "", "", ErrInvalidKeyFormat
	}
	return secretID, randomData, nil
}

func isLowerHex(s string) bool {
	for _, c := range s {
		if !((c >= '0' && c <= '9') || (c >= 'a' && c <= 'f')) {
			return false
		}
	}
	return true
}

// FormatEditorKey constructs an editor key from its components.
func FormatEditorKey(secretID, randomData string) string {
	return fmt.Sprintf("%s%s-%s", keyPrefix, secretID, randomData)
}

// GenerateEditorKey returns a new key bound to secretID with 256 random bits.
func GenerateEditorKey(secretID string) (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate editor key: %w", err)
	}
	return FormatEditorKey(secretID, hex.EncodeToString(buf)), nil
}

// ComputeHMAC computes the HMAC-SHA256 of key using secret.
func ComputeHMAC(secret []byte, key string) []byte {
	h := hmac.New(sha256.New, secret)
	h.Write([]byte(key))
	return h.Sum(nil)
}

// KeyHash is the hex form of ComputeHMAC stored in editor_keys.key_hash.
func KeyHash(secret []byte, key string) string {
	return hex.EncodeToString(ComputeHMAC(secret, key))
}

// VerifyHMAC compares two hashes in constant time.
func VerifyHMAC(expectedHash, computedHash []byte) bool {
	return hmac.Equal(expectedHash, computedHash)
}
