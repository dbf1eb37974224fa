package types

import (
	"time"

	"github.com/google/uuid"
)

// NewDocumentID generates a UUIDv7 document identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewDocumentID() DocumentID {
	return DocumentID(uuid.Must(uuid.NewV7()).String())
}

// NewEditID generates a UUIDv7 edit identifier.
// Time-ordered IDs keep an edit journal sorted by insertion.
func NewEditID() EditID {
	return EditID(uuid.Must(uuid.NewV7()).String())
}

// NewKeyID generates a UUIDv7 editor key identifier.
func NewKeyID() KeyID {
	return KeyID(uuid.Must(uuid.NewV7()).String())
}

// ParseDocumentID validates and converts a string to DocumentID.
func ParseDocumentID(s string) (DocumentID, error) {
	if _, err := uuid.Parse(s); err != nil {
		return "", err
	}
	return DocumentID(s), nil
}

// DocumentIDTime extracts the creation time embedded in a UUIDv7 document ID.
// Returns zero time for invalid UUIDs; caller should check IsZero().
func DocumentIDTime(id DocumentID) time.Time {
	u, err := uuid.Parse(string(id))
	if err != nil {
		return time.Time{}
	}
	sec, nsec := u.Time().UnixTime()
	return time.Unix(sec, nsec)
}
