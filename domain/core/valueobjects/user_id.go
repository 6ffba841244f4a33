package valueobjects

import (
	"strings"

	pkgerrors "recurring-orders/pkg/errors"
)

// UserID is the opaque external identifier of a user, without any key prefix
type UserID struct {
	value string
}

// NewUserID accepts either a bare id ("3f2a...") or a prefixed one ("User#3f2a...")
// and keeps only the segment after the last '#'.
func NewUserID(raw string) (UserID, error) {
	id := StripKeyPrefix(raw)
	if id == "" {
		return UserID{}, pkgerrors.NewValidationError("user id is required")
	}
	return UserID{value: id}, nil
}

// StripKeyPrefix returns the segment of raw after its last '#'
func StripKeyPrefix(raw string) string {
	raw = strings.TrimSpace(raw)
	if i := strings.LastIndex(raw, "#"); i >= 0 {
		return raw[i+1:]
	}
	return raw
}

// String returns the bare id
func (id UserID) String() string {
	return id.value
}

// IsZero checks if the UserID is the zero value
func (id UserID) IsZero() bool {
	return id.value == ""
}

// Equals checks if two UserIDs are equal
func (id UserID) Equals(other UserID) bool {
	return id.value == other.value
}
