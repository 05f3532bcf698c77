package domain

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	dErrors "legacyvault/pkg/domain-errors"
)

// Typed identifiers keep owner and will IDs from being swapped at call sites.
// Both wrap a UUID; the nil UUID is never a valid identifier.
type (
	UserID uuid.UUID
	WillID uuid.UUID
)

func (u UserID) String() string { return uuid.UUID(u).String() }
func (u UserID) IsNil() bool    { return uuid.UUID(u) == uuid.Nil }

func (w WillID) String() string { return uuid.UUID(w).String() }
func (w WillID) IsNil() bool    { return uuid.UUID(w) == uuid.Nil }

// Text marshaling keeps the canonical UUID form in JSON documents and
// persisted blobs.
func (u UserID) MarshalText() ([]byte, error) { return uuid.UUID(u).MarshalText() }
func (w WillID) MarshalText() ([]byte, error) { return uuid.UUID(w).MarshalText() }

func (u *UserID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(u).UnmarshalText(b)
}

func (w *WillID) UnmarshalText(b []byte) error {
	return (*uuid.UUID)(w).UnmarshalText(b)
}

// NewWillID returns a fresh random will identifier.
func NewWillID() WillID {
	return WillID(uuid.New())
}

// ParseUserID parses a user identifier received at a trust boundary.
func ParseUserID(s string) (UserID, error) {
	u, err := parseUUID(s, "user_id")
	if err != nil {
		return UserID{}, err
	}
	return UserID(u), nil
}

// ParseWillID parses a will identifier received at a trust boundary.
func ParseWillID(s string) (WillID, error) {
	u, err := parseUUID(s, "will_id")
	if err != nil {
		return WillID{}, err
	}
	return WillID(u), nil
}

func parseUUID(s, field string) (uuid.UUID, error) {
	if s == "" {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is required")
	}
	if len(s) > 64 || !utf8.ValidString(s) || strings.ContainsRune(s, 0) {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" is malformed")
	}
	u, err := uuid.Parse(s)
	if err != nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must be a valid UUID")
	}
	if u == uuid.Nil {
		return uuid.Nil, dErrors.New(dErrors.CodeInvalidInput, field+" must not be nil")
	}
	return u, nil
}
