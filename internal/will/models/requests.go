package models

import (
	"strings"

	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
)

// CreateWillRequest starts a new will. Language and WillType may be blank to
// use the jurisdiction's primary language and default will type.
type CreateWillRequest struct {
	Jurisdiction string       `json:"jurisdiction"`
	Language     string       `json:"language,omitempty"`
	WillType     string       `json:"will_type,omitempty"`
	Data         WillUserData `json:"data"`
	Preferences  Preferences  `json:"preferences"`
}

// Normalize trims the code fields.
func (r *CreateWillRequest) Normalize() {
	if r == nil {
		return
	}
	r.Jurisdiction = strings.TrimSpace(r.Jurisdiction)
	r.Language = strings.TrimSpace(r.Language)
	r.WillType = strings.TrimSpace(r.WillType)
}

// Validate checks the request shape. Whether the codes are supported is
// decided against the jurisdiction registry later.
func (r *CreateWillRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Jurisdiction == "" {
		return dErrors.New(dErrors.CodeValidation, "jurisdiction is required")
	}
	return r.Preferences.Validate()
}

// UpdateWillRequest edits a stored will. Nil fields keep their stored value.
// The jurisdiction of a will cannot change; start a new will instead.
type UpdateWillRequest struct {
	Language    *string       `json:"language,omitempty"`
	WillType    *string       `json:"will_type,omitempty"`
	Data        *WillUserData `json:"data,omitempty"`
	Preferences *Preferences  `json:"preferences,omitempty"`
}

// Normalize trims the code fields.
func (r *UpdateWillRequest) Normalize() {
	if r == nil {
		return
	}
	if r.Language != nil {
		trimmed := strings.TrimSpace(*r.Language)
		r.Language = &trimmed
	}
	if r.WillType != nil {
		trimmed := strings.TrimSpace(*r.WillType)
		r.WillType = &trimmed
	}
}

// Validate rejects an update that changes nothing.
func (r *UpdateWillRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeBadRequest, "request is required")
	}
	if r.Language == nil && r.WillType == nil && r.Data == nil && r.Preferences == nil {
		return dErrors.New(dErrors.CodeValidation, "update must change at least one field")
	}
	if r.Preferences != nil {
		return r.Preferences.Validate()
	}
	return nil
}

// VersionIntegrity is the checksum verdict for one stored version.
type VersionIntegrity struct {
	Version  int    `json:"version"`
	Checksum string `json:"checksum"`
	Valid    bool   `json:"valid"`
}

// IntegrityReport covers every stored version of a will.
type IntegrityReport struct {
	WillID         id.WillID          `json:"will_id"`
	CurrentVersion int                `json:"current_version"`
	Versions       []VersionIntegrity `json:"versions"`
	Valid          bool               `json:"valid"`
}
