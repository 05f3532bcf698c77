package domain

import (
	"strings"

	dErrors "legacyvault/pkg/domain-errors"
)

// JurisdictionCode is a two-letter upper-case country code (e.g. "CZ", "SK").
//
// Usage: construct via ParseJurisdictionCode at trust boundaries; direct casting
// bypasses normalization.
type JurisdictionCode string

// ParseJurisdictionCode normalizes and validates a jurisdiction code. It does
// not check that the jurisdiction is supported; that is the registry's job.
func ParseJurisdictionCode(s string) (JurisdictionCode, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if len(s) != 2 {
		return "", dErrors.New(dErrors.CodeInvalidInput, "jurisdiction code must have two letters")
	}
	for _, r := range s {
		if r < 'A' || r > 'Z' {
			return "", dErrors.New(dErrors.CodeInvalidInput, "jurisdiction code must be alphabetic")
		}
	}
	return JurisdictionCode(s), nil
}

func (c JurisdictionCode) String() string {
	return string(c)
}
