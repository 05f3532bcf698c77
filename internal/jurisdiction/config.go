// Package jurisdiction holds the per-country legal rule tables the will
// pipeline validates and renders against. Tables are immutable once loaded.
package jurisdiction

import (
	"golang.org/x/text/language"

	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
)

// WitnessRestriction names who may not act as a witness.
type WitnessRestriction string

const (
	RestrictionNotBeneficiary  WitnessRestriction = "not_beneficiary"
	RestrictionAdult           WitnessRestriction = "adult"
	RestrictionMentallyCapable WitnessRestriction = "mentally_capable"
)

// Formality is a form requirement a will must satisfy.
type Formality string

const (
	FormalityHandwritten Formality = "handwritten"
	FormalitySigned      Formality = "signed"
	FormalityDated       Formality = "dated"
)

// ClauseKey identifies a legal clause in the phrasebooks.
type ClauseKey string

const (
	ClauseRevocation           ClauseKey = "revocation"
	ClauseSoundMind            ClauseKey = "sound_mind"
	ClauseSignature            ClauseKey = "signature"
	ClauseForcedHeirshipNotice ClauseKey = "forced_heirship_notice"
	ClauseHandwrittenNotice    ClauseKey = "handwritten_notice"
	ClauseWitnessAttestation   ClauseKey = "witness_attestation"
)

// WitnessRequirements describe attestation rules.
type WitnessRequirements struct {
	Required     bool
	MinimumCount int
	Restrictions []WitnessRestriction
}

// Has reports whether restriction r applies.
func (w WitnessRequirements) Has(r WitnessRestriction) bool {
	for _, x := range w.Restrictions {
		if x == r {
			return true
		}
	}
	return false
}

// NotarizationRules describe when a notary is needed or advisable.
type NotarizationRules struct {
	Required      bool
	AdvisableWhen []string
}

// NotaryInfo points at the national notary body.
type NotaryInfo struct {
	Body        string
	RegistryURL string
	FeeRange    string
}

// Config is the immutable rule table for one jurisdiction.
type Config struct {
	Code               id.JurisdictionCode
	Name               string
	Languages          []language.Tag
	WillTypes          []models.WillType
	DefaultWillType    models.WillType
	MinimumAge         int
	AgeOfMajority      int
	Witnesses          WitnessRequirements
	Notarization       NotarizationRules
	HolographicAllowed bool
	ForcedHeirship     bool
	RevocationMethods  []string
	Formalities        []Formality
	MandatoryClauses   []ClauseKey
	Tax                TaxInfo
	Notary             *NotaryInfo
	LegalReferences    map[models.IssueCode]string
}

// PrimaryLanguage is the first listed language.
func (c Config) PrimaryLanguage() language.Tag {
	if len(c.Languages) == 0 {
		return language.Und
	}
	return c.Languages[0]
}

// SupportsWillType reports whether wt is a legal form here.
func (c Config) SupportsWillType(wt models.WillType) bool {
	for _, x := range c.WillTypes {
		if x == wt {
			return true
		}
	}
	return false
}

// HasMandatoryClause reports whether k is always rendered.
func (c Config) HasMandatoryClause(k ClauseKey) bool {
	for _, x := range c.MandatoryClauses {
		if x == k {
			return true
		}
	}
	return false
}

// LegalReference returns the statute citation for an issue code, if known.
func (c Config) LegalReference(code models.IssueCode) string {
	return c.LegalReferences[code]
}

// Clone returns a deep copy so callers cannot mutate registry state.
func (c Config) Clone() Config {
	out := c
	out.Languages = append([]language.Tag(nil), c.Languages...)
	out.WillTypes = append([]models.WillType(nil), c.WillTypes...)
	out.Witnesses.Restrictions = append([]WitnessRestriction(nil), c.Witnesses.Restrictions...)
	out.Notarization.AdvisableWhen = append([]string(nil), c.Notarization.AdvisableWhen...)
	out.RevocationMethods = append([]string(nil), c.RevocationMethods...)
	out.Formalities = append([]Formality(nil), c.Formalities...)
	out.MandatoryClauses = append([]ClauseKey(nil), c.MandatoryClauses...)
	out.Tax = c.Tax.clone()
	if c.Notary != nil {
		n := *c.Notary
		out.Notary = &n
	}
	if c.LegalReferences != nil {
		out.LegalReferences = make(map[models.IssueCode]string, len(c.LegalReferences))
		for k, v := range c.LegalReferences {
			out.LegalReferences[k] = v
		}
	}
	return out
}
