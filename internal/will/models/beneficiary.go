package models

import "time"

// Share is a tagged union describing what a beneficiary receives. Exactly the
// fields belonging to Kind are meaningful; build values with the constructors.
//
// A percentage share applies to a pool: the asset named by AssetID, or the
// residuary estate when AssetID is empty.
type Share struct {
	Kind       ShareKind `json:"kind"`
	Percentage float64   `json:"percentage,omitempty"`
	AssetID    string    `json:"asset_id,omitempty"`
	Amount     *Money    `json:"amount,omitempty"`
	AssetIDs   []string  `json:"asset_ids,omitempty"`
}

// PercentageShare of the residuary estate (assetID == "") or of one asset.
func PercentageShare(pct float64, assetID string) Share {
	return Share{Kind: ShareKindPercentage, Percentage: pct, AssetID: assetID}
}

// FixedAmountShare is a pecuniary legacy.
func FixedAmountShare(amount Money) Share {
	return Share{Kind: ShareKindFixedAmount, Amount: &amount}
}

// SpecificAssetsShare bequeaths the named assets outright.
func SpecificAssetsShare(assetIDs ...string) Share {
	return Share{Kind: ShareKindSpecificAssets, AssetIDs: append([]string(nil), assetIDs...)}
}

// RemainderShare takes whatever is not otherwise allocated.
func RemainderShare() Share {
	return Share{Kind: ShareKindRemainder}
}

// Pool returns the pool a percentage share draws from. The residuary estate is
// reported as ResiduaryPool.
func (s Share) Pool() string {
	if s.AssetID == "" {
		return ResiduaryPool
	}
	return s.AssetID
}

// ReferencedAssets lists every asset id the share points at.
func (s Share) ReferencedAssets() []string {
	switch s.Kind {
	case ShareKindPercentage:
		if s.AssetID != "" {
			return []string{s.AssetID}
		}
		return nil
	case ShareKindSpecificAssets:
		return append([]string(nil), s.AssetIDs...)
	case ShareKindFixedAmount, ShareKindRemainder:
		return nil
	}
	return nil
}

func (s Share) clone() Share {
	out := s
	if s.Amount != nil {
		amount := *s.Amount
		out.Amount = &amount
	}
	out.AssetIDs = cloneSlice(s.AssetIDs)
	return out
}

// ResiduaryPool names the residuary estate in share arithmetic.
const ResiduaryPool = "residuary_estate"

// Beneficiary is a person or organisation receiving part of the estate.
type Beneficiary struct {
	ID                   string       `json:"id"`
	Name                 string       `json:"name"`
	Relationship         Relationship `json:"relationship"`
	DateOfBirth          time.Time    `json:"date_of_birth,omitempty"`
	Contact              *ContactInfo `json:"contact,omitempty"`
	Share                Share        `json:"share"`
	Conditions           []string     `json:"conditions,omitempty"`
	AlternateBeneficiary string       `json:"alternate_beneficiary_id,omitempty"`
}

func (b Beneficiary) clone() Beneficiary {
	out := b
	if b.Contact != nil {
		contact := *b.Contact
		out.Contact = &contact
	}
	out.Share = b.Share.clone()
	out.Conditions = cloneSlice(b.Conditions)
	return out
}
