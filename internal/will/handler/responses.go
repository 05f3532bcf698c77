package handler

import (
	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
)

// ListResponse wraps will summaries.
type ListResponse struct {
	Wills []models.Summary `json:"wills"`
	Count int              `json:"count"`
}

// JurisdictionResponse is the public view of a jurisdiction's rule table.
type JurisdictionResponse struct {
	Code               string            `json:"code"`
	Name               string            `json:"name"`
	Languages          []string          `json:"languages"`
	WillTypes          []models.WillType `json:"will_types"`
	DefaultWillType    models.WillType   `json:"default_will_type"`
	MinimumAge         int               `json:"minimum_age"`
	AgeOfMajority      int               `json:"age_of_majority"`
	WitnessesRequired  bool              `json:"witnesses_required"`
	MinimumWitnesses   int               `json:"minimum_witnesses"`
	NotaryRequired     bool              `json:"notary_required"`
	HolographicAllowed bool              `json:"holographic_allowed"`
	ForcedHeirship     bool              `json:"forced_heirship"`
	InheritanceTax     bool              `json:"inheritance_tax"`
	Currency           string            `json:"currency"`
}

func FromConfig(cfg jurisdiction.Config) JurisdictionResponse {
	langs := make([]string, len(cfg.Languages))
	for i, tag := range cfg.Languages {
		langs[i] = tag.String()
	}
	return JurisdictionResponse{
		Code:               cfg.Code.String(),
		Name:               cfg.Name,
		Languages:          langs,
		WillTypes:          append([]models.WillType(nil), cfg.WillTypes...),
		DefaultWillType:    cfg.DefaultWillType,
		MinimumAge:         cfg.MinimumAge,
		AgeOfMajority:      cfg.AgeOfMajority,
		WitnessesRequired:  cfg.Witnesses.Required,
		MinimumWitnesses:   cfg.Witnesses.MinimumCount,
		NotaryRequired:     cfg.Notarization.Required,
		HolographicAllowed: cfg.HolographicAllowed,
		ForcedHeirship:     cfg.ForcedHeirship,
		InheritanceTax:     cfg.Tax.InheritanceTax,
		Currency:           cfg.Tax.Currency,
	}
}
