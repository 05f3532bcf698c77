package jurisdiction

import (
	"bytes"
	_ "embed"
	"fmt"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
)

//go:embed jurisdictions.yaml
var defaultTables []byte

type fileDocument struct {
	Jurisdictions []fileConfig `yaml:"jurisdictions"`
}

type fileConfig struct {
	Code            string   `yaml:"code"`
	Name            string   `yaml:"name"`
	Languages       []string `yaml:"languages"`
	WillTypes       []string `yaml:"will_types"`
	DefaultWillType string   `yaml:"default_will_type"`
	MinimumAge      int      `yaml:"minimum_age"`
	AgeOfMajority   int      `yaml:"age_of_majority"`
	Witnesses       struct {
		Required     bool     `yaml:"required"`
		MinimumCount int      `yaml:"minimum_count"`
		Restrictions []string `yaml:"restrictions"`
	} `yaml:"witnesses"`
	Notarization struct {
		Required      bool     `yaml:"required"`
		AdvisableWhen []string `yaml:"advisable_when"`
	} `yaml:"notarization"`
	HolographicAllowed bool     `yaml:"holographic_allowed"`
	ForcedHeirship     bool     `yaml:"forced_heirship"`
	RevocationMethods  []string `yaml:"revocation_methods"`
	Formalities        []string `yaml:"formalities"`
	MandatoryClauses   []string `yaml:"mandatory_clauses"`
	Tax                struct {
		InheritanceTax bool   `yaml:"inheritance_tax"`
		Currency       string `yaml:"currency"`
		Brackets       []struct {
			Relationships []string `yaml:"relationships"`
			Threshold     float64  `yaml:"threshold"`
			Rate          float64  `yaml:"rate"`
		} `yaml:"brackets"`
		Exemptions []string `yaml:"exemptions"`
	} `yaml:"tax"`
	Notary *struct {
		Body        string `yaml:"body"`
		RegistryURL string `yaml:"registry_url"`
		FeeRange    string `yaml:"fee_range"`
	} `yaml:"notary"`
	LegalReferences map[string]string `yaml:"legal_references"`
}

// LoadDefault builds a registry from the embedded rule tables.
func LoadDefault() (*Registry, error) {
	return Parse(defaultTables)
}

// Parse builds a registry from YAML rule tables.
func Parse(data []byte) (*Registry, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "jurisdiction tables are empty")
	}
	var doc fileDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "failed to decode jurisdiction tables")
	}
	configs := make([]Config, 0, len(doc.Jurisdictions))
	for _, fc := range doc.Jurisdictions {
		cfg, err := fc.toConfig()
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}
	return NewRegistry(configs...)
}

func (fc fileConfig) toConfig() (Config, error) {
	code, err := id.ParseJurisdictionCode(fc.Code)
	if err != nil {
		return Config{}, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("jurisdiction %q", fc.Code))
	}
	cfg := Config{
		Code:               code,
		Name:               fc.Name,
		MinimumAge:         fc.MinimumAge,
		AgeOfMajority:      fc.AgeOfMajority,
		HolographicAllowed: fc.HolographicAllowed,
		ForcedHeirship:     fc.ForcedHeirship,
		RevocationMethods:  fc.RevocationMethods,
		Witnesses: WitnessRequirements{
			Required:     fc.Witnesses.Required,
			MinimumCount: fc.Witnesses.MinimumCount,
		},
		Notarization: NotarizationRules{
			Required:      fc.Notarization.Required,
			AdvisableWhen: fc.Notarization.AdvisableWhen,
		},
		Tax: TaxInfo{
			InheritanceTax: fc.Tax.InheritanceTax,
			Currency:       fc.Tax.Currency,
			Exemptions:     fc.Tax.Exemptions,
		},
	}

	for _, l := range fc.Languages {
		tag, err := language.Parse(l)
		if err != nil {
			return Config{}, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("jurisdiction %s: invalid language %q", code, l))
		}
		cfg.Languages = append(cfg.Languages, tag)
	}
	for _, wt := range fc.WillTypes {
		parsed, err := models.ParseWillType(wt)
		if err != nil {
			return Config{}, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("jurisdiction %s", code))
		}
		cfg.WillTypes = append(cfg.WillTypes, parsed)
	}
	if fc.DefaultWillType != "" {
		if cfg.DefaultWillType, err = models.ParseWillType(fc.DefaultWillType); err != nil {
			return Config{}, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("jurisdiction %s", code))
		}
	}
	for _, r := range fc.Witnesses.Restrictions {
		cfg.Witnesses.Restrictions = append(cfg.Witnesses.Restrictions, WitnessRestriction(r))
	}
	for _, f := range fc.Formalities {
		cfg.Formalities = append(cfg.Formalities, Formality(f))
	}
	for _, c := range fc.MandatoryClauses {
		cfg.MandatoryClauses = append(cfg.MandatoryClauses, ClauseKey(c))
	}
	for _, b := range fc.Tax.Brackets {
		bracket := TaxBracket{Threshold: b.Threshold, Rate: b.Rate}
		for _, r := range b.Relationships {
			rel, err := models.ParseRelationship(r)
			if err != nil {
				return Config{}, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("jurisdiction %s tax bracket", code))
			}
			bracket.Relationships = append(bracket.Relationships, rel)
		}
		cfg.Tax.Brackets = append(cfg.Tax.Brackets, bracket)
	}
	if fc.Notary != nil {
		cfg.Notary = &NotaryInfo{Body: fc.Notary.Body, RegistryURL: fc.Notary.RegistryURL, FeeRange: fc.Notary.FeeRange}
	}
	if len(fc.LegalReferences) > 0 {
		cfg.LegalReferences = make(map[models.IssueCode]string, len(fc.LegalReferences))
		for k, v := range fc.LegalReferences {
			cfg.LegalReferences[models.IssueCode(k)] = v
		}
	}
	return cfg, nil
}
