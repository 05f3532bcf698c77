package jurisdiction

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/text/language"

	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
)

// ErrUnknownJurisdiction is wrapped by lookups for codes the registry does not hold.
var ErrUnknownJurisdiction = errors.New("unknown jurisdiction")

// Registry is a read-only set of jurisdiction rule tables. It is built once at
// startup and passed to the components that need it. Every accessor returns
// copies.
type Registry struct {
	configs map[id.JurisdictionCode]Config
	codes   []id.JurisdictionCode
}

// WillTypeSet lists the legal will forms of a jurisdiction and its default.
type WillTypeSet struct {
	Types   []models.WillType
	Default models.WillType
}

// Contains reports whether wt is in the set.
func (s WillTypeSet) Contains(wt models.WillType) bool {
	for _, x := range s.Types {
		if x == wt {
			return true
		}
	}
	return false
}

// NewRegistry validates configs and builds a registry from them.
func NewRegistry(configs ...Config) (*Registry, error) {
	r := &Registry{configs: make(map[id.JurisdictionCode]Config, len(configs))}
	for _, cfg := range configs {
		if err := validateConfig(cfg); err != nil {
			return nil, err
		}
		if _, dup := r.configs[cfg.Code]; dup {
			return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("duplicate jurisdiction %s", cfg.Code))
		}
		r.configs[cfg.Code] = cfg.Clone()
		r.codes = append(r.codes, cfg.Code)
	}
	sort.Slice(r.codes, func(i, j int) bool { return r.codes[i] < r.codes[j] })
	return r, nil
}

func validateConfig(cfg Config) error {
	fail := func(msg string) error {
		return dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("jurisdiction %s: %s", cfg.Code, msg))
	}
	if _, err := id.ParseJurisdictionCode(string(cfg.Code)); err != nil || string(cfg.Code) != strings.ToUpper(string(cfg.Code)) {
		return dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("invalid jurisdiction code %q", cfg.Code))
	}
	switch {
	case len(cfg.Languages) == 0:
		return fail("at least one language is required")
	case len(cfg.WillTypes) == 0:
		return fail("at least one will type is required")
	case !cfg.SupportsWillType(cfg.DefaultWillType):
		return fail(fmt.Sprintf("default will type %q is not supported", cfg.DefaultWillType))
	case cfg.SupportsWillType(models.WillTypeHolographic) && !cfg.HolographicAllowed:
		return fail("holographic will listed but not allowed")
	case cfg.MinimumAge <= 0 || cfg.AgeOfMajority <= 0:
		return fail("minimum age and age of majority must be positive")
	case cfg.Witnesses.MinimumCount < 0:
		return fail("witness count must not be negative")
	case cfg.Witnesses.Required && cfg.Witnesses.MinimumCount == 0:
		return fail("required witnesses need a minimum count")
	case len(cfg.MandatoryClauses) == 0:
		return fail("mandatory clauses are required")
	}
	return nil
}

// Config returns the rule table for code. Unknown codes are an error; callers
// must not fall back to another jurisdiction.
func (r *Registry) Config(code id.JurisdictionCode) (Config, error) {
	cfg, ok := r.configs[code]
	if !ok {
		return Config{}, dErrors.Wrap(ErrUnknownJurisdiction, dErrors.CodeNotFound, fmt.Sprintf("jurisdiction %q is not supported", code))
	}
	return cfg.Clone(), nil
}

// SupportedLanguages returns the jurisdiction's languages, primary first.
func (r *Registry) SupportedLanguages(code id.JurisdictionCode) ([]language.Tag, error) {
	cfg, err := r.Config(code)
	if err != nil {
		return nil, err
	}
	return cfg.Languages, nil
}

// SupportedWillTypes returns the jurisdiction's will forms and its default.
func (r *Registry) SupportedWillTypes(code id.JurisdictionCode) (WillTypeSet, error) {
	cfg, err := r.Config(code)
	if err != nil {
		return WillTypeSet{}, err
	}
	return WillTypeSet{Types: cfg.WillTypes, Default: cfg.DefaultWillType}, nil
}

// ResolveLanguage maps a requested language code onto one the jurisdiction
// supports. An empty request resolves to the primary language.
func (r *Registry) ResolveLanguage(code id.JurisdictionCode, lang string) (language.Tag, error) {
	cfg, err := r.Config(code)
	if err != nil {
		return language.Und, err
	}
	if strings.TrimSpace(lang) == "" {
		return cfg.PrimaryLanguage(), nil
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return language.Und, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("invalid language code %q", lang))
	}
	base, _ := tag.Base()
	for _, supported := range cfg.Languages {
		if supported == tag {
			return supported, nil
		}
		if sb, _ := supported.Base(); sb == base {
			return supported, nil
		}
	}
	return language.Und, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("language %q is not supported in %s", lang, code))
}

// ResolveWillType validates a requested will type. An empty request resolves
// to the jurisdiction default.
func (r *Registry) ResolveWillType(code id.JurisdictionCode, willType string) (models.WillType, error) {
	set, err := r.SupportedWillTypes(code)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(willType) == "" {
		return set.Default, nil
	}
	wt, err := models.ParseWillType(willType)
	if err != nil {
		return "", err
	}
	if !set.Contains(wt) {
		return "", dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("will type %q is not recognised in %s", wt, code))
	}
	return wt, nil
}

// Codes lists the supported jurisdictions in sorted order.
func (r *Registry) Codes() []id.JurisdictionCode {
	return append([]id.JurisdictionCode(nil), r.codes...)
}
