package jurisdiction_test

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"golang.org/x/text/language"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
)

type RegistrySuite struct {
	suite.Suite
	registry *jurisdiction.Registry
}

func TestRegistrySuite(t *testing.T) {
	suite.Run(t, new(RegistrySuite))
}

func (s *RegistrySuite) SetupTest() {
	registry, err := jurisdiction.LoadDefault()
	s.Require().NoError(err)
	s.registry = registry
}

func (s *RegistrySuite) TestDefaultTables() {
	s.Equal([]id.JurisdictionCode{"AT", "CZ", "DE", "GB", "PL", "SK"}, s.registry.Codes())

	s.Run("slovakia", func() {
		cfg, err := s.registry.Config("SK")
		s.Require().NoError(err)
		s.Equal(18, cfg.MinimumAge)
		s.False(cfg.Witnesses.Required)
		s.True(cfg.HolographicAllowed)
		s.True(cfg.ForcedHeirship)
		s.Equal(language.Slovak, cfg.PrimaryLanguage())
		s.Require().NotNil(cfg.Notary)
		s.NotEmpty(cfg.LegalReference(models.IssueAgeRequirement))
	})

	s.Run("united kingdom requires witnesses", func() {
		cfg, err := s.registry.Config("GB")
		s.Require().NoError(err)
		s.True(cfg.Witnesses.Required)
		s.Equal(2, cfg.Witnesses.MinimumCount)
		s.False(cfg.SupportsWillType(models.WillTypeHolographic))
		s.True(cfg.HasMandatoryClause(jurisdiction.ClauseWitnessAttestation))
	})
}

func (s *RegistrySuite) TestUnknownJurisdiction() {
	_, err := s.registry.Config("XX")
	s.Require().Error(err)
	s.ErrorIs(err, jurisdiction.ErrUnknownJurisdiction)
	s.True(dErrors.HasCode(err, dErrors.CodeNotFound))

	_, err = s.registry.SupportedLanguages("XX")
	s.ErrorIs(err, jurisdiction.ErrUnknownJurisdiction)

	_, err = s.registry.SupportedWillTypes("XX")
	s.ErrorIs(err, jurisdiction.ErrUnknownJurisdiction)
}

func (s *RegistrySuite) TestReturnedConfigsAreCopies() {
	cfg, err := s.registry.Config("CZ")
	s.Require().NoError(err)
	cfg.Languages[0] = language.German
	cfg.MandatoryClauses = nil
	cfg.LegalReferences[models.IssueAgeRequirement] = "tampered"

	again, err := s.registry.Config("CZ")
	s.Require().NoError(err)
	s.Equal(language.Czech, again.PrimaryLanguage())
	s.NotEmpty(again.MandatoryClauses)
	s.NotEqual("tampered", again.LegalReference(models.IssueAgeRequirement))
}

func (s *RegistrySuite) TestSupportedLanguages() {
	langs, err := s.registry.SupportedLanguages("SK")
	s.Require().NoError(err)
	s.Equal([]language.Tag{language.Slovak, language.Czech, language.English}, langs)
}

func (s *RegistrySuite) TestSupportedWillTypes() {
	set, err := s.registry.SupportedWillTypes("DE")
	s.Require().NoError(err)
	s.Equal(models.WillTypeHolographic, set.Default)
	s.True(set.Contains(models.WillTypeNotarial))
	s.False(set.Contains(models.WillTypeWitnessed))
}

func (s *RegistrySuite) TestResolveLanguage() {
	s.Run("empty resolves to primary", func() {
		tag, err := s.registry.ResolveLanguage("PL", "")
		s.Require().NoError(err)
		s.Equal(language.Polish, tag)
	})

	s.Run("regional variant resolves to base language", func() {
		tag, err := s.registry.ResolveLanguage("DE", "de-AT")
		s.Require().NoError(err)
		s.Equal(language.German, tag)
	})

	s.Run("unsupported language is a configuration error", func() {
		_, err := s.registry.ResolveLanguage("GB", "cs")
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	})

	s.Run("malformed language is a configuration error", func() {
		_, err := s.registry.ResolveLanguage("GB", "!!")
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}

func (s *RegistrySuite) TestResolveWillType() {
	wt, err := s.registry.ResolveWillType("GB", "")
	s.Require().NoError(err)
	s.Equal(models.WillTypeWitnessed, wt)

	_, err = s.registry.ResolveWillType("GB", "holographic")
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))

	_, err = s.registry.ResolveWillType("CZ", "oral")
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
}

func (s *RegistrySuite) TestNewRegistryRejectsInvalidConfigs() {
	valid := func() jurisdiction.Config {
		return jurisdiction.Config{
			Code:               "XA",
			Languages:          []language.Tag{language.English},
			WillTypes:          []models.WillType{models.WillTypeHolographic},
			DefaultWillType:    models.WillTypeHolographic,
			HolographicAllowed: true,
			MinimumAge:         18,
			AgeOfMajority:      18,
			MandatoryClauses:   []jurisdiction.ClauseKey{jurisdiction.ClauseSignature},
		}
	}

	_, err := jurisdiction.NewRegistry(valid())
	s.Require().NoError(err)

	cases := map[string]func(*jurisdiction.Config){
		"lower case code":          func(c *jurisdiction.Config) { c.Code = "xa" },
		"no languages":             func(c *jurisdiction.Config) { c.Languages = nil },
		"default not supported":    func(c *jurisdiction.Config) { c.DefaultWillType = models.WillTypeNotarial },
		"holographic not allowed":  func(c *jurisdiction.Config) { c.HolographicAllowed = false },
		"zero minimum age":         func(c *jurisdiction.Config) { c.MinimumAge = 0 },
		"witnesses without count":  func(c *jurisdiction.Config) { c.Witnesses.Required = true },
		"missing mandatory clause": func(c *jurisdiction.Config) { c.MandatoryClauses = nil },
	}
	for name, mutate := range cases {
		s.Run(name, func() {
			cfg := valid()
			mutate(&cfg)
			_, err := jurisdiction.NewRegistry(cfg)
			s.True(dErrors.HasCode(err, dErrors.CodeConfiguration), "got %v", err)
		})
	}

	s.Run("duplicate codes", func() {
		_, err := jurisdiction.NewRegistry(valid(), valid())
		s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
	})
}

func (s *RegistrySuite) TestParseRejectsBadTables() {
	_, err := jurisdiction.Parse([]byte("  "))
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))

	_, err = jurisdiction.Parse([]byte("jurisdictions:\n  - code: CZ\n    languages: [cs]\n    will_types: [oral]\n"))
	s.True(dErrors.HasCode(err, dErrors.CodeConfiguration))
}
