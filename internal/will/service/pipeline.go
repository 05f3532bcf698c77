package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/advisory"
	"legacyvault/internal/will/generator"
	"legacyvault/internal/will/models"
	"legacyvault/internal/will/validation"
	id "legacyvault/pkg/domain"
)

// pipelineInput is everything one rendering depends on.
type pipelineInput struct {
	code     id.JurisdictionCode
	language string
	willType string
	data     models.WillUserData
	prefs    models.Preferences
}

type pipelineResult struct {
	cfg         jurisdiction.Config
	language    language.Tag
	willType    models.WillType
	prefs       models.Preferences
	validation  models.ValidationResult
	output      generator.Output
	suggestions []models.Suggestion
}

// runPipeline resolves the configuration and runs validation, generation and
// advisory concurrently. Configuration problems fail the whole run; validation
// findings never do.
func (s *Service) runPipeline(ctx context.Context, in pipelineInput, asOf time.Time) (pipelineResult, error) {
	_, span := s.tracer.Start(ctx, "will.pipeline")
	defer span.End()
	span.SetAttributes(attribute.String("jurisdiction", in.code.String()))

	cfg, err := s.registry.Config(in.code)
	if err != nil {
		return pipelineResult{}, err
	}
	lang, err := s.registry.ResolveLanguage(in.code, in.language)
	if err != nil {
		return pipelineResult{}, err
	}
	willType, err := s.registry.ResolveWillType(in.code, in.willType)
	if err != nil {
		return pipelineResult{}, err
	}
	if err := in.prefs.Validate(); err != nil {
		return pipelineResult{}, err
	}
	tmpl, err := s.generator.Catalog().Template(cfg, lang, willType)
	if err != nil {
		return pipelineResult{}, err
	}

	res := pipelineResult{
		cfg:      cfg,
		language: lang,
		willType: willType,
		prefs:    in.prefs.Normalize(),
	}
	var g errgroup.Group
	g.Go(func() error {
		start := time.Now()
		res.validation = validation.Validate(in.data, cfg, asOf)
		s.metrics.ObserveStage("validate", time.Since(start))
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		out, err := s.generator.Generate(in.data, cfg, tmpl, res.prefs)
		s.metrics.ObserveStage("generate", time.Since(start))
		if err != nil {
			return err
		}
		res.output = out
		return nil
	})
	g.Go(func() error {
		start := time.Now()
		res.suggestions = advisory.Suggest(in.data, cfg, asOf)
		s.metrics.ObserveStage("suggest", time.Since(start))
		return nil
	})
	if err := g.Wait(); err != nil {
		return pipelineResult{}, err
	}
	return res, nil
}

// snapshot assembles a GeneratedWill from a pipeline result.
func snapshot(res pipelineResult, willID id.WillID, owner id.UserID, version int, data models.WillUserData, createdAt, now time.Time) models.GeneratedWill {
	status := models.StatusDraft
	if res.validation.IsValid {
		status = models.StatusComplete
	}
	return models.GeneratedWill{
		ID:           willID,
		OwnerID:      owner,
		Version:      version,
		Status:       status,
		Jurisdiction: res.cfg.Code,
		Language:     res.language.String(),
		WillType:     res.willType,
		Preferences:  res.prefs,
		Data:         data.Clone(),
		Content:      models.Content{Text: res.output.Text, HTML: res.output.HTML},
		Metadata: models.Metadata{
			GeneratedAt:      now,
			Version:          version,
			WordCount:        res.output.WordCount,
			PageCount:        res.output.PageCount,
			Checksum:         res.output.Checksum,
			GeneratorVersion: generator.Version,
		},
		Validation:            res.validation,
		Suggestions:           res.suggestions,
		ExecutionInstructions: res.output.ExecutionInstructions,
		Disclaimer:            res.output.Disclaimer,
		CreatedAt:             createdAt,
		UpdatedAt:             now,
	}
}
