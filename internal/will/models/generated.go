package models

import (
	"time"

	id "legacyvault/pkg/domain"
)

// Preferences tune the rendered document.
type Preferences struct {
	DetailLevel              DetailLevel   `json:"detail_level"`
	LanguageStyle            LanguageStyle `json:"language_style"`
	IncludeOptionalClauses   bool          `json:"include_optional_clauses"`
	IncludeLegalExplanations bool          `json:"include_legal_explanations"`
}

// DefaultPreferences is applied when the caller leaves preferences blank.
func DefaultPreferences() Preferences {
	return Preferences{DetailLevel: DetailDetailed, LanguageStyle: StyleFormal}
}

// Normalize fills blank fields with defaults.
func (p Preferences) Normalize() Preferences {
	d := DefaultPreferences()
	if p.DetailLevel == "" {
		p.DetailLevel = d.DetailLevel
	}
	if p.LanguageStyle == "" {
		p.LanguageStyle = d.LanguageStyle
	}
	return p
}

// Validate rejects values outside the closed preference enums. Blank fields
// are accepted; call Normalize to fill them.
func (p Preferences) Validate() error {
	if p.DetailLevel != "" {
		if _, err := ParseDetailLevel(string(p.DetailLevel)); err != nil {
			return err
		}
	}
	if p.LanguageStyle != "" {
		if _, err := ParseLanguageStyle(string(p.LanguageStyle)); err != nil {
			return err
		}
	}
	return nil
}

// Content is the rendered document in its text and markup forms.
type Content struct {
	Text string `json:"text"`
	HTML string `json:"html"`
}

// Metadata describes one rendering.
type Metadata struct {
	GeneratedAt      time.Time `json:"generated_at"`
	Version          int       `json:"version"`
	WordCount        int       `json:"word_count"`
	PageCount        int       `json:"page_count"`
	Checksum         string    `json:"checksum"`
	GeneratorVersion string    `json:"generator_version"`
}

// ExecutionInstructions tell the testator how to make the document legally
// effective.
type ExecutionInstructions struct {
	WillType          WillType `json:"will_type"`
	Steps             []string `json:"steps"`
	WitnessesRequired int      `json:"witnesses_required"`
	WitnessRules      []string `json:"witness_rules,omitempty"`
	Notarization      string   `json:"notarization,omitempty"`
	Revocation        []string `json:"revocation,omitempty"`
}

// GeneratedWill is one immutable rendering of a will. Regeneration produces a
// new value with the same ID and the next Version.
type GeneratedWill struct {
	ID                    id.WillID             `json:"id"`
	OwnerID               id.UserID             `json:"owner_id"`
	Version               int                   `json:"version"`
	Status                WillStatus            `json:"status"`
	Jurisdiction          id.JurisdictionCode   `json:"jurisdiction"`
	Language              string                `json:"language"`
	WillType              WillType              `json:"will_type"`
	Preferences           Preferences           `json:"preferences"`
	Data                  WillUserData          `json:"data"`
	Content               Content               `json:"content"`
	Metadata              Metadata              `json:"metadata"`
	Validation            ValidationResult      `json:"validation"`
	Suggestions           []Suggestion          `json:"suggestions"`
	ExecutionInstructions ExecutionInstructions `json:"execution_instructions"`
	Disclaimer            string                `json:"disclaimer"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// WillRecord is the structured row persisted for a will. Content lives
// separately, keyed by will id and version.
type WillRecord struct {
	ID                    id.WillID             `json:"id"`
	OwnerID               id.UserID             `json:"owner_id"`
	Version               int                   `json:"version"`
	Status                WillStatus            `json:"status"`
	Jurisdiction          id.JurisdictionCode   `json:"jurisdiction"`
	Language              string                `json:"language"`
	WillType              WillType              `json:"will_type"`
	Preferences           Preferences           `json:"preferences"`
	Data                  WillUserData          `json:"data"`
	Validation            ValidationResult      `json:"validation"`
	Suggestions           []Suggestion          `json:"suggestions"`
	ExecutionInstructions ExecutionInstructions `json:"execution_instructions"`
	Disclaimer            string                `json:"disclaimer"`
	CreatedAt             time.Time             `json:"created_at"`
	UpdatedAt             time.Time             `json:"updated_at"`
}

// StoredContent is the rendered blob for one version.
type StoredContent struct {
	WillID   id.WillID `json:"will_id"`
	Version  int       `json:"version"`
	Content  Content   `json:"content"`
	Metadata Metadata  `json:"metadata"`
}

// Split separates a generated will into its record and content artifacts.
func (g GeneratedWill) Split() (WillRecord, StoredContent) {
	rec := WillRecord{
		ID:                    g.ID,
		OwnerID:               g.OwnerID,
		Version:               g.Version,
		Status:                g.Status,
		Jurisdiction:          g.Jurisdiction,
		Language:              g.Language,
		WillType:              g.WillType,
		Preferences:           g.Preferences,
		Data:                  g.Data.Clone(),
		Validation:            g.Validation,
		Suggestions:           cloneSlice(g.Suggestions),
		ExecutionInstructions: g.ExecutionInstructions,
		Disclaimer:            g.Disclaimer,
		CreatedAt:             g.CreatedAt,
		UpdatedAt:             g.UpdatedAt,
	}
	content := StoredContent{WillID: g.ID, Version: g.Version, Content: g.Content, Metadata: g.Metadata}
	return rec, content
}

// Assemble joins a record with its content.
func Assemble(rec WillRecord, content StoredContent) GeneratedWill {
	return GeneratedWill{
		ID:                    rec.ID,
		OwnerID:               rec.OwnerID,
		Version:               content.Version,
		Status:                rec.Status,
		Jurisdiction:          rec.Jurisdiction,
		Language:              rec.Language,
		WillType:              rec.WillType,
		Preferences:           rec.Preferences,
		Data:                  rec.Data.Clone(),
		Content:               content.Content,
		Metadata:              content.Metadata,
		Validation:            rec.Validation,
		Suggestions:           cloneSlice(rec.Suggestions),
		ExecutionInstructions: rec.ExecutionInstructions,
		Disclaimer:            rec.Disclaimer,
		CreatedAt:             rec.CreatedAt,
		UpdatedAt:             rec.UpdatedAt,
	}
}

// Summary is the list view of a will.
type Summary struct {
	ID                id.WillID           `json:"id"`
	Version           int                 `json:"version"`
	Status            WillStatus          `json:"status"`
	Jurisdiction      id.JurisdictionCode `json:"jurisdiction"`
	WillType          WillType            `json:"will_type"`
	CompletenessScore int                 `json:"completeness_score"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

// Summarize projects a record onto its list view.
func (r WillRecord) Summarize() Summary {
	return Summary{
		ID:                r.ID,
		Version:           r.Version,
		Status:            r.Status,
		Jurisdiction:      r.Jurisdiction,
		WillType:          r.WillType,
		CompletenessScore: r.Validation.CompletenessScore,
		UpdatedAt:         r.UpdatedAt,
	}
}
