package generator

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"legacyvault/internal/will/models"
	dErrors "legacyvault/pkg/domain-errors"
)

// Phrase groups inside a phrasebook file.
const (
	groupHeadings     = "headings"
	groupDeclarations = "declarations"
	groupClauses      = "clauses"
	groupBeneficiary  = "beneficiary"
	groupAsset        = "asset"
	groupExecutor     = "executor"
	groupGuardian     = "guardian"
	groupInstruction  = "instruction"
	groupExplanations = "explanations"
	groupExecution    = "execution"
	groupRelationship = "relationships"
)

type phrasebookFile struct {
	Language    string                       `yaml:"language"`
	DateFormat  string                       `yaml:"date_format"`
	Title       string                       `yaml:"title"`
	Conjunction string                       `yaml:"conjunction"`
	Disclaimer  string                       `yaml:"disclaimer"`
	Phrases     map[string]map[string]string `yaml:"phrases"`
	Steps       map[string][]string          `yaml:"execution_steps"`
}

// clauseInput carries every variable a phrase may reference. Phrases are
// parsed once and executed against this struct, so an unknown field is caught
// when the catalog loads rather than while rendering a will.
type clauseInput struct {
	Name         string
	Relationship string
	BirthDate    string
	BirthPlace   string
	Citizenship  string
	Address      string
	Jurisdiction string

	Percentage string
	Pool       string
	Amount     string
	Assets     string
	Conditions string
	Alternate  string

	Value       string
	Location    string
	Ownership   string
	Encumbrance string
	Names       string

	Primary  string
	Guardian string
	Child    string

	Title   string
	Content string

	Body     string
	FeeRange string
	Count    int

	Items string
	Text  string
}

// phrasebook is the compiled wording for one language.
type phrasebook struct {
	tag         language.Tag
	dateFormat  string
	title       string
	conjunction string
	disclaimer  string
	phrases     map[string]*template.Template
	steps       map[models.WillType][]string
}

func requiredPhrases() map[string][]string {
	relationships := make([]string, 0, len(models.AllRelationships()))
	for _, r := range models.AllRelationships() {
		relationships = append(relationships, string(r))
	}
	declarations := make([]string, 0, len(models.AllLanguageStyles()))
	for _, s := range models.AllLanguageStyles() {
		declarations = append(declarations, string(s))
	}
	return map[string][]string{
		groupHeadings:     {"beneficiaries", "assets", "executors", "guardianship", "instructions", "footer"},
		groupDeclarations: declarations,
		groupClauses: {
			"revocation", "sound_mind", "forced_heirship_notice", "handwritten_notice",
			"witness_attestation", "signature", "survivorship", "no_contest",
		},
		groupBeneficiary:  {"percentage", "fixed_amount", "specific_assets", "remainder", "conditions", "alternate", "residuary_estate"},
		groupAsset:        {"value", "location", "ownership", "encumbrance", "bequeathed", "residuary"},
		groupExecutor:     {"primary", "alternate", "co_executor", "powers", "compensation", "restrictions", "unnamed"},
		groupGuardian:     {"primary", "alternate", "instructions", "financial", "education"},
		groupInstruction:  {"entry", "recipient"},
		groupExplanations: {"header", "beneficiaries", "assets", "executors", "guardianship", "instructions", "footer"},
		groupExecution: {
			"witness_count", "not_beneficiary", "adult", "mentally_capable", "notary", "notary_generic",
			"notarization_required", "notarization_advisable", "revocation",
		},
		groupRelationship: relationships,
	}
}

func phraseKey(group, name string) string {
	return group + "." + name
}

// parsePhrasebook decodes and compiles one phrasebook. Every required phrase
// must be present and must execute against an empty input.
func parsePhrasebook(data []byte) (*phrasebook, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, dErrors.New(dErrors.CodeConfiguration, "phrasebook is empty")
	}
	var file phrasebookFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, "failed to decode phrasebook")
	}
	tag, err := language.Parse(file.Language)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("phrasebook language %q", file.Language))
	}
	if file.Title == "" || file.DateFormat == "" || file.Conjunction == "" || file.Disclaimer == "" {
		return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("phrasebook %s: title, date_format, conjunction and disclaimer are required", tag))
	}

	book := &phrasebook{
		tag:         tag,
		dateFormat:  file.DateFormat,
		title:       strings.TrimSpace(file.Title),
		conjunction: strings.TrimSpace(file.Conjunction),
		disclaimer:  strings.TrimSpace(file.Disclaimer),
		phrases:     make(map[string]*template.Template),
		steps:       make(map[models.WillType][]string),
	}

	for group, names := range file.Phrases {
		for name, src := range names {
			key := phraseKey(group, name)
			tmpl, err := template.New(key).Option("missingkey=error").Parse(src)
			if err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("phrasebook %s: phrase %s", tag, key))
			}
			if err := tmpl.Execute(&bytes.Buffer{}, clauseInput{}); err != nil {
				return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("phrasebook %s: phrase %s", tag, key))
			}
			book.phrases[key] = tmpl
		}
	}
	for group, names := range requiredPhrases() {
		for _, name := range names {
			if !book.has(group, name) {
				return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("phrasebook %s: missing phrase %s", tag, phraseKey(group, name)))
			}
		}
	}

	for raw, steps := range file.Steps {
		wt, err := models.ParseWillType(raw)
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeConfiguration, fmt.Sprintf("phrasebook %s: execution steps", tag))
		}
		book.steps[wt] = append([]string(nil), steps...)
	}
	for _, wt := range models.AllWillTypes() {
		if len(book.steps[wt]) == 0 {
			return nil, dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("phrasebook %s: no execution steps for %s", tag, wt))
		}
	}
	return book, nil
}

func (b *phrasebook) has(group, name string) bool {
	_, ok := b.phrases[phraseKey(group, name)]
	return ok
}

// render executes one phrase. A missing phrase is a configuration error.
func (b *phrasebook) render(group, name string, in clauseInput) (string, error) {
	tmpl, ok := b.phrases[phraseKey(group, name)]
	if !ok {
		return "", dErrors.New(dErrors.CodeConfiguration, fmt.Sprintf("phrasebook %s: missing phrase %s", b.tag, phraseKey(group, name)))
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, in); err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, fmt.Sprintf("render phrase %s", phraseKey(group, name)))
	}
	return strings.TrimSpace(buf.String()), nil
}

func (b *phrasebook) relationship(r models.Relationship) string {
	label, err := b.render(groupRelationship, string(r), clauseInput{})
	if err != nil || label == "" {
		return string(r)
	}
	return label
}
