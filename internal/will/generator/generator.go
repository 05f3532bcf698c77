// Package generator renders a will document from validated data and a resolved
// phrasebook template. Rendering is a pure function of its inputs: the same
// data, jurisdiction, template and preferences always yield the same text and
// checksum.
package generator

import (
	"fmt"
	"sort"
	"strings"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
	dErrors "legacyvault/pkg/domain-errors"
	strutil "legacyvault/pkg/platform/strings"
)

// Version identifies the rendering logic stored in will metadata.
const Version = "legacyvault-generator/1"

// SectionKey names a document section.
type SectionKey string

const (
	SectionHeader        SectionKey = "header"
	SectionBeneficiaries SectionKey = "beneficiaries"
	SectionAssets        SectionKey = "assets"
	SectionExecutors     SectionKey = "executors"
	SectionGuardianship  SectionKey = "guardianship"
	SectionInstructions  SectionKey = "instructions"
	SectionFooter        SectionKey = "footer"
)

// SectionOrder is the fixed order sections appear in.
func SectionOrder() []SectionKey {
	return []SectionKey{
		SectionHeader, SectionBeneficiaries, SectionAssets, SectionExecutors,
		SectionGuardianship, SectionInstructions, SectionFooter,
	}
}

// Section is one rendered block. The header carries no heading or number.
type Section struct {
	Key         SectionKey `json:"key"`
	Number      int        `json:"number,omitempty"`
	Heading     string     `json:"heading,omitempty"`
	Paragraphs  []string   `json:"paragraphs"`
	Explanation string     `json:"explanation,omitempty"`
}

// Document is the structured form of a rendered will.
type Document struct {
	Title    string    `json:"title"`
	Language string    `json:"language"`
	Sections []Section `json:"sections"`
}

// Section returns the section with key k, if it was rendered.
func (d Document) Section(k SectionKey) (Section, bool) {
	for _, s := range d.Sections {
		if s.Key == k {
			return s, true
		}
	}
	return Section{}, false
}

// Output is everything one rendering produces.
type Output struct {
	Document              Document
	Text                  string
	HTML                  string
	ExecutionInstructions models.ExecutionInstructions
	Checksum              string
	WordCount             int
	PageCount             int
	Disclaimer            string
}

// Generator renders wills from a phrasebook catalog. It holds no mutable
// state and is safe for concurrent use.
type Generator struct {
	catalog *Catalog
}

// New returns a generator over catalog.
func New(catalog *Catalog) *Generator {
	return &Generator{catalog: catalog}
}

// Catalog exposes the phrasebooks used for template resolution.
func (g *Generator) Catalog() *Catalog {
	return g.catalog
}

// Generate renders data for cfg with the resolved template. Incomplete data is
// rendered as a skeleton with blanks; only configuration problems and invalid
// preferences fail.
func (g *Generator) Generate(data models.WillUserData, cfg jurisdiction.Config, tmpl Template, prefs models.Preferences) (Output, error) {
	if tmpl.book == nil {
		return Output{}, dErrors.New(dErrors.CodeConfiguration, "template was not resolved from a catalog")
	}
	if tmpl.Jurisdiction != cfg.Code {
		return Output{}, dErrors.New(dErrors.CodeConfiguration,
			fmt.Sprintf("template resolved for %s used with %s", tmpl.Jurisdiction, cfg.Code))
	}
	if err := prefs.Validate(); err != nil {
		return Output{}, err
	}

	r := &renderer{
		book:     tmpl.book,
		fmt:      newFormatter(tmpl.book),
		cfg:      cfg,
		data:     data,
		prefs:    prefs.Normalize(),
		willType: tmpl.WillType,
	}
	doc, err := r.document(tmpl)
	if err != nil {
		return Output{}, err
	}
	instructions, err := r.executionInstructions()
	if err != nil {
		return Output{}, err
	}

	text := renderText(doc)
	html, err := renderHTML(doc)
	if err != nil {
		return Output{}, err
	}
	words := WordCount(text)
	return Output{
		Document:              doc,
		Text:                  text,
		HTML:                  html,
		ExecutionInstructions: instructions,
		Checksum:              Checksum(text),
		WordCount:             words,
		PageCount:             PageCount(words),
		Disclaimer:            tmpl.book.disclaimer,
	}, nil
}

type renderer struct {
	book     *phrasebook
	fmt      formatter
	cfg      jurisdiction.Config
	data     models.WillUserData
	prefs    models.Preferences
	willType models.WillType
}

func (r *renderer) document(tmpl Template) (Document, error) {
	builders := map[SectionKey]func() ([]string, error){
		SectionHeader:        r.header,
		SectionBeneficiaries: r.beneficiaries,
		SectionAssets:        r.assets,
		SectionExecutors:     r.executors,
		SectionGuardianship:  r.guardianship,
		SectionInstructions:  r.instructions,
		SectionFooter:        r.footer,
	}

	doc := Document{Title: r.book.title, Language: tmpl.Language.String()}
	number := 0
	for _, key := range SectionOrder() {
		paragraphs, err := builders[key]()
		if err != nil {
			return Document{}, err
		}
		if len(paragraphs) == 0 {
			continue
		}
		section := Section{Key: key, Paragraphs: paragraphs}
		if key != SectionHeader {
			number++
			section.Number = number
			if section.Heading, err = r.book.render(groupHeadings, string(key), clauseInput{}); err != nil {
				return Document{}, err
			}
		}
		if r.prefs.IncludeLegalExplanations {
			if section.Explanation, err = r.book.render(groupExplanations, string(key), clauseInput{}); err != nil {
				return Document{}, err
			}
		}
		doc.Sections = append(doc.Sections, section)
	}
	return doc, nil
}

func (r *renderer) testatorName() string {
	return orBlank(r.data.Personal.FullName)
}

// Header clauses precede the dispositions; footer clauses follow them. A
// mandatory clause outside both lists is rendered in the footer ahead of the
// attestation block.
var (
	headerClauses = []jurisdiction.ClauseKey{
		jurisdiction.ClauseRevocation,
		jurisdiction.ClauseSoundMind,
		jurisdiction.ClauseForcedHeirshipNotice,
		jurisdiction.ClauseHandwrittenNotice,
	}
	footerClauses = []jurisdiction.ClauseKey{
		jurisdiction.ClauseWitnessAttestation,
		jurisdiction.ClauseSignature,
	}
)

// clauseApplies reports whether a clause is rendered for this will. Mandatory
// clauses always are; the rest depend on the jurisdiction and will type.
func (r *renderer) clauseApplies(k jurisdiction.ClauseKey) bool {
	if r.cfg.HasMandatoryClause(k) {
		return true
	}
	switch k {
	case jurisdiction.ClauseForcedHeirshipNotice:
		return r.cfg.ForcedHeirship
	case jurisdiction.ClauseHandwrittenNotice:
		return r.willType == models.WillTypeHolographic
	case jurisdiction.ClauseWitnessAttestation:
		return r.willType == models.WillTypeWitnessed
	case jurisdiction.ClauseSignature:
		return true
	case jurisdiction.ClauseRevocation, jurisdiction.ClauseSoundMind:
		return false
	}
	return false
}

func (r *renderer) clauses(keys []jurisdiction.ClauseKey) ([]string, error) {
	in := clauseInput{Name: r.testatorName(), Jurisdiction: r.cfg.Name}
	var out []string
	for _, k := range keys {
		if !r.clauseApplies(k) {
			continue
		}
		text, err := r.book.render(groupClauses, string(k), in)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

func (r *renderer) header() ([]string, error) {
	p := r.data.Personal
	declaration, err := r.book.render(groupDeclarations, string(r.prefs.LanguageStyle), clauseInput{
		Name:        r.testatorName(),
		BirthDate:   r.fmt.date(p.DateOfBirth),
		BirthPlace:  p.PlaceOfBirth,
		Citizenship: p.Citizenship,
		Address:     r.fmt.address(p.Address),
	})
	if err != nil {
		return nil, err
	}
	clauses, err := r.clauses(headerClauses)
	if err != nil {
		return nil, err
	}
	return append([]string{declaration}, clauses...), nil
}

func (r *renderer) footer() ([]string, error) {
	var out []string
	if r.prefs.IncludeOptionalClauses {
		for _, name := range []string{"survivorship", "no_contest"} {
			text, err := r.book.render(groupClauses, name, clauseInput{})
			if err != nil {
				return nil, err
			}
			out = append(out, text)
		}
	}

	placed := make(map[jurisdiction.ClauseKey]bool, len(headerClauses)+len(footerClauses))
	for _, k := range append(append([]jurisdiction.ClauseKey(nil), headerClauses...), footerClauses...) {
		placed[k] = true
	}
	var extra []jurisdiction.ClauseKey
	for _, k := range r.cfg.MandatoryClauses {
		if !placed[k] {
			extra = append(extra, k)
		}
	}

	closing, err := r.clauses(append(extra, footerClauses...))
	if err != nil {
		return nil, err
	}
	return append(out, closing...), nil
}

func (r *renderer) beneficiaries() ([]string, error) {
	var out []string
	for _, b := range r.data.Beneficiaries {
		para, err := r.beneficiary(b)
		if err != nil {
			return nil, err
		}
		if para != "" {
			out = append(out, para)
		}
	}
	return out, nil
}

func (r *renderer) beneficiary(b models.Beneficiary) (string, error) {
	in := clauseInput{Name: orBlank(b.Name), Relationship: r.book.relationship(b.Relationship)}

	var (
		phrase string
		err    error
	)
	switch b.Share.Kind {
	case models.ShareKindPercentage:
		in.Percentage = r.fmt.percent(b.Share.Percentage)
		if b.Share.AssetID == "" {
			if in.Pool, err = r.book.render(groupBeneficiary, "residuary_estate", clauseInput{}); err != nil {
				return "", err
			}
		} else {
			in.Pool = r.assetLabel(b.Share.AssetID)
		}
		phrase = "percentage"
	case models.ShareKindFixedAmount:
		in.Amount = blank
		if b.Share.Amount != nil {
			in.Amount = r.fmt.money(*b.Share.Amount)
		}
		phrase = "fixed_amount"
	case models.ShareKindSpecificAssets:
		labels := make([]string, 0, len(b.Share.AssetIDs))
		for _, id := range b.Share.AssetIDs {
			labels = append(labels, r.assetLabel(id))
		}
		in.Assets = orBlank(r.fmt.list(labels))
		phrase = "specific_assets"
	case models.ShareKindRemainder:
		phrase = "remainder"
	}
	if phrase == "" {
		return "", nil
	}

	sentences := make([]string, 0, 3)
	text, err := r.book.render(groupBeneficiary, phrase, in)
	if err != nil {
		return "", err
	}
	sentences = append(sentences, text)

	if conditions := strutil.DedupeAndTrim(b.Conditions); len(conditions) > 0 {
		in.Conditions = strings.Join(conditions, "; ")
		if text, err = r.book.render(groupBeneficiary, "conditions", in); err != nil {
			return "", err
		}
		sentences = append(sentences, text)
	}
	if b.AlternateBeneficiary != "" && b.AlternateBeneficiary != b.ID {
		if alt, ok := r.data.FindBeneficiary(b.AlternateBeneficiary); ok {
			in.Alternate = orBlank(alt.Name)
			if text, err = r.book.render(groupBeneficiary, "alternate", in); err != nil {
				return "", err
			}
			sentences = append(sentences, text)
		}
	}
	return strings.Join(sentences, " "), nil
}

func (r *renderer) assetLabel(assetID string) string {
	if a, ok := r.data.FindAsset(assetID); ok && a.Description != "" {
		return a.Description
	}
	return assetID
}

func (r *renderer) assets() ([]string, error) {
	var out []string
	for _, a := range r.data.Assets {
		text, err := r.assetText(a)
		if err != nil {
			return nil, err
		}
		recipients := r.recipientsOf(a.ID)
		in := clauseInput{Text: text, Names: r.fmt.list(recipients)}
		phrase := "residuary"
		if len(recipients) > 0 {
			phrase = "bequeathed"
		}
		para, err := r.book.render(groupAsset, phrase, in)
		if err != nil {
			return nil, err
		}
		out = append(out, para)
	}
	return out, nil
}

// assetText describes an asset at the requested detail level.
func (r *renderer) assetText(a models.Asset) (string, error) {
	label := a.Description
	if label == "" {
		label = a.ID
	}

	var details []string
	add := func(name string, in clauseInput) error {
		text, err := r.book.render(groupAsset, name, in)
		if err != nil {
			return err
		}
		details = append(details, text)
		return nil
	}

	switch r.prefs.DetailLevel {
	case models.DetailBasic:
	case models.DetailDetailed, models.DetailComprehensive:
		if a.EstimatedValue.Amount > 0 {
			if err := add("value", clauseInput{Value: r.fmt.money(a.EstimatedValue)}); err != nil {
				return "", err
			}
		}
	}
	if r.prefs.DetailLevel == models.DetailComprehensive {
		if a.Location != "" {
			if err := add("location", clauseInput{Location: a.Location}); err != nil {
				return "", err
			}
		}
		if a.OwnershipPercentage > 0 {
			if err := add("ownership", clauseInput{Ownership: r.fmt.percent(a.OwnershipPercentage)}); err != nil {
				return "", err
			}
		}
		if a.Encumbrance != "" {
			if err := add("encumbrance", clauseInput{Encumbrance: a.Encumbrance}); err != nil {
				return "", err
			}
		}
	}

	if len(details) == 0 {
		return label, nil
	}
	return label + " (" + strings.Join(details, ", ") + ")", nil
}

// recipientsOf lists who receives an asset directly, in beneficiary order.
// Percentage recipients carry their share in parentheses.
func (r *renderer) recipientsOf(assetID string) []string {
	var out []string
	for _, b := range r.data.Beneficiaries {
		switch b.Share.Kind {
		case models.ShareKindSpecificAssets:
			for _, id := range b.Share.AssetIDs {
				if id == assetID {
					out = append(out, orBlank(b.Name))
					break
				}
			}
		case models.ShareKindPercentage:
			if b.Share.AssetID == assetID {
				out = append(out, fmt.Sprintf("%s (%s %%)", orBlank(b.Name), r.fmt.percent(b.Share.Percentage)))
			}
		case models.ShareKindFixedAmount, models.ShareKindRemainder:
		}
	}
	return out
}

func (r *renderer) executors() ([]string, error) {
	primaryName := ""
	if primaries := r.data.PrimaryExecutors(); len(primaries) > 0 {
		primaryName = primaries[0].Name
	}
	if primaryName == "" {
		var err error
		if primaryName, err = r.book.render(groupExecutor, "unnamed", clauseInput{}); err != nil {
			return nil, err
		}
	}

	var out []string
	for _, e := range r.data.Executors {
		in := clauseInput{
			Name:         orBlank(e.Name),
			Relationship: r.book.relationship(e.Relationship),
			Primary:      primaryName,
		}
		var phrase string
		switch e.Role {
		case models.ExecutorPrimary:
			phrase = "primary"
		case models.ExecutorAlternate:
			phrase = "alternate"
		case models.ExecutorCo:
			phrase = "co_executor"
		}
		if phrase == "" {
			continue
		}

		sentences := make([]string, 0, 4)
		text, err := r.book.render(groupExecutor, phrase, in)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, text)
		if powers := strutil.DedupeAndTrim(e.Powers); len(powers) > 0 {
			if text, err = r.book.render(groupExecutor, "powers", clauseInput{Items: r.fmt.list(powers)}); err != nil {
				return nil, err
			}
			sentences = append(sentences, text)
		}
		if e.Compensation != "" {
			if text, err = r.book.render(groupExecutor, "compensation", clauseInput{Text: e.Compensation}); err != nil {
				return nil, err
			}
			sentences = append(sentences, text)
		}
		if restrictions := strutil.DedupeAndTrim(e.Restrictions); len(restrictions) > 0 {
			if text, err = r.book.render(groupExecutor, "restrictions", clauseInput{Items: r.fmt.list(restrictions)}); err != nil {
				return nil, err
			}
			sentences = append(sentences, text)
		}
		out = append(out, strings.Join(sentences, " "))
	}
	return out, nil
}

func (r *renderer) guardianship() ([]string, error) {
	out := make([]string, 0, len(r.data.Guardianships))
	for _, g := range r.data.Guardianships {
		in := clauseInput{
			Child:        orBlank(g.ChildName),
			Guardian:     orBlank(g.Primary.Name),
			Relationship: r.book.relationship(g.Primary.Relationship),
		}
		sentences := make([]string, 0, 5)
		text, err := r.book.render(groupGuardian, "primary", in)
		if err != nil {
			return nil, err
		}
		sentences = append(sentences, text)

		if g.Alternate != nil && g.Alternate.Name != "" {
			in.Alternate = g.Alternate.Name
			if text, err = r.book.render(groupGuardian, "alternate", in); err != nil {
				return nil, err
			}
			sentences = append(sentences, text)
		}
		for _, extra := range []struct{ phrase, value string }{
			{"instructions", g.SpecialInstructions},
			{"financial", g.FinancialProvisions},
			{"education", g.EducationWishes},
		} {
			if strings.TrimSpace(extra.value) == "" {
				continue
			}
			in.Text = extra.value
			if text, err = r.book.render(groupGuardian, extra.phrase, in); err != nil {
				return nil, err
			}
			sentences = append(sentences, text)
		}
		out = append(out, strings.Join(sentences, " "))
	}
	return out, nil
}

func (r *renderer) instructions() ([]string, error) {
	items := append([]models.SpecialInstruction(nil), r.data.SpecialInstructions...)
	sort.SliceStable(items, func(i, j int) bool { return items[i].Priority.Rank() < items[j].Priority.Rank() })

	out := make([]string, 0, len(items))
	for _, s := range items {
		text, err := r.book.render(groupInstruction, "entry", clauseInput{Title: orBlank(s.Title), Content: s.Content})
		if err != nil {
			return nil, err
		}
		if s.Recipient != "" {
			recipient, err := r.book.render(groupInstruction, "recipient", clauseInput{Text: s.Recipient})
			if err != nil {
				return nil, err
			}
			text += " " + recipient
		}
		out = append(out, text)
	}
	return out, nil
}
