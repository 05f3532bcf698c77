// Package advisory produces non-blocking recommendations about a will.
//
// Suggest is pure domain logic: no I/O and no side effects. Its output never
// affects validity or persistence.
package advisory

import (
	"sort"
	"time"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
)

// Suggestion ids. They are stable across renderings so clients can dismiss a
// suggestion once.
const (
	IDMissingPrimaryExecutor         = "missing_primary_executor"
	IDForcedHeirshipReview           = "forced_heirship_review"
	IDMinorsWithoutAlternate         = "minors_without_alternate_guardian"
	IDMissingAlternateExecutor       = "missing_alternate_executor"
	IDCharitableBequestTax           = "charitable_bequest_tax"
	IDInheritanceTaxExposure         = "inheritance_tax_exposure"
	IDDigitalAssetsInstruction       = "digital_assets_without_instruction"
	IDBusinessSuccession             = "business_without_succession_plan"
	IDNotarizationAdvice             = "notarization_advice"
	IDBeneficiariesWithoutAlternates = "beneficiaries_without_alternates"
	IDEncumberedAssets               = "encumbered_assets"
	IDNoFuneralWishes                = "no_funeral_wishes"
)

type input struct {
	data models.WillUserData
	cfg  jurisdiction.Config
	asOf time.Time
}

// A rule returns a suggestion and true when it applies.
type rule func(in input) (models.Suggestion, bool)

// rules run in this order; ties in priority keep it.
var rules = []rule{
	missingPrimaryExecutor,
	forcedHeirshipReview,
	minorsWithoutAlternateGuardian,
	missingAlternateExecutor,
	charitableBequestTax,
	inheritanceTaxExposure,
	digitalAssetsWithoutInstruction,
	businessWithoutSuccessionPlan,
	notarizationAdvice,
	beneficiariesWithoutAlternates,
	encumberedAssets,
	noFuneralWishes,
}

// Suggest evaluates every rule against data and cfg and returns the results
// ordered by priority, high first. Rule order breaks ties.
func Suggest(data models.WillUserData, cfg jurisdiction.Config, asOf time.Time) []models.Suggestion {
	in := input{data: data, cfg: cfg, asOf: asOf}
	out := make([]models.Suggestion, 0, len(rules))
	for _, r := range rules {
		if s, ok := r(in); ok {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Priority.Rank() < out[j].Priority.Rank() })
	return out
}
