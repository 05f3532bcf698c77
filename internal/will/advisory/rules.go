package advisory

import (
	"fmt"
	"math"
	"strings"

	"legacyvault/internal/will/models"
)

// Rule 1: no primary executor (warning, high).
func missingPrimaryExecutor(in input) (models.Suggestion, bool) {
	if len(in.data.PrimaryExecutors()) > 0 {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:          IDMissingPrimaryExecutor,
		Type:        models.SuggestionWarning,
		Priority:    models.PriorityHigh,
		Title:       "Name a primary executor",
		Description: "Without an executor a court appoints an administrator, which usually delays the distribution of the estate.",
		Field:       "executors",
	}, true
}

// Rule 2: forced heirs exist and the jurisdiction protects them (legal, high).
func forcedHeirshipReview(in input) (models.Suggestion, bool) {
	if !in.cfg.ForcedHeirship {
		return models.Suggestion{}, false
	}
	var heirs []string
	for _, m := range in.data.Family.Members() {
		if m.Relationship.IsForcedHeir() && m.Name != "" {
			heirs = append(heirs, m.Name)
		}
	}
	if len(heirs) == 0 {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:       IDForcedHeirshipReview,
		Type:     models.SuggestionLegalConsideration,
		Priority: models.PriorityHigh,
		Title:    "Review compulsory shares",
		Description: fmt.Sprintf("%s reserves a compulsory share for close relatives (%s). Gifts that leave them less can be reduced on a claim.",
			in.cfg.Name, strings.Join(heirs, ", ")),
		JurisdictionSpecific: true,
		Field:                "beneficiaries",
	}, true
}

// Rule 3: minor children whose guardianship has no alternate (improvement, medium).
func minorsWithoutAlternateGuardian(in input) (models.Suggestion, bool) {
	if len(in.data.MinorChildren(in.asOf, in.cfg.AgeOfMajority)) == 0 {
		return models.Suggestion{}, false
	}
	var children []string
	for _, g := range in.data.Guardianships {
		if g.Alternate == nil || g.Alternate.Name == "" {
			children = append(children, g.ChildName)
		}
	}
	if len(in.data.Guardianships) > 0 && len(children) == 0 {
		return models.Suggestion{}, false
	}
	description := "Name an alternate guardian in case the primary guardian cannot act."
	if len(children) > 0 {
		description = fmt.Sprintf("Name an alternate guardian for %s in case the primary guardian cannot act.", strings.Join(children, ", "))
	}
	return models.Suggestion{
		ID:          IDMinorsWithoutAlternate,
		Type:        models.SuggestionImprovement,
		Priority:    models.PriorityMedium,
		Title:       "Add alternate guardians",
		Description: description,
		Field:       "guardianships",
	}, true
}

// Rule 4: a primary executor without an alternate (improvement, medium).
func missingAlternateExecutor(in input) (models.Suggestion, bool) {
	if len(in.data.PrimaryExecutors()) == 0 || in.data.HasExecutorRole(models.ExecutorAlternate) {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:          IDMissingAlternateExecutor,
		Type:        models.SuggestionImprovement,
		Priority:    models.PriorityMedium,
		Title:       "Consider naming an alternate executor",
		Description: "An alternate executor steps in if the primary executor dies first or declines the appointment.",
		Field:       "executors",
	}, true
}

// Rule 5: gifts to charity (legal, medium).
func charitableBequestTax(in input) (models.Suggestion, bool) {
	found := false
	for _, b := range in.data.Beneficiaries {
		if b.Relationship == models.RelationshipCharity {
			found = true
			break
		}
	}
	if !found {
		return models.Suggestion{}, false
	}
	description := fmt.Sprintf("%s levies no inheritance tax; confirm that the charity is registered so the gift is accepted without formalities.", in.cfg.Name)
	if in.cfg.Tax.InheritanceTax {
		description = fmt.Sprintf("Charitable bequests may have tax implications in %s. Check whether the charity qualifies for an exemption.", in.cfg.Name)
	}
	return models.Suggestion{
		ID:                   IDCharitableBequestTax,
		Type:                 models.SuggestionLegalConsideration,
		Priority:             models.PriorityMedium,
		Title:                "Charitable bequests and tax",
		Description:          description,
		JurisdictionSpecific: true,
		Field:                "beneficiaries",
	}, true
}

// Rule 6: estimated inheritance tax from the jurisdiction's brackets
// (optimization, medium).
func inheritanceTaxExposure(in input) (models.Suggestion, bool) {
	tax := in.cfg.Tax
	if !tax.InheritanceTax {
		return models.Suggestion{}, false
	}
	var (
		total float64
		taxed int
	)
	for _, b := range in.data.Beneficiaries {
		due := tax.EstimateTax(b.Relationship, estimatedReceipt(in.data, b, tax.Currency))
		if due > 0 {
			total += due
			taxed++
		}
	}
	if total <= 0 {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:       IDInheritanceTaxExposure,
		Type:     models.SuggestionOptimization,
		Priority: models.PriorityMedium,
		Title:    "Inheritance tax exposure",
		Description: fmt.Sprintf("Based on the values entered, %d beneficiaries may owe about %.0f %s in inheritance tax. Lifetime gifts or a different split may reduce this.",
			taxed, math.Round(total), tax.Currency),
		JurisdictionSpecific: true,
		Field:                "beneficiaries",
	}, true
}

// estimatedReceipt approximates what b receives, counting only values in the
// tax currency. Remainder shares are not estimated.
func estimatedReceipt(d models.WillUserData, b models.Beneficiary, currency string) float64 {
	assetValue := func(id string) float64 {
		a, ok := d.FindAsset(id)
		if !ok || !strings.EqualFold(a.EstimatedValue.Currency, currency) {
			return 0
		}
		return a.OwnedValue()
	}

	switch b.Share.Kind {
	case models.ShareKindPercentage:
		if b.Share.AssetID != "" {
			return assetValue(b.Share.AssetID) * b.Share.Percentage / 100
		}
		return d.EstateValue(currency) * b.Share.Percentage / 100
	case models.ShareKindFixedAmount:
		if b.Share.Amount != nil && strings.EqualFold(b.Share.Amount.Currency, currency) {
			return b.Share.Amount.Amount
		}
	case models.ShareKindSpecificAssets:
		var sum float64
		for _, id := range b.Share.AssetIDs {
			sum += assetValue(id)
		}
		return sum
	case models.ShareKindRemainder:
	}
	return 0
}

// Rule 7: digital assets with no instruction for them (improvement, medium).
func digitalAssetsWithoutInstruction(in input) (models.Suggestion, bool) {
	if !in.data.HasAssetType(models.AssetDigital) || in.data.HasInstruction(models.InstructionDigitalAssets) {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:          IDDigitalAssetsInstruction,
		Type:        models.SuggestionImprovement,
		Priority:    models.PriorityMedium,
		Title:       "Explain access to digital assets",
		Description: "Add an instruction describing where credentials are kept and who should manage or close online accounts.",
		Field:       "special_instructions",
	}, true
}

// Rule 8: business interests with no succession plan (improvement, medium).
func businessWithoutSuccessionPlan(in input) (models.Suggestion, bool) {
	if !in.data.HasAssetType(models.AssetBusiness) || in.data.HasInstruction(models.InstructionBusinessSuccession) {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:          IDBusinessSuccession,
		Type:        models.SuggestionImprovement,
		Priority:    models.PriorityMedium,
		Title:       "Plan business succession",
		Description: "Describe who should run or sell the business, and check the company's articles for transfer restrictions.",
		Field:       "special_instructions",
	}, true
}

// Rule 9: notarization is optional but advisable here (optimization, low).
func notarizationAdvice(in input) (models.Suggestion, bool) {
	rules := in.cfg.Notarization
	if rules.Required || len(rules.AdvisableWhen) == 0 {
		return models.Suggestion{}, false
	}
	description := fmt.Sprintf("A notarial will is not required in %s but is advisable when: %s.", in.cfg.Name, strings.Join(rules.AdvisableWhen, "; "))
	if n := in.cfg.Notary; n != nil && n.Body != "" {
		description += fmt.Sprintf(" Contact %s", n.Body)
		if n.FeeRange != "" {
			description += fmt.Sprintf(" (typical fee %s)", n.FeeRange)
		}
		description += "."
	}
	return models.Suggestion{
		ID:                   IDNotarizationAdvice,
		Type:                 models.SuggestionOptimization,
		Priority:             models.PriorityLow,
		Title:                "Consider a notarial will",
		Description:          description,
		JurisdictionSpecific: true,
	}, true
}

// Rule 10: individual beneficiaries without an alternate (improvement, low).
func beneficiariesWithoutAlternates(in input) (models.Suggestion, bool) {
	var names []string
	for _, b := range in.data.Beneficiaries {
		if b.Relationship == models.RelationshipCharity || b.AlternateBeneficiary != "" {
			continue
		}
		names = append(names, b.Name)
	}
	if len(names) == 0 {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:          IDBeneficiariesWithoutAlternates,
		Type:        models.SuggestionImprovement,
		Priority:    models.PriorityLow,
		Title:       "Name alternate beneficiaries",
		Description: fmt.Sprintf("If %s dies before you, that gift falls into the residue or passes by intestacy.", strings.Join(names, ", ")),
		Field:       "beneficiaries",
	}, true
}

// Rule 11: encumbered assets (legal, low).
func encumberedAssets(in input) (models.Suggestion, bool) {
	var assets []string
	for _, a := range in.data.Assets {
		if a.Encumbrance != "" {
			assets = append(assets, a.Description)
		}
	}
	if len(assets) == 0 {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:          IDEncumberedAssets,
		Type:        models.SuggestionLegalConsideration,
		Priority:    models.PriorityLow,
		Title:       "Clarify who bears secured debts",
		Description: fmt.Sprintf("%s carry charges. State whether the beneficiary takes them with the debt or the estate repays it first.", strings.Join(assets, ", ")),
		Field:       "assets",
	}, true
}

// Rule 12: no funeral or burial wishes (improvement, low).
func noFuneralWishes(in input) (models.Suggestion, bool) {
	if in.data.HasInstruction(models.InstructionFuneral) || in.data.HasInstruction(models.InstructionBurial) {
		return models.Suggestion{}, false
	}
	return models.Suggestion{
		ID:          IDNoFuneralWishes,
		Type:        models.SuggestionImprovement,
		Priority:    models.PriorityLow,
		Title:       "Record funeral wishes",
		Description: "Funeral or burial wishes spare your family difficult decisions.",
		Field:       "special_instructions",
	}, true
}
