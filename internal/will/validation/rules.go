package validation

import (
	"fmt"
	"strings"
	"time"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
)

// Field identifiers reported in issues and MissingRequiredFields.
const (
	FieldFullName      = "personal.full_name"
	FieldDateOfBirth   = "personal.date_of_birth"
	FieldAddress       = "personal.address"
	FieldBeneficiaries = "beneficiaries"
	FieldAssets        = "assets"
	FieldExecutors     = "executors"
	FieldGuardianships = "guardianships"
	FieldWitnesses     = "witnesses"
	FieldFamily        = "family"
)

// shareEpsilon absorbs float noise in percentage sums.
const shareEpsilon = 1e-6

func checkMandatoryFields(r *report, data models.WillUserData, _ jurisdiction.Config, _ time.Time) {
	p := data.Personal
	if strings.TrimSpace(p.FullName) == "" {
		r.addMissing(FieldFullName, "testator full name is required")
	}
	if p.DateOfBirth.IsZero() {
		r.addMissing(FieldDateOfBirth, "testator date of birth is required")
	}
	if p.Address.IsZero() {
		r.addMissing(FieldAddress, "testator address is required")
	}
	if len(data.Beneficiaries) == 0 {
		r.addMissing(FieldBeneficiaries, "at least one beneficiary is required")
	}
	if len(data.Assets) == 0 && !data.NoAssetsDeclared {
		r.addMissing(FieldAssets, "list at least one asset or declare that there are none")
	}
}

func checkAge(r *report, data models.WillUserData, cfg jurisdiction.Config, asOf time.Time) {
	dob := data.Personal.DateOfBirth
	if dob.IsZero() {
		return
	}
	if age := models.AgeAt(dob, asOf); age < cfg.MinimumAge {
		r.addError(models.IssueAgeRequirement, FieldDateOfBirth,
			fmt.Sprintf("testator is %d; the minimum age to make a will in %s is %d", age, cfg.Code, cfg.MinimumAge))
	}
}

type pool struct {
	key      string
	total    float64
	subjects []string
}

func checkShares(r *report, data models.WillUserData, _ jurisdiction.Config, _ time.Time) {
	var pools []*pool
	byKey := map[string]*pool{}

	for i, b := range data.Beneficiaries {
		field := fmt.Sprintf("beneficiaries[%d].share", i)
		label := beneficiaryLabel(b)
		switch b.Share.Kind {
		case models.ShareKindPercentage:
			if b.Share.Percentage <= 0 || b.Share.Percentage > 100 {
				r.addError(models.IssueInvalidShare, field,
					fmt.Sprintf("share of %s must be greater than 0%% and at most 100%%", label), label)
				continue
			}
			key := b.Share.Pool()
			p, ok := byKey[key]
			if !ok {
				p = &pool{key: key}
				byKey[key] = p
				pools = append(pools, p)
			}
			p.total += b.Share.Percentage
			p.subjects = append(p.subjects, label)
		case models.ShareKindFixedAmount:
			if b.Share.Amount == nil || b.Share.Amount.Amount <= 0 {
				r.addError(models.IssueInvalidShare, field, fmt.Sprintf("fixed amount for %s must be positive", label), label)
			}
		case models.ShareKindSpecificAssets:
			if len(b.Share.AssetIDs) == 0 {
				r.addError(models.IssueInvalidShare, field, fmt.Sprintf("no assets named for %s", label), label)
			}
		case models.ShareKindRemainder:
		default:
			r.addError(models.IssueInvalidShare, field, fmt.Sprintf("share kind %q for %s is not recognised", b.Share.Kind, label), label)
		}
	}

	hasRemainder := data.HasRemainderBeneficiary()
	for _, p := range pools {
		total := models.RoundShare(p.total)
		switch {
		case total > 100+shareEpsilon:
			r.addError(models.IssueOverAllocation, FieldBeneficiaries,
				fmt.Sprintf("shares of %s in %s total %s%%, exceeding 100%%", strings.Join(p.subjects, ", "), poolLabel(p.key), formatPct(total)),
				p.subjects...)
		case total < 100-shareEpsilon && !hasRemainder:
			r.addWarning(models.IssueUnderAllocation, FieldBeneficiaries,
				fmt.Sprintf("only %s%% of %s is allocated and no remainder beneficiary is named; the rest passes by intestacy", formatPct(total), poolLabel(p.key)),
				p.subjects...)
		}
	}
}

func checkReferences(r *report, data models.WillUserData, _ jurisdiction.Config, _ time.Time) {
	for i, b := range data.Beneficiaries {
		field := fmt.Sprintf("beneficiaries[%d]", i)
		for _, assetID := range b.Share.ReferencedAssets() {
			if _, ok := data.FindAsset(assetID); !ok {
				r.addError(models.IssueDanglingReference, field+".share",
					fmt.Sprintf("share of %s references unknown asset %q", beneficiaryLabel(b), assetID), assetID)
			}
		}
		if alt := b.AlternateBeneficiary; alt != "" {
			if _, ok := data.FindBeneficiary(alt); !ok || alt == b.ID {
				r.addError(models.IssueDanglingReference, field+".alternate_beneficiary_id",
					fmt.Sprintf("alternate beneficiary %q of %s does not exist", alt, beneficiaryLabel(b)), alt)
			}
		}
	}
}

func checkIdentifiers(r *report, data models.WillUserData, _ jurisdiction.Config, _ time.Time) {
	dup := func(field string, ids []string) {
		seen := map[string]bool{}
		for _, id := range ids {
			if id == "" {
				continue
			}
			if seen[id] {
				r.addError(models.IssueDuplicateID, field, fmt.Sprintf("id %q is used more than once", id), id)
			}
			seen[id] = true
		}
	}
	dup(FieldBeneficiaries, collectIDs(data.Beneficiaries, func(b models.Beneficiary) string { return b.ID }))
	dup(FieldAssets, collectIDs(data.Assets, func(a models.Asset) string { return a.ID }))
	dup(FieldExecutors, collectIDs(data.Executors, func(e models.ExecutorAppointment) string { return e.ID }))
	dup(FieldGuardianships, collectIDs(data.Guardianships, func(g models.GuardianshipAppointment) string { return g.ID }))
}

func checkOwnership(r *report, data models.WillUserData, _ jurisdiction.Config, _ time.Time) {
	for i, a := range data.Assets {
		if a.OwnershipPercentage <= 0 || a.OwnershipPercentage > 100 {
			r.addError(models.IssueInvalidOwnership, fmt.Sprintf("assets[%d].ownership_percentage", i),
				fmt.Sprintf("ownership of %q must be greater than 0%% and at most 100%%", a.Description), a.ID)
		}
	}
}

// checkWitnesses is procedural: a draft may be generated before anyone has
// witnessed it, so every finding is a warning.
func checkWitnesses(r *report, data models.WillUserData, cfg jurisdiction.Config, asOf time.Time) {
	req := cfg.Witnesses
	if req.Required && len(data.Witnesses) < req.MinimumCount {
		r.addWarning(models.IssueWitnessRequirement, FieldWitnesses,
			fmt.Sprintf("%s requires at least %d witnesses; %d recorded", cfg.Code, req.MinimumCount, len(data.Witnesses)))
	}
	for i, w := range data.Witnesses {
		field := fmt.Sprintf("witnesses[%d]", i)
		if req.Has(jurisdiction.RestrictionNotBeneficiary) && data.IsBeneficiaryName(w.Name) {
			r.addWarning(models.IssueWitnessEligibility, field,
				fmt.Sprintf("witness %s is also a beneficiary", w.Name), w.Name)
		}
		if req.Has(jurisdiction.RestrictionAdult) && !w.DateOfBirth.IsZero() && models.AgeAt(w.DateOfBirth, asOf) < cfg.AgeOfMajority {
			r.addWarning(models.IssueWitnessEligibility, field,
				fmt.Sprintf("witness %s is under %d", w.Name, cfg.AgeOfMajority), w.Name)
		}
	}
}

func checkGuardianship(r *report, data models.WillUserData, cfg jurisdiction.Config, asOf time.Time) {
	minors := data.MinorChildren(asOf, cfg.AgeOfMajority)
	if len(minors) == 0 {
		return
	}
	named := false
	for _, g := range data.Guardianships {
		if g.HasPrimaryGuardian() {
			named = true
			break
		}
	}
	if !named {
		r.addMissingAs(models.IssueGuardianshipMissing, FieldGuardianships, "a primary guardian must be appointed for minor children")
		return
	}
	for _, child := range minors {
		if !coveredByGuardian(data.Guardianships, child.Name) {
			r.addWarning(models.IssueGuardianshipIncomplete, FieldGuardianships,
				fmt.Sprintf("no guardian is named for %s", child.Name), child.Name)
		}
	}
}

func coveredByGuardian(appointments []models.GuardianshipAppointment, child string) bool {
	for _, g := range appointments {
		if g.HasPrimaryGuardian() && models.SameName(g.ChildName, child) {
			return true
		}
	}
	return false
}

func checkForcedHeirship(r *report, data models.WillUserData, cfg jurisdiction.Config, _ time.Time) {
	if !cfg.ForcedHeirship {
		return
	}
	var excluded []string
	for _, m := range data.Family.Members() {
		if strings.TrimSpace(m.Name) == "" || data.IsBeneficiaryName(m.Name) {
			continue
		}
		excluded = append(excluded, m.Name)
	}
	if len(excluded) > 0 {
		r.addWarning(models.IssueForcedHeirship, FieldFamily,
			fmt.Sprintf("%s protects the compulsory share of close family; %s receive nothing under this will, seek legal review", cfg.Code, strings.Join(excluded, ", ")),
			excluded...)
	}
}

func checkExecutors(r *report, data models.WillUserData, _ jurisdiction.Config, _ time.Time) {
	switch primaries := data.PrimaryExecutors(); {
	case len(primaries) == 0:
		r.addWarning(models.IssueExecutorMissing, FieldExecutors, "no primary executor is appointed; a court may have to appoint one")
	case len(primaries) > 1:
		names := make([]string, 0, len(primaries))
		for _, e := range primaries {
			names = append(names, e.Name)
		}
		r.addWarning(models.IssueExecutorConflict, FieldExecutors,
			fmt.Sprintf("%d primary executors are appointed; name one primary and make the others co-executors", len(primaries)), names...)
	}
}

func beneficiaryLabel(b models.Beneficiary) string {
	if b.Name != "" {
		return b.Name
	}
	return b.ID
}

func poolLabel(key string) string {
	if key == models.ResiduaryPool {
		return "the residuary estate"
	}
	return fmt.Sprintf("asset %q", key)
}

func formatPct(v float64) string {
	return strings.TrimSuffix(strings.TrimRight(fmt.Sprintf("%.4f", v), "0"), ".")
}

func collectIDs[T any](items []T, key func(T) string) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, key(it))
	}
	return out
}
