// Package validation checks a will snapshot against a jurisdiction's rules.
//
// Validate is pure domain logic - no I/O, no side effects. It receives the
// evaluation time as an argument so identical inputs always produce identical
// reports.
package validation

import (
	"time"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
)

// rule inspects the snapshot and records findings on the report.
type rule func(r *report, data models.WillUserData, cfg jurisdiction.Config, asOf time.Time)

// rules run in this order on every call. No rule short-circuits another; the
// caller always receives the full report.
var rules = []rule{
	checkMandatoryFields,
	checkAge,
	checkShares,
	checkReferences,
	checkIdentifiers,
	checkOwnership,
	checkWitnesses,
	checkGuardianship,
	checkForcedHeirship,
	checkExecutors,
}

// Validate runs the full rule set and scores completeness.
func Validate(data models.WillUserData, cfg jurisdiction.Config, asOf time.Time) models.ValidationResult {
	r := &report{cfg: cfg}
	for _, check := range rules {
		check(r, data, cfg, asOf)
	}

	result := models.ValidationResult{
		IsValid:               len(r.errors) == 0,
		Errors:                r.errors,
		Warnings:              r.warnings,
		MissingRequiredFields: r.missing,
		SuggestedImprovements: improvements(data, r.warnings),
	}
	if result.Errors == nil {
		result.Errors = []models.ValidationIssue{}
	}
	if result.Warnings == nil {
		result.Warnings = []models.ValidationIssue{}
	}
	if result.MissingRequiredFields == nil {
		result.MissingRequiredFields = []string{}
	}
	result.LegalRequirementsMet = legalRequirementsMet(result)
	result.CompletenessScore = CompletenessScore(data, result)
	return result
}

// legalCodes mark issues that make the will legally ineffective as drafted,
// as opposed to merely incomplete.
var legalCodes = []models.IssueCode{
	models.IssueAgeRequirement,
	models.IssueWitnessRequirement,
	models.IssueWitnessEligibility,
	models.IssueGuardianshipMissing,
}

func legalRequirementsMet(result models.ValidationResult) bool {
	for _, code := range legalCodes {
		if result.HasIssue(code) {
			return false
		}
	}
	return true
}

type report struct {
	cfg      jurisdiction.Config
	errors   []models.ValidationIssue
	warnings []models.ValidationIssue
	missing  []string
}

func (r *report) addError(code models.IssueCode, field, msg string, subjects ...string) {
	r.errors = append(r.errors, models.ValidationIssue{
		Code:           code,
		Field:          field,
		Message:        msg,
		Severity:       models.SeverityError,
		LegalReference: r.cfg.LegalReference(code),
		Subjects:       subjects,
	})
}

func (r *report) addWarning(code models.IssueCode, field, msg string, subjects ...string) {
	r.warnings = append(r.warnings, models.ValidationIssue{
		Code:           code,
		Field:          field,
		Message:        msg,
		Severity:       models.SeverityWarning,
		LegalReference: r.cfg.LegalReference(code),
		Subjects:       subjects,
	})
}

func (r *report) addMissing(field, msg string) {
	r.addMissingAs(models.IssueMissingField, field, msg)
}

func (r *report) addMissingAs(code models.IssueCode, field, msg string) {
	r.addError(code, field, msg)
	r.missing = append(r.missing, field)
}
