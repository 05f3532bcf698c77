package validation

import (
	"math"
	"strings"

	"legacyvault/internal/will/models"
)

// Score weights. A mandatory field is worth 15 points present plus 5 more
// through the missing-field penalty. The error and warning deductions together
// never exceed errorPenaltyCap+warningPenaltyCap (20), so supplying a mandatory
// field never lowers the score, whatever findings it uncovers.
//
// Errors other than missing fields cost 5, 4, 3, 2, then 1 point each until
// the cap, so every one of the first seven errors lowers the score.
const (
	mandatoryWeight     = 75.0
	recommendedWeight   = 25.0
	mandatoryFields     = 5
	recommendedFields   = 5
	missingFieldPenalty = 5
	errorPenalty        = 5
	errorPenaltyCap     = 17
	warningPenaltyCap   = 3
)

// CompletenessScore rates how much of the relevant information is supplied,
// from 0 to 100.
func CompletenessScore(data models.WillUserData, result models.ValidationResult) int {
	mandatory := countTrue(
		strings.TrimSpace(data.Personal.FullName) != "",
		!data.Personal.DateOfBirth.IsZero(),
		!data.Personal.Address.IsZero(),
		len(data.Beneficiaries) > 0,
		len(data.Assets) > 0 || data.NoAssetsDeclared,
	)
	recommended := countTrue(recommendedPresent(data)...)

	var missingErrs, otherErrs int
	for _, e := range result.Errors {
		if e.Code == models.IssueMissingField {
			missingErrs++
		} else {
			otherErrs++
		}
	}

	score := mandatoryWeight*float64(mandatory)/mandatoryFields +
		recommendedWeight*float64(recommended)/recommendedFields -
		float64(missingFieldPenalty*missingErrs) -
		float64(errorDeduction(otherErrs)) -
		float64(min(len(result.Warnings), warningPenaltyCap))

	return int(math.Max(0, math.Min(100, math.Round(score))))
}

// errorDeduction is the penalty for n errors that are not missing fields.
func errorDeduction(n int) int {
	total := 0
	for i := range n {
		total += max(1, errorPenalty-i)
		if total >= errorPenaltyCap {
			return errorPenaltyCap
		}
	}
	return total
}

func recommendedPresent(data models.WillUserData) []bool {
	return []bool{
		strings.TrimSpace(data.Personal.PlaceOfBirth) != "",
		strings.TrimSpace(data.Personal.Citizenship) != "",
		data.Personal.MaritalStatus != "",
		data.HasExecutorRole(models.ExecutorPrimary),
		data.HasExecutorRole(models.ExecutorAlternate),
	}
}

// improvements lists plain-language nudges: missing recommended fields first,
// then each warning.
func improvements(data models.WillUserData, warnings []models.ValidationIssue) []string {
	hints := []string{
		"Add your place of birth",
		"Add your citizenship",
		"State your marital status",
		"Appoint a primary executor",
		"Appoint an alternate executor",
	}
	out := []string{}
	for i, present := range recommendedPresent(data) {
		if !present {
			out = append(out, hints[i])
		}
	}
	for _, w := range warnings {
		if w.Code == models.IssueExecutorMissing {
			continue
		}
		out = append(out, w.Message)
	}
	return out
}

func countTrue(flags ...bool) int {
	n := 0
	for _, f := range flags {
		if f {
			n++
		}
	}
	return n
}
