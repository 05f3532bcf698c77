package models

// Severity distinguishes blocking errors from advisory warnings.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// IssueCode identifies the rule that produced a validation issue.
type IssueCode string

const (
	IssueMissingField           IssueCode = "missing_field"
	IssueAgeRequirement         IssueCode = "age_requirement"
	IssueOverAllocation         IssueCode = "over_allocation"
	IssueUnderAllocation        IssueCode = "under_allocation"
	IssueInvalidShare           IssueCode = "invalid_share"
	IssueDanglingReference      IssueCode = "dangling_reference"
	IssueDuplicateID            IssueCode = "duplicate_id"
	IssueWitnessRequirement     IssueCode = "witness_requirement"
	IssueWitnessEligibility     IssueCode = "witness_eligibility"
	IssueGuardianshipMissing    IssueCode = "guardianship_missing"
	IssueGuardianshipIncomplete IssueCode = "guardianship_incomplete"
	IssueForcedHeirship         IssueCode = "forced_heirship"
	IssueExecutorMissing        IssueCode = "executor_missing"
	IssueExecutorConflict       IssueCode = "executor_conflict"
	IssueInvalidOwnership       IssueCode = "invalid_ownership"
)

// IsShareRelated reports whether the code comes from share arithmetic.
func (c IssueCode) IsShareRelated() bool {
	switch c {
	case IssueOverAllocation, IssueUnderAllocation, IssueInvalidShare:
		return true
	case IssueMissingField, IssueAgeRequirement, IssueDanglingReference, IssueDuplicateID,
		IssueWitnessRequirement, IssueWitnessEligibility, IssueGuardianshipMissing,
		IssueGuardianshipIncomplete, IssueForcedHeirship, IssueExecutorMissing,
		IssueExecutorConflict, IssueInvalidOwnership:
		return false
	}
	return false
}

// ValidationIssue is one finding of the validator.
type ValidationIssue struct {
	Code           IssueCode `json:"code"`
	Field          string    `json:"field"`
	Message        string    `json:"message"`
	Severity       Severity  `json:"severity"`
	LegalReference string    `json:"legal_reference,omitempty"`
	// Subjects names the entities involved, e.g. the beneficiaries that
	// over-allocate a pool.
	Subjects []string `json:"subjects,omitempty"`
}

// ValidationResult is the complete report produced for one will snapshot.
type ValidationResult struct {
	IsValid               bool              `json:"is_valid"`
	CompletenessScore     int               `json:"completeness_score"`
	Errors                []ValidationIssue `json:"errors"`
	Warnings              []ValidationIssue `json:"warnings"`
	LegalRequirementsMet  bool              `json:"legal_requirements_met"`
	MissingRequiredFields []string          `json:"missing_required_fields"`
	SuggestedImprovements []string          `json:"suggested_improvements"`
}

// HasIssue reports whether an error or warning with code was recorded.
func (r ValidationResult) HasIssue(code IssueCode) bool {
	return len(r.IssuesWithCode(code)) > 0
}

// IssuesWithCode returns errors then warnings carrying code.
func (r ValidationResult) IssuesWithCode(code IssueCode) []ValidationIssue {
	var out []ValidationIssue
	for _, group := range [][]ValidationIssue{r.Errors, r.Warnings} {
		for _, issue := range group {
			if issue.Code == code {
				out = append(out, issue)
			}
		}
	}
	return out
}
