package models

// SuggestionType classifies advisory output.
type SuggestionType string

const (
	SuggestionImprovement        SuggestionType = "improvement"
	SuggestionWarning            SuggestionType = "warning"
	SuggestionOptimization       SuggestionType = "optimization"
	SuggestionLegalConsideration SuggestionType = "legal_consideration"
)

// Suggestion is a non-blocking recommendation about the will.
type Suggestion struct {
	ID                   string         `json:"id"`
	Type                 SuggestionType `json:"type"`
	Priority             Priority       `json:"priority"`
	Title                string         `json:"title"`
	Description          string         `json:"description"`
	JurisdictionSpecific bool           `json:"jurisdiction_specific"`
	Field                string         `json:"field,omitempty"`
}
