package audit

import (
	"time"

	id "legacyvault/pkg/domain"
)

// EventCategory sets retention and routing for an event.
type EventCategory string

const (
	// CategoryCompliance covers changes to a testator's legal documents. These
	// are kept for as long as the will exists and beyond.
	CategoryCompliance EventCategory = "compliance"
	// CategorySecurity covers tampering signals such as checksum mismatches.
	CategorySecurity EventCategory = "security"
	// CategoryOperations covers routine reads and checks.
	CategoryOperations EventCategory = "operations"
)

// Event is emitted from the lifecycle service to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Category  EventCategory
	Timestamp time.Time
	UserID    id.UserID
	WillID    string
	Action    string
	Version   int
	Status    string
	Reason    string
	RequestID string
}

type AuditEvent string

const (
	EventWillCreated       AuditEvent = "will_created"
	EventWillRegenerated   AuditEvent = "will_regenerated"
	EventWillUpdated       AuditEvent = "will_updated"
	EventWillDeleted       AuditEvent = "will_deleted"
	EventIntegrityVerified AuditEvent = "will_integrity_verified"
	EventIntegrityFailed   AuditEvent = "will_integrity_failed"
)

var eventCategories = map[AuditEvent]EventCategory{
	EventWillCreated:       CategoryCompliance,
	EventWillRegenerated:   CategoryCompliance,
	EventWillUpdated:       CategoryCompliance,
	EventWillDeleted:       CategoryCompliance,
	EventIntegrityFailed:   CategorySecurity,
	EventIntegrityVerified: CategoryOperations,
}

// Category returns the category for e. Unknown actions are operational.
func (e AuditEvent) Category() EventCategory {
	if c, ok := eventCategories[e]; ok {
		return c
	}
	return CategoryOperations
}
