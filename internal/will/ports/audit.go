package ports

//go:generate mockgen -source=audit.go -destination=mocks/audit_mocks.go -package=mocks

import (
	"context"

	"legacyvault/internal/audit"
)

// AuditPort emits lifecycle audit events. Defined here to keep the service
// independent of the concrete publisher.
type AuditPort interface {
	Emit(ctx context.Context, event audit.Event) error
}
