package ports

//go:generate mockgen -source=store.go -destination=mocks/mocks.go -package=mocks

import (
	"context"

	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
)

// RecordStore persists the structured row of each will. Only the latest
// version's record is kept; earlier renderings survive in the ContentStore.
// Lookups that find nothing return sentinel.ErrNotFound.
type RecordStore interface {
	// Save inserts or replaces the record for rec.ID.
	Save(ctx context.Context, rec models.WillRecord) error
	FindByID(ctx context.Context, willID id.WillID) (models.WillRecord, error)
	// ListByOwner includes records marked deleting; callers filter them.
	ListByOwner(ctx context.Context, owner id.UserID) ([]models.WillRecord, error)
	// MarkDeleting flags the record so reads treat it as gone while content
	// removal is in progress.
	MarkDeleting(ctx context.Context, willID id.WillID) error
	Delete(ctx context.Context, willID id.WillID) error
}

// ContentStore persists rendered content keyed by will id and version.
type ContentStore interface {
	Put(ctx context.Context, content models.StoredContent) error
	Get(ctx context.Context, willID id.WillID, version int) (models.StoredContent, error)
	// Versions lists stored versions in ascending order.
	Versions(ctx context.Context, willID id.WillID) ([]int, error)
	// DeleteVersion is idempotent.
	DeleteVersion(ctx context.Context, willID id.WillID, version int) error
	// DeleteAll is idempotent.
	DeleteAll(ctx context.Context, willID id.WillID) error
}

// Stores is the pair of stores bound to one unit of work.
type Stores struct {
	Records  RecordStore
	Contents ContentStore
}

// TxRunner provides the transactional boundary for writes that touch both
// stores. Implementations backed by one database commit or roll back both
// together; split implementations commit each side independently and rely on
// the caller's write ordering.
type TxRunner interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
