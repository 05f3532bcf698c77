package audit

import (
	"context"
	"time"

	id "legacyvault/pkg/domain"
	"legacyvault/pkg/platform/sentinel"
)

// Store persists audit events. Implementations are append-only.
type Store interface {
	Append(ctx context.Context, event Event) error
	ListByUser(ctx context.Context, userID id.UserID) ([]Event, error)
}

// Publisher captures structured audit events. It is append-only and uses the
// storage layer for persistence so tests can swap sinks easily.
type Publisher struct {
	store Store
	now   func() time.Time
}

func NewPublisher(store Store) *Publisher {
	return &Publisher{store: store, now: time.Now}
}

// Emit fills the timestamp and category when the caller left them blank.
func (p *Publisher) Emit(ctx context.Context, base Event) error {
	return p.store.Append(ctx, prepare(base, p.now))
}

func (p *Publisher) List(ctx context.Context, userID id.UserID) ([]Event, error) {
	return p.store.ListByUser(ctx, userID)
}

// QueuePublisher hands events to a Worker through a buffered channel so the
// request path never waits on the audit sink.
type QueuePublisher struct {
	queue chan<- Event
	now   func() time.Time
}

func NewQueuePublisher(queue chan<- Event) *QueuePublisher {
	return &QueuePublisher{queue: queue, now: time.Now}
}

// Emit enqueues the event. A full queue drops it and reports
// sentinel.ErrUnavailable.
func (p *QueuePublisher) Emit(ctx context.Context, base Event) error {
	select {
	case p.queue <- prepare(base, p.now):
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		return sentinel.ErrUnavailable
	}
}

func prepare(e Event, now func() time.Time) Event {
	if e.Timestamp.IsZero() {
		e.Timestamp = now()
	}
	if e.Category == "" {
		e.Category = AuditEvent(e.Action).Category()
	}
	return e
}
