package audit

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "legacyvault/pkg/domain"
	"legacyvault/pkg/platform/sentinel"
)

func TestPublisher_FillsTimestampAndCategory(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	fixed := time.Date(2026, 6, 1, 9, 0, 0, 0, time.UTC)
	pub.now = func() time.Time { return fixed }

	userID := id.UserID(uuid.New())
	require.NoError(t, pub.Emit(context.Background(), Event{UserID: userID, Action: string(EventIntegrityFailed)}))

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, fixed, events[0].Timestamp)
	assert.Equal(t, CategorySecurity, events[0].Category)
}

func TestPublisher_KeepsCallerTimestamp(t *testing.T) {
	store := NewInMemoryStore()
	pub := NewPublisher(store)
	userID := id.UserID(uuid.New())
	at := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, pub.Emit(context.Background(), Event{UserID: userID, Action: string(EventWillCreated), Timestamp: at}))

	events, err := pub.List(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, at, events[0].Timestamp)
	assert.Equal(t, CategoryCompliance, events[0].Category)
}

func TestAuditEventCategory(t *testing.T) {
	assert.Equal(t, CategoryCompliance, EventWillDeleted.Category())
	assert.Equal(t, CategoryOperations, EventIntegrityVerified.Category())
	assert.Equal(t, CategoryOperations, AuditEvent("something_else").Category())
}

func TestQueuePublisher(t *testing.T) {
	t.Run("enqueues prepared events", func(t *testing.T) {
		queue := make(chan Event, 1)
		pub := NewQueuePublisher(queue)
		require.NoError(t, pub.Emit(context.Background(), Event{Action: string(EventWillUpdated)}))

		got := <-queue
		assert.Equal(t, CategoryCompliance, got.Category)
		assert.False(t, got.Timestamp.IsZero())
	})

	t.Run("full queue reports unavailable", func(t *testing.T) {
		queue := make(chan Event, 1)
		pub := NewQueuePublisher(queue)
		require.NoError(t, pub.Emit(context.Background(), Event{Action: string(EventWillCreated)}))

		err := pub.Emit(context.Background(), Event{Action: string(EventWillCreated)})
		assert.ErrorIs(t, err, sentinel.ErrUnavailable)
	})
}

type failingStore struct{ InMemoryStore }

func (*failingStore) Append(context.Context, Event) error { return errors.New("sink down") }

func TestWorker(t *testing.T) {
	t.Run("drains inbox until closed", func(t *testing.T) {
		store := NewInMemoryStore()
		inbox := make(chan Event, 3)
		userID := id.UserID(uuid.New())
		for _, action := range []AuditEvent{EventWillCreated, EventWillRegenerated, EventWillDeleted} {
			inbox <- Event{UserID: userID, Action: string(action)}
		}
		close(inbox)

		require.NoError(t, NewWorker(store, inbox, nil).Run(context.Background()))

		events, err := store.ListByUser(context.Background(), userID)
		require.NoError(t, err)
		require.Len(t, events, 3)
		assert.Equal(t, string(EventWillDeleted), events[2].Action)
	})

	t.Run("stops on cancellation", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := NewWorker(NewInMemoryStore(), make(chan Event), nil).Run(ctx)
		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("store failures are logged and skipped", func(t *testing.T) {
		var logs bytes.Buffer
		inbox := make(chan Event, 2)
		inbox <- Event{Action: string(EventWillCreated)}
		inbox <- Event{Action: string(EventWillUpdated)}
		close(inbox)

		logger := slog.New(slog.NewTextHandler(&logs, nil))
		require.NoError(t, NewWorker(&failingStore{}, inbox, logger).Run(context.Background()))
		assert.Equal(t, 2, bytes.Count(logs.Bytes(), []byte("failed to persist audit event")))
	})
}
