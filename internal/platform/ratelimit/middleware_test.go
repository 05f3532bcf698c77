package ratelimit

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "legacyvault/pkg/domain"
	"legacyvault/pkg/requestcontext"
)

type erroringStore struct{}

func (erroringStore) Allow(context.Context, string, int, time.Duration) (Result, error) {
	return Result{}, errors.New("redis down")
}

func serve(t *testing.T, h http.Handler, method string, caller id.UserID) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/wills", nil)
	if !caller.IsNil() {
		req = req.WithContext(requestcontext.WithUserID(req.Context(), caller))
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestPerCaller(t *testing.T) {
	ok := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	logger := slog.New(slog.DiscardHandler)
	caller := id.UserID(uuid.New())

	t.Run("limits writes per caller", func(t *testing.T) {
		h := New(NewMemoryStore(), 2, time.Minute, logger).PerCaller(ok)

		assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodPost, caller).Code)
		rec := serve(t, h, http.MethodPatch, caller)
		assert.Equal(t, http.StatusNoContent, rec.Code)
		assert.Equal(t, "0", rec.Header().Get("X-RateLimit-Remaining"))

		rec = serve(t, h, http.MethodPost, caller)
		require.Equal(t, http.StatusTooManyRequests, rec.Code)
		assert.NotEmpty(t, rec.Header().Get("Retry-After"))
		assert.Contains(t, rec.Body.String(), "rate_limit_exceeded")

		assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodPost, id.UserID(uuid.New())).Code)
	})

	t.Run("reads are not counted", func(t *testing.T) {
		h := New(NewMemoryStore(), 1, time.Minute, logger).PerCaller(ok)
		for range 3 {
			assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodGet, caller).Code)
		}
		assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodPost, caller).Code)
	})

	t.Run("zero limit disables", func(t *testing.T) {
		h := New(NewMemoryStore(), 0, time.Minute, logger).PerCaller(ok)
		for range 3 {
			assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodPost, caller).Code)
		}
	})

	t.Run("store failure fails open", func(t *testing.T) {
		h := New(erroringStore{}, 1, time.Minute, logger).PerCaller(ok)
		assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodPost, caller).Code)
		assert.Equal(t, http.StatusNoContent, serve(t, h, http.MethodPost, caller).Code)
	})
}
