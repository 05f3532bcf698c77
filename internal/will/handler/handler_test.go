package handler

import (
	"bytes"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/platform/middleware"
	"legacyvault/internal/will/generator"
	"legacyvault/internal/will/models"
	"legacyvault/internal/will/service"
	"legacyvault/internal/will/store"
	"legacyvault/pkg/testutil"
)

func newWillRouter(t *testing.T) http.Handler {
	t.Helper()
	registry, err := jurisdiction.LoadDefault()
	require.NoError(t, err)
	catalog, err := generator.LoadCatalog()
	require.NoError(t, err)
	mem := store.NewMemoryStore()
	logger := slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))
	svc, err := service.New(mem.Records(), mem.Contents(), mem, registry, generator.New(catalog),
		service.WithLogger(logger),
		service.WithClock(func() time.Time { return time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC) }),
	)
	require.NoError(t, err)

	h := New(svc, registry, logger)
	r := chi.NewRouter()
	h.RegisterPublic(r)
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireCaller(logger))
		h.Register(r)
	})
	return r
}

func createPayload() map[string]any {
	return map[string]any{
		"jurisdiction": "SK",
		"data": map[string]any{
			"personal": map[string]any{
				"full_name":     "Jan Novak",
				"date_of_birth": "1970-05-10T00:00:00Z",
				"address":       map[string]any{"city": "Bratislava"},
			},
		},
	}
}

func TestWillLifecycleOverHTTP(t *testing.T) {
	router := newWillRouter(t)
	owner := uuid.NewString()
	var willID string

	testutil.Given(t, "a created will", func(t *testing.T) {
		req := testutil.WithCallerHeader(testutil.NewJSONRequest(t, http.MethodPost, "/wills", createPayload()), owner)
		rec := testutil.DoRequest(router, req)
		require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

		will := testutil.UnmarshalResponse[models.GeneratedWill](t, rec)
		assert.Equal(t, 1, will.Version)
		assert.NotEmpty(t, will.Content.Text)
		willID = will.ID.String()
	})
	require.NotEmpty(t, willID)

	testutil.When(t, "the owner regenerates it", func(t *testing.T) {
		req := testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodPost, "/wills/"+willID+"/regenerate"), owner)
		rec := testutil.DoRequest(router, req)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		assert.Equal(t, 2, testutil.UnmarshalResponse[models.GeneratedWill](t, rec).Version)
	})

	testutil.Then(t, "both versions are listed and verifiable", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodGet, "/wills"), owner))
		require.Equal(t, http.StatusOK, rec.Code)
		list := testutil.UnmarshalResponse[ListResponse](t, rec)
		require.Equal(t, 1, list.Count)
		assert.Equal(t, 2, list.Wills[0].Version)

		rec = testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodGet, "/wills/"+willID+"/versions/1"), owner))
		require.Equal(t, http.StatusOK, rec.Code)

		rec = testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodGet, "/wills/"+willID+"/integrity"), owner))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, testutil.UnmarshalResponse[models.IntegrityReport](t, rec).Valid)
	})

	testutil.Then(t, "another caller cannot see it", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodGet, "/wills/"+willID), uuid.NewString()))
		testutil.AssertStatusAndError(t, rec, http.StatusNotFound, "not_found")
	})

	testutil.When(t, "the owner deletes it", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodDelete, "/wills/"+willID), owner))
		require.Equal(t, http.StatusNoContent, rec.Code)

		rec = testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodGet, "/wills/"+willID), owner))
		testutil.AssertStatusAndError(t, rec, http.StatusNotFound, "not_found")
	})
}

func TestCreateWillErrors(t *testing.T) {
	router := newWillRouter(t)
	owner := uuid.NewString()

	t.Run("missing caller is unauthorized", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.NewJSONRequest(t, http.MethodPost, "/wills", createPayload()))
		testutil.AssertStatusAndError(t, rec, http.StatusUnauthorized, "unauthorized")
	})

	t.Run("unknown field is a bad request", func(t *testing.T) {
		req := testutil.WithCallerHeader(testutil.NewRawJSONRequest(t, http.MethodPost, "/wills", `{"jurisdiction":"SK","colour":"blue"}`), owner)
		rec := testutil.DoRequest(router, req)
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "bad_request")
	})

	t.Run("unsupported jurisdiction is not found", func(t *testing.T) {
		payload := createPayload()
		payload["jurisdiction"] = "XX"
		rec := testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewJSONRequest(t, http.MethodPost, "/wills", payload), owner))
		testutil.AssertStatusAndError(t, rec, http.StatusNotFound, "not_found")
	})

	t.Run("unsupported language is unprocessable", func(t *testing.T) {
		payload := createPayload()
		payload["language"] = "ja"
		rec := testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewJSONRequest(t, http.MethodPost, "/wills", payload), owner))
		testutil.AssertStatusAndError(t, rec, http.StatusUnprocessableEntity, "configuration_error")
	})

	t.Run("malformed will id is a bad request", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodGet, "/wills/not-a-uuid"), owner))
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "invalid_input")
	})

	t.Run("non-numeric version is a bad request", func(t *testing.T) {
		rec := testutil.DoRequest(router, testutil.WithCallerHeader(testutil.NewRequest(t, http.MethodGet, "/wills/"+uuid.NewString()+"/versions/latest"), owner))
		testutil.AssertStatusAndError(t, rec, http.StatusBadRequest, "invalid_input")
	})
}

func TestJurisdictionCatalogue(t *testing.T) {
	router := newWillRouter(t)

	rec := testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/jurisdictions"))
	require.Equal(t, http.StatusOK, rec.Code)
	all := testutil.UnmarshalResponse[[]JurisdictionResponse](t, rec)
	assert.NotEmpty(t, *all)

	rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/jurisdictions/sk"))
	require.Equal(t, http.StatusOK, rec.Code)
	sk := testutil.UnmarshalResponse[JurisdictionResponse](t, rec)
	assert.Equal(t, "SK", sk.Code)
	assert.Contains(t, sk.Languages, "sk")

	rec = testutil.DoRequest(router, testutil.NewRequest(t, http.MethodGet, "/jurisdictions/XX"))
	testutil.AssertStatusAndError(t, rec, http.StatusNotFound, "not_found")
}
