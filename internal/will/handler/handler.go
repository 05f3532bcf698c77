package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"legacyvault/internal/jurisdiction"
	"legacyvault/internal/will/models"
	id "legacyvault/pkg/domain"
	dErrors "legacyvault/pkg/domain-errors"
	"legacyvault/pkg/platform/httputil"
	"legacyvault/pkg/requestcontext"
)

// Service is the will lifecycle as seen by the transport.
type Service interface {
	CreateWill(ctx context.Context, owner id.UserID, req *models.CreateWillRequest) (*models.GeneratedWill, error)
	RegenerateWill(ctx context.Context, owner id.UserID, willID id.WillID) (*models.GeneratedWill, error)
	UpdateWill(ctx context.Context, owner id.UserID, willID id.WillID, req *models.UpdateWillRequest) (*models.GeneratedWill, error)
	GetWill(ctx context.Context, owner id.UserID, willID id.WillID) (*models.GeneratedWill, error)
	GetWillVersion(ctx context.Context, owner id.UserID, willID id.WillID, version int) (*models.StoredContent, error)
	ListWills(ctx context.Context, owner id.UserID) ([]models.Summary, error)
	DeleteWill(ctx context.Context, owner id.UserID, willID id.WillID) error
	VerifyIntegrity(ctx context.Context, owner id.UserID, willID id.WillID) (*models.IntegrityReport, error)
}

// Handler wires will and jurisdiction endpoints to the lifecycle service.
type Handler struct {
	service  Service
	registry *jurisdiction.Registry
	logger   *slog.Logger
}

func New(service Service, registry *jurisdiction.Registry, logger *slog.Logger) *Handler {
	return &Handler{service: service, registry: registry, logger: logger}
}

// Register mounts the will endpoints. Every route expects the caller identity
// in the request context.
func (h *Handler) Register(r chi.Router) {
	r.Route("/wills", func(r chi.Router) {
		r.Post("/", h.HandleCreate)
		r.Get("/", h.HandleList)
		r.Route("/{willID}", func(r chi.Router) {
			r.Get("/", h.HandleGet)
			r.Patch("/", h.HandleUpdate)
			r.Delete("/", h.HandleDelete)
			r.Post("/regenerate", h.HandleRegenerate)
			r.Get("/versions/{version}", h.HandleGetVersion)
			r.Get("/integrity", h.HandleVerifyIntegrity)
		})
	})
}

// RegisterPublic mounts the read-only jurisdiction catalogue, which needs no
// caller identity.
func (h *Handler) RegisterPublic(r chi.Router) {
	r.Get("/jurisdictions", h.HandleListJurisdictions)
	r.Get("/jurisdictions/{code}", h.HandleGetJurisdiction)
}

func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	start := time.Now()
	owner := requestcontext.UserID(ctx)

	var req models.CreateWillRequest
	if !httputil.DecodeJSON(w, r, h.logger, &req) {
		return
	}
	will, err := h.service.CreateWill(ctx, owner, &req)
	if err != nil {
		h.fail(w, r, "will creation failed", err)
		return
	}
	h.logger.InfoContext(ctx, "will created",
		"request_id", requestcontext.RequestID(ctx),
		"will_id", will.ID.String(),
		"status", will.Status,
		"completeness_score", will.Validation.CompletenessScore,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	httputil.WriteJSON(w, http.StatusCreated, will)
}

func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	wills, err := h.service.ListWills(ctx, requestcontext.UserID(ctx))
	if err != nil {
		h.fail(w, r, "will listing failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, ListResponse{Wills: wills, Count: len(wills)})
}

func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	will, err := h.service.GetWill(ctx, requestcontext.UserID(ctx), willID)
	if err != nil {
		h.fail(w, r, "will lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, will)
}

func (h *Handler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}
	var req models.UpdateWillRequest
	if !httputil.DecodeJSON(w, r, h.logger, &req) {
		return
	}
	ctx := r.Context()
	will, err := h.service.UpdateWill(ctx, requestcontext.UserID(ctx), willID, &req)
	if err != nil {
		h.fail(w, r, "will update failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, will)
}

func (h *Handler) HandleRegenerate(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	will, err := h.service.RegenerateWill(ctx, requestcontext.UserID(ctx), willID)
	if err != nil {
		h.fail(w, r, "will regeneration failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, will)
}

func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	if err := h.service.DeleteWill(ctx, requestcontext.UserID(ctx), willID); err != nil {
		h.fail(w, r, "will deletion failed", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) HandleGetVersion(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}
	version, err := strconv.Atoi(chi.URLParam(r, "version"))
	if err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInvalidInput, "version must be an integer"))
		return
	}
	ctx := r.Context()
	content, err := h.service.GetWillVersion(ctx, requestcontext.UserID(ctx), willID, version)
	if err != nil {
		h.fail(w, r, "will version lookup failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, content)
}

func (h *Handler) HandleVerifyIntegrity(w http.ResponseWriter, r *http.Request) {
	willID, ok := parseWillID(w, r)
	if !ok {
		return
	}
	ctx := r.Context()
	report, err := h.service.VerifyIntegrity(ctx, requestcontext.UserID(ctx), willID)
	if err != nil {
		h.fail(w, r, "will integrity check failed", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, report)
}

func (h *Handler) HandleListJurisdictions(w http.ResponseWriter, _ *http.Request) {
	codes := h.registry.Codes()
	out := make([]JurisdictionResponse, 0, len(codes))
	for _, code := range codes {
		cfg, err := h.registry.Config(code)
		if err != nil {
			continue
		}
		out = append(out, FromConfig(cfg))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) HandleGetJurisdiction(w http.ResponseWriter, r *http.Request) {
	code, err := id.ParseJurisdictionCode(chi.URLParam(r, "code"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	cfg, err := h.registry.Config(code)
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, FromConfig(cfg))
}

func parseWillID(w http.ResponseWriter, r *http.Request) (id.WillID, bool) {
	willID, err := id.ParseWillID(chi.URLParam(r, "willID"))
	if err != nil {
		httputil.WriteError(w, err)
		return id.WillID{}, false
	}
	return willID, true
}

// fail logs server-side failures at error level and client mistakes at warn.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, msg string, err error) {
	ctx := r.Context()
	args := []any{
		"request_id", requestcontext.RequestID(ctx),
		"error", err,
	}
	if httputil.StatusFor(dErrors.CodeOf(err)) >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg, args...)
	} else {
		h.logger.WarnContext(ctx, msg, args...)
	}
	httputil.WriteError(w, err)
}
