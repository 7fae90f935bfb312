package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/audit"
	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/httpserver"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// CoachesHandler serves the tenant-scoped Coach resource: CRUD plus the
// per-user favorite/hide/usage relationship tracked in CoachAssignment.
type CoachesHandler struct {
	store  storage.Provider
	audit  *audit.Writer
	logger *slog.Logger
}

// NewCoachesHandler creates a CoachesHandler.
func NewCoachesHandler(store storage.Provider, auditW *audit.Writer, logger *slog.Logger) *CoachesHandler {
	return &CoachesHandler{store: store, audit: auditW, logger: logger}
}

// Routes mounts under the authenticated /api/coaches prefix.
func (h *CoachesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Get("/{id}", h.handleGet)
	r.Put("/{id}", h.handleUpdate)
	r.Delete("/{id}", h.handleDelete)
	r.Post("/{id}/favorite", h.handleFavorite)
	r.Post("/{id}/hide", h.handleHide)
	r.Post("/{id}/usage", h.handleUsage)
	return r
}

type coachRequest struct {
	Name                 string   `json:"name" validate:"required"`
	Description          string   `json:"description"`
	SystemPromptTemplate string   `json:"system_prompt_template" validate:"required"`
	AllowedTools         []string `json:"allowed_tools"`
	DefaultEnabled       bool     `json:"default_enabled"`
}

func (h *CoachesHandler) handleList(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil || id.TenantID == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "a tenant membership is required"))
		return
	}

	coaches, err := h.store.ListCoaches(r.Context(), *id.TenantID)
	if err != nil {
		h.logger.Error("listing coaches", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to list coaches", err))
		return
	}

	httpserver.Respond(w, http.StatusOK, map[string]any{"coaches": coaches, "count": len(coaches)})
}

func (h *CoachesHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil || id.TenantID == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "a tenant membership is required"))
		return
	}

	var req coachRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	c, err := h.store.CreateCoach(r.Context(), storage.Coach{
		TenantID:             *id.TenantID,
		Name:                 req.Name,
		Description:          req.Description,
		SystemPromptTemplate: req.SystemPromptTemplate,
		AllowedTools:         req.AllowedTools,
		DefaultEnabled:       req.DefaultEnabled,
	})
	if err != nil {
		h.logger.Error("creating coach", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to create coach", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "create", "coach", c.ID.String(), nil)
	}
	httpserver.Respond(w, http.StatusCreated, c)
}

func (h *CoachesHandler) handleGet(w http.ResponseWriter, r *http.Request) {
	id, coachID, ok := h.requireTenantAndID(w, r)
	if !ok {
		return
	}

	c, err := h.store.GetCoach(r.Context(), *id.TenantID, coachID)
	if err != nil {
		h.respondStoreErr(w, err, "coach not found")
		return
	}
	httpserver.Respond(w, http.StatusOK, c)
}

func (h *CoachesHandler) handleUpdate(w http.ResponseWriter, r *http.Request) {
	id, coachID, ok := h.requireTenantAndID(w, r)
	if !ok {
		return
	}

	existing, err := h.store.GetCoach(r.Context(), *id.TenantID, coachID)
	if err != nil {
		h.respondStoreErr(w, err, "coach not found")
		return
	}

	var req coachRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	existing.Name = req.Name
	existing.Description = req.Description
	existing.SystemPromptTemplate = req.SystemPromptTemplate
	existing.AllowedTools = req.AllowedTools
	existing.DefaultEnabled = req.DefaultEnabled
	existing.UpdatedAt = time.Now().UTC()

	if err := h.store.UpdateCoach(r.Context(), existing); err != nil {
		h.respondStoreErr(w, err, "failed to update coach")
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "update", "coach", coachID.String(), nil)
	}
	httpserver.Respond(w, http.StatusOK, existing)
}

func (h *CoachesHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id, coachID, ok := h.requireTenantAndID(w, r)
	if !ok {
		return
	}

	if err := h.store.DeleteCoach(r.Context(), *id.TenantID, coachID); err != nil {
		h.respondStoreErr(w, err, "failed to delete coach")
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "delete", "coach", coachID.String(), nil)
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}

func (h *CoachesHandler) handleFavorite(w http.ResponseWriter, r *http.Request) {
	h.toggleAssignment(w, r, func(a *storage.CoachAssignment) { a.Favorited = !a.Favorited })
}

func (h *CoachesHandler) handleHide(w http.ResponseWriter, r *http.Request) {
	h.toggleAssignment(w, r, func(a *storage.CoachAssignment) { a.Hidden = !a.Hidden })
}

func (h *CoachesHandler) handleUsage(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC()
	h.toggleAssignment(w, r, func(a *storage.CoachAssignment) {
		a.UseCount++
		a.LastUsedAt = &now
	})
}

// toggleAssignment reads the caller's CoachAssignment for a coach (treating
// a missing one as the zero value, since a user's first interaction with a
// coach has no row yet), applies mutate, and writes it back.
func (h *CoachesHandler) toggleAssignment(w http.ResponseWriter, r *http.Request, mutate func(*storage.CoachAssignment)) {
	id := auth.FromContext(r.Context())
	if id == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "authentication required"))
		return
	}
	coachID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "invalid coach id"))
		return
	}

	a, err := h.store.GetCoachAssignment(r.Context(), id.UserID, coachID)
	if err != nil && !errors.Is(err, storage.ErrNotFound) {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to load coach assignment", err))
		return
	}
	a.UserID = id.UserID
	a.CoachID = coachID
	mutate(&a)

	if err := h.store.SetCoachAssignment(r.Context(), a); err != nil {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to update coach assignment", err))
		return
	}
	httpserver.Respond(w, http.StatusOK, a)
}

func (h *CoachesHandler) requireTenantAndID(w http.ResponseWriter, r *http.Request) (*auth.Identity, uuid.UUID, bool) {
	id := auth.FromContext(r.Context())
	if id == nil || id.TenantID == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "a tenant membership is required"))
		return nil, uuid.Nil, false
	}
	coachID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "invalid coach id"))
		return nil, uuid.Nil, false
	}
	return id, coachID, true
}

func (h *CoachesHandler) respondStoreErr(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		httpserver.RespondAppErr(w, apperr.New(apperr.KindNotFound, "coach not found"))
	case errors.Is(err, storage.ErrUnauthorized):
		httpserver.RespondAppErr(w, apperr.New(apperr.KindTenantIsolation, "coach belongs to a different tenant"))
	default:
		h.logger.Error(fallback, "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, fallback, err))
	}
}
