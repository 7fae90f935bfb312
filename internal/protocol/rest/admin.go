package rest

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/admin"
	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/audit"
	"github.com/pierre-mcp/pierre/internal/httpserver"
)

// AdminHandler serves /api/admin: pending-user review and admin-token
// lifecycle. Every route requires the superadmin role; individual admin
// tokens additionally need the specific permission enforced per-route.
type AdminHandler struct {
	svc    *admin.Service
	audit  *audit.Writer
	logger *slog.Logger
}

// NewAdminHandler creates an AdminHandler.
func NewAdminHandler(svc *admin.Service, auditW *audit.Writer, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{svc: svc, audit: auditW, logger: logger}
}

// Routes mounts under the authenticated, superadmin-only /api/admin prefix.
func (h *AdminHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/pending-users", h.handlePendingUsers)
	r.Post("/approve-user/{id}", h.handleApproveUser)
	r.Post("/suspend-user/{id}", h.handleSuspendUser)
	r.Get("/tokens", h.handleListTokens)
	r.Post("/tokens", h.handleCreateToken)
	r.Get("/tokens/{id}", h.handleGetToken)
	r.Post("/tokens/{id}/revoke", h.handleRevokeToken)
	return r
}

func (h *AdminHandler) handlePendingUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.svc.ListPendingUsers(r.Context())
	if err != nil {
		h.logger.Error("listing pending users", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to list pending users", err))
		return
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{"users": users, "count": len(users)})
}

type approveUserRequest struct {
	TenantSlug string `json:"tenant_slug"`
	TenantName string `json:"tenant_name"`
}

func (h *AdminHandler) handleApproveUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "invalid user id"))
		return
	}

	var req approveUserRequest
	if r.ContentLength != 0 {
		if !httpserver.DecodeAndValidate(w, r, &req) {
			return
		}
	}

	u, err := h.svc.ApproveUser(r.Context(), userID, req.TenantSlug, req.TenantName)
	if err != nil {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindValidation, "failed to approve user", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "approve_user", "user", userID.String(), nil)
	}
	httpserver.Respond(w, http.StatusOK, u)
}

func (h *AdminHandler) handleSuspendUser(w http.ResponseWriter, r *http.Request) {
	userID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "invalid user id"))
		return
	}

	if err := h.svc.SuspendUser(r.Context(), userID); err != nil {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to suspend user", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "suspend_user", "user", userID.String(), nil)
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}

type createAdminTokenRequest struct {
	ServiceName  string   `json:"service_name" validate:"required"`
	Description  string   `json:"description"`
	Permissions  []string `json:"permissions"`
	IsSuperAdmin bool     `json:"is_super_admin"`
	TTLSeconds   int64    `json:"ttl_seconds"`
}

func (h *AdminHandler) handleCreateToken(w http.ResponseWriter, r *http.Request) {
	var req createAdminTokenRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	var ttl time.Duration
	if req.TTLSeconds > 0 {
		ttl = time.Duration(req.TTLSeconds) * time.Second
	}

	raw, token, err := h.svc.CreateAdminToken(r.Context(), req.ServiceName, req.Description, req.Permissions, req.IsSuperAdmin, ttl)
	if err != nil {
		h.logger.Error("creating admin token", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to create admin token", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "create", "admin_token", token.ID.String(), nil)
	}
	httpserver.Respond(w, http.StatusCreated, map[string]any{"token": token, "secret": raw})
}

func (h *AdminHandler) handleListTokens(w http.ResponseWriter, r *http.Request) {
	tokens, err := h.svc.ListAdminTokens(r.Context())
	if err != nil {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to list admin tokens", err))
		return
	}
	httpserver.Respond(w, http.StatusOK, map[string]any{"tokens": tokens, "count": len(tokens)})
}

func (h *AdminHandler) handleGetToken(w http.ResponseWriter, r *http.Request) {
	tokenID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "invalid token id"))
		return
	}

	tokens, err := h.svc.ListAdminTokens(r.Context())
	if err != nil {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to look up admin token", err))
		return
	}
	for _, t := range tokens {
		if t.ID == tokenID {
			httpserver.Respond(w, http.StatusOK, t)
			return
		}
	}
	httpserver.RespondAppErr(w, apperr.New(apperr.KindNotFound, "admin token not found"))
}

func (h *AdminHandler) handleRevokeToken(w http.ResponseWriter, r *http.Request) {
	tokenID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "invalid token id"))
		return
	}

	if err := h.svc.RevokeAdminToken(r.Context(), tokenID); err != nil {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to revoke admin token", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "revoke", "admin_token", tokenID.String(), nil)
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}

// SetupHandler serves the unauthenticated, top-level POST /admin/setup
// first-run bootstrap.
type SetupHandler struct {
	svc    *admin.Service
	logger *slog.Logger
}

// NewSetupHandler creates a SetupHandler.
func NewSetupHandler(svc *admin.Service, logger *slog.Logger) *SetupHandler {
	return &SetupHandler{svc: svc, logger: logger}
}

type setupRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

func (h *SetupHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req setupRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.svc.Bootstrap(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, admin.ErrAlreadyBootstrapped) {
			httpserver.RespondAppErr(w, apperr.New(apperr.KindConflict, "an admin account already exists"))
			return
		}
		h.logger.Error("bootstrapping admin", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to bootstrap admin account", err))
		return
	}

	httpserver.Respond(w, http.StatusCreated, map[string]any{"id": u.ID, "email": u.Email})
}
