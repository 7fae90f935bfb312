package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/audit"
	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/httpserver"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// mcpTokenPrefixLen mirrors the lookup-prefix length internal/auth uses
// for API keys, so MCP tokens share the same prefix/hash shape.
const mcpTokenPrefixLen = 12

// MCPTokensHandler serves /api/user/mcp-tokens: a user's own long-lived
// bearer credentials for AI clients that can't hold a cookie session.
type MCPTokensHandler struct {
	store  storage.Provider
	audit  *audit.Writer
	logger *slog.Logger
}

// NewMCPTokensHandler creates an MCPTokensHandler.
func NewMCPTokensHandler(store storage.Provider, auditW *audit.Writer, logger *slog.Logger) *MCPTokensHandler {
	return &MCPTokensHandler{store: store, audit: auditW, logger: logger}
}

// Routes mounts under the authenticated /api/user/mcp-tokens prefix.
func (h *MCPTokensHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.handleList)
	r.Post("/", h.handleCreate)
	r.Delete("/{id}", h.handleDelete)
	return r
}

type createMCPTokenRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *MCPTokensHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "authentication required"))
		return
	}

	var req createMCPTokenRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	raw, err := crypto.GenerateSecret(32)
	if err != nil {
		h.logger.Error("generating mcp token", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to create mcp token", err))
		return
	}
	if len(raw) < mcpTokenPrefixLen {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindInternal, "failed to create mcp token"))
		return
	}

	t, err := h.store.CreateMCPToken(r.Context(), storage.MCPToken{
		UserID:    id.UserID,
		Name:      req.Name,
		KeyPrefix: raw[:mcpTokenPrefixLen],
		KeyHash:   crypto.HashAPIKey(raw),
		Active:    true,
	})
	if err != nil {
		h.logger.Error("persisting mcp token", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to create mcp token", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "create", "mcp_token", t.ID.String(), nil)
	}

	httpserver.Respond(w, http.StatusCreated, map[string]any{
		"id":    t.ID,
		"name":  t.Name,
		"token": raw,
	})
}

func (h *MCPTokensHandler) handleList(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "authentication required"))
		return
	}

	tokens, err := h.store.ListMCPTokensForUser(r.Context(), id.UserID)
	if err != nil {
		h.logger.Error("listing mcp tokens", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to list mcp tokens", err))
		return
	}

	httpserver.Respond(w, http.StatusOK, map[string]any{"tokens": tokens, "count": len(tokens)})
}

func (h *MCPTokensHandler) handleDelete(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "authentication required"))
		return
	}

	tokenID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "invalid mcp token id"))
		return
	}

	tokens, err := h.store.ListMCPTokensForUser(r.Context(), id.UserID)
	if err != nil {
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to revoke mcp token", err))
		return
	}
	owned := false
	for _, t := range tokens {
		if t.ID == tokenID {
			owned = true
			break
		}
	}
	if !owned {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindNotFound, "mcp token not found"))
		return
	}

	if err := h.store.RevokeMCPToken(r.Context(), tokenID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			httpserver.RespondAppErr(w, apperr.New(apperr.KindNotFound, "mcp token not found"))
			return
		}
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to revoke mcp token", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "revoke", "mcp_token", tokenID.String(), nil)
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}
