package rest

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/audit"
	"github.com/pierre-mcp/pierre/internal/auth"
	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/httpserver"
	"github.com/pierre-mcp/pierre/internal/tenantoauth"
)

// oauthStateTTL bounds how long a user has to complete an upstream
// provider's consent screen before the signed state token expires.
const oauthStateTTL = 10 * time.Minute

// OAuthHandler serves the top-level /oauth/{authorize,callback,revoke}
// routes that broker a tenant's upstream fitness-provider credentials on
// behalf of its members. Authorize/revoke require an authenticated tenant
// member; callback carries its caller identity inside the signed state
// token instead, since the upstream provider's redirect never presents the
// original session's cookie or bearer header.
type OAuthHandler struct {
	mgr    *tenantoauth.Manager
	jwks   *crypto.JWKSManager
	audit  *audit.Writer
	logger *slog.Logger
}

// NewOAuthHandler creates an OAuthHandler.
func NewOAuthHandler(mgr *tenantoauth.Manager, jwks *crypto.JWKSManager, auditW *audit.Writer, logger *slog.Logger) *OAuthHandler {
	return &OAuthHandler{mgr: mgr, jwks: jwks, audit: auditW, logger: logger}
}

// MountOn registers the handler's three routes directly on r, since they
// sit at the top level rather than under /api.
func (h *OAuthHandler) MountOn(r chi.Router) {
	r.Post("/oauth/authorize/{provider}", h.handleAuthorize)
	r.Get("/oauth/callback/{provider}", h.handleCallback)
	r.Post("/oauth/revoke/{provider}", h.handleRevoke)
}

func (h *OAuthHandler) handleAuthorize(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil || id.TenantID == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "a tenant membership is required"))
		return
	}
	provider := chi.URLParam(r, "provider")

	state, err := h.jwks.IssueTokenWithTTL(crypto.Claims{
		Subject:  id.UserID.String(),
		TenantID: id.TenantID.String(),
	}, oauthStateTTL)
	if err != nil {
		h.logger.Error("issuing oauth state token", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to start authorization", err))
		return
	}

	url, err := h.mgr.AuthorizeURL(r.Context(), *id.TenantID, provider, state)
	if err != nil {
		httpserver.RespondAppErr(w, err)
		return
	}

	httpserver.Respond(w, http.StatusOK, map[string]string{"authorize_url": url})
}

func (h *OAuthHandler) handleCallback(w http.ResponseWriter, r *http.Request) {
	provider := chi.URLParam(r, "provider")
	code := r.URL.Query().Get("code")
	state := r.URL.Query().Get("state")
	if code == "" || state == "" {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindValidation, "code and state are required"))
		return
	}

	claims, err := h.jwks.ValidateToken(state)
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindTokenExpired, "oauth state is invalid or expired"))
		return
	}
	userID, err1 := uuid.Parse(claims.Subject)
	tenantID, err2 := uuid.Parse(claims.TenantID)
	if err1 != nil || err2 != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindTokenExpired, "oauth state is invalid or expired"))
		return
	}

	resp, err := h.mgr.ExchangeCode(r.Context(), userID, tenantID, provider, code)
	if err != nil {
		httpserver.RespondAppErr(w, err)
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "oauth_connect", provider, resp.UserID.String(), nil)
	}
	httpserver.Respond(w, http.StatusOK, resp)
}

func (h *OAuthHandler) handleRevoke(w http.ResponseWriter, r *http.Request) {
	id := auth.FromContext(r.Context())
	if id == nil || id.TenantID == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "a tenant membership is required"))
		return
	}
	provider := chi.URLParam(r, "provider")

	if err := h.mgr.Revoke(r.Context(), id.UserID, *id.TenantID, provider); err != nil {
		httpserver.RespondAppErr(w, err)
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "oauth_revoke", provider, id.UserID.String(), nil)
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}
