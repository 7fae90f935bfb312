// Package rest mounts Pierre's browser/API-client facing HTTP resources
// (auth lifecycle, coaches, MCP tokens, tenant OAuth, admin operations) on
// top of the shared executor and storage layers the MCP and A2A transports
// also use.
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
	"github.com/pierre-mcp/pierre/internal/middleware"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// sessionCookie is the cookie name internal/middleware.CSRF and
// internal/auth.Middleware both already expect.
const sessionCookie = "pierre_session"

// AuthHandler serves the account lifecycle: register, login, logout,
// refresh. Access and refresh tokens are both RS256 JWTs from the same
// JWKSManager, distinguished by their token_type claim, so there is no
// separate refresh-token store to keep consistent with revocation.
type AuthHandler struct {
	store      storage.Provider
	jwks       *crypto.JWKSManager
	csrf       *middleware.CSRFTokenManager
	audit      *audit.Writer
	logger     *slog.Logger
	accessTTL  time.Duration
	refreshTTL time.Duration
	secureCookies bool
}

// NewAuthHandler creates an AuthHandler. secureCookies should be true in
// any environment served over TLS.
func NewAuthHandler(store storage.Provider, jwks *crypto.JWKSManager, csrf *middleware.CSRFTokenManager, auditW *audit.Writer, logger *slog.Logger, accessTTL, refreshTTL time.Duration, secureCookies bool) *AuthHandler {
	return &AuthHandler{
		store:         store,
		jwks:          jwks,
		csrf:          csrf,
		audit:         auditW,
		logger:        logger,
		accessTTL:     accessTTL,
		refreshTTL:    refreshTTL,
		secureCookies: secureCookies,
	}
}

// Routes mounts under /api/auth. These routes sit behind auth.Middleware
// (for refresh/logout's optional identity) but never behind
// auth.RequireAuth or rate limiting the way the rest of /api does.
func (h *AuthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/register", h.handleRegister)
	r.Post("/login", h.handleLogin)
	r.Post("/logout", h.handleLogout)
	r.Post("/refresh", h.handleRefresh)
	return r
}

type registerRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8"`
	DisplayName string `json:"display_name" validate:"required"`
}

func (h *AuthHandler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	if _, err := h.store.GetUserByEmail(r.Context(), req.Email); err == nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindConflict, "an account with this email already exists"))
		return
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		h.logger.Error("hashing registration password", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to register", err))
		return
	}

	u, err := h.store.CreateUser(r.Context(), storage.User{
		Email:        req.Email,
		PasswordHash: hash,
		DisplayName:  req.DisplayName,
		Role:         storage.RoleUser,
		Status:       storage.StatusPending,
		Tier:         storage.TierStarter,
	})
	if err != nil {
		h.logger.Error("creating registered user", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to register", err))
		return
	}

	if h.audit != nil {
		h.audit.LogFromRequest(r, "register", "user", "pending", nil)
	}

	httpserver.Respond(w, http.StatusCreated, map[string]any{
		"id":     u.ID,
		"email":  u.Email,
		"status": u.Status,
	})
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type loginResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	CSRFToken    string `json:"csrf_token"`
	User         struct {
		ID    uuid.UUID `json:"id"`
		Email string    `json:"email"`
		Role  string    `json:"role"`
	} `json:"user"`
}

func (h *AuthHandler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	u, err := h.store.GetUserByEmail(r.Context(), req.Email)
	if err != nil || !crypto.VerifyPassword(u.PasswordHash, req.Password) {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "invalid email or password"))
		return
	}
	if u.Status != storage.StatusActive {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindAuthentication, "account is not active"))
		return
	}

	access, refresh, err := h.issueTokenPair(u)
	if err != nil {
		h.logger.Error("issuing login tokens", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to log in", err))
		return
	}

	csrfTok, err := h.csrf.GenerateToken(u.ID)
	if err != nil {
		h.logger.Error("issuing csrf token", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to log in", err))
		return
	}

	h.setSessionCookie(w, access)

	if h.audit != nil {
		h.audit.LogFromRequest(r, "login", "user", "success", nil)
	}

	resp := loginResponse{AccessToken: access, RefreshToken: refresh, CSRFToken: csrfTok}
	resp.User.ID = u.ID
	resp.User.Email = u.Email
	resp.User.Role = u.Role
	httpserver.Respond(w, http.StatusOK, resp)
}

func (h *AuthHandler) handleLogout(w http.ResponseWriter, r *http.Request) {
	h.clearSessionCookie(w)
	if id := auth.FromContext(r.Context()); id != nil && h.audit != nil {
		h.audit.LogFromRequest(r, "logout", "user", "success", nil)
	}
	httpserver.Respond(w, http.StatusNoContent, nil)
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

func (h *AuthHandler) handleRefresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if !httpserver.DecodeAndValidate(w, r, &req) {
		return
	}

	claims, err := h.jwks.ValidateToken(req.RefreshToken)
	if err != nil || claims.TokenType != crypto.TokenTypeRefresh {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindTokenExpired, "refresh token is invalid or expired"))
		return
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindTokenExpired, "refresh token is invalid or expired"))
		return
	}

	u, err := h.store.GetUserByID(r.Context(), userID)
	if err != nil || u.Status != storage.StatusActive {
		httpserver.RespondAppErr(w, apperr.New(apperr.KindTokenExpired, "refresh token is invalid or expired"))
		return
	}

	access, refresh, err := h.issueTokenPair(u)
	if err != nil {
		h.logger.Error("issuing refreshed tokens", "error", err)
		httpserver.RespondAppErr(w, apperr.Wrap(apperr.KindInternal, "failed to refresh session", err))
		return
	}

	h.setSessionCookie(w, access)
	httpserver.Respond(w, http.StatusOK, map[string]string{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

func (h *AuthHandler) issueTokenPair(u storage.User) (access, refresh string, err error) {
	var tenantID string
	if u.TenantID != nil {
		tenantID = u.TenantID.String()
	}

	access, err = h.jwks.IssueTokenWithTTL(crypto.Claims{
		Subject:   u.ID.String(),
		Email:     u.Email,
		Role:      u.Role,
		TenantID:  tenantID,
		TokenType: crypto.TokenTypeAccess,
	}, h.accessTTL)
	if err != nil {
		return "", "", err
	}

	refresh, err = h.jwks.IssueTokenWithTTL(crypto.Claims{
		Subject:   u.ID.String(),
		TokenType: crypto.TokenTypeRefresh,
	}, h.refreshTTL)
	return access, refresh, err
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, accessToken string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    accessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.accessTTL.Seconds()),
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookie,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookies,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}
