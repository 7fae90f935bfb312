package auth

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// Request is the transport-independent input to Authenticate: whatever a
// protocol adapter was able to pull off its own request shape.
type Request struct {
	AuthorizationHeader string
	APIKeyHeader        string
	CookieToken         string
}

// Manager resolves a Request into an Identity following the fixed
// precedence order: JWT bearer, then API key, then admin
// token bearer, then cookie.
type Manager struct {
	store storage.Provider
	jwks  *crypto.JWKSManager
}

// NewManager builds a Manager over the given store and JWKS signer.
func NewManager(store storage.Provider, jwks *crypto.JWKSManager) *Manager {
	return &Manager{store: store, jwks: jwks}
}

// Authenticate resolves req into an Identity, or returns one of the
// Err*Credential sentinels.
func (m *Manager) Authenticate(ctx context.Context, req Request) (*Identity, error) {
	if bearer, ok := bearerToken(req.AuthorizationHeader); ok {
		return m.authenticateBearer(ctx, bearer)
	}

	if key := apiKeyFromRequest(req); key != "" {
		return m.authenticateAPIKey(ctx, key)
	}

	if req.CookieToken != "" {
		return m.authenticateJWT(ctx, req.CookieToken, CredentialCookie)
	}

	return nil, ErrMissingCredential
}

func bearerToken(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return "", false
	}
	return strings.TrimSpace(header[len(prefix):]), true
}

func apiKeyFromRequest(req Request) string {
	if req.APIKeyHeader != "" {
		return req.APIKeyHeader
	}
	const prefix = "Api-Key "
	if len(req.AuthorizationHeader) > len(prefix) && strings.EqualFold(req.AuthorizationHeader[:len(prefix)], prefix) {
		return strings.TrimSpace(req.AuthorizationHeader[len(prefix):])
	}
	return ""
}

// authenticateBearer tries a user session JWT first; a bearer value that
// doesn't parse as a JWT at all is an opaque admin token instead (admin
// tokens are long random secrets hashed and stored the same way API keys
// are, not JWTs — see storage.AdminToken.TokenHash).
func (m *Manager) authenticateBearer(ctx context.Context, raw string) (*Identity, error) {
	claims, err := m.jwks.ValidateToken(raw)
	if err != nil {
		return m.resolveAdminToken(ctx, crypto.HashAPIKey(raw))
	}
	return m.resolveUserClaims(ctx, claims)
}

func (m *Manager) authenticateJWT(ctx context.Context, raw, kind string) (*Identity, error) {
	claims, err := m.jwks.ValidateToken(raw)
	if err != nil {
		return nil, ErrExpiredCredential
	}
	id, err := m.resolveUserClaims(ctx, claims)
	if err != nil {
		return nil, err
	}
	id.CredentialKind = kind
	return id, nil
}

func (m *Manager) resolveUserClaims(ctx context.Context, claims *crypto.Claims) (*Identity, error) {
	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return nil, ErrMalformedCredential
	}
	u, err := m.store.GetUserByID(ctx, userID)
	if err != nil {
		return nil, ErrRevokedCredential
	}
	if u.Status != storage.StatusActive {
		return nil, ErrRevokedCredential
	}
	_ = m.store.TouchUserLastActive(ctx, u.ID)

	return &Identity{
		UserID:         u.ID,
		Email:          u.Email,
		Role:           u.Role,
		TenantID:       u.TenantID,
		CredentialKind: CredentialJWT,
	}, nil
}

func (m *Manager) resolveAdminToken(ctx context.Context, tokenHash string) (*Identity, error) {
	t, err := m.store.GetAdminTokenByHash(ctx, tokenHash)
	if err != nil || !t.Active {
		return nil, ErrRevokedCredential
	}
	if t.ExpiresAt != nil && t.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredCredential
	}
	_ = m.store.TouchAdminTokenLastUsed(ctx, t.ID)

	perms := t.Permissions
	if t.IsSuperAdmin {
		perms = []string{permWildcard}
	}

	return &Identity{
		Role:           storage.RoleAdmin,
		AdminTokenID:   &t.ID,
		AdminPerms:     perms,
		CredentialKind: CredentialAdminToken,
	}, nil
}

func (m *Manager) authenticateAPIKey(ctx context.Context, raw string) (*Identity, error) {
	const minLen = 12
	if len(raw) < minLen {
		return nil, ErrMalformedCredential
	}
	prefix := raw[:minLen]

	key, err := m.store.GetAPIKeyByPrefix(ctx, prefix)
	if err != nil {
		return nil, ErrRevokedCredential
	}
	if !key.Active {
		return nil, ErrRevokedCredential
	}
	if key.ExpiresAt != nil && key.ExpiresAt.Before(time.Now()) {
		return nil, ErrExpiredCredential
	}
	if !constantTimeEqual(key.KeyHash, crypto.HashAPIKey(raw)) {
		return nil, ErrRevokedCredential
	}

	u, err := m.store.GetUserByID(ctx, key.UserID)
	if err != nil {
		return nil, ErrRevokedCredential
	}
	_ = m.store.TouchAPIKeyLastUsed(ctx, key.ID)

	return &Identity{
		UserID:         u.ID,
		Email:          u.Email,
		Role:           u.Role,
		TenantID:       u.TenantID,
		APIKeyID:       &key.ID,
		CredentialKind: CredentialAPIKey,
	}, nil
}

func constantTimeEqual(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var diff byte
	for i := 0; i < len(a); i++ {
		diff |= a[i] ^ b[i]
	}
	return diff == 0
}
