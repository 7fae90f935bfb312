// Package auth resolves the caller's identity from an incoming request and
// enforces role-based access to handlers. It knows nothing about transport
// framing (HTTP vs stdio JSON-RPC) — callers extract the raw header/cookie
// values and pass them to Manager.Authenticate.
package auth

import (
	"context"

	"github.com/google/uuid"
)

// Credential kinds an AuthResult can carry.
const (
	CredentialJWT       = "jwt"
	CredentialAPIKey    = "api_key"
	CredentialAdminToken = "admin_token"
	CredentialCookie    = "cookie"
)

// Identity is the authenticated caller for the current request.
type Identity struct {
	UserID         uuid.UUID
	Email          string
	Role           string
	TenantID       *uuid.UUID
	APIKeyID       *uuid.UUID
	AdminTokenID   *uuid.UUID
	AdminPerms     []string
	CredentialKind string
}

// IsAdminToken reports whether this identity authenticated as a service
// admin token rather than a user.
func (i *Identity) IsAdminToken() bool {
	return i.AdminTokenID != nil
}

type ctxKey string

const identityKey ctxKey = "pierre_identity"

// NewContext stores id in ctx.
func NewContext(ctx context.Context, id *Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// FromContext extracts the identity stored by NewContext, or nil.
func FromContext(ctx context.Context) *Identity {
	v, _ := ctx.Value(identityKey).(*Identity)
	return v
}
