package providers

import (
	"context"

	"github.com/google/uuid"
)

// TokenRefresher is the subset of internal/tenantoauth.Manager adapters
// need: a decrypted, refreshed-if-needed bearer token for one
// (user, tenant, provider) triple.
type TokenRefresher interface {
	AccessToken(ctx context.Context, userID, tenantID uuid.UUID, provider string) (string, error)
}

// tenantTokenSource binds a TokenRefresher to one fixed user/tenant/provider,
// satisfying TokenSource.
type tenantTokenSource struct {
	refresher TokenRefresher
	userID    uuid.UUID
	tenantID  uuid.UUID
	provider  string
}

// NewTokenSource builds the TokenSource an adapter uses to authenticate its
// upstream calls.
func NewTokenSource(refresher TokenRefresher, userID, tenantID uuid.UUID, provider string) TokenSource {
	return &tenantTokenSource{refresher: refresher, userID: userID, tenantID: tenantID, provider: provider}
}

func (t *tenantTokenSource) AccessToken(ctx context.Context) (string, error) {
	return t.refresher.AccessToken(ctx, t.userID, t.tenantID, t.provider)
}
