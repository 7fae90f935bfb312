// Package admin provides the library entry points operator tooling needs —
// first-run bootstrap, pending-user approval, and admin-token lifecycle —
// independent of any particular CLI or HTTP route.
package admin

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/crypto"
	"github.com/pierre-mcp/pierre/internal/storage"
)

// Service wraps storage.Provider with operator operations.
type Service struct {
	store storage.Provider
}

// NewService creates an admin Service.
func NewService(store storage.Provider) *Service {
	return &Service{store: store}
}

// Bootstrap creates the first superadmin user if, and only if, no admin
// exists yet. It is idempotent: calling it again once an admin exists
// returns ErrAlreadyBootstrapped rather than creating a second one.
func (s *Service) Bootstrap(ctx context.Context, email, password string) (storage.User, error) {
	exists, err := s.store.AnyAdminExists(ctx)
	if err != nil {
		return storage.User{}, fmt.Errorf("checking for existing admin: %w", err)
	}
	if exists {
		return storage.User{}, ErrAlreadyBootstrapped
	}

	hash, err := crypto.HashPassword(password)
	if err != nil {
		return storage.User{}, fmt.Errorf("hashing bootstrap password: %w", err)
	}

	return s.store.CreateUser(ctx, storage.User{
		Email:        email,
		PasswordHash: hash,
		Role:         storage.RoleSuperadmin,
		Status:       storage.StatusActive,
		Tier:         storage.TierEnterprise,
	})
}

// ListPendingUsers returns every user awaiting approval.
func (s *Service) ListPendingUsers(ctx context.Context) ([]storage.User, error) {
	return s.store.ListPendingUsers(ctx)
}

// ApproveUser activates a pending user. If tenantSlug is non-empty and no
// tenant with that slug exists yet, one is provisioned and the user
// assigned to it; if the tenant already exists the user simply joins it.
func (s *Service) ApproveUser(ctx context.Context, userID uuid.UUID, tenantSlug, tenantName string) (storage.User, error) {
	u, err := s.store.GetUserByID(ctx, userID)
	if err != nil {
		return storage.User{}, fmt.Errorf("looking up user: %w", err)
	}
	if u.Status != storage.StatusPending {
		return storage.User{}, fmt.Errorf("user %s is not pending approval (status %q)", userID, u.Status)
	}

	if tenantSlug != "" {
		tenant, err := s.store.GetTenantBySlug(ctx, tenantSlug)
		if err != nil {
			tenant, err = s.store.CreateTenant(ctx, storage.Tenant{Name: tenantName, Slug: tenantSlug, Plan: storage.TierProfessional})
			if err != nil {
				return storage.User{}, fmt.Errorf("provisioning tenant %s: %w", tenantSlug, err)
			}
		}
		if err := s.store.SetUserTenant(ctx, userID, tenant.ID); err != nil {
			return storage.User{}, fmt.Errorf("assigning user to tenant: %w", err)
		}
	}

	if err := s.store.UpdateUserStatus(ctx, userID, storage.StatusActive); err != nil {
		return storage.User{}, fmt.Errorf("activating user: %w", err)
	}

	return s.store.GetUserByID(ctx, userID)
}

// SuspendUser deactivates a user, revoking their ability to authenticate.
func (s *Service) SuspendUser(ctx context.Context, userID uuid.UUID) error {
	return s.store.UpdateUserStatus(ctx, userID, storage.StatusSuspended)
}

// CreateAdminToken issues a new opaque service-to-service bearer token. The
// raw token is returned once and never again; only its hash is persisted.
func (s *Service) CreateAdminToken(ctx context.Context, serviceName, description string, permissions []string, isSuperAdmin bool, ttl time.Duration) (rawToken string, token storage.AdminToken, err error) {
	rawToken, err = crypto.GenerateSecret(32)
	if err != nil {
		return "", storage.AdminToken{}, fmt.Errorf("generating admin token: %w", err)
	}

	var expiresAt *time.Time
	if ttl > 0 {
		t := time.Now().Add(ttl)
		expiresAt = &t
	}

	token, err = s.store.CreateAdminToken(ctx, storage.AdminToken{
		ServiceName:  serviceName,
		Description:  description,
		Permissions:  permissions,
		IsSuperAdmin: isSuperAdmin,
		Active:       true,
		TokenHash:    crypto.HashAPIKey(rawToken),
		ExpiresAt:    expiresAt,
	})
	if err != nil {
		return "", storage.AdminToken{}, fmt.Errorf("persisting admin token: %w", err)
	}

	return rawToken, token, nil
}

// ListAdminTokens returns every admin token (hashes only — never the raw
// secret, which is never stored).
func (s *Service) ListAdminTokens(ctx context.Context) ([]storage.AdminToken, error) {
	return s.store.ListAdminTokens(ctx)
}

// RevokeAdminToken permanently disables a token.
func (s *Service) RevokeAdminToken(ctx context.Context, id uuid.UUID) error {
	return s.store.RevokeAdminToken(ctx, id)
}

// RotateAdminToken revokes id and issues a fresh token with the same
// service name, description, permissions, and superadmin flag.
func (s *Service) RotateAdminToken(ctx context.Context, id uuid.UUID, ttl time.Duration) (rawToken string, token storage.AdminToken, err error) {
	tokens, err := s.store.ListAdminTokens(ctx)
	if err != nil {
		return "", storage.AdminToken{}, fmt.Errorf("listing admin tokens: %w", err)
	}

	var existing *storage.AdminToken
	for i := range tokens {
		if tokens[i].ID == id {
			existing = &tokens[i]
			break
		}
	}
	if existing == nil {
		return "", storage.AdminToken{}, fmt.Errorf("admin token %s not found", id)
	}

	if err := s.store.RevokeAdminToken(ctx, id); err != nil {
		return "", storage.AdminToken{}, fmt.Errorf("revoking old admin token: %w", err)
	}

	return s.CreateAdminToken(ctx, existing.ServiceName, existing.Description, existing.Permissions, existing.IsSuperAdmin, ttl)
}
