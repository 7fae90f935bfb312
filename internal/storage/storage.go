package storage

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Provider is the capability every storage backend implements. Every method
// that touches tenant-owned data takes the owning tenant id and must filter
// by it — loading a row by primary key without a matching tenant id is a
// programming error, not a feature. The memory implementation rejects a
// mismatch with ErrUnauthorized; the postgres implementation looks rows up
// inside the given tenant's schema, so another tenant's row is ErrNotFound.
type Provider interface {
	UserStore
	TenantStore
	TenantOAuthStore
	UserOAuthTokenStore
	APIKeyStore
	AdminTokenStore
	MCPTokenStore
	RateLimitStore
	AuditStore
	CoachStore
	SocialStore
	GoalStore

	// Close releases any held connections.
	Close() error
}

// UserStore covers account lifecycle.
type UserStore interface {
	CreateUser(ctx context.Context, u User) (User, error)
	GetUserByID(ctx context.Context, id uuid.UUID) (User, error)
	GetUserByEmail(ctx context.Context, email string) (User, error)
	UpdateUserStatus(ctx context.Context, id uuid.UUID, status string) error
	SetUserTenant(ctx context.Context, userID, tenantID uuid.UUID) error
	ListPendingUsers(ctx context.Context) ([]User, error)
	AnyAdminExists(ctx context.Context) (bool, error)
	TouchUserLastActive(ctx context.Context, id uuid.UUID) error
}

// TenantStore covers tenant lifecycle.
type TenantStore interface {
	CreateTenant(ctx context.Context, t Tenant) (Tenant, error)
	GetTenantByID(ctx context.Context, id uuid.UUID) (Tenant, error)
	GetTenantBySlug(ctx context.Context, slug string) (Tenant, error)
	DeleteTenant(ctx context.Context, id uuid.UUID) error
}

// TenantOAuthStore covers per-tenant upstream OAuth client credentials.
// Credentials are keyed by (tenant id, provider), so a lookup under another
// tenant's id finds nothing and returns ErrNotFound.
type TenantOAuthStore interface {
	UpsertTenantOAuthCredentials(ctx context.Context, c TenantOAuthCredentials) error
	GetTenantOAuthCredentials(ctx context.Context, tenantID uuid.UUID, provider string) (TenantOAuthCredentials, error)
}

// UserOAuthTokenStore covers per-user upstream provider tokens, scoped to a
// tenant. Writes are expected to be upserts so concurrent refreshes
// converge on one final row rather than racing.
type UserOAuthTokenStore interface {
	UpsertUserOAuthToken(ctx context.Context, t UserOAuthToken) error
	GetUserOAuthToken(ctx context.Context, userID, tenantID uuid.UUID, provider string) (UserOAuthToken, error)
	DeleteUserOAuthToken(ctx context.Context, userID, tenantID uuid.UUID, provider string) error
	ListNearExpiryTokens(ctx context.Context, before time.Time) ([]UserOAuthToken, error)
}

// APIKeyStore covers user-issued API keys.
type APIKeyStore interface {
	CreateAPIKey(ctx context.Context, k APIKey) (APIKey, error)
	GetAPIKeyByPrefix(ctx context.Context, prefix string) (APIKey, error)
	ListAPIKeysForUser(ctx context.Context, userID uuid.UUID) ([]APIKey, error)
	RevokeAPIKey(ctx context.Context, id uuid.UUID) error
	TouchAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error
}

// AdminTokenStore covers service-scoped bearer credentials.
type AdminTokenStore interface {
	CreateAdminToken(ctx context.Context, t AdminToken) (AdminToken, error)
	GetAdminTokenByHash(ctx context.Context, hash string) (AdminToken, error)
	ListAdminTokens(ctx context.Context) ([]AdminToken, error)
	RevokeAdminToken(ctx context.Context, id uuid.UUID) error
	TouchAdminTokenLastUsed(ctx context.Context, id uuid.UUID) error
}

// MCPTokenStore covers long-lived per-user bearer tokens for AI clients.
type MCPTokenStore interface {
	CreateMCPToken(ctx context.Context, t MCPToken) (MCPToken, error)
	GetMCPTokenByPrefix(ctx context.Context, prefix string) (MCPToken, error)
	ListMCPTokensForUser(ctx context.Context, userID uuid.UUID) ([]MCPToken, error)
	RevokeMCPToken(ctx context.Context, id uuid.UUID) error
	TouchMCPTokenUsage(ctx context.Context, id uuid.UUID) error
}

// RateLimitStore covers token-bucket/window counters.
type RateLimitStore interface {
	IncrementRateLimit(ctx context.Context, subject, window string) (int64, error)
	GetRateLimit(ctx context.Context, subject, window string) (int64, error)
}

// AuditStore covers the append-only audit log.
type AuditStore interface {
	AppendAuditLog(ctx context.Context, e AuditLogEntry) error
	ListAuditLog(ctx context.Context, tenantID *uuid.UUID, limit int) ([]AuditLogEntry, error)
	TopToolUsage(ctx context.Context, tenantID uuid.UUID, since time.Time, limit int) ([]ToolUsageCount, error)
}

// CoachStore covers the Coach / CoachAssignment entities.
type CoachStore interface {
	CreateCoach(ctx context.Context, c Coach) (Coach, error)
	GetCoach(ctx context.Context, tenantID, id uuid.UUID) (Coach, error)
	ListCoaches(ctx context.Context, tenantID uuid.UUID) ([]Coach, error)
	UpdateCoach(ctx context.Context, c Coach) error
	DeleteCoach(ctx context.Context, tenantID, id uuid.UUID) error
	SetCoachAssignment(ctx context.Context, a CoachAssignment) error
	GetCoachAssignment(ctx context.Context, userID, coachID uuid.UUID) (CoachAssignment, error)
}

// SocialStore covers the narrow, read-only social surface: listing a
// user's friends' shared insights. Full social-graph mutation is out of
// scope.
type SocialStore interface {
	ListSharedInsightsForUser(ctx context.Context, userID uuid.UUID, limit int) ([]SharedInsight, error)
}

// GoalStore covers user-tracked fitness goals.
type GoalStore interface {
	CreateGoal(ctx context.Context, g Goal) (Goal, error)
	GetGoal(ctx context.Context, userID, id uuid.UUID) (Goal, error)
	ListGoalsForUser(ctx context.Context, userID uuid.UUID) ([]Goal, error)
	UpdateGoal(ctx context.Context, g Goal) error
}
