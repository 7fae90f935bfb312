// Package storage defines the persistence capability Pierre depends on and
// the domain types that cross that seam. internal/storage/memory and
// internal/storage/postgres are the two implementations; every other
// package depends only on the Provider interface in this package.
package storage

import (
	"time"

	"github.com/google/uuid"
)

// User tiers.
const (
	TierStarter      = "starter"
	TierProfessional = "professional"
	TierEnterprise   = "enterprise"
)

// User roles.
const (
	RoleUser       = "user"
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// User status values. Only {pending->active, active->suspended,
// suspended->active} transitions are valid.
const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// User is an account holder.
type User struct {
	ID             uuid.UUID
	Email          string
	PasswordHash   string
	DisplayName    string
	Tier           string
	TenantID       *uuid.UUID
	Role           string
	Status         string
	ApprovedBy     *uuid.UUID
	ApprovedAt     *time.Time
	CreatedAt      time.Time
	LastActiveAt   *time.Time
}

// Tenant is a multi-tenant organization owning OAuth credentials and
// members' data.
type Tenant struct {
	ID        uuid.UUID
	Name      string
	Slug      string
	OwnerID   uuid.UUID
	Plan      string
	CreatedAt time.Time
}

// TenantOAuthCredentials are a tenant's client credentials for one upstream
// provider. ClientSecret is stored encrypted; the plaintext never leaves
// the tenant OAuth manager.
type TenantOAuthCredentials struct {
	TenantID        uuid.UUID
	Provider        string
	ClientID        string
	ClientSecretEnc []byte
	RedirectURI     string
	Scopes          []string
	DailyQuota      int
	CreatedAt       time.Time
}

// UserOAuthToken is one user's upstream provider token within one tenant.
// AccessTokenEnc and RefreshTokenEnc are encrypted at rest.
type UserOAuthToken struct {
	UserID           uuid.UUID
	TenantID         uuid.UUID
	Provider         string
	AccessTokenEnc   []byte
	RefreshTokenEnc  []byte
	ExpiresAt        time.Time
	Scope            string
	UpdatedAt        time.Time
}

// APIKey is a user-issued long-lived credential for programmatic access.
type APIKey struct {
	ID             uuid.UUID
	UserID         uuid.UUID
	Name           string
	KeyPrefix      string
	KeyHash        string
	Tier           string
	RateLimitPer30d int // 0 = unlimited
	Active         bool
	CreatedAt      time.Time
	ExpiresAt      *time.Time
	LastUsedAt     *time.Time
}

// Admin token permissions.
const (
	PermProvisionKeys    = "provision_keys"
	PermListKeys         = "list_keys"
	PermRevokeKeys       = "revoke_keys"
	PermUpdateKeyLimits  = "update_key_limits"
	PermManageAdminTokens = "manage_admin_tokens"
	PermViewAuditLogs    = "view_audit_logs"
	PermManageUsers      = "manage_users"
)

// AdminToken is a service-scoped bearer credential, independent of user
// JWTs: an opaque high-entropy secret hashed the same way an APIKey is,
// looked up by TokenHash rather than verified against a signing key.
type AdminToken struct {
	ID            uuid.UUID
	ServiceName   string
	Description   string
	Permissions   []string
	IsSuperAdmin  bool
	Active        bool
	TokenHash     string
	CreatedAt     time.Time
	ExpiresAt     *time.Time
	LastUsedAt    *time.Time
}

// HasPermission reports whether the token grants perm, either directly or
// via the IsSuperAdmin catch-all.
func (t AdminToken) HasPermission(perm string) bool {
	if t.IsSuperAdmin {
		return true
	}
	for _, p := range t.Permissions {
		if p == perm {
			return true
		}
	}
	return false
}

// MCPToken is a per-user long-lived bearer credential for AI clients that
// can't hold a cookie session. Same prefix+hash shape as APIKey.
type MCPToken struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	Name       string
	KeyPrefix  string
	KeyHash    string
	Active     bool
	UsageCount int64
	CreatedAt  time.Time
	LastUsedAt *time.Time
}

// RateLimitCounter is one (subject, window) bucket.
type RateLimitCounter struct {
	Subject   string
	Window    string // e.g. "2026-07" for monthly, "2026-07-31" for daily
	Count     int64
	UpdatedAt time.Time
}

// AuditLogEntry is one append-only audit record. Entries are never deleted
// or mutated after insert.
type AuditLogEntry struct {
	ID         uuid.UUID
	TenantID   *uuid.UUID
	ActorID    *uuid.UUID
	Action     string
	Target     string
	Outcome    string
	Detail     []byte // redacted JSON payload
	IPAddress  string
	UserAgent  string
	CreatedAt  time.Time
}

// Coach is a named, tenant-visible AI persona configuration.
type Coach struct {
	ID                 uuid.UUID
	TenantID            uuid.UUID
	Name                string
	Description         string
	SystemPromptTemplate string
	AllowedTools        []string
	DefaultEnabled      bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}

// CoachAssignment is the per-user relationship to a Coach.
type CoachAssignment struct {
	UserID     uuid.UUID
	CoachID    uuid.UUID
	Favorited  bool
	Hidden     bool
	LastUsedAt *time.Time
	UseCount   int64
}

// SharedInsight is a read-only social artifact a user published for
// friends to see.
type SharedInsight struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Summary   string
	CreatedAt time.Time
}

// ToolUsageCount is one row of the tool-usage top-N analytics query.
type ToolUsageCount struct {
	ToolName string
	Count    int64
}

// Goal states, mirroring intelligence/goals.State.
const (
	GoalStateActive   = "active"
	GoalStateAchieved = "achieved"
	GoalStatePaused   = "paused"
	GoalStateFailed   = "failed"
)

// Goal is one user-tracked fitness target. Progress/feasibility math is pure
// and lives in internal/intelligence/goals; this row is just the target and
// its lifecycle state.
type Goal struct {
	ID              uuid.UUID
	UserID          uuid.UUID
	TenantID        uuid.UUID
	Kind            string
	Sport           string
	TargetValue     float64
	Unit            string
	SessionsPerWeek int
	StartDate       time.Time
	Deadline        time.Time
	State           string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}
