// Package memory is an in-memory storage.Provider used by tests, the demo
// mode, and anywhere a real Postgres connection isn't available. It never
// reaches for a mocking library — every test exercises this as a real,
// if ephemeral, implementation of the same interface production code uses.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/storage"
)

// Store is a fully in-memory storage.Provider.
type Store struct {
	mu sync.RWMutex

	users            map[uuid.UUID]storage.User
	usersByEmail     map[string]uuid.UUID
	tenants          map[uuid.UUID]storage.Tenant
	tenantsBySlug    map[string]uuid.UUID
	tenantOAuth      map[string]storage.TenantOAuthCredentials // key: tenantID|provider
	userOAuthTokens  map[string]storage.UserOAuthToken         // key: userID|tenantID|provider
	apiKeys          map[uuid.UUID]storage.APIKey
	apiKeysByPrefix  map[string]uuid.UUID
	adminTokens      map[uuid.UUID]storage.AdminToken
	adminTokensByHash map[string]uuid.UUID
	mcpTokens        map[uuid.UUID]storage.MCPToken
	mcpTokensByPrefix map[string]uuid.UUID
	rateLimits       map[string]int64 // key: subject|window
	auditLog         []storage.AuditLogEntry
	coaches          map[uuid.UUID]storage.Coach
	coachAssignments map[string]storage.CoachAssignment // key: userID|coachID
	sharedInsights   map[uuid.UUID][]storage.SharedInsight
	goals            map[uuid.UUID]storage.Goal
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users:             make(map[uuid.UUID]storage.User),
		usersByEmail:      make(map[string]uuid.UUID),
		tenants:           make(map[uuid.UUID]storage.Tenant),
		tenantsBySlug:     make(map[string]uuid.UUID),
		tenantOAuth:       make(map[string]storage.TenantOAuthCredentials),
		userOAuthTokens:   make(map[string]storage.UserOAuthToken),
		apiKeys:           make(map[uuid.UUID]storage.APIKey),
		apiKeysByPrefix:   make(map[string]uuid.UUID),
		adminTokens:       make(map[uuid.UUID]storage.AdminToken),
		adminTokensByHash: make(map[string]uuid.UUID),
		mcpTokens:         make(map[uuid.UUID]storage.MCPToken),
		mcpTokensByPrefix: make(map[string]uuid.UUID),
		rateLimits:        make(map[string]int64),
		coaches:           make(map[uuid.UUID]storage.Coach),
		coachAssignments:  make(map[string]storage.CoachAssignment),
		sharedInsights:    make(map[uuid.UUID][]storage.SharedInsight),
		goals:             make(map[uuid.UUID]storage.Goal),
	}
}

func (s *Store) Close() error { return nil }

func oauthKey(parts ...string) string {
	key := parts[0]
	for _, p := range parts[1:] {
		key += "|" + p
	}
	return key
}

// --- users ---

func (s *Store) CreateUser(_ context.Context, u storage.User) (storage.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.usersByEmail[u.Email]; exists {
		return storage.User{}, storage.ErrConflict
	}
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	s.users[u.ID] = u
	s.usersByEmail[u.Email] = u.ID
	return u, nil
}

func (s *Store) GetUserByID(_ context.Context, id uuid.UUID) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return u, nil
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usersByEmail[email]
	if !ok {
		return storage.User{}, storage.ErrNotFound
	}
	return s.users[id], nil
}

func (s *Store) UpdateUserStatus(_ context.Context, id uuid.UUID, status string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	u.Status = status
	s.users[id] = u
	return nil
}

func (s *Store) SetUserTenant(_ context.Context, userID, tenantID uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[userID]
	if !ok {
		return storage.ErrNotFound
	}
	u.TenantID = &tenantID
	s.users[userID] = u
	return nil
}

func (s *Store) ListPendingUsers(_ context.Context) ([]storage.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.User
	for _, u := range s.users {
		if u.Status == storage.StatusPending {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) AnyAdminExists(_ context.Context) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Role == storage.RoleAdmin || u.Role == storage.RoleSuperadmin {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) TouchUserLastActive(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now().UTC()
	u.LastActiveAt = &now
	s.users[id] = u
	return nil
}

// --- tenants ---

func (s *Store) CreateTenant(_ context.Context, t storage.Tenant) (storage.Tenant, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.tenantsBySlug[t.Slug]; exists {
		return storage.Tenant{}, storage.ErrConflict
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.tenants[t.ID] = t
	s.tenantsBySlug[t.Slug] = t.ID
	return t, nil
}

func (s *Store) GetTenantByID(_ context.Context, id uuid.UUID) (storage.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tenants[id]
	if !ok {
		return storage.Tenant{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) GetTenantBySlug(_ context.Context, slug string) (storage.Tenant, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.tenantsBySlug[slug]
	if !ok {
		return storage.Tenant{}, storage.ErrNotFound
	}
	return s.tenants[id], nil
}

func (s *Store) DeleteTenant(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.tenants[id]
	if !ok {
		return storage.ErrNotFound
	}
	delete(s.tenants, id)
	delete(s.tenantsBySlug, t.Slug)
	for k, c := range s.tenantOAuth {
		if c.TenantID == id {
			delete(s.tenantOAuth, k)
		}
	}
	return nil
}

// --- tenant OAuth credentials ---

func (s *Store) UpsertTenantOAuthCredentials(_ context.Context, c storage.TenantOAuthCredentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
	}
	s.tenantOAuth[oauthKey(c.TenantID.String(), c.Provider)] = c
	return nil
}

func (s *Store) GetTenantOAuthCredentials(_ context.Context, tenantID uuid.UUID, provider string) (storage.TenantOAuthCredentials, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.tenantOAuth[oauthKey(tenantID.String(), provider)]
	if !ok {
		return storage.TenantOAuthCredentials{}, storage.ErrNotFound
	}
	return c, nil
}

// --- user OAuth tokens ---

func (s *Store) UpsertUserOAuthToken(_ context.Context, t storage.UserOAuthToken) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.UpdatedAt = time.Now().UTC()
	s.userOAuthTokens[oauthKey(t.UserID.String(), t.TenantID.String(), t.Provider)] = t
	return nil
}

func (s *Store) GetUserOAuthToken(_ context.Context, userID, tenantID uuid.UUID, provider string) (storage.UserOAuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.userOAuthTokens[oauthKey(userID.String(), tenantID.String(), provider)]
	if !ok {
		return storage.UserOAuthToken{}, storage.ErrNotFound
	}
	return t, nil
}

func (s *Store) DeleteUserOAuthToken(_ context.Context, userID, tenantID uuid.UUID, provider string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := oauthKey(userID.String(), tenantID.String(), provider)
	if _, ok := s.userOAuthTokens[key]; !ok {
		return storage.ErrNotFound
	}
	delete(s.userOAuthTokens, key)
	return nil
}

func (s *Store) ListNearExpiryTokens(_ context.Context, before time.Time) ([]storage.UserOAuthToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.UserOAuthToken
	for _, t := range s.userOAuthTokens {
		if t.ExpiresAt.Before(before) {
			out = append(out, t)
		}
	}
	return out, nil
}

// --- API keys ---

func (s *Store) CreateAPIKey(_ context.Context, k storage.APIKey) (storage.APIKey, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.apiKeysByPrefix[k.KeyPrefix]; exists {
		return storage.APIKey{}, storage.ErrConflict
	}
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	if k.CreatedAt.IsZero() {
		k.CreatedAt = time.Now().UTC()
	}
	s.apiKeys[k.ID] = k
	s.apiKeysByPrefix[k.KeyPrefix] = k.ID
	return k, nil
}

func (s *Store) GetAPIKeyByPrefix(_ context.Context, prefix string) (storage.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.apiKeysByPrefix[prefix]
	if !ok {
		return storage.APIKey{}, storage.ErrNotFound
	}
	return s.apiKeys[id], nil
}

func (s *Store) ListAPIKeysForUser(_ context.Context, userID uuid.UUID) ([]storage.APIKey, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.APIKey
	for _, k := range s.apiKeys {
		if k.UserID == userID {
			out = append(out, k)
		}
	}
	return out, nil
}

func (s *Store) RevokeAPIKey(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.apiKeys[id]
	if !ok {
		return storage.ErrNotFound
	}
	k.Active = false
	s.apiKeys[id] = k
	return nil
}

func (s *Store) TouchAPIKeyLastUsed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k, ok := s.apiKeys[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now().UTC()
	k.LastUsedAt = &now
	s.apiKeys[id] = k
	return nil
}

// --- admin tokens ---

func (s *Store) CreateAdminToken(_ context.Context, t storage.AdminToken) (storage.AdminToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.adminTokens[t.ID] = t
	s.adminTokensByHash[t.TokenHash] = t.ID
	return t, nil
}

func (s *Store) GetAdminTokenByHash(_ context.Context, hash string) (storage.AdminToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.adminTokensByHash[hash]
	if !ok {
		return storage.AdminToken{}, storage.ErrNotFound
	}
	return s.adminTokens[id], nil
}

func (s *Store) ListAdminTokens(_ context.Context) ([]storage.AdminToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.AdminToken
	for _, t := range s.adminTokens {
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) RevokeAdminToken(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.adminTokens[id]
	if !ok {
		return storage.ErrNotFound
	}
	t.Active = false
	s.adminTokens[id] = t
	return nil
}

func (s *Store) TouchAdminTokenLastUsed(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.adminTokens[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now().UTC()
	t.LastUsedAt = &now
	s.adminTokens[id] = t
	return nil
}

// --- MCP tokens ---

func (s *Store) CreateMCPToken(_ context.Context, t storage.MCPToken) (storage.MCPToken, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.mcpTokensByPrefix[t.KeyPrefix]; exists {
		return storage.MCPToken{}, storage.ErrConflict
	}
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}
	s.mcpTokens[t.ID] = t
	s.mcpTokensByPrefix[t.KeyPrefix] = t.ID
	return t, nil
}

func (s *Store) GetMCPTokenByPrefix(_ context.Context, prefix string) (storage.MCPToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.mcpTokensByPrefix[prefix]
	if !ok {
		return storage.MCPToken{}, storage.ErrNotFound
	}
	return s.mcpTokens[id], nil
}

func (s *Store) ListMCPTokensForUser(_ context.Context, userID uuid.UUID) ([]storage.MCPToken, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.MCPToken
	for _, t := range s.mcpTokens {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *Store) RevokeMCPToken(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.mcpTokens[id]
	if !ok {
		return storage.ErrNotFound
	}
	t.Active = false
	s.mcpTokens[id] = t
	return nil
}

func (s *Store) TouchMCPTokenUsage(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t, ok := s.mcpTokens[id]
	if !ok {
		return storage.ErrNotFound
	}
	now := time.Now().UTC()
	t.LastUsedAt = &now
	t.UsageCount++
	s.mcpTokens[id] = t
	return nil
}

// --- rate limits ---

func (s *Store) IncrementRateLimit(_ context.Context, subject, window string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := oauthKey(subject, window)
	s.rateLimits[key]++
	return s.rateLimits[key], nil
}

func (s *Store) GetRateLimit(_ context.Context, subject, window string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rateLimits[oauthKey(subject, window)], nil
}

// --- audit log ---

func (s *Store) AppendAuditLog(_ context.Context, e storage.AuditLogEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	s.auditLog = append(s.auditLog, e)
	return nil
}

func (s *Store) ListAuditLog(_ context.Context, tenantID *uuid.UUID, limit int) ([]storage.AuditLogEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.AuditLogEntry
	for i := len(s.auditLog) - 1; i >= 0 && len(out) < limit; i-- {
		e := s.auditLog[i]
		if tenantID != nil {
			if e.TenantID == nil || *e.TenantID != *tenantID {
				continue
			}
		}
		out = append(out, e)
	}
	return out, nil
}

func (s *Store) TopToolUsage(_ context.Context, tenantID uuid.UUID, since time.Time, limit int) ([]storage.ToolUsageCount, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	counts := make(map[string]int64)
	for _, e := range s.auditLog {
		if e.TenantID == nil || *e.TenantID != tenantID {
			continue
		}
		if e.CreatedAt.Before(since) {
			continue
		}
		if e.Action == "tool_call" {
			counts[e.Target]++
		}
	}
	out := make([]storage.ToolUsageCount, 0, len(counts))
	for name, count := range counts {
		out = append(out, storage.ToolUsageCount{ToolName: name, Count: count})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// --- coaches ---

func (s *Store) CreateCoach(_ context.Context, c storage.Coach) (storage.Coach, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.CreatedAt.IsZero() {
		c.CreatedAt = time.Now().UTC()
		c.UpdatedAt = c.CreatedAt
	}
	s.coaches[c.ID] = c
	return c, nil
}

func (s *Store) GetCoach(_ context.Context, tenantID, id uuid.UUID) (storage.Coach, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.coaches[id]
	if !ok {
		return storage.Coach{}, storage.ErrNotFound
	}
	if c.TenantID != tenantID {
		return storage.Coach{}, storage.ErrUnauthorized
	}
	return c, nil
}

func (s *Store) ListCoaches(_ context.Context, tenantID uuid.UUID) ([]storage.Coach, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.Coach
	for _, c := range s.coaches {
		if c.TenantID == tenantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *Store) UpdateCoach(_ context.Context, c storage.Coach) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.coaches[c.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if existing.TenantID != c.TenantID {
		return storage.ErrUnauthorized
	}
	c.UpdatedAt = time.Now().UTC()
	s.coaches[c.ID] = c
	return nil
}

func (s *Store) DeleteCoach(_ context.Context, tenantID, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.coaches[id]
	if !ok {
		return storage.ErrNotFound
	}
	if c.TenantID != tenantID {
		return storage.ErrUnauthorized
	}
	delete(s.coaches, id)
	return nil
}

func (s *Store) SetCoachAssignment(_ context.Context, a storage.CoachAssignment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.coachAssignments[oauthKey(a.UserID.String(), a.CoachID.String())] = a
	return nil
}

func (s *Store) GetCoachAssignment(_ context.Context, userID, coachID uuid.UUID) (storage.CoachAssignment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.coachAssignments[oauthKey(userID.String(), coachID.String())]
	if !ok {
		return storage.CoachAssignment{}, storage.ErrNotFound
	}
	return a, nil
}

// --- social ---

func (s *Store) ListSharedInsightsForUser(_ context.Context, userID uuid.UUID, limit int) ([]storage.SharedInsight, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	insights := s.sharedInsights[userID]
	if len(insights) > limit {
		insights = insights[:limit]
	}
	return insights, nil
}

// --- goals ---

func (s *Store) CreateGoal(_ context.Context, g storage.Goal) (storage.Goal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now().UTC()
	}
	g.UpdatedAt = g.CreatedAt
	s.goals[g.ID] = g
	return g, nil
}

func (s *Store) GetGoal(_ context.Context, userID, id uuid.UUID) (storage.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.goals[id]
	if !ok {
		return storage.Goal{}, storage.ErrNotFound
	}
	if g.UserID != userID {
		return storage.Goal{}, storage.ErrUnauthorized
	}
	return g, nil
}

func (s *Store) ListGoalsForUser(_ context.Context, userID uuid.UUID) ([]storage.Goal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []storage.Goal
	for _, g := range s.goals {
		if g.UserID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (s *Store) UpdateGoal(_ context.Context, g storage.Goal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.goals[g.ID]
	if !ok {
		return storage.ErrNotFound
	}
	if existing.UserID != g.UserID {
		return storage.ErrUnauthorized
	}
	g.CreatedAt = existing.CreatedAt
	g.UpdatedAt = time.Now().UTC()
	s.goals[g.ID] = g
	return nil
}
