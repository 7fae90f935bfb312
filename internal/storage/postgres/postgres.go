// Package postgres is the pgx-backed storage.Provider. Tenant-owned tables
// (OAuth credentials, upstream tokens, coaches) live in a dedicated
// "tenant_<slug>" schema per tenant; account-level tables (users, tenants,
// api keys, admin tokens, audit log) live in the public schema. Isolation is
// enforced by setting search_path on the connection used for a tenant-scoped
// call, grounded on the same SET search_path pattern the rest of this
// codebase's lineage uses for personal access token lookups.
package postgres

import (
	"context"
	"fmt"
	"regexp"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pierre-mcp/pierre/internal/storage"
)

var _ storage.Provider = (*Store)(nil)

// slugPattern restricts tenant slugs to safe schema-name identifiers.
var slugPattern = regexp.MustCompile(`^[a-z][a-z0-9_]{1,62}$`)

// Store is the pgx-backed storage.Provider.
type Store struct {
	pool *pgxpool.Pool
}

// New wraps an already-connected pool.
func New(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Connect opens a pool against databaseURL and verifies connectivity.
func Connect(ctx context.Context, databaseURL string) (*Store, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pinging postgres: %w", err)
	}
	return &Store{pool: pool}, nil
}

func (s *Store) Close() error {
	s.pool.Close()
	return nil
}

// Pool exposes the underlying connection pool for health checks.
func (s *Store) Pool() *pgxpool.Pool {
	return s.pool
}

func schemaName(slug string) string {
	return "tenant_" + slug
}

// withTenantSchema acquires a connection, sets search_path to the tenant's
// schema plus public, and runs fn against it. The connection is released
// before returning.
func (s *Store) withTenantSchema(ctx context.Context, slug string, fn func(conn *pgxpool.Conn) error) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("invalid tenant slug %q", slug)
	}
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	schema := schemaName(slug)
	if _, err := conn.Exec(ctx, fmt.Sprintf("SET search_path TO %s, public", schema)); err != nil {
		return fmt.Errorf("setting search_path to %s: %w", schema, err)
	}
	return fn(conn)
}

// slugForTenant resolves a tenant id to its slug via the public schema.
func (s *Store) slugForTenant(ctx context.Context, tenantID uuid.UUID) (string, error) {
	var slug string
	err := s.pool.QueryRow(ctx, "SELECT slug FROM tenants WHERE id = $1", tenantID).Scan(&slug)
	if err != nil {
		return "", storage.ErrNotFound
	}
	return slug, nil
}

// Provision creates the tenant schema and runs its migrations. Called by
// internal/admin when a new tenant is created.
func (s *Store) Provision(ctx context.Context, slug, migrationsDir, databaseURL string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("invalid tenant slug %q", slug)
	}
	schema := schemaName(slug)
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("CREATE SCHEMA IF NOT EXISTS %s", schema)); err != nil {
		return fmt.Errorf("creating schema %s: %w", schema, err)
	}
	tenantURL, err := withSearchPath(databaseURL, schema)
	if err != nil {
		return err
	}
	if err := runTenantMigrations(tenantURL, migrationsDir); err != nil {
		_, _ = s.pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema))
		return fmt.Errorf("running tenant migrations: %w", err)
	}
	return nil
}

// Deprovision drops a tenant's schema entirely. Irreversible.
func (s *Store) Deprovision(ctx context.Context, slug string) error {
	if !slugPattern.MatchString(slug) {
		return fmt.Errorf("invalid tenant slug %q", slug)
	}
	schema := schemaName(slug)
	if _, err := s.pool.Exec(ctx, fmt.Sprintf("DROP SCHEMA IF EXISTS %s CASCADE", schema)); err != nil {
		return fmt.Errorf("dropping schema %s: %w", schema, err)
	}
	return nil
}
