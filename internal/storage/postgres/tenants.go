package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pierre-mcp/pierre/internal/storage"
)

const tenantColumns = `id, name, slug, owner_id, plan, created_at`

func scanTenant(row pgx.Row) (storage.Tenant, error) {
	var t storage.Tenant
	err := row.Scan(&t.ID, &t.Name, &t.Slug, &t.OwnerID, &t.Plan, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Tenant{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) CreateTenant(ctx context.Context, t storage.Tenant) (storage.Tenant, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO tenants (id, name, slug, owner_id, plan)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+tenantColumns,
		t.ID, t.Name, t.Slug, t.OwnerID, t.Plan,
	)
	created, err := scanTenant(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.Tenant{}, storage.ErrConflict
	}
	return created, err
}

func (s *Store) GetTenantByID(ctx context.Context, id uuid.UUID) (storage.Tenant, error) {
	return scanTenant(s.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE id = $1`, id))
}

func (s *Store) GetTenantBySlug(ctx context.Context, slug string) (storage.Tenant, error) {
	return scanTenant(s.pool.QueryRow(ctx, `SELECT `+tenantColumns+` FROM tenants WHERE slug = $1`, slug))
}

func (s *Store) DeleteTenant(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM tenants WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
