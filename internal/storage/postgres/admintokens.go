package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pierre-mcp/pierre/internal/storage"
)

const adminTokenColumns = `id, service_name, description, permissions, is_superadmin, active, token_hash, created_at, expires_at, last_used_at`

func scanAdminToken(row pgx.Row) (storage.AdminToken, error) {
	var t storage.AdminToken
	err := row.Scan(&t.ID, &t.ServiceName, &t.Description, &t.Permissions, &t.IsSuperAdmin, &t.Active, &t.TokenHash, &t.CreatedAt, &t.ExpiresAt, &t.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.AdminToken{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) CreateAdminToken(ctx context.Context, t storage.AdminToken) (storage.AdminToken, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO admin_tokens (id, service_name, description, permissions, is_superadmin, active, token_hash, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+adminTokenColumns,
		t.ID, t.ServiceName, t.Description, t.Permissions, t.IsSuperAdmin, true, t.TokenHash, t.ExpiresAt,
	)
	return scanAdminToken(row)
}

func (s *Store) GetAdminTokenByHash(ctx context.Context, hash string) (storage.AdminToken, error) {
	return scanAdminToken(s.pool.QueryRow(ctx, `SELECT `+adminTokenColumns+` FROM admin_tokens WHERE token_hash = $1`, hash))
}

func (s *Store) ListAdminTokens(ctx context.Context) ([]storage.AdminToken, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+adminTokenColumns+` FROM admin_tokens ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []storage.AdminToken
	for rows.Next() {
		t, err := scanAdminToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) RevokeAdminToken(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE admin_tokens SET active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) TouchAdminTokenLastUsed(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE admin_tokens SET last_used_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
