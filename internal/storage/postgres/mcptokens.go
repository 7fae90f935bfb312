package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pierre-mcp/pierre/internal/storage"
)

const mcpTokenColumns = `id, user_id, name, key_prefix, key_hash, active, usage_count, created_at, last_used_at`

func scanMCPToken(row pgx.Row) (storage.MCPToken, error) {
	var t storage.MCPToken
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &t.KeyPrefix, &t.KeyHash, &t.Active, &t.UsageCount, &t.CreatedAt, &t.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.MCPToken{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) CreateMCPToken(ctx context.Context, t storage.MCPToken) (storage.MCPToken, error) {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO mcp_tokens (id, user_id, name, key_prefix, key_hash, active, usage_count)
		VALUES ($1, $2, $3, $4, $5, $6, 0)
		RETURNING `+mcpTokenColumns,
		t.ID, t.UserID, t.Name, t.KeyPrefix, t.KeyHash, true,
	)
	return scanMCPToken(row)
}

func (s *Store) GetMCPTokenByPrefix(ctx context.Context, prefix string) (storage.MCPToken, error) {
	return scanMCPToken(s.pool.QueryRow(ctx, `SELECT `+mcpTokenColumns+` FROM mcp_tokens WHERE key_prefix = $1`, prefix))
}

func (s *Store) ListMCPTokensForUser(ctx context.Context, userID uuid.UUID) ([]storage.MCPToken, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+mcpTokenColumns+` FROM mcp_tokens WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []storage.MCPToken
	for rows.Next() {
		t, err := scanMCPToken(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *Store) RevokeMCPToken(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE mcp_tokens SET active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) TouchMCPTokenUsage(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE mcp_tokens SET last_used_at = now(), usage_count = usage_count + 1 WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
