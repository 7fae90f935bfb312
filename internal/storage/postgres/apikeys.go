package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pierre-mcp/pierre/internal/storage"
)

const apiKeyColumns = `id, user_id, name, key_prefix, key_hash, tier, rate_limit_per_30d, active, created_at, expires_at, last_used_at`

func scanAPIKey(row pgx.Row) (storage.APIKey, error) {
	var k storage.APIKey
	err := row.Scan(&k.ID, &k.UserID, &k.Name, &k.KeyPrefix, &k.KeyHash, &k.Tier, &k.RateLimitPer30d, &k.Active, &k.CreatedAt, &k.ExpiresAt, &k.LastUsedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.APIKey{}, storage.ErrNotFound
	}
	return k, err
}

func (s *Store) CreateAPIKey(ctx context.Context, k storage.APIKey) (storage.APIKey, error) {
	if k.ID == uuid.Nil {
		k.ID = uuid.New()
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO api_keys (id, user_id, name, key_prefix, key_hash, tier, rate_limit_per_30d, active, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+apiKeyColumns,
		k.ID, k.UserID, k.Name, k.KeyPrefix, k.KeyHash, k.Tier, k.RateLimitPer30d, true, k.ExpiresAt,
	)
	created, err := scanAPIKey(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.APIKey{}, storage.ErrConflict
	}
	return created, err
}

func (s *Store) GetAPIKeyByPrefix(ctx context.Context, prefix string) (storage.APIKey, error) {
	return scanAPIKey(s.pool.QueryRow(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE key_prefix = $1`, prefix))
}

func (s *Store) ListAPIKeysForUser(ctx context.Context, userID uuid.UUID) ([]storage.APIKey, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+apiKeyColumns+` FROM api_keys WHERE user_id = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []storage.APIKey
	for rows.Next() {
		k, err := scanAPIKey(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}

func (s *Store) RevokeAPIKey(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE api_keys SET active = false WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) TouchAPIKeyLastUsed(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE api_keys SET last_used_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
