package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pierre-mcp/pierre/internal/storage"
)

// Tenant OAuth client credentials and per-user upstream tokens live in the
// tenant's own schema so a leaked cross-tenant query can't reach them even
// by accident — the search_path is scoped before either table is touched.

func (s *Store) UpsertTenantOAuthCredentials(ctx context.Context, c storage.TenantOAuthCredentials) error {
	slug, err := s.slugForTenant(ctx, c.TenantID)
	if err != nil {
		return err
	}
	return s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO tenant_oauth_credentials (tenant_id, provider, client_id, client_secret_enc, redirect_uri, scopes, daily_quota)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (provider) DO UPDATE SET
				client_id = EXCLUDED.client_id,
				client_secret_enc = EXCLUDED.client_secret_enc,
				redirect_uri = EXCLUDED.redirect_uri,
				scopes = EXCLUDED.scopes,
				daily_quota = EXCLUDED.daily_quota`,
			c.TenantID, c.Provider, c.ClientID, c.ClientSecretEnc, c.RedirectURI, c.Scopes, c.DailyQuota,
		)
		return err
	})
}

func (s *Store) GetTenantOAuthCredentials(ctx context.Context, tenantID uuid.UUID, provider string) (storage.TenantOAuthCredentials, error) {
	slug, err := s.slugForTenant(ctx, tenantID)
	if err != nil {
		return storage.TenantOAuthCredentials{}, err
	}
	var c storage.TenantOAuthCredentials
	err = s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT tenant_id, provider, client_id, client_secret_enc, redirect_uri, scopes, daily_quota, created_at
			FROM tenant_oauth_credentials WHERE provider = $1`, provider)
		return row.Scan(&c.TenantID, &c.Provider, &c.ClientID, &c.ClientSecretEnc, &c.RedirectURI, &c.Scopes, &c.DailyQuota, &c.CreatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.TenantOAuthCredentials{}, storage.ErrNotFound
	}
	return c, err
}

func (s *Store) UpsertUserOAuthToken(ctx context.Context, t storage.UserOAuthToken) error {
	slug, err := s.slugForTenant(ctx, t.TenantID)
	if err != nil {
		return err
	}
	return s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		_, err := conn.Exec(ctx, `
			INSERT INTO user_oauth_tokens (user_id, tenant_id, provider, access_token_enc, refresh_token_enc, expires_at, scope, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, now())
			ON CONFLICT (user_id, provider) DO UPDATE SET
				access_token_enc = EXCLUDED.access_token_enc,
				refresh_token_enc = EXCLUDED.refresh_token_enc,
				expires_at = EXCLUDED.expires_at,
				scope = EXCLUDED.scope,
				updated_at = now()`,
			t.UserID, t.TenantID, t.Provider, t.AccessTokenEnc, t.RefreshTokenEnc, t.ExpiresAt, t.Scope,
		)
		return err
	})
}

func (s *Store) GetUserOAuthToken(ctx context.Context, userID, tenantID uuid.UUID, provider string) (storage.UserOAuthToken, error) {
	slug, err := s.slugForTenant(ctx, tenantID)
	if err != nil {
		return storage.UserOAuthToken{}, err
	}
	var t storage.UserOAuthToken
	err = s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			SELECT user_id, tenant_id, provider, access_token_enc, refresh_token_enc, expires_at, scope, updated_at
			FROM user_oauth_tokens WHERE user_id = $1 AND provider = $2`, userID, provider)
		return row.Scan(&t.UserID, &t.TenantID, &t.Provider, &t.AccessTokenEnc, &t.RefreshTokenEnc, &t.ExpiresAt, &t.Scope, &t.UpdatedAt)
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.UserOAuthToken{}, storage.ErrNotFound
	}
	return t, err
}

func (s *Store) DeleteUserOAuthToken(ctx context.Context, userID, tenantID uuid.UUID, provider string) error {
	slug, err := s.slugForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	var affected int64
	err = s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM user_oauth_tokens WHERE user_id = $1 AND provider = $2`, userID, provider)
		if err != nil {
			return err
		}
		affected = tag.RowsAffected()
		return nil
	})
	if err != nil {
		return err
	}
	if affected == 0 {
		return storage.ErrNotFound
	}
	return nil
}

// ListNearExpiryTokens scans across every tenant schema, since the OAuth
// refresh sweeper runs at the process level, not scoped to one tenant.
func (s *Store) ListNearExpiryTokens(ctx context.Context, before time.Time) ([]storage.UserOAuthToken, error) {
	rows, err := s.pool.Query(ctx, `SELECT slug FROM tenants`)
	if err != nil {
		return nil, err
	}
	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			rows.Close()
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	var out []storage.UserOAuthToken
	for _, slug := range slugs {
		err := s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
			rs, err := conn.Query(ctx, `
				SELECT user_id, tenant_id, provider, access_token_enc, refresh_token_enc, expires_at, scope, updated_at
				FROM user_oauth_tokens WHERE expires_at < $1`, before)
			if err != nil {
				return err
			}
			defer rs.Close()
			for rs.Next() {
				var t storage.UserOAuthToken
				if err := rs.Scan(&t.UserID, &t.TenantID, &t.Provider, &t.AccessTokenEnc, &t.RefreshTokenEnc, &t.ExpiresAt, &t.Scope, &t.UpdatedAt); err != nil {
					return err
				}
				out = append(out, t)
			}
			return rs.Err()
		})
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
