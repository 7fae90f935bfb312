package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pierre-mcp/pierre/internal/storage"
)

// Coaches live in each tenant's own schema: a coach persona is authored for
// one tenant's members and never visible across tenant lines.

const coachColumns = `id, tenant_id, name, description, system_prompt_template, allowed_tools, default_enabled, created_at, updated_at`

func scanCoach(row pgx.Row) (storage.Coach, error) {
	var c storage.Coach
	err := row.Scan(&c.ID, &c.TenantID, &c.Name, &c.Description, &c.SystemPromptTemplate, &c.AllowedTools, &c.DefaultEnabled, &c.CreatedAt, &c.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Coach{}, storage.ErrNotFound
	}
	return c, err
}

func (s *Store) CreateCoach(ctx context.Context, c storage.Coach) (storage.Coach, error) {
	slug, err := s.slugForTenant(ctx, c.TenantID)
	if err != nil {
		return storage.Coach{}, err
	}
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	var created storage.Coach
	err = s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `
			INSERT INTO coaches (id, tenant_id, name, description, system_prompt_template, allowed_tools, default_enabled)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+coachColumns,
			c.ID, c.TenantID, c.Name, c.Description, c.SystemPromptTemplate, c.AllowedTools, c.DefaultEnabled,
		)
		var scanErr error
		created, scanErr = scanCoach(row)
		return scanErr
	})
	return created, err
}

func (s *Store) GetCoach(ctx context.Context, tenantID, id uuid.UUID) (storage.Coach, error) {
	slug, err := s.slugForTenant(ctx, tenantID)
	if err != nil {
		return storage.Coach{}, err
	}
	var c storage.Coach
	err = s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		row := conn.QueryRow(ctx, `SELECT `+coachColumns+` FROM coaches WHERE id = $1`, id)
		var scanErr error
		c, scanErr = scanCoach(row)
		return scanErr
	})
	return c, err
}

func (s *Store) ListCoaches(ctx context.Context, tenantID uuid.UUID) ([]storage.Coach, error) {
	slug, err := s.slugForTenant(ctx, tenantID)
	if err != nil {
		return nil, err
	}
	var out []storage.Coach
	err = s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		rows, err := conn.Query(ctx, `SELECT `+coachColumns+` FROM coaches ORDER BY created_at ASC`)
		if err != nil {
			return err
		}
		defer rows.Close()
		for rows.Next() {
			c, err := scanCoach(rows)
			if err != nil {
				return err
			}
			out = append(out, c)
		}
		return rows.Err()
	})
	return out, err
}

func (s *Store) UpdateCoach(ctx context.Context, c storage.Coach) error {
	slug, err := s.slugForTenant(ctx, c.TenantID)
	if err != nil {
		return err
	}
	return s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `
			UPDATE coaches SET name = $2, description = $3, system_prompt_template = $4, allowed_tools = $5, default_enabled = $6, updated_at = now()
			WHERE id = $1`,
			c.ID, c.Name, c.Description, c.SystemPromptTemplate, c.AllowedTools, c.DefaultEnabled,
		)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

func (s *Store) DeleteCoach(ctx context.Context, tenantID, id uuid.UUID) error {
	slug, err := s.slugForTenant(ctx, tenantID)
	if err != nil {
		return err
	}
	return s.withTenantSchema(ctx, slug, func(conn *pgxpool.Conn) error {
		tag, err := conn.Exec(ctx, `DELETE FROM coaches WHERE id = $1`, id)
		if err != nil {
			return err
		}
		if tag.RowsAffected() == 0 {
			return storage.ErrNotFound
		}
		return nil
	})
}

// Coach assignments are keyed by (user, coach) and live in the public
// coach_assignments table, not in the tenant schema. The user's tenant
// membership is resolved by the caller (internal/protocol/rest) before
// reaching this store.

func (s *Store) SetCoachAssignment(ctx context.Context, a storage.CoachAssignment) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO coach_assignments (user_id, coach_id, favorited, hidden, last_used_at, use_count)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (user_id, coach_id) DO UPDATE SET
			favorited = EXCLUDED.favorited,
			hidden = EXCLUDED.hidden,
			last_used_at = EXCLUDED.last_used_at,
			use_count = EXCLUDED.use_count`,
		a.UserID, a.CoachID, a.Favorited, a.Hidden, a.LastUsedAt, a.UseCount,
	)
	return err
}

func (s *Store) GetCoachAssignment(ctx context.Context, userID, coachID uuid.UUID) (storage.CoachAssignment, error) {
	var a storage.CoachAssignment
	err := s.pool.QueryRow(ctx, `
		SELECT user_id, coach_id, favorited, hidden, last_used_at, use_count
		FROM coach_assignments WHERE user_id = $1 AND coach_id = $2`, userID, coachID,
	).Scan(&a.UserID, &a.CoachID, &a.Favorited, &a.Hidden, &a.LastUsedAt, &a.UseCount)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.CoachAssignment{}, storage.ErrNotFound
	}
	return a, err
}
