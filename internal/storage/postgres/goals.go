package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pierre-mcp/pierre/internal/storage"
)

// Goals live in the public schema, not a tenant schema: a goal belongs to
// one user's account and is read back by user id regardless of which
// tenant's providers fed the activity data behind it.

const goalColumns = `id, user_id, tenant_id, kind, sport, target_value, unit, sessions_per_week, start_date, deadline, state, created_at, updated_at`

func scanGoal(row pgx.Row) (storage.Goal, error) {
	var g storage.Goal
	err := row.Scan(&g.ID, &g.UserID, &g.TenantID, &g.Kind, &g.Sport, &g.TargetValue, &g.Unit, &g.SessionsPerWeek, &g.StartDate, &g.Deadline, &g.State, &g.CreatedAt, &g.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.Goal{}, storage.ErrNotFound
	}
	return g, err
}

func (s *Store) CreateGoal(ctx context.Context, g storage.Goal) (storage.Goal, error) {
	if g.ID == uuid.Nil {
		g.ID = uuid.New()
	}
	if g.State == "" {
		g.State = storage.GoalStateActive
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO goals (id, user_id, tenant_id, kind, sport, target_value, unit, sessions_per_week, start_date, deadline, state)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING `+goalColumns,
		g.ID, g.UserID, g.TenantID, g.Kind, g.Sport, g.TargetValue, g.Unit, g.SessionsPerWeek, g.StartDate, g.Deadline, g.State,
	)
	return scanGoal(row)
}

func (s *Store) GetGoal(ctx context.Context, userID, id uuid.UUID) (storage.Goal, error) {
	row := s.pool.QueryRow(ctx, `SELECT `+goalColumns+` FROM goals WHERE id = $1 AND user_id = $2`, id, userID)
	return scanGoal(row)
}

func (s *Store) ListGoalsForUser(ctx context.Context, userID uuid.UUID) ([]storage.Goal, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+goalColumns+` FROM goals WHERE user_id = $1 ORDER BY created_at ASC`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.Goal
	for rows.Next() {
		g, err := scanGoal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

func (s *Store) UpdateGoal(ctx context.Context, g storage.Goal) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE goals SET kind = $3, sport = $4, target_value = $5, unit = $6, sessions_per_week = $7,
			start_date = $8, deadline = $9, state = $10, updated_at = now()
		WHERE id = $1 AND user_id = $2`,
		g.ID, g.UserID, g.Kind, g.Sport, g.TargetValue, g.Unit, g.SessionsPerWeek, g.StartDate, g.Deadline, g.State,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
