package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/pierre-mcp/pierre/internal/storage"
)

const userColumns = `id, email, password_hash, display_name, tier, tenant_id, role, status, approved_by, approved_at, created_at, last_active_at`

func scanUser(row pgx.Row) (storage.User, error) {
	var u storage.User
	err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.DisplayName, &u.Tier, &u.TenantID, &u.Role, &u.Status, &u.ApprovedBy, &u.ApprovedAt, &u.CreatedAt, &u.LastActiveAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return storage.User{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.User{}, err
	}
	return u, nil
}

func (s *Store) CreateUser(ctx context.Context, u storage.User) (storage.User, error) {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	if u.Tier == "" {
		u.Tier = storage.TierStarter
	}
	if u.Role == "" {
		u.Role = storage.RoleUser
	}
	if u.Status == "" {
		u.Status = storage.StatusPending
	}
	row := s.pool.QueryRow(ctx, `
		INSERT INTO users (id, email, password_hash, display_name, tier, tenant_id, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+userColumns,
		u.ID, u.Email, u.PasswordHash, u.DisplayName, u.Tier, u.TenantID, u.Role, u.Status,
	)
	created, err := scanUser(row)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return storage.User{}, storage.ErrConflict
	}
	return created, err
}

func (s *Store) GetUserByID(ctx context.Context, id uuid.UUID) (storage.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id))
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (storage.User, error) {
	return scanUser(s.pool.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, email))
}

func (s *Store) UpdateUserStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) SetUserTenant(ctx context.Context, userID, tenantID uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET tenant_id = $2 WHERE id = $1`, userID, tenantID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func (s *Store) ListPendingUsers(ctx context.Context) ([]storage.User, error) {
	rows, err := s.pool.Query(ctx, `SELECT `+userColumns+` FROM users WHERE status = $1 ORDER BY created_at ASC`, storage.StatusPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (s *Store) AnyAdminExists(ctx context.Context) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM users WHERE role IN ($1, $2))`,
		storage.RoleAdmin, storage.RoleSuperadmin,
	).Scan(&exists)
	return exists, err
}

func (s *Store) TouchUserLastActive(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `UPDATE users SET last_active_at = $2 WHERE id = $1`, id, time.Now().UTC())
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}
