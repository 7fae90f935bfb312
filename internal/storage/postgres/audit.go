package postgres

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/storage"
)

func (s *Store) AppendAuditLog(ctx context.Context, e storage.AuditLogEntry) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO audit_log (id, tenant_id, actor_id, action, target, outcome, detail, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		e.ID, e.TenantID, e.ActorID, e.Action, e.Target, e.Outcome, e.Detail, e.IPAddress, e.UserAgent,
	)
	return err
}

const auditColumns = `id, tenant_id, actor_id, action, target, outcome, detail, ip_address, user_agent, created_at`

func (s *Store) ListAuditLog(ctx context.Context, tenantID *uuid.UUID, limit int) ([]storage.AuditLogEntry, error) {
	query := `SELECT ` + auditColumns + ` FROM audit_log ORDER BY created_at DESC LIMIT $1`
	args := []any{limit}
	if tenantID != nil {
		query = `SELECT ` + auditColumns + ` FROM audit_log WHERE tenant_id = $1 ORDER BY created_at DESC LIMIT $2`
		args = []any{*tenantID, limit}
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.AuditLogEntry
	for rows.Next() {
		var e storage.AuditLogEntry
		if err := rows.Scan(&e.ID, &e.TenantID, &e.ActorID, &e.Action, &e.Target, &e.Outcome, &e.Detail, &e.IPAddress, &e.UserAgent, &e.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (s *Store) TopToolUsage(ctx context.Context, tenantID uuid.UUID, since time.Time, limit int) ([]storage.ToolUsageCount, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT target, count(*) AS uses
		FROM audit_log
		WHERE tenant_id = $1 AND action = 'tool_call' AND created_at >= $2
		GROUP BY target
		ORDER BY uses DESC
		LIMIT $3`,
		tenantID, since, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.ToolUsageCount
	for rows.Next() {
		var c storage.ToolUsageCount
		if err := rows.Scan(&c.ToolName, &c.Count); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
