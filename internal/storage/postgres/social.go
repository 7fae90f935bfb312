package postgres

import (
	"context"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/storage"
)

// ListSharedInsightsForUser is the one read-only social capability carried
// forward from the fuller social graph: insights a user's connections chose
// to share, newest first. No write path exists for social data.
func (s *Store) ListSharedInsightsForUser(ctx context.Context, userID uuid.UUID, limit int) ([]storage.SharedInsight, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, user_id, summary, created_at
		FROM shared_insights
		WHERE user_id IN (
			SELECT friend_id FROM social_connections WHERE user_id = $1 AND status = 'accepted'
		)
		ORDER BY created_at DESC
		LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []storage.SharedInsight
	for rows.Next() {
		var i storage.SharedInsight
		if err := rows.Scan(&i.ID, &i.UserID, &i.Summary, &i.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, i)
	}
	return out, rows.Err()
}
