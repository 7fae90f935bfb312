package postgres

import "context"

func (s *Store) IncrementRateLimit(ctx context.Context, subject, window string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `
		INSERT INTO rate_limit_counters (subject, window, count, updated_at)
		VALUES ($1, $2, 1, now())
		ON CONFLICT (subject, window) DO UPDATE SET
			count = rate_limit_counters.count + 1,
			updated_at = now()
		RETURNING count`,
		subject, window,
	).Scan(&count)
	return count, err
}

func (s *Store) GetRateLimit(ctx context.Context, subject, window string) (int64, error) {
	var count int64
	err := s.pool.QueryRow(ctx, `SELECT count FROM rate_limit_counters WHERE subject = $1 AND window = $2`, subject, window).Scan(&count)
	if err != nil {
		return 0, nil //nolint:nilerr
	}
	return count, nil
}
