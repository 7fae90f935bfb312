package providers

import "context"

// Provider is the uniform capability every upstream fitness integration
// implements, grounded on bookowl's thin-client shape but generalized to
// the athlete/activity domain.
type Provider interface {
	Name() string
	GetAthlete(ctx context.Context) (Athlete, error)
	GetActivities(ctx context.Context, limit, offset int) ([]Activity, error)
	GetActivitiesCursor(ctx context.Context, params PaginationParams) (CursorPage, error)
	GetActivity(ctx context.Context, id string) (Activity, error)
	GetStats(ctx context.Context) (Stats, error)
	GetPersonalRecords(ctx context.Context) ([]PersonalRecord, error)
	Disconnect(ctx context.Context) error
}

// TokenSource supplies the bearer access token an adapter attaches to each
// upstream request; internal/tenantoauth.Manager owns refresh.
type TokenSource interface {
	AccessToken(ctx context.Context) (string, error)
}
