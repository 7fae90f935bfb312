package providers

import (
	"context"
	"fmt"
	"time"
)

const whoopBaseURL = "https://api.prod.whoop.com/developer/v1"

// WhoopProvider adapts the Whoop API to Provider.
type WhoopProvider struct {
	http *httpClient
}

func NewWhoopProvider(tokens TokenSource) *WhoopProvider {
	return &WhoopProvider{http: newHTTPClient("whoop", whoopBaseURL, tokens)}
}

func (p *WhoopProvider) Name() string { return "whoop" }

type whoopProfile struct {
	UserID    int64  `json:"user_id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func (p *WhoopProvider) GetAthlete(ctx context.Context) (Athlete, error) {
	var u whoopProfile
	if err := p.http.getJSON(ctx, "get_athlete", "/user/profile/basic", &u); err != nil {
		return Athlete{}, err
	}
	return Athlete{ID: fmt.Sprintf("%d", u.UserID), FirstName: u.FirstName, LastName: u.LastName}, nil
}

type whoopWorkoutList struct {
	Records []struct {
		ID         string  `json:"id"`
		SportName  string  `json:"sport_name"`
		Start      string  `json:"start"`
		End        string  `json:"end"`
		Strain     float64 `json:"strain"`
		AverageHR  *int    `json:"average_heart_rate"`
		MaxHR      *int    `json:"max_heart_rate"`
		Kilojoules *float64 `json:"kilojoule"`
	} `json:"records"`
	NextToken string `json:"next_token"`
}

func (p *WhoopProvider) GetActivities(ctx context.Context, limit, offset int) ([]Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	var resp whoopWorkoutList
	path := fmt.Sprintf("/activity/workout?limit=%d", limit)
	if err := p.http.getJSON(ctx, "get_activities", path, &resp); err != nil {
		return nil, err
	}
	out := make([]Activity, len(resp.Records))
	for i, w := range resp.Records {
		start, _ := time.Parse(time.RFC3339, w.Start)
		end, _ := time.Parse(time.RFC3339, w.End)
		var calories *int
		if w.Kilojoules != nil {
			kcal := int(*w.Kilojoules * 0.239006)
			calories = &kcal
		}
		out[i] = Activity{
			ID:          w.ID,
			Name:        w.SportName,
			Sport:       w.SportName,
			StartTime:   start,
			DurationSec: int(end.Sub(start).Seconds()),
			AverageHR:   w.AverageHR,
			MaxHR:       w.MaxHR,
			Calories:    calories,
		}
	}
	return out, nil
}

func (p *WhoopProvider) GetActivitiesCursor(ctx context.Context, params PaginationParams) (CursorPage, error) {
	all, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return CursorPage{}, err
	}
	return paginate(all, params)
}

func (p *WhoopProvider) GetActivity(ctx context.Context, id string) (Activity, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Activity{}, err
	}
	for _, a := range activities {
		if a.ID == id {
			return a, nil
		}
	}
	return Activity{}, errNotFound("whoop", "activity "+id+" not found")
}

func (p *WhoopProvider) GetStats(ctx context.Context) (Stats, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Stats{}, err
	}
	return summarize(activities), nil
}

func (p *WhoopProvider) GetPersonalRecords(ctx context.Context) ([]PersonalRecord, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return nil, err
	}
	return personalRecordsFromActivities(activities), nil
}

func (p *WhoopProvider) Disconnect(ctx context.Context) error {
	return nil
}
