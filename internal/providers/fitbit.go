package providers

import (
	"context"
	"fmt"
	"time"
)

const fitbitBaseURL = "https://api.fitbit.com/1"

// FitbitProvider adapts the Fitbit Web API to Provider.
type FitbitProvider struct {
	http *httpClient
}

func NewFitbitProvider(tokens TokenSource) *FitbitProvider {
	return &FitbitProvider{http: newHTTPClient("fitbit", fitbitBaseURL, tokens)}
}

func (p *FitbitProvider) Name() string { return "fitbit" }

type fitbitProfile struct {
	User struct {
		EncodedID string `json:"encodedId"`
		FullName  string `json:"fullName"`
		City      string `json:"city"`
		Country   string `json:"country"`
		Gender    string `json:"gender"`
	} `json:"user"`
}

func (p *FitbitProvider) GetAthlete(ctx context.Context) (Athlete, error) {
	var resp fitbitProfile
	if err := p.http.getJSON(ctx, "get_athlete", "/user/-/profile.json", &resp); err != nil {
		return Athlete{}, err
	}
	return Athlete{
		ID:       resp.User.EncodedID,
		Username: resp.User.FullName,
		City:     resp.User.City,
		Country:  resp.User.Country,
		Sex:      resp.User.Gender,
	}, nil
}

type fitbitActivityLogList struct {
	Activities []struct {
		LogID            int64   `json:"logId"`
		ActivityName     string  `json:"activityName"`
		StartTime        string  `json:"startTime"`
		Duration         int     `json:"duration"` // milliseconds
		Distance         float64 `json:"distance"`  // km
		AverageHeartRate *int    `json:"averageHeartRate"`
		Calories         *int    `json:"calories"`
	} `json:"activities"`
}

func (p *FitbitProvider) GetActivities(ctx context.Context, limit, offset int) ([]Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	var resp fitbitActivityLogList
	path := fmt.Sprintf("/user/-/activities/list.json?sort=desc&limit=%d&offset=%d&beforeDate=%s",
		limit, offset, time.Now().Format("2006-01-02"))
	if err := p.http.getJSON(ctx, "get_activities", path, &resp); err != nil {
		return nil, err
	}
	out := make([]Activity, len(resp.Activities))
	for i, a := range resp.Activities {
		start, _ := time.Parse(time.RFC3339, a.StartTime)
		act := Activity{
			ID:             fmt.Sprintf("%d", a.LogID),
			Name:           a.ActivityName,
			Sport:          a.ActivityName,
			StartTime:      start,
			DurationSec:    a.Duration / 1000,
			DistanceMeters: a.Distance * 1000,
			Calories:       a.Calories,
		}
		if a.AverageHeartRate != nil {
			act.AverageHR = a.AverageHeartRate
		}
		out[i] = act
	}
	return out, nil
}

func (p *FitbitProvider) GetActivitiesCursor(ctx context.Context, params PaginationParams) (CursorPage, error) {
	all, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return CursorPage{}, err
	}
	return paginate(all, params)
}

func (p *FitbitProvider) GetActivity(ctx context.Context, id string) (Activity, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Activity{}, err
	}
	for _, a := range activities {
		if a.ID == id {
			return a, nil
		}
	}
	return Activity{}, errNotFound("fitbit", "activity "+id+" not found")
}

func (p *FitbitProvider) GetStats(ctx context.Context) (Stats, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Stats{}, err
	}
	return summarize(activities), nil
}

func (p *FitbitProvider) GetPersonalRecords(ctx context.Context) ([]PersonalRecord, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return nil, err
	}
	return personalRecordsFromActivities(activities), nil
}

func (p *FitbitProvider) Disconnect(ctx context.Context) error {
	return nil
}
