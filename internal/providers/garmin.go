package providers

import (
	"context"
	"fmt"
	"time"
)

const garminBaseURL = "https://apis.garmin.com/wellness-api/rest"

// GarminProvider adapts Garmin's Wellness API to Provider.
type GarminProvider struct {
	http *httpClient
}

func NewGarminProvider(tokens TokenSource) *GarminProvider {
	return &GarminProvider{http: newHTTPClient("garmin", garminBaseURL, tokens)}
}

func (p *GarminProvider) Name() string { return "garmin" }

type garminUser struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

func (p *GarminProvider) GetAthlete(ctx context.Context) (Athlete, error) {
	var u garminUser
	if err := p.http.getJSON(ctx, "get_athlete", "/user/id", &u); err != nil {
		return Athlete{}, err
	}
	return Athlete{ID: u.UserID, Username: u.DisplayName}, nil
}

type garminActivity struct {
	SummaryID           string  `json:"summaryId"`
	ActivityName        string  `json:"activityName"`
	ActivityType        string  `json:"activityType"`
	StartTimeInSeconds  int64   `json:"startTimeInSeconds"`
	DurationInSeconds   int     `json:"durationInSeconds"`
	DistanceInMeters    float64 `json:"distanceInMeters"`
	TotalElevationGainM float64 `json:"totalElevationGainInMeters"`
	AverageHeartRateBPM *int    `json:"averageHeartRateInBeatsPerMinute"`
	ActiveKilocalories  *int    `json:"activeKilocalories"`
}

func (p *GarminProvider) GetActivities(ctx context.Context, limit, offset int) ([]Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	var raw []garminActivity
	path := fmt.Sprintf("/activities?limit=%d&offset=%d", limit, offset)
	if err := p.http.getJSON(ctx, "get_activities", path, &raw); err != nil {
		return nil, err
	}
	out := make([]Activity, len(raw))
	for i, a := range raw {
		out[i] = Activity{
			ID:             a.SummaryID,
			Name:           a.ActivityName,
			Sport:          a.ActivityType,
			StartTime:      time.Unix(a.StartTimeInSeconds, 0).UTC(),
			DurationSec:    a.DurationInSeconds,
			DistanceMeters: a.DistanceInMeters,
			ElevationGainM: a.TotalElevationGainM,
			AverageHR:      a.AverageHeartRateBPM,
			Calories:       a.ActiveKilocalories,
		}
	}
	return out, nil
}

func (p *GarminProvider) GetActivitiesCursor(ctx context.Context, params PaginationParams) (CursorPage, error) {
	all, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return CursorPage{}, err
	}
	return paginate(all, params)
}

func (p *GarminProvider) GetActivity(ctx context.Context, id string) (Activity, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Activity{}, err
	}
	for _, a := range activities {
		if a.ID == id {
			return a, nil
		}
	}
	return Activity{}, errNotFound("garmin", "activity "+id+" not found")
}

func (p *GarminProvider) GetStats(ctx context.Context) (Stats, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Stats{}, err
	}
	return summarize(activities), nil
}

func (p *GarminProvider) GetPersonalRecords(ctx context.Context) ([]PersonalRecord, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return nil, err
	}
	return personalRecordsFromActivities(activities), nil
}

func (p *GarminProvider) Disconnect(ctx context.Context) error {
	return nil
}
