package providers

import (
	"context"
	"fmt"
	"time"
)

const terraBaseURL = "https://api.tryterra.co/v2"

// TerraProvider adapts Terra's pull API to Provider. Terra normalizes 150+
// upstream wearables into one schema; Pierre only needs the activity/athlete
// subset common to every other adapter, so the full webhook payload model
// (auth/body/daily/nutrition events) is out of scope here.
type TerraProvider struct {
	http     *httpClient
	terraUserID string
}

// NewTerraProvider builds a Terra adapter for a single Terra user id
// (the identifier Terra issues at widget-session completion, distinct from
// Pierre's own user id).
func NewTerraProvider(tokens TokenSource, terraUserID string) *TerraProvider {
	return &TerraProvider{http: newHTTPClient("terra", terraBaseURL, tokens), terraUserID: terraUserID}
}

func (p *TerraProvider) Name() string { return "terra" }

type terraAthleteResponse struct {
	User struct {
		UserID   string `json:"user_id"`
		Provider string `json:"provider"`
	} `json:"user"`
	Data []struct {
		Metadata struct {
			Name string `json:"name"`
		} `json:"metadata"`
	} `json:"data"`
}

func (p *TerraProvider) GetAthlete(ctx context.Context) (Athlete, error) {
	var resp terraAthleteResponse
	path := "/athlete?user_id=" + p.terraUserID
	if err := p.http.getJSON(ctx, "get_athlete", path, &resp); err != nil {
		return Athlete{}, err
	}
	athlete := Athlete{ID: resp.User.UserID}
	if len(resp.Data) > 0 {
		athlete.Username = resp.Data[0].Metadata.Name
	}
	return athlete, nil
}

type terraActivityResponse struct {
	Data []struct {
		Metadata struct {
			Name      string `json:"name"`
			Type      int    `json:"type"`
			StartTime string `json:"start_time"`
			EndTime   string `json:"end_time"`
			SummaryID string `json:"summary_id"`
		} `json:"metadata"`
		DistanceData struct {
			SummaryMeters float64 `json:"distance_meters"`
		} `json:"distance_data"`
		CaloriesData struct {
			TotalBurnedCalories *float64 `json:"total_burned_calories"`
		} `json:"calories_data"`
		HeartRateData struct {
			SummaryData struct {
				AvgHRBPM *float64 `json:"avg_hr_bpm"`
				MaxHRBPM *float64 `json:"max_hr_bpm"`
			} `json:"summary"`
		} `json:"heart_rate_data"`
	} `json:"data"`
}

func (p *TerraProvider) GetActivities(ctx context.Context, limit, offset int) ([]Activity, error) {
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}
	var resp terraActivityResponse
	path := fmt.Sprintf("/activity?user_id=%s&to_webhook=false&limit=%d&offset=%d", p.terraUserID, limit, offset)
	if err := p.http.getJSON(ctx, "get_activities", path, &resp); err != nil {
		return nil, err
	}
	out := make([]Activity, len(resp.Data))
	for i, d := range resp.Data {
		start, _ := time.Parse(time.RFC3339, d.Metadata.StartTime)
		end, _ := time.Parse(time.RFC3339, d.Metadata.EndTime)
		act := Activity{
			ID:             d.Metadata.SummaryID,
			Name:           d.Metadata.Name,
			Sport:          fmt.Sprintf("type_%d", d.Metadata.Type),
			StartTime:      start,
			DurationSec:    int(end.Sub(start).Seconds()),
			DistanceMeters: d.DistanceData.SummaryMeters,
		}
		if d.CaloriesData.TotalBurnedCalories != nil {
			v := int(*d.CaloriesData.TotalBurnedCalories)
			act.Calories = &v
		}
		if d.HeartRateData.SummaryData.AvgHRBPM != nil {
			v := int(*d.HeartRateData.SummaryData.AvgHRBPM)
			act.AverageHR = &v
		}
		if d.HeartRateData.SummaryData.MaxHRBPM != nil {
			v := int(*d.HeartRateData.SummaryData.MaxHRBPM)
			act.MaxHR = &v
		}
		out[i] = act
	}
	return out, nil
}

func (p *TerraProvider) GetActivitiesCursor(ctx context.Context, params PaginationParams) (CursorPage, error) {
	all, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return CursorPage{}, err
	}
	return paginate(all, params)
}

func (p *TerraProvider) GetActivity(ctx context.Context, id string) (Activity, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Activity{}, err
	}
	for _, a := range activities {
		if a.ID == id {
			return a, nil
		}
	}
	return Activity{}, errNotFound("terra", "activity "+id+" not found")
}

func (p *TerraProvider) GetStats(ctx context.Context) (Stats, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return Stats{}, err
	}
	return summarize(activities), nil
}

func (p *TerraProvider) GetPersonalRecords(ctx context.Context) ([]PersonalRecord, error) {
	activities, err := p.GetActivities(ctx, MaxPageSize, 0)
	if err != nil {
		return nil, err
	}
	return personalRecordsFromActivities(activities), nil
}

func (p *TerraProvider) Disconnect(ctx context.Context) error {
	return nil
}
