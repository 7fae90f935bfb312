package providers

import (
	"context"
	"fmt"
	"math"
	"time"
)

// syntheticActivityCount matches the documented pagination edge case
// suite exercises: 25 activities, page size 10 → pages of 10, 10, 5.
const syntheticActivityCount = 25

var syntheticSports = []string{"run", "ride", "swim"}

// SyntheticProvider generates a deterministic activity history with no
// upstream network calls, for demos and integration tests that need a
// stable dataset independent of any real provider's rate limits or
// availability.
type SyntheticProvider struct {
	seed       time.Time
	activities []Activity
}

// NewSyntheticProvider builds a synthetic history of syntheticActivityCount
// activities anchored at seed, descending in start time one day apart.
func NewSyntheticProvider(seed time.Time) *SyntheticProvider {
	p := &SyntheticProvider{seed: seed}
	p.activities = p.generate()
	return p
}

func (p *SyntheticProvider) Name() string { return "synthetic" }

func (p *SyntheticProvider) generate() []Activity {
	out := make([]Activity, syntheticActivityCount)
	for i := 0; i < syntheticActivityCount; i++ {
		sport := syntheticSports[i%len(syntheticSports)]
		start := p.seed.Add(-time.Duration(i) * 24 * time.Hour)
		avgHR := 120 + (i % 40)
		maxHR := avgHR + 20
		calories := 300 + i*7
		out[i] = Activity{
			ID:             fmt.Sprintf("synthetic-%02d", i),
			Name:           fmt.Sprintf("Synthetic %s %d", sport, i),
			Sport:          sport,
			StartTime:      start,
			DurationSec:    1800 + (i%6)*600,
			DistanceMeters: 3000 + float64(i)*250,
			ElevationGainM: math.Mod(float64(i)*37, 400),
			AverageHR:      &avgHR,
			MaxHR:          &maxHR,
			Calories:       &calories,
		}
	}
	return out
}

func (p *SyntheticProvider) GetAthlete(_ context.Context) (Athlete, error) {
	return Athlete{ID: "synthetic-athlete", Username: "synthetic"}, nil
}

func (p *SyntheticProvider) GetActivities(_ context.Context, limit, offset int) ([]Activity, error) {
	if offset >= len(p.activities) {
		return nil, nil
	}
	end := offset + limit
	if limit <= 0 || end > len(p.activities) {
		end = len(p.activities)
	}
	return append([]Activity(nil), p.activities[offset:end]...), nil
}

func (p *SyntheticProvider) GetActivitiesCursor(_ context.Context, params PaginationParams) (CursorPage, error) {
	return paginate(p.activities, params)
}

func (p *SyntheticProvider) GetActivity(_ context.Context, id string) (Activity, error) {
	for _, a := range p.activities {
		if a.ID == id {
			return a, nil
		}
	}
	return Activity{}, errNotFound("synthetic", "activity "+id+" not found")
}

func (p *SyntheticProvider) GetStats(_ context.Context) (Stats, error) {
	return summarize(p.activities), nil
}

func (p *SyntheticProvider) GetPersonalRecords(_ context.Context) ([]PersonalRecord, error) {
	return personalRecordsFromActivities(p.activities), nil
}

func (p *SyntheticProvider) Disconnect(_ context.Context) error {
	return nil
}
