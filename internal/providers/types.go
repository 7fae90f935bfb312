// Package providers adapts upstream fitness APIs (Strava, Fitbit, Garmin,
// Whoop, Terra) and a deterministic synthetic generator behind one uniform
// interface, so the executor and intelligence engines never see
// provider-specific wire shapes.
package providers

import "time"

// Athlete is a normalized upstream profile.
type Athlete struct {
	ID        string
	Username  string
	FirstName string
	LastName  string
	City      string
	Country   string
	Sex       string
}

// Activity is a normalized workout/session record.
type Activity struct {
	ID             string
	Name           string
	Sport          string
	StartTime      time.Time
	DurationSec    int
	DistanceMeters float64
	ElevationGainM float64
	AverageHR      *int
	MaxHR          *int
	AveragePower   *float64
	Calories       *int
}

// Stats is an aggregate summary of an athlete's activity history.
type Stats struct {
	TotalActivities int
	TotalDistanceM  float64
	TotalDurationS  int
	TotalElevationM float64
}

// PersonalRecord is a best effort for a given metric, derived from the
// athlete's activity history (see personalRecordsFromActivities).
type PersonalRecord struct {
	Sport     string
	Metric    string
	Value     float64
	Unit      string
	AchievedAt time.Time
}

// Direction names a walking direction for a cursor page. paginate does not
// read it: every page walks forward from the cursor in descending
// start-time order, whatever Direction is set to.
type Direction string

const (
	Forward  Direction = "forward"
	Backward Direction = "backward"
)

// PaginationParams bounds and positions a CursorPage request.
type PaginationParams struct {
	Cursor    string
	Limit     int
	Direction Direction
}

// MaxPageSize is the hard ceiling on PaginationParams.Limit.
const MaxPageSize = 100

// CursorPage is one page of a descending-start-time activity listing.
type CursorPage struct {
	Items      []Activity
	NextCursor string
	PrevCursor string
	HasMore    bool
}
