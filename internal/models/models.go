package models

// SportRun is the only sport type stride summarizes.
const SportRun = "Run"

// WorkoutStructured is the workout_type Strava assigns to interval sessions.
const WorkoutStructured = 3

// Credentials holds the values exchanged for an [AccessToken].
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
}

// Complete reports whether every credential is set.
func (c Credentials) Complete() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// AccessToken is an opaque bearer token. It is never persisted.
type AccessToken string

// ActivitySummaryRef is one run in the recent-runs listing.
type ActivitySummaryRef struct {
	ID             int64   `json:"id"`
	Name           string  `json:"name"`
	StartDateLocal string  `json:"start_date_local"`
	Distance       float64 `json:"distance"`
	PrettyDate     string  `json:"date_pretty"`
}

// Kilometers converts the run distance for display.
func (r ActivitySummaryRef) Kilometers() float64 {
	return r.Distance / 1000
}

// Gear is the equipment attached to an activity.
type Gear struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Distance *float64 `json:"distance"`
}

// Lap is a segment boundary recorded by the user or a structured workout.
type Lap struct {
	LapIndex         *int     `json:"lap_index"`
	Distance         *float64 `json:"distance"`
	MovingTime       *int     `json:"moving_time"`
	AverageSpeed     *float64 `json:"average_speed"`
	AverageHeartrate *float64 `json:"average_heartrate"`
	AverageCadence   *float64 `json:"average_cadence"`
}

// Split is an automatic fixed-distance segment of a continuous run.
type Split struct {
	Split               *int     `json:"split"`
	Distance            *float64 `json:"distance"`
	MovingTime          *int     `json:"moving_time"`
	ElevationDifference *float64 `json:"elevation_difference"`
	AverageSpeed        *float64 `json:"average_speed"`
	AverageHeartrate    *float64 `json:"average_heartrate"`
}

// ActivityDetail is the detailed representation of a single activity.
type ActivityDetail struct {
	ID                 int64    `json:"id"`
	Name               string   `json:"name"`
	StartDateLocal     string   `json:"start_date_local"`
	Distance           *float64 `json:"distance"`
	MovingTime         *int     `json:"moving_time"`
	TotalElevationGain *float64 `json:"total_elevation_gain"`
	SportType          string   `json:"sport_type"`
	WorkoutType        *int     `json:"workout_type"`
	Gear               *Gear    `json:"gear"`
	Laps               []Lap    `json:"laps"`
	SplitsMetric       []Split  `json:"splits_metric"`
}

// IsRun reports whether the activity was recorded as a run.
func (a *ActivityDetail) IsRun() bool {
	return a.SportType == SportRun
}

// IsStructured reports whether the activity is an interval session reported via laps.
func (a *ActivityDetail) IsStructured() bool {
	return a.WorkoutType != nil && *a.WorkoutType == WorkoutStructured
}
