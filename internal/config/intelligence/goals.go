package intelligence

// FeasibilityConfig bounds how aggressive a suggested goal may be relative to
// an athlete's current fitness.
type FeasibilityConfig struct {
	MaxWeeklyIncreasePercent float64
	MinHistoryWeeks          int
}

// ProgressionConfig shapes the step size of generated progression plans.
type ProgressionConfig struct {
	StepPercent   float64
	PlateauWeeks  int
}

// DifficultyDistribution controls how suggested goals are spread across
// difficulty tiers.
type DifficultyDistribution struct {
	EasyPercent   float64
	MediumPercent float64
	HardPercent   float64
}

// TimeframePreferences bounds the suggested goal horizons, in weeks.
type TimeframePreferences struct {
	MinWeeks int
	MaxWeeks int
}

// SuggestionConfig controls how many candidate goals the goal engine
// generates per request.
type SuggestionConfig struct {
	MaxSuggestions int
}

// GoalEngineConfig is the full goal-engine configuration surface.
type GoalEngineConfig struct {
	Feasibility DifficultyDistribution
	Progression ProgressionConfig
	Timeframe   TimeframePreferences
	Suggestion  SuggestionConfig
	FeasibilityLimits FeasibilityConfig
}

func defaultGoalEngineConfig() GoalEngineConfig {
	return GoalEngineConfig{
		Feasibility: DifficultyDistribution{
			EasyPercent:   0.4,
			MediumPercent: 0.4,
			HardPercent:   0.2,
		},
		Progression: ProgressionConfig{
			StepPercent:  10.0,
			PlateauWeeks: 2,
		},
		Timeframe: TimeframePreferences{
			MinWeeks: 4,
			MaxWeeks: 26,
		},
		Suggestion: SuggestionConfig{MaxSuggestions: 3},
		FeasibilityLimits: FeasibilityConfig{
			MaxWeeklyIncreasePercent: 10.0,
			MinHistoryWeeks:          4,
		},
	}
}
