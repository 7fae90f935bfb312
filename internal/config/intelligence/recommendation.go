package intelligence

// RecommendationThresholds gate which recommendation a weekly training
// volume/frequency pattern triggers.
type RecommendationThresholds struct {
	LowWeeklyDistanceKM  float64
	HighWeeklyDistanceKM float64
	LowWeeklyFrequency   int
	HighWeeklyFrequency  int
}

// RecommendationWeights score how much each signal contributes to the
// overall recommendation strength. Expected to sum to roughly 1.0.
type RecommendationWeights struct {
	DistanceWeight    float64
	FrequencyWeight   float64
	PaceWeight        float64
	ConsistencyWeight float64
	RecoveryWeight    float64
}

// RecommendationLimits bound how many recommendations a single analysis run
// may emit.
type RecommendationLimits struct {
	MaxPerRun int
}

// RecommendationEngineConfig is the full configuration surface for the
// recommendation engine.
type RecommendationEngineConfig struct {
	Thresholds RecommendationThresholds
	Weights    RecommendationWeights
	Limits     RecommendationLimits
}

func defaultRecommendationEngineConfig() RecommendationEngineConfig {
	return RecommendationEngineConfig{
		Thresholds: RecommendationThresholds{
			LowWeeklyDistanceKM:  20.0,
			HighWeeklyDistanceKM: 80.0,
			LowWeeklyFrequency:   3,
			HighWeeklyFrequency:  6,
		},
		Weights: RecommendationWeights{
			DistanceWeight:    0.3,
			FrequencyWeight:   0.25,
			PaceWeight:        0.2,
			ConsistencyWeight: 0.15,
			RecoveryWeight:    0.1,
		},
		Limits: RecommendationLimits{MaxPerRun: 5},
	}
}
