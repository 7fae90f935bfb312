package intelligence

// SleepDurationConfig bounds what counts as healthy sleep duration, in hours.
type SleepDurationConfig struct {
	AdultMinHours           float64
	AdultMaxHours           float64
	AthleteMinHours         float64
	AthleteOptimalHours     float64
	VeryShortSleepThreshold float64
	ShortSleepThreshold     float64
}

// SleepStagesConfig bounds healthy sleep-stage percentages of total sleep time.
type SleepStagesConfig struct {
	DeepSleepMinPercent        float64
	DeepSleepMaxPercent        float64
	RemSleepMinPercent         float64
	RemSleepMaxPercent         float64
	LightSleepMinPercent       float64
	LightSleepMaxPercent       float64
	AwakeTimeHealthyPercent    float64
	AwakeTimeAcceptablePercent float64
}

// SleepEfficiencyConfig classifies sleep efficiency (time asleep / time in
// bed) into poor/good/excellent bands.
type SleepEfficiencyConfig struct {
	PoorThreshold      float64
	GoodThreshold      float64
	ExcellentThreshold float64
}

// HrvConfig thresholds for interpreting heart-rate-variability trend
// changes relative to an athlete's rolling baseline.
type HrvConfig struct {
	RmssdDecreaseConcernThreshold  float64
	RmssdIncreaseGoodThreshold     float64
	BaselineDeviationConcernPercent float64
}

// TsbConfig classifies Training Stress Balance into fatigue bands.
type TsbConfig struct {
	HighlyFatiguedTSB float64
	FatiguedTSB       float64
	FreshTSBMin       float64
	FreshTSBMax       float64
	DetrainingTSB     float64
}

// RecoveryScoringConfig classifies an overall recovery score and weighs its
// inputs. Two weight sets exist: "full" (sleep + TSB + HRV all available)
// and "no HRV" (HRV data missing, weight redistributed to sleep and TSB).
type RecoveryScoringConfig struct {
	FairThreshold      float64
	GoodThreshold      float64
	ExcellentThreshold float64

	TSBWeightFull   float64
	SleepWeightFull float64
	HRVWeightFull   float64

	TSBWeightNoHRV   float64
	SleepWeightNoHRV float64
}

// SleepRecoveryConfig is the full sleep-and-recovery configuration surface.
type SleepRecoveryConfig struct {
	SleepDuration          SleepDurationConfig
	SleepStages            SleepStagesConfig
	SleepEfficiency        SleepEfficiencyConfig
	HRV                    HrvConfig
	TrainingStressBalance  TsbConfig
	RecoveryScoring        RecoveryScoringConfig
}

func defaultSleepRecoveryConfig() SleepRecoveryConfig {
	return SleepRecoveryConfig{
		SleepDuration: SleepDurationConfig{
			AdultMinHours:           7.0,
			AdultMaxHours:           9.0,
			AthleteMinHours:         7.5,
			AthleteOptimalHours:     9.0,
			VeryShortSleepThreshold: 4.0,
			ShortSleepThreshold:     6.0,
		},
		SleepStages: SleepStagesConfig{
			DeepSleepMinPercent:        13.0,
			DeepSleepMaxPercent:        23.0,
			RemSleepMinPercent:         20.0,
			RemSleepMaxPercent:         25.0,
			LightSleepMinPercent:       45.0,
			LightSleepMaxPercent:       55.0,
			AwakeTimeHealthyPercent:    5.0,
			AwakeTimeAcceptablePercent: 10.0,
		},
		SleepEfficiency: SleepEfficiencyConfig{
			PoorThreshold:      75.0,
			GoodThreshold:      85.0,
			ExcellentThreshold: 90.0,
		},
		HRV: HrvConfig{
			RmssdDecreaseConcernThreshold:   -15.0,
			RmssdIncreaseGoodThreshold:      10.0,
			BaselineDeviationConcernPercent: 20.0,
		},
		TrainingStressBalance: TsbConfig{
			HighlyFatiguedTSB: -30.0,
			FatiguedTSB:       -10.0,
			FreshTSBMin:       -10.0,
			FreshTSBMax:       5.0,
			DetrainingTSB:     25.0,
		},
		RecoveryScoring: RecoveryScoringConfig{
			FairThreshold:      50.0,
			GoodThreshold:      70.0,
			ExcellentThreshold: 85.0,
			TSBWeightFull:      0.4,
			SleepWeightFull:    0.35,
			HRVWeightFull:      0.25,
			TSBWeightNoHRV:     0.5,
			SleepWeightNoHRV:   0.5,
		},
	}
}
