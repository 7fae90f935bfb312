package intelligence

import (
	"fmt"
	"os"
	"strconv"
)

// applyEnvVar parses the named environment variable into target if it is
// set, leaving target untouched otherwise. Mirrors the original
// apply_env_var<T: FromStr> helper, specialized to the two scalar kinds the
// intelligence config needs: float64 and int.
func applyEnvVar(name string, target *float64) error {
	val, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	parsed, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return &ParseError{EnvVar: name}
	}
	*target = parsed
	return nil
}

func applyEnvVarInt(name string, target *int) error {
	val, ok := os.LookupEnv(name)
	if !ok {
		return nil
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return &ParseError{EnvVar: name}
	}
	*target = parsed
	return nil
}

func applyEnvVarString(name string, target *string) {
	if val, ok := os.LookupEnv(name); ok {
		*target = val
	}
}

// applyEnvOverrides mutates cfg in place, applying every recognized
// INTELLIGENCE_* and PIERRE_*_ALGORITHM environment variable. Names match
// the original Rust implementation's env-override list field for field.
func applyEnvOverrides(cfg *Config) error {
	overrides := []struct {
		name   string
		target *float64
	}{
		{"INTELLIGENCE_RECOMMENDATION_LOW_DISTANCE", &cfg.RecommendationEngine.Thresholds.LowWeeklyDistanceKM},
		{"INTELLIGENCE_RECOMMENDATION_HIGH_DISTANCE", &cfg.RecommendationEngine.Thresholds.HighWeeklyDistanceKM},

		{"INTELLIGENCE_WEATHER_IDEAL_MIN_TEMP", &cfg.WeatherAnalysis.Temperature.IdealMinCelsius},
		{"INTELLIGENCE_WEATHER_IDEAL_MAX_TEMP", &cfg.WeatherAnalysis.Temperature.IdealMaxCelsius},

		{"INTELLIGENCE_SLEEP_ADULT_MIN_HOURS", &cfg.SleepRecovery.SleepDuration.AdultMinHours},
		{"INTELLIGENCE_SLEEP_ADULT_MAX_HOURS", &cfg.SleepRecovery.SleepDuration.AdultMaxHours},
		{"INTELLIGENCE_SLEEP_ATHLETE_OPTIMAL_HOURS", &cfg.SleepRecovery.SleepDuration.AthleteOptimalHours},
		{"INTELLIGENCE_SLEEP_ATHLETE_MIN_HOURS", &cfg.SleepRecovery.SleepDuration.AthleteMinHours},

		{"INTELLIGENCE_SLEEP_DEEP_MIN_PERCENT", &cfg.SleepRecovery.SleepStages.DeepSleepMinPercent},
		{"INTELLIGENCE_SLEEP_DEEP_MAX_PERCENT", &cfg.SleepRecovery.SleepStages.DeepSleepMaxPercent},
		{"INTELLIGENCE_SLEEP_REM_MIN_PERCENT", &cfg.SleepRecovery.SleepStages.RemSleepMinPercent},
		{"INTELLIGENCE_SLEEP_REM_MAX_PERCENT", &cfg.SleepRecovery.SleepStages.RemSleepMaxPercent},

		{"INTELLIGENCE_SLEEP_EFFICIENCY_EXCELLENT", &cfg.SleepRecovery.SleepEfficiency.ExcellentThreshold},
		{"INTELLIGENCE_SLEEP_EFFICIENCY_GOOD", &cfg.SleepRecovery.SleepEfficiency.GoodThreshold},
		{"INTELLIGENCE_SLEEP_EFFICIENCY_POOR", &cfg.SleepRecovery.SleepEfficiency.PoorThreshold},

		{"INTELLIGENCE_HRV_RMSSD_DECREASE_CONCERN", &cfg.SleepRecovery.HRV.RmssdDecreaseConcernThreshold},
		{"INTELLIGENCE_HRV_RMSSD_INCREASE_GOOD", &cfg.SleepRecovery.HRV.RmssdIncreaseGoodThreshold},
		{"INTELLIGENCE_HRV_BASELINE_DEVIATION_CONCERN", &cfg.SleepRecovery.HRV.BaselineDeviationConcernPercent},

		{"INTELLIGENCE_TSB_HIGHLY_FATIGUED", &cfg.SleepRecovery.TrainingStressBalance.HighlyFatiguedTSB},
		{"INTELLIGENCE_TSB_FATIGUED", &cfg.SleepRecovery.TrainingStressBalance.FatiguedTSB},
		{"INTELLIGENCE_TSB_FRESH_MIN", &cfg.SleepRecovery.TrainingStressBalance.FreshTSBMin},
		{"INTELLIGENCE_TSB_FRESH_MAX", &cfg.SleepRecovery.TrainingStressBalance.FreshTSBMax},
		{"INTELLIGENCE_TSB_DETRAINING", &cfg.SleepRecovery.TrainingStressBalance.DetrainingTSB},

		{"INTELLIGENCE_RECOVERY_EXCELLENT_THRESHOLD", &cfg.SleepRecovery.RecoveryScoring.ExcellentThreshold},
		{"INTELLIGENCE_RECOVERY_GOOD_THRESHOLD", &cfg.SleepRecovery.RecoveryScoring.GoodThreshold},
		{"INTELLIGENCE_RECOVERY_FAIR_THRESHOLD", &cfg.SleepRecovery.RecoveryScoring.FairThreshold},
		{"INTELLIGENCE_RECOVERY_TSB_WEIGHT_FULL", &cfg.SleepRecovery.RecoveryScoring.TSBWeightFull},
		{"INTELLIGENCE_RECOVERY_SLEEP_WEIGHT_FULL", &cfg.SleepRecovery.RecoveryScoring.SleepWeightFull},
		{"INTELLIGENCE_RECOVERY_HRV_WEIGHT_FULL", &cfg.SleepRecovery.RecoveryScoring.HRVWeightFull},
	}

	for _, o := range overrides {
		if err := applyEnvVar(o.name, o.target); err != nil {
			return fmt.Errorf("%s: %w", o.name, err)
		}
	}

	applyEnvVarString("PIERRE_TSS_ALGORITHM", &cfg.Algorithms.TSS)
	applyEnvVarString("PIERRE_MAXHR_ALGORITHM", &cfg.Algorithms.MaxHR)
	applyEnvVarString("PIERRE_FTP_ALGORITHM", &cfg.Algorithms.FTP)

	return nil
}
