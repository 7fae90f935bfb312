package intelligence

import "math"

// Validate checks every cross-field invariant the intelligence engines rely
// on. It mirrors the original Rust implementation's validate() rule for
// rule, including the 0.1 tolerance on the five-way recommendation weight
// sum and the tighter 0.01 tolerance on the two recovery-scoring weight
// sums.
func (c Config) Validate() error {
	t := c.RecommendationEngine.Thresholds
	if t.LowWeeklyDistanceKM >= t.HighWeeklyDistanceKM {
		return &ValidationError{Message: "low_weekly_distance must be < high_weekly_distance"}
	}
	if t.LowWeeklyFrequency >= t.HighWeeklyFrequency {
		return &ValidationError{Message: "low_weekly_frequency must be < high_weekly_frequency"}
	}

	w := c.RecommendationEngine.Weights
	weightSum := w.DistanceWeight + w.FrequencyWeight + w.PaceWeight + w.ConsistencyWeight + w.RecoveryWeight
	if math.Abs(weightSum-1.0) > 0.1 {
		return &ValidationError{Message: "recommendation weights should approximately sum to 1.0"}
	}

	temp := c.WeatherAnalysis.Temperature
	if temp.IdealMinCelsius >= temp.IdealMaxCelsius {
		return &ValidationError{Message: "ideal_min_temperature must be < ideal_max_temperature"}
	}

	zones := c.ActivityAnalyzer.Analysis.HeartRateZones
	if zones.Zone1MaxPercentage >= zones.Zone2MaxPercentage ||
		zones.Zone2MaxPercentage >= zones.Zone3MaxPercentage ||
		zones.Zone3MaxPercentage >= zones.Zone4MaxPercentage ||
		zones.Zone4MaxPercentage >= zones.Zone5MaxPercentage {
		return &ValidationError{Message: "heart rate zones must be in ascending order"}
	}

	sleepDur := c.SleepRecovery.SleepDuration
	if sleepDur.AdultMinHours >= sleepDur.AdultMaxHours {
		return &ValidationError{Message: "adult_min_hours must be < adult_max_hours"}
	}
	if sleepDur.AthleteMinHours > sleepDur.AthleteOptimalHours {
		return &ValidationError{Message: "athlete_min_hours must be <= athlete_optimal_hours"}
	}
	if sleepDur.VeryShortSleepThreshold >= sleepDur.ShortSleepThreshold {
		return &ValidationError{Message: "very_short_sleep_threshold must be < short_sleep_threshold"}
	}

	stages := c.SleepRecovery.SleepStages
	if stages.DeepSleepMinPercent >= stages.DeepSleepMaxPercent {
		return &ValidationError{Message: "deep_sleep_min_percent must be < deep_sleep_max_percent"}
	}
	if stages.RemSleepMinPercent >= stages.RemSleepMaxPercent {
		return &ValidationError{Message: "rem_sleep_min_percent must be < rem_sleep_max_percent"}
	}
	if stages.LightSleepMinPercent >= stages.LightSleepMaxPercent {
		return &ValidationError{Message: "light_sleep_min_percent must be < light_sleep_max_percent"}
	}
	if stages.AwakeTimeHealthyPercent >= stages.AwakeTimeAcceptablePercent {
		return &ValidationError{Message: "awake_time_healthy_percent must be < awake_time_acceptable_percent"}
	}

	eff := c.SleepRecovery.SleepEfficiency
	if eff.PoorThreshold >= eff.GoodThreshold {
		return &ValidationError{Message: "sleep efficiency: poor_threshold must be < good_threshold"}
	}
	if eff.GoodThreshold >= eff.ExcellentThreshold {
		return &ValidationError{Message: "sleep efficiency: good_threshold must be < excellent_threshold"}
	}

	tsb := c.SleepRecovery.TrainingStressBalance
	if tsb.HighlyFatiguedTSB >= tsb.FatiguedTSB {
		return &ValidationError{Message: "TSB: highly_fatigued must be < fatigued"}
	}
	if tsb.FreshTSBMin >= tsb.FreshTSBMax {
		return &ValidationError{Message: "TSB: fresh_tsb_min must be < fresh_tsb_max"}
	}
	if tsb.FreshTSBMax >= tsb.DetrainingTSB {
		return &ValidationError{Message: "TSB: fresh_tsb_max must be < detraining_tsb"}
	}

	recovery := c.SleepRecovery.RecoveryScoring
	if recovery.FairThreshold >= recovery.GoodThreshold {
		return &ValidationError{Message: "recovery: fair_threshold must be < good_threshold"}
	}
	if recovery.GoodThreshold >= recovery.ExcellentThreshold {
		return &ValidationError{Message: "recovery: good_threshold must be < excellent_threshold"}
	}

	fullSum := recovery.TSBWeightFull + recovery.SleepWeightFull + recovery.HRVWeightFull
	if math.Abs(fullSum-1.0) > 0.01 {
		return &ValidationError{Message: "recovery weights (full) must sum to 1.0"}
	}
	noHRVSum := recovery.TSBWeightNoHRV + recovery.SleepWeightNoHRV
	if math.Abs(noHRVSum-1.0) > 0.01 {
		return &ValidationError{Message: "recovery weights (no HRV) must sum to 1.0"}
	}

	return c.validateNutrition()
}

func (c Config) validateNutrition() error {
	n := c.Nutrition

	if n.BMR.MsjWeightCoef <= 0.0 || n.BMR.MsjHeightCoef <= 0.0 {
		return &ValidationError{Message: "BMR weight and height coefficients must be positive"}
	}

	af := n.ActivityFactors
	if af.Sedentary < 1.0 || af.ExtraActive > 2.5 {
		return &ValidationError{Message: "activity factors must be between 1.0 and 2.5"}
	}
	if af.Sedentary >= af.LightlyActive ||
		af.LightlyActive >= af.ModeratelyActive ||
		af.ModeratelyActive >= af.VeryActive ||
		af.VeryActive >= af.ExtraActive {
		return &ValidationError{Message: "activity factors must be in ascending order"}
	}

	macro := n.Macronutrients
	if macro.ProteinMinGPerKg < 0.5 || macro.ProteinStrengthMaxGPerKg > 3.0 {
		return &ValidationError{Message: "protein recommendations must be between 0.5 and 3.0 g/kg"}
	}
	if macro.ProteinMinGPerKg >= macro.ProteinModerateGPerKg {
		return &ValidationError{Message: "protein_min must be < protein_moderate"}
	}
	if macro.CarbsLowActivityGPerKg < 1.0 || macro.CarbsHighEnduranceGPerKg > 15.0 {
		return &ValidationError{Message: "carb recommendations must be between 1.0 and 15.0 g/kg"}
	}
	if macro.FatMinPercentTDEE < 10.0 || macro.FatMaxPercentTDEE > 50.0 {
		return &ValidationError{Message: "fat percentage must be between 10% and 50% of TDEE"}
	}
	if macro.FatMinPercentTDEE >= macro.FatMaxPercentTDEE {
		return &ValidationError{Message: "fat_min_percent must be < fat_max_percent"}
	}

	timing := n.NutrientTiming
	if timing.PreWorkoutWindowHours > 6.0 || timing.PostWorkoutWindowHours > 6.0 {
		return &ValidationError{Message: "pre/post workout windows must be <= 6 hours"}
	}
	if timing.PostWorkoutProteinGMin >= timing.PostWorkoutProteinGMax {
		return &ValidationError{Message: "post_workout_protein_min must be < post_workout_protein_max"}
	}
	if timing.ProteinMealsPerDayMin == 0 || timing.ProteinMealsPerDayOptimal == 0 {
		return &ValidationError{Message: "protein meals per day must be at least 1"}
	}

	if n.USDAApi.TimeoutSecs == 0 || n.USDAApi.TimeoutSecs > 60 {
		return &ValidationError{Message: "USDA API timeout must be between 1 and 60 seconds"}
	}
	if n.USDAApi.CacheTTLHours == 0 || n.USDAApi.CacheTTLHours > 168 {
		return &ValidationError{Message: "cache TTL must be between 1 and 168 hours (7 days)"}
	}

	return n.MealTimingMacros.Validate()
}
