package intelligence

// HeartRateZonesConfig bounds each HR zone as a percentage of max HR. Must be
// strictly ascending.
type HeartRateZonesConfig struct {
	Zone1MaxPercentage float64
	Zone2MaxPercentage float64
	Zone3MaxPercentage float64
	Zone4MaxPercentage float64
	Zone5MaxPercentage float64
}

// PowerZonesConfig bounds each power zone as a percentage of FTP.
type PowerZonesConfig struct {
	Zone1MaxPercentage float64
	Zone2MaxPercentage float64
	Zone3MaxPercentage float64
	Zone4MaxPercentage float64
	Zone5MaxPercentage float64
	Zone6MaxPercentage float64
}

// SeverityThresholds classify how unusual an activity is relative to history.
type SeverityThresholds struct {
	MinorDeviationPercent    float64
	ModerateDeviationPercent float64
	SevereDeviationPercent   float64
}

// ActivityAnalysisConfig groups the zone tables used during analysis.
type ActivityAnalysisConfig struct {
	HeartRateZones HeartRateZonesConfig
	PowerZones     PowerZonesConfig
}

// ActivityScoringConfig weighs components of the per-activity quality score.
type ActivityScoringConfig struct {
	EffortWeight     float64
	ConsistencyWeight float64
	EfficiencyWeight float64
}

// ActivityInsightsConfig bounds how many insights are generated per activity.
type ActivityInsightsConfig struct {
	MaxInsightsPerActivity int
}

// ActivityAnalyzerConfig is the full activity-analyzer configuration surface.
type ActivityAnalyzerConfig struct {
	Analysis  ActivityAnalysisConfig
	Scoring   ActivityScoringConfig
	Insights  ActivityInsightsConfig
	Severity  SeverityThresholds
}

func defaultActivityAnalyzerConfig() ActivityAnalyzerConfig {
	return ActivityAnalyzerConfig{
		Analysis: ActivityAnalysisConfig{
			HeartRateZones: HeartRateZonesConfig{
				Zone1MaxPercentage: 60.0,
				Zone2MaxPercentage: 70.0,
				Zone3MaxPercentage: 80.0,
				Zone4MaxPercentage: 90.0,
				Zone5MaxPercentage: 100.0,
			},
			PowerZones: PowerZonesConfig{
				Zone1MaxPercentage: 55.0,
				Zone2MaxPercentage: 75.0,
				Zone3MaxPercentage: 90.0,
				Zone4MaxPercentage: 105.0,
				Zone5MaxPercentage: 120.0,
				Zone6MaxPercentage: 150.0,
			},
		},
		Scoring: ActivityScoringConfig{
			EffortWeight:      0.4,
			ConsistencyWeight: 0.3,
			EfficiencyWeight:  0.3,
		},
		Insights: ActivityInsightsConfig{MaxInsightsPerActivity: 3},
		Severity: SeverityThresholds{
			MinorDeviationPercent:    10.0,
			ModerateDeviationPercent: 25.0,
			SevereDeviationPercent:   50.0,
		},
	}
}
