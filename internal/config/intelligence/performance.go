package intelligence

// PerformanceThresholds gate trend classification (improving/stable/declining).
type PerformanceThresholds struct {
	ImprovingSlopePct float64
	DecliningSlopePct float64
}

// TrendAnalysisConfig controls the statistical window used for trend fitting.
type TrendAnalysisConfig struct {
	MinDataPoints  int
	WindowDays     int
	SmoothingAlpha float64
}

// StatisticalConfig holds generic statistical analysis knobs shared across
// performance calculations.
type StatisticalConfig struct {
	OutlierStdDevThreshold float64
	ConfidenceLevel        float64
}

// PerformanceAnalyzerConfig is the full performance-analyzer configuration.
type PerformanceAnalyzerConfig struct {
	Thresholds PerformanceThresholds
	Trend      TrendAnalysisConfig
	Statistics StatisticalConfig
}

func defaultPerformanceAnalyzerConfig() PerformanceAnalyzerConfig {
	return PerformanceAnalyzerConfig{
		Thresholds: PerformanceThresholds{
			ImprovingSlopePct: 2.0,
			DecliningSlopePct: -2.0,
		},
		Trend: TrendAnalysisConfig{
			MinDataPoints:  5,
			WindowDays:     28,
			SmoothingAlpha: 0.3,
		},
		Statistics: StatisticalConfig{
			OutlierStdDevThreshold: 2.5,
			ConfidenceLevel:        0.95,
		},
	}
}
