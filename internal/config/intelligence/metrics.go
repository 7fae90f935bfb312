package intelligence

// MetricsCalculationConfig selects rounding/smoothing behavior for derived
// metrics (TSS, normalized power, and similar).
type MetricsCalculationConfig struct {
	RoundingPrecision int
	NormalizedPowerWindowSeconds int
}

// MetricsValidationConfig bounds what counts as a physiologically plausible
// input value, used to reject corrupt provider payloads before they reach an
// engine.
type MetricsValidationConfig struct {
	MaxHeartRateBPM   int
	MaxPowerWatts     int
	MaxSpeedKPH       float64
}

// MetricsAggregationConfig controls how per-activity metrics roll up into
// weekly/monthly summaries.
type MetricsAggregationConfig struct {
	WeekStartsMonday bool
}

// MetricsConfig is the full metrics configuration surface.
type MetricsConfig struct {
	Calculation MetricsCalculationConfig
	Validation  MetricsValidationConfig
	Aggregation MetricsAggregationConfig
}

func defaultMetricsConfig() MetricsConfig {
	return MetricsConfig{
		Calculation: MetricsCalculationConfig{
			RoundingPrecision:            1,
			NormalizedPowerWindowSeconds: 30,
		},
		Validation: MetricsValidationConfig{
			MaxHeartRateBPM: 240,
			MaxPowerWatts:   2500,
			MaxSpeedKPH:     120.0,
		},
		Aggregation: MetricsAggregationConfig{WeekStartsMonday: true},
	}
}
