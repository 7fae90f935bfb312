// Package intelligence holds the validated configuration surface for every
// analysis engine under internal/intelligence: recommendation thresholds and
// weights, performance trend analysis, goal feasibility, weather impact,
// activity zones, metrics validation, sleep and recovery scoring, nutrition,
// and algorithm selection.
package intelligence

import (
	"fmt"
	"sync/atomic"
)

// Config is the full intelligence configuration container.
type Config struct {
	RecommendationEngine RecommendationEngineConfig
	PerformanceAnalyzer  PerformanceAnalyzerConfig
	GoalEngine           GoalEngineConfig
	WeatherAnalysis      WeatherAnalysisConfig
	ActivityAnalyzer     ActivityAnalyzerConfig
	Metrics              MetricsConfig
	SleepRecovery        SleepRecoveryConfig
	Nutrition            NutritionConfig
	Algorithms           AlgorithmConfig
}

// Default returns the baseline intelligence configuration. It is guaranteed
// to pass Validate — enforced by TestDefaultsPassValidation — so Load can
// always fall back to it.
func Default() Config {
	return Config{
		RecommendationEngine: defaultRecommendationEngineConfig(),
		PerformanceAnalyzer:  defaultPerformanceAnalyzerConfig(),
		GoalEngine:           defaultGoalEngineConfig(),
		WeatherAnalysis:      defaultWeatherAnalysisConfig(),
		ActivityAnalyzer:     defaultActivityAnalyzerConfig(),
		Metrics:              defaultMetricsConfig(),
		SleepRecovery:        defaultSleepRecoveryConfig(),
		Nutrition:            defaultNutritionConfig(),
		Algorithms:           defaultAlgorithmConfig(),
	}
}

// Load builds a Config from the environment: start from Default, apply
// every INTELLIGENCE_*/PIERRE_*_ALGORITHM override present in the
// environment, then validate. If the overridden config fails validation,
// the caller should fall back to Default() (itself re-validated) rather
// than run with a partially-applied, invalid configuration.
func Load() (Config, error) {
	cfg := Default()
	if err := applyEnvOverrides(&cfg); err != nil {
		return Config{}, fmt.Errorf("applying intelligence config env overrides: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("validating intelligence config: %w", err)
	}
	return cfg, nil
}

var global atomic.Pointer[Config]

// Init loads the process-wide intelligence configuration once at startup. If
// env-driven Load fails, it falls back to Default — and if Default itself
// somehow fails validation, that is a fatal programming error, not a
// silently-degraded singleton.
func Init() error {
	cfg, err := Load()
	if err != nil {
		def := Default()
		if verr := def.Validate(); verr != nil {
			return fmt.Errorf("default intelligence config failed validation: %w", verr)
		}
		cfg = def
	}
	global.Store(&cfg)
	return nil
}

// Get returns the process-wide intelligence configuration. It panics if
// called before Init — every engine that reads it runs after server
// startup, where Init is guaranteed to have run.
func Get() *Config {
	cfg := global.Load()
	if cfg == nil {
		panic("intelligence: Get called before Init")
	}
	return cfg
}
