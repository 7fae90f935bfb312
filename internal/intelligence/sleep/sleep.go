// Package sleep implements a sleep-quality analyzer: a pure
// function over one sleep session and the process-wide intelligence config.
package sleep

import (
	"math"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
)

// Session is one night's sleep payload, as supplied by a provider adapter or
// a tool caller. Not persisted by core.
type Session struct {
	DurationHours    float64
	EfficiencyPct    float64
	DeepPct          float64
	RemPct           float64
	LightPct         float64
	AwakePct         float64
	HRVRmssd         *float64
	HRVBaseline      *float64
	IsAthlete        bool
}

// QualityCategory buckets OverallScore.
type QualityCategory string

const (
	QualityPoor      QualityCategory = "poor"
	QualityFair      QualityCategory = "fair"
	QualityGood      QualityCategory = "good"
	QualityExcellent QualityCategory = "excellent"
)

// ComponentScores is the 0-100 contribution of each scored dimension.
type ComponentScores struct {
	Duration  float64
	Efficiency float64
	Stages    float64
	Awake     float64
}

// HRVAnalysis is present only when both HRVRmssd and HRVBaseline are set.
type HRVAnalysis struct {
	DeviationPercent float64
	Concerning       bool
	Improving        bool
}

// Result is the full analyzer output.
type Result struct {
	OverallScore     float64
	QualityCategory  QualityCategory
	ComponentScores  ComponentScores
	HRVAnalysis      *HRVAnalysis
	Insights         []string
}

// weight of each component in the overall score; sums to 1.0.
const (
	weightDuration   = 0.30
	weightEfficiency = 0.25
	weightStages     = 0.30
	weightAwake      = 0.15
)

// Analyze scores one sleep session against cfg's configured bands.
func Analyze(cfg intelligence.SleepRecoveryConfig, s Session) Result {
	components := ComponentScores{
		Duration:   durationScore(cfg.SleepDuration, s),
		Efficiency: efficiencyScore(cfg.SleepEfficiency, s.EfficiencyPct),
		Stages:     stagesScore(cfg.SleepStages, s),
		Awake:      awakeScore(cfg.SleepStages, s.AwakePct),
	}

	overall := weightDuration*components.Duration +
		weightEfficiency*components.Efficiency +
		weightStages*components.Stages +
		weightAwake*components.Awake

	var hrv *HRVAnalysis
	if s.HRVRmssd != nil && s.HRVBaseline != nil && *s.HRVBaseline != 0 {
		deviation := (*s.HRVRmssd - *s.HRVBaseline) / *s.HRVBaseline * 100
		hrv = &HRVAnalysis{
			DeviationPercent: deviation,
			Concerning:       deviation <= cfg.HRV.RmssdDecreaseConcernThreshold,
			Improving:        deviation >= cfg.HRV.RmssdIncreaseGoodThreshold,
		}
	}

	return Result{
		OverallScore:    clamp(overall, 0, 100),
		QualityCategory: categorize(cfg.SleepEfficiency, overall),
		ComponentScores: components,
		HRVAnalysis:     hrv,
		Insights:        buildInsights(cfg, s, components, hrv),
	}
}

func durationScore(cfg intelligence.SleepDurationConfig, s Session) float64 {
	min, max := cfg.AdultMinHours, cfg.AdultMaxHours
	if s.IsAthlete {
		min, max = cfg.AthleteMinHours, cfg.AthleteOptimalHours
	}
	switch {
	case s.DurationHours >= min && s.DurationHours <= max:
		return 100
	case s.DurationHours < cfg.VeryShortSleepThreshold:
		return 20
	case s.DurationHours < cfg.ShortSleepThreshold:
		return 50
	default:
		// Linear falloff for distance outside the band, floored at 40.
		distance := math.Min(math.Abs(s.DurationHours-min), math.Abs(s.DurationHours-max))
		return clamp(100-distance*15, 40, 100)
	}
}

func efficiencyScore(cfg intelligence.SleepEfficiencyConfig, pct float64) float64 {
	switch {
	case pct >= cfg.ExcellentThreshold:
		return 100
	case pct >= cfg.GoodThreshold:
		return 80
	case pct >= cfg.PoorThreshold:
		return 55
	default:
		return 25
	}
}

func stagesScore(cfg intelligence.SleepStagesConfig, s Session) float64 {
	score := 100.0
	if s.DeepPct < cfg.DeepSleepMinPercent || s.DeepPct > cfg.DeepSleepMaxPercent {
		score -= 20
	}
	if s.RemPct < cfg.RemSleepMinPercent || s.RemPct > cfg.RemSleepMaxPercent {
		score -= 20
	}
	if s.LightPct < cfg.LightSleepMinPercent || s.LightPct > cfg.LightSleepMaxPercent {
		score -= 10
	}
	return clamp(score, 0, 100)
}

func awakeScore(cfg intelligence.SleepStagesConfig, awakePct float64) float64 {
	switch {
	case awakePct <= cfg.AwakeTimeHealthyPercent:
		return 100
	case awakePct <= cfg.AwakeTimeAcceptablePercent:
		return 65
	default:
		return 30
	}
}

func categorize(cfg intelligence.SleepEfficiencyConfig, overall float64) QualityCategory {
	switch {
	case overall >= cfg.ExcellentThreshold:
		return QualityExcellent
	case overall >= cfg.GoodThreshold:
		return QualityGood
	case overall >= cfg.PoorThreshold:
		return QualityFair
	default:
		return QualityPoor
	}
}

func buildInsights(cfg intelligence.SleepRecoveryConfig, s Session, c ComponentScores, hrv *HRVAnalysis) []string {
	var insights []string
	if c.Duration < 70 {
		insights = append(insights, "sleep duration outside the healthy band")
	}
	if c.Efficiency < 70 {
		insights = append(insights, "sleep efficiency below the good threshold")
	}
	if s.DeepPct < cfg.SleepStages.DeepSleepMinPercent {
		insights = append(insights, "deep sleep percentage below recommended minimum")
	}
	if s.AwakePct > cfg.SleepStages.AwakeTimeAcceptablePercent {
		insights = append(insights, "elevated time awake during the night")
	}
	if hrv != nil && hrv.Concerning {
		insights = append(insights, "HRV meaningfully below baseline, consider a lighter training day")
	}
	return insights
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
