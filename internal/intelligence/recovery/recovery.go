// Package recovery implements a recovery scorer.
package recovery

import (
	"github.com/pierre-mcp/pierre/internal/config/intelligence"
)

// TrainingLoad is the CTL/ATL/TSB snapshot feeding the composite score.
type TrainingLoad struct {
	CTL float64
	ATL float64
	TSB float64
}

// Category buckets OverallScore.
type Category string

const (
	CategoryPoor      Category = "poor"
	CategoryFair      Category = "fair"
	CategoryGood      Category = "good"
	CategoryExcellent Category = "excellent"
)

// Readiness classifies how much training load the athlete can absorb today.
type Readiness string

const (
	ReadinessLow      Readiness = "low"
	ReadinessModerate Readiness = "moderate"
	ReadinessHigh     Readiness = "high"
)

// Result is the full recovery-scorer output.
type Result struct {
	OverallScore      float64
	TSBScore          float64
	SleepScore        float64
	HRVScore          *float64
	Category          Category
	TrainingReadiness Readiness
	Recommendations   []string
}

// Score composes tsbScore/sleepScore(/hrvScore) per cfg.RecoveryScoring's
// weight sets, picking the HRV-inclusive weights only when hrvScore != nil.
func Score(cfg intelligence.SleepRecoveryConfig, load TrainingLoad, sleepScore float64, hrvScore *float64) Result {
	tsbScore := tsbToScore(cfg.TrainingStressBalance, load.TSB)

	var overall float64
	if hrvScore != nil {
		w := cfg.RecoveryScoring
		overall = w.TSBWeightFull*tsbScore + w.SleepWeightFull*sleepScore + w.HRVWeightFull*(*hrvScore)
	} else {
		w := cfg.RecoveryScoring
		overall = w.TSBWeightNoHRV*tsbScore + w.SleepWeightNoHRV*sleepScore
	}

	result := Result{
		OverallScore:      overall,
		TSBScore:          tsbScore,
		SleepScore:        sleepScore,
		HRVScore:          hrvScore,
		Category:          categorize(cfg.RecoveryScoring, overall),
		TrainingReadiness: readiness(load.TSB, cfg.TrainingStressBalance),
	}
	result.Recommendations = recommendations(result, load)
	return result
}

// tsbToScore maps raw TSB onto a 0-100 scale using the configured fatigue
// bands: the fresh band scores highest, extremes in either direction
// (highly fatigued or over-detrained) score lowest.
func tsbToScore(cfg intelligence.TsbConfig, tsb float64) float64 {
	switch {
	case tsb <= cfg.HighlyFatiguedTSB:
		return 10
	case tsb <= cfg.FatiguedTSB:
		return 40
	case tsb >= cfg.FreshTSBMin && tsb <= cfg.FreshTSBMax:
		return 100
	case tsb > cfg.FreshTSBMax && tsb < cfg.DetrainingTSB:
		return 75
	case tsb >= cfg.DetrainingTSB:
		return 55
	default:
		return 65
	}
}

func categorize(cfg intelligence.RecoveryScoringConfig, overall float64) Category {
	switch {
	case overall >= cfg.ExcellentThreshold:
		return CategoryExcellent
	case overall >= cfg.GoodThreshold:
		return CategoryGood
	case overall >= cfg.FairThreshold:
		return CategoryFair
	default:
		return CategoryPoor
	}
}

func readiness(tsb float64, cfg intelligence.TsbConfig) Readiness {
	switch {
	case tsb <= cfg.FatiguedTSB:
		return ReadinessLow
	case tsb >= cfg.FreshTSBMin && tsb <= cfg.DetrainingTSB:
		return ReadinessHigh
	default:
		return ReadinessModerate
	}
}

func recommendations(r Result, load TrainingLoad) []string {
	var out []string
	switch r.TrainingReadiness {
	case ReadinessLow:
		out = append(out, "prioritize rest or active recovery today")
	case ReadinessModerate:
		out = append(out, "moderate-intensity training is appropriate")
	case ReadinessHigh:
		out = append(out, "well recovered, a high-intensity session is well tolerated")
	}
	if load.TSB >= 25 {
		out = append(out, "TSB indicates detraining risk, consider increasing load")
	}
	if r.HRVScore != nil && *r.HRVScore < 50 {
		out = append(out, "HRV contribution is low, monitor for overreaching")
	}
	return out
}
