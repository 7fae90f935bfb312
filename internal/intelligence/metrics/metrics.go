// Package metrics derives per-activity training metrics (TSS, max heart
// rate estimate, fitness score) using the algorithm variant selected by
// intelligence.AlgorithmConfig.
package metrics

import (
	"math"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/config/intelligence"
)

// TSSInput is what every supported TSS formula needs, with fields left zero
// when the source activity lacks power or doesn't supply an FTP.
type TSSInput struct {
	DurationSec      int
	NormalizedPower  float64 // watts, Coggan formula only
	FTP              float64 // watts, Coggan formula only
	AverageHR        float64 // bpm, HR-based fallback
	ThresholdHR      float64 // bpm, HR-based fallback
}

// CalculateTSS computes Training Stress Score per cfg.Algorithms.TSS.
func CalculateTSS(cfg intelligence.AlgorithmConfig, in TSSInput) (float64, error) {
	switch cfg.TSS {
	case "coggan":
		if in.FTP <= 0 || in.NormalizedPower <= 0 {
			return hrBasedTSS(in), nil
		}
		intensityFactor := in.NormalizedPower / in.FTP
		hours := float64(in.DurationSec) / 3600
		return hours * intensityFactor * intensityFactor * 100, nil
	case "hr_based":
		return hrBasedTSS(in), nil
	default:
		return 0, apperr.New(apperr.KindConfig, "unknown TSS algorithm "+cfg.TSS)
	}
}

func hrBasedTSS(in TSSInput) float64 {
	if in.ThresholdHR <= 0 || in.AverageHR <= 0 {
		return 0
	}
	hours := float64(in.DurationSec) / 3600
	intensityFactor := in.AverageHR / in.ThresholdHR
	return hours * intensityFactor * intensityFactor * 100
}

// EstimateMaxHR computes a max-heart-rate estimate per cfg.Algorithms.MaxHR.
func EstimateMaxHR(cfg intelligence.AlgorithmConfig, ageYears int) (float64, error) {
	switch cfg.MaxHR {
	case "tanaka":
		return 208 - 0.7*float64(ageYears), nil
	case "fox":
		return 220 - float64(ageYears), nil
	case "gellish":
		return 207 - 0.7*float64(ageYears), nil
	default:
		return 0, apperr.New(apperr.KindConfig, "unknown MaxHR algorithm "+cfg.MaxHR)
	}
}

// FitnessScoreInput summarizes a rolling training-load window into the
// inputs a composite fitness score needs.
type FitnessScoreInput struct {
	CTL        float64 // chronic training load
	ATL        float64 // acute training load
	ConsistencyRatio float64 // fraction of planned sessions completed, [0,1]
}

// CalculateFitnessScore blends chronic load (fitness), the ATL/CTL ratio
// (freshness), and session consistency into a single 0-100 score.
func CalculateFitnessScore(in FitnessScoreInput) float64 {
	fitnessComponent := clamp(in.CTL/100*100, 0, 100)
	freshnessComponent := 100.0
	if in.CTL > 0 {
		ratio := in.ATL / in.CTL
		freshnessComponent = clamp(100-math.Abs(ratio-1)*50, 0, 100)
	}
	consistencyComponent := clamp(in.ConsistencyRatio*100, 0, 100)

	return 0.5*fitnessComponent + 0.3*freshnessComponent + 0.2*consistencyComponent
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
