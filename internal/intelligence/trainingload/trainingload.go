// Package trainingload implements an overtraining detector:
// volume-spike, insufficient-recovery, and monotony signals over a window of
// activities.
package trainingload

import (
	"math"
	"time"
)

// Severity buckets a detected risk signal.
type Severity string

const (
	SeverityNone   Severity = "none"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// ActivitySample is the minimal shape the detector needs from an activity.
type ActivitySample struct {
	StartTime   time.Time
	DurationSec int
	Sport       string
	DistanceM   float64
}

// Result is the full detector output.
type Result struct {
	VolumeSpikePercent      float64
	VolumeSpikeSeverity     Severity
	MaxConsecutiveTrainingDays int
	InsufficientRecoverySeverity Severity
	SportVarietyRatio       float64
	DistanceCoeffVariation  float64
	MonotonySeverity        Severity
	InsufficientData        bool
}

// minSamplesForVolumeSpike is the minimum sample count for a volume-spike signal.
const minSamplesForVolumeSpike = 14

// Detect analyzes activities (any order) as of now.
func Detect(activities []ActivitySample, now time.Time) Result {
	if len(activities) < minSamplesForVolumeSpike {
		return Result{InsufficientData: true}
	}

	spikePct := volumeSpikePercent(activities, now)
	consecutive := maxConsecutiveTrainingDays(activities, now)
	variety, cv := monotonySignals(activities)

	return Result{
		VolumeSpikePercent:           spikePct,
		VolumeSpikeSeverity:          volumeSpikeSeverity(spikePct),
		MaxConsecutiveTrainingDays:   consecutive,
		InsufficientRecoverySeverity: recoverySeverity(consecutive),
		SportVarietyRatio:            variety,
		DistanceCoeffVariation:       cv,
		MonotonySeverity:             monotonySeverity(variety, cv),
	}
}

func volumeSpikePercent(activities []ActivitySample, now time.Time) float64 {
	var last14, prev14 int
	for _, a := range activities {
		daysAgo := now.Sub(a.StartTime).Hours() / 24
		switch {
		case daysAgo >= 0 && daysAgo < 14:
			last14 += a.DurationSec
		case daysAgo >= 14 && daysAgo < 28:
			prev14 += a.DurationSec
		}
	}
	if prev14 == 0 {
		if last14 == 0 {
			return 0
		}
		return 100
	}
	return (float64(last14)/float64(prev14) - 1) * 100
}

func volumeSpikeSeverity(pct float64) Severity {
	switch {
	case pct > 50:
		return SeverityHigh
	case pct > 30:
		return SeverityMedium
	default:
		return SeverityNone
	}
}

// lookbackDays bounds how far back the consecutive-day streak scan looks.
const lookbackDays = 90

func maxConsecutiveTrainingDays(activities []ActivitySample, now time.Time) int {
	trained := map[string]bool{}
	for _, a := range activities {
		trained[a.StartTime.Format("2006-01-02")] = true
	}

	max, run := 0, 0
	for i := 0; i < lookbackDays; i++ {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		if trained[day] {
			run++
			if run > max {
				max = run
			}
		} else {
			run = 0
		}
	}
	return max
}

func recoverySeverity(consecutiveDays int) Severity {
	switch {
	case consecutiveDays >= 10:
		return SeverityHigh
	case consecutiveDays >= 7:
		return SeverityMedium
	default:
		return SeverityNone
	}
}

func monotonySignals(activities []ActivitySample) (varietyRatio, coeffVariation float64) {
	sports := map[string]int{}
	distances := make([]float64, 0, len(activities))
	for _, a := range activities {
		sports[a.Sport]++
		distances = append(distances, a.DistanceM)
	}
	varietyRatio = float64(len(sports)) / float64(len(activities))

	mean := 0.0
	for _, d := range distances {
		mean += d
	}
	mean /= float64(len(distances))
	if mean == 0 {
		return varietyRatio, 0
	}

	var variance float64
	for _, d := range distances {
		variance += (d - mean) * (d - mean)
	}
	variance /= float64(len(distances))
	coeffVariation = math.Sqrt(variance) / mean
	return varietyRatio, coeffVariation
}

// Low variety and low distance variability together indicate monotonous
// training, a secondary overtraining risk factor.
const (
	lowVarietyThreshold = 0.25
	lowCVThreshold       = 0.15
)

func monotonySeverity(varietyRatio, coeffVariation float64) Severity {
	if varietyRatio <= lowVarietyThreshold && coeffVariation <= lowCVThreshold {
		return SeverityMedium
	}
	return SeverityNone
}
