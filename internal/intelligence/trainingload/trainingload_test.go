package trainingload_test

import (
	"testing"
	"time"

	"github.com/pierre-mcp/pierre/internal/intelligence/trainingload"
)

func daysAgo(now time.Time, n int) time.Time {
	return now.AddDate(0, 0, -n)
}

func TestDetectInsufficientData(t *testing.T) {
	now := time.Now()
	activities := []trainingload.ActivitySample{{StartTime: now, DurationSec: 1800, Sport: "run"}}
	result := trainingload.Detect(activities, now)
	if !result.InsufficientData {
		t.Fatal("expected InsufficientData with fewer than 14 samples")
	}
}

func TestDetectVolumeSpikeHigh(t *testing.T) {
	now := time.Now()
	var activities []trainingload.ActivitySample
	for i := 0; i < 14; i++ {
		activities = append(activities, trainingload.ActivitySample{
			StartTime: daysAgo(now, i), DurationSec: 3600, Sport: "run", DistanceM: 10000,
		})
	}
	for i := 14; i < 28; i++ {
		activities = append(activities, trainingload.ActivitySample{
			StartTime: daysAgo(now, i), DurationSec: 1000, Sport: "run", DistanceM: 10000,
		})
	}
	result := trainingload.Detect(activities, now)
	if result.VolumeSpikeSeverity != trainingload.SeverityHigh {
		t.Fatalf("expected high volume spike, got %s (%.1f%%)", result.VolumeSpikeSeverity, result.VolumeSpikePercent)
	}
}

func TestDetectConsecutiveDaysHigh(t *testing.T) {
	now := time.Now()
	var activities []trainingload.ActivitySample
	for i := 0; i < 14; i++ {
		activities = append(activities, trainingload.ActivitySample{
			StartTime: daysAgo(now, i), DurationSec: 1800, Sport: "run", DistanceM: 5000,
		})
	}
	result := trainingload.Detect(activities, now)
	if result.InsufficientRecoverySeverity != trainingload.SeverityHigh {
		t.Fatalf("expected high recovery severity, got %s (%d days)", result.InsufficientRecoverySeverity, result.MaxConsecutiveTrainingDays)
	}
}

func TestDetectMonotonyLowVariety(t *testing.T) {
	now := time.Now()
	var activities []trainingload.ActivitySample
	for i := 0; i < 14; i++ {
		activities = append(activities, trainingload.ActivitySample{
			StartTime: daysAgo(now, i*2), DurationSec: 1800, Sport: "run", DistanceM: 5000,
		})
	}
	result := trainingload.Detect(activities, now)
	if result.MonotonySeverity != trainingload.SeverityMedium {
		t.Fatalf("expected medium monotony severity, got %s (variety=%.2f cv=%.2f)",
			result.MonotonySeverity, result.SportVarietyRatio, result.DistanceCoeffVariation)
	}
}
