package recovery_test

import (
	"testing"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/intelligence/recovery"
)

func TestScoreFreshTSBWithoutHRV(t *testing.T) {
	cfg := intelligence.Default().SleepRecovery
	result := recovery.Score(cfg, recovery.TrainingLoad{CTL: 80, ATL: 75, TSB: 0}, 90, nil)
	if result.TrainingReadiness != recovery.ReadinessHigh {
		t.Fatalf("expected high readiness, got %s", result.TrainingReadiness)
	}
	if result.HRVScore != nil {
		t.Fatal("expected nil HRVScore when not supplied")
	}
}

func TestScoreHighlyFatiguedWithHRV(t *testing.T) {
	cfg := intelligence.Default().SleepRecovery
	hrv := 40.0
	result := recovery.Score(cfg, recovery.TrainingLoad{CTL: 90, ATL: 120, TSB: -35}, 50, &hrv)
	if result.TrainingReadiness != recovery.ReadinessLow {
		t.Fatalf("expected low readiness, got %s", result.TrainingReadiness)
	}
	if result.Category != recovery.CategoryPoor {
		t.Fatalf("expected poor category, got %s (score %.1f)", result.Category, result.OverallScore)
	}
}
