package sleep_test

import (
	"testing"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/intelligence/sleep"
)

func testConfig(t *testing.T) intelligence.SleepRecoveryConfig {
	t.Helper()
	cfg, err := intelligence.Load()
	if err != nil {
		t.Fatalf("intelligence.Load: %v", err)
	}
	return cfg.SleepRecovery
}

func TestAnalyzeExcellentSession(t *testing.T) {
	cfg := testConfig(t)
	result := sleep.Analyze(cfg, sleep.Session{
		DurationHours: 8,
		EfficiencyPct: 92,
		DeepPct:       18,
		RemPct:        22,
		LightPct:      50,
		AwakePct:      3,
	})
	if result.QualityCategory != sleep.QualityExcellent {
		t.Fatalf("expected excellent, got %s (score %.1f)", result.QualityCategory, result.OverallScore)
	}
}

func TestAnalyzePoorSession(t *testing.T) {
	cfg := testConfig(t)
	result := sleep.Analyze(cfg, sleep.Session{
		DurationHours: 3,
		EfficiencyPct: 60,
		DeepPct:       5,
		RemPct:        10,
		LightPct:      60,
		AwakePct:      20,
	})
	if result.QualityCategory != sleep.QualityPoor {
		t.Fatalf("expected poor, got %s (score %.1f)", result.QualityCategory, result.OverallScore)
	}
	if len(result.Insights) == 0 {
		t.Fatal("expected insights for a poor session")
	}
}

func TestAnalyzeHRVDeviation(t *testing.T) {
	cfg := testConfig(t)
	baseline := 60.0
	rmssd := 45.0
	result := sleep.Analyze(cfg, sleep.Session{
		DurationHours: 8, EfficiencyPct: 90, DeepPct: 18, RemPct: 22, LightPct: 50, AwakePct: 4,
		HRVRmssd: &rmssd, HRVBaseline: &baseline,
	})
	if result.HRVAnalysis == nil {
		t.Fatal("expected HRVAnalysis to be populated")
	}
	if !result.HRVAnalysis.Concerning {
		t.Fatalf("expected concerning deviation, got %.1f%%", result.HRVAnalysis.DeviationPercent)
	}
}
