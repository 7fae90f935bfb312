package tools

import (
	"encoding/json"
	"testing"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/executor"
)

func testDeps(t *testing.T) Deps {
	t.Helper()
	cfg, err := intelligence.Load()
	if err != nil {
		t.Fatalf("intelligence.Load: %v", err)
	}
	return Deps{IntelConfig: func() intelligence.Config { return cfg }}
}

func TestAnalyzeSleepQualityGoodSleep(t *testing.T) {
	deps := testDeps(t)
	params := json.RawMessage(`{
		"sleep_data": {
			"duration_hours": 8.0,
			"efficiency_percent": 92,
			"deep_sleep_hours": 1.5,
			"rem_sleep_hours": 1.8,
			"light_sleep_hours": 4.0,
			"awake_hours": 0.7,
			"hrv_rmssd_ms": 55
		}
	}`)

	out, err := analyzeSleepQuality(deps)(executor.ToolContext{Parameters: params})
	if err != nil {
		t.Fatalf("analyzeSleepQuality: %v", err)
	}

	result := out.(analyzeSleepQualityResult)
	if result.SleepQuality.OverallScore < 80 {
		t.Fatalf("expected overall_score >= 80, got %.1f", result.SleepQuality.OverallScore)
	}
	switch result.SleepQuality.QualityCategory {
	case "good", "excellent":
	default:
		t.Fatalf("expected quality_category good or excellent, got %s", result.SleepQuality.QualityCategory)
	}
}

func TestAnalyzeSleepQualityPoorSleep(t *testing.T) {
	deps := testDeps(t)
	params := json.RawMessage(`{
		"sleep_data": {
			"duration_hours": 5.5,
			"efficiency_percent": 72,
			"deep_sleep_hours": 0.8,
			"rem_sleep_hours": 0.9,
			"awake_hours": 0.8,
			"hrv_rmssd_ms": 35
		}
	}`)

	out, err := analyzeSleepQuality(deps)(executor.ToolContext{Parameters: params})
	if err != nil {
		t.Fatalf("analyzeSleepQuality: %v", err)
	}

	result := out.(analyzeSleepQualityResult)
	if result.SleepQuality.OverallScore >= 70 {
		t.Fatalf("expected overall_score < 70, got %.1f", result.SleepQuality.OverallScore)
	}
	switch result.SleepQuality.QualityCategory {
	case "poor", "fair":
	default:
		t.Fatalf("expected quality_category poor or fair, got %s", result.SleepQuality.QualityCategory)
	}
}

func TestAnalyzeSleepQualityMissingDuration(t *testing.T) {
	deps := testDeps(t)
	params := json.RawMessage(`{"sleep_data": {"efficiency_percent": 90}}`)

	if _, err := analyzeSleepQuality(deps)(executor.ToolContext{Parameters: params}); err == nil {
		t.Fatal("expected an error for missing sleep_data.duration_hours")
	}
}
