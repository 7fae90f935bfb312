package metrics_test

import (
	"testing"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/intelligence/metrics"
)

func TestCalculateTSSCoggan(t *testing.T) {
	cfg := intelligence.Default().Algorithms
	tss, err := metrics.CalculateTSS(cfg, metrics.TSSInput{DurationSec: 3600, NormalizedPower: 250, FTP: 250})
	if err != nil {
		t.Fatalf("CalculateTSS: %v", err)
	}
	if tss != 100 {
		t.Fatalf("expected TSS 100 for a 1h at-FTP effort, got %.1f", tss)
	}
}

func TestCalculateTSSFallsBackToHRWithoutPower(t *testing.T) {
	cfg := intelligence.Default().Algorithms
	tss, err := metrics.CalculateTSS(cfg, metrics.TSSInput{DurationSec: 3600, AverageHR: 150, ThresholdHR: 150})
	if err != nil {
		t.Fatalf("CalculateTSS: %v", err)
	}
	if tss != 100 {
		t.Fatalf("expected TSS 100 for a 1h at-threshold HR effort, got %.1f", tss)
	}
}

func TestEstimateMaxHRTanaka(t *testing.T) {
	cfg := intelligence.Default().Algorithms
	maxHR, err := metrics.EstimateMaxHR(cfg, 30)
	if err != nil {
		t.Fatalf("EstimateMaxHR: %v", err)
	}
	if maxHR != 208-0.7*30 {
		t.Fatalf("unexpected maxHR %.1f", maxHR)
	}
}

func TestCalculateFitnessScoreBounds(t *testing.T) {
	score := metrics.CalculateFitnessScore(metrics.FitnessScoreInput{CTL: 80, ATL: 80, ConsistencyRatio: 1})
	if score < 0 || score > 100 {
		t.Fatalf("score out of bounds: %.1f", score)
	}
}
