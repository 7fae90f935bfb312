package trends_test

import (
	"testing"
	"time"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/intelligence/trends"
)

func points(n int, base time.Time, valueAt func(i int) float64) []trends.Point {
	out := make([]trends.Point, n)
	for i := 0; i < n; i++ {
		out[i] = trends.Point{When: base.AddDate(0, 0, i), Value: valueAt(i)}
	}
	return out
}

func TestAnalyzeImprovingTrend(t *testing.T) {
	cfg := intelligence.Default().PerformanceAnalyzer
	base := time.Now().AddDate(0, 0, -30)
	pts := points(10, base, func(i int) float64 { return 100 + float64(i)*5 })

	result := trends.Analyze(cfg, pts)
	if result.Direction != trends.DirectionImproving {
		t.Fatalf("expected improving, got %s (slope %.2f)", result.Direction, result.Slope)
	}
}

func TestAnalyzeStableTrend(t *testing.T) {
	cfg := intelligence.Default().PerformanceAnalyzer
	base := time.Now().AddDate(0, 0, -30)
	pts := points(10, base, func(i int) float64 { return 100 })

	result := trends.Analyze(cfg, pts)
	if result.Direction != trends.DirectionStable {
		t.Fatalf("expected stable, got %s (slope %.2f)", result.Direction, result.Slope)
	}
}

func TestAnalyzeInsufficientData(t *testing.T) {
	cfg := intelligence.Default().PerformanceAnalyzer
	pts := points(2, time.Now(), func(i int) float64 { return 100 })

	result := trends.Analyze(cfg, pts)
	if !result.InsufficientData {
		t.Fatal("expected InsufficientData with fewer points than MinDataPoints")
	}
}
