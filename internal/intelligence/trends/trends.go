// Package trends implements a performance trend analyzer:
// per-metric linear regression over a timeframe, classified into a
// direction with a strength and significance score.
package trends

import (
	"math"
	"time"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
)

// TimeFrame names the window a trend is computed over.
type TimeFrame string

const (
	TimeFrameWeek       TimeFrame = "week"
	TimeFrameMonth      TimeFrame = "month"
	TimeFrameQuarter    TimeFrame = "quarter"
	TimeFrameSixMonths  TimeFrame = "six_months"
	TimeFrameYear       TimeFrame = "year"
	TimeFrameCustom     TimeFrame = "custom"
)

// Direction classifies a regression slope.
type Direction string

const (
	DirectionImproving Direction = "improving"
	DirectionStable    Direction = "stable"
	DirectionDeclining Direction = "declining"
)

// Point is one (time, metric value) sample.
type Point struct {
	When  time.Time
	Value float64
}

// Result is one metric's trend analysis.
type Result struct {
	Direction       Direction
	Slope           float64
	RSquared        float64
	PValue          float64
	Strength        float64
	Significant     bool
	InsufficientData bool
}

// Analyze fits an ordinary-least-squares line to points (x = days since
// first sample, y = metric value) and classifies its slope as a percentage
// change in the mean value per day.
func Analyze(cfg intelligence.PerformanceAnalyzerConfig, points []Point) Result {
	if len(points) < cfg.Trend.MinDataPoints {
		return Result{InsufficientData: true}
	}

	xs := make([]float64, len(points))
	ys := make([]float64, len(points))
	first := points[0].When
	for i, p := range points {
		xs[i] = p.When.Sub(first).Hours() / 24
		ys[i] = p.Value
	}

	slope, _, rSquared := linearRegression(xs, ys)
	pValue := significanceFromR2(rSquared, len(points))

	meanY := mean(ys)
	slopePct := 0.0
	if meanY != 0 {
		slopePct = slope / meanY * 100
	}

	return Result{
		Direction:   classify(cfg.Thresholds, slopePct),
		Slope:       slope,
		RSquared:    rSquared,
		PValue:      pValue,
		Strength:    clamp01(rSquared),
		Significant: pValue <= (1 - cfg.Statistics.ConfidenceLevel),
	}
}

func classify(cfg intelligence.PerformanceThresholds, slopePct float64) Direction {
	switch {
	case slopePct >= cfg.ImprovingSlopePct:
		return DirectionImproving
	case slopePct <= cfg.DecliningSlopePct:
		return DirectionDeclining
	default:
		return DirectionStable
	}
}

func linearRegression(xs, ys []float64) (slope, intercept, rSquared float64) {
	n := float64(len(xs))
	meanX, meanY := mean(xs), mean(ys)

	var numerator, denominator float64
	for i := range xs {
		dx := xs[i] - meanX
		numerator += dx * (ys[i] - meanY)
		denominator += dx * dx
	}
	if denominator == 0 {
		return 0, meanY, 0
	}
	slope = numerator / denominator
	intercept = meanY - slope*meanX

	var ssRes, ssTot float64
	for i := range xs {
		predicted := slope*xs[i] + intercept
		ssRes += (ys[i] - predicted) * (ys[i] - predicted)
		ssTot += (ys[i] - meanY) * (ys[i] - meanY)
	}
	if ssTot == 0 {
		rSquared = 0
	} else {
		rSquared = 1 - ssRes/ssTot
	}
	_ = n
	return slope, intercept, rSquared
}

// significanceFromR2 approximates a p-value against the null hypothesis of
// no slope: higher R² with more samples is treated as stronger evidence.
// This is a monotonic approximation, not a full t-distribution computation,
// sufficient for the low/high significance bucketing callers need.
func significanceFromR2(rSquared float64, n int) float64 {
	if n <= 2 {
		return 1
	}
	strength := rSquared * math.Sqrt(float64(n-2))
	return clamp01(1 / (1 + strength))
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	var sum float64
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
