// Package goals implements the fitness goal engine: progress and
// feasibility are pure functions of (current activities in window, target,
// elapsed time).
package goals

import (
	"time"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
)

// Kind tags the variant of goal target.
type Kind string

const (
	KindDistance    Kind = "distance"
	KindTime        Kind = "time"
	KindFrequency   Kind = "frequency"
	KindPerformance Kind = "performance"
	KindCustom      Kind = "custom"
)

// State is a goal's lifecycle state.
type State string

const (
	StateActive   State = "active"
	StateAchieved State = "achieved"
	StatePaused   State = "paused"
	StateFailed   State = "failed"
)

// Goal is one tracked target.
type Goal struct {
	Kind           Kind
	Sport          string
	TargetValue    float64
	Unit           string
	SessionsPerWeek int
	StartDate      time.Time
	Deadline       time.Time
	State          State
}

// Progress is the goal engine's pure progress computation over a window of
// already-accumulated values (distance meters, seconds, session count, or a
// custom metric — whichever Kind dictates).
type Progress struct {
	CurrentValue     float64
	TargetValue      float64
	PercentComplete  float64
	ProjectedFinal   float64
	OnPace           bool
}

// ComputeProgress projects currentValue at the window's elapsed fraction
// forward to the deadline using a constant-pace assumption.
func ComputeProgress(goal Goal, currentValue float64, asOf time.Time) Progress {
	total := goal.Deadline.Sub(goal.StartDate)
	elapsed := asOf.Sub(goal.StartDate)
	if total <= 0 {
		total = time.Hour
	}
	elapsedFraction := clamp01(elapsed.Seconds() / total.Seconds())

	var projected float64
	if elapsedFraction > 0 {
		projected = currentValue / elapsedFraction
	} else {
		projected = currentValue
	}

	pct := 0.0
	if goal.TargetValue != 0 {
		pct = clamp01(currentValue/goal.TargetValue) * 100
	}

	return Progress{
		CurrentValue:    currentValue,
		TargetValue:     goal.TargetValue,
		PercentComplete: pct,
		ProjectedFinal:  projected,
		OnPace:          projected >= goal.TargetValue,
	}
}

// Feasibility is the outcome of AnalyzeFeasibility.
type Feasibility struct {
	Achievable        bool
	RequiredWeeklyRate float64
	CurrentWeeklyRate  float64
	IncreasePercent    float64
}

// AnalyzeFeasibility compares the pace required to hit goal.TargetValue by
// the deadline against the athlete's currently observed weekly rate,
// flagging infeasibility when the required increase exceeds
// cfg.FeasibilityLimits.MaxWeeklyIncreasePercent.
func AnalyzeFeasibility(cfg intelligence.GoalEngineConfig, goal Goal, currentValue float64, currentWeeklyRate float64, asOf time.Time) Feasibility {
	remaining := goal.TargetValue - currentValue
	weeksLeft := goal.Deadline.Sub(asOf).Hours() / (24 * 7)
	if weeksLeft <= 0 {
		weeksLeft = 1
	}
	requiredRate := remaining / weeksLeft

	increasePct := 0.0
	if currentWeeklyRate > 0 {
		increasePct = (requiredRate/currentWeeklyRate - 1) * 100
	} else if requiredRate > 0 {
		increasePct = 100
	}

	return Feasibility{
		Achievable:         increasePct <= cfg.FeasibilityLimits.MaxWeeklyIncreasePercent,
		RequiredWeeklyRate: requiredRate,
		CurrentWeeklyRate:  currentWeeklyRate,
		IncreasePercent:    increasePct,
	}
}

// SuggestGoals generates up to cfg.Suggestion.MaxSuggestions candidate
// goals scaled off the athlete's current weekly rate for sport, split across
// the configured easy/medium/hard difficulty distribution.
func SuggestGoals(cfg intelligence.GoalEngineConfig, sport string, currentWeeklyRate float64, now time.Time) []Goal {
	tiers := []struct {
		pct   float64
		weeks int
	}{
		{cfg.Feasibility.EasyPercent, cfg.Timeframe.MinWeeks},
		{cfg.Feasibility.MediumPercent, (cfg.Timeframe.MinWeeks + cfg.Timeframe.MaxWeeks) / 2},
		{cfg.Feasibility.HardPercent, cfg.Timeframe.MaxWeeks},
	}

	max := cfg.Suggestion.MaxSuggestions
	if max <= 0 || max > len(tiers) {
		max = len(tiers)
	}

	goals := make([]Goal, 0, max)
	for i := 0; i < max; i++ {
		t := tiers[i]
		target := currentWeeklyRate * float64(t.weeks) * (1 + t.pct)
		goals = append(goals, Goal{
			Kind:        KindDistance,
			Sport:       sport,
			TargetValue: target,
			StartDate:   now,
			Deadline:    now.AddDate(0, 0, t.weeks*7),
			State:       StateActive,
		})
	}
	return goals
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
