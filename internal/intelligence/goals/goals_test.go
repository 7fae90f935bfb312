package goals_test

import (
	"testing"
	"time"

	"github.com/pierre-mcp/pierre/internal/config/intelligence"
	"github.com/pierre-mcp/pierre/internal/intelligence/goals"
)

func TestComputeProgressOnPace(t *testing.T) {
	now := time.Now()
	goal := goals.Goal{
		TargetValue: 100,
		StartDate:   now.AddDate(0, 0, -10),
		Deadline:    now.AddDate(0, 0, 10),
	}
	progress := goals.ComputeProgress(goal, 50, now)
	if !progress.OnPace {
		t.Fatalf("expected on-pace, got projected %.1f vs target %.1f", progress.ProjectedFinal, goal.TargetValue)
	}
	if progress.PercentComplete != 50 {
		t.Fatalf("expected 50%% complete, got %.1f", progress.PercentComplete)
	}
}

func TestComputeProgressOffPace(t *testing.T) {
	now := time.Now()
	goal := goals.Goal{
		TargetValue: 100,
		StartDate:   now.AddDate(0, 0, -10),
		Deadline:    now.AddDate(0, 0, 10),
	}
	progress := goals.ComputeProgress(goal, 10, now)
	if progress.OnPace {
		t.Fatal("expected off-pace for low current value")
	}
}

func TestAnalyzeFeasibilityUnreasonableIncrease(t *testing.T) {
	cfg := intelligence.Default().GoalEngine
	now := time.Now()
	goal := goals.Goal{TargetValue: 1000, Deadline: now.AddDate(0, 0, 7)}
	feasibility := goals.AnalyzeFeasibility(cfg, goal, 0, 10, now)
	if feasibility.Achievable {
		t.Fatalf("expected infeasible goal, got increase %.1f%%", feasibility.IncreasePercent)
	}
}

func TestSuggestGoalsRespectsMaxSuggestions(t *testing.T) {
	cfg := intelligence.Default().GoalEngine
	suggestions := goals.SuggestGoals(cfg, "run", 20000, time.Now())
	if len(suggestions) > cfg.Suggestion.MaxSuggestions {
		t.Fatalf("expected at most %d suggestions, got %d", cfg.Suggestion.MaxSuggestions, len(suggestions))
	}
}
