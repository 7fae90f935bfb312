package tools

import (
	"time"

	"github.com/google/uuid"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/intelligence/goals"
	"github.com/pierre-mcp/pierre/internal/storage"
)

var setGoalSchema = mustSchema(map[string]any{
	"kind":              goalKindProp(),
	"sport":             map[string]any{"type": "string", "description": "Sport this goal tracks, e.g. running, cycling."},
	"target_value":      map[string]any{"type": "number", "description": "Target value in unit."},
	"unit":              map[string]any{"type": "string", "description": "Unit of target_value, e.g. meters, minutes, sessions."},
	"sessions_per_week": map[string]any{"type": "integer", "description": "Target weekly session count, for frequency goals."},
	"deadline":          map[string]any{"type": "string", "format": "date-time"},
}, "kind", "sport", "target_value", "unit", "deadline")

var trackProgressSchema = mustSchema(map[string]any{
	"goal_id":       map[string]any{"type": "string", "format": "uuid"},
	"current_value": map[string]any{"type": "number", "description": "Athlete's current accumulated value toward the target."},
}, "goal_id", "current_value")

var suggestGoalsSchema = mustSchema(map[string]any{
	"sport":               map[string]any{"type": "string"},
	"current_weekly_rate": map[string]any{"type": "number", "description": "Current weekly rate in the goal's unit, used to scale suggested targets."},
}, "sport", "current_weekly_rate")

var analyzeGoalFeasibilitySchema = mustSchema(map[string]any{
	"goal_id":             map[string]any{"type": "string", "format": "uuid"},
	"current_value":       map[string]any{"type": "number"},
	"current_weekly_rate": map[string]any{"type": "number"},
}, "goal_id", "current_value", "current_weekly_rate")

func registerGoalTools(ex *executor.Executor, deps Deps) {
	ex.Register(executor.Tool{
		Name:        "set_goal",
		Description: "Creates a tracked fitness goal for the authenticated user.",
		Schema:      setGoalSchema,
		Execute:     setGoal(deps),
	})
	ex.Register(executor.Tool{
		Name:        "track_progress",
		Description: "Projects a goal's progress to its deadline given the athlete's current accumulated value.",
		Schema:      trackProgressSchema,
		Execute:     trackProgress(deps),
	})
	ex.Register(executor.Tool{
		Name:        "suggest_goals",
		Description: "Suggests easy/medium/hard candidate goals scaled off the athlete's current weekly rate.",
		Schema:      suggestGoalsSchema,
		Execute:     suggestGoals(deps),
	})
	ex.Register(executor.Tool{
		Name:        "analyze_goal_feasibility",
		Description: "Checks whether hitting a goal by its deadline requires an unreasonable pace increase.",
		Schema:      analyzeGoalFeasibilitySchema,
		Execute:     analyzeGoalFeasibility(deps),
	})
}

func goalToStorage(g goals.Goal, userID, tenantID uuid.UUID) storage.Goal {
	return storage.Goal{
		UserID:          userID,
		TenantID:        tenantID,
		Kind:            string(g.Kind),
		Sport:           g.Sport,
		TargetValue:     g.TargetValue,
		Unit:            g.Unit,
		SessionsPerWeek: g.SessionsPerWeek,
		StartDate:       g.StartDate,
		Deadline:        g.Deadline,
		State:           string(g.State),
	}
}

func goalFromStorage(g storage.Goal) goals.Goal {
	return goals.Goal{
		Kind:            goals.Kind(g.Kind),
		Sport:           g.Sport,
		TargetValue:     g.TargetValue,
		Unit:            g.Unit,
		SessionsPerWeek: g.SessionsPerWeek,
		StartDate:       g.StartDate,
		Deadline:        g.Deadline,
		State:           goals.State(g.State),
	}
}

type setGoalParams struct {
	Kind            string    `json:"kind"`
	Sport           string    `json:"sport"`
	TargetValue     float64   `json:"target_value"`
	Unit            string    `json:"unit"`
	SessionsPerWeek int       `json:"sessions_per_week"`
	Deadline        time.Time `json:"deadline"`
}

func setGoal(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params setGoalParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		if params.Deadline.IsZero() {
			return nil, apperr.New(apperr.KindValidation, "deadline is required")
		}

		g := goals.Goal{
			Kind:            goals.Kind(params.Kind),
			Sport:           params.Sport,
			TargetValue:     params.TargetValue,
			Unit:            params.Unit,
			SessionsPerWeek: params.SessionsPerWeek,
			StartDate:       time.Now().UTC(),
			Deadline:        params.Deadline,
			State:           goals.StateActive,
		}
		return deps.Store.CreateGoal(tc.Context, goalToStorage(g, tc.User.ID, tc.TenantID))
	}
}

type trackProgressParams struct {
	GoalID       uuid.UUID `json:"goal_id"`
	CurrentValue float64   `json:"current_value"`
}

func trackProgress(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params trackProgressParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		stored, err := deps.Store.GetGoal(tc.Context, tc.User.ID, params.GoalID)
		if err != nil {
			return nil, err
		}
		return goals.ComputeProgress(goalFromStorage(stored), params.CurrentValue, time.Now().UTC()), nil
	}
}

type suggestGoalsParams struct {
	Sport             string  `json:"sport"`
	CurrentWeeklyRate float64 `json:"current_weekly_rate"`
}

func suggestGoals(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params suggestGoalsParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		return goals.SuggestGoals(deps.IntelConfig().GoalEngine, params.Sport, params.CurrentWeeklyRate, time.Now().UTC()), nil
	}
}

type analyzeGoalFeasibilityParams struct {
	GoalID            uuid.UUID `json:"goal_id"`
	CurrentValue      float64   `json:"current_value"`
	CurrentWeeklyRate float64   `json:"current_weekly_rate"`
}

func analyzeGoalFeasibility(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params analyzeGoalFeasibilityParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		stored, err := deps.Store.GetGoal(tc.Context, tc.User.ID, params.GoalID)
		if err != nil {
			return nil, err
		}
		return goals.AnalyzeFeasibility(deps.IntelConfig().GoalEngine, goalFromStorage(stored), params.CurrentValue, params.CurrentWeeklyRate, time.Now().UTC()), nil
	}
}
