package tools

import (
	"time"

	"github.com/pierre-mcp/pierre/internal/apperr"
	"github.com/pierre-mcp/pierre/internal/executor"
	"github.com/pierre-mcp/pierre/internal/intelligence/recovery"
	"github.com/pierre-mcp/pierre/internal/intelligence/sleep"
	"github.com/pierre-mcp/pierre/internal/intelligence/trends"
)

var sleepDataSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"duration_hours":     map[string]any{"type": "number", "description": "Total time asleep, in hours."},
		"efficiency_percent": map[string]any{"type": "number", "description": "Time asleep divided by time in bed, as a percent."},
		"deep_sleep_hours":   map[string]any{"type": "number"},
		"rem_sleep_hours":    map[string]any{"type": "number"},
		"light_sleep_hours":  map[string]any{"type": "number"},
		"awake_hours":        map[string]any{"type": "number", "description": "Time spent awake during the night."},
		"hrv_rmssd_ms":       map[string]any{"type": "number", "description": "Overnight HRV (RMSSD), in milliseconds."},
		"hrv_baseline_ms":    map[string]any{"type": "number", "description": "Rolling HRV baseline to compare against, in milliseconds."},
		"is_athlete":         map[string]any{"type": "boolean"},
	},
	"required": []string{"duration_hours", "efficiency_percent"},
}

var analyzeSleepQualitySchema = mustSchema(map[string]any{
	"sleep_data": sleepDataSchema,
}, "sleep_data")

var recoveryScoreSchema = mustSchema(map[string]any{
	"ctl":         map[string]any{"type": "number", "description": "Chronic training load."},
	"atl":         map[string]any{"type": "number", "description": "Acute training load."},
	"tsb":         map[string]any{"type": "number", "description": "Training stress balance (ctl minus atl)."},
	"sleep_score": map[string]any{"type": "number", "description": "0-100 sleep quality score, e.g. analyze_sleep_quality's overall_score."},
	"hrv_score":   map[string]any{"type": "number", "description": "Optional 0-100 HRV readiness score."},
}, "ctl", "atl", "tsb", "sleep_score")

var trackSleepTrendsSchema = mustSchema(map[string]any{
	"points": map[string]any{
		"type": "array",
		"items": map[string]any{
			"type": "object",
			"properties": map[string]any{
				"when":  map[string]any{"type": "string", "format": "date-time"},
				"score": map[string]any{"type": "number"},
			},
			"required": []string{"when", "score"},
		},
	},
}, "points")

var optimizeSleepScheduleSchema = mustSchema(map[string]any{
	"wake_time":  map[string]any{"type": "string", "format": "date-time"},
	"is_athlete": map[string]any{"type": "boolean"},
}, "wake_time")

func registerSleepTools(ex *executor.Executor, deps Deps) {
	ex.Register(executor.Tool{
		Name:        "analyze_sleep_quality",
		Description: "Scores one night's sleep session against configured duration/efficiency/stage bands.",
		Schema:      analyzeSleepQualitySchema,
		Execute:     analyzeSleepQuality(deps),
	})
	ex.Register(executor.Tool{
		Name:        "calculate_recovery_score",
		Description: "Composes TSB, sleep, and optional HRV scores into a recovery readiness result.",
		Schema:      recoveryScoreSchema,
		Execute:     calculateRecoveryScore(deps),
	})
	ex.Register(executor.Tool{
		Name:        "suggest_rest_day",
		Description: "Recommends whether today should be a rest day based on recovery readiness.",
		Schema:      recoveryScoreSchema,
		Execute:     suggestRestDay(deps),
	})
	ex.Register(executor.Tool{
		Name:        "track_sleep_trends",
		Description: "Fits a trend line to a series of nightly sleep-quality scores.",
		Schema:      trackSleepTrendsSchema,
		Execute:     trackSleepTrends(deps),
	})
	ex.Register(executor.Tool{
		Name:        "optimize_sleep_schedule",
		Description: "Suggests a bedtime that hits the configured sleep-duration band given a fixed wake time.",
		Schema:      optimizeSleepScheduleSchema,
		Execute:     optimizeSleepSchedule(deps),
	})
}

// sleepDataParams is the wire shape of one night's sleep session: hours for
// duration and every stage, a percent for efficiency. analyze_sleep_quality
// takes it nested under "sleep_data" rather than flat.
type sleepDataParams struct {
	DurationHours     float64  `json:"duration_hours"`
	EfficiencyPercent float64  `json:"efficiency_percent"`
	DeepSleepHours    float64  `json:"deep_sleep_hours"`
	RemSleepHours     float64  `json:"rem_sleep_hours"`
	LightSleepHours   float64  `json:"light_sleep_hours"`
	AwakeHours        float64  `json:"awake_hours"`
	HRVRmssdMs        *float64 `json:"hrv_rmssd_ms"`
	HRVBaselineMs     *float64 `json:"hrv_baseline_ms"`
	IsAthlete         bool     `json:"is_athlete"`
}

// toSession converts the hours-based wire shape to sleep.Session, whose
// stage fields are percentages of total sleep time.
func (p sleepDataParams) toSession() sleep.Session {
	pctOfTotal := func(hours float64) float64 {
		if p.DurationHours == 0 {
			return 0
		}
		return hours / p.DurationHours * 100
	}
	return sleep.Session{
		DurationHours: p.DurationHours,
		EfficiencyPct: p.EfficiencyPercent,
		DeepPct:       pctOfTotal(p.DeepSleepHours),
		RemPct:        pctOfTotal(p.RemSleepHours),
		LightPct:      pctOfTotal(p.LightSleepHours),
		AwakePct:      pctOfTotal(p.AwakeHours),
		HRVRmssd:      p.HRVRmssdMs,
		HRVBaseline:   p.HRVBaselineMs,
		IsAthlete:     p.IsAthlete,
	}
}

type analyzeSleepQualityParams struct {
	SleepData sleepDataParams `json:"sleep_data"`
}

// sleepQualityView is sleep.Result reshaped so overall_score and
// quality_category sit directly under sleep_quality, with hrv_analysis
// lifted to the top level alongside it.
type sleepQualityView struct {
	OverallScore    float64               `json:"overall_score"`
	QualityCategory sleep.QualityCategory `json:"quality_category"`
	ComponentScores sleep.ComponentScores `json:"component_scores"`
	Insights        []string              `json:"insights"`
}

type analyzeSleepQualityResult struct {
	SleepQuality sleepQualityView   `json:"sleep_quality"`
	HRVAnalysis  *sleep.HRVAnalysis `json:"hrv_analysis,omitempty"`
}

func analyzeSleepQuality(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params analyzeSleepQualityParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		if params.SleepData.DurationHours == 0 {
			return nil, apperr.New(apperr.KindValidation, "sleep_data.duration_hours is required")
		}

		result := sleep.Analyze(deps.IntelConfig().SleepRecovery, params.SleepData.toSession())
		return analyzeSleepQualityResult{
			SleepQuality: sleepQualityView{
				OverallScore:    result.OverallScore,
				QualityCategory: result.QualityCategory,
				ComponentScores: result.ComponentScores,
				Insights:        result.Insights,
			},
			HRVAnalysis: result.HRVAnalysis,
		}, nil
	}
}

type recoveryScoreParams struct {
	CTL        float64  `json:"ctl"`
	ATL        float64  `json:"atl"`
	TSB        float64  `json:"tsb"`
	SleepScore float64  `json:"sleep_score"`
	HRVScore   *float64 `json:"hrv_score"`
}

func calculateRecoveryScore(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params recoveryScoreParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		load := recovery.TrainingLoad{CTL: params.CTL, ATL: params.ATL, TSB: params.TSB}
		return recovery.Score(deps.IntelConfig().SleepRecovery, load, params.SleepScore, params.HRVScore), nil
	}
}

type suggestRestDayResult struct {
	Rest      bool               `json:"rest"`
	Readiness recovery.Readiness `json:"readiness"`
	Reason    string             `json:"reason"`
}

func suggestRestDay(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params recoveryScoreParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		load := recovery.TrainingLoad{CTL: params.CTL, ATL: params.ATL, TSB: params.TSB}
		result := recovery.Score(deps.IntelConfig().SleepRecovery, load, params.SleepScore, params.HRVScore)

		rest := result.TrainingReadiness == recovery.ReadinessLow
		reason := "recovery readiness supports training today"
		if rest {
			reason = "low training readiness, a rest or active-recovery day is recommended"
		}
		return suggestRestDayResult{Rest: rest, Readiness: result.TrainingReadiness, Reason: reason}, nil
	}
}

type sleepTrendPointParams struct {
	When  time.Time `json:"when"`
	Score float64   `json:"score"`
}

type trackSleepTrendsParams struct {
	Points []sleepTrendPointParams `json:"points"`
}

func trackSleepTrends(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params trackSleepTrendsParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		points := make([]trends.Point, len(params.Points))
		for i, p := range params.Points {
			points[i] = trends.Point{When: p.When, Value: p.Score}
		}
		return trends.Analyze(deps.IntelConfig().PerformanceAnalyzer, points), nil
	}
}

type optimizeSleepScheduleParams struct {
	WakeTime  time.Time `json:"wake_time"`
	IsAthlete bool      `json:"is_athlete"`
}

type optimizeSleepScheduleResult struct {
	SuggestedBedtime string  `json:"suggested_bedtime"`
	TargetHours      float64 `json:"target_hours"`
}

func optimizeSleepSchedule(deps Deps) func(executor.ToolContext) (any, error) {
	return func(tc executor.ToolContext) (any, error) {
		var params optimizeSleepScheduleParams
		if err := decodeParams(tc, &params); err != nil {
			return nil, err
		}
		cfg := deps.IntelConfig().SleepRecovery.SleepDuration
		target := cfg.AdultMinHours
		if params.IsAthlete {
			target = cfg.AthleteOptimalHours
		}
		bedtime := params.WakeTime.Add(-time.Duration(target * float64(time.Hour)))
		return optimizeSleepScheduleResult{
			SuggestedBedtime: bedtime.Format(time.RFC3339),
			TargetHours:      target,
		}, nil
	}
}
