package recommendation_test

import (
	"reflect"
	"testing"

	"github.com/pierre-mcp/pierre/internal/intelligence/recommendation"
	"github.com/pierre-mcp/pierre/internal/intelligence/trainingload"
	"github.com/pierre-mcp/pierre/internal/intelligence/trends"
)

func TestGenerateIsDeterministic(t *testing.T) {
	load := trainingload.Result{VolumeSpikeSeverity: trainingload.SeverityHigh, InsufficientRecoverySeverity: trainingload.SeverityMedium}
	trend := trends.Result{Direction: trends.DirectionDeclining}

	first := recommendation.Generate(load, trend)
	second := recommendation.Generate(load, trend)

	if len(first) != len(second) {
		t.Fatalf("non-deterministic recommendation count: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if !reflect.DeepEqual(first[i], second[i]) {
			t.Fatalf("non-deterministic recommendation at index %d", i)
		}
	}
}

func TestGenerateEmptyWhenNoSignals(t *testing.T) {
	load := trainingload.Result{InsufficientData: true}
	trend := trends.Result{InsufficientData: true}
	if recs := recommendation.Generate(load, trend); len(recs) != 0 {
		t.Fatalf("expected no recommendations, got %d", len(recs))
	}
}

func TestGenerateHighVolumeSpikeIsHighPriority(t *testing.T) {
	load := trainingload.Result{VolumeSpikeSeverity: trainingload.SeverityHigh}
	recs := recommendation.Generate(load, trends.Result{InsufficientData: true})
	if len(recs) != 1 || recs[0].Priority != recommendation.PriorityHigh {
		t.Fatalf("expected one high-priority recommendation, got %+v", recs)
	}
}
