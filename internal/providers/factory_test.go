package providers_test

import (
	"testing"

	"github.com/pierre-mcp/pierre/internal/providers"
)

func TestNewUnknownProvider(t *testing.T) {
	if _, err := providers.New("nope", nil, ""); err == nil {
		t.Fatal("expected error for unknown provider name")
	}
}

func TestNewSyntheticDoesNotNeedTokenSource(t *testing.T) {
	p, err := providers.New("synthetic", nil, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if p.Name() != "synthetic" {
		t.Fatalf("unexpected provider name %q", p.Name())
	}
}
