package providers_test

import (
	"context"
	"testing"
	"time"

	"github.com/pierre-mcp/pierre/internal/providers"
)

func TestSyntheticCursorPaginationCoversAllActivities(t *testing.T) {
	ctx := context.Background()
	p := providers.NewSyntheticProvider(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))

	seen := map[string]bool{}
	var pageSizes []int
	cursor := ""
	for i := 0; i < 10; i++ {
		page, err := p.GetActivitiesCursor(ctx, providers.PaginationParams{Cursor: cursor, Limit: 10})
		if err != nil {
			t.Fatalf("GetActivitiesCursor: %v", err)
		}
		pageSizes = append(pageSizes, len(page.Items))
		for _, a := range page.Items {
			if seen[a.ID] {
				t.Fatalf("duplicate activity id %s across pages", a.ID)
			}
			seen[a.ID] = true
		}
		if !page.HasMore {
			if page.NextCursor != "" {
				t.Fatalf("expected empty NextCursor on last page, got %q", page.NextCursor)
			}
			break
		}
		cursor = page.NextCursor
	}

	if len(pageSizes) != 3 {
		t.Fatalf("expected 3 pages, got %d: %v", len(pageSizes), pageSizes)
	}
	if pageSizes[0] != 10 || pageSizes[1] != 10 || pageSizes[2] != 5 {
		t.Fatalf("unexpected page sizes: %v", pageSizes)
	}
	if len(seen) != 25 {
		t.Fatalf("expected union of 25 unique activities, got %d", len(seen))
	}
}

func TestSyntheticActivitiesDescendingStartTime(t *testing.T) {
	p := providers.NewSyntheticProvider(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	activities, err := p.GetActivities(context.Background(), 100, 0)
	if err != nil {
		t.Fatalf("GetActivities: %v", err)
	}
	for i := 1; i < len(activities); i++ {
		if activities[i].StartTime.After(activities[i-1].StartTime) {
			t.Fatalf("activities not in descending start-time order at index %d", i)
		}
	}
}

func TestSyntheticGetActivityNotFound(t *testing.T) {
	p := providers.NewSyntheticProvider(time.Now())
	if _, err := p.GetActivity(context.Background(), "does-not-exist"); err == nil {
		t.Fatal("expected error for unknown activity id")
	}
}
