package providers

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// encodeCursor packs (timestamp, id) into an opaque base64 token. Activities
// are always ordered by descending start time, so the pair uniquely
// positions a cursor even when two activities share a timestamp.
func encodeCursor(t time.Time, id string) string {
	raw := fmt.Sprintf("%d|%s", t.UnixNano(), id)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor is the inverse of encodeCursor.
func decodeCursor(cursor string) (time.Time, string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(cursor)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor: %w", err)
	}
	parts := strings.SplitN(string(raw), "|", 2)
	if len(parts) != 2 {
		return time.Time{}, "", fmt.Errorf("malformed cursor")
	}
	nanos, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return time.Time{}, "", fmt.Errorf("malformed cursor timestamp: %w", err)
	}
	return time.Unix(0, nanos), parts[1], nil
}

// paginate slices a descending-start-time activity list into one CursorPage
// per params, shared by every adapter whose upstream lacks native cursor
// pagination (all of them — Strava/Fitbit/Garmin/Whoop/Terra offer
// offset-based paging at best).
func paginate(all []Activity, params PaginationParams) (CursorPage, error) {
	limit := params.Limit
	if limit <= 0 || limit > MaxPageSize {
		limit = MaxPageSize
	}

	start := 0
	if params.Cursor != "" {
		cursorTime, cursorID, err := decodeCursor(params.Cursor)
		if err != nil {
			return CursorPage{}, err
		}
		for i, a := range all {
			if a.StartTime.Equal(cursorTime) && a.ID == cursorID {
				start = i + 1
				break
			}
		}
	}

	end := start + limit
	if end > len(all) {
		end = len(all)
	}
	page := all[start:end]

	result := CursorPage{Items: page, HasMore: end < len(all)}
	if len(page) > 0 {
		result.NextCursor = ""
		if result.HasMore {
			last := page[len(page)-1]
			result.NextCursor = encodeCursor(last.StartTime, last.ID)
		}
		if start > 0 {
			first := page[0]
			result.PrevCursor = encodeCursor(first.StartTime, first.ID)
		}
	}
	return result, nil
}
