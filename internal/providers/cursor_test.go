package providers

import (
	"testing"
	"time"
)

func TestEncodeDecodeCursorRoundTrip(t *testing.T) {
	want := time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC)
	cursor := encodeCursor(want, "abc-123")

	got, id, err := decodeCursor(cursor)
	if err != nil {
		t.Fatalf("decodeCursor: %v", err)
	}
	if !got.Equal(want) || id != "abc-123" {
		t.Fatalf("got (%v, %q), want (%v, %q)", got, id, want, "abc-123")
	}
}

func TestDecodeCursorMalformed(t *testing.T) {
	if _, _, err := decodeCursor("not-valid-base64!!"); err == nil {
		t.Fatal("expected error for malformed cursor")
	}
}
