package dateutil

import (
	"testing"
	"time"
)

func TestDayKey_UsesFixedOffset(t *testing.T) {
	// 23:30 UTC on March 1 is already March 2 in UTC+9.
	instant := time.Date(2024, 3, 1, 23, 30, 0, 0, time.UTC)

	if got := DayKey(instant); got != "2024-03-02" {
		t.Errorf("DayKey = %q, want %q", got, "2024-03-02")
	}
}

func TestDayKey_IndependentOfInputLocation(t *testing.T) {
	// The same instant expressed in different zones must produce the
	// same key.
	utc := time.Date(2024, 6, 15, 3, 0, 0, 0, time.UTC)
	other := utc.In(time.FixedZone("UTC-8", -8*60*60))

	if DayKey(utc) != DayKey(other) {
		t.Errorf("DayKey differs by input zone: %q vs %q", DayKey(utc), DayKey(other))
	}
}

func TestParseDayKey_RoundTrip(t *testing.T) {
	keys := []string{"2024-01-01", "2024-02-29", "2024-12-31", "1999-06-15"}

	for _, key := range keys {
		parsed, err := ParseDayKey(key)
		if err != nil {
			t.Fatalf("ParseDayKey(%q) failed: %v", key, err)
		}
		if got := DayKey(parsed); got != key {
			t.Errorf("round trip of %q produced %q", key, got)
		}
	}
}

func TestParseDayKey_Invalid(t *testing.T) {
	for _, key := range []string{"", "2024-13-01", "24-01-01", "2024/01/01", "not-a-date"} {
		if _, err := ParseDayKey(key); err == nil {
			t.Errorf("ParseDayKey(%q) should have failed", key)
		}
	}
}

func TestParseDayKey_Midnight(t *testing.T) {
	parsed, err := ParseDayKey("2024-03-01")
	if err != nil {
		t.Fatalf("ParseDayKey failed: %v", err)
	}

	if parsed.Hour() != 0 || parsed.Minute() != 0 || parsed.Second() != 0 {
		t.Errorf("expected midnight, got %v", parsed)
	}
	_, offset := parsed.Zone()
	if offset != 9*60*60 {
		t.Errorf("expected +9h offset, got %d seconds", offset)
	}
}

func TestIsToday(t *testing.T) {
	if !IsToday(Today()) {
		t.Error("IsToday(Today()) should be true")
	}
	if IsToday("1970-01-01") {
		t.Error("IsToday should be false for an ancient date")
	}
}

func TestParseMonthKey(t *testing.T) {
	first, err := ParseMonthKey("2024-03")
	if err != nil {
		t.Fatalf("ParseMonthKey failed: %v", err)
	}
	if first.Year() != 2024 || first.Month() != time.March || first.Day() != 1 {
		t.Errorf("expected 2024-03-01, got %v", first)
	}

	if _, err := ParseMonthKey("2024-3"); err == nil {
		t.Error("ParseMonthKey should reject non-padded months")
	}
}
