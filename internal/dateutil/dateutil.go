// Package dateutil converts between instants and civil-date keys.
//
// All civil dates in the app are anchored to a fixed UTC+9 offset. The
// offset is a constant, not a loaded location, so results never depend
// on the host's timezone database or local setting.
package dateutil

import (
	"fmt"
	"time"
)

const DayKeyFormat = "2006-01-02"

// Zone is the fixed UTC+9 offset every civil date is computed against.
var Zone = time.FixedZone("UTC+9", 9*60*60)

// DayKey formats t as the canonical YYYY-MM-DD key of its UTC+9 civil
// date. This key is used everywhere dates are compared or grouped.
func DayKey(t time.Time) string {
	return t.In(Zone).Format(DayKeyFormat)
}

// ParseDayKey parses a YYYY-MM-DD key into midnight of that civil date
// in the fixed zone, so that DayKey(ParseDayKey(k)) == k.
func ParseDayKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation(DayKeyFormat, key, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, use YYYY-MM-DD: %w", key, err)
	}
	return t, nil
}

// MustParseDayKey is ParseDayKey for keys known to be valid, such as
// keys produced by DayKey itself.
func MustParseDayKey(key string) time.Time {
	t, err := ParseDayKey(key)
	if err != nil {
		panic(err)
	}
	return t
}

// Today returns the current UTC+9 civil date key.
func Today() string {
	return DayKey(time.Now())
}

// IsToday reports whether key names the current UTC+9 civil date.
func IsToday(key string) bool {
	return key == Today()
}

// MonthKey formats t as YYYY-MM in the fixed zone.
func MonthKey(t time.Time) string {
	return t.In(Zone).Format("2006-01")
}

// ParseMonthKey parses a YYYY-MM key into the first day of that month
// in the fixed zone.
func ParseMonthKey(key string) (time.Time, error) {
	t, err := time.ParseInLocation("2006-01", key, Zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, use YYYY-MM: %w", key, err)
	}
	return t, nil
}
