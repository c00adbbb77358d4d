// Package calendar builds the month view: a fixed 6-week grid and
// per-day summaries bucketed from a flat entry list.
package calendar

import (
	"time"

	"github.com/tyamagishi/kaizen/internal/dateutil"
	"github.com/tyamagishi/kaizen/internal/models"
)

// GridDays is the fixed size of a month grid: 6 weeks of 7 days.
const GridDays = 42

type Direction int

const (
	Prev Direction = iota
	Next
)

// BucketEntriesByDate folds entries into per-day summaries keyed by
// civil-date key. Count and max(updatedAt) are commutative, so the
// result is identical under any permutation of the input. An empty
// input yields an empty map, never an error.
func BucketEntriesByDate(entries []models.JournalEntry) map[string]models.DateStatus {
	statuses := make(map[string]models.DateStatus, len(entries))

	for _, entry := range entries {
		status, ok := statuses[entry.Date]
		if !ok {
			status = models.DateStatus{Date: entry.Date}
		}
		status.EntryCount++
		status.HasEntries = true
		if entry.UpdatedAt != nil {
			if status.LastUpdated == nil || entry.UpdatedAt.After(*status.LastUpdated) {
				updated := *entry.UpdatedAt
				status.LastUpdated = &updated
			}
		}
		statuses[entry.Date] = status
	}

	return statuses
}

// MonthGrid returns the 42 consecutive civil dates of the Monday-start
// grid containing the given month. Leading days come from the prior
// month, trailing days from the next, so the grid always holds whole
// weeks.
func MonthGrid(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, dateutil.Zone)

	// time.Weekday is Sunday-based; shift so Monday = 0.
	lead := (int(first.Weekday()) + 6) % 7
	start := first.AddDate(0, 0, -lead)

	grid := make([]time.Time, GridDays)
	for i := range grid {
		grid[i] = start.AddDate(0, 0, i)
	}
	return grid
}

// Navigate returns the same day-of-month in the adjacent calendar
// month. The day is clamped to the target month's length (Jan 31 back
// to Dec 31, Mar 31 back to Feb 29 or 28), so a short month is never
// skipped the way naive AddDate month arithmetic would.
func Navigate(current time.Time, dir Direction) time.Time {
	current = current.In(dateutil.Zone)

	delta := 1
	if dir == Prev {
		delta = -1
	}

	firstOfTarget := time.Date(current.Year(), current.Month(), 1, 0, 0, 0, 0, dateutil.Zone).
		AddDate(0, delta, 0)

	day := current.Day()
	if last := daysIn(firstOfTarget.Year(), firstOfTarget.Month()); day > last {
		day = last
	}

	return time.Date(firstOfTarget.Year(), firstOfTarget.Month(), day, 0, 0, 0, 0, dateutil.Zone)
}

func daysIn(year int, month time.Month) int {
	// Day zero of the following month is the last day of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, dateutil.Zone).Day()
}
